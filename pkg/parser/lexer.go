package parser

import (
	"fmt"

	"github.com/leapstack-labs/stackc/pkg/token"
)

// Lexer tokenizes prefix expression source text.
//
// A token boundary is crossed whenever the previous character was a
// parenthesis or the category of the current character differs from the
// previous one. Characters classified as NONE never extend a token and never
// produce one.
type Lexer struct {
	input string
	pos   int // offset of the next unread byte
	line  int // line of input[pos] (1-based)
	col   int // column of input[pos] (1-based)

	// maxTokenLen bounds the length of a single token; 0 means unbounded.
	maxTokenLen int
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input: input,
		line:  1,
		col:   1,
	}
}

// NewLexerWithLimit creates a Lexer that rejects tokens longer than maxTokenLen bytes.
// A limit of zero or less disables the check.
func NewLexerWithLimit(input string, maxTokenLen int) *Lexer {
	l := NewLexer(input)
	if maxTokenLen > 0 {
		l.maxTokenLen = maxTokenLen
	}
	return l
}

// readChar advances past the current byte.
func (l *Lexer) readChar() {
	if l.input[l.pos] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.pos++
}

func (l *Lexer) currentPos() Position {
	return Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

// skipNone skips characters that belong to no token.
func (l *Lexer) skipNone() {
	for l.pos < len(l.input) && token.Classify(l.input[l.pos]) == token.NONE {
		l.readChar()
	}
}

// NextToken returns the next token. Once the input is exhausted it returns a
// token with category NONE and empty text.
func (l *Lexer) NextToken() (Token, error) {
	l.skipNone()

	pos := l.currentPos()
	if l.pos >= len(l.input) {
		return Token{Category: token.NONE, Pos: pos}, nil
	}

	start := l.pos
	cat := token.Classify(l.input[l.pos])
	l.readChar()

	// Parentheses are always single-character tokens.
	if !cat.IsParen() {
		for l.pos < len(l.input) && token.Classify(l.input[l.pos]) == cat {
			l.readChar()
		}
	}

	text := l.input[start:l.pos]
	if l.maxTokenLen > 0 && len(text) > l.maxTokenLen {
		return Token{}, &LexError{
			Pos:     pos,
			Message: fmt.Sprintf(ErrTokenTooLong, cat, len(text), l.maxTokenLen),
		}
	}

	return Token{Category: cat, Text: text, Pos: pos}, nil
}

// Lex tokenizes the whole input. An empty or all-whitespace input yields an
// empty, non-nil slice.
func Lex(source string) ([]Token, error) {
	return NewLexer(source).All()
}

// All drains the lexer and returns every remaining token in source order.
func (l *Lexer) All() ([]Token, error) {
	tokens := make([]Token, 0, Measure(l.input[l.pos:]))
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		if tok.Category == token.NONE {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

// Measure returns the number of tokens Lex would produce for source without
// allocating them: the number of maximal same-category runs, with every
// parenthesis counted individually.
func Measure(source string) int {
	count := 0
	prev := token.NONE
	for i := 0; i < len(source); i++ {
		curr := token.Classify(source[i])
		if prev != token.NONE && (prev.IsParen() || curr != prev) {
			count++
		}
		prev = curr
	}
	if prev != token.NONE {
		count++
	}
	return count
}
