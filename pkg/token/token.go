// Package token defines the lexical categories of the prefix expression language.
//
// The language has four token categories: left and right parentheses, symbols
// (runs of ASCII letters and operator punctuation such as + or *) and numbers
// (runs of ASCII digits). Every other character is outside any token and only
// separates tokens.
package token

import (
	"fmt"
	"strings"
)

// Category is the lexical category of a character or token.
type Category int32

const (
	// NONE marks characters that belong to no token (whitespace and everything else).
	NONE Category = iota
	LPAREN
	RPAREN
	SYMBOL
	NUMBER
)

var categoryNames = map[Category]string{
	NONE:   "NONE",
	LPAREN: "LPAREN",
	RPAREN: "RPAREN",
	SYMBOL: "SYMBOL",
	NUMBER: "NUMBER",
}

// String returns a human-readable representation of the category.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CATEGORY(%d)", c)
}

// IsParen reports whether tokens of this category are always a single character.
func (c Category) IsParen() bool {
	return c == LPAREN || c == RPAREN
}

// MarshalText implements encoding.TextMarshaler so categories render by name
// in JSON and YAML output.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	for cat, name := range categoryNames {
		if name == string(text) {
			*c = cat
			return nil
		}
	}
	return fmt.Errorf("unknown token category %q", text)
}

// Classify maps a single byte to its category. It is total: any byte that is
// not a parenthesis, ASCII digit, ASCII letter or operator character
// classifies as NONE.
func Classify(ch byte) Category {
	switch {
	case ch == '(':
		return LPAREN
	case ch == ')':
		return RPAREN
	case isDigit(ch):
		return NUMBER
	case isLetter(ch), isOperatorChar(ch):
		return SYMBOL
	default:
		return NONE
	}
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isLetter(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

// OperatorChars lists the punctuation that lexes as part of a symbol.
const OperatorChars = "+-*/%^<>=!&|~?_"

func isOperatorChar(ch byte) bool {
	return ch != 0 && strings.IndexByte(OperatorChars, ch) >= 0
}

// Token represents a lexical token.
type Token struct {
	Category Category `json:"category" yaml:"category"`
	Text     string   `json:"text" yaml:"text"`
	Pos      Position `json:"pos" yaml:"pos"`
}

// String returns a compact representation used in diagnostics.
func (t Token) String() string {
	return fmt.Sprintf("%s(%q)", t.Category, t.Text)
}

// Span returns the source range covered by the token.
func (t Token) Span() Span {
	end := t.Pos
	end.Offset += len(t.Text)
	end.Column += len(t.Text)
	return Span{Start: t.Pos, End: end}
}
