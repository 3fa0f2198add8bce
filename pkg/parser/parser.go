// Package parser implements the front end of the prefix expression compiler.
//
// # Usage
//
//	tokens, err := parser.Lex("(* 2 (+ 3 4))")
//	if err != nil {
//	    // handle error
//	}
//	root, err := parser.ParseProgram(tokens)
//
// # Grammar
//
// Every operator is binary and grouping is always explicit:
//
//	expr     → NUMBER | SYMBOL | '(' SYMBOL expr expr ')'
//	program  → expr
//
// The parser is recursive descent over an already lexed token slice. The root
// group is checked for balance with NextExpressionEnd once; below it, each
// child returns the index one past its last token, which is where the next
// sibling starts. The end index of every node equals NextExpressionEnd at its
// start, parsing is linear in the number of tokens and the recursion depth
// equals the parenthesis nesting depth of the input.
package parser

import (
	"fmt"

	"github.com/leapstack-labs/stackc/pkg/token"
)

// Parser builds expression trees from a token sequence.
type Parser struct {
	tokens []Token
}

// NewParser creates a parser over tokens. The slice is only read.
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// ParseProgram parses tokens as exactly one expression starting at index 0.
// An empty sequence and tokens left over after the expression are both
// malformed.
func ParseProgram(tokens []Token) (Node, error) {
	if len(tokens) == 0 {
		return nil, &MalformedExpressionError{Index: 0, Message: ErrEmptyProgram}
	}

	root, end, err := Parse(tokens, 0)
	if err != nil {
		return nil, err
	}
	if end != len(tokens) {
		return nil, &MalformedExpressionError{
			Index:   end,
			Pos:     tokens[end].Pos,
			Message: fmt.Sprintf(ErrTrailingTokens, tokens[end]),
		}
	}
	return root, nil
}

// Parse builds the node starting at tokens[start] and returns it together
// with the index one past its last token.
func Parse(tokens []Token, start int) (Node, int, error) {
	if start >= 0 && start < len(tokens) && tokens[start].Category == token.LPAREN {
		// Every group nested in a balanced group is balanced too.
		if _, err := NextExpressionEnd(tokens, start); err != nil {
			return nil, 0, err
		}
	}
	return NewParser(tokens).parseNode(start)
}

// parseNode dispatches on the category of the token at start.
func (p *Parser) parseNode(start int) (Node, int, error) {
	if start < 0 || start >= len(p.tokens) {
		return nil, 0, p.errorAt(start, ErrUnexpectedEnd)
	}

	tok := p.tokens[start]
	switch tok.Category {
	case token.NUMBER:
		return &NumberLeaf{Index: start, Token: tok}, start + 1, nil
	case token.SYMBOL:
		return &SymbolLeaf{Index: start, Token: tok}, start + 1, nil
	case token.LPAREN:
		return p.parseExpression(start)
	case token.RPAREN:
		return nil, 0, p.errorAt(start, ErrUnexpectedRParen)
	default:
		return nil, 0, p.errorAt(start, fmt.Sprintf(ErrUnexpectedCategory, tok))
	}
}

// parseExpression parses '(' operator left right ')' starting at the '('.
// The group is balanced, so the first ')' reached at this level closes it.
func (p *Parser) parseExpression(start int) (Node, int, error) {
	// Operator: always the single token after '('.
	opIdx := start + 1
	if p.closesAt(opIdx) {
		return nil, 0, p.errorAt(opIdx, ErrMissingOperator)
	}
	if opIdx >= len(p.tokens) {
		return nil, 0, p.errorAt(opIdx, ErrUnexpectedEnd)
	}
	opTok := p.tokens[opIdx]
	if opTok.Category != token.SYMBOL {
		return nil, 0, p.errorAt(opIdx, fmt.Sprintf(ErrOperatorNotSymbol, opTok))
	}
	op := &SymbolLeaf{Index: opIdx, Token: opTok}

	// Left operand
	leftStart := opIdx + 1
	if p.closesAt(leftStart) {
		return nil, 0, p.errorAt(leftStart, fmt.Sprintf(ErrMissingLeft, opTok.Text))
	}
	left, leftEnd, err := p.parseNode(leftStart)
	if err != nil {
		return nil, 0, err
	}

	// Right operand starts where the left one ends.
	if p.closesAt(leftEnd) {
		return nil, 0, p.errorAt(leftEnd, fmt.Sprintf(ErrMissingRight, opTok.Text))
	}
	right, rightEnd, err := p.parseNode(leftEnd)
	if err != nil {
		return nil, 0, err
	}

	if !p.closesAt(rightEnd) {
		if rightEnd >= len(p.tokens) {
			return nil, 0, p.errorAt(rightEnd, ErrUnexpectedEnd)
		}
		return nil, 0, p.errorAt(rightEnd, fmt.Sprintf(ErrTooManyOperands, opTok.Text, p.tokens[rightEnd]))
	}
	end := rightEnd + 1

	return &Expression{
		Operator: op,
		Left:     left,
		Right:    right,
		Start:    start,
		End:      end,
	}, end, nil
}

// closesAt reports whether tokens[index] is a ')'.
func (p *Parser) closesAt(index int) bool {
	return index < len(p.tokens) && p.tokens[index].Category == token.RPAREN
}

func (p *Parser) errorAt(index int, msg string) error {
	pos := endPosition(p.tokens)
	if index >= 0 && index < len(p.tokens) {
		pos = p.tokens[index].Pos
	}
	return &MalformedExpressionError{Index: index, Pos: pos, Message: msg}
}
