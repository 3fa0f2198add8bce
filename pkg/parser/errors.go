package parser

import (
	"errors"
	"fmt"
)

// Sentinel errors matched through errors.Is by the typed errors below.
var (
	ErrLex        = errors.New("lex error")
	ErrUnbalanced = errors.New("unbalanced parentheses")
	ErrMalformed  = errors.New("malformed expression")
)

// LexError represents a lexical analysis error.
type LexError struct {
	Pos     Position
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexer error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Is reports whether target is ErrLex.
func (e *LexError) Is(target error) bool {
	return target == ErrLex
}

// UnbalancedParenthesesError is returned when the matching ')' of a group
// would lie past the end of the token sequence.
type UnbalancedParenthesesError struct {
	Index int      // token index of the unmatched '('
	Pos   Position // source position of the unmatched '('
	Depth int      // parentheses still open at end of input
}

func (e *UnbalancedParenthesesError) Error() string {
	return fmt.Sprintf("unbalanced parentheses: '(' at line %d, column %d (token %d) is missing %d closing %s",
		e.Pos.Line, e.Pos.Column, e.Index, e.Depth, plural(e.Depth, "parenthesis", "parentheses"))
}

// Is reports whether target is ErrUnbalanced.
func (e *UnbalancedParenthesesError) Is(target error) bool {
	return target == ErrUnbalanced
}

// MalformedExpressionError is returned when a node cannot be built at a token
// index: a ')' where an expression must start, a missing operator or operand,
// or extra tokens where a ')' is required.
type MalformedExpressionError struct {
	Index   int
	Pos     Position // zero when the error is at end of input with no tokens
	Message string
}

func (e *MalformedExpressionError) Error() string {
	if !e.Pos.IsValid() {
		return fmt.Sprintf("malformed expression: %s", e.Message)
	}
	return fmt.Sprintf("malformed expression at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Is reports whether target is ErrMalformed.
func (e *MalformedExpressionError) Is(target error) bool {
	return target == ErrMalformed
}

// Common error messages
const (
	ErrTokenTooLong       = "%s token of %d bytes exceeds the limit of %d"
	ErrEmptyProgram       = "empty program, expected an expression"
	ErrUnexpectedEnd      = "unexpected end of input, expected an expression"
	ErrUnexpectedRParen   = "unexpected ')', expected an expression"
	ErrMissingOperator    = "empty expression, expected an operator"
	ErrOperatorNotSymbol  = "expected an operator symbol, found %s"
	ErrMissingLeft        = "operator %q is missing its left operand"
	ErrMissingRight       = "operator %q is missing its right operand"
	ErrTooManyOperands    = "expected ')' after the second operand of %q, found %s (operators are binary)"
	ErrTrailingTokens     = "unexpected %s after the end of the expression"
	ErrUnexpectedCategory = "unexpected token %s, expected an expression"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
