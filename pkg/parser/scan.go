package parser

import "github.com/leapstack-labs/stackc/pkg/token"

// NextExpressionEnd returns the index one past the end of the sub-expression
// starting at tokens[start].
//
// A '(' starts a group that ends one past its matching ')'; any other token is
// a sub-expression of exactly one token. A group whose ')' is missing yields
// an *UnbalancedParenthesesError; a start index outside the sequence yields a
// *MalformedExpressionError.
func NextExpressionEnd(tokens []Token, start int) (int, error) {
	if start < 0 || start >= len(tokens) {
		return 0, &MalformedExpressionError{
			Index:   start,
			Pos:     endPosition(tokens),
			Message: ErrUnexpectedEnd,
		}
	}

	if tokens[start].Category != token.LPAREN {
		return start + 1, nil
	}

	depth := 1
	for i := start + 1; i < len(tokens); i++ {
		switch tokens[i].Category {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
			if depth == 0 {
				return i + 1, nil
			}
		}
	}

	return 0, &UnbalancedParenthesesError{
		Index: start,
		Pos:   tokens[start].Pos,
		Depth: depth,
	}
}

// endPosition returns the position just past the last token, or the zero
// position when there are no tokens.
func endPosition(tokens []Token) Position {
	if len(tokens) == 0 {
		return Position{}
	}
	return tokens[len(tokens)-1].Span().End
}
