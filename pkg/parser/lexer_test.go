package parser_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/leapstack-labs/stackc/pkg/parser"
	"github.com/leapstack-labs/stackc/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lexed struct {
	cat  token.Category
	text string
}

func pairs(tokens []parser.Token) []lexed {
	out := make([]lexed, len(tokens))
	for i, tok := range tokens {
		out[i] = lexed{tok.Category, tok.Text}
	}
	return out
}

func TestLex(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []lexed
	}{
		{
			name:   "simple expression",
			source: "(+ 1 2)",
			want: []lexed{
				{token.LPAREN, "("},
				{token.SYMBOL, "+"},
				{token.NUMBER, "1"},
				{token.NUMBER, "2"},
				{token.RPAREN, ")"},
			},
		},
		{
			name:   "nested expression",
			source: "(* 2 (+ 3 4))",
			want: []lexed{
				{token.LPAREN, "("},
				{token.SYMBOL, "*"},
				{token.NUMBER, "2"},
				{token.LPAREN, "("},
				{token.SYMBOL, "+"},
				{token.NUMBER, "3"},
				{token.NUMBER, "4"},
				{token.RPAREN, ")"},
				{token.RPAREN, ")"},
			},
		},
		{
			name:   "multi character runs",
			source: "(add 123 ab)",
			want: []lexed{
				{token.LPAREN, "("},
				{token.SYMBOL, "add"},
				{token.NUMBER, "123"},
				{token.SYMBOL, "ab"},
				{token.RPAREN, ")"},
			},
		},
		{
			name:   "category change splits a run",
			source: "ab12cd",
			want: []lexed{
				{token.SYMBOL, "ab"},
				{token.NUMBER, "12"},
				{token.SYMBOL, "cd"},
			},
		},
		{
			name:   "letters and operator characters share a run",
			source: "(a+b +a min<= x-1)",
			want: []lexed{
				{token.LPAREN, "("},
				{token.SYMBOL, "a+b"},
				{token.SYMBOL, "+a"},
				{token.SYMBOL, "min<="},
				{token.SYMBOL, "x-"},
				{token.NUMBER, "1"},
				{token.RPAREN, ")"},
			},
		},
		{
			name:   "negative literal is an operator run then a number",
			source: "(- -5 3)",
			want: []lexed{
				{token.LPAREN, "("},
				{token.SYMBOL, "-"},
				{token.SYMBOL, "-"},
				{token.NUMBER, "5"},
				{token.NUMBER, "3"},
				{token.RPAREN, ")"},
			},
		},
		{
			name:   "adjacent parens are separate tokens",
			source: "(())",
			want: []lexed{
				{token.LPAREN, "("},
				{token.LPAREN, "("},
				{token.RPAREN, ")"},
				{token.RPAREN, ")"},
			},
		},
		{
			name:   "unknown characters separate tokens",
			source: "12,34;5",
			want: []lexed{
				{token.NUMBER, "12"},
				{token.NUMBER, "34"},
				{token.NUMBER, "5"},
			},
		},
		{
			name:   "no whitespace around parens",
			source: "(+1(*2 3))",
			want: []lexed{
				{token.LPAREN, "("},
				{token.SYMBOL, "+"},
				{token.NUMBER, "1"},
				{token.LPAREN, "("},
				{token.SYMBOL, "*"},
				{token.NUMBER, "2"},
				{token.NUMBER, "3"},
				{token.RPAREN, ")"},
				{token.RPAREN, ")"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := parser.Lex(tt.source)
			require.NoError(t, err)
			assert.Equal(t, tt.want, pairs(tokens))
			assert.Equal(t, len(tt.want), parser.Measure(tt.source))
		})
	}
}

func TestLexEmpty(t *testing.T) {
	for _, source := range []string{"", " ", "\n\t  \r\n", ".,;"} {
		tokens, err := parser.Lex(source)
		require.NoError(t, err)
		assert.NotNil(t, tokens)
		assert.Empty(t, tokens, "source %q", source)
		assert.Zero(t, parser.Measure(source))
	}
}

func TestLexDigitsOnly(t *testing.T) {
	for _, source := range []string{"0", "7", "42", "1234567890", strings.Repeat("9", 100)} {
		tokens, err := parser.Lex(source)
		require.NoError(t, err)
		require.Len(t, tokens, 1)
		assert.Equal(t, token.NUMBER, tokens[0].Category)
		assert.Equal(t, source, tokens[0].Text)
	}
}

func TestLexPositions(t *testing.T) {
	tokens, err := parser.Lex("(+ 10\n  ab)")
	require.NoError(t, err)
	require.Len(t, tokens, 5)

	assert.Equal(t, parser.Position{Line: 1, Column: 1, Offset: 0}, tokens[0].Pos)
	assert.Equal(t, parser.Position{Line: 1, Column: 2, Offset: 1}, tokens[1].Pos)
	assert.Equal(t, parser.Position{Line: 1, Column: 4, Offset: 3}, tokens[2].Pos)
	assert.Equal(t, parser.Position{Line: 2, Column: 3, Offset: 8}, tokens[3].Pos)
	assert.Equal(t, parser.Position{Line: 2, Column: 5, Offset: 10}, tokens[4].Pos)
}

func TestLexRelexIsIdempotent(t *testing.T) {
	sources := []string{
		"(+ 1 2)",
		"(*2(+ 3 4))",
		"(add ab12 (sub 7 x))",
		"  ((  )) 99 zz ",
	}

	for _, source := range sources {
		tokens, err := parser.Lex(source)
		require.NoError(t, err)

		texts := make([]string, len(tokens))
		for i, tok := range tokens {
			texts[i] = tok.Text
		}

		again, err := parser.Lex(strings.Join(texts, " "))
		require.NoError(t, err)
		assert.Equal(t, pairs(tokens), pairs(again), "source %q", source)
	}
}

func TestLexerNextToken(t *testing.T) {
	l := parser.NewLexer(" 12 ")

	tok, err := l.NextToken()
	require.NoError(t, err)
	assert.Equal(t, token.NUMBER, tok.Category)

	tok, err = l.NextToken()
	require.NoError(t, err)
	assert.Equal(t, token.NONE, tok.Category)
	assert.Empty(t, tok.Text)

	// Stays exhausted.
	tok, err = l.NextToken()
	require.NoError(t, err)
	assert.Equal(t, token.NONE, tok.Category)
}

func TestLexerTokenLimit(t *testing.T) {
	tokens, err := parser.NewLexerWithLimit("(+ 1234 5)", 4).All()
	require.NoError(t, err)
	assert.Len(t, tokens, 5)

	_, err = parser.NewLexerWithLimit("(+ 12345 5)", 4).All()
	require.Error(t, err)
	assert.True(t, errors.Is(err, parser.ErrLex))

	var lexErr *parser.LexError
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, 4, lexErr.Pos.Column)
	assert.Contains(t, lexErr.Error(), "exceeds the limit of 4")

	// A non-positive limit disables the check.
	_, err = parser.NewLexerWithLimit(strings.Repeat("a", 64), 0).All()
	assert.NoError(t, err)
}
