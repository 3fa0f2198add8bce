package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		ch   byte
		want Category
	}{
		{'(', LPAREN},
		{')', RPAREN},
		{'0', NUMBER},
		{'7', NUMBER},
		{'9', NUMBER},
		{'a', SYMBOL},
		{'Z', SYMBOL},
		{' ', NONE},
		{'\t', NONE},
		{'\n', NONE},
		{'+', SYMBOL},
		{'-', SYMBOL},
		{'*', SYMBOL},
		{'/', SYMBOL},
		{'_', SYMBOL},
		{'.', NONE},
		{',', NONE},
		{';', NONE},
		{0, NONE},
		{0xff, NONE},
	}

	for _, tt := range tests {
		t.Run(string(tt.ch), func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.ch))
		})
	}
}

func TestClassifyIsTotal(t *testing.T) {
	for i := 0; i < 256; i++ {
		c := Classify(byte(i))
		assert.Contains(t, []Category{NONE, LPAREN, RPAREN, SYMBOL, NUMBER}, c)
	}
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "LPAREN", LPAREN.String())
	assert.Equal(t, "NUMBER", NUMBER.String())
	assert.Equal(t, "CATEGORY(42)", Category(42).String())

	text, err := SYMBOL.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "SYMBOL", string(text))

	var c Category
	assert.NoError(t, c.UnmarshalText([]byte("RPAREN")))
	assert.Equal(t, RPAREN, c)
	assert.Error(t, c.UnmarshalText([]byte("COMMA")))
}

func TestCategoryIsParen(t *testing.T) {
	assert.True(t, LPAREN.IsParen())
	assert.True(t, RPAREN.IsParen())
	assert.False(t, SYMBOL.IsParen())
	assert.False(t, NUMBER.IsParen())
	assert.False(t, NONE.IsParen())
}

func TestTokenSpan(t *testing.T) {
	tok := Token{Category: NUMBER, Text: "123", Pos: Position{Line: 1, Column: 4, Offset: 3}}
	span := tok.Span()

	assert.True(t, span.IsValid())
	assert.Equal(t, 6, span.End.Offset)
	assert.Equal(t, 7, span.End.Column)
	assert.True(t, span.Contains(3))
	assert.True(t, span.Contains(5))
	assert.False(t, span.Contains(6))
	assert.Equal(t, `NUMBER("123")`, tok.String())
}

func TestPositionString(t *testing.T) {
	assert.Equal(t, "3:14", Position{Line: 3, Column: 14}.String())
	assert.Equal(t, "-", Position{}.String())
}
