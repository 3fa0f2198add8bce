package codegen_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/leapstack-labs/stackc/pkg/codegen"
	"github.com/leapstack-labs/stackc/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generate(t *testing.T, source string) []codegen.Instruction {
	t.Helper()
	tokens, err := parser.Lex(source)
	require.NoError(t, err)
	root, err := parser.ParseProgram(tokens)
	require.NoError(t, err)
	return codegen.Generate(root)
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []string
	}{
		{
			name:   "simple addition",
			source: "(+ 1 2)",
			want:   []string{"push 1", "push 2", "+"},
		},
		{
			name:   "nested right operand",
			source: "(* 2 (+ 3 4))",
			want:   []string{"push 2", "push 3", "push 4", "+", "*"},
		},
		{
			name:   "nested left operand",
			source: "(- (+ 1 2) 3)",
			want:   []string{"push 1", "push 2", "+", "push 3", "-"},
		},
		{
			name:   "both operands nested",
			source: "(/ (* 6 7) (- 9 2))",
			want:   []string{"push 6", "push 7", "*", "push 9", "push 2", "-", "/"},
		},
		{
			name:   "symbol operand emitted verbatim",
			source: "(+ ab 5)",
			want:   []string{"ab", "push 5", "+"},
		},
		{
			name:   "single number",
			source: "42",
			want:   []string{"push 42"},
		},
		{
			name:   "named operator",
			source: "(add 10 20)",
			want:   []string{"push 10", "push 20", "add"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			instrs := generate(t, tt.source)
			assert.Equal(t, tt.want, codegen.Lines(instrs, codegen.PushMnemonic))
		})
	}
}

func TestGenerateOneInstructionPerNode(t *testing.T) {
	source := "(max (min 1 2) (pow 2 (sub 9 3)))"
	tokens, err := parser.Lex(source)
	require.NoError(t, err)

	instrs := generate(t, source)

	// Every token except the parentheses becomes one instruction.
	nonParen := 0
	for _, tok := range tokens {
		if !tok.Category.IsParen() {
			nonParen++
		}
	}
	assert.Len(t, instrs, nonParen)
}

func TestGenerateIsDeterministic(t *testing.T) {
	first := generate(t, "(* 2 (+ 3 4))")
	second := generate(t, "(* 2 (+ 3 4))")
	assert.Equal(t, first, second)
}

func TestInstructionFormat(t *testing.T) {
	push := codegen.Instruction{Op: codegen.Push, Text: "7"}
	apply := codegen.Instruction{Op: codegen.Apply, Text: "+"}

	assert.Equal(t, "push 7", push.String())
	assert.Equal(t, "ldc 7", push.Format(codegen.LoadConstMnemonic))
	assert.Equal(t, "+", apply.Format(codegen.LoadConstMnemonic))
	assert.Equal(t, "push", codegen.Push.String())
	assert.Equal(t, "apply", codegen.Apply.String())

	assert.True(t, codegen.ValidMnemonic("push"))
	assert.True(t, codegen.ValidMnemonic("ldc"))
	assert.False(t, codegen.ValidMnemonic("load"))
}

func TestEmitToWriterSink(t *testing.T) {
	var buf bytes.Buffer
	sink := codegen.NewWriterSink(&buf)

	err := codegen.Emit(sink, generate(t, "(* 2 (+ 3 4))"), codegen.LoadConstMnemonic)
	require.NoError(t, err)
	require.NoError(t, sink.Flush())

	assert.Equal(t, "ldc 2\nldc 3\nldc 4\n+\n*\n", buf.String())
}

func TestEmitToSliceSink(t *testing.T) {
	sink := &codegen.SliceSink{}
	require.NoError(t, codegen.Emit(sink, generate(t, "(+ 1 2)"), codegen.PushMnemonic))
	assert.Equal(t, []string{"push 1", "push 2", "+"}, sink.Lines)
}

type failingSink struct {
	after int
}

var errSinkFull = errors.New("sink full")

func (s *failingSink) WriteLine(string) error {
	if s.after == 0 {
		return errSinkFull
	}
	s.after--
	return nil
}

func TestEmitStopsOnSinkError(t *testing.T) {
	err := codegen.Emit(&failingSink{after: 2}, generate(t, "(+ 1 2)"), codegen.PushMnemonic)
	require.Error(t, err)
	assert.ErrorIs(t, err, errSinkFull)
	assert.Contains(t, err.Error(), "instruction 2")
}
