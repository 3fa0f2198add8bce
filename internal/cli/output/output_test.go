package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/leapstack-labs/stackc/internal/state"
	"github.com/leapstack-labs/stackc/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newTestRenderer(mode Mode) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return NewRenderer(&out, &errOut, mode), &out, &errOut
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		mode Mode
		want Mode
	}{
		{ModeAuto, ModeText}, // a buffer is never a terminal
		{"", ModeText},
		{ModeTable, ModeTable},
		{ModeJSON, ModeJSON},
		{ModeYAML, ModeYAML},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			r, _, _ := newTestRenderer(tt.mode)
			assert.Equal(t, tt.want, r.EffectiveMode())
			assert.False(t, r.IsTTY())
		})
	}
}

func TestRendererMessages(t *testing.T) {
	r, out, errOut := newTestRenderer(ModeText)

	r.Header(1, "Tokens")
	r.Error("boom")
	r.Success("done")

	assert.Equal(t, "Tokens\n", out.String())
	assert.Equal(t, "Error: boom\ndone\n", errOut.String())
}

func TestRenderTokens(t *testing.T) {
	tokens, err := parser.Lex("(+ ab 5)")
	require.NoError(t, err)

	t.Run("text", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeText)
		require.NoError(t, RenderTokens(r, tokens))

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 5)
		assert.Equal(t, "0\tLPAREN\t\"(\"\t1:1", lines[0])
		assert.Equal(t, "2\tSYMBOL\t\"ab\"\t1:4", lines[2])
		assert.Equal(t, "3\tNUMBER\t\"5\"\t1:7", lines[3])
	})

	t.Run("table", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeTable)
		require.NoError(t, RenderTokens(r, tokens))

		s := out.String()
		assert.Contains(t, s, "Category")
		assert.Contains(t, s, "RPAREN")
		assert.Contains(t, s, "5 tokens")
	})

	t.Run("json", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeJSON)
		require.NoError(t, RenderTokens(r, tokens))

		var rows []map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &rows))
		require.Len(t, rows, 5)
		assert.Equal(t, "SYMBOL", rows[1]["category"])
		assert.Equal(t, "+", rows[1]["text"])
		assert.EqualValues(t, 2, rows[1]["column"])
	})

	t.Run("yaml", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeYAML)
		require.NoError(t, RenderTokens(r, tokens))

		var rows []TokenRow
		require.NoError(t, yaml.Unmarshal(out.Bytes(), &rows))
		require.Len(t, rows, 5)
		assert.Equal(t, "ab", rows[2].Text)
		assert.Contains(t, out.String(), "category: NUMBER")
	})
}

func parseTree(t *testing.T, source string) parser.Node {
	t.Helper()
	tokens, err := parser.Lex(source)
	require.NoError(t, err)
	root, err := parser.ParseProgram(tokens)
	require.NoError(t, err)
	return root
}

func TestRenderTreeText(t *testing.T) {
	r, out, _ := newTestRenderer(ModeText)
	require.NoError(t, RenderTree(r, parseTree(t, "(* 2 (+ 3 4))")))

	want := "* [0:9)\n" +
		"├── 2\n" +
		"└── + [3:8)\n" +
		"    ├── 3\n" +
		"    └── 4\n"
	assert.Equal(t, want, out.String())
}

func TestRenderTreeNestedLeft(t *testing.T) {
	r, out, _ := newTestRenderer(ModeText)
	require.NoError(t, RenderTree(r, parseTree(t, "(- (+ 1 2) x)")))

	want := "- [0:9)\n" +
		"├── + [2:7)\n" +
		"│   ├── 1\n" +
		"│   └── 2\n" +
		"└── x\n"
	assert.Equal(t, want, out.String())
}

func TestRenderTreeStructured(t *testing.T) {
	root := parseTree(t, "(+ 1 2)")

	r, out, _ := newTestRenderer(ModeJSON)
	require.NoError(t, RenderTree(r, root))

	var node TreeNode
	require.NoError(t, json.Unmarshal(out.Bytes(), &node))
	assert.Equal(t, KindExpression, node.Kind)
	assert.Equal(t, "+", node.Text)
	assert.Equal(t, 0, node.Start)
	assert.Equal(t, 5, node.End)
	require.Len(t, node.Children, 2)
	assert.Equal(t, KindNumber, node.Children[0].Kind)
	assert.Equal(t, "2", node.Children[1].Text)

	r, out, _ = newTestRenderer(ModeYAML)
	require.NoError(t, RenderTree(r, root))
	assert.Contains(t, out.String(), "kind: expression")
	assert.Contains(t, out.String(), "children:")
}

func TestRenderHistory(t *testing.T) {
	at := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	records := []*state.Compilation{
		{ID: "0123456789abcdef", Source: "b.sx", Status: state.StatusFailed, Mnemonic: "push", Error: "parse: boom", CompiledAt: at},
		{ID: "fedcba98", Source: "a.sx", Status: state.StatusSuccess, Mnemonic: "ldc", TokenCount: 5, InstructionCount: 3, CompiledAt: at},
	}

	t.Run("table", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeText)
		require.NoError(t, RenderHistory(r, records))

		s := out.String()
		assert.Contains(t, s, "01234567")
		assert.NotContains(t, s, "0123456789abcdef")
		assert.Contains(t, s, "b.sx")
		assert.Contains(t, s, "failed")
		assert.Contains(t, s, "ldc")
	})

	t.Run("empty", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeText)
		require.NoError(t, RenderHistory(r, nil))
		assert.Equal(t, "(no compilations recorded)\n", out.String())
	})

	t.Run("json", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeJSON)
		require.NoError(t, RenderHistory(r, records))

		var rows []HistoryRow
		require.NoError(t, json.Unmarshal(out.Bytes(), &rows))
		require.Len(t, rows, 2)
		assert.Equal(t, "parse: boom", rows[0].Error)
		assert.Equal(t, 3, rows[1].Instructions)
		assert.True(t, at.Equal(rows[1].CompiledAt))
	})
}

func TestRenderPrograms(t *testing.T) {
	programs := []Program{
		{Source: "a.sx", Mnemonic: "push", Instructions: []string{"push 1", "push 2", "+"}},
		{Source: "b.sx", Mnemonic: "push", Instructions: []string{"push 3"}},
	}

	r, out, _ := newTestRenderer(ModeText)
	require.NoError(t, RenderPrograms(r, programs))
	assert.Equal(t, "push 1\npush 2\n+\npush 3\n", out.String())

	r, out, _ = newTestRenderer(ModeJSON)
	require.NoError(t, RenderPrograms(r, programs[:1]))
	var single Program
	require.NoError(t, json.Unmarshal(out.Bytes(), &single))
	assert.Equal(t, []string{"push 1", "push 2", "+"}, single.Instructions)

	r, out, _ = newTestRenderer(ModeYAML)
	require.NoError(t, RenderPrograms(r, programs))
	var many []Program
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &many))
	assert.Len(t, many, 2)
}
