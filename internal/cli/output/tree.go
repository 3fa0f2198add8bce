package output

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/stackc/pkg/parser"
	"github.com/leapstack-labs/stackc/pkg/token"
)

// Tree node kinds.
const (
	KindExpression = "expression"
	KindNumber     = "number"
	KindSymbol     = "symbol"
)

// TreeNode is the structured form of an expression tree.
type TreeNode struct {
	Kind     string         `json:"kind" yaml:"kind"`
	Text     string         `json:"text" yaml:"text"`
	Start    int            `json:"start" yaml:"start"`
	End      int            `json:"end" yaml:"end"`
	Pos      token.Position `json:"pos" yaml:"pos"`
	Children []*TreeNode    `json:"children,omitempty" yaml:"children,omitempty"`
}

// BuildTree converts a parsed tree to its structured form. An expression's
// text is its operator; its children are the two operands.
func BuildTree(n parser.Node) *TreeNode {
	start, end := n.TokenRange()
	switch n := n.(type) {
	case *parser.NumberLeaf:
		return &TreeNode{Kind: KindNumber, Text: n.Token.Text, Start: start, End: end, Pos: n.Token.Pos}
	case *parser.SymbolLeaf:
		return &TreeNode{Kind: KindSymbol, Text: n.Token.Text, Start: start, End: end, Pos: n.Token.Pos}
	case *parser.Expression:
		return &TreeNode{
			Kind:     KindExpression,
			Text:     n.Operator.Token.Text,
			Start:    start,
			End:      end,
			Pos:      n.Operator.Token.Pos,
			Children: []*TreeNode{BuildTree(n.Left), BuildTree(n.Right)},
		}
	}
	return nil
}

// RenderTree writes an expression tree in the renderer's mode.
func RenderTree(r *Renderer, root parser.Node) error {
	tree := BuildTree(root)
	if ok, err := r.Structured(tree); ok {
		return err
	}

	var sb strings.Builder
	writeTree(&sb, r.Styles(), tree, "", "")
	r.Printf("%s", sb.String())
	return nil
}

// writeTree draws n with box-drawing branches:
//
//	+ [0:9)
//	├── 1
//	└── * [3:8)
func writeTree(sb *strings.Builder, s *Styles, n *TreeNode, prefix, childPrefix string) {
	sb.WriteString(prefix)
	switch n.Kind {
	case KindExpression:
		sb.WriteString(s.Operator.Render(n.Text))
		sb.WriteString(" ")
		sb.WriteString(s.Muted.Render(fmt.Sprintf("[%d:%d)", n.Start, n.End)))
	case KindNumber:
		sb.WriteString(s.Number.Render(n.Text))
	default:
		sb.WriteString(s.Symbol.Render(n.Text))
	}
	sb.WriteByte('\n')

	for i, child := range n.Children {
		if i == len(n.Children)-1 {
			writeTree(sb, s, child, childPrefix+"└── ", childPrefix+"    ")
		} else {
			writeTree(sb, s, child, childPrefix+"├── ", childPrefix+"│   ")
		}
	}
}
