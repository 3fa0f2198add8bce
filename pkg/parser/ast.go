package parser

import "strings"

// Node is a node of the expression tree. Every node covers a contiguous,
// half-open range of token indices.
type Node interface {
	// TokenRange returns the token index range [start, end) covered by the node.
	TokenRange() (start, end int)
	node()
}

// NumberLeaf is a number literal operand.
type NumberLeaf struct {
	Index int
	Token Token
}

func (*NumberLeaf) node() {}

// TokenRange implements Node.
func (n *NumberLeaf) TokenRange() (int, int) { return n.Index, n.Index + 1 }

// SymbolLeaf is a symbol. In operator position it names the operator; in
// operand position it is carried through verbatim.
type SymbolLeaf struct {
	Index int
	Token Token
}

func (*SymbolLeaf) node() {}

// TokenRange implements Node.
func (n *SymbolLeaf) TokenRange() (int, int) { return n.Index, n.Index + 1 }

// Expression is a parenthesized group (operator left right).
// Start is the index of its '(' and End is one past its ')'.
type Expression struct {
	Operator *SymbolLeaf
	Left     Node
	Right    Node
	Start    int
	End      int
}

func (*Expression) node() {}

// TokenRange implements Node.
func (e *Expression) TokenRange() (int, int) { return e.Start, e.End }

// Width returns the number of tokens a node covers.
func Width(n Node) int {
	start, end := n.TokenRange()
	return end - start
}

// Depth returns the parenthesis nesting depth of a tree. Leaves have depth 0.
func Depth(n Node) int {
	e, ok := n.(*Expression)
	if !ok {
		return 0
	}
	return 1 + max(Depth(e.Left), Depth(e.Right))
}

// Format renders a tree back into canonical source form, single-spaced.
func Format(n Node) string {
	var sb strings.Builder
	format(&sb, n)
	return sb.String()
}

func format(sb *strings.Builder, n Node) {
	switch n := n.(type) {
	case *NumberLeaf:
		sb.WriteString(n.Token.Text)
	case *SymbolLeaf:
		sb.WriteString(n.Token.Text)
	case *Expression:
		sb.WriteByte('(')
		sb.WriteString(n.Operator.Token.Text)
		sb.WriteByte(' ')
		format(sb, n.Left)
		sb.WriteByte(' ')
		format(sb, n.Right)
		sb.WriteByte(')')
	}
}
