// Package codegen emits stack machine instructions for an expression tree.
//
// Instructions are emitted in post-order with the operator last: both
// operands' code precedes the operator's instruction. A machine that
// implements every operator as "pop right, pop left, compute, push" therefore
// evaluates the tree left to right.
package codegen

import (
	"fmt"

	"github.com/leapstack-labs/stackc/pkg/parser"
)

// Operand mnemonics.
const (
	PushMnemonic      = "push"
	LoadConstMnemonic = "ldc"
)

// Opcode is the kind of an instruction.
type Opcode int

const (
	// Push places a literal on the evaluation stack.
	Push Opcode = iota
	// Apply names an operator; symbols in operand position are emitted the same way.
	Apply
)

func (o Opcode) String() string {
	switch o {
	case Push:
		return "push"
	case Apply:
		return "apply"
	default:
		return fmt.Sprintf("Opcode(%d)", int(o))
	}
}

// Instruction is one emitted output line.
type Instruction struct {
	Op   Opcode
	Text string // literal for Push, operator text for Apply
}

// Format renders the instruction with the given operand mnemonic.
func (i Instruction) Format(mnemonic string) string {
	if i.Op == Push {
		return mnemonic + " " + i.Text
	}
	return i.Text
}

// String renders the instruction with the default mnemonic.
func (i Instruction) String() string {
	return i.Format(PushMnemonic)
}

// ValidMnemonic reports whether m is a supported operand mnemonic.
func ValidMnemonic(m string) bool {
	return m == PushMnemonic || m == LoadConstMnemonic
}

// Generator walks expression trees and collects instructions.
type Generator struct {
	out []Instruction
}

// NewGenerator returns a generator with room for sizeHint instructions.
func NewGenerator(sizeHint int) *Generator {
	return &Generator{out: make([]Instruction, 0, max(sizeHint, 0))}
}

// Generate returns the instructions for root. Every tree node yields exactly
// one instruction.
func Generate(root parser.Node) []Instruction {
	g := NewGenerator(0)
	g.Emit(root)
	return g.Instructions()
}

// Emit appends the instructions for n.
func (g *Generator) Emit(n parser.Node) {
	switch n := n.(type) {
	case *parser.NumberLeaf:
		g.out = append(g.out, Instruction{Op: Push, Text: n.Token.Text})
	case *parser.SymbolLeaf:
		g.out = append(g.out, Instruction{Op: Apply, Text: n.Token.Text})
	case *parser.Expression:
		g.Emit(n.Left)
		g.Emit(n.Right)
		g.Emit(n.Operator)
	}
}

// Instructions returns the instructions emitted so far.
func (g *Generator) Instructions() []Instruction {
	return g.out
}

// Lines renders instructions as text lines using mnemonic for operands.
func Lines(instrs []Instruction, mnemonic string) []string {
	lines := make([]string, len(instrs))
	for i, ins := range instrs {
		lines[i] = ins.Format(mnemonic)
	}
	return lines
}
