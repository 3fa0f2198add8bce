// Package vm is a reference stack machine for compiled programs.
//
// A push instruction places an int64 literal on the evaluation stack. Any
// other instruction names a binary operator, which pops the right operand,
// then the left operand, and pushes the result.
package vm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/edwingeng/deque"
	"github.com/leapstack-labs/stackc/pkg/codegen"
)

// Execution errors.
var (
	ErrStackUnderflow  = errors.New("stack underflow")
	ErrStackOverflow   = errors.New("stack overflow")
	ErrUnknownOperator = errors.New("unknown operator")
	ErrDivisionByZero  = errors.New("division by zero")
	ErrBadOperand      = errors.New("bad operand")
	ErrStackNotSingle  = errors.New("program must leave exactly one value on the stack")
)

// ExecError reports the instruction at which execution failed.
type ExecError struct {
	Step        int
	Instruction codegen.Instruction
	Err         error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("instruction %d (%s): %v", e.Step, e.Instruction, e.Err)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// DefaultMaxStack bounds the evaluation stack when Config.MaxStack is zero.
const DefaultMaxStack = 1 << 16

// Config holds machine configuration.
type Config struct {
	// Operators lists the enabled operator names; empty enables all builtins.
	Operators []string

	// MaxStack bounds the evaluation stack depth.
	MaxStack int

	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Machine executes instruction sequences. A Machine holds no state between
// runs and may be shared.
type Machine struct {
	ops      map[string]Operator
	maxStack int
	logger   *slog.Logger
}

// New creates a Machine. Unknown operator names are an error.
func New(cfg Config) (*Machine, error) {
	ops, err := selectOperators(cfg.Operators)
	if err != nil {
		return nil, err
	}

	maxStack := cfg.MaxStack
	if maxStack <= 0 {
		maxStack = DefaultMaxStack
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Machine{ops: ops, maxStack: maxStack, logger: logger}, nil
}

// Run executes prog and returns the single value it leaves on the stack.
// Cancellation of ctx is checked between instructions.
func (m *Machine) Run(ctx context.Context, prog []codegen.Instruction) (int64, error) {
	stack := deque.NewDeque()

	for i, ins := range prog {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		switch ins.Op {
		case codegen.Push:
			v, err := strconv.ParseInt(ins.Text, 10, 64)
			if err != nil {
				return 0, &ExecError{Step: i, Instruction: ins, Err: fmt.Errorf("%w: %q", ErrBadOperand, ins.Text)}
			}
			if stack.Len() >= m.maxStack {
				return 0, &ExecError{Step: i, Instruction: ins, Err: ErrStackOverflow}
			}
			stack.PushBack(v)

		case codegen.Apply:
			op, ok := m.ops[ins.Text]
			if !ok {
				return 0, &ExecError{Step: i, Instruction: ins, Err: fmt.Errorf("%w %q", ErrUnknownOperator, ins.Text)}
			}
			if stack.Len() < 2 {
				return 0, &ExecError{Step: i, Instruction: ins, Err: ErrStackUnderflow}
			}
			right := stack.PopBack().(int64)
			left := stack.PopBack().(int64)
			v, err := op(left, right)
			if err != nil {
				return 0, &ExecError{Step: i, Instruction: ins, Err: err}
			}
			stack.PushBack(v)

		default:
			return 0, &ExecError{Step: i, Instruction: ins, Err: fmt.Errorf("unsupported opcode %s", ins.Op)}
		}
	}

	if stack.Len() != 1 {
		return 0, fmt.Errorf("%w (%d left)", ErrStackNotSingle, stack.Len())
	}

	result := stack.PopBack().(int64)
	m.logger.Debug("program executed", slog.Int("instructions", len(prog)), slog.Int64("result", result))
	return result, nil
}
