package vm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/leapstack-labs/stackc/pkg/codegen"
)

// ErrBadInstruction is returned for lines that are not a valid instruction.
var ErrBadInstruction = errors.New("bad instruction")

// ParseInstruction reads one textual instruction: "push N", "ldc N" or a
// bare operator name.
func ParseInstruction(line string) (codegen.Instruction, error) {
	fields := strings.Fields(line)
	switch {
	case len(fields) == 1:
		return codegen.Instruction{Op: codegen.Apply, Text: fields[0]}, nil
	case len(fields) == 2 && codegen.ValidMnemonic(fields[0]):
		return codegen.Instruction{Op: codegen.Push, Text: fields[1]}, nil
	default:
		return codegen.Instruction{}, fmt.Errorf("%w: %q", ErrBadInstruction, line)
	}
}

// ReadProgram reads an instruction listing. Blank lines are skipped.
func ReadProgram(r io.Reader) ([]codegen.Instruction, error) {
	var prog []codegen.Instruction
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		ins, err := ParseInstruction(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		prog = append(prog, ins)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read program: %w", err)
	}
	return prog, nil
}
