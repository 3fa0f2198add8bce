package commands

import (
	"strings"

	"github.com/leapstack-labs/stackc/pkg/codegen"
	"github.com/leapstack-labs/stackc/pkg/vm"
	"github.com/spf13/cobra"
)

// RunOptions holds options for the run command.
type RunOptions struct {
	Asm bool
}

// runResult is the structured output of the run command.
type runResult struct {
	Source string `json:"source" yaml:"source"`
	Value  int64  `json:"value" yaml:"value"`
}

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Compile a source and evaluate it on the stack machine",
		Long: `Compile a source and execute the instructions on the reference stack
machine, printing the single value left on the stack.

With --asm the input is an instruction listing, as written by compile, and
is executed as is.`,
		Example: `  echo "(+ 1 (* 2 3))" | stackc run
  stackc compile expr.sx -o expr.stk && stackc run --asm expr.stk
  stackc run --operators add,sub expr.sx`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Asm, "asm", false, "Treat the input as an instruction listing")
	cmd.Flags().StringSlice("operators", nil, "Enabled operators (default all)")

	return cmd
}

func runRun(cmd *cobra.Command, args []string, opts *RunOptions) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	machine, err := cc.NewMachine()
	if err != nil {
		return err
	}

	name, source, err := cc.readSource(sourceArg(args))
	if err != nil {
		return err
	}

	prog, err := cc.program(source, opts.Asm)
	if err != nil {
		return err
	}

	value, err := machine.Run(cmd.Context(), prog)
	if err != nil {
		return err
	}

	if ok, err := cc.Renderer.Structured(runResult{Source: name, Value: value}); ok {
		return err
	}
	cc.Renderer.Println(value)
	return nil
}

// program returns the instructions to execute: the listing itself when asm
// is set, otherwise the compiled source.
func (c *CommandContext) program(source string, asm bool) ([]codegen.Instruction, error) {
	if asm {
		return vm.ReadProgram(strings.NewReader(source))
	}
	res, err := c.Compiler.Compile(source)
	if err != nil {
		return nil, err
	}
	return res.Instructions, nil
}
