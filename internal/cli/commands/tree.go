package commands

import (
	"github.com/leapstack-labs/stackc/internal/cli/output"
	"github.com/spf13/cobra"
)

// NewTreeCommand creates the tree command.
func NewTreeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tree [file]",
		Short: "Show the expression tree of a source",
		Long: `Parse a source and print its expression tree. Each expression is shown
with its operator and the half-open token range it covers.`,
		Example: `  stackc tree expr.sx
  echo "(* 2 (+ 3 4))" | stackc tree --output yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			_, source, err := cc.readSource(sourceArg(args))
			if err != nil {
				return err
			}
			_, root, err := cc.Compiler.Parse(source)
			if err != nil {
				return err
			}
			return output.RenderTree(cc.Renderer, root)
		},
	}
}
