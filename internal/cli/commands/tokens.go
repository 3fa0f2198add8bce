package commands

import (
	"github.com/leapstack-labs/stackc/internal/cli/output"
	"github.com/spf13/cobra"
)

// NewTokensCommand creates the tokens command.
func NewTokensCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens [file]",
		Short: "List the tokens of a source",
		Long: `Lex a source and list every token with its index, category, text and
position. Whitespace and any other characters outside the token alphabet
only separate tokens and are not listed.`,
		Example: `  stackc tokens expr.sx
  echo "(+ ab 5)" | stackc tokens --output json`,
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
			tokens, err := cc.Compiler.Tokenize(source)
			if err != nil {
				return err
			}
			return output.RenderTokens(cc.Renderer, tokens)
		},
	}
}
