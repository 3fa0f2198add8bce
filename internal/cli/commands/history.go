package commands

import (
	"fmt"

	"github.com/leapstack-labs/stackc/internal/cli/output"
	"github.com/spf13/cobra"
)

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	Limit int
	Prune int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded compilations",
		Long: `List compilations recorded in the state database, newest first.
Compilations are recorded when history or cache is enabled.`,
		Example: `  stackc history --limit 10
  stackc history --prune 100 --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			store, err := cc.OpenStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			ctx := cmd.Context()
			if cmd.Flags().Changed("prune") {
				n, err := store.PruneCompilations(ctx, opts.Prune)
				if err != nil {
					return err
				}
				cc.Renderer.Success(fmt.Sprintf("Pruned %d compilation(s)", n))
			}

			records, err := store.ListCompilations(ctx, opts.Limit)
			if err != nil {
				return err
			}
			return output.RenderHistory(cc.Renderer, records)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "Maximum number of compilations to show (0 for all)")
	cmd.Flags().IntVar(&opts.Prune, "prune", 0, "Delete all but the N most recent compilations first")

	return cmd
}
