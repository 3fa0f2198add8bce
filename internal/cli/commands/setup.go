package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/leapstack-labs/stackc/internal/cli/config"
	"github.com/leapstack-labs/stackc/internal/cli/output"
	"github.com/leapstack-labs/stackc/internal/state"
	"github.com/leapstack-labs/stackc/pkg/compiler"
	"github.com/leapstack-labs/stackc/pkg/vm"
	"github.com/spf13/cobra"
)

// stdinName is the source name used for standard input.
const stdinName = "<stdin>"

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
	Compiler *compiler.Compiler
	cmd      *cobra.Command
}

// NewCommandContext builds the compiler and renderer from the loaded config.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := config.FromContext(cmd.Context())
	logger := config.GetLogger(cmd.Context())

	c, err := compiler.New(compiler.Config{
		Mnemonic:    cfg.PushMnemonic,
		MaxTokenLen: cfg.MaxTokenLen,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
		Compiler: c,
		cmd:      cmd,
	}, nil
}

// OpenStore opens and migrates the state database.
// The caller must close the returned store.
func (c *CommandContext) OpenStore() (*state.SQLiteStore, error) {
	store := state.NewSQLiteStore(c.Logger)
	if err := store.Open(c.Cfg.StatePath); err != nil {
		return nil, err
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate state database: %w", err)
	}
	return store, nil
}

// NewMachine creates a stack machine with the configured operators.
func (c *CommandContext) NewMachine() (*vm.Machine, error) {
	return vm.New(vm.Config{Operators: c.Cfg.VM.Operators, Logger: c.Logger})
}

// readSource reads a named input. "-" or an empty path reads standard input.
func (c *CommandContext) readSource(path string) (name, source string, err error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(c.cmd.InOrStdin())
		if err != nil {
			return stdinName, "", fmt.Errorf("failed to read standard input: %w", err)
		}
		return stdinName, string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return path, "", fmt.Errorf("failed to read source: %w", err)
	}
	return path, string(data), nil
}

// sourceArg returns the single optional file argument.
func sourceArg(args []string) string {
	if len(args) == 0 {
		return "-"
	}
	return args[0]
}
