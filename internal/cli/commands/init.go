package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/stackc/internal/cli/config"
	"github.com/leapstack-labs/stackc/internal/cli/output"
	"github.com/spf13/cobra"
)

// configTemplate is the stackc.yaml written by init.
var configTemplate = fmt.Sprintf(`# stackc configuration
# Every key can be overridden with a STACKC_ environment variable
# (STACKC_PUSH_MNEMONIC, STACKC_WATCH_DEBOUNCE, ...) or a command-line flag.

# Output format: auto, text, table, json or yaml
output: %s

# Operand instruction: push or ldc
push_mnemonic: %s

# State database for compile history and the output cache
state_path: %s
history: false
cache: false

# debug, info, warn or error (--verbose forces debug)
log_level: %s

# Reject tokens longer than this many bytes (0 disables the limit)
max_token_len: 0

# Parallel compilations for multi-file compile
jobs: %d

watch:
  debounce: %s

vm:
  # Enabled operators; empty enables all
  operators: []
`, config.DefaultOutput, config.DefaultMnemonic, config.DefaultStateFile,
	config.DefaultLogLevel, config.DefaultJobs, config.DefaultDebounce)

const exampleSource = "(+ 1 (* 2 3))\n"

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var example bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new stackc project",
		Long: `Initialize a new stackc project with a default stackc.yaml.

Use --example to also create example.sx, a small expression to compile.`,
		Example: `  # Initialize in current directory
  stackc init

  # Initialize a new directory with an example source
  stackc init my-project --example

  # Force overwrite existing config
  stackc init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			cfg := config.FromContext(cmd.Context())
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))
			return runInit(r, dir, force, example)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	cmd.Flags().BoolVar(&example, "example", false, "Create an example expression source")

	return cmd
}

func runInit(r *output.Renderer, dir string, force, example bool) error {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	files := map[string]string{"stackc.yaml": configTemplate}
	order := []string{"stackc.yaml"}
	if example {
		files["example.sx"] = exampleSource
		order = append(order, "example.sx")
	}

	for _, name := range order {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists. Use --force to overwrite", path)
		}
	}
	for _, name := range order {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(files[name]), 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		r.Printf("  %s %s\n", r.Styles().Success.Render("created"), path)
	}

	r.Println("")
	r.Println(r.Styles().Bold.Render("stackc project initialized!"))
	r.Println("")
	r.Println("Next steps:")
	if example {
		r.Println("  1. Run 'stackc compile example.sx' to see the instructions")
		r.Println("  2. Run 'stackc run example.sx' to evaluate it")
	} else {
		r.Println("  1. Write an expression such as (+ 1 (* 2 3)) to a file")
		r.Println("  2. Run 'stackc compile <file>' to compile it")
	}
	return nil
}
