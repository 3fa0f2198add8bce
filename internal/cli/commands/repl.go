package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/stackc/internal/cli/output"
	"github.com/leapstack-labs/stackc/pkg/vm"
	"github.com/spf13/cobra"
)

const replPrompt = "stackc> "

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Compile and evaluate expressions interactively",
		Long: `Start an interactive session. Each line is compiled and evaluated on the
stack machine. History is kept next to the state database.`,
		Args: cobra.NoArgs,
		RunE: runREPL,
	}
	cmd.Flags().StringSlice("operators", nil, "Enabled operators (default all)")
	return cmd
}

func runREPL(cmd *cobra.Command, _ []string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	machine, err := cc.NewMachine()
	if err != nil {
		return err
	}

	// Setup history file (project-local)
	historyFile := ""
	if cc.Cfg.StatePath != "" && cc.Cfg.StatePath != ":memory:" {
		dir := filepath.Dir(cc.Cfg.StatePath)
		if err := os.MkdirAll(dir, 0750); err == nil {
			historyFile = filepath.Join(dir, "repl_history")
		}
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    newREPLCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdin:           io.NopCloser(cmd.InOrStdin()),
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	r := cc.Renderer
	r.Println(r.Styles().Header1.Render("stackc REPL") + " " + r.Styles().Muted.Render("(mnemonic: "+cc.Compiler.Mnemonic()+")"))
	r.Println("Type .help for commands, .quit to exit")
	r.Println("")

	session := &replSession{cc: cc, machine: machine}
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if session.handleLine(cmd.Context(), line) {
			break
		}
	}
	return nil
}

// replSession evaluates REPL input lines.
type replSession struct {
	cc      *CommandContext
	machine *vm.Machine
	showAsm bool
}

// handleLine evaluates one line and reports whether the session should end.
func (s *replSession) handleLine(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if strings.HasPrefix(line, ".") {
		return s.handleDotCommand(line)
	}

	r := s.cc.Renderer
	res, err := s.cc.Compiler.Compile(line)
	if err != nil {
		r.Error(err.Error())
		return false
	}
	if s.showAsm {
		for _, l := range res.Lines() {
			r.Println(r.Styles().Muted.Render("  " + l))
		}
	}

	value, err := s.machine.Run(ctx, res.Instructions)
	if err != nil {
		r.Error(err.Error())
		return false
	}
	r.Println(value)
	return false
}

func (s *replSession) handleDotCommand(line string) bool {
	r := s.cc.Renderer
	command, rest, _ := strings.Cut(line, " ")

	switch strings.ToLower(command) {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(r.Writer())

	case ".asm":
		s.showAsm = !s.showAsm
		state := "off"
		if s.showAsm {
			state = "on"
		}
		r.Println("instruction listing " + state)

	case ".tokens":
		src := strings.TrimSpace(rest)
		if src == "" {
			_, _ = fmt.Fprintln(r.ErrWriter(), "Usage: .tokens <expression>")
			return false
		}
		tokens, err := s.cc.Compiler.Tokenize(src)
		if err != nil {
			r.Error(err.Error())
			return false
		}
		if err := output.RenderTokens(r, tokens); err != nil {
			r.Error(err.Error())
		}

	case ".tree":
		src := strings.TrimSpace(rest)
		if src == "" {
			_, _ = fmt.Fprintln(r.ErrWriter(), "Usage: .tree <expression>")
			return false
		}
		_, root, err := s.cc.Compiler.Parse(src)
		if err != nil {
			r.Error(err.Error())
			return false
		}
		if err := output.RenderTree(r, root); err != nil {
			r.Error(err.Error())
		}

	default:
		_, _ = fmt.Fprintf(r.ErrWriter(), "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help            Show this help message
  .asm             Toggle printing the compiled instructions
  .tokens <expr>   List the tokens of an expression
  .tree <expr>     Show the expression tree
  .quit / .exit    Exit the REPL

Any other line is compiled and evaluated, e.g. (+ 1 (* 2 3))
`
	_, _ = fmt.Fprintln(w, help)
}

func newREPLCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".asm"),
		readline.PcItem(".tokens"),
		readline.PcItem(".tree"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}
