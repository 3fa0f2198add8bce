package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/leapstack-labs/stackc/internal/cli/config"
	"github.com/leapstack-labs/stackc/internal/cli/output"
	"github.com/leapstack-labs/stackc/internal/state"
	"github.com/leapstack-labs/stackc/pkg/codegen"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// outputExt is the extension of instruction files written to a directory.
const outputExt = ".stk"

// CompileOptions holds options for the compile command.
type CompileOptions struct {
	Out   string
	Watch bool
}

// NewCompileCommand creates the compile command.
func NewCompileCommand() *cobra.Command {
	opts := &CompileOptions{}

	cmd := &cobra.Command{
		Use:   "compile [files...]",
		Short: "Compile prefix expressions to stack machine instructions",
		Long: `Compile each input into post-order stack machine instructions: "push <n>"
for every operand and the operator name for every expression.

With no file arguments, or with "-", the source is read from standard input.
Several inputs are compiled in parallel and printed in argument order.`,
		Example: `  # Compile an expression from standard input
  echo "(+ 1 (* 2 3))" | stackc compile

  # Compile files into a directory of .stk listings
  stackc compile a.sx b.sx -o build/

  # Emit "ldc" instead of "push" and recompile on change
  stackc compile --mnemonic ldc --watch expr.sx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "Write instructions to a file, or to a directory for several inputs")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Recompile inputs when they change")
	cmd.Flags().Bool("cache", false, "Reuse output recorded for identical sources")
	cmd.Flags().Bool("history", false, "Record compilations in the state database")
	cmd.Flags().IntP("jobs", "j", config.DefaultJobs, "Maximum number of parallel compilations")
	cmd.Flags().Duration("debounce", config.DefaultDebounce, "Delay before recompiling in --watch mode")

	return cmd
}

// compileUnit is the outcome of compiling one input.
type compileUnit struct {
	Name   string
	Lines  []string
	Tokens int
	Cached bool
	Err    error
}

func runCompile(cmd *cobra.Command, args []string, opts *CompileOptions) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{"-"}
	}
	stdinCount := 0
	for _, p := range paths {
		if p == "-" {
			stdinCount++
		}
	}
	if stdinCount > 1 {
		return fmt.Errorf("standard input can only be compiled once")
	}
	if opts.Watch && stdinCount > 0 {
		return fmt.Errorf("--watch requires file arguments")
	}

	batch := len(paths) > 1
	if batch && opts.Out != "" {
		if err := checkOutputNames(paths); err != nil {
			return err
		}
	}

	var store state.Store
	if cc.Cfg.Cache || cc.Cfg.History {
		s, err := cc.OpenStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()
		store = s
	}

	ctx := cmd.Context()

	units, err := cc.compileBatch(ctx, store, paths)
	if err != nil {
		return err
	}
	if err := cc.emit(units, opts.Out, batch); err != nil {
		return err
	}
	failErr := cc.reportFailures(units)

	if !opts.Watch {
		return failErr
	}
	if failErr != nil {
		cc.Renderer.Error(failErr.Error())
	}
	return cc.watchAndCompile(ctx, store, paths, opts.Out, batch)
}

// compileBatch compiles paths concurrently, bounded by the configured job
// count. Results are returned in input order. Compile errors are kept on
// their unit; only cancellation aborts the batch.
func (c *CommandContext) compileBatch(ctx context.Context, store state.Store, paths []string) ([]*compileUnit, error) {
	units := make([]*compileUnit, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.Cfg.Jobs)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			units[i] = c.compileOne(gctx, store, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return units, nil
}

func (c *CommandContext) compileOne(ctx context.Context, store state.Store, path string) *compileUnit {
	name, source, err := c.readSource(path)
	u := &compileUnit{Name: name}
	if err != nil {
		u.Err = err
		return u
	}

	key := state.CacheKey{
		SourceHash:  state.HashSource(source),
		Mnemonic:    c.Compiler.Mnemonic(),
		MaxTokenLen: c.Cfg.MaxTokenLen,
	}

	if store != nil && c.Cfg.Cache {
		hit, err := store.LookupCached(ctx, key)
		switch {
		case err != nil:
			c.Logger.Warn("cache lookup failed", "source", name, "error", err)
		case hit != nil:
			c.Logger.Debug("using cached output", "source", name, "id", hit.ID)
			u.Lines = strings.Split(hit.Output, "\n")
			u.Tokens = hit.TokenCount
			u.Cached = true
			return u
		}
	}

	rec := &state.Compilation{
		Source:      name,
		SourceHash:  key.SourceHash,
		Mnemonic:    key.Mnemonic,
		MaxTokenLen: key.MaxTokenLen,
	}
	res, err := c.Compiler.Compile(source)
	if err != nil {
		if name != stdinName {
			err = fmt.Errorf("%s: %w", name, err)
		}
		u.Err = err
		rec.Status = state.StatusFailed
		rec.Error = err.Error()
	} else {
		u.Lines = res.Lines()
		u.Tokens = len(res.Tokens)
		rec.Status = state.StatusSuccess
		rec.TokenCount = len(res.Tokens)
		rec.InstructionCount = len(res.Instructions)
		rec.Output = strings.Join(u.Lines, "\n")
	}

	if store != nil {
		if err := store.RecordCompilation(ctx, rec); err != nil {
			c.Logger.Warn("failed to record compilation", "source", name, "error", err)
		}
	}
	return u
}

// emit prints successful units, or writes them below out. In batch mode out
// is always a directory.
func (c *CommandContext) emit(units []*compileUnit, out string, batch bool) error {
	var programs []output.Program
	for _, u := range units {
		if u.Err == nil {
			programs = append(programs, output.Program{
				Source:       u.Name,
				Mnemonic:     c.Compiler.Mnemonic(),
				Instructions: u.Lines,
				Cached:       u.Cached,
			})
		}
	}

	if out == "" {
		return output.RenderPrograms(c.Renderer, programs)
	}

	if !batch && !isDirTarget(out) {
		if len(programs) == 0 {
			return nil
		}
		return c.writeProgram(out, programs[0].Instructions)
	}

	if err := os.MkdirAll(out, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for _, p := range programs {
		if err := c.writeProgram(filepath.Join(out, outputName(p.Source)), p.Instructions); err != nil {
			return err
		}
	}
	return nil
}

func (c *CommandContext) writeProgram(path string, lines []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	sink := codegen.NewWriterSink(f)
	for i, line := range lines {
		if err := sink.WriteLine(line); err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to write instruction %d: %w", i, err)
		}
	}
	if err := sink.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	c.Logger.Info("wrote instructions", "path", path, "lines", len(lines))
	return nil
}

// reportFailures returns the error of a single failed input as is. Failures
// in a batch are printed individually and summarized.
func (c *CommandContext) reportFailures(units []*compileUnit) error {
	failed := slices.DeleteFunc(slices.Clone(units), func(u *compileUnit) bool { return u.Err == nil })
	if len(failed) == 0 {
		return nil
	}
	if len(units) == 1 {
		return failed[0].Err
	}
	for _, u := range failed {
		c.Renderer.Error(u.Err.Error())
	}
	return fmt.Errorf("%d of %d inputs failed to compile", len(failed), len(units))
}

func isDirTarget(path string) bool {
	if strings.HasSuffix(path, string(filepath.Separator)) || strings.HasSuffix(path, "/") {
		return true
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// checkOutputNames rejects batches in which two inputs would be written to
// the same listing in the output directory.
func checkOutputNames(paths []string) error {
	seen := make(map[string]string, len(paths))
	for _, p := range paths {
		name := p
		if p == "-" {
			name = stdinName
		}
		out := outputName(name)
		if prev, ok := seen[out]; ok {
			return fmt.Errorf("inputs %s and %s would both be written to %s; compile them separately or rename one", prev, name, out)
		}
		seen[out] = name
	}
	return nil
}

// outputName maps a source name to its listing file name: a.sx -> a.stk.
func outputName(source string) string {
	if source == stdinName {
		return "stdin" + outputExt
	}
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base)) + outputExt
}
