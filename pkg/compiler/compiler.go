// Package compiler runs the full pipeline: lexing, tree construction and
// code generation. Each stage consumes its input completely before the next
// one starts; nothing is streamed between stages.
package compiler

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/leapstack-labs/stackc/pkg/codegen"
	"github.com/leapstack-labs/stackc/pkg/parser"
	"github.com/leapstack-labs/stackc/pkg/token"
)

// Config holds compiler configuration.
type Config struct {
	// Mnemonic is the operand instruction name: "push" (default) or "ldc".
	Mnemonic string

	// MaxTokenLen rejects longer tokens when positive.
	MaxTokenLen int

	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Compiler compiles prefix expression sources.
type Compiler struct {
	mnemonic    string
	maxTokenLen int
	logger      *slog.Logger
}

// New creates a Compiler. An empty mnemonic selects "push".
func New(cfg Config) (*Compiler, error) {
	mnemonic := cfg.Mnemonic
	if mnemonic == "" {
		mnemonic = codegen.PushMnemonic
	}
	if !codegen.ValidMnemonic(mnemonic) {
		return nil, fmt.Errorf("unknown operand mnemonic %q (want %q or %q)",
			mnemonic, codegen.PushMnemonic, codegen.LoadConstMnemonic)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Compiler{
		mnemonic:    mnemonic,
		maxTokenLen: cfg.MaxTokenLen,
		logger:      logger,
	}, nil
}

// Mnemonic returns the operand mnemonic used when rendering output.
func (c *Compiler) Mnemonic() string {
	return c.mnemonic
}

// Result holds every stage's output for one source.
type Result struct {
	Tokens       []token.Token
	Tree         parser.Node
	Instructions []codegen.Instruction
	Mnemonic     string
}

// Lines returns the rendered instruction lines.
func (r *Result) Lines() []string {
	return codegen.Lines(r.Instructions, r.Mnemonic)
}

// Emit writes the rendered instructions to sink.
func (r *Result) Emit(sink codegen.LineSink) error {
	return codegen.Emit(sink, r.Instructions, r.Mnemonic)
}

// WriteTo writes newline-terminated instruction lines to w.
func (r *Result) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	sink := codegen.NewWriterSink(cw)
	if err := r.Emit(sink); err != nil {
		return cw.n, err
	}
	err := sink.Flush()
	return cw.n, err
}

// Tokenize runs only the lexing stage.
func (c *Compiler) Tokenize(source string) ([]token.Token, error) {
	tokens, err := parser.NewLexerWithLimit(source, c.maxTokenLen).All()
	if err != nil {
		return nil, fmt.Errorf("lex: %w", err)
	}
	c.logger.Debug("lexed source", slog.Int("bytes", len(source)), slog.Int("tokens", len(tokens)))
	return tokens, nil
}

// Parse runs the lexing and tree construction stages.
func (c *Compiler) Parse(source string) ([]token.Token, parser.Node, error) {
	tokens, err := c.Tokenize(source)
	if err != nil {
		return nil, nil, err
	}

	root, err := parser.ParseProgram(tokens)
	if err != nil {
		return nil, nil, fmt.Errorf("parse: %w", err)
	}
	c.logger.Debug("built expression tree", slog.Int("depth", parser.Depth(root)))
	return tokens, root, nil
}

// Compile runs the whole pipeline. Any structural error aborts compilation
// and no partial output is returned.
func (c *Compiler) Compile(source string) (*Result, error) {
	tokens, root, err := c.Parse(source)
	if err != nil {
		return nil, err
	}

	gen := codegen.NewGenerator(len(tokens))
	gen.Emit(root)
	instrs := gen.Instructions()
	c.logger.Debug("generated code", slog.Int("instructions", len(instrs)))

	return &Result{
		Tokens:       tokens,
		Tree:         root,
		Instructions: instrs,
		Mnemonic:     c.mnemonic,
	}, nil
}

// Compile compiles source with the default configuration and returns the
// instruction lines.
func Compile(source string) ([]string, error) {
	c, err := New(Config{})
	if err != nil {
		return nil, err
	}
	res, err := c.Compile(source)
	if err != nil {
		return nil, err
	}
	return res.Lines(), nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
