// Package state records compilation history in SQLite and serves cached
// compiler output keyed by source hash.
package state

import (
	"context"
	"time"
)

// Status is the outcome of a compilation.
type Status string

// Compilation outcomes.
const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Compilation is one recorded compiler invocation.
type Compilation struct {
	ID               string
	Source           string // file path or "<stdin>"
	SourceHash       string
	Mnemonic         string
	MaxTokenLen      int // lexer token limit in effect; 0 for none
	Status           Status
	TokenCount       int
	InstructionCount int
	Output           string // newline-joined instruction lines
	Error            string
	CompiledAt       time.Time
}

// CacheKey identifies compiler output that can be reused. Every setting
// that can change the output or the outcome of a compilation is part of it.
type CacheKey struct {
	SourceHash  string
	Mnemonic    string
	MaxTokenLen int
}

// Store is the compilation history interface used by the CLI.
type Store interface {
	RecordCompilation(ctx context.Context, c *Compilation) error
	LookupCached(ctx context.Context, key CacheKey) (*Compilation, error)
	ListCompilations(ctx context.Context, limit int) ([]*Compilation, error)
	PruneCompilations(ctx context.Context, keep int) (int64, error)
	Close() error
}

var _ Store = (*SQLiteStore)(nil)
