package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

const compilationColumns = `id, source, source_hash, mnemonic, status, token_count,
	instruction_count, output, error, compiled_at, max_token_len`

// RecordCompilation stores c, assigning its ID and timestamp when unset.
func (s *SQLiteStore) RecordCompilation(ctx context.Context, c *Compilation) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	if c.ID == "" {
		c.ID = generateID()
	}
	if c.CompiledAt.IsZero() {
		c.CompiledAt = time.Now().UTC()
	}

	var errMsg sql.NullString
	if c.Error != "" {
		errMsg = sql.NullString{String: c.Error, Valid: true}
	}

	s.logger.Debug("recording compilation",
		slog.String("id", c.ID),
		slog.String("source", c.Source),
		slog.String("status", string(c.Status)))

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO compilations (`+compilationColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Source, c.SourceHash, c.Mnemonic, string(c.Status), c.TokenCount,
		c.InstructionCount, c.Output, errMsg, c.CompiledAt.UnixNano(), c.MaxTokenLen,
	)
	if err != nil {
		return fmt.Errorf("failed to record compilation: %w", err)
	}
	return nil
}

// LookupCached returns the most recent successful compilation matching key
// exactly, or nil when there is none.
func (s *SQLiteStore) LookupCached(ctx context.Context, key CacheKey) (*Compilation, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+compilationColumns+` FROM compilations
		 WHERE source_hash = ? AND mnemonic = ? AND max_token_len = ? AND status = ?
		 ORDER BY compiled_at DESC, rowid DESC LIMIT 1`,
		key.SourceHash, key.Mnemonic, key.MaxTokenLen, string(StatusSuccess),
	)

	c, err := scanCompilation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // cache miss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up cached compilation: %w", err)
	}

	s.logger.Debug("cache hit", slog.String("id", c.ID), slog.String("hash", key.SourceHash))
	return c, nil
}

// ListCompilations returns up to limit compilations, newest first.
// A limit of zero or less returns all of them.
func (s *SQLiteStore) ListCompilations(ctx context.Context, limit int) ([]*Compilation, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+compilationColumns+` FROM compilations
		 ORDER BY compiled_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list compilations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*Compilation
	for rows.Next() {
		c, err := scanCompilation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan compilation: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list compilations: %w", err)
	}
	return out, nil
}

// PruneCompilations deletes all but the keep most recent compilations and
// returns the number of rows removed.
func (s *SQLiteStore) PruneCompilations(ctx context.Context, keep int) (int64, error) {
	if s.db == nil {
		return 0, fmt.Errorf("database not opened")
	}
	if keep < 0 {
		return 0, fmt.Errorf("keep must not be negative, got %d", keep)
	}

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM compilations WHERE id NOT IN (
			SELECT id FROM compilations ORDER BY compiled_at DESC, rowid DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune compilations: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to prune compilations: %w", err)
	}
	s.logger.Debug("pruned compilations", slog.Int64("removed", n), slog.Int("kept", keep))
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompilation(r rowScanner) (*Compilation, error) {
	var (
		c          Compilation
		status     string
		errMsg     sql.NullString
		compiledAt int64
	)
	if err := r.Scan(&c.ID, &c.Source, &c.SourceHash, &c.Mnemonic, &status, &c.TokenCount,
		&c.InstructionCount, &c.Output, &errMsg, &compiledAt, &c.MaxTokenLen); err != nil {
		return nil, err
	}
	c.Status = Status(status)
	c.CompiledAt = time.Unix(0, compiledAt).UTC()
	if errMsg.Valid {
		c.Error = errMsg.String
	}
	return &c, nil
}
