package output

import (
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/stackc/internal/state"
)

// HistoryRow is the structured form of a recorded compilation.
type HistoryRow struct {
	ID           string    `json:"id" yaml:"id"`
	Source       string    `json:"source" yaml:"source"`
	Status       string    `json:"status" yaml:"status"`
	Mnemonic     string    `json:"mnemonic" yaml:"mnemonic"`
	Tokens       int       `json:"tokens" yaml:"tokens"`
	Instructions int       `json:"instructions" yaml:"instructions"`
	Error        string    `json:"error,omitempty" yaml:"error,omitempty"`
	CompiledAt   time.Time `json:"compiled_at" yaml:"compiled_at"`
}

// RenderHistory writes recorded compilations, newest first.
func RenderHistory(r *Renderer, records []*state.Compilation) error {
	rows := make([]HistoryRow, len(records))
	for i, c := range records {
		rows[i] = HistoryRow{
			ID:           c.ID,
			Source:       c.Source,
			Status:       string(c.Status),
			Mnemonic:     c.Mnemonic,
			Tokens:       c.TokenCount,
			Instructions: c.InstructionCount,
			Error:        c.Error,
			CompiledAt:   c.CompiledAt,
		}
	}
	if ok, err := r.Structured(rows); ok {
		return err
	}

	if len(rows) == 0 {
		r.Println("(no compilations recorded)")
		return nil
	}

	s := r.Styles()
	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Source", "Status", "Mnemonic", "Tokens", "Instr", "Compiled At"})
	for _, row := range rows {
		status := s.Success.Render(row.Status)
		if row.Status == string(state.StatusFailed) {
			status = s.Error.Render(row.Status)
		}
		t.AppendRow(table.Row{
			shortID(row.ID), row.Source, status, row.Mnemonic, row.Tokens, row.Instructions,
			row.CompiledAt.Local().Format(time.DateTime),
		})
	}
	t.Render()
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
