package output

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/stackc/pkg/token"
)

// TokenRow is the structured form of one lexed token.
type TokenRow struct {
	Index    int            `json:"index" yaml:"index"`
	Category token.Category `json:"category" yaml:"category"`
	Text     string         `json:"text" yaml:"text"`
	Line     int            `json:"line" yaml:"line"`
	Column   int            `json:"column" yaml:"column"`
	Offset   int            `json:"offset" yaml:"offset"`
}

// TokenRows converts tokens to their structured form.
func TokenRows(tokens []token.Token) []TokenRow {
	rows := make([]TokenRow, len(tokens))
	for i, t := range tokens {
		rows[i] = TokenRow{
			Index:    i,
			Category: t.Category,
			Text:     t.Text,
			Line:     t.Pos.Line,
			Column:   t.Pos.Column,
			Offset:   t.Pos.Offset,
		}
	}
	return rows
}

// RenderTokens writes a token listing in the renderer's mode.
func RenderTokens(r *Renderer, tokens []token.Token) error {
	rows := TokenRows(tokens)
	if ok, err := r.Structured(rows); ok {
		return err
	}

	if r.EffectiveMode() == ModeText {
		for _, row := range rows {
			r.Printf("%d\t%s\t%q\t%d:%d\n", row.Index, row.Category, row.Text, row.Line, row.Column)
		}
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Category", "Text", "Position"})
	for _, row := range rows {
		t.AppendRow(table.Row{row.Index, row.Category.String(), row.Text, fmt.Sprintf("%d:%d", row.Line, row.Column)})
	}
	t.AppendFooter(table.Row{"", "", "", strconv.Itoa(len(rows)) + " tokens"})
	t.Render()
	return nil
}
