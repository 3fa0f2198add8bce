package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used by text output.
type Styles struct {
	Header1  lipgloss.Style
	Header2  lipgloss.Style
	Bold     lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Operator lipgloss.Style
	Number   lipgloss.Style
	Symbol   lipgloss.Style
	Paren    lipgloss.Style
}

// NewStyles returns colored styles, or unstyled ones when color is false.
func NewStyles(color bool) *Styles {
	if !color {
		plain := lipgloss.NewStyle()
		return &Styles{
			Header1: plain, Header2: plain, Bold: plain, Muted: plain,
			Error: plain, Success: plain, Warning: plain,
			Operator: plain, Number: plain, Symbol: plain, Paren: plain,
		}
	}
	return &Styles{
		Header1:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Header2:  lipgloss.NewStyle().Bold(true),
		Bold:     lipgloss.NewStyle().Bold(true),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Operator: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
		Number:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Symbol:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Paren:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}
