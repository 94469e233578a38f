package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	accent = lipgloss.Color("#8BC34A")
	muted  = lipgloss.Color("#6A737D")
	alert  = lipgloss.Color("#E5534B")
)

// styles is the palette bound to one output. Writers that are not a
// terminal get plain text.
type styles struct {
	label    lipgloss.Style
	link     lipgloss.Style
	detail   lipgloss.Style
	question lipgloss.Style
	hash     lipgloss.Style
	failure  lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		label:    r.NewStyle().Bold(true),
		link:     r.NewStyle().Foreground(accent).Underline(true),
		detail:   r.NewStyle().Foreground(muted),
		question: r.NewStyle().Bold(true).Foreground(accent),
		hash:     r.NewStyle().Foreground(accent),
		failure:  r.NewStyle().Foreground(alert),
	}
}
