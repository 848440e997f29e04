// Package ui renders hatch's command output. Styling is only applied when
// the output is a terminal, so piped output stays plain text.
package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
)

// UI writes command output to out and errors to errOut.
type UI struct {
	out    io.Writer
	errOut io.Writer
	isTTY  bool
	styles styles
}

type styles struct {
	header  lipgloss.Style
	bold    lipgloss.Style
	faint   lipgloss.Style
	ok      lipgloss.Style
	pending lipgloss.Style
	failure lipgloss.Style
}

// New creates a UI that writes to out and errOut. Styling follows whether
// out is a terminal.
func New(out, errOut io.Writer) *UI {
	r := lipgloss.NewRenderer(out)
	return &UI{
		out:    out,
		errOut: errOut,
		isTTY:  IsTerminal(out),
		styles: styles{
			header:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("4")),
			bold:    r.NewStyle().Bold(true),
			faint:   r.NewStyle().Faint(true),
			ok:      r.NewStyle().Foreground(lipgloss.Color("2")),
			pending: r.NewStyle().Foreground(lipgloss.Color("3")),
			failure: r.NewStyle().Foreground(lipgloss.Color("1")),
		},
	}
}

// IsTerminal reports whether v is a file descriptor attached to a terminal.
// Prompts use it on stdin to decide whether input can be hidden.
func IsTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(f.Fd())
}

// IsTTY reports whether the output is a terminal.
func (u *UI) IsTTY() bool {
	return u.isTTY
}

// render applies s on a terminal and returns text unchanged otherwise.
func (u *UI) render(s lipgloss.Style, text string) string {
	if !u.isTTY {
		return text
	}
	return s.Render(text)
}
