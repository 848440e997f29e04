package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Header prints a section header: "==> msg".
func (u *UI) Header(msg string) {
	u.println(u.render(u.styles.header, "==> "+msg))
}

// Success prints "  ✓ msg" on a terminal and "  ok msg" otherwise.
func (u *UI) Success(msg string) {
	if u.isTTY {
		u.println(u.styles.ok.Render("  ✓ " + msg))
		return
	}
	u.println("  ok " + msg)
}

// Keyval prints "  key         value" with a fixed-width key.
func (u *UI) Keyval(key, value string) {
	u.printf("  %s%s\n", u.render(u.styles.bold, fmt.Sprintf("%-12s", key)), value)
}

// Dim prints faint text.
func (u *UI) Dim(msg string) {
	u.println(u.render(u.styles.faint, msg))
}

// Error prints "error: msg" to errOut. Only the prefix is styled so
// multi-line messages such as config validation reports keep their layout.
func (u *UI) Error(msg string) {
	_, _ = fmt.Fprintf(u.errOut, "%s %s\n", u.render(u.styles.failure, "error:"), msg)
}

// Status returns text colored green when ok and yellow otherwise.
func (u *UI) Status(text string, ok bool) string {
	if ok {
		return u.render(u.styles.ok, text)
	}
	return u.render(u.styles.pending, text)
}

// Println prints msg unstyled.
func (u *UI) Println(msg string) {
	u.println(msg)
}

// Prompt prints "label: " without a trailing newline.
func (u *UI) Prompt(label string) {
	_, _ = fmt.Fprint(u.out, u.render(u.styles.bold, label+":")+" ")
}

// Table prints a column-aligned table with bold headers. Cells may already
// be styled (see Status); widths are measured on the visible text.
func (u *UI) Table(headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}

	u.println(u.render(u.styles.bold, joinCells(headers, widths)))
	for _, row := range rows {
		u.println(joinCells(row, widths))
	}
}

// joinCells pads every cell but the last to its column width.
func joinCells(cells []string, widths []int) string {
	var b strings.Builder
	for i, cell := range cells {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(cell)
		if i < len(widths) && i < len(cells)-1 {
			b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)))
		}
	}
	return strings.TrimRight(b.String(), " ")
}

func (u *UI) println(msg string) {
	_, _ = fmt.Fprintln(u.out, msg)
}

func (u *UI) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(u.out, format, args...)
}
