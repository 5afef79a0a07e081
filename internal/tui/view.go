package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	clrSubtle    = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#666666"}
	clrHighlight = lipgloss.AdaptiveColor{Light: "#0F766E", Dark: "#2DD4BF"}
	clrRed       = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
	clrDim       = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#555555"}
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(clrHighlight)
	dimStyle     = lipgloss.NewStyle().Foreground(clrDim)
	commandStyle = lipgloss.NewStyle().Bold(true).Foreground(clrHighlight)
	errorStyle   = lipgloss.NewStyle().Foreground(clrRed)
	spinnerStyle = lipgloss.NewStyle().Foreground(clrHighlight)

	footerKeyStyle  = lipgloss.NewStyle().Bold(true).Foreground(clrHighlight)
	footerDescStyle = lipgloss.NewStyle().Foreground(clrSubtle)
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("herd shell"))
	b.WriteString(dimStyle.Render(" · one command at a time"))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.running {
		b.WriteString(m.spinner.View() + " " + dimStyle.Render(m.pending))
	} else {
		b.WriteString(m.input.View())
	}
	b.WriteString("\n")
	b.WriteString(footerKeyStyle.Render("enter") + footerDescStyle.Render(" run  ") +
		footerKeyStyle.Render("pgup/pgdn") + footerDescStyle.Render(" scroll  ") +
		footerKeyStyle.Render("esc") + footerDescStyle.Render(" quit"))
	return b.String()
}

// renderTranscript lays out every command followed by its response.
func renderTranscript(entries []entry, width int) string {
	if len(entries) == 0 {
		return dimStyle.Render("Type a command, e.g. ?lists or ?info (NAME).")
	}

	wrap := lipgloss.NewStyle().Width(width)
	var parts []string
	for _, e := range entries {
		out := e.output
		if isError(out) {
			out = errorStyle.Render(out)
		}
		parts = append(parts, commandStyle.Render("› "+e.input)+"\n"+wrap.Render(out))
	}
	return strings.Join(parts, "\n\n")
}

// isError reports whether a response is one of the failure messages.
func isError(out string) bool {
	return strings.HasPrefix(out, "Err:") ||
		strings.HasPrefix(out, "Could not establish") ||
		strings.HasPrefix(out, "Wrong usage") ||
		strings.HasPrefix(out, "Invalid command") ||
		strings.HasPrefix(out, "Commands begin") ||
		strings.HasPrefix(out, "Name does not exist") ||
		strings.HasPrefix(out, "No List exists by the name")
}
