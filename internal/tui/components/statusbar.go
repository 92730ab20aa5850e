package components

import (
	"strings"

	"github.com/theirongolddev/walletmom/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// StatusInfo feeds the bottom status bar.
type StatusInfo struct {
	Provider   string // explanation provider in use
	Breaker    string // circuit breaker state, empty when not applicable
	DataAge    string // clock time of the last successful read
	Refreshing bool
	Flash      string // transient message, e.g. "Logged Coffee"
	FlashError bool
}

// RenderStatusBar renders key hints on the left and provider and data
// freshness on the right.
func RenderStatusBar(width int, info StatusInfo) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	left := base.Render(" [?]help  [r]efresh  [q]uit")
	if info.Flash != "" {
		color := t.Safe
		if info.FlashError {
			color = t.Danger
		}
		left += dim.Render("  │  ") + lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(info.Flash)
	}

	var right []string
	if info.Provider != "" {
		p := "advisor: " + info.Provider
		if info.Breaker != "" && info.Breaker != "closed" {
			p += " (" + info.Breaker + ")"
		}
		right = append(right, p)
	}
	switch {
	case info.Refreshing:
		right = append(right, "refreshing…")
	case info.DataAge != "":
		right = append(right, "updated "+info.DataAge)
	}
	rightStr := dim.Render(strings.Join(right, "  ") + " ")

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(rightStr), 0)
	return left + base.Render(strings.Repeat(" ", gap)) + rightStr
}
