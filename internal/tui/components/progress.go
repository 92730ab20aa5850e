package components

import (
	"fmt"

	"github.com/theirongolddev/walletmom/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ColorForUsage maps how much of a budget is used to safe/caution/danger.
func ColorForUsage(pct float64) lipgloss.Color {
	t := theme.Active
	switch {
	case pct >= 1:
		return t.Danger
	case pct > 0.5:
		return t.Caution
	default:
		return t.Safe
	}
}

func clampPct(pct float64) float64 {
	return min(max(pct, 0), 1)
}

func bar(pct float64, width int, color lipgloss.Color) string {
	b := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(max(width, 4)),
		progress.WithoutPercentage(),
	)
	b.EmptyColor = string(theme.Active.TextDim)
	return b.ViewAs(clampPct(pct))
}

// ShareBar renders a labelled bar for one slice of a whole, followed by
// the amount text. Used for budget splits and category totals.
func ShareBar(label string, pct float64, amount string, color lipgloss.Color, labelW, barW int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	amountStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	space := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		space.Render(" ") +
		bar(pct, barW, color) +
		space.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%3.0f%%", clampPct(pct)*100)) +
		space.Render("  ") +
		amountStyle.Render(amount)
}

// UsageBar renders spent-vs-available with a color that turns to
// caution past half and danger once the budget is exhausted.
func UsageBar(label string, pct float64, detail string, labelW, barW int) string {
	return ShareBar(label, pct, detail, ColorForUsage(pct), labelW, barW)
}
