package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/walletmom/internal/cli"
	"github.com/theirongolddev/walletmom/internal/model"
	"github.com/theirongolddev/walletmom/internal/pipeline"
	"github.com/theirongolddev/walletmom/internal/tui/components"
	"github.com/theirongolddev/walletmom/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderReviewTab(cw int) string {
	t := theme.Active
	rev := a.review
	cur := a.currency
	var b strings.Builder

	largest := "—"
	if rev.Largest != nil {
		largest = cli.FormatMoneyShort(rev.Largest.Amount, cur)
	}
	largestNote := ""
	if rev.Largest != nil {
		largestNote = cli.Truncate(rev.Largest.Description, 24)
	}
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: cli.FormatMonth(rev.Month), Value: strconv.Itoa(rev.Transactions) + " transactions"},
		{Label: "Spent", Value: cli.FormatMoneyShort(rev.Spent, cur), Color: t.Wants},
		{Label: "Received", Value: cli.FormatMoneyShort(rev.Received, cur), Color: t.Safe, Note: "not counted in free cash"},
		{Label: "Largest purchase", Value: largest, Note: largestNote},
	}, cw))
	b.WriteString("\n")

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	b.WriteString(components.ContentCard("", muted.Render(pipeline.ReviewMessage(rev)), cw))
	b.WriteString("\n")

	chartH := 8
	if a.isCompactLayout() {
		chartH = 6
	}
	values := make([]float64, len(a.daily))
	n := len(a.daily)
	// daily is newest first; the chart reads oldest to newest
	for i, d := range a.daily {
		values[n-1-i], _ = d.Spent.Float64()
	}
	b.WriteString(components.ContentCard(
		fmt.Sprintf("Daily spending (last %d days)", chartDays),
		components.BarChart(values, dailyLabels(a.daily), t.Accent, components.CardInnerWidth(cw), chartH),
		cw,
	))
	b.WriteString("\n")

	b.WriteString(components.ContentCard("Recent decisions", a.decisionList(components.CardInnerWidth(cw)), cw))
	return b.String()
}

// dailyLabels returns oldest-first x-axis labels: the month name at
// the start and at month boundaries, otherwise the day number.
func dailyLabels(days []model.DailySpend) []string {
	n := len(days)
	labels := make([]string, n)
	prev := time.Month(0)
	for i := range days {
		dt := days[n-1-i].Date
		if i == 0 || dt.Month() != prev {
			labels[i] = dt.Format("Jan")
		} else {
			labels[i] = strconv.Itoa(dt.Day())
		}
		prev = dt.Month()
	}
	return labels
}

func (a App) decisionList(w int) string {
	t := theme.Active
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	text := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	if len(a.decisions) == 0 {
		return dim.Render("No purchases assessed yet.")
	}
	var lines []string
	for _, d := range a.decisions {
		status := lipgloss.NewStyle().Foreground(t.Status(string(d.Status))).Background(t.Surface).Bold(true).
			Render(fmt.Sprintf("%-8s", d.Status))
		mark := dim.Render("  ")
		if d.Confirmed {
			mark = lipgloss.NewStyle().Foreground(t.Safe).Background(t.Surface).Render("✓ ")
		}
		amt := cli.FormatMoney(d.Cost, a.currency)
		when := d.At.Local().Format("Jan 02 15:04")
		itemW := max(w-lipgloss.Width(when)-lipgloss.Width(amt)-14, 4)
		lines = append(lines, dim.Render(when+" ")+status+mark+
			text.Render(fmt.Sprintf("%-*s", itemW, cli.Truncate(d.Item, itemW)))+
			dim.Render(" ")+text.Render(amt))
	}
	return strings.Join(lines, "\n")
}
