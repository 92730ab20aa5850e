package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/walletmom/internal/cli"
	"github.com/theirongolddev/walletmom/internal/pipeline"
	"github.com/theirongolddev/walletmom/internal/tui/components"
	"github.com/theirongolddev/walletmom/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	s := a.snap
	cur := a.currency
	var b strings.Builder

	freeColor := t.Safe
	if s.FreeCashFlow.IsNegative() {
		freeColor = t.Danger
	}
	metrics := []components.Metric{
		{Label: "Monthly income", Value: cli.FormatMoneyShort(s.Income, cur), Note: "goal " + cli.FormatMoneyShort(s.SavingsGoal, cur)},
		{Label: "Fixed expenses", Value: cli.FormatMoneyShort(s.TotalFixedExpenses, cur), Note: fmt.Sprintf("%d bills", len(a.doc.FixedExpenses))},
		{Label: "Spent so far", Value: cli.FormatMoneyShort(s.VariableExpenses, cur), Note: fmt.Sprintf("%d this month", a.review.Transactions)},
		{Label: "Free cash", Value: cli.FormatMoneyShort(s.FreeCashFlow, cur), Color: freeColor, Note: "income − fixed − spent"},
	}
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	halves := components.LayoutRow(cw, 2)
	b.WriteString(components.CardRow([]string{
		components.ContentCard("Fixed expenses", a.fixedExpenseList(components.CardInnerWidth(halves[0])), halves[0]),
		components.ContentCard(fmt.Sprintf("Recent purchases (last %d)", a.opts.RecentCount),
			a.recentList(components.CardInnerWidth(halves[1])), halves[1]),
	}))
	b.WriteString("\n")

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	b.WriteString(components.ContentCard("", muted.Render(pipeline.ReviewMessage(a.review)), cw))
	return b.String()
}

func (a App) fixedExpenseList(w int) string {
	t := theme.Active
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	name := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	amount := lipgloss.NewStyle().Foreground(t.Needs).Background(t.Surface)

	if len(a.doc.FixedExpenses) == 0 {
		return dim.Render("No fixed expenses yet. Add one with `walletmom expense add`.")
	}
	var lines []string
	for _, e := range a.doc.FixedExpenses {
		amt := cli.FormatMoney(e.Amount, a.currency)
		nameW := max(w-lipgloss.Width(amt)-1, 4)
		lines = append(lines, name.Render(fmt.Sprintf("%-*s", nameW, cli.Truncate(e.Name, nameW)))+
			dim.Render(" ")+amount.Render(amt))
	}
	return strings.Join(lines, "\n")
}

func (a App) recentList(w int) string {
	t := theme.Active
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	text := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	if len(a.recent) == 0 {
		return dim.Render("Nothing logged yet. Ask about a purchase on the Ask tab.")
	}
	var lines []string
	for _, tx := range a.recent {
		date := cli.FormatDate(tx.Timestamp)
		amt := cli.FormatMoney(tx.Amount, a.currency)
		cat := lipgloss.NewStyle().Foreground(t.Category(string(tx.Category))).Background(t.Surface).
			Render(fmt.Sprintf("%-10s", tx.Category))
		descW := max(w-lipgloss.Width(date)-lipgloss.Width(amt)-14, 4)
		lines = append(lines, dim.Render(date+" ")+cat+dim.Render(" ")+
			text.Render(fmt.Sprintf("%-*s", descW, cli.Truncate(tx.Description, descW)))+
			dim.Render(" ")+text.Render(amt))
	}
	return strings.Join(lines, "\n")
}
