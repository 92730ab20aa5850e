package tui

import (
	"strings"

	"github.com/theirongolddev/walletmom/internal/budget"
	"github.com/theirongolddev/walletmom/internal/cli"
	"github.com/theirongolddev/walletmom/internal/model"
	"github.com/theirongolddev/walletmom/internal/tui/components"
	"github.com/theirongolddev/walletmom/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

const budgetLabelW = 14

// ratio returns part/whole as a float for bar widths; 0 when whole is not positive.
func ratio(part, whole decimal.Decimal) float64 {
	if !whole.IsPositive() {
		return 0
	}
	f, _ := part.Div(whole).Float64()
	return f
}

func (a App) renderBudgetTab(cw int) string {
	t := theme.Active
	if a.planErr != nil {
		errStyle := lipgloss.NewStyle().Foreground(t.Danger).Background(t.Surface)
		return components.ContentCard("Budget", errStyle.Render(a.planErr.Error()), cw)
	}

	var b strings.Builder
	b.WriteString(components.ContentCard(budget.NeedsFirstName, a.needsFirstBody(cw), cw))
	b.WriteString("\n")

	halves := components.LayoutRow(cw, 2)
	b.WriteString(components.CardRow([]string{
		components.ContentCard("50/30/20 of gross income", a.fiftyThirtyTwentyBody(halves[0]), halves[0]),
		components.ContentCard("Discretionary used", a.usageBody(halves[1]), halves[1]),
	}))
	return b.String()
}

func (a App) needsFirstBody(cw int) string {
	t := theme.Active
	p := a.plan
	cur := a.currency
	barW := max(components.CardInnerWidth(cw)-budgetLabelW-22, 10)

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	if p.IsDeficit() {
		danger := lipgloss.NewStyle().Foreground(t.Danger).Background(t.Surface).Bold(true)
		return danger.Render("Fixed costs exceed income by "+cli.FormatMoney(p.NeedsGap, cur)) + "\n" +
			muted.Render("There is nothing left to split between savings and wants. Trim a fixed expense first.")
	}

	lines := []string{
		muted.Render("Needs are paid first; what remains is split 40% savings, 60% wants."),
		"",
		components.ShareBar("Needs", ratio(p.NeedsTotal, a.snap.Income), cli.FormatMoney(p.NeedsTotal, cur), t.Needs, budgetLabelW, barW),
		components.ShareBar("Savings", ratio(p.RecommendedSavings, a.snap.Income), cli.FormatMoney(p.RecommendedSavings, cur), t.Savings, budgetLabelW, barW),
		components.ShareBar("Wants", ratio(p.RecommendedWants, a.snap.Income), cli.FormatMoney(p.RecommendedWants, cur), t.Wants, budgetLabelW, barW),
	}
	if p.RecommendedSavings.LessThan(a.snap.SavingsGoal) {
		caution := lipgloss.NewStyle().Foreground(t.Caution).Background(t.Surface)
		lines = append(lines, "", caution.Render("Recommended savings fall short of your goal of "+cli.FormatMoney(a.snap.SavingsGoal, cur)+"."))
	}
	return strings.Join(lines, "\n")
}

func (a App) fiftyThirtyTwentyBody(outer int) string {
	t := theme.Active
	s := a.split
	cur := a.currency
	barW := max(components.CardInnerWidth(outer)-budgetLabelW-20, 6)

	lines := []string{
		components.ShareBar("Needs 50%", 0.5, cli.FormatMoneyShort(s.Needs, cur), t.Needs, budgetLabelW, barW),
		components.ShareBar("Wants 30%", 0.3, cli.FormatMoneyShort(s.Wants, cur), t.Wants, budgetLabelW, barW),
		components.ShareBar("Savings 20%", 0.2, cli.FormatMoneyShort(s.Savings, cur), t.Savings, budgetLabelW, barW),
	}
	if a.snap.TotalFixedExpenses.GreaterThan(s.Needs) {
		caution := lipgloss.NewStyle().Foreground(t.Caution).Background(t.Surface)
		lines = append(lines, caution.Render("Fixed costs are above the 50% needs share."))
	}
	return strings.Join(lines, "\n")
}

// usageBody compares spending so far with the discretionary pool.
func (a App) usageBody(outer int) string {
	t := theme.Active
	cur := a.currency
	barW := max(components.CardInnerWidth(outer)-budgetLabelW-20, 6)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	pool := a.plan.DiscretionaryTotal
	if a.plan.IsDeficit() || !pool.IsPositive() {
		return muted.Render("No discretionary money this month.")
	}
	spent := a.snap.VariableExpenses
	lines := []string{
		components.UsageBar("Spent", ratio(spent, pool), cli.FormatMoneyShort(spent, cur)+" of "+cli.FormatMoneyShort(pool, cur), budgetLabelW, barW),
		muted.Render("This month by category:"),
	}
	for _, c := range model.Categories {
		amt := a.review.ByCategory[c]
		lines = append(lines, components.ShareBar(string(c), ratio(amt, pool), cli.FormatMoneyShort(amt, cur), t.Category(string(c)), budgetLabelW, barW))
	}
	return strings.Join(lines, "\n")
}
