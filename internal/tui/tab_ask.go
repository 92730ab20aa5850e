package tui

import (
	"strings"

	"github.com/theirongolddev/walletmom/internal/advisor"
	"github.com/theirongolddev/walletmom/internal/cli"
	"github.com/theirongolddev/walletmom/internal/tui/components"
	"github.com/theirongolddev/walletmom/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderAskTab(cw int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	cur := a.currency

	free := components.MetricCard(components.Metric{
		Label: "Free cash right now",
		Value: cli.FormatMoney(a.snap.FreeCashFlow, cur),
		Note:  "purchases are judged against this",
	}, cw)

	switch a.phase {
	case askThinking:
		return free + "\n" + components.FocusCard("Thinking",
			a.spinner.View()+muted.Render(" Checking your budget and asking the advisor..."), cw)

	case askFailed:
		errStyle := lipgloss.NewStyle().Foreground(t.Danger).Background(t.Surface)
		body := errStyle.Render(a.askErr.Error()) + "\n\n" + muted.Render("enter to try again")
		return free + "\n" + components.FocusCard("Could not analyse that", body, cw)

	case askResult:
		return free + "\n" + a.renderVerdict(cw)
	}

	if a.askForm == nil {
		return free
	}
	return free + "\n" + components.FocusCard("Can I afford this?", a.askForm.View(), cw)
}

func (a App) renderVerdict(cw int) string {
	t := theme.Active
	an := a.analysis
	cur := an.Currency
	inner := components.CardInnerWidth(cw)

	statusColor := t.Status(string(an.Assessment.Status))
	badge := lipgloss.NewStyle().Foreground(t.Background).Background(statusColor).Bold(true).Padding(0, 1)
	reason := lipgloss.NewStyle().Foreground(statusColor).Background(t.Surface)
	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	advice := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Width(inner)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	keyStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)

	row := func(l, v string) string {
		return label.Render(padTo(l, 22)) + value.Render(v)
	}

	var b strings.Builder
	b.WriteString(badge.Render(string(an.Assessment.Status)))
	b.WriteString(reason.Render("  " + an.Assessment.Reason))
	b.WriteString("\n\n")
	b.WriteString(row("Item", an.Request.Item+" ("+string(an.Request.Category)+")"))
	b.WriteString("\n")
	b.WriteString(row("Cost", cli.FormatMoney(an.Request.Cost, cur)))
	b.WriteString("\n")
	b.WriteString(row("Left afterwards", cli.FormatMoney(an.Assessment.RemainingBalance, cur)))
	b.WriteString("\n")
	b.WriteString(row("Share of free cash", cli.FormatPercent(an.Assessment.CostPercentage)))
	b.WriteString("\n\n")
	b.WriteString(advice.Render(an.Advice.Text))
	b.WriteString("\n")

	via := "via " + an.Advice.Provider
	if an.Advice.FellBack {
		via += " (advisor unavailable, using built-in advice)"
	} else if an.Advice.Provider == advisor.TemplateName {
		via += " (built-in advice)"
	}
	b.WriteString(dim.Render(via))
	b.WriteString("\n\n")
	b.WriteString(keyStyle.Render("[y]") + label.Render(" log this purchase   ") +
		keyStyle.Render("[n]") + label.Render(" not now"))

	return components.FocusCard("Verdict", b.String(), cw)
}

func padTo(s string, w int) string {
	if gap := w - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
