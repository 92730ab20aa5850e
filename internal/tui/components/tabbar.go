package components

import (
	"strings"

	"github.com/theirongolddev/walletmom/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tab is one entry in the tab bar.
type Tab struct {
	Name string
	Key  rune
}

// Tabs in display order. Each shortcut is the first letter of its name.
var Tabs = []Tab{
	{Name: "Overview", Key: 'o'},
	{Name: "Budget", Key: 'b'},
	{Name: "Ask", Key: 'a'},
	{Name: "Review", Key: 'v'},
}

func tabStyles() (active, inactive, key, dim lipgloss.Style) {
	t := theme.Active
	active = lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceHover).Bold(true).Padding(0, 1)
	inactive = lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	key = lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	dim = lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	return active, inactive, key, dim
}

// renderTab draws a single tab. Inactive tabs show their shortcut in
// brackets, e.g. "Re[v]iew", or "[k]Name" when the key is not in the name.
func renderTab(tab Tab, active bool) string {
	activeStyle, inactive, keyStyle, dim := tabStyles()
	if active {
		return activeStyle.Render(tab.Name)
	}

	pad := inactive.Render(" ")
	idx := strings.IndexRune(strings.ToLower(tab.Name), tab.Key)
	if idx < 0 {
		return pad + dim.Render("[") + keyStyle.Render(string(tab.Key)) + dim.Render("]") + inactive.Render(tab.Name) + pad
	}
	return pad + inactive.Render(tab.Name[:idx]) +
		dim.Render("[") + keyStyle.Render(tab.Name[idx:idx+1]) + dim.Render("]") +
		inactive.Render(tab.Name[idx+1:]) + pad
}

// TabVisualWidth is the rendered width of tab, used for mouse hit tests.
func TabVisualWidth(tab Tab, active bool) int {
	return lipgloss.Width(renderTab(tab, active))
}

// RenderTabBar renders the tabs on one row, separated by a single
// column, padded to width.
func RenderTabBar(activeIdx, width int) string {
	t := theme.Active
	sep := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		parts[i] = renderTab(tab, i == activeIdx)
	}

	row := lipgloss.NewStyle().Background(t.Surface).Width(width)
	return row.Render(strings.Join(parts, sep))
}

// TabIdxByKey returns the tab index for a shortcut key, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
