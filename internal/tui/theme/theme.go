// Package theme defines color themes for the walletmom dashboard.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme maps UI roles to colors.
type Theme struct {
	Name         string
	Background   lipgloss.Color
	Surface      lipgloss.Color // cards and panels
	SurfaceHover lipgloss.Color // active tab, selected row
	Border       lipgloss.Color
	BorderAccent lipgloss.Color // focused card
	TextDim      lipgloss.Color // hints, axis labels
	TextMuted    lipgloss.Color // labels
	TextPrimary  lipgloss.Color
	Accent       lipgloss.Color
	AccentBright lipgloss.Color

	// Verdict colors. Safe doubles as "income" and Danger as "deficit".
	Safe    lipgloss.Color
	Caution lipgloss.Color
	Danger  lipgloss.Color

	// Category colors used in share bars and charts.
	Needs      lipgloss.Color
	Wants      lipgloss.Color
	Unexpected lipgloss.Color
	Savings    lipgloss.Color
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default: warm, paper-like dark palette.
var FlexokiDark = Theme{
	Name:         "flexoki-dark",
	Background:   lipgloss.Color("#100F0F"),
	Surface:      lipgloss.Color("#1C1B1A"),
	SurfaceHover: lipgloss.Color("#282726"),
	Border:       lipgloss.Color("#403E3C"),
	BorderAccent: lipgloss.Color("#3AA99F"),
	TextDim:      lipgloss.Color("#575653"),
	TextMuted:    lipgloss.Color("#878580"),
	TextPrimary:  lipgloss.Color("#FFFCF0"),
	Accent:       lipgloss.Color("#3AA99F"),
	AccentBright: lipgloss.Color("#5BC8BE"),
	Safe:         lipgloss.Color("#879A39"),
	Caution:      lipgloss.Color("#D0A215"),
	Danger:       lipgloss.Color("#D14D41"),
	Needs:        lipgloss.Color("#4385BE"),
	Wants:        lipgloss.Color("#CE5D97"),
	Unexpected:   lipgloss.Color("#DA702C"),
	Savings:      lipgloss.Color("#879A39"),
}

// CatppuccinMocha is a soft pastel palette.
var CatppuccinMocha = Theme{
	Name:         "catppuccin-mocha",
	Background:   lipgloss.Color("#1E1E2E"),
	Surface:      lipgloss.Color("#313244"),
	SurfaceHover: lipgloss.Color("#45475A"),
	Border:       lipgloss.Color("#585B70"),
	BorderAccent: lipgloss.Color("#89B4FA"),
	TextDim:      lipgloss.Color("#6C7086"),
	TextMuted:    lipgloss.Color("#A6ADC8"),
	TextPrimary:  lipgloss.Color("#CDD6F4"),
	Accent:       lipgloss.Color("#89B4FA"),
	AccentBright: lipgloss.Color("#B4D0FB"),
	Safe:         lipgloss.Color("#A6E3A1"),
	Caution:      lipgloss.Color("#F9E2AF"),
	Danger:       lipgloss.Color("#F38BA8"),
	Needs:        lipgloss.Color("#89B4FA"),
	Wants:        lipgloss.Color("#F5C2E7"),
	Unexpected:   lipgloss.Color("#FAB387"),
	Savings:      lipgloss.Color("#A6E3A1"),
}

// TokyoNight is a cool blue and purple palette.
var TokyoNight = Theme{
	Name:         "tokyo-night",
	Background:   lipgloss.Color("#1A1B26"),
	Surface:      lipgloss.Color("#24283B"),
	SurfaceHover: lipgloss.Color("#343A52"),
	Border:       lipgloss.Color("#565F89"),
	BorderAccent: lipgloss.Color("#7AA2F7"),
	TextDim:      lipgloss.Color("#565F89"),
	TextMuted:    lipgloss.Color("#A9B1D6"),
	TextPrimary:  lipgloss.Color("#C0CAF5"),
	Accent:       lipgloss.Color("#7AA2F7"),
	AccentBright: lipgloss.Color("#A9C1FF"),
	Safe:         lipgloss.Color("#9ECE6A"),
	Caution:      lipgloss.Color("#E0AF68"),
	Danger:       lipgloss.Color("#F7768E"),
	Needs:        lipgloss.Color("#7DCFFF"),
	Wants:        lipgloss.Color("#BB9AF7"),
	Unexpected:   lipgloss.Color("#FF9E64"),
	Savings:      lipgloss.Color("#9ECE6A"),
}

// Terminal sticks to the ANSI 16 palette.
var Terminal = Theme{
	Name:         "terminal",
	Background:   lipgloss.Color("0"),
	Surface:      lipgloss.Color("0"),
	SurfaceHover: lipgloss.Color("8"),
	Border:       lipgloss.Color("8"),
	BorderAccent: lipgloss.Color("6"),
	TextDim:      lipgloss.Color("8"),
	TextMuted:    lipgloss.Color("7"),
	TextPrimary:  lipgloss.Color("15"),
	Accent:       lipgloss.Color("6"),
	AccentBright: lipgloss.Color("14"),
	Safe:         lipgloss.Color("2"),
	Caution:      lipgloss.Color("3"),
	Danger:       lipgloss.Color("1"),
	Needs:        lipgloss.Color("4"),
	Wants:        lipgloss.Color("5"),
	Unexpected:   lipgloss.Color("3"),
	Savings:      lipgloss.Color("2"),
}

// All available themes, default first.
var All = []Theme{FlexokiDark, CatppuccinMocha, TokyoNight, Terminal}

// Names lists the theme names in display order.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}

// ByName returns a theme by its name, defaulting to FlexokiDark.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}

// Status returns the verdict color for a SAFE/CAUTION/DANGER string.
// Anything else renders muted.
func (t Theme) Status(status string) lipgloss.Color {
	switch status {
	case "SAFE":
		return t.Safe
	case "CAUTION":
		return t.Caution
	case "DANGER":
		return t.Danger
	}
	return t.TextMuted
}

// Category returns the color for a Needs/Wants/Unexpected bucket.
func (t Theme) Category(category string) lipgloss.Color {
	switch category {
	case "Needs":
		return t.Needs
	case "Wants":
		return t.Wants
	case "Unexpected":
		return t.Unexpected
	}
	return t.Accent
}
