package tui

import (
	"github.com/theirongolddev/walletmom/internal/model"
	"github.com/theirongolddev/walletmom/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"
)

// ProfileValues backs the profile form. The form writes into these
// fields through pointers, so keep the struct on the heap.
type ProfileValues struct {
	Income      string
	SavingsGoal string
	Theme       string
}

// Parsed returns the validated income and savings goal.
func (v *ProfileValues) Parsed() (income, goal decimal.Decimal, err error) {
	if income, err = model.ParseAmount("monthly income", v.Income); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if goal, err = model.ParseAmount("savings goal", v.SavingsGoal); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return income, goal, nil
}

func amountValidator(field string) func(string) error {
	return func(s string) error {
		_, err := model.ParseAmount(field, s)
		return err
	}
}

// NewProfileForm builds the first-run form asking for income, savings
// goal and theme. It is shown inside the dashboard when the ledger has
// no income yet, and run standalone by `walletmom setup`.
func NewProfileForm(currency string, vals *ProfileValues) *huh.Form {
	if vals.Theme == "" {
		vals.Theme = theme.Active.Name
	}
	themeOpts := huh.NewOptions(theme.Names()...)

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to walletmom").
				Description("Tell me about your month and I'll tell you what you can afford."),
			huh.NewInput().
				Title("Monthly income ("+currency+")").
				Placeholder("50000").
				Validate(amountValidator("monthly income")).
				Value(&vals.Income),
			huh.NewInput().
				Title("Monthly savings goal ("+currency+")").
				Placeholder("5000").
				Validate(amountValidator("savings goal")).
				Value(&vals.SavingsGoal),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.Theme),
		),
	).WithTheme(huh.ThemeDracula()).WithShowHelp(false)
}

// askValues backs the purchase question form.
type askValues struct {
	Item     string
	Cost     string
	Category string
}

func newAskForm(currency string, vals *askValues) *huh.Form {
	if vals.Category == "" {
		vals.Category = string(model.CategoryWants)
	}
	cats := make([]string, len(model.Categories))
	for i, c := range model.Categories {
		cats[i] = string(c)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("What do you want to buy?").
				Placeholder("New headphones").
				Validate(func(s string) error { return model.RequireName("item", s) }).
				Value(&vals.Item),
			huh.NewInput().
				Title("How much does it cost? ("+currency+")").
				Placeholder("2500").
				Validate(amountValidator("cost")).
				Value(&vals.Cost),
			huh.NewSelect[string]().
				Title("Category").
				Options(huh.NewOptions(cats...)...).
				Value(&vals.Category),
		),
	).WithTheme(huh.ThemeDracula()).WithShowHelp(false)
}
