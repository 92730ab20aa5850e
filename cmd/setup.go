package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/walletmom/internal/advisor"
	"github.com/theirongolddev/walletmom/internal/config"
	"github.com/theirongolddev/walletmom/internal/tui"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	// Start from the file, not the flag-adjusted runtime config, so
	// --offline or --ledger are not written back.
	fileCfg, err := config.Load()
	if err != nil {
		return err
	}

	l, err := openLedger()
	if err != nil {
		return err
	}
	profile, err := l.Profile()
	if err != nil {
		return err
	}

	currency := currencyOf(profile.Currency)
	provider := fileCfg.Advisor.Provider
	token := ""

	fmt.Println()
	fmt.Println("  Welcome to walletmom!")
	fmt.Printf("  Ledger: %s\n\n", l.Path())

	tokenDesc := "Used for written advice. Leave blank to keep the built-in advice."
	if existing := config.GetHFToken(fileCfg); existing != "" {
		tokenDesc = "Current: " + maskToken(existing) + ". Leave blank to keep it."
	}

	general := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Currency symbol").
				Placeholder("₹").
				Value(&currency),
			huh.NewSelect[string]().
				Title("Advice provider").
				Options(
					huh.NewOption("Auto (Hugging Face when a token is set)", advisor.SelectAuto),
					huh.NewOption("Built-in templates only", advisor.SelectTemplate),
					huh.NewOption("Hugging Face", advisor.SelectHuggingFace),
				).
				Value(&provider),
			huh.NewInput().
				Title("Hugging Face token").
				Description(tokenDesc).
				EchoMode(huh.EchoModePassword).
				Value(&token),
		),
	).WithTheme(huh.ThemeDracula())
	if err := general.Run(); err != nil {
		return setupAborted(err)
	}

	vals := &tui.ProfileValues{Theme: fileCfg.Appearance.Theme}
	if !profile.MonthlyIncome.IsZero() {
		vals.Income = profile.MonthlyIncome.String()
		vals.SavingsGoal = profile.SavingsGoal.String()
	}
	currency = strings.TrimSpace(currency)
	if err := tui.NewProfileForm(currencyOf(currency), vals).Run(); err != nil {
		return setupAborted(err)
	}
	income, goal, err := vals.Parsed()
	if err != nil {
		return err
	}

	if currency != "" {
		fileCfg.General.Currency = currency
		if err := l.SetCurrency(currency); err != nil {
			return err
		}
	}
	if err := l.UpdateProfile(income, goal); err != nil {
		return err
	}

	fileCfg.Advisor.Provider = provider
	if t := strings.TrimSpace(token); t != "" {
		fileCfg.Advisor.Token = t
	}
	fileCfg.Appearance.Theme = vals.Theme
	if err := config.Save(fileCfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	logger.Info("setup complete", zap.String("provider", provider), zap.String("theme", vals.Theme))

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `walletmom setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}

func setupAborted(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		fmt.Println("\n  Setup cancelled, nothing saved.")
		return nil
	}
	return err
}
