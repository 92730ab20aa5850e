package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/walletmom/internal/config"
	"github.com/theirongolddev/walletmom/internal/tui"
	"github.com/theirongolddev/walletmom/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:     "tui",
	Aliases: []string{"dash"},
	Short:   "Launch interactive TUI dashboard",
	RunE:    runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	l, err := openLedger()
	if err != nil {
		return err
	}
	j, closeJournal := openJournal()
	defer closeJournal()
	svc, adv := newPurchaseService(l, j)

	opts := tui.Options{
		Ledger:          l,
		Purchases:       svc,
		Provider:        adv.Provider(),
		Breaker:         adv.BreakerState,
		RecentCount:     cfg.General.RecentCount,
		HistoryCount:    8,
		RefreshInterval: 30 * time.Second,
		AskTimeout:      time.Duration(cfg.Advisor.TimeoutSec+5) * time.Second,
		SaveTheme: func(name string) error {
			fileCfg, err := config.Load()
			if err != nil {
				return err
			}
			fileCfg.Appearance.Theme = name
			return config.Save(fileCfg)
		},
		Logger: logger,
	}
	if j != nil {
		opts.History = j
	}

	p := tea.NewProgram(tui.NewApp(opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
