// Package cmd implements the walletmom CLI commands.
package cmd

import (
	"fmt"

	"github.com/theirongolddev/walletmom/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Ledger:        %s\n", config.LedgerPath(cfg))
	fmt.Printf("    Currency:      %s\n", cfg.General.Currency)
	fmt.Printf("    Recent count:  %d\n", cfg.General.RecentCount)
	fmt.Println()

	fmt.Println("  [Advisor]")
	fmt.Printf("    Provider: %s\n", cfg.Advisor.Provider)
	if cfg.Advisor.Model != "" {
		fmt.Printf("    Model:    %s\n", cfg.Advisor.Model)
	}
	if cfg.Advisor.BaseURL != "" {
		fmt.Printf("    Base URL: %s\n", cfg.Advisor.BaseURL)
	}
	fmt.Printf("    Timeout:  %ds\n", cfg.Advisor.TimeoutSec)
	if tok := config.GetHFToken(cfg); tok != "" {
		fmt.Printf("    Token:    %s\n", maskToken(tok))
	} else {
		fmt.Println("    Token:    not configured")
	}
	fmt.Println()

	fmt.Println("  [Logging]")
	fmt.Printf("    Level: %s\n", cfg.Logging.Level)
	fmt.Printf("    File:  %s\n", config.LogPath(cfg))
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:  %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Interval: %ds\n", cfg.Daemon.IntervalSec)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Printf("  Journal: %s\n", config.JournalPath())
	fmt.Println()
	fmt.Println("  Run `walletmom setup` to reconfigure.")
	return nil
}
