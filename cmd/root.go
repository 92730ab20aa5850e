package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/theirongolddev/walletmom/internal/advisor"
	"github.com/theirongolddev/walletmom/internal/cli"
	"github.com/theirongolddev/walletmom/internal/config"
	"github.com/theirongolddev/walletmom/internal/ledger"
	"github.com/theirongolddev/walletmom/internal/logging"
	"github.com/theirongolddev/walletmom/internal/purchase"
	"github.com/theirongolddev/walletmom/internal/store"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagLedger  string
	flagDebug   bool
	flagOffline bool
	flagQuiet   bool
)

// Loaded once per invocation by PersistentPreRunE.
var (
	cfg    config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "walletmom",
	Short: "Personal finance advisor",
	Long: "Track income, fixed bills and purchases, get a budget split, " +
		"and ask whether you can afford something before you buy it.",
	SilenceUsage:      true,
	PersistentPreRunE: loadRuntime,
	RunE:              runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	defer func() { _ = logger.Sync() }()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagLedger, "ledger", "l", "", "Ledger file (default from config)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Log at debug level")
	rootCmd.PersistentFlags().BoolVar(&flagOffline, "offline", false, "Use built-in advice only, never call the network")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress hints and progress output")
}

// loadRuntime reads .env, the config file and the environment, then
// builds the logger. Logs go to a file so terminal output stays clean.
func loadRuntime(cmd *cobra.Command, _ []string) error {
	if err := config.LoadEnv(); err != nil {
		return err
	}
	c, err := config.Load()
	if err != nil {
		return err
	}
	if flagLedger != "" {
		c.General.LedgerPath = flagLedger
	}
	if flagOffline {
		c.Advisor.Provider = advisor.SelectTemplate
	}
	cfg = c

	l, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		File:   config.LogPath(cfg),
		Debug:  flagDebug,
		Fields: map[string]interface{}{"cmd": cmd.Name()},
	})
	if err != nil {
		// a broken log path should not stop the ledger from working
		fmt.Fprintf(os.Stderr, "  warning: %v (logging disabled)\n", err)
		return nil
	}
	logger = l
	return nil
}

// openLedger opens the ledger for reading and writing, creating it on
// first use.
func openLedger() (*ledger.Ledger, error) {
	return ledger.Open(config.LedgerPath(cfg), cfg.General.Currency)
}

// readLedger returns a view that never creates or writes the file.
func readLedger() *ledger.ReadOnly {
	return ledger.NewReadOnly(config.LedgerPath(cfg), cfg.General.Currency)
}

func newAdvisor() *advisor.Advisor {
	return advisor.FromSettings(advisor.Settings{
		Provider: cfg.Advisor.Provider,
		Token:    config.GetHFToken(cfg),
		Model:    cfg.Advisor.Model,
		BaseURL:  cfg.Advisor.BaseURL,
		Timeout:  time.Duration(cfg.Advisor.TimeoutSec) * time.Second,
	}, logger)
}

// openJournal opens the decision journal. The journal is an audit
// trail, so failure is logged and the flow continues without it.
func openJournal() (*store.Journal, func()) {
	j, err := store.Open(config.JournalPath())
	if err != nil {
		logger.Warn("decision journal unavailable", zap.Error(err))
		return nil, func() {}
	}
	return j, func() { _ = j.Close() }
}

// newPurchaseService wires ledger, advisor and journal together. j may
// be nil.
func newPurchaseService(l *ledger.Ledger, j *store.Journal) (*purchase.Service, *advisor.Advisor) {
	adv := newAdvisor()

	// keep the interface nil rather than holding a typed nil pointer
	var journal purchase.Journal
	if j != nil {
		journal = j
	}
	return purchase.NewService(l, adv, journal, logger), adv
}

// currencyOf returns the ledger currency, or the configured default.
func currencyOf(c string) string {
	if c != "" {
		return c
	}
	return cfg.General.Currency
}

func money(d decimal.Decimal, currency string) string {
	return cli.FormatMoney(d, currencyOf(currency))
}

func hint(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Printf("  "+format+"\n", args...)
}

func maskToken(tok string) string {
	if len(tok) > 12 {
		return tok[:6] + "..." + tok[len(tok)-4:]
	}
	if len(tok) > 4 {
		return tok[:3] + "..."
	}
	return "****"
}
