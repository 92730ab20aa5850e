package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// envOverrides are read from WALLETMOM_* variables. Empty means unset.
type envOverrides struct {
	Ledger          string `envconfig:"LEDGER"`
	Currency        string `envconfig:"CURRENCY"`
	AdvisorProvider string `envconfig:"ADVISOR_PROVIDER"`
	AdvisorModel    string `envconfig:"ADVISOR_MODEL"`
	AdvisorURL      string `envconfig:"ADVISOR_BASE_URL"`
	AdvisorTimeout  int    `envconfig:"ADVISOR_TIMEOUT_SEC"`
	LogLevel        string `envconfig:"LOG_LEVEL"`
	LogFile         string `envconfig:"LOG_FILE"`
	DaemonAddr      string `envconfig:"DAEMON_ADDR"`
	Theme           string `envconfig:"THEME"`
}

// secrets are read without a prefix.
type secrets struct {
	HFToken string `envconfig:"HF_TOKEN"`
}

// LoadEnv loads .env files into the process environment. Variables
// already set win. Missing files are ignored.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env", filepath.Join(Dir(), ".env")}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overlays WALLETMOM_* environment variables onto cfg.
func ApplyEnv(cfg *Config) error {
	var o envOverrides
	if err := envconfig.Process("WALLETMOM", &o); err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}

	setIf(&cfg.General.LedgerPath, o.Ledger)
	setIf(&cfg.General.Currency, o.Currency)
	setIf(&cfg.Advisor.Provider, o.AdvisorProvider)
	setIf(&cfg.Advisor.Model, o.AdvisorModel)
	setIf(&cfg.Advisor.BaseURL, o.AdvisorURL)
	setIf(&cfg.Logging.Level, o.LogLevel)
	setIf(&cfg.Logging.File, o.LogFile)
	setIf(&cfg.Daemon.Addr, o.DaemonAddr)
	setIf(&cfg.Appearance.Theme, o.Theme)
	if o.AdvisorTimeout > 0 {
		cfg.Advisor.TimeoutSec = o.AdvisorTimeout
	}
	return nil
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// GetHFToken returns the Hugging Face token from env var or config, in
// that order.
func GetHFToken(cfg Config) string {
	var s secrets
	if err := envconfig.Process("", &s); err == nil && s.HFToken != "" {
		return s.HFToken
	}
	return cfg.Advisor.Token
}
