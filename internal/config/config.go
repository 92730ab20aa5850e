// Package config loads walletmom settings from a TOML file, a .env file
// and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const appName = "walletmom"

// Config holds all walletmom configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Advisor    AdvisorConfig    `toml:"advisor"`
	Logging    LoggingConfig    `toml:"logging"`
	Daemon     DaemonConfig     `toml:"daemon"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds ledger settings.
type GeneralConfig struct {
	LedgerPath  string `toml:"ledger_path,omitempty"`
	Currency    string `toml:"currency"`
	RecentCount int    `toml:"recent_count"`
}

// AdvisorConfig selects the explanation provider.
type AdvisorConfig struct {
	// Provider is one of auto, template, huggingface.
	Provider   string `toml:"provider"`
	Model      string `toml:"model,omitempty"`
	BaseURL    string `toml:"base_url,omitempty"`
	Token      string `toml:"token,omitempty"`
	TimeoutSec int    `toml:"timeout_sec"`
}

// LoggingConfig controls the log file.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file,omitempty"`
}

// DaemonConfig holds background service settings.
type DaemonConfig struct {
	Addr        string `toml:"addr"`
	IntervalSec int    `toml:"interval_sec"`
	EventsLimit int    `toml:"events_limit"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Currency:    "₹",
			RecentCount: 5,
		},
		Advisor: AdvisorConfig{
			Provider:   "auto",
			TimeoutSec: 15,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Daemon: DaemonConfig{
			Addr:        "127.0.0.1:8427",
			IntervalSec: 15,
			EventsLimit: 200,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

func xdgDir(envVar string, fallback ...string) string {
	if xdg := os.Getenv(envVar); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(append(append([]string{home}, fallback...), appName)...)
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DataDir returns the XDG data directory holding the ledger and journal.
func DataDir() string {
	return xdgDir("XDG_DATA_HOME", ".local", "share")
}

// CacheDir returns the XDG cache directory holding logs and daemon state.
func CacheDir() string {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// LedgerPath returns the configured ledger document path.
func LedgerPath(cfg Config) string {
	if cfg.General.LedgerPath != "" {
		return cfg.General.LedgerPath
	}
	return filepath.Join(DataDir(), "ledger.json")
}

// JournalPath returns the decision journal database path.
func JournalPath() string {
	return filepath.Join(DataDir(), "journal.db")
}

// LogPath returns the configured log file path.
func LogPath(cfg Config) string {
	if cfg.Logging.File != "" {
		return cfg.Logging.File
	}
	return filepath.Join(CacheDir(), appName+".log")
}

// Load reads the config file, returning defaults if it doesn't exist.
// Environment overrides are applied on top.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing config: %w", err)
	}
	return f.Close()
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}
