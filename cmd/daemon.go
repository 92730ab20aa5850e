package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/theirongolddev/walletmom/internal/cli"
	"github.com/theirongolddev/walletmom/internal/config"
	"github.com/theirongolddev/walletmom/internal/daemon"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const minPollInterval = 2 * time.Second

// daemonRecord is kept on disk while the daemon runs so that status and
// stop can find the process, its API and the ledger it watches.
type daemonRecord struct {
	PID    int    `json:"pid"`
	Addr   string `json:"addr"`
	Ledger string `json:"ledger"`
}

var (
	flagDaemonAddr     string
	flagDaemonInterval time.Duration
	flagDaemonEvents   int
	flagDaemonDetach   bool
	flagDaemonRecord   string
	flagDaemonOutput   string
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Watch the ledger in the background and serve it over HTTP",
	Long: "Polls the ledger read-only and serves status, snapshot, budget and\n" +
		"assessment endpoints plus an SSE event stream and Prometheus metrics.\n" +
		"Unset flags fall back to the [daemon] section of the config file.",
	RunE: runDaemon,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the daemon is running and what it last saw",
	RunE:  runDaemonStatus,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running daemon",
	RunE:  runDaemonStop,
}

func init() {
	daemonCmd.PersistentFlags().StringVar(&flagDaemonAddr, "addr", "", "HTTP listen address")
	daemonCmd.PersistentFlags().DurationVar(&flagDaemonInterval, "interval", 0, "Ledger poll interval")
	daemonCmd.PersistentFlags().IntVar(&flagDaemonEvents, "events-buffer", 0, "Events kept in memory for late subscribers")
	daemonCmd.PersistentFlags().StringVar(&flagDaemonRecord, "state-file", filepath.Join(config.CacheDir(), "walletmomd.json"), "Where the running daemon records its pid and address")

	daemonCmd.Flags().BoolVar(&flagDaemonDetach, "detach", false, "Run in the background")
	daemonCmd.Flags().StringVar(&flagDaemonOutput, "output", filepath.Join(config.CacheDir(), "walletmomd.out"), "Stdout/stderr of a detached daemon")

	daemonCmd.AddCommand(daemonStatusCmd)
	daemonCmd.AddCommand(daemonStopCmd)
	rootCmd.AddCommand(daemonCmd)
}

// daemonSettings overlays explicitly passed flags on the configured
// [daemon] section.
func daemonSettings(base config.DaemonConfig, changed func(string) bool) (config.DaemonConfig, error) {
	if changed("addr") {
		base.Addr = flagDaemonAddr
	}
	if changed("interval") {
		if flagDaemonInterval < minPollInterval {
			return base, fmt.Errorf("poll interval must be at least %s", minPollInterval)
		}
		base.IntervalSec = int(flagDaemonInterval / time.Second)
	}
	if changed("events-buffer") {
		if flagDaemonEvents <= 0 {
			return base, errors.New("events buffer must be positive")
		}
		base.EventsLimit = flagDaemonEvents
	}
	if base.Addr == "" {
		return base, errors.New("no listen address: set [daemon] addr or pass --addr")
	}
	return base, nil
}

func runDaemon(cmd *cobra.Command, _ []string) error {
	settings, err := daemonSettings(cfg.Daemon, cmd.Flags().Changed)
	if err != nil {
		return err
	}
	if err := clearStaleRecord(flagDaemonRecord); err != nil {
		return err
	}
	if flagDaemonDetach {
		return spawnDaemon(settings)
	}
	return serveDaemon(settings)
}

// spawnDaemon re-runs the current command line without --detach in a
// new session and returns once the child has started.
func spawnDaemon(settings config.DaemonConfig) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(flagDaemonOutput), 0o750); err != nil {
		return fmt.Errorf("create daemon output directory: %w", err)
	}
	//nolint:gosec // output path is chosen by the local user
	out, err := os.OpenFile(flagDaemonOutput, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open daemon output: %w", err)
	}
	defer func() { _ = out.Close() }()

	child := exec.Command(exe, withoutDetach(os.Args[1:])...) //nolint:gosec // re-runs our own binary
	child.Stdout = out
	child.Stderr = out
	child.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := child.Start(); err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}

	fmt.Println()
	fmt.Println(cli.RenderKV("Daemon", "started (pid "+strconv.Itoa(child.Process.Pid)+")"))
	fmt.Println(cli.RenderKV("API", "http://"+settings.Addr+"/v1/status"))
	fmt.Println(cli.RenderKV("Output", flagDaemonOutput))
	return child.Process.Release()
}

func serveDaemon(settings config.DaemonConfig) error {
	rec := daemonRecord{PID: os.Getpid(), Addr: settings.Addr, Ledger: config.LedgerPath(cfg)}
	if err := writeDaemonRecord(flagDaemonRecord, rec); err != nil {
		return err
	}
	defer func() { _ = os.Remove(flagDaemonRecord) }()

	interval := time.Duration(settings.IntervalSec) * time.Second
	svc := daemon.New(daemon.Config{
		LedgerPath:   rec.Ledger,
		Interval:     interval,
		Addr:         settings.Addr,
		EventsBuffer: settings.EventsLimit,
	}, readLedger(), logger)
	logger.Info("daemon starting", zap.Int("pid", rec.PID), zap.String("ledger", rec.Ledger))

	fmt.Printf("  walletmom daemon on http://%s, polling %s every %s\n", settings.Addr, rec.Ledger, interval)
	hint("Stop with `walletmom daemon stop`")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runDaemonStatus(_ *cobra.Command, _ []string) error {
	rec, running, err := runningDaemon(flagDaemonRecord)
	if err != nil {
		return err
	}
	if !running {
		fmt.Println("\n  Daemon is not running.")
		return nil
	}

	st, err := fetchDaemonStatus(rec.Addr)
	if err != nil {
		fmt.Println()
		fmt.Println(cli.RenderKV("Daemon", "pid "+strconv.Itoa(rec.PID)))
		fmt.Println(cli.RenderKV("API", "unreachable: "+err.Error()))
		return nil
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Daemon",
		Headers: []string{"Field", "Value"},
		Rows:    daemonStatusRows(rec, st),
	}))
	return nil
}

// daemonStatusRows merges the on-disk record with what the API reports.
func daemonStatusRows(rec daemonRecord, st daemon.Status) [][]string {
	lastPoll := "pending"
	if !st.LastPollAt.IsZero() {
		lastPoll = st.LastPollAt.Local().Format(time.RFC3339)
	}
	ledgerPath := st.LedgerPath
	if ledgerPath == "" {
		ledgerPath = rec.Ledger
	}
	cur := currencyOf(st.Summary.Currency)

	rows := [][]string{
		{"PID", strconv.Itoa(rec.PID)},
		{"Address", "http://" + rec.Addr},
		{"Ledger", ledgerPath},
		{"Up since", st.StartedAt.Local().Format(time.RFC3339)},
		{"Last poll", lastPoll},
		{"Polls", strconv.FormatInt(st.PollCount, 10)},
		{"Subscribers", strconv.Itoa(st.SubscriberCount)},
		{"---"},
		{"Transactions", strconv.Itoa(st.Summary.Transactions)},
		{"Spent this month", cli.FormatMoney(st.Summary.MonthSpent, cur)},
		{"Free cash", cli.FormatMoney(st.Summary.Financial.FreeCashFlow, cur)},
	}
	if st.LastError != "" {
		rows = append(rows, []string{"Last error", st.LastError})
	}
	return rows
}

func fetchDaemonStatus(addr string) (daemon.Status, error) {
	var st daemon.Status
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+addr+"/v1/status", nil)
	if err != nil {
		return st, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return st, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return st, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return st, fmt.Errorf("decode status: %w", err)
	}
	return st, nil
}

func runDaemonStop(_ *cobra.Command, _ []string) error {
	rec, running, err := runningDaemon(flagDaemonRecord)
	if err != nil {
		return err
	}
	if !running {
		return errors.New("daemon is not running")
	}
	if err := syscall.Kill(rec.PID, syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal daemon: %w", err)
	}

	deadline := time.Now().Add(8 * time.Second)
	for time.Now().Before(deadline) {
		if !processAlive(rec.PID) {
			_ = os.Remove(flagDaemonRecord)
			fmt.Printf("  Stopped daemon (pid %d)\n", rec.PID)
			return nil
		}
		time.Sleep(150 * time.Millisecond)
	}
	return fmt.Errorf("daemon (pid %d) did not exit in time", rec.PID)
}

// runningDaemon reads the record and reports whether its process is
// alive. A record left by a dead process is removed.
func runningDaemon(path string) (daemonRecord, bool, error) {
	rec, err := readDaemonRecord(path)
	if errors.Is(err, os.ErrNotExist) {
		return rec, false, nil
	}
	if err != nil {
		return rec, false, err
	}
	if !processAlive(rec.PID) {
		_ = os.Remove(path)
		return rec, false, nil
	}
	return rec, true, nil
}

func clearStaleRecord(path string) error {
	rec, running, err := runningDaemon(path)
	if err != nil {
		return err
	}
	if running {
		return fmt.Errorf("daemon already running (pid %d on %s)", rec.PID, rec.Addr)
	}
	return nil
}

func withoutDetach(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a == "--detach" || a == "--detach=true" {
			continue
		}
		out = append(out, a)
	}
	return out
}

func processAlive(pid int) bool {
	err := syscall.Kill(pid, syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}

func writeDaemonRecord(path string, rec daemonRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create daemon state directory: %w", err)
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}

func readDaemonRecord(path string) (daemonRecord, error) {
	var rec daemonRecord
	//nolint:gosec // state path is chosen by the local user
	data, err := os.ReadFile(path)
	if err != nil {
		return rec, err
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("daemon state %s: %w", path, err)
	}
	if rec.PID <= 0 {
		return rec, fmt.Errorf("daemon state %s: invalid pid %d", path, rec.PID)
	}
	return rec, nil
}
