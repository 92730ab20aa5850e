// Package daemon provides the long-running background ledger monitor service.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/theirongolddev/walletmom/internal/ledger"
	"github.com/theirongolddev/walletmom/internal/model"
	"github.com/theirongolddev/walletmom/internal/pipeline"
)

// Source is polled for the current ledger. *ledger.ReadOnly satisfies it.
type Source interface {
	Document() (*ledger.Document, error)
}

// Config controls the daemon runtime behavior.
type Config struct {
	LedgerPath   string
	Interval     time.Duration
	Addr         string
	EventsBuffer int
}

// Snapshot is a compact ledger state for status/event payloads.
type Snapshot struct {
	At            time.Time               `json:"at"`
	Currency      string                  `json:"currency"`
	Financial     model.FinancialSnapshot `json:"financial"`
	FixedExpenses int                     `json:"fixed_expenses"`
	Transactions  int                     `json:"transactions"`
	MonthSpent    decimal.Decimal         `json:"month_spent"`
}

// Delta captures snapshot deltas between polls.
type Delta struct {
	Transactions     int             `json:"transactions"`
	Income           decimal.Decimal `json:"income"`
	FixedExpenses    decimal.Decimal `json:"fixed_expenses"`
	VariableExpenses decimal.Decimal `json:"variable_expenses"`
	FreeCashFlow     decimal.Decimal `json:"free_cash_flow"`
}

func (d Delta) isZero() bool {
	return d.Transactions == 0 &&
		d.Income.IsZero() &&
		d.FixedExpenses.IsZero() &&
		d.VariableExpenses.IsZero() &&
		d.FreeCashFlow.IsZero()
}

// Event is emitted whenever the ledger snapshot changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	LedgerPath      string    `json:"ledger_path"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg     Config
	src     Source
	logger  *zap.Logger
	metrics *metrics
	now     func() time.Time

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service reading from src.
func New(cfg Config, src Source, logger *zap.Logger) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 15 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8427"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		cfg:       cfg,
		src:       src,
		logger:    logger.With(zap.String("component", "daemon")),
		metrics:   newMetrics(prometheus.NewRegistry()),
		now:       time.Now,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.logger.Info("daemon listening", zap.String("addr", s.cfg.Addr), zap.Duration("interval", s.cfg.Interval))

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce()
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

func (s *Service) pollOnce() {
	doc, err := s.src.Document()
	now := s.now()
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = now
		s.pollCount++
		s.mu.Unlock()
		s.metrics.polls.WithLabelValues("error").Inc()
		s.logger.Warn("poll failed", zap.Error(err))
		return
	}

	snap := snapshotFromDocument(doc, now)
	s.metrics.polls.WithLabelValues("ok").Inc()
	s.metrics.observe(snap)

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	if !prevExists {
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      "snapshot",
			Timestamp: now,
			Snapshot:  snap,
		}
		publish = true
	} else {
		delta := diffSnapshots(prev, snap)
		if !delta.isZero() {
			s.nextEventID++
			ev = Event{
				ID:        s.nextEventID,
				Type:      "ledger_delta",
				Timestamp: now,
				Snapshot:  snap,
				Delta:     delta,
			}
			publish = true
		}
	}
	s.mu.Unlock()

	if publish {
		s.logger.Debug("ledger changed", zap.String("type", ev.Type), zap.Int64("event_id", ev.ID))
		s.publishEvent(ev)
	}
}

func snapshotFromDocument(doc *ledger.Document, at time.Time) Snapshot {
	month := pipeline.Review(doc.Transactions, at)
	return Snapshot{
		At:            at,
		Currency:      doc.UserProfile.Currency,
		Financial:     pipeline.BuildSnapshot(doc.UserProfile, doc.FixedExpenses, doc.Transactions),
		FixedExpenses: len(doc.FixedExpenses),
		Transactions:  len(doc.Transactions),
		MonthSpent:    month.Spent,
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Transactions:     curr.Transactions - prev.Transactions,
		Income:           curr.Financial.Income.Sub(prev.Financial.Income),
		FixedExpenses:    curr.Financial.TotalFixedExpenses.Sub(prev.Financial.TotalFixedExpenses),
		VariableExpenses: curr.Financial.VariableExpenses.Sub(prev.Financial.VariableExpenses),
		FreeCashFlow:     curr.Financial.FreeCashFlow.Sub(prev.Financial.FreeCashFlow),
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		LedgerPath:      s.cfg.LedgerPath,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
