// Package purchase runs the "can I afford this?" flow: snapshot the
// ledger, assess the item, explain the verdict, and on confirmation log
// the expense.
package purchase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/theirongolddev/walletmom/internal/advisor"
	"github.com/theirongolddev/walletmom/internal/model"
	"github.com/theirongolddev/walletmom/internal/pipeline"
	"github.com/theirongolddev/walletmom/internal/risk"
)

// ErrAlreadyConfirmed is returned when an analysis is confirmed twice.
var ErrAlreadyConfirmed = errors.New("purchase: already confirmed")

// Ledger is the subset of the ledger store the flow needs.
type Ledger interface {
	pipeline.Source
	LogTransaction(tx model.Transaction) error
}

// Explainer turns facts into advice. *advisor.Advisor satisfies it.
type Explainer interface {
	Explain(ctx context.Context, f advisor.Facts) advisor.Advice
}

// Journal records decisions. *store.Journal satisfies it.
type Journal interface {
	Record(d model.Decision) error
	MarkConfirmed(id string, at time.Time) error
}

// Request is one prospective purchase.
type Request struct {
	Item     string
	Cost     decimal.Decimal
	Category model.Category
}

// Validate checks the request before anything is read or written.
func (r Request) Validate() error {
	if err := model.RequireName("item", r.Item); err != nil {
		return err
	}
	if err := model.RequireNonNegative("cost", r.Cost); err != nil {
		return err
	}
	if _, err := model.ParseCategory(string(r.Category)); err != nil {
		return err
	}
	return nil
}

// Analysis is the outcome of Analyze, ready to display or confirm.
type Analysis struct {
	ID         string
	At         time.Time
	Request    Request
	Currency   string
	Snapshot   model.FinancialSnapshot
	Assessment model.RiskAssessment
	Advice     advisor.Advice
	Confirmed  bool
}

// Service wires the flow together.
type Service struct {
	ledger    Ledger
	agg       *pipeline.Aggregator
	explainer Explainer
	journal   Journal
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a Service. journal may be nil.
func NewService(l Ledger, e Explainer, j Journal, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		ledger:    l,
		agg:       pipeline.NewAggregator(l),
		explainer: e,
		journal:   j,
		logger:    logger.With(zap.String("component", "purchase")),
		now:       time.Now,
	}
}

// Analyze assesses req against the current free cash flow and explains
// the verdict. Nothing is written to the ledger.
func (s *Service) Analyze(ctx context.Context, req Request) (*Analysis, error) {
	req.Item = strings.TrimSpace(req.Item)
	if req.Category == "" {
		req.Category = model.CategoryWants
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	cat, _ := model.ParseCategory(string(req.Category))
	req.Category = cat

	profile, err := s.ledger.Profile()
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}
	snap, err := s.agg.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("computing snapshot: %w", err)
	}

	assessment, err := risk.Assess(risk.Input{
		DiscretionaryBalance: snap.FreeCashFlow,
		SavingsGoal:          snap.SavingsGoal,
		ItemCost:             req.Cost,
	})
	if err != nil {
		return nil, err
	}

	advice := s.explainer.Explain(ctx, advisor.Facts{
		Item:             req.Item,
		Cost:             req.Cost,
		Status:           assessment.Status,
		Reason:           assessment.Reason,
		RemainingBalance: assessment.RemainingBalance,
		Currency:         profile.Currency,
	})

	a := &Analysis{
		ID:         uuid.NewString(),
		At:         s.now(),
		Request:    req,
		Currency:   profile.Currency,
		Snapshot:   snap,
		Assessment: assessment,
		Advice:     advice,
	}

	s.logger.Info("purchase analysed",
		zap.String("id", a.ID),
		zap.String("item", req.Item),
		zap.String("cost", req.Cost.String()),
		zap.String("status", string(assessment.Status)),
		zap.String("provider", advice.Provider),
		zap.Bool("fell_back", advice.FellBack),
	)

	if s.journal != nil {
		if err := s.journal.Record(a.decision()); err != nil {
			s.logger.Warn("journal record failed", zap.Error(err))
		}
	}
	return a, nil
}

// Confirm logs the analysed purchase as an expense transaction.
func (s *Service) Confirm(a *Analysis) (model.Transaction, error) {
	if a.Confirmed {
		return model.Transaction{}, ErrAlreadyConfirmed
	}

	tx := model.Transaction{
		Timestamp:   s.now(),
		Description: a.Request.Item,
		Amount:      a.Request.Cost,
		Category:    a.Request.Category,
		Kind:        model.KindExpense,
	}
	if err := s.ledger.LogTransaction(tx); err != nil {
		return model.Transaction{}, fmt.Errorf("logging purchase: %w", err)
	}
	a.Confirmed = true

	s.logger.Info("purchase confirmed", zap.String("id", a.ID), zap.String("item", tx.Description))

	if s.journal != nil {
		if err := s.journal.MarkConfirmed(a.ID, tx.Timestamp); err != nil {
			s.logger.Warn("journal confirm failed", zap.Error(err))
		}
	}
	return tx, nil
}

func (a *Analysis) decision() model.Decision {
	return model.Decision{
		ID:               a.ID,
		At:               a.At,
		Item:             a.Request.Item,
		Cost:             a.Request.Cost,
		Category:         a.Request.Category,
		Status:           a.Assessment.Status,
		Reason:           a.Assessment.Reason,
		RemainingBalance: a.Assessment.RemainingBalance,
		CostPercentage:   a.Assessment.CostPercentage,
		Provider:         a.Advice.Provider,
		FellBack:         a.Advice.FellBack,
		Confirmed:        a.Confirmed,
	}
}
