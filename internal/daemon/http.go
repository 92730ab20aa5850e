package daemon

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/theirongolddev/walletmom/internal/budget"
	"github.com/theirongolddev/walletmom/internal/model"
	"github.com/theirongolddev/walletmom/internal/risk"
)

// Handler returns the daemon's HTTP API. Every route is read-only.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	s.route(mux, "/healthz", s.handleHealth)
	s.route(mux, "/v1/status", s.handleStatus)
	s.route(mux, "/v1/snapshot", s.handleSnapshot)
	s.route(mux, "/v1/budget", s.handleBudget)
	s.route(mux, "/v1/assess", s.handleAssess)
	s.route(mux, "/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/stream", s.handleStream)
	mux.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))
	return mux
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Service) route(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			s.metrics.requestsTotal.WithLabelValues(pattern, "405").Inc()
			return
		}
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		h(rec, r)
		s.metrics.requestsTotal.WithLabelValues(pattern, strconv.Itoa(rec.code)).Inc()
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Service) writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		code = http.StatusBadRequest
	} else {
		s.logger.Warn("request failed", zap.Error(err))
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

// current re-reads the ledger so request-time figures are never stale.
func (s *Service) current() (Snapshot, error) {
	doc, err := s.src.Document()
	if err != nil {
		return Snapshot{}, err
	}
	return snapshotFromDocument(doc, s.now()), nil
}

func (s *Service) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	snap, err := s.current()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

type budgetResponse struct {
	Currency string           `json:"currency"`
	Strategy budget.Strategy  `json:"strategy"`
	Plan     model.BudgetPlan `json:"plan"`
}

func (s *Service) handleBudget(w http.ResponseWriter, r *http.Request) {
	strategy, err := budget.ParseStrategy(r.URL.Query().Get("strategy"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	snap, err := s.current()
	if err != nil {
		s.writeError(w, err)
		return
	}

	plan, err := budget.Plan(strategy, snap.Financial.Income, snap.Financial.TotalFixedExpenses)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp := budgetResponse{Currency: snap.Currency, Strategy: strategy, Plan: plan}
	writeJSON(w, http.StatusOK, resp)
}

type assessResponse struct {
	Item       string               `json:"item,omitempty"`
	Cost       string               `json:"cost"`
	Currency   string               `json:"currency"`
	Assessment model.RiskAssessment `json:"assessment"`
}

func (s *Service) handleAssess(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("cost") == "" {
		s.writeError(w, &model.ValidationError{Field: "cost", Reason: "query parameter is required"})
		return
	}
	cost, err := model.ParseAmount("cost", q.Get("cost"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	snap, err := s.current()
	if err != nil {
		s.writeError(w, err)
		return
	}

	assessment, err := risk.Assess(risk.Input{
		DiscretionaryBalance: snap.Financial.FreeCashFlow,
		SavingsGoal:          snap.Financial.SavingsGoal,
		ItemCost:             cost,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.metrics.assessments.WithLabelValues(string(assessment.Status)).Inc()

	writeJSON(w, http.StatusOK, assessResponse{
		Item:       q.Get("item"),
		Cost:       cost.String(),
		Currency:   snap.Currency,
		Assessment: assessment,
	})
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	writeSSE(w, Event{
		Type:      "snapshot",
		Timestamp: time.Now(),
		Snapshot:  s.snapshotStatus().Summary,
	})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}
