package advisor

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/theirongolddev/walletmom/internal/model"
)

// DefaultTimeout bounds a single provider call.
const DefaultTimeout = 15 * time.Second

// Advice is the explanation shown to the user.
type Advice struct {
	Text     string
	Provider string
	// FellBack is true when the configured provider failed and the
	// template was used instead.
	FellBack bool
	// Status is copied from the facts, never from provider output.
	Status model.RiskStatus
}

// BreakerSettings tunes the circuit breaker around the provider.
type BreakerSettings struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerSettings opens after half of at least three calls fail
// and probes again after 30s.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:      1,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.5,
		MinRequests:      3,
	}
}

// Advisor wraps a provider with a per-call timeout, a circuit breaker
// and a template fallback. Explain never returns an error.
type Advisor struct {
	primary Provider
	cb      *gobreaker.CircuitBreaker
	timeout time.Duration
	logger  *zap.Logger
}

// New wraps primary. A nil primary means template only.
func New(primary Provider, timeout time.Duration, bs BreakerSettings, logger *zap.Logger) *Advisor {
	if primary == nil {
		primary = TemplateProvider{}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	log := logger.With(zap.String("component", "advisor"), zap.String("provider", primary.Name()))

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        primary.Name(),
		MaxRequests: bs.MaxRequests,
		Interval:    bs.Interval,
		Timeout:     bs.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < bs.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= bs.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Info("circuit breaker state change",
				zap.String("from", from.String()), zap.String("to", to.String()))
		},
	})

	return &Advisor{primary: primary, cb: cb, timeout: timeout, logger: log}
}

// Provider returns the name of the configured provider.
func (a *Advisor) Provider() string {
	return a.primary.Name()
}

// BreakerState reports the circuit breaker state, for status displays.
func (a *Advisor) BreakerState() string {
	return a.cb.State().String()
}

// Explain asks the provider to explain f, falling back to the template
// on any failure, timeout or open breaker.
func (a *Advisor) Explain(ctx context.Context, f Facts) Advice {
	if _, ok := a.primary.(TemplateProvider); ok {
		return Advice{Text: Template(f), Provider: TemplateName, Status: f.Status}
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	res, err := a.cb.Execute(func() (interface{}, error) {
		text, err := a.primary.Explain(ctx, f)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(text) == "" {
			return nil, ErrMalformedResponse
		}
		return text, nil
	})
	if err == nil {
		return Advice{Text: res.(string), Provider: a.primary.Name(), Status: f.Status}
	}

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		a.logger.Debug("circuit open, using template")
	case errors.Is(err, context.DeadlineExceeded):
		a.logger.Warn("provider timed out, using template", zap.Duration("timeout", a.timeout))
	default:
		a.logger.Warn("provider failed, using template", zap.Error(err))
	}
	return Advice{Text: Template(f), Provider: TemplateName, FellBack: true, Status: f.Status}
}
