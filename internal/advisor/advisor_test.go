package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/theirongolddev/walletmom/internal/model"
)

func facts(status model.RiskStatus) Facts {
	return Facts{
		Item:             "Headphones",
		Cost:             decimal.NewFromInt(10000),
		Status:           status,
		Reason:           "because",
		RemainingBalance: decimal.NewFromInt(20000),
		Currency:         "₹",
	}
}

type stubProvider struct {
	text  string
	err   error
	delay time.Duration
	calls atomic.Int32
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Explain(ctx context.Context, _ Facts) (string, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.text, s.err
}

func TestTemplateByStatus(t *testing.T) {
	tests := []struct {
		status model.RiskStatus
		want   string
	}{
		{model.RiskDanger, "strongly advise against"},
		{model.RiskCaution, "Proceed with caution"},
		{model.RiskSafe, "within your budget"},
		{"BOGUS", "without a valid risk status"},
	}
	for _, tt := range tests {
		got := Template(facts(tt.status))
		assert.Contains(t, got, tt.want, "status %s", tt.status)
	}

	safe := Template(facts(model.RiskSafe))
	assert.Contains(t, safe, "₹10000.00")
	assert.Contains(t, safe, "₹20000.00")
	assert.Contains(t, safe, "because")
}

func TestPromptCarriesFacts(t *testing.T) {
	p := Prompt(facts(model.RiskCaution))
	assert.Contains(t, p, "<|im_start|>system\n")
	assert.Contains(t, p, "- Risk Status: CAUTION")
	assert.Contains(t, p, "- Cost: ₹10000.00")
	assert.Contains(t, p, "Use ₹ for currency.")
	assert.Contains(t, p, "<|im_start|>assistant\n")
}

func TestHuggingFaceSuccess(t *testing.T) {
	var got hfRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Qwen/test", r.URL.Path)
		assert.Equal(t, "Bearer hf_abc", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`[{"generated_text": "  Sounds fine.  "}]`))
	}))
	defer srv.Close()

	hf := NewHuggingFace("hf_abc", srv.URL, "Qwen/test")
	require.NotNil(t, hf)

	text, err := hf.Explain(context.Background(), facts(model.RiskSafe))
	require.NoError(t, err)
	assert.Equal(t, "Sounds fine.", text)
	assert.Equal(t, 250, got.Parameters.MaxNewTokens)
	assert.InDelta(t, 0.7, got.Parameters.Temperature, 1e-9)
	assert.False(t, got.Parameters.ReturnFullText)
}

func TestHuggingFaceErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, `{}`, ErrUnauthorized},
		{"forbidden", http.StatusForbidden, `{}`, ErrUnauthorized},
		{"rate limited", http.StatusTooManyRequests, `{}`, ErrRateLimited},
		{"error object", http.StatusOK, `{"error": "Model is loading"}`, ErrMalformedResponse},
		{"empty list", http.StatusOK, `[]`, ErrMalformedResponse},
		{"blank text", http.StatusOK, `[{"generated_text": ""}]`, ErrMalformedResponse},
		{"garbage", http.StatusOK, `<html>`, ErrMalformedResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewHuggingFace("tok", srv.URL, "m").Explain(context.Background(), facts(model.RiskSafe))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var se *ServiceError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, HuggingFaceName, se.Provider)
		})
	}
}

func TestHuggingFaceServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error": "overloaded"}`))
	}))
	defer srv.Close()

	_, err := NewHuggingFace("tok", srv.URL, "m").Explain(context.Background(), facts(model.RiskSafe))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "overloaded")
}

func TestNewHuggingFaceRequiresToken(t *testing.T) {
	assert.Nil(t, NewHuggingFace("  ", "", ""))
}

func TestAdvisorUsesProvider(t *testing.T) {
	p := &stubProvider{text: "go for it"}
	a := New(p, time.Second, DefaultBreakerSettings(), zap.NewNop())

	adv := a.Explain(context.Background(), facts(model.RiskDanger))
	assert.Equal(t, "go for it", adv.Text)
	assert.Equal(t, "stub", adv.Provider)
	assert.False(t, adv.FellBack)
	assert.Equal(t, model.RiskDanger, adv.Status, "status comes from the facts")
}

func TestAdvisorFallsBackOnError(t *testing.T) {
	p := &stubProvider{err: &ServiceError{Provider: "stub", Err: ErrRateLimited}}
	a := New(p, time.Second, DefaultBreakerSettings(), zap.NewNop())

	adv := a.Explain(context.Background(), facts(model.RiskCaution))
	assert.True(t, adv.FellBack)
	assert.Equal(t, TemplateName, adv.Provider)
	assert.Equal(t, Template(facts(model.RiskCaution)), adv.Text)
}

func TestAdvisorFallsBackOnEmptyText(t *testing.T) {
	a := New(&stubProvider{text: "   "}, time.Second, DefaultBreakerSettings(), zap.NewNop())
	adv := a.Explain(context.Background(), facts(model.RiskSafe))
	assert.True(t, adv.FellBack)
}

func TestAdvisorTimeout(t *testing.T) {
	p := &stubProvider{text: "late", delay: time.Second}
	a := New(p, 20*time.Millisecond, DefaultBreakerSettings(), zap.NewNop())

	start := time.Now()
	adv := a.Explain(context.Background(), facts(model.RiskSafe))
	assert.True(t, adv.FellBack)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestAdvisorBreakerOpens(t *testing.T) {
	p := &stubProvider{err: errors.New("down")}
	a := New(p, time.Second, DefaultBreakerSettings(), zap.NewNop())

	for i := 0; i < 3; i++ {
		assert.True(t, a.Explain(context.Background(), facts(model.RiskSafe)).FellBack)
	}
	assert.Equal(t, "open", a.BreakerState())

	adv := a.Explain(context.Background(), facts(model.RiskSafe))
	assert.True(t, adv.FellBack)
	assert.Equal(t, int32(3), p.calls.Load(), "open breaker skips the provider")
}

func TestFromSettings(t *testing.T) {
	assert.Equal(t, TemplateName, FromSettings(Settings{}, nil).Provider())
	assert.Equal(t, HuggingFaceName, FromSettings(Settings{Token: "hf_x"}, nil).Provider())
	assert.Equal(t, TemplateName, FromSettings(Settings{Provider: "template", Token: "hf_x"}, nil).Provider())
	assert.Equal(t, TemplateName, FromSettings(Settings{Provider: "huggingface"}, nil).Provider())
}
