package advisor

import (
	"strings"
	"time"

	"go.uber.org/zap"
)

// Provider selection values.
const (
	SelectAuto        = "auto"
	SelectTemplate    = "template"
	SelectHuggingFace = "huggingface"
)

// Settings selects and configures the explanation provider.
type Settings struct {
	Provider string
	Token    string
	Model    string
	BaseURL  string
	Timeout  time.Duration
}

// FromSettings builds the Advisor once at startup. "auto" uses Hugging
// Face when a token is present and the template otherwise.
func FromSettings(s Settings, logger *zap.Logger) *Advisor {
	if logger == nil {
		logger = zap.NewNop()
	}

	var primary Provider
	switch strings.ToLower(strings.TrimSpace(s.Provider)) {
	case SelectTemplate:
	case SelectHuggingFace:
		if hf := NewHuggingFace(s.Token, s.BaseURL, s.Model); hf != nil {
			primary = hf
		} else {
			logger.Warn("huggingface provider selected but no token set; using template")
		}
	default:
		if hf := NewHuggingFace(s.Token, s.BaseURL, s.Model); hf != nil {
			primary = hf
		}
	}

	a := New(primary, s.Timeout, DefaultBreakerSettings(), logger)
	logger.Debug("explanation provider selected", zap.String("provider", a.Provider()))
	return a
}
