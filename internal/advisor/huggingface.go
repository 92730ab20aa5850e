package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/theirongolddev/walletmom/internal/model"
)

const (
	// DefaultHFBaseURL is the Hugging Face serverless inference endpoint.
	DefaultHFBaseURL = "https://api-inference.huggingface.co/models"
	// DefaultHFModel is a small instruction-tuned model on the free tier.
	DefaultHFModel = "Qwen/Qwen2.5-0.5B-Instruct"

	// HuggingFaceName identifies this provider in logs and the journal.
	HuggingFaceName = "huggingface"

	hfRequestTimeout = 20 * time.Second
	maxBodySize      = 1 << 20 // 1 MB
)

const systemInstruction = "You are a helpful, strict, but kind financial mentor for a beginner. " +
	"You receive a structured risk assessment from a deterministic calculation engine. " +
	"Your job is to explain this assessment to the user in natural language. " +
	"Do NOT second-guess the math. " +
	"If status is DANGER, be firm. " +
	"If status is CAUTION, be careful. " +
	"If status is SAFE, be encouraging. " +
	"Keep it concise. Use %s for currency."

// HuggingFace explains facts using a hosted text-generation model.
type HuggingFace struct {
	token string
	url   string
	http  *http.Client
}

// NewHuggingFace creates a client for model at baseURL. Empty baseURL
// and model select the defaults. Returns nil if the token is empty.
func NewHuggingFace(token, baseURL, modelID string) *HuggingFace {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	if baseURL == "" {
		baseURL = DefaultHFBaseURL
	}
	if modelID == "" {
		modelID = DefaultHFModel
	}
	return &HuggingFace{
		token: token,
		url:   strings.TrimRight(baseURL, "/") + "/" + modelID,
		http:  &http.Client{},
	}
}

// Name implements Provider.
func (c *HuggingFace) Name() string { return HuggingFaceName }

type hfParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	ReturnFullText bool    `json:"return_full_text"`
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfGeneration struct {
	GeneratedText string `json:"generated_text"`
}

type hfError struct {
	Error string `json:"error"`
}

// Prompt builds the ChatML prompt sent to the model.
func Prompt(f Facts) string {
	cur := f.Currency
	if cur == "" {
		cur = model.DefaultCurrency
	}
	user := fmt.Sprintf("Purchase Risk Assessment:\n"+
		"- Item: %s\n"+
		"- Cost: %s%s\n"+
		"- Risk Status: %s\n"+
		"- Math Reason: %s\n"+
		"- Remaining Balance: %s%s\n\n"+
		"Explain this to the user as a mentor.",
		f.Item, cur, f.Cost.StringFixed(2), f.Status, f.Reason, cur, f.RemainingBalance.StringFixed(2))

	return "<|im_start|>system\n" + fmt.Sprintf(systemInstruction, cur) + "<|im_end|>\n" +
		"<|im_start|>user\n" + user + "<|im_end|>\n" +
		"<|im_start|>assistant\n"
}

// Explain implements Provider.
func (c *HuggingFace) Explain(ctx context.Context, f Facts) (string, error) {
	text, err := c.generate(ctx, Prompt(f))
	if err != nil {
		return "", &ServiceError{Provider: HuggingFaceName, Err: err}
	}
	return text, nil
}

func (c *HuggingFace) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, hfRequestTimeout)
	defer cancel()

	payload, err := json.Marshal(hfRequest{
		Inputs: prompt,
		Parameters: hfParameters{
			MaxNewTokens:   250,
			Temperature:    0.7,
			ReturnFullText: false,
		},
	})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "github.com/theirongolddev/walletmom/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", ErrUnauthorized
	case http.StatusTooManyRequests:
		return "", ErrRateLimited
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var he hfError
		if json.Unmarshal(body, &he) == nil && he.Error != "" {
			return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, he.Error)
		}
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return parseGeneration(body)
}

// parseGeneration accepts the list form [{"generated_text": ...}] and
// reports the {"error": ...} form as a failure.
func parseGeneration(body []byte) (string, error) {
	var gens []hfGeneration
	if err := json.Unmarshal(body, &gens); err == nil {
		if len(gens) == 0 {
			return "", fmt.Errorf("%w: empty generation list", ErrMalformedResponse)
		}
		text := strings.TrimSpace(gens[0].GeneratedText)
		if text == "" {
			return "", fmt.Errorf("%w: empty generated_text", ErrMalformedResponse)
		}
		return text, nil
	}

	var he hfError
	if err := json.Unmarshal(body, &he); err == nil && he.Error != "" {
		return "", fmt.Errorf("%w: %s", ErrMalformedResponse, he.Error)
	}
	return "", fmt.Errorf("%w: unexpected response format", ErrMalformedResponse)
}
