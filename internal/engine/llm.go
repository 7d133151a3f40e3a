package engine

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/llm"
	"golang.org/x/time/rate"
)

// Model is a hosted or local language model that turns one prompt into text.
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ModelFunc adapts a plain function to Model.
type ModelFunc func(ctx context.Context, prompt string) (string, error)

func (f ModelFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// limiter caps model calls across all concurrent requests. nil = no cap.
var limiter *rate.Limiter

func initLimiter(rpm int) {
	if rpm <= 0 {
		limiter = nil
		return
	}
	limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1)
}

// NewModel builds the backend selected by c.LLMProvider.
func NewModel(ctx context.Context, c Config) (Model, error) {
	switch strings.ToLower(c.LLMProvider) {
	case "", "openai", "gemini":
		if c.LLMAPIKey == "" {
			return nil, ErrMissingAPIKey
		}
		return newOpenAIModel(c), nil
	case "vertex":
		m, err := NewVertexModel(ctx, c.VertexProject, c.VertexRegion, c.LLMModel, float32(c.LLMTemperature))
		if err != nil {
			return nil, err
		}
		return m, nil
	case "ollama":
		m, err := NewOllamaModel(c.OllamaURL, c.LLMModel, c.LLMTemperature)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	return nil, fmt.Errorf("unknown LLM provider %q", c.LLMProvider)
}

// openAIModel talks to any OpenAI-compatible endpoint, Gemini's included.
type openAIModel struct {
	client *llm.Client
}

func newOpenAIModel(c Config) *openAIModel {
	timeout := c.LLMTimeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &openAIModel{client: llm.NewClient(c.LLMAPIBase, c.LLMAPIKey, c.LLMModel,
		llm.WithFallbackKeys(c.LLMAPIKeyFallbacks),
		llm.WithMaxTokens(c.LLMMaxTokens),
		llm.WithTemperature(c.LLMTemperature),
		llm.WithHTTPClient(&http.Client{Timeout: timeout}),
	)}
}

func (m *openAIModel) Generate(ctx context.Context, prompt string) (string, error) {
	return m.client.Complete(ctx, "", prompt)
}

// stripFences removes a markdown code fence wrapping the whole LLM output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```markdown")
	s = strings.TrimPrefix(s, "```md")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

var refusalPhrases = []string{
	"i am unable to",
	"i cannot fulfill",
	"i cannot answer",
	"i cannot provide",
	"as a large language model",
}

// looksLikeRefusal reports whether the model declined instead of answering.
func looksLikeRefusal(s string) bool {
	lower := strings.ToLower(s)
	for _, p := range refusalPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// CallLLM sends a prompt to the configured backend.
func CallLLM(ctx context.Context, prompt string) (string, error) {
	return callModel(ctx, cfg.LLM, prompt)
}

// callModel runs one model call under the process-wide rate cap, the per-call
// timeout and the configured retry policy.
func callModel(ctx context.Context, m Model, prompt string) (string, error) {
	if m == nil {
		return "", ErrNoModel
	}
	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	rc := NoRetry
	if cfg.LLMMaxRetries > 0 {
		rc = DefaultRetryConfig
		rc.MaxRetries = cfg.LLMMaxRetries
	}

	start := time.Now()
	resp, err := RetryDo(ctx, rc, func() (string, error) {
		metrics.LLMCalls.Add(1)
		callCtx := ctx
		if cfg.LLMTimeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, cfg.LLMTimeout)
			defer cancel()
		}
		return m.Generate(callCtx, prompt)
	})
	if err != nil {
		metrics.LLMErrors.Add(1)
		return "", err
	}

	resp = stripFences(resp)
	if looksLikeRefusal(resp) {
		slog.Warn("llm: response looks like a refusal", slog.String("head", TruncateRunes(resp, 120, "...")))
	}
	slog.Debug("llm: call done", slog.Int("prompt_chars", len(prompt)), slog.Int("resp_chars", len(resp)), slog.Duration("elapsed", time.Since(start)))
	return resp, nil
}
