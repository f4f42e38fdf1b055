package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/Clifford9547/Reno-AI-Video-Editor/internal/config"
	"github.com/Clifford9547/Reno-AI-Video-Editor/pkg/logger"
)

// Client is the completion contract the pipeline consumes.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Known provider tags. Anything else is treated as a generic chat endpoint.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
)

var defaultURLs = map[string]string{
	ProviderOpenAI: "https://api.openai.com/v1/chat/completions",
	ProviderGemini: "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent",
	ProviderClaude: "https://api.anthropic.com/v1/messages",
}

// DefaultURL returns the canonical endpoint for a provider tag, "" if none.
func DefaultURL(provider string) string {
	return defaultURLs[strings.ToLower(strings.TrimSpace(provider))]
}

// Options select the provider and endpoint for one completion request.
type Options struct {
	Provider string
	URL      string
	Method   string
	APIKey   string
}

// Factory builds provider clients sharing one transport, timeout and rate
// limiter across all pipeline requests.
type Factory struct {
	cfg     config.LLMConfig
	client  *resty.Client
	limiter *rate.Limiter
}

func NewFactory(cfg config.LLMConfig) *Factory {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	f := &Factory{
		cfg:    cfg,
		client: resty.New().SetTimeout(timeout),
	}
	if cfg.RateLimitRPM > 0 {
		f.limiter = rate.NewLimiter(rate.Limit(float64(cfg.RateLimitRPM)/60.0), 1)
		logger.Infof("🚦 LLM rate limit: %d RPM", cfg.RateLimitRPM)
	}
	return f
}

// Client resolves Options against the configured defaults and returns the
// provider-specific client. Provider selection goes by tag, never by
// sniffing the URL.
func (f *Factory) Client(opts Options) Client {
	if opts.Provider == "" {
		opts.Provider = f.cfg.Provider
	}
	opts.Provider = strings.ToLower(strings.TrimSpace(opts.Provider))
	if opts.URL == "" {
		opts.URL = f.cfg.APIURL
	}
	if opts.URL == "" {
		opts.URL = DefaultURL(opts.Provider)
	}
	if opts.Method == "" {
		opts.Method = http.MethodPost
	}
	if opts.APIKey == "" {
		opts.APIKey = f.cfg.APIKey
	}

	if opts.Provider == ProviderGemini {
		return &geminiClient{factory: f, opts: opts}
	}
	return &genericClient{factory: f, opts: opts}
}

func (f *Factory) wait(ctx context.Context) error {
	if f.limiter == nil {
		return nil
	}
	return f.limiter.Wait(ctx)
}

// geminiClient speaks the Gemini generateContent shape: API key embedded in
// the URL, prompt wrapped in contents/parts.
type geminiClient struct {
	factory *Factory
	opts    Options
}

func (c *geminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	if err := c.factory.wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}

	payload := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	}

	req := c.factory.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload)
	if c.opts.APIKey != "" && !strings.Contains(c.opts.URL, "key=") {
		req.SetQueryParam("key", c.opts.APIKey)
	}

	resp, err := req.Execute(c.opts.Method, c.opts.URL)
	if err != nil {
		return "", fmt.Errorf("llm request: %w", err)
	}
	if resp.StatusCode() >= 400 {
		return "", fmt.Errorf("llm api error (%d): %s", resp.StatusCode(), truncate(resp.String(), 300))
	}

	return extractText(resp.Body()), nil
}

// genericClient covers OpenAI, Claude and custom endpoints with a bearer
// token and a flat prompt payload; the response is extracted uniformly.
type genericClient struct {
	factory *Factory
	opts    Options
}

func (c *genericClient) Complete(ctx context.Context, prompt string) (string, error) {
	if err := c.factory.wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}

	payload := map[string]any{
		"prompt":      prompt,
		"max_tokens":  c.factory.cfg.MaxTokens,
		"temperature": c.factory.cfg.Temperature,
	}

	req := c.factory.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload)
	if c.opts.APIKey != "" {
		req.SetAuthToken(c.opts.APIKey)
	}

	resp, err := req.Execute(c.opts.Method, c.opts.URL)
	if err != nil {
		return "", fmt.Errorf("llm request: %w", err)
	}
	if resp.StatusCode() >= 400 {
		return "", fmt.Errorf("llm api error (%d): %s", resp.StatusCode(), truncate(resp.String(), 300))
	}

	return extractText(resp.Body()), nil
}

// extractText pulls generated text out of any of the known response shapes:
// Gemini candidates, a flat script/content field, then the raw body.
func extractText(body []byte) string {
	var gemini struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &gemini); err == nil &&
		len(gemini.Candidates) > 0 && len(gemini.Candidates[0].Content.Parts) > 0 {
		return gemini.Candidates[0].Content.Parts[0].Text
	}

	var flat map[string]any
	if err := json.Unmarshal(body, &flat); err == nil {
		if s, ok := flat["script"].(string); ok && s != "" {
			return s
		}
		if s, ok := flat["content"].(string); ok && s != "" {
			return s
		}
	}

	return string(body)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
