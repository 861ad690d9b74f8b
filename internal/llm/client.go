// Package llm provides the model client used by the advice pipeline: an
// OpenAI-compatible chat-completions client with per-call timeouts, a
// process-wide rate limiter, and built-in fallback to a cheaper model.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Message is one chat message.
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// CallOptions configures a single model call.
type CallOptions struct {
	Model         string
	FallbackModel string
	Timeout       time.Duration
	MaxTokens     int
	Temperature   float64
}

// Response is the text result of a model call plus usage accounting.
type Response struct {
	Text         string
	ModelUsed    string
	InputTokens  int
	OutputTokens int
}

// Client is the model transport. Calls fail with a typed error on timeout
// or HTTP failure.
type Client interface {
	Call(ctx context.Context, messages []Message, opts CallOptions) (*Response, error)
}

// APIError is a non-2xx response from the model API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200]
	}
	return fmt.Sprintf("model API returned %d: %s", e.StatusCode, body)
}

// HTTPConfig configures the HTTP client.
type HTTPConfig struct {
	// BaseURL is the API root, e.g. "https://api.openai.com/v1".
	BaseURL string

	// APIKey is sent as a bearer token.
	APIKey string

	// DefaultTimeout bounds a call when CallOptions.Timeout is zero.
	DefaultTimeout time.Duration

	// RateLimit throttles outgoing calls process-wide.
	RateLimit rate.Limit
	Burst     int

	Logger *slog.Logger
}

// DefaultHTTPConfig returns sensible defaults.
func DefaultHTTPConfig() *HTTPConfig {
	return &HTTPConfig{
		BaseURL:        "https://api.openai.com/v1",
		DefaultTimeout: 30 * time.Second,
		RateLimit:      rate.Every(500 * time.Millisecond),
		Burst:          2,
	}
}

// HTTPClient is the production Client implementation.
type HTTPClient struct {
	config     *HTTPConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewHTTPClient creates a client from config.
func NewHTTPClient(config *HTTPConfig) *HTTPClient {
	if config == nil {
		config = DefaultHTTPConfig()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	burst := config.Burst
	if burst < 1 {
		burst = 1
	}

	return &HTTPClient{
		config:     config,
		httpClient: &http.Client{},
		limiter:    rate.NewLimiter(config.RateLimit, burst),
		logger:     config.Logger,
	}
}

// Call invokes the primary model and, on failure, retries once against the
// fallback model. The fallback is attempted only when it is set and
// differs from the primary; success is never retried.
func (c *HTTPClient) Call(ctx context.Context, messages []Message, opts CallOptions) (*Response, error) {
	resp, err := c.callModel(ctx, messages, opts.Model, opts)
	if err == nil {
		return resp, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}
	if opts.FallbackModel == "" || opts.FallbackModel == opts.Model {
		return nil, err
	}

	c.logger.Warn("primary model failed, retrying with fallback",
		"model", opts.Model, "fallback", opts.FallbackModel, "error", err)

	resp, fbErr := c.callModel(ctx, messages, opts.FallbackModel, opts)
	if fbErr != nil {
		return nil, fmt.Errorf("primary failed (%v); fallback failed: %w", err, fbErr)
	}
	return resp, nil
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []Message      `json:"messages"`
	MaxTokens      int            `json:"max_tokens,omitempty"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat map[string]any `json:"response_format,omitempty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

func (c *HTTPClient) callModel(ctx context.Context, messages []Message, model string, opts CallOptions) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = c.config.DefaultTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	payload := chatRequest{
		Model:          model,
		Messages:       messages,
		MaxTokens:      opts.MaxTokens,
		Temperature:    opts.Temperature,
		ResponseFormat: map[string]any{"type": "json_object"},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	url := c.config.BaseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read chat response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("chat response has no choices")
	}

	modelUsed := parsed.Model
	if modelUsed == "" {
		modelUsed = model
	}

	c.logger.Debug("model call complete",
		"model", modelUsed,
		"duration", time.Since(start),
		"input_tokens", parsed.Usage.PromptTokens,
		"output_tokens", parsed.Usage.CompletionTokens)

	return &Response{
		Text:         parsed.Choices[0].Message.Content,
		ModelUsed:    modelUsed,
		InputTokens:  parsed.Usage.PromptTokens,
		OutputTokens: parsed.Usage.CompletionTokens,
	}, nil
}
