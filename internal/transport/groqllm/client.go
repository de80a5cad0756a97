// Package groqllm implements the answer-composition model client against
// Groq's OpenAI-compatible chat completions API.
package groqllm

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/bookdex-io/bookdex/internal/domain"
	"github.com/bookdex-io/bookdex/internal/metrics"
)

const defaultBaseURL = "https://api.groq.com/openai/v1"

// Client is a chat-completions client for answer composition.
type Client struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	logger      *zap.Logger
}

// Config holds the LLM provider settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
	Logger      *zap.Logger
}

// New creates a Groq chat completions client.
func New(cfg *Config) *Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL
	if clientCfg.BaseURL == "" {
		clientCfg.BaseURL = defaultBaseURL
	}

	return &Client{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.Timeout,
		logger:      cfg.Logger,
	}
}

// Complete runs one chat completion with a bounded per-call timeout. Any
// provider failure, including the timeout, wraps domain.ErrCompositionFailed
// so callers can degrade instead of surfacing an error.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(c.model, "error").Inc()
		return "", parseAPIError(err)
	}

	if len(resp.Choices) == 0 {
		metrics.LLMRequestsTotal.WithLabelValues(c.model, "error").Inc()
		return "", fmt.Errorf("empty completion response: %w", domain.ErrCompositionFailed)
	}

	metrics.LLMRequestsTotal.WithLabelValues(c.model, "success").Inc()
	metrics.LLMRequestDuration.WithLabelValues(c.model).Observe(duration.Seconds())

	if resp.Usage.TotalTokens > 0 {
		metrics.LLMTokensTotal.WithLabelValues(c.model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.LLMTokensTotal.WithLabelValues(c.model, "completion").Add(float64(resp.Usage.CompletionTokens))
	}

	return resp.Choices[0].Message.Content, nil
}

// parseAPIError wraps any provider failure with domain.ErrCompositionFailed.
func parseAPIError(err error) error {
	wrap := domain.ErrCompositionFailed

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("completion API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("completion API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	return fmt.Errorf("completion request failed: %w: %w", wrap, err)
}
