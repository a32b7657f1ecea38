package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/peroute/hackwest-project/internal/domain"
	"github.com/peroute/hackwest-project/internal/domain/completion"
	"github.com/peroute/hackwest-project/internal/metrics"
)

// Completer is the generative AI collaborator reached through an OpenAI-compatible chat API
// (Gemini exposes one under /v1beta/openai/).
type Completer struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	logger      *zap.Logger
}

// CompleterConfig holds the chat completion settings.
type CompleterConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      *zap.Logger
}

// NewCompleter creates a chat completion client.
func NewCompleter(cfg *CompleterConfig) *Completer {
	return &Completer{
		client:      newClient(cfg.APIKey, cfg.BaseURL),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		logger:      cfg.Logger,
	}
}

// Complete sends a single-message prompt. Failures come back as tagged results, never errors.
// The caller bounds latency through ctx.
func (c *Completer) Complete(ctx context.Context, prompt string) completion.Result {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	metrics.CompletionDuration.Observe(time.Since(start).Seconds())

	var res completion.Result
	switch {
	case err != nil:
		res = completion.Failed(classify(ctx, err), err)
	case len(resp.Choices) == 0:
		res = completion.Failed(completion.ReasonEmpty, errors.New("no choices in response"))
	default:
		res = completion.OK(strings.TrimSpace(resp.Choices[0].Message.Content))
	}

	metrics.CompletionTotal.WithLabelValues(string(res.Reason())).Inc()
	return res
}

// HealthCheck verifies API availability via ListModels.
func (c *Completer) HealthCheck(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w: %w", domain.ErrAIUnavailable, err)
	}
	return nil
}

// classify maps a transport error to a completion failure reason.
func classify(ctx context.Context, err error) completion.Reason {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return completion.ReasonTimeout
	}

	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	default:
		// connection refused, DNS, canceled
		return completion.ReasonUnavailable
	}

	switch {
	case status == http.StatusTooManyRequests, status >= 500:
		return completion.ReasonUnavailable
	default:
		return completion.ReasonError
	}
}
