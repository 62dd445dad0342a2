package generate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/alnah/go-studyguide/internal/apierr"
)

// Groq API configuration. Groq serves an OpenAI-compatible chat completion API.
const (
	DefaultGroqBaseURL = "https://api.groq.com/openai/v1"
)

// DefaultGroqModels is tried in order; the first listed model is tried first.
var DefaultGroqModels = []string{"llama-3.3-70b-versatile", "llama-3.1-8b-instant"}

// chatCompleter is an internal interface for OpenAI-style chat completion.
// *openai.Client implements this implicitly.
// This allows injecting mocks in tests.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// GroqClient is the primary, text-only provider adapter.
// It is safe for concurrent use: it holds no per-request state.
type GroqClient struct {
	client  chatCompleter
	baseURL string
	models  []string
	logger  *zap.Logger
}

// GroqOption configures a GroqClient.
type GroqOption func(*GroqClient)

// WithGroqModels sets the candidate models, tried in the given order.
func WithGroqModels(models ...string) GroqOption {
	return func(c *GroqClient) {
		if len(models) > 0 {
			c.models = models
		}
	}
}

// WithGroqBaseURL sets a custom base URL (for testing or proxies).
func WithGroqBaseURL(url string) GroqOption {
	return func(c *GroqClient) {
		c.baseURL = strings.TrimSuffix(url, "/")
	}
}

// WithGroqLogger sets the logger for candidate attempts.
func WithGroqLogger(l *zap.Logger) GroqOption {
	return func(c *GroqClient) {
		if l != nil {
			c.logger = l
		}
	}
}

// withGroqChatCompleter sets a custom chat completer (for testing).
func withGroqChatCompleter(cc chatCompleter) GroqOption {
	return func(c *GroqClient) {
		c.client = cc
	}
}

// NewGroqClient creates a GroqClient. An empty apiKey is not an error: the
// client is created unconfigured and Generate reports apierr.ErrNotConfigured.
func NewGroqClient(apiKey string, opts ...GroqOption) *GroqClient {
	c := &GroqClient{
		baseURL: DefaultGroqBaseURL,
		models:  DefaultGroqModels,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(zap.String("provider", "groq"))
	if apiKey == "" {
		c.client = nil
		return c
	}
	// Create the SDK client after options are applied (base URL may be customized).
	if c.client == nil {
		cfg := openai.DefaultConfig(apiKey)
		cfg.BaseURL = c.baseURL
		c.client = openai.NewClientWithConfig(cfg)
	}
	return c
}

// Configured reports whether a credential was supplied.
func (c *GroqClient) Configured() bool {
	return c != nil && c.client != nil
}

// Models returns the candidate models in try order.
func (c *GroqClient) Models() []string {
	return append([]string(nil), c.models...)
}

// Generate runs prompt against each candidate model (fail-fast policy) and
// returns the decoded object of the first valid answer.
func (c *GroqClient) Generate(ctx context.Context, prompt string) (map[string]any, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("%s not set: %w", EnvGroqAPIKey, apierr.ErrNotConfigured)
	}

	candidates := make([]modelName, len(c.models))
	for i, m := range c.models {
		candidates[i] = modelName(m)
	}

	obj, err := failFast(ctx, c.logger, candidates, func(ctx context.Context, m modelName) (map[string]any, error) {
		text, err := c.complete(ctx, string(m), prompt)
		if err != nil {
			return nil, err
		}
		return checkCandidate(text)
	})
	if errors.Is(err, ErrAllModelsFailed) {
		return nil, fmt.Errorf("groq: %w", err)
	}
	return obj, err
}

// complete sends one chat completion request and returns the answer text.
func (c *GroqClient) complete(ctx context.Context, model, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: Temperature,
		MaxTokens:   MaxOutputTokens,
	})
	if err != nil {
		return "", classifyGroqError(err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// classifyGroqError maps go-openai errors returned by Groq to apierr sentinels.
// Groq limits are enforced per model, so every 429 is a rate limit for that
// candidate rather than an exhausted account.
func classifyGroqError(err error) error {
	if err == nil {
		return nil
	}

	// Check for typed API errors first (most reliable).
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if code, ok := apiErr.Code.(string); ok && code != "" {
			msg = code + ": " + msg
		}
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("%s: %w", msg, apierr.ErrRateLimit)
		}
		if classified := apierr.FromStatus(apiErr.HTTPStatusCode, msg); classified != nil {
			return classified
		}
	}

	// Non-JSON error bodies surface as RequestError.
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("%s: %w", reqErr.Error(), apierr.ErrRateLimit)
		}
		if classified := apierr.FromStatus(reqErr.HTTPStatusCode, reqErr.Error()); classified != nil {
			return classified
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", apierr.ErrTimeout)
	}

	// Fallback: untyped errors that still mention a rate limit.
	if apierr.MentionsRateLimit(err.Error()) {
		return fmt.Errorf("%s: %w", err.Error(), apierr.ErrRateLimit)
	}
	if classified := apierr.FromMessage(err.Error()); classified != nil {
		return classified
	}
	return err
}
