package youtube

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-studyguide/internal/apierr"
)

// DefaultBaseURL is the origin of the watch page and oEmbed endpoints.
const DefaultBaseURL = "https://www.youtube.com"

const (
	defaultTimeout = 20 * time.Second

	// maxBodyBytes bounds a watch page or caption document.
	maxBodyBytes = 8 << 20
)

// defaultRetry retries transient upstream failures (429, 5xx, network).
var defaultRetry = apierr.RetryConfig{
	MaxRetries: 2,
	BaseDelay:  500 * time.Millisecond,
	MaxDelay:   2 * time.Second,
}

// Client fetches captions and metadata. It needs no credential.
// It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	language   string
	retry      apierr.RetryConfig
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBaseURL sets a custom origin (for testing or proxies).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(url, "/")
	}
}

// WithLanguage sets a preferred caption language, tried before the defaults.
func WithLanguage(code string) Option {
	return func(c *Client) {
		c.language = code
	}
}

// WithRetry sets the retry configuration for every GET.
func WithRetry(cfg apierr.RetryConfig) Option {
	return func(c *Client) {
		c.retry = cfg
	}
}

// WithLogger sets the logger for fetch attempts.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a Client with the given options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    DefaultBaseURL,
		retry:      defaultRetry,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(zap.String("component", "youtube"))
	return c
}

// get fetches rawURL, retrying transient failures, and returns the body.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	cfg := c.retry
	cfg.OnRetry = func(attempt int, err error) {
		c.logger.Debug("retrying request", zap.Int("attempt", attempt), zap.Error(err))
	}

	return apierr.RetryWithBackoff(ctx, cfg, func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		// Caption track names and the consent wall depend on it.
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("request failed: %w: %w", err, apierr.ErrTimeout)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			msg := fmt.Sprintf("status %d", resp.StatusCode)
			if classified := apierr.FromStatus(resp.StatusCode, msg); classified != nil {
				return nil, classified
			}
			return nil, errors.New(msg)
		}
		return body, nil
	}, apierr.IsTransient)
}
