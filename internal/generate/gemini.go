package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/alnah/go-studyguide/internal/apierr"
	"github.com/alnah/go-studyguide/internal/prompt"
)

// DefaultGeminiModels is the text candidate list, tried in order.
var DefaultGeminiModels = []string{"gemini-1.5-flash", "gemini-1.5-pro", "gemini-2.0-flash"}

// DefaultGeminiVideoModel receives the video URL as a file part when no
// transcript is available.
const DefaultGeminiVideoModel = "gemini-1.5-flash"

// videoMIMEType is sent with the video URL file part.
const videoMIMEType = "video/*"

// contentGenerator is an internal interface for one Gemini generation call.
// genaiGenerator implements it over *genai.Client.
// This allows injecting mocks in tests.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, parts ...genai.Part) (string, error)
	Close() error
}

// genaiGenerator adapts *genai.Client to contentGenerator.
type genaiGenerator struct {
	client *genai.Client
}

func (g *genaiGenerator) GenerateContent(ctx context.Context, model string, parts ...genai.Part) (string, error) {
	m := g.client.GenerativeModel(model)
	m.SetTemperature(Temperature)
	m.SetMaxOutputTokens(MaxOutputTokens)

	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		return "", err
	}
	return responseText(resp), nil
}

func (g *genaiGenerator) Close() error {
	return g.client.Close()
}

// responseText concatenates the text parts of every candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
	}
	return b.String()
}

// geminiCandidate is one (model, content mode) pair of the exhaustive list.
type geminiCandidate struct {
	model string
	video bool // send the video URL as a file part
}

func (c geminiCandidate) String() string {
	if c.video {
		return c.model + " (video)"
	}
	return c.model
}

// GeminiClient is the fallback provider adapter. Unlike GroqClient it can
// work from the video URL alone.
type GeminiClient struct {
	gen        contentGenerator
	models     []string
	videoModel string
	logger     *zap.Logger
}

// GeminiOption configures a GeminiClient.
type GeminiOption func(*GeminiClient)

// WithGeminiModels sets the text candidate models, tried in the given order.
func WithGeminiModels(models ...string) GeminiOption {
	return func(c *GeminiClient) {
		if len(models) > 0 {
			c.models = models
		}
	}
}

// WithGeminiVideoModel sets the model that receives the video URL directly.
func WithGeminiVideoModel(model string) GeminiOption {
	return func(c *GeminiClient) {
		if model != "" {
			c.videoModel = model
		}
	}
}

// WithGeminiLogger sets the logger for candidate attempts.
func WithGeminiLogger(l *zap.Logger) GeminiOption {
	return func(c *GeminiClient) {
		if l != nil {
			c.logger = l
		}
	}
}

// withGeminiContentGenerator sets a custom generator (for testing).
func withGeminiContentGenerator(g contentGenerator) GeminiOption {
	return func(c *GeminiClient) {
		c.gen = g
	}
}

// NewGeminiClient creates a GeminiClient. An empty apiKey is not an error:
// the client is created unconfigured and Generate reports
// apierr.ErrNotConfigured. Call Close to release the SDK connection.
func NewGeminiClient(ctx context.Context, apiKey string, opts ...GeminiOption) (*GeminiClient, error) {
	c := &GeminiClient{
		models:     DefaultGeminiModels,
		videoModel: DefaultGeminiVideoModel,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(zap.String("provider", "gemini"))
	if apiKey == "" {
		c.gen = nil
		return c, nil
	}
	if c.gen == nil {
		client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		c.gen = &genaiGenerator{client: client}
	}
	return c, nil
}

// Configured reports whether a credential was supplied.
func (c *GeminiClient) Configured() bool {
	return c != nil && c.gen != nil
}

// Close releases the underlying SDK client. Safe on an unconfigured client.
func (c *GeminiClient) Close() error {
	if !c.Configured() {
		return nil
	}
	return c.gen.Close()
}

// candidates returns the try order for one request. Without a transcript the
// video model sees the URL itself before the text models get the video prompt.
func (c *GeminiClient) candidates(haveTranscript bool) []geminiCandidate {
	out := make([]geminiCandidate, 0, len(c.models)+1)
	if !haveTranscript {
		out = append(out, geminiCandidate{model: c.videoModel, video: true})
	}
	for _, m := range c.models {
		out = append(out, geminiCandidate{model: m})
	}
	return out
}

// Generate runs every candidate in order (exhaustive policy) and returns the
// decoded object of the first valid answer. An empty transcript selects video
// mode.
func (c *GeminiClient) Generate(ctx context.Context, videoURL, transcript string) (map[string]any, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("%s not set: %w", EnvGeminiAPIKey, apierr.ErrNotConfigured)
	}

	haveTranscript := strings.TrimSpace(transcript) != ""
	var text string
	if haveTranscript {
		text = prompt.Transcript(transcript, videoURL)
	} else {
		text = prompt.Video(videoURL)
	}

	obj, err := exhaustive(ctx, c.logger, c.candidates(haveTranscript), func(ctx context.Context, cand geminiCandidate) (map[string]any, error) {
		parts := []genai.Part{genai.Text(text)}
		if cand.video {
			parts = []genai.Part{genai.FileData{MIMEType: videoMIMEType, URI: videoURL}, genai.Text(text)}
		}
		answer, err := c.gen.GenerateContent(ctx, cand.model, parts...)
		if err != nil {
			return nil, classifyGeminiError(err)
		}
		return checkCandidate(answer)
	})
	switch {
	case err == nil && obj != nil:
		return obj, nil
	case err == nil:
		return nil, fmt.Errorf("gemini: %w", ErrAllModelsFailed)
	case ctx.Err() != nil:
		return nil, err
	case apierr.IsFreeTierQuota(err):
		c.logger.Warn("free-tier quota exhausted", zap.Error(err))
		return nil, ErrFreeTierExhausted
	}
	return nil, fmt.Errorf("gemini: %w", err)
}

// classifyGeminiError maps Gemini SDK errors to apierr sentinels.
func classifyGeminiError(err error) error {
	if err == nil {
		return nil
	}

	// REST transport errors carry the HTTP status.
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		if classified := apierr.FromStatus(gErr.Code, gErr.Error()); classified != nil {
			return classified
		}
	}

	// gax APIError and friends expose the status through HTTPCode.
	var coded interface{ HTTPCode() int }
	if errors.As(err, &coded) && coded.HTTPCode() > 0 {
		if classified := apierr.FromStatus(coded.HTTPCode(), err.Error()); classified != nil {
			return classified
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", apierr.ErrTimeout)
	}

	if classified := apierr.FromMessage(err.Error()); classified != nil {
		return classified
	}
	return err
}
