// Package analysis orchestrates study-material generation: it picks a
// content mode from what the video offers (transcript, title, or only the
// URL), routes it to the configured providers in cost order and normalizes
// whatever comes back.
package analysis

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/alnah/go-studyguide/internal/apierr"
	"github.com/alnah/go-studyguide/internal/generate"
	"github.com/alnah/go-studyguide/internal/material"
	"github.com/alnah/go-studyguide/internal/prompt"
	"github.com/alnah/go-studyguide/internal/youtube"
)

var (
	// ErrNoProvider indicates a transcript is available but no provider is configured.
	ErrNoProvider = fmt.Errorf("no provider configured; add %s (free at console.groq.com) to your .env file: %w",
		generate.EnvGroqAPIKey, apierr.ErrNotConfigured)

	// ErrNoTranscriptPath indicates the video has no captions and no configured
	// provider can work without them.
	ErrNoTranscriptPath = fmt.Errorf("this video has no captions/transcript; add %s (free at console.groq.com) to your .env file to enable topic-based analysis: %w",
		generate.EnvGroqAPIKey, apierr.ErrNotConfigured)
)

// PromptGenerator is a text-only provider (GroqClient).
type PromptGenerator interface {
	Configured() bool
	Generate(ctx context.Context, prompt string) (map[string]any, error)
}

// VideoGenerator is a provider that can also work from the video URL alone
// (GeminiClient). An empty transcript selects video mode.
type VideoGenerator interface {
	Configured() bool
	Generate(ctx context.Context, videoURL, transcript string) (map[string]any, error)
}

// Mode names the content strategy that produced a result.
type Mode string

const (
	ModeTranscript Mode = "transcript"
	ModeMetadata   Mode = "metadata"
	ModeVideo      Mode = "video"
)

// Analyzer routes one analysis through the providers. It holds no
// per-request state and is safe for concurrent use.
type Analyzer struct {
	primary  PromptGenerator
	fallback VideoGenerator
	logger   *zap.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger for routing decisions.
func WithLogger(l *zap.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAnalyzer creates an Analyzer. Either provider may be nil, which is the
// same as unconfigured.
func NewAnalyzer(primary PromptGenerator, fallback VideoGenerator, opts ...Option) *Analyzer {
	a := &Analyzer{primary: primary, fallback: fallback, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With(zap.String("component", "analyzer"))
	return a
}

func (a *Analyzer) primaryReady() bool  { return a.primary != nil && a.primary.Configured() }
func (a *Analyzer) fallbackReady() bool { return a.fallback != nil && a.fallback.Configured() }

// Generate returns the raw model object for a video. The first matching
// branch wins:
//
//  1. transcript present: primary, then fallback on any primary failure;
//  2. no transcript, metadata title present, primary configured: primary with
//     the metadata prompt, falling through to 3 on failure;
//  3. fallback configured: fallback in video mode;
//  4. otherwise ErrNoTranscriptPath.
//
// videoURL should be the canonical watch URL. meta may be nil.
func (a *Analyzer) Generate(ctx context.Context, videoURL, transcript string, meta *youtube.Metadata) (map[string]any, Mode, error) {
	log := a.logger.With(zap.String("video_url", videoURL))

	if strings.TrimSpace(transcript) != "" {
		obj, err := a.fromTranscript(ctx, log, videoURL, transcript)
		return obj, ModeTranscript, err
	}

	if meta != nil && strings.TrimSpace(meta.Title) != "" && a.primaryReady() {
		log.Info("no transcript, using video title", zap.String("title", meta.Title))
		obj, err := a.primary.Generate(ctx, prompt.Metadata(meta.Title, meta.Author, videoURL))
		if err == nil {
			return obj, ModeMetadata, nil
		}
		if ctx.Err() != nil {
			return nil, ModeMetadata, err
		}
		log.Warn("metadata mode failed", zap.Stringer("kind", apierr.KindOf(err)), zap.Error(err))
	}

	if a.fallbackReady() {
		log.Info("falling back to video mode")
		obj, err := a.fallback.Generate(ctx, videoURL, "")
		return obj, ModeVideo, err
	}

	return nil, ModeVideo, ErrNoTranscriptPath
}

func (a *Analyzer) fromTranscript(ctx context.Context, log *zap.Logger, videoURL, transcript string) (map[string]any, error) {
	if !a.primaryReady() && !a.fallbackReady() {
		return nil, ErrNoProvider
	}

	var primaryErr error
	if a.primaryReady() {
		log.Info("transcript mode, trying primary provider")
		obj, err := a.primary.Generate(ctx, prompt.Transcript(transcript, videoURL))
		if err == nil {
			return obj, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}
		log.Warn("primary provider failed", zap.Stringer("kind", apierr.KindOf(err)), zap.Error(err))
		primaryErr = err
	}

	if !a.fallbackReady() {
		return nil, primaryErr
	}
	log.Info("transcript mode, trying fallback provider")
	return a.fallback.Generate(ctx, videoURL, transcript)
}

// Analyze is Generate followed by material.Normalize. videoID and videoURL
// are copied into the result.
func (a *Analyzer) Analyze(ctx context.Context, videoID, videoURL, transcript string, meta *youtube.Metadata) (material.StudyMaterial, Mode, error) {
	raw, mode, err := a.Generate(ctx, videoURL, transcript, meta)
	if err != nil {
		return material.StudyMaterial{}, mode, err
	}
	return material.Normalize(raw, videoID, videoURL), mode, nil
}
