package analysis

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-studyguide/internal/history"
	"github.com/alnah/go-studyguide/internal/material"
	"github.com/alnah/go-studyguide/internal/youtube"
)

// VideoSource fetches the source content of a video. *youtube.Client
// implements it.
type VideoSource interface {
	FetchTranscript(ctx context.Context, videoID string) (string, error)
	FetchMetadata(ctx context.Context, videoID string) (*youtube.Metadata, error)
}

// Result is one finished analysis.
type Result struct {
	Material material.StudyMaterial
	Mode     Mode
	// Saved reports whether the store accepted the material.
	Saved bool
}

// Service runs the full URL-to-material pipeline: validate, fetch, analyze,
// persist.
type Service struct {
	analyzer *Analyzer
	videos   VideoSource
	store    history.Store
	logger   *zap.Logger
}

// NewService creates a Service. store may be nil to skip persistence.
func NewService(analyzer *Analyzer, videos VideoSource, store history.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{analyzer: analyzer, videos: videos, store: store, logger: logger.With(zap.String("component", "service"))}
}

// AnalyzeURL analyzes the video behind rawURL. Invalid input fails with an
// error wrapping youtube.ErrInvalidURL before any network call. A failed
// save is logged and reported through Result.Saved; the analysis is still
// returned.
func (s *Service) AnalyzeURL(ctx context.Context, rawURL string) (*Result, error) {
	videoID, err := youtube.ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	canonical := youtube.CanonicalURL(videoID)
	log := s.logger.With(zap.String("video_id", videoID))
	log.Info("starting analysis")

	transcript, meta, err := s.fetchSources(ctx, videoID)
	if err != nil {
		return nil, err
	}
	switch {
	case transcript != "":
		log.Info("transcript fetched", zap.Int("chars", len(transcript)))
	case meta != nil && meta.Title != "":
		log.Info("no transcript, title available", zap.String("title", meta.Title))
	default:
		log.Info("no transcript or metadata available")
	}

	m, mode, err := s.analyzer.Analyze(ctx, videoID, canonical, transcript, meta)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", videoID, err)
	}
	m.Thumbnail = youtube.ThumbnailURL(videoID)

	res := &Result{Material: m, Mode: mode}
	if s.store != nil {
		if err := s.store.Save(ctx, &res.Material); err != nil {
			log.Warn("save failed", zap.Error(err))
		} else {
			res.Saved = true
		}
	}

	log.Info("analysis done", zap.String("title", res.Material.Title), zap.String("mode", string(mode)))
	return res, nil
}

// fetchSources fetches the transcript and metadata concurrently. Metadata
// failures are absorbed; only cancellation aborts.
func (s *Service) fetchSources(ctx context.Context, videoID string) (string, *youtube.Metadata, error) {
	var (
		transcript string
		meta       *youtube.Metadata
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		transcript, err = s.videos.FetchTranscript(gctx, videoID)
		return err
	})
	g.Go(func() error {
		m, err := s.videos.FetchMetadata(gctx, videoID)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return nil
		}
		meta = m
		return nil
	})
	if err := g.Wait(); err != nil {
		return "", nil, fmt.Errorf("fetch video sources: %w", err)
	}
	return transcript, meta, nil
}
