package analysis_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-studyguide/internal/analysis"
	"github.com/alnah/go-studyguide/internal/history"
	"github.com/alnah/go-studyguide/internal/material"
	"github.com/alnah/go-studyguide/internal/youtube"
)

// ---------------------------------------------------------------------------
// TestService_AnalyzeURL
// ---------------------------------------------------------------------------

func TestService_AnalyzeURL(t *testing.T) {
	t.Parallel()

	t.Run("full pipeline persists the material", func(t *testing.T) {
		t.Parallel()

		source := &mockSource{transcript: "captions text", meta: &youtube.Metadata{Title: "T"}}
		primary := &mockPrompt{configured: true, result: validObject("Saved")}
		store := history.NewMemoryStore()
		svc := analysis.NewService(analysis.NewAnalyzer(primary, nil), source, store, nil)

		res, err := svc.AnalyzeURL(context.Background(), "https://youtu.be/"+videoID+"?si=share")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		m := res.Material
		if m.VideoURL != videoURL {
			t.Errorf("VideoURL = %q, want canonical %q", m.VideoURL, videoURL)
		}
		if m.Thumbnail != youtube.ThumbnailURL(videoID) {
			t.Errorf("Thumbnail = %q", m.Thumbnail)
		}
		if !res.Saved || m.ID == "" || m.CreatedAt.IsZero() {
			t.Errorf("result = %+v, want saved with id and creation time", res)
		}
		if res.Mode != analysis.ModeTranscript {
			t.Errorf("mode = %s, want transcript", res.Mode)
		}
		stored, err := store.Get(context.Background(), videoID)
		if err != nil || stored.Title != "Saved" {
			t.Errorf("store.Get = (%+v, %v), want the saved material", stored, err)
		}
		if len(source.fetched) != 2 {
			t.Errorf("fetches = %v, want transcript and metadata", source.fetched)
		}
	})

	t.Run("invalid URL makes no call", func(t *testing.T) {
		t.Parallel()

		source := &mockSource{}
		primary := &mockPrompt{configured: true}
		svc := analysis.NewService(analysis.NewAnalyzer(primary, nil), source, nil, nil)

		_, err := svc.AnalyzeURL(context.Background(), "https://vimeo.com/123")
		if !errors.Is(err, youtube.ErrInvalidURL) {
			t.Errorf("error = %v, want ErrInvalidURL", err)
		}
		if len(source.fetched) != 0 || primary.calls() != 0 {
			t.Error("invalid URL should not reach any collaborator")
		}
	})

	t.Run("metadata failure is absorbed", func(t *testing.T) {
		t.Parallel()

		source := &mockSource{metaErr: errors.New("oembed down")}
		fallback := &mockVideo{configured: true, result: validObject("V")}
		svc := analysis.NewService(analysis.NewAnalyzer(nil, fallback), source, nil, nil)

		res, err := svc.AnalyzeURL(context.Background(), videoURL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Mode != analysis.ModeVideo || res.Saved {
			t.Errorf("result = %+v, want unsaved video-mode result", res)
		}
	})

	t.Run("cancellation aborts", func(t *testing.T) {
		t.Parallel()

		source := &mockSource{transcriptErr: context.Canceled}
		svc := analysis.NewService(analysis.NewAnalyzer(&mockPrompt{configured: true}, nil), source, nil, nil)

		if _, err := svc.AnalyzeURL(context.Background(), videoURL); !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	})

	t.Run("generation error is wrapped with the video id", func(t *testing.T) {
		t.Parallel()

		svc := analysis.NewService(analysis.NewAnalyzer(nil, nil), &mockSource{transcript: "t"}, nil, nil)

		_, err := svc.AnalyzeURL(context.Background(), videoURL)
		if !errors.Is(err, analysis.ErrNoProvider) {
			t.Errorf("error = %v, want ErrNoProvider", err)
		}
		if !strings.Contains(err.Error(), videoID) {
			t.Errorf("error %q should mention the video id", err)
		}
	})

	t.Run("save failure still returns the analysis", func(t *testing.T) {
		t.Parallel()

		primary := &mockPrompt{configured: true, result: validObject("Kept")}
		svc := analysis.NewService(analysis.NewAnalyzer(primary, nil), &mockSource{transcript: "t"}, failingStore{}, nil)

		res, err := svc.AnalyzeURL(context.Background(), videoURL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Saved || res.Material.Title != "Kept" {
			t.Errorf("result = %+v, want unsaved material", res)
		}
	})
}

type failingStore struct{ history.Store }

func (failingStore) Save(context.Context, *material.StudyMaterial) error {
	return errors.New("disk full")
}
