// Package history persists analyses so they can be listed, reopened and
// deleted later. Every record is keyed by video id: analyzing the same video
// again replaces the stored material but keeps its id and creation time.
package history

import (
	"context"
	"errors"
	"time"

	"github.com/alnah/go-studyguide/internal/material"
)

// DefaultListLimit is the number of entries List returns when limit <= 0.
const DefaultListLimit = 20

// ErrNotFound indicates no analysis matches the id or video id.
var ErrNotFound = errors.New("analysis not found")

// Summary is the list view of one stored analysis.
type Summary struct {
	ID        string    `json:"_id"`
	VideoID   string    `json:"videoId"`
	VideoURL  string    `json:"videoUrl"`
	Title     string    `json:"title"`
	Thumbnail string    `json:"thumbnail"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store is the persistence collaborator of the analysis service.
//
// Save upserts by m.VideoID and writes the stored ID and CreatedAt back into m.
// List returns the newest entries first. Get and Delete accept either the
// record id or the video id.
type Store interface {
	Save(ctx context.Context, m *material.StudyMaterial) error
	List(ctx context.Context, limit int) ([]Summary, error)
	Get(ctx context.Context, idOrVideoID string) (*material.StudyMaterial, error)
	Delete(ctx context.Context, idOrVideoID string) error
	Close() error
}

func summarize(m *material.StudyMaterial) Summary {
	return Summary{
		ID:        m.ID,
		VideoID:   m.VideoID,
		VideoURL:  m.VideoURL,
		Title:     m.Title,
		Thumbnail: m.Thumbnail,
		Summary:   m.Summary,
		CreatedAt: m.CreatedAt,
	}
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
