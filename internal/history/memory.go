package history

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alnah/go-studyguide/internal/material"
)

// MemoryStore keeps analyses for the life of the process. It is used when
// no database path is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	byVideo map[string]material.StudyMaterial
	now     func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byVideo: make(map[string]material.StudyMaterial),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) Save(_ context.Context, m *material.StudyMaterial) error {
	if m == nil || m.VideoID == "" {
		return fmt.Errorf("save: video id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.byVideo[m.VideoID]; ok {
		m.ID, m.CreatedAt = prev.ID, prev.CreatedAt
	} else {
		m.ID, m.CreatedAt = uuid.NewString(), s.now()
	}
	s.byVideo[m.VideoID] = clone(*m)
	return nil
}

func (s *MemoryStore) List(_ context.Context, limit int) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Summary, 0, len(s.byVideo))
	for _, m := range s.byVideo {
		out = append(out, summarize(&m))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if n := normalizeLimit(limit); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, idOrVideoID string) (*material.StudyMaterial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key, ok := s.lookup(idOrVideoID)
	if !ok {
		return nil, ErrNotFound
	}
	m := clone(s.byVideo[key])
	return &m, nil
}

func (s *MemoryStore) Delete(_ context.Context, idOrVideoID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, ok := s.lookup(idOrVideoID)
	if !ok {
		return ErrNotFound
	}
	delete(s.byVideo, key)
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

// lookup returns the video-id key of a record matched by id first, then by
// video id. Caller holds the lock.
func (s *MemoryStore) lookup(idOrVideoID string) (string, bool) {
	for key, m := range s.byVideo {
		if m.ID == idOrVideoID {
			return key, true
		}
	}
	if _, ok := s.byVideo[idOrVideoID]; ok {
		return idOrVideoID, true
	}
	return "", false
}

// clone copies the slices so stored values never alias caller memory.
func clone(m material.StudyMaterial) material.StudyMaterial {
	m.KeyTakeaways = append([]string{}, m.KeyTakeaways...)
	m.Notes = append([]material.Note{}, m.Notes...)
	m.Flashcards = append([]material.Flashcard{}, m.Flashcards...)
	quiz := make([]material.QuizItem, len(m.Quiz))
	for i, q := range m.Quiz {
		q.Options = append([]string{}, q.Options...)
		quiz[i] = q
	}
	m.Quiz = quiz
	return m
}
