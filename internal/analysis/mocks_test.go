package analysis_test

import (
	"context"
	"sync"

	"github.com/alnah/go-studyguide/internal/youtube"
)

// validObject is a decoded model answer.
func validObject(title string) map[string]any {
	return map[string]any{
		"title":        title,
		"summary":      "A summary.",
		"keyTakeaways": []any{"one", "two"},
		"quiz": []any{
			map[string]any{"question": "Q?", "options": []any{"A. a", "B. b"}, "answer": "b"},
		},
	}
}

// mockPrompt records prompts and answers with result/err.
type mockPrompt struct {
	mu         sync.Mutex
	configured bool
	result     map[string]any
	err        error
	prompts    []string
}

func (m *mockPrompt) Configured() bool { return m.configured }

func (m *mockPrompt) Generate(_ context.Context, prompt string) (map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	return m.result, m.err
}

func (m *mockPrompt) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

type videoCall struct {
	videoURL   string
	transcript string
}

// mockVideo records (videoURL, transcript) pairs and answers with result/err.
type mockVideo struct {
	mu         sync.Mutex
	configured bool
	result     map[string]any
	err        error
	recorded   []videoCall
}

func (m *mockVideo) Configured() bool { return m.configured }

func (m *mockVideo) Generate(_ context.Context, videoURL, transcript string) (map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recorded = append(m.recorded, videoCall{videoURL: videoURL, transcript: transcript})
	return m.result, m.err
}

func (m *mockVideo) calls() []videoCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]videoCall(nil), m.recorded...)
}

// mockSource is a scripted VideoSource.
type mockSource struct {
	transcript    string
	transcriptErr error
	meta          *youtube.Metadata
	metaErr       error

	mu      sync.Mutex
	fetched []string
}

func (m *mockSource) FetchTranscript(_ context.Context, id string) (string, error) {
	m.mu.Lock()
	m.fetched = append(m.fetched, "transcript:"+id)
	m.mu.Unlock()
	return m.transcript, m.transcriptErr
}

func (m *mockSource) FetchMetadata(_ context.Context, id string) (*youtube.Metadata, error) {
	m.mu.Lock()
	m.fetched = append(m.fetched, "metadata:"+id)
	m.mu.Unlock()
	return m.meta, m.metaErr
}
