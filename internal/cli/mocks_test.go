package cli

import (
	"context"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/alnah/go-studyguide/internal/analysis"
	"github.com/alnah/go-studyguide/internal/config"
	"github.com/alnah/go-studyguide/internal/history"
	"github.com/alnah/go-studyguide/internal/youtube"
)

// validObject is a decoded provider answer that passes every check.
func validObject() map[string]any {
	return map[string]any{
		"title":        "Intro to Go",
		"summary":      "Goroutines and channels.",
		"keyTakeaways": []any{"Use channels"},
		"notes":        []any{map[string]any{"timestamp": "00:30", "text": "Start a goroutine"}},
		"quiz": []any{map[string]any{
			"question": "What starts a goroutine?",
			"options":  []any{"go", "run", "spawn", "async"},
			"answer":   "A",
		}},
		"flashcards": []any{map[string]any{"front": "go", "back": "starts a goroutine"}},
	}
}

// ---------------------------------------------------------------------------
// Mock ConfigLoader
// ---------------------------------------------------------------------------

type mockConfigLoader struct {
	LoadFunc func() (config.Config, error)

	mu        sync.Mutex
	loadCalls int
}

func (m *mockConfigLoader) Load() (config.Config, error) {
	m.mu.Lock()
	m.loadCalls++
	m.mu.Unlock()

	if m.LoadFunc != nil {
		return m.LoadFunc()
	}
	return config.Config{LogMode: "silent"}, nil
}

func (m *mockConfigLoader) LoadCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadCalls
}

// ---------------------------------------------------------------------------
// Mock LoggerFactory
// ---------------------------------------------------------------------------

type mockLoggerFactory struct {
	logger *zap.Logger
	err    error
}

func (m *mockLoggerFactory) NewLogger(string) (*zap.Logger, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.logger != nil {
		return m.logger, nil
	}
	return zap.NewNop(), nil
}

// ---------------------------------------------------------------------------
// Mock ProviderFactory + providers
// ---------------------------------------------------------------------------

type mockPrimary struct {
	configured   bool
	GenerateFunc func(ctx context.Context, prompt string) (map[string]any, error)

	mu      sync.Mutex
	prompts []string
}

func (m *mockPrimary) Configured() bool { return m.configured }

func (m *mockPrimary) Generate(ctx context.Context, prompt string) (map[string]any, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}
	return validObject(), nil
}

func (m *mockPrimary) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

type mockFallback struct {
	configured   bool
	GenerateFunc func(ctx context.Context, videoURL, transcript string) (map[string]any, error)

	mu     sync.Mutex
	calls  int
	closed bool
}

func (m *mockFallback) Configured() bool { return m.configured }

func (m *mockFallback) Generate(ctx context.Context, videoURL, transcript string) (map[string]any, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, videoURL, transcript)
	}
	return validObject(), nil
}

func (m *mockFallback) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockFallback) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// mockProviderFactory hands out the configured mocks and records the keys
// and model lists it was asked for. A provider is configured when its key
// is non-empty.
type mockProviderFactory struct {
	primary     *mockPrimary
	fallback    *mockFallback
	fallbackErr error

	mu           sync.Mutex
	primaryKey   string
	fallbackKey  string
	groqModels   []string
	geminiModels []string
}

func (m *mockProviderFactory) NewPrimary(apiKey string, models []string, _ *zap.Logger) analysis.PromptGenerator {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.primaryKey, m.groqModels = apiKey, models
	if m.primary == nil {
		m.primary = &mockPrimary{}
	}
	m.primary.configured = apiKey != ""
	return m.primary
}

func (m *mockProviderFactory) NewFallback(_ context.Context, apiKey string, models []string, _ *zap.Logger) (analysis.VideoGenerator, io.Closer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fallbackErr != nil {
		return nil, nil, m.fallbackErr
	}
	m.fallbackKey, m.geminiModels = apiKey, models
	if m.fallback == nil {
		m.fallback = &mockFallback{}
	}
	m.fallback.configured = apiKey != ""
	return m.fallback, m.fallback, nil
}

// ---------------------------------------------------------------------------
// Mock SourceFactory + VideoSource
// ---------------------------------------------------------------------------

type mockSource struct {
	transcript string
	meta       *youtube.Metadata
	err        error
}

func (m *mockSource) FetchTranscript(context.Context, string) (string, error) {
	return m.transcript, m.err
}

func (m *mockSource) FetchMetadata(context.Context, string) (*youtube.Metadata, error) {
	return m.meta, nil
}

type mockSourceFactory struct {
	source *mockSource

	mu       sync.Mutex
	language string
}

func (m *mockSourceFactory) NewSource(language string, _ *zap.Logger) analysis.VideoSource {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.language = language
	if m.source == nil {
		m.source = &mockSource{transcript: "we talk about goroutines and channels at length"}
	}
	return m.source
}

func (m *mockSourceFactory) Language() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.language
}

// ---------------------------------------------------------------------------
// Mock StoreOpener
// ---------------------------------------------------------------------------

// mockStoreOpener returns one shared in-memory store so tests can inspect
// what commands saved. The store's Close is a no-op, so reuse is safe.
type mockStoreOpener struct {
	store   *history.MemoryStore
	openErr error

	mu    sync.Mutex
	paths []string
}

func (m *mockStoreOpener) Open(path string, _ *zap.Logger) (history.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paths = append(m.paths, path)
	if m.openErr != nil {
		return nil, m.openErr
	}
	if m.store == nil {
		m.store = history.NewMemoryStore()
	}
	return m.store, nil
}

func (m *mockStoreOpener) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.paths...)
}
