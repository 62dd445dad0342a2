package cli

import (
	"context"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-studyguide/internal/analysis"
	"github.com/alnah/go-studyguide/internal/config"
	"github.com/alnah/go-studyguide/internal/generate"
	"github.com/alnah/go-studyguide/internal/history"
	"github.com/alnah/go-studyguide/internal/logger"
	"github.com/alnah/go-studyguide/internal/youtube"
)

// Env holds injectable dependencies for CLI commands.
// This is the central injection point for testing CLI commands in isolation.
//
// All fields have sensible defaults via DefaultEnv(). Tests can override
// specific fields using the With* options or by creating a custom Env.
//
// Env must not be nil when passed to command functions. Use DefaultEnv()
// or NewEnv() to create a valid instance.
type Env struct {
	// I/O and environment
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string
	Now    func() time.Time

	// Factories for domain objects
	ConfigLoader    ConfigLoader
	LoggerFactory   LoggerFactory
	ProviderFactory ProviderFactory
	SourceFactory   SourceFactory
	StoreOpener     StoreOpener
}

// ConfigLoader loads and provides access to configuration.
type ConfigLoader interface {
	Load() (config.Config, error)
}

// LoggerFactory creates the structured logger for a log mode.
type LoggerFactory interface {
	NewLogger(mode string) (*zap.Logger, error)
}

// ProviderFactory creates the two generation providers. An empty key yields
// an unconfigured provider, never an error.
type ProviderFactory interface {
	NewPrimary(apiKey string, models []string, log *zap.Logger) analysis.PromptGenerator
	NewFallback(ctx context.Context, apiKey string, models []string, log *zap.Logger) (analysis.VideoGenerator, io.Closer, error)
}

// SourceFactory creates the video source (captions and metadata).
type SourceFactory interface {
	NewSource(language string, log *zap.Logger) analysis.VideoSource
}

// StoreOpener opens the history store. An empty path means in-memory.
type StoreOpener interface {
	Open(path string, log *zap.Logger) (history.Store, error)
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStdout sets the stdout writer.
func WithStdout(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stdout = w
	}
}

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stderr = w
	}
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) {
		e.Getenv = fn
	}
}

// WithNow sets the time provider.
func WithNow(fn func() time.Time) EnvOption {
	return func(e *Env) {
		e.Now = fn
	}
}

// WithConfigLoader sets the config loader.
func WithConfigLoader(l ConfigLoader) EnvOption {
	return func(e *Env) {
		e.ConfigLoader = l
	}
}

// WithLoggerFactory sets the logger factory.
func WithLoggerFactory(f LoggerFactory) EnvOption {
	return func(e *Env) {
		e.LoggerFactory = f
	}
}

// WithProviderFactory sets the provider factory.
func WithProviderFactory(f ProviderFactory) EnvOption {
	return func(e *Env) {
		e.ProviderFactory = f
	}
}

// WithSourceFactory sets the video source factory.
func WithSourceFactory(f SourceFactory) EnvOption {
	return func(e *Env) {
		e.SourceFactory = f
	}
}

// WithStoreOpener sets the history store opener.
func WithStoreOpener(o StoreOpener) EnvOption {
	return func(e *Env) {
		e.StoreOpener = o
	}
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	return &Env{
		Stdout:          os.Stdout,
		Stderr:          os.Stderr,
		Getenv:          os.Getenv,
		Now:             time.Now,
		ConfigLoader:    &defaultConfigLoader{},
		LoggerFactory:   &defaultLoggerFactory{},
		ProviderFactory: &defaultProviderFactory{},
		SourceFactory:   &defaultSourceFactory{},
		StoreOpener:     &defaultStoreOpener{},
	}
}

// NewEnv creates an Env with the given options applied to defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// ---------------------------------------------------------------------------
// Default implementations - delegate to real packages
// ---------------------------------------------------------------------------

// defaultConfigLoader implements ConfigLoader using the config package.
type defaultConfigLoader struct{}

func (defaultConfigLoader) Load() (config.Config, error) {
	return config.Load()
}

// defaultLoggerFactory implements LoggerFactory using the logger package.
type defaultLoggerFactory struct{}

func (defaultLoggerFactory) NewLogger(mode string) (*zap.Logger, error) {
	return logger.New(mode)
}

// defaultProviderFactory implements ProviderFactory with Groq and Gemini.
type defaultProviderFactory struct{}

func (defaultProviderFactory) NewPrimary(apiKey string, models []string, log *zap.Logger) analysis.PromptGenerator {
	return generate.NewGroqClient(apiKey,
		generate.WithGroqModels(models...),
		generate.WithGroqLogger(log),
	)
}

func (defaultProviderFactory) NewFallback(ctx context.Context, apiKey string, models []string, log *zap.Logger) (analysis.VideoGenerator, io.Closer, error) {
	client, err := generate.NewGeminiClient(ctx, apiKey,
		generate.WithGeminiModels(models...),
		generate.WithGeminiLogger(log),
	)
	if err != nil {
		return nil, nil, err
	}
	return client, client, nil
}

// defaultSourceFactory implements SourceFactory with the YouTube client.
type defaultSourceFactory struct{}

func (defaultSourceFactory) NewSource(language string, log *zap.Logger) analysis.VideoSource {
	return youtube.NewClient(
		youtube.WithLanguage(language),
		youtube.WithLogger(log),
	)
}

// defaultStoreOpener implements StoreOpener with the history package.
type defaultStoreOpener struct{}

func (defaultStoreOpener) Open(path string, log *zap.Logger) (history.Store, error) {
	return history.Open(path, log)
}

// Compile-time interface verification.
var (
	_ ConfigLoader    = (*defaultConfigLoader)(nil)
	_ LoggerFactory   = (*defaultLoggerFactory)(nil)
	_ ProviderFactory = (*defaultProviderFactory)(nil)
	_ SourceFactory   = (*defaultSourceFactory)(nil)
	_ StoreOpener     = (*defaultStoreOpener)(nil)
)
