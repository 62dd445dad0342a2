package cli

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/alnah/go-studyguide/internal/analysis"
	"github.com/alnah/go-studyguide/internal/config"
	"github.com/alnah/go-studyguide/internal/generate"
	"github.com/alnah/go-studyguide/internal/history"
	"github.com/alnah/go-studyguide/internal/logger"
)

// deps is everything a command needs to run analyses. Close releases the
// store and the SDK clients.
type deps struct {
	cfg     config.Config
	log     *zap.Logger
	store   history.Store
	service *analysis.Service
	closers []io.Closer
}

func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i].Close(); err != nil {
			d.log.Warn("close failed", zap.Error(err))
		}
	}
	_ = d.log.Sync()
}

// loadConfig loads config, warning (not failing) on a broken file.
func loadConfig(env *Env) config.Config {
	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: failed to load config: %v\n", err)
		cfg.LogMode = config.DefaultLogMode
	}
	return cfg
}

// newLogger builds the structured logger for cfg, falling back to a no-op
// logger when the mode is invalid.
func newLogger(env *Env, cfg config.Config) *zap.Logger {
	mode := cfg.LogMode
	if mode == "" {
		mode = config.DefaultLogMode
	}
	log, err := env.LoggerFactory.NewLogger(mode)
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: %v (logging disabled)\n", err)
		return zap.NewNop()
	}
	return log
}

// openStore opens the configured history store. Persistence disabled means
// an in-memory store.
func openStore(env *Env, cfg config.Config, log *zap.Logger) (history.Store, error) {
	path := ""
	if cfg.PersistenceEnabled() {
		path = cfg.DBPath
	}
	store, err := env.StoreOpener.Open(path, log)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return store, nil
}

// setup is buildDeps for one-shot commands: it returns ErrNoCredentials
// before any network call when no key is set.
func setup(ctx context.Context, env *Env, language string) (*deps, error) {
	if env.Getenv(generate.EnvGroqAPIKey) == "" && env.Getenv(generate.EnvGeminiAPIKey) == "" {
		return nil, ErrNoCredentials
	}
	return buildDeps(ctx, env, language)
}

// buildDeps wires providers, the video source and the store into a Service.
// language overrides the configured caption language when non-empty.
// Missing keys leave the matching provider unconfigured.
func buildDeps(ctx context.Context, env *Env, language string) (*deps, error) {
	groqKey := env.Getenv(generate.EnvGroqAPIKey)
	geminiKey := env.Getenv(generate.EnvGeminiAPIKey)

	cfg := loadConfig(env)
	log := newLogger(env, cfg)
	d := &deps{cfg: cfg, log: log}

	if groqKey != "" {
		log.Debug("groq configured", zap.String("key", logger.Redact(groqKey)))
	}
	primary := env.ProviderFactory.NewPrimary(groqKey, cfg.GroqModels, log)

	fallback, closer, err := env.ProviderFactory.NewFallback(ctx, geminiKey, cfg.GeminiModels, log)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("setup gemini: %w", err)
	}
	if closer != nil {
		d.closers = append(d.closers, closer)
	}

	store, err := openStore(env, cfg, log)
	if err != nil {
		d.Close()
		return nil, err
	}
	d.store = store
	d.closers = append(d.closers, store)

	if language == "" {
		language = cfg.Language
	}
	source := env.SourceFactory.NewSource(language, log)

	analyzer := analysis.NewAnalyzer(primary, fallback, analysis.WithLogger(log))
	d.service = analysis.NewService(analyzer, source, store, log)
	return d, nil
}
