package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alnah/go-studyguide/internal/generate"
	"github.com/alnah/go-studyguide/internal/server"
	"github.com/alnah/go-studyguide/internal/youtube"
)

// ServeCmd creates the serve command (HTTP API for the web frontend).
// The env parameter provides injectable dependencies for testing.
func ServeCmd(env *Env) *cobra.Command {
	var (
		addr     string
		language string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API used by the web frontend.

Routes:
  POST   /api/analyze        {"videoUrl": "..."}
  GET    /api/history        latest analyses (?limit=N)
  GET    /api/history/:id    one analysis, by id or video id
  DELETE /api/history/:id    delete by id or video id
  GET    /health

CORS allows the configured frontend-url (env: FRONTEND_URL).
The server starts without provider keys; analyses then answer 503.
Stops gracefully on Ctrl+C.`,
		Example: `  studyguide serve
  studyguide serve --addr 127.0.0.1:8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := youtube.ValidateLanguage(language); err != nil {
				return err
			}
			return runServe(cmd, env, addr, youtube.NormalizeLanguage(language))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "Listen address")
	cmd.Flags().StringVarP(&language, "lang", "l", "", "Preferred caption language (ISO 639-1)")

	return cmd
}

// runServe wires the service and serves until the command context ends.
func runServe(cmd *cobra.Command, env *Env, addr, language string) error {
	ctx := cmd.Context()

	d, err := buildDeps(ctx, env, language)
	if err != nil {
		return err
	}
	defer d.Close()

	if env.Getenv(generate.EnvGroqAPIKey) == "" && env.Getenv(generate.EnvGeminiAPIKey) == "" {
		fmt.Fprintf(env.Stderr, "Warning: %v\n", ErrNoCredentials)
	}

	opts := []server.Option{server.WithAddr(addr), server.WithLogger(d.log)}
	if d.cfg.FrontendURL != "" {
		opts = append(opts, server.WithAllowedOrigins(d.cfg.FrontendURL))
	}
	srv := server.New(d.service, d.store, opts...)

	d.log.Info("serving", zap.String("addr", addr), zap.String("frontend", d.cfg.FrontendURL))
	fmt.Fprintf(env.Stderr, "Listening on %s (Ctrl+C to stop)\n", addr)
	return srv.Run(ctx)
}
