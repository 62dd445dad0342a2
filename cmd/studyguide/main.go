package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/alnah/go-studyguide/internal/apierr"
	"github.com/alnah/go-studyguide/internal/cli"
	"github.com/alnah/go-studyguide/internal/config"
	"github.com/alnah/go-studyguide/internal/generate"
	"github.com/alnah/go-studyguide/internal/history"
	"github.com/alnah/go-studyguide/internal/interrupt"
	"github.com/alnah/go-studyguide/internal/youtube"
)

// Injected at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

// Process exit codes.
const (
	ExitOK         = 0
	ExitGeneral    = 1
	ExitUsage      = 2
	ExitSetup      = 3
	ExitValidation = 4
	ExitGeneration = 5
	ExitInterrupt  = interrupt.ExitInterrupt
)

func main() {
	// Load .env file if present (ignore error if missing).
	_ = godotenv.Load()

	// First Ctrl+C cancels the context, the second one exits immediately.
	handler, ctx := interrupt.NewHandler(context.Background())

	gin.SetMode(gin.ReleaseMode)

	env := cli.DefaultEnv()

	rootCmd := &cobra.Command{
		Use:     "studyguide",
		Short:   "Turn YouTube videos into study material",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
		// Silence Cobra's default error/usage printing; we handle it ourselves.
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.AddCommand(cli.AnalyzeCmd(env))
	rootCmd.AddCommand(cli.ServeCmd(env))
	rootCmd.AddCommand(cli.HistoryCmd(env))
	rootCmd.AddCommand(cli.ConfigCmd(env))

	err := rootCmd.ExecuteContext(ctx)
	handler.Stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps errors to process exit codes.
func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	if errors.Is(err, context.Canceled) {
		return ExitInterrupt
	}

	if isCobraUsageError(err) {
		return ExitUsage
	}

	// Missing keys, including ErrNoCredentials and the analysis "no provider"
	// errors, all wrap ErrNotConfigured.
	if errors.Is(err, apierr.ErrNotConfigured) {
		return ExitSetup
	}

	if errors.Is(err, youtube.ErrInvalidURL) || errors.Is(err, youtube.ErrInvalidLanguage) ||
		errors.Is(err, cli.ErrInvalidFormat) || errors.Is(err, cli.ErrOutputExists) ||
		errors.Is(err, cli.ErrInvalidLimit) || errors.Is(err, config.ErrUnknownKey) ||
		errors.Is(err, history.ErrNotFound) {
		return ExitValidation
	}

	if errors.Is(err, apierr.ErrRateLimit) || errors.Is(err, apierr.ErrQuotaExceeded) ||
		errors.Is(err, apierr.ErrTimeout) || errors.Is(err, apierr.ErrAuthFailed) ||
		errors.Is(err, apierr.ErrBadRequest) || errors.Is(err, apierr.ErrResponseInvalid) ||
		errors.Is(err, generate.ErrAllModelsFailed) {
		return ExitGeneration
	}

	return ExitGeneral
}

// cobraUsageErrorPatterns contains error message substrings that indicate Cobra usage errors.
// Cobra doesn't expose typed errors, so string matching is the only reliable approach.
var cobraUsageErrorPatterns = []string{
	"required flag",
	"unknown flag",
	"unknown shorthand",
	"unknown command",
	"flag needs an argument",
	"invalid argument",
	"accepts ",
	"requires at least",
	"requires at most",
}

// isCobraUsageError checks if an error is a Cobra usage/parsing error.
func isCobraUsageError(err error) bool {
	if err == nil {
		return false
	}
	errMsg := err.Error()
	for _, pattern := range cobraUsageErrorPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}
	return false
}
