package cli

import (
	"errors"
	"fmt"

	"github.com/alnah/go-studyguide/internal/apierr"
	"github.com/alnah/go-studyguide/internal/generate"
)

// CLI-specific sentinel errors.
// These are validation/usage errors that don't belong to domain packages.

var (
	// ErrNoCredentials indicates neither provider key is set. It wraps
	// apierr.ErrNotConfigured so it maps to the setup exit code.
	ErrNoCredentials = fmt.Errorf("neither %s nor %s is set (add one to your .env file): %w",
		generate.EnvGroqAPIKey, generate.EnvGeminiAPIKey, apierr.ErrNotConfigured)

	// ErrOutputExists indicates the output file already exists.
	ErrOutputExists = errors.New("output file already exists")

	// ErrInvalidLimit indicates a non-positive history list limit.
	ErrInvalidLimit = errors.New("invalid limit")
)
