package generate

import (
	"errors"
	"fmt"

	"github.com/alnah/go-studyguide/internal/apierr"
)

var (
	// ErrResponseTooShort indicates the model answer is empty or too short to hold the object.
	ErrResponseTooShort = fmt.Errorf("response too short: %w", apierr.ErrResponseInvalid)

	// ErrMissingFields indicates the decoded object has neither a non-empty title
	// nor a non-empty summary.
	ErrMissingFields = fmt.Errorf("missing required fields: %w", apierr.ErrResponseInvalid)

	// ErrAllModelsFailed indicates every candidate model was tried without success.
	ErrAllModelsFailed = errors.New("all models failed")

	// ErrFreeTierExhausted is the actionable form of a Gemini free-tier quota failure.
	ErrFreeTierExhausted = fmt.Errorf("gemini free-tier quota exhausted; get a free Groq key at console.groq.com and add %s to your .env file: %w",
		EnvGroqAPIKey, apierr.ErrQuotaExceeded)
)

// Credential environment variables.
const (
	EnvGroqAPIKey   = "GROQ_API_KEY"
	EnvGeminiAPIKey = "GEMINI_API_KEY"
)
