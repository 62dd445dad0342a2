// Package apierr provides shared error sentinels, error classification and
// retry infrastructure for the upstream clients (language-model providers and
// YouTube fetchers). Provider-specific errors are classified into these
// sentinels at the adapter boundary.
//
// Providers map upstream failures to these errors using fmt.Errorf("%s: %w", msg, sentinel).
// Callers check with errors.Is(err, apierr.ErrRateLimit) etc.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for API interaction failures.
var (
	// ErrRateLimit indicates a transient upstream rejection (retryable with another candidate).
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrQuotaExceeded indicates the provider quota is exhausted (terminal for that provider).
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrTimeout indicates a request timed out or the upstream returned a 5xx.
	ErrTimeout = errors.New("request timeout")

	// ErrAuthFailed indicates API authentication failed (invalid key).
	ErrAuthFailed = errors.New("authentication failed")

	// ErrBadRequest indicates a client error (4xx) that is not otherwise classified.
	ErrBadRequest = errors.New("bad request")

	// ErrResponseInvalid indicates the model answered but the answer is unusable:
	// empty, too short, unparseable, or missing required fields.
	ErrResponseInvalid = errors.New("invalid model response")

	// ErrNotConfigured indicates no credential is available for a provider path.
	ErrNotConfigured = errors.New("provider not configured")
)

// Kind is the coarse failure category an orchestrator reacts to.
type Kind int

const (
	KindUnknown Kind = iota
	KindConfiguration
	KindRateLimited
	KindQuotaExhausted
	KindResponseInvalid
)

// String returns the kind name used in log fields.
func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindRateLimited:
		return "rate_limited"
	case KindQuotaExhausted:
		return "quota_exhausted"
	case KindResponseInvalid:
		return "response_invalid"
	default:
		return "unknown"
	}
}

// KindOf reports the category of an already classified error.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrNotConfigured):
		return KindConfiguration
	case errors.Is(err, ErrRateLimit):
		return KindRateLimited
	case errors.Is(err, ErrQuotaExceeded):
		return KindQuotaExhausted
	case errors.Is(err, ErrResponseInvalid):
		return KindResponseInvalid
	default:
		return KindUnknown
	}
}

// Message fragments used when an upstream error carries no usable status code.
// Upstream SDKs surface these inside free-form error text.
var (
	rateLimitMarkers = []string{"rate_limit", "rate limit", "429", "too many requests"}
	quotaMarkers     = []string{"quota", "billing", "free_tier", "resource_exhausted", "resourceexhausted"}
	freeTierMarkers  = []string{"free_tier", "free tier", "freetier"}
	authMarkers      = []string{"api key not valid", "invalid api key", "invalid_api_key", "unauthenticated", "permission_denied"}
)

// FromStatus maps an HTTP status code and upstream message to a wrapped sentinel.
// Returns nil when the status does not indicate a failure this package knows about.
func FromStatus(status int, msg string) error {
	switch status {
	case http.StatusTooManyRequests:
		// Distinguish between temporary rate limit and quota exceeded (billing issue).
		if containsAny(msg, quotaMarkers) {
			return fmt.Errorf("%s: %w", msg, ErrQuotaExceeded)
		}
		return fmt.Errorf("%s: %w", msg, ErrRateLimit)
	case http.StatusPaymentRequired:
		return fmt.Errorf("%s: %w", msg, ErrQuotaExceeded)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%s: %w", msg, ErrAuthFailed)
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return fmt.Errorf("%s: %w", msg, ErrTimeout)
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		return fmt.Errorf("%s: %w", msg, ErrTimeout) // Retryable server error
	case http.StatusBadRequest, http.StatusNotFound:
		return fmt.Errorf("%s: %w", msg, ErrBadRequest)
	}
	return nil
}

// FromMessage classifies an error purely from its text.
// Returns nil when no rule matches, so callers can keep the original error.
func FromMessage(msg string) error {
	switch {
	case containsAny(msg, rateLimitMarkers) && containsAny(msg, quotaMarkers):
		return fmt.Errorf("%s: %w", msg, ErrQuotaExceeded)
	case containsAny(msg, rateLimitMarkers):
		return fmt.Errorf("%s: %w", msg, ErrRateLimit)
	case containsAny(msg, quotaMarkers):
		return fmt.Errorf("%s: %w", msg, ErrQuotaExceeded)
	case containsAny(msg, authMarkers):
		return fmt.Errorf("%s: %w", msg, ErrAuthFailed)
	}
	return nil
}

// MentionsRateLimit reports whether msg carries a rate-limit marker
// ("rate_limit", "429", ...), regardless of any quota wording.
func MentionsRateLimit(msg string) bool {
	return containsAny(msg, rateLimitMarkers)
}

// IsFreeTierQuota reports whether err is a quota failure on a free-tier plan.
func IsFreeTierQuota(err error) bool {
	if err == nil || !errors.Is(err, ErrQuotaExceeded) {
		return false
	}
	return containsAny(err.Error(), freeTierMarkers)
}

// containsAny reports whether s contains any of the markers, case-insensitively.
func containsAny(s string, markers []string) bool {
	lower := strings.ToLower(s)
	for _, m := range markers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
