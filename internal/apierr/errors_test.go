package apierr_test

// Coverage Notes:
// - Sentinels stay distinct and survive wrapping.
// - FromStatus / FromMessage are the only places where upstream text is matched,
//   so every marker family is exercised here rather than in provider tests.

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/alnah/go-studyguide/internal/apierr"
)

var allSentinels = []error{
	apierr.ErrRateLimit,
	apierr.ErrQuotaExceeded,
	apierr.ErrTimeout,
	apierr.ErrAuthFailed,
	apierr.ErrBadRequest,
	apierr.ErrResponseInvalid,
	apierr.ErrNotConfigured,
}

// ---------------------------------------------------------------------------
// TestSentinelErrorDistinct - sentinels are distinct from each other
// ---------------------------------------------------------------------------

func TestSentinelErrorDistinct(t *testing.T) {
	t.Parallel()

	for i, a := range allSentinels {
		if wrapped := fmt.Errorf("context: %w", a); !errors.Is(wrapped, a) {
			t.Errorf("errors.Is(wrapped, %v) = false, want true", a)
		}
		for j, b := range allSentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("errors.Is(%v, %v) = true, want false", a, b)
			}
		}
	}
}

// ---------------------------------------------------------------------------
// TestFromStatus
// ---------------------------------------------------------------------------

func TestFromStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		msg    string
		want   error
	}{
		{"429 rate limit", http.StatusTooManyRequests, "Rate limit reached for model", apierr.ErrRateLimit},
		{"429 quota", http.StatusTooManyRequests, "You exceeded your current quota", apierr.ErrQuotaExceeded},
		{"429 free tier", http.StatusTooManyRequests, "generate_content_free_tier_requests", apierr.ErrQuotaExceeded},
		{"402", http.StatusPaymentRequired, "pay up", apierr.ErrQuotaExceeded},
		{"401", http.StatusUnauthorized, "bad key", apierr.ErrAuthFailed},
		{"403", http.StatusForbidden, "denied", apierr.ErrAuthFailed},
		{"504", http.StatusGatewayTimeout, "slow", apierr.ErrTimeout},
		{"503", http.StatusServiceUnavailable, "overloaded", apierr.ErrTimeout},
		{"404", http.StatusNotFound, "model not found", apierr.ErrBadRequest},
		{"200", http.StatusOK, "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := apierr.FromStatus(tt.status, tt.msg)
			if tt.want == nil {
				if got != nil {
					t.Errorf("FromStatus(%d) = %v, want nil", tt.status, got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Errorf("FromStatus(%d, %q) = %v, want %v", tt.status, tt.msg, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestFromMessage
// ---------------------------------------------------------------------------

func TestFromMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		msg  string
		want error
	}{
		{"groq rate_limit code", "rate_limit_exceeded: tokens per minute", apierr.ErrRateLimit},
		{"bare 429", "googleapi: Error 429: Too Many Requests", apierr.ErrRateLimit},
		{"429 with free tier", "Error 429: quota metric generate_content_free_tier_requests", apierr.ErrQuotaExceeded},
		{"resource exhausted", "rpc error: code = ResourceExhausted desc = RESOURCE_EXHAUSTED", apierr.ErrQuotaExceeded},
		{"invalid key", "API key not valid. Please pass a valid API key.", apierr.ErrAuthFailed},
		{"unrelated", "connection reset by peer", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := apierr.FromMessage(tt.msg)
			if tt.want == nil {
				if got != nil {
					t.Errorf("FromMessage(%q) = %v, want nil", tt.msg, got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Errorf("FromMessage(%q) = %v, want %v", tt.msg, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestKindOf
// ---------------------------------------------------------------------------

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want apierr.Kind
	}{
		{nil, apierr.KindUnknown},
		{fmt.Errorf("no key: %w", apierr.ErrNotConfigured), apierr.KindConfiguration},
		{fmt.Errorf("slow: %w", apierr.ErrRateLimit), apierr.KindRateLimited},
		{fmt.Errorf("empty: %w", apierr.ErrQuotaExceeded), apierr.KindQuotaExhausted},
		{fmt.Errorf("short: %w", apierr.ErrResponseInvalid), apierr.KindResponseInvalid},
		{errors.New("other"), apierr.KindUnknown},
	}

	for _, tt := range tests {
		if got := apierr.KindOf(tt.err); got != tt.want {
			t.Errorf("KindOf(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestIsFreeTierQuota
// ---------------------------------------------------------------------------

func TestIsFreeTierQuota(t *testing.T) {
	t.Parallel()

	freeTier := apierr.FromStatus(http.StatusTooManyRequests, "quota exceeded for metric free_tier_requests")
	paid := apierr.FromStatus(http.StatusTooManyRequests, "quota exceeded for project")
	rate := fmt.Errorf("free_tier burst: %w", apierr.ErrRateLimit)

	if !apierr.IsFreeTierQuota(freeTier) {
		t.Errorf("IsFreeTierQuota(%v) = false, want true", freeTier)
	}
	if apierr.IsFreeTierQuota(paid) {
		t.Errorf("IsFreeTierQuota(%v) = true, want false", paid)
	}
	if apierr.IsFreeTierQuota(rate) {
		t.Errorf("IsFreeTierQuota(%v) = true, want false (not a quota error)", rate)
	}
	if apierr.IsFreeTierQuota(nil) {
		t.Error("IsFreeTierQuota(nil) = true, want false")
	}
}

func TestMentionsRateLimit(t *testing.T) {
	t.Parallel()

	for msg, want := range map[string]bool{
		"rate_limit_exceeded":                   true,
		"status code: 429, quota for the day":   true,
		"Too Many Requests":                     true,
		"quota exceeded for project":            false,
		"model llama-3.3-70b-versatile is gone": false,
	} {
		if got := apierr.MentionsRateLimit(msg); got != want {
			t.Errorf("MentionsRateLimit(%q) = %v, want %v", msg, got, want)
		}
	}
}
