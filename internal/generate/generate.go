// Package generate holds the language-model provider adapters.
//
// Each adapter takes a prompt, runs it against an ordered list of candidate
// models and returns the decoded study-material object of the first
// candidate whose answer passes validation. The adapters differ only in
// their retry policy (see failFast and exhaustive).
package generate

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/alnah/go-studyguide/internal/apierr"
	"github.com/alnah/go-studyguide/internal/llmjson"
)

// Sampling parameters shared by every provider.
const (
	Temperature     = 0.4
	MaxOutputTokens = 8192

	// minResponseChars is the shortest trimmed answer worth parsing.
	minResponseChars = 50
)

// attemptFunc runs one candidate and returns its decoded object.
type attemptFunc[C fmt.Stringer] func(ctx context.Context, c C) (map[string]any, error)

// checkCandidate validates a raw model answer: long enough, decodable, and
// carrying at least a non-empty title or summary.
func checkCandidate(text string) (map[string]any, error) {
	if n := len(strings.TrimSpace(text)); n < minResponseChars {
		return nil, fmt.Errorf("%d chars: %w", n, ErrResponseTooShort)
	}
	obj, err := llmjson.Parse(text)
	if err != nil {
		return nil, err
	}
	if !nonEmptyString(obj["title"]) && !nonEmptyString(obj["summary"]) {
		return nil, ErrMissingFields
	}
	return obj, nil
}

// nonEmptyString reports whether v is a string with visible content.
func nonEmptyString(v any) bool {
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) != ""
}

// failFast tries candidates in order. A rate-limited candidate is skipped in
// favor of the next one; any other failure aborts the whole list.
// Used by GroqClient.
func failFast[C fmt.Stringer](ctx context.Context, log *zap.Logger, candidates []C, attempt attemptFunc[C]) (map[string]any, error) {
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		log.Info("trying model", zap.Stringer("candidate", c))
		obj, err := attempt(ctx, c)
		if err == nil {
			log.Info("model succeeded", zap.Stringer("candidate", c))
			return obj, nil
		}

		log.Warn("model failed", zap.Stringer("candidate", c),
			zap.Stringer("kind", apierr.KindOf(err)), zap.Error(err))
		if apierr.KindOf(err) == apierr.KindRateLimited {
			continue
		}
		return nil, err
	}
	return nil, ErrAllModelsFailed
}

// exhaustive tries every candidate in order regardless of how earlier ones
// failed, and returns the first success or the last error recorded.
// The returned error is nil only when candidates is empty.
// Used by GeminiClient.
func exhaustive[C fmt.Stringer](ctx context.Context, log *zap.Logger, candidates []C, attempt attemptFunc[C]) (map[string]any, error) {
	var lastErr error
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		log.Info("trying model", zap.Stringer("candidate", c))
		obj, err := attempt(ctx, c)
		if err == nil {
			log.Info("model succeeded", zap.Stringer("candidate", c))
			return obj, nil
		}

		log.Warn("model failed", zap.Stringer("candidate", c),
			zap.Stringer("kind", apierr.KindOf(err)), zap.Error(err))
		lastErr = err
	}
	return nil, lastErr
}

// modelName adapts a plain model id to fmt.Stringer for the policies.
type modelName string

func (m modelName) String() string { return string(m) }
