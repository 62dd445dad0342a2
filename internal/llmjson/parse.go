// Package llmjson extracts a JSON object from language-model output.
//
// Models routinely wrap the object they were asked for in markdown fences or
// a sentence of prose. Parse salvages the embedded object instead of
// rejecting the whole response.
package llmjson

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/alnah/go-studyguide/internal/apierr"
)

// ErrParse indicates the model output does not contain a decodable JSON object.
// It is a kind of apierr.ErrResponseInvalid.
var ErrParse = fmt.Errorf("cannot parse model output: %w", apierr.ErrResponseInvalid)

var (
	leadingFence  = regexp.MustCompile("(?i)^```(?:json)?\\s*")
	trailingFence = regexp.MustCompile("\\s*```\\s*$")
)

// Parse trims raw, strips a leading (optionally json-tagged) and trailing code
// fence, then decodes the text between the first '{' and the last '}'.
func Parse(raw string) (map[string]any, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("empty output: %w", ErrParse)
	}

	cleaned = leadingFence.ReplaceAllString(cleaned, "")
	cleaned = trailingFence.ReplaceAllString(cleaned, "")

	first := strings.IndexByte(cleaned, '{')
	last := strings.LastIndexByte(cleaned, '}')
	if first == -1 || last == -1 || last < first {
		return nil, fmt.Errorf("no JSON object found: %w", ErrParse)
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(cleaned[first:last+1]), &obj); err != nil {
		return nil, fmt.Errorf("JSON parse error: %s: %w", err.Error(), ErrParse)
	}
	return obj, nil
}
