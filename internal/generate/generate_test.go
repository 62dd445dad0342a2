package generate_test

// Notes:
// - checkCandidate is the validation gate shared by both adapters.
// - Policy behavior (failFast vs exhaustive) is tested through the adapters
//   in groq_test.go and gemini_test.go.

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-studyguide/internal/apierr"
	"github.com/alnah/go-studyguide/internal/generate"
	"github.com/alnah/go-studyguide/internal/llmjson"
)

// validAnswer is a minimal model answer that passes every check.
const validAnswer = `{"title":"Intro to Go","summary":"Go is a statically typed language built for simple concurrent programs.","keyTakeaways":["goroutines"]}`

// ---------------------------------------------------------------------------
// TestCheckCandidate
// ---------------------------------------------------------------------------

func TestCheckCandidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		wantErr error
	}{
		{"valid", validAnswer, nil},
		{"valid with fences", "```json\n" + validAnswer + "\n```", nil},
		{"summary only", `{"summary":"` + strings.Repeat("s", 60) + `"}`, nil},
		{"empty", "", generate.ErrResponseTooShort},
		{"whitespace padded short", "   {\"title\":\"x\"}   ", generate.ErrResponseTooShort},
		{"not json", strings.Repeat("no json here ", 10), llmjson.ErrParse},
		{"no title or summary", `{"notes":[],"quiz":[],"flashcards":[],"keyTakeaways":["a","b"]}`, generate.ErrMissingFields},
		{"empty title and summary", `{"title":"","summary":"","notes":[],"quiz":[],"flashcards":[]}`, generate.ErrMissingFields},
		{"blank title and summary", `{"title":"   ","summary":"\t","notes":[],"quiz":[],"flashcards":[]}`, generate.ErrMissingFields},
		{"null title and summary", `{"title":null,"summary":null,"notes":[],"quiz":[],"flashcards":[]}`, generate.ErrMissingFields},
		{"non-string title and summary", `{"title":false,"summary":0,"notes":[],"quiz":[],"flashcards":[]}`, generate.ErrMissingFields},
		{"title only", `{"title":"Intro to Go","summary":"","notes":[],"quiz":[],"flashcards":[]}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			obj, err := generate.CheckCandidate(tt.text)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if obj == nil {
					t.Fatal("object = nil, want decoded object")
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, apierr.ErrResponseInvalid) {
				t.Errorf("error = %v, want it to wrap ErrResponseInvalid", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestErrFreeTierExhausted
// ---------------------------------------------------------------------------

func TestErrFreeTierExhausted(t *testing.T) {
	t.Parallel()

	if !errors.Is(generate.ErrFreeTierExhausted, apierr.ErrQuotaExceeded) {
		t.Error("ErrFreeTierExhausted should wrap ErrQuotaExceeded")
	}
	msg := generate.ErrFreeTierExhausted.Error()
	for _, want := range []string{"Groq", generate.EnvGroqAPIKey} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q should mention %q", msg, want)
		}
	}
}
