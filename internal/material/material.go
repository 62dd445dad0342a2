// Package material defines the normalized study-material schema and the
// normalization that turns untrusted model output into it.
package material

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Defaults used when the model omits a field.
const (
	DefaultTitle     = "Video Analysis"
	DefaultSummary   = "Summary not available."
	DefaultTimestamp = "00:00"
	DefaultAnswer    = "A"
)

// StudyMaterial is the normalized result of one video analysis.
// ID and CreatedAt are assigned by the persistence layer, never by Normalize.
type StudyMaterial struct {
	ID           string      `json:"_id,omitempty"`
	VideoID      string      `json:"videoId"`
	VideoURL     string      `json:"videoUrl"`
	Thumbnail    string      `json:"thumbnail,omitempty"`
	Title        string      `json:"title"`
	Summary      string      `json:"summary"`
	KeyTakeaways []string    `json:"keyTakeaways"`
	Notes        []Note      `json:"notes"`
	Quiz         []QuizItem  `json:"quiz"`
	Flashcards   []Flashcard `json:"flashcards"`
	CreatedAt    time.Time   `json:"createdAt,omitzero"`
}

// Note is a timestamped study note.
type Note struct {
	Timestamp string `json:"timestamp"`
	Text      string `json:"text"`
}

// QuizItem is a multiple-choice question.
type QuizItem struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

// AnswerIndex returns the option index the answer letter points at, and
// whether that index exists. Normalize does not reject out-of-range letters
// ("E" with four options), so callers rendering a quiz should check this.
func (q QuizItem) AnswerIndex() (int, bool) {
	if len(q.Answer) != 1 {
		return 0, false
	}
	idx := int(q.Answer[0] - 'A')
	return idx, idx >= 0 && idx < len(q.Options)
}

// Flashcard is a question/answer pair.
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Normalize coerces a decoded model object into a StudyMaterial.
// It never fails: absent or mistyped fields degrade to defaults, and list
// entries missing their required text are dropped. Order is preserved.
func Normalize(raw map[string]any, videoID, videoURL string) StudyMaterial {
	return StudyMaterial{
		VideoID:      videoID,
		VideoURL:     videoURL,
		Title:        stringOr(raw["title"], DefaultTitle),
		Summary:      stringOr(raw["summary"], DefaultSummary),
		KeyTakeaways: normalizeTakeaways(raw["keyTakeaways"]),
		Notes:        normalizeNotes(raw["notes"]),
		Quiz:         normalizeQuiz(raw["quiz"]),
		Flashcards:   normalizeFlashcards(raw["flashcards"]),
	}
}

func normalizeTakeaways(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch t := item.(type) {
		case float64:
			if t == 0 {
				continue
			}
		case bool:
			if !t {
				continue
			}
		}
		if s, ok := scalarString(item); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func normalizeNotes(v any) []Note {
	items, _ := v.([]any)
	out := make([]Note, 0, len(items))
	for _, item := range items {
		obj, _ := item.(map[string]any)
		n := Note{
			Timestamp: stringOr(obj["timestamp"], DefaultTimestamp),
			Text:      stringOr(obj["text"], ""),
		}
		if n.Text == "" {
			continue
		}
		out = append(out, n)
	}
	return out
}

func normalizeQuiz(v any) []QuizItem {
	items, _ := v.([]any)
	out := make([]QuizItem, 0, len(items))
	for _, item := range items {
		obj, _ := item.(map[string]any)
		q := QuizItem{
			Question:    stringOr(obj["question"], ""),
			Options:     normalizeOptions(obj["options"]),
			Answer:      coerceAnswer(obj["answer"]),
			Explanation: stringOr(obj["explanation"], ""),
		}
		if q.Question == "" {
			continue
		}
		out = append(out, q)
	}
	return out
}

// normalizeOptions stringifies every option, keeping empty ones so that the
// answer letter still lines up with the option positions the model chose.
func normalizeOptions(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, _ := scalarString(item)
		out = append(out, s)
	}
	return out
}

// coerceAnswer keeps the first letter of the trimmed, upper-cased answer.
// Anything that does not start with A-Z becomes DefaultAnswer.
func coerceAnswer(v any) string {
	s, _ := v.(string)
	s = strings.ToUpper(strings.TrimSpace(s))
	r, _ := utf8.DecodeRuneInString(s)
	if r < 'A' || r > 'Z' {
		return DefaultAnswer
	}
	return string(r)
}

func normalizeFlashcards(v any) []Flashcard {
	items, _ := v.([]any)
	out := make([]Flashcard, 0, len(items))
	for _, item := range items {
		obj, _ := item.(map[string]any)
		f := Flashcard{
			Front: stringOr(obj["front"], ""),
			Back:  stringOr(obj["back"], ""),
		}
		if f.Front == "" || f.Back == "" {
			continue
		}
		out = append(out, f)
	}
	return out
}

// stringOr returns the trimmed string value of v, or def when v is not a
// string or trims to nothing.
func stringOr(v any, def string) string {
	s, ok := v.(string)
	if !ok {
		return def
	}
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}

// scalarString renders JSON scalars as text. Objects, arrays and null are
// not representable and report false.
func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}
