// Package prompt builds the instruction text sent to the language models.
//
// There are three content modes, keyed on what source content is available:
// a captions transcript, only the video URL (for multimodal models), or only
// the title and channel name. All three ask for the same JSON shape.
package prompt

import (
	"fmt"
	"strings"
)

// MaxTranscriptChars bounds the transcript embedded in a prompt so that a
// long video still fits the provider context window.
const MaxTranscriptChars = 12000

// jsonShape is the example object every prompt asks the model to follow.
const jsonShape = `{"title":"Full video title","summary":"5-8 sentence comprehensive summary","keyTakeaways":["point 1","point 2","point 3","point 4","point 5"],"notes":[{"timestamp":"00:00","text":"Note text here"},{"timestamp":"02:30","text":"Another note"}],"quiz":[{"question":"Question text?","options":["A. Option 1","B. Option 2","C. Option 3","D. Option 4"],"answer":"B","explanation":"Why B is correct"}],"flashcards":[{"front":"What is X?","back":"X is..."}]}`

const (
	onlyJSON    = "Return ONLY valid JSON. No markdown fences, no extra text."
	closingLine = "Return ONLY the JSON object starting with { and ending with }."
)

// requirements lists the per-field instructions of one content mode.
type requirements struct {
	title        string
	summary      string
	keyTakeaways string
	notes        string
	quiz         string
	flashcards   string
}

func (r requirements) String() string {
	return strings.Join([]string{
		"Requirements:",
		"- title: " + r.title,
		"- summary: " + r.summary,
		"- keyTakeaways: " + r.keyTakeaways,
		"- notes: " + r.notes,
		"- quiz: " + r.quiz,
		"- flashcards: " + r.flashcards,
	}, "\n")
}

const (
	summaryRange    = "5-8 comprehensive sentences covering main ideas"
	takeawaysRange  = "5-10 key learning points as strings"
	quizRange       = `8-12 MCQ questions, options as "A. text", "B. text" etc., answer as single letter "A"/"B"/"C"/"D"`
	flashcardsRange = "8-15 Q&A cards for key concepts"
)

// Transcript builds the prompt for transcript mode. The transcript is cut to
// MaxTranscriptChars characters and embedded in a """ delimited block.
func Transcript(transcript, videoURL string) string {
	req := requirements{
		title:        "descriptive title based on the transcript content",
		summary:      summaryRange,
		keyTakeaways: takeawaysRange,
		notes:        "10-20 timestamped notes (use realistic time estimates based on transcript position)",
		quiz:         quizRange,
		flashcards:   flashcardsRange,
	}

	var b strings.Builder
	b.WriteString("You are an expert educational content analyzer. Below is the full transcript of a YouTube video.\n\n")
	fmt.Fprintf(&b, "Video URL: %s\n\n", videoURL)
	fmt.Fprintf(&b, "Transcript:\n\"\"\"\n%s\n\"\"\"\n\n", Truncate(transcript, MaxTranscriptChars))
	b.WriteString("Generate structured study materials from this transcript. " + onlyJSON + "\n\n")
	writeTail(&b, req, "JSON structure to follow:")
	return b.String()
}

// Video builds the prompt for video-URL mode: no transcript is available and
// the model is expected to reason about the video from the URL alone.
func Video(videoURL string) string {
	req := requirements{
		title:        "exact or descriptive title of the video",
		summary:      summaryRange,
		keyTakeaways: takeawaysRange,
		notes:        "10-20 timestamped notes",
		quiz:         quizRange,
		flashcards:   flashcardsRange,
	}

	var b strings.Builder
	b.WriteString("You are an expert educational content analyzer. Carefully analyze this YouTube video.\n\n")
	fmt.Fprintf(&b, "Video URL: %s\n\n", videoURL)
	b.WriteString("Generate structured study materials. " + onlyJSON + "\n\n")
	writeTail(&b, req, "JSON structure:")
	return b.String()
}

// Metadata builds the prompt for metadata mode: neither a transcript nor
// direct video access is available, so the model works from the title and
// channel name and its own knowledge of the topic.
func Metadata(title, author, videoURL string) string {
	req := requirements{
		title:        "use the exact video title provided above",
		summary:      "5-8 sentences explaining what this topic covers and why it matters",
		keyTakeaways: "5-10 key learning points someone would gain from studying this topic",
		notes:        "10-20 topic notes with estimated timestamps (start at 00:00)",
		quiz:         `8-12 MCQ questions testing knowledge of this topic, options as "A. text", "B. text" etc., answer as single letter`,
		flashcards:   "8-15 Q&A cards for key concepts of this topic",
	}
	if author == "" {
		author = "Unknown"
	}

	var b strings.Builder
	b.WriteString("You are an expert educational content creator. Generate comprehensive study materials for the following YouTube video.\n\n")
	fmt.Fprintf(&b, "Video Title: \"%s\"\n", title)
	fmt.Fprintf(&b, "Channel: %s\n", author)
	fmt.Fprintf(&b, "Video URL: %s\n\n", videoURL)
	b.WriteString("Based on the video title and topic, generate detailed study materials covering the key concepts that would be taught in this video. " + onlyJSON + "\n\n")
	writeTail(&b, req, "JSON structure:")
	return b.String()
}

// writeTail appends the requirement list, the JSON shape and the closing line.
func writeTail(b *strings.Builder, req requirements, shapeHeading string) {
	b.WriteString(req.String())
	b.WriteString("\n\n")
	b.WriteString(shapeHeading)
	b.WriteString("\n")
	b.WriteString(jsonShape)
	b.WriteString("\n\n")
	b.WriteString(closingLine)
}

// Truncate returns the first max characters (runes) of s.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}
