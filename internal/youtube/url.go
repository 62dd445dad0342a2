// Package youtube talks to the public YouTube endpoints the analyzer needs:
// video-id parsing, caption transcripts and oEmbed metadata.
package youtube

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	// videoIDInPath matches the 11-character id of the path-based URL shapes.
	// Watch URLs carry it in the query instead (see watchVideoID).
	videoIDInPath = regexp.MustCompile(`(?:youtu\.be/|youtube\.com/embed/|youtube\.com/v/|youtube\.com/shorts/)([a-zA-Z0-9_-]{11})`)

	// bareVideoID matches an id given on its own.
	bareVideoID = regexp.MustCompile(`^([a-zA-Z0-9_-]{11})$`)

	validURL = regexp.MustCompile(`^https?://(www\.)?(youtube\.com|youtu\.be)`)
)

// ExtractVideoID returns the video id of a watch, short, embed, /v/ or
// shorts URL, or of a bare 11-character id. Returns "" when none is found.
func ExtractVideoID(s string) string {
	s = strings.TrimSpace(s)
	if id, ok := watchVideoID(s); ok {
		return id
	}
	for _, re := range []*regexp.Regexp{videoIDInPath, bareVideoID} {
		if m := re.FindStringSubmatch(s); m != nil {
			return m[1]
		}
	}
	return ""
}

// watchVideoID reads the v parameter of a youtube.com/watch URL, wherever it
// sits in the query. ok is false when s is not a watch URL.
func watchVideoID(s string) (id string, ok bool) {
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil || u.Path != "/watch" {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	if host != "youtube.com" && !strings.HasSuffix(host, ".youtube.com") {
		return "", false
	}
	v := u.Query().Get("v")
	if !bareVideoID.MatchString(v) {
		return "", true
	}
	return v, true
}

// IsValidURL reports whether s is an http(s) youtube.com or youtu.be link.
func IsValidURL(s string) bool {
	return validURL.MatchString(strings.TrimSpace(s))
}

// CanonicalURL returns the watch URL of a video id.
func CanonicalURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// ThumbnailURL returns the high-quality thumbnail URL of a video id.
func ThumbnailURL(videoID string) string {
	return fmt.Sprintf("https://img.youtube.com/vi/%s/hqdefault.jpg", videoID)
}

// ParseURL validates a user-supplied link and returns its video id.
// The error wraps ErrInvalidURL.
func ParseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("video URL is required: %w", ErrInvalidURL)
	}
	if !IsValidURL(raw) {
		return "", fmt.Errorf("please provide a valid youtube.com or youtu.be link: %w", ErrInvalidURL)
	}
	id := ExtractVideoID(raw)
	if id == "" {
		return "", fmt.Errorf("could not extract video ID from %q: %w", raw, ErrInvalidURL)
	}
	return id, nil
}
