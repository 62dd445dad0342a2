package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// MinTranscriptChars is the shortest joined transcript worth analyzing.
const MinTranscriptChars = 30

// captionsMarker precedes the caption track list in the watch page.
const captionsMarker = `"captions":`

// captionTrack is one entry of playerCaptionsTracklistRenderer.captionTracks.
type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

// timedText is the classic caption document (<transcript><text ...>).
type timedText struct {
	XMLName xml.Name `xml:"transcript"`
	Texts   []struct {
		Start float64 `xml:"start,attr"`
		Dur   float64 `xml:"dur,attr"`
		Text  string  `xml:",chardata"`
	} `xml:"text"`
}

// FetchTranscript returns the captions of a video as one whitespace-collapsed
// string. Language variants are tried in order (preferred language if set,
// then the default track, "en" and "en-US"); the first joined text of at
// least MinTranscriptChars characters wins.
//
// A video without usable captions is not an error: it returns "" and nil.
// Only context cancellation is reported.
func (c *Client) FetchTranscript(ctx context.Context, videoID string) (string, error) {
	log := c.logger.With(zap.String("video_id", videoID))

	tracks, err := c.listTracks(ctx, videoID)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		log.Warn("caption tracks unavailable", zap.Error(err))
		return "", nil
	}

	for _, lang := range languageVariants(c.language) {
		track, ok := selectTrack(tracks, lang)
		if !ok {
			log.Debug("no caption track for language", zap.String("lang", lang))
			continue
		}

		text, err := c.fetchTrack(ctx, track)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", ctxErr
			}
			log.Warn("caption attempt failed", zap.String("lang", lang), zap.Error(err))
			continue
		}
		if n := utf8.RuneCountInString(text); n < MinTranscriptChars {
			log.Debug("caption text too short", zap.String("lang", lang), zap.Int("chars", n))
			continue
		}

		log.Info("transcript fetched", zap.String("lang", track.LanguageCode),
			zap.Int("chars", utf8.RuneCountInString(text)))
		return text, nil
	}

	log.Warn("no usable captions")
	return "", nil
}

// listTracks reads the caption track list embedded in the watch page.
func (c *Client) listTracks(ctx context.Context, videoID string) ([]captionTrack, error) {
	page, err := c.get(ctx, c.baseURL+"/watch?v="+videoID)
	if err != nil {
		return nil, fmt.Errorf("fetch watch page: %w", err)
	}
	return parseCaptionTracks(page)
}

// parseCaptionTracks decodes the JSON value that follows the captions marker.
func parseCaptionTracks(page []byte) ([]captionTrack, error) {
	idx := bytes.Index(page, []byte(captionsMarker))
	if idx == -1 {
		return nil, ErrNoCaptions
	}

	var captions struct {
		Renderer struct {
			Tracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	}
	// Decode reads exactly one value and ignores the rest of the page.
	dec := json.NewDecoder(bytes.NewReader(page[idx+len(captionsMarker):]))
	if err := dec.Decode(&captions); err != nil {
		return nil, fmt.Errorf("decode caption tracks: %w", err)
	}

	tracks := make([]captionTrack, 0, len(captions.Renderer.Tracks))
	for _, t := range captions.Renderer.Tracks {
		if t.BaseURL != "" {
			tracks = append(tracks, t)
		}
	}
	if len(tracks) == 0 {
		return nil, ErrNoCaptions
	}
	return tracks, nil
}

// selectTrack picks the track for a language variant. The empty variant
// picks the first listed track; others need an exact (case-insensitive) code.
func selectTrack(tracks []captionTrack, lang string) (captionTrack, bool) {
	if len(tracks) == 0 {
		return captionTrack{}, false
	}
	if lang == "" {
		return tracks[0], true
	}
	for _, t := range tracks {
		if strings.EqualFold(t.LanguageCode, lang) {
			return t, true
		}
	}
	return captionTrack{}, false
}

// fetchTrack downloads one caption document and joins its segments.
func (c *Client) fetchTrack(ctx context.Context, track captionTrack) (string, error) {
	body, err := c.get(ctx, track.BaseURL)
	if err != nil {
		return "", fmt.Errorf("fetch captions: %w", err)
	}

	var doc timedText
	if err := xml.Unmarshal(body, &doc); err != nil {
		return "", fmt.Errorf("decode captions: %w", err)
	}

	segments := make([]string, 0, len(doc.Texts))
	for _, t := range doc.Texts {
		segments = append(segments, html.UnescapeString(t.Text))
	}
	return joinSegments(segments), nil
}

// joinSegments joins caption segments with single spaces, collapsing every
// whitespace run (including line breaks inside a segment).
func joinSegments(segments []string) string {
	return strings.Join(strings.Fields(strings.Join(segments, " ")), " ")
}
