package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"go.uber.org/zap"
)

// Metadata is the public title and channel name of a video.
type Metadata struct {
	Title  string
	Author string
}

// oembedResponse is the subset of the oEmbed answer that is used.
type oembedResponse struct {
	Title      string `json:"title"`
	AuthorName string `json:"author_name"`
}

// FetchMetadata looks up a video's title and channel through oEmbed.
// No credential is required. On any failure it returns nil and the error;
// callers treat metadata as optional.
func (c *Client) FetchMetadata(ctx context.Context, videoID string) (*Metadata, error) {
	q := url.Values{}
	q.Set("url", CanonicalURL(videoID))
	q.Set("format", "json")

	body, err := c.get(ctx, c.baseURL+"/oembed?"+q.Encode())
	if err != nil {
		c.logger.Warn("oembed request failed", zap.String("video_id", videoID), zap.Error(err))
		return nil, fmt.Errorf("fetch metadata: %w", err)
	}

	var resp oembedResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Warn("oembed response unreadable", zap.String("video_id", videoID), zap.Error(err))
		return nil, fmt.Errorf("decode metadata: %w", err)
	}

	c.logger.Info("metadata fetched", zap.String("video_id", videoID),
		zap.String("title", resp.Title), zap.String("author", resp.AuthorName))
	return &Metadata{Title: resp.Title, Author: resp.AuthorName}, nil
}
