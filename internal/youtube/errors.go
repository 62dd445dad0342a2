package youtube

import "errors"

var (
	// ErrInvalidURL indicates the input is not a usable YouTube video link.
	ErrInvalidURL = errors.New("invalid YouTube URL")

	// ErrNoCaptions indicates the watch page lists no caption track.
	ErrNoCaptions = errors.New("no captions available")

	// ErrInvalidLanguage indicates a caption language code was not recognized.
	ErrInvalidLanguage = errors.New("invalid language code")
)
