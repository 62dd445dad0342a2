package youtube

// Exports for testing.
var (
	LanguageVariants   = languageVariants
	JoinSegments       = joinSegments
	ParseCaptionTracks = parseCaptionTracks
)
