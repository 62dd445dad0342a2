package generate

// Exports for testing. These allow black-box tests to inject dependencies
// without modifying the public API.

// Option exports for dependency injection in tests.
var (
	WithGroqChatCompleter      = withGroqChatCompleter
	WithGeminiContentGenerator = withGeminiContentGenerator
)

// Function exports for unit testing internal logic.
var (
	CheckCandidate      = checkCandidate
	ClassifyGroqError   = classifyGroqError
	ClassifyGeminiError = classifyGeminiError
)
