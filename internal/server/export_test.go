package server

// Export internal functions for testing.

// WithNow exports withNow for testing.
var WithNow = withNow

// Classify exports classify for testing.
var Classify = classify
