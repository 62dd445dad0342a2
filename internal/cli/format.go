package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format represents a validated output format for study material.
// Zero value means "not chosen" and resolves through OrDefault or FromPath.
// Use ParseFormat to create from user input, or the pre-parsed constants.
type Format struct {
	name string
}

// Compile-time interface compliance check.
var _ fmt.Stringer = Format{}

// ErrInvalidFormat indicates an invalid output format was specified.
var ErrInvalidFormat = errors.New("invalid format")

// Format names accepted by --format.
const (
	FormatNameMarkdown = "md"
	FormatNameJSON     = "json"
)

// Pre-parsed format constants for use in code.
var (
	MarkdownFormat = Format{name: FormatNameMarkdown}
	JSONFormat     = Format{name: FormatNameJSON}
)

// formatAliases maps accepted spellings to canonical names.
var formatAliases = map[string]string{
	"md":       FormatNameMarkdown,
	"markdown": FormatNameMarkdown,
	"json":     FormatNameJSON,
}

// ParseFormat validates and parses a format name. Empty string returns the
// zero value (resolved later from the output path).
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return Format{}, nil
	}
	name, ok := formatAliases[strings.ToLower(s)]
	if !ok {
		return Format{}, fmt.Errorf("unknown format %q (use 'md' or 'json'): %w", s, ErrInvalidFormat)
	}
	return Format{name: name}, nil
}

// String returns the format name. Returns empty string for zero value.
func (f Format) String() string {
	return f.name
}

// IsZero returns true if no format was chosen.
func (f Format) IsZero() bool {
	return f.name == ""
}

// IsJSON returns true if this format is JSON.
func (f Format) IsJSON() bool {
	return f.name == FormatNameJSON
}

// Extension returns the file extension including the dot.
func (f Format) Extension() string {
	if f.IsJSON() {
		return ".json"
	}
	return ".md"
}

// OrDefault returns the format, or MarkdownFormat if zero.
func (f Format) OrDefault() Format {
	if f.IsZero() {
		return MarkdownFormat
	}
	return f
}

// ResolveFor returns the format, or the one implied by the output path's
// extension when zero. Unknown extensions fall back to Markdown.
func (f Format) ResolveFor(path string) Format {
	if !f.IsZero() {
		return f
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return JSONFormat
	}
	return MarkdownFormat
}
