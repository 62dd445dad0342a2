package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-studyguide/internal/material"
)

// stdoutPath is the -o value that prints instead of writing a file.
const stdoutPath = "-"

// warnExtensionMismatch writes a warning to w if path has an extension that
// does not match the chosen format. The content is written in the chosen
// format regardless.
func warnExtensionMismatch(w io.Writer, path string, f Format) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != "" && ext != f.Extension() {
		_, _ = fmt.Fprintf(w, "Warning: output is %s regardless of %s extension\n", f, ext)
	}
}

// render serializes m in format f. JSON output is indented and ends with a
// newline.
func render(m material.StudyMaterial, f Format) (string, error) {
	if !f.IsJSON() {
		return material.Markdown(m), nil
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode json: %w", err)
	}
	return string(data) + "\n", nil
}

// writeFileAtomic writes content to path atomically.
// It fails if the file already exists (O_EXCL), preventing accidental overwrites.
// On write failure, the partial file is removed.
func writeFileAtomic(path, content string) error {
	// #nosec G302 G304 -- user-specified output file with standard permissions
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("output file already exists: %s: %w", path, ErrOutputExists)
		}
		return fmt.Errorf("cannot create output file: %w", err)
	}

	writeErr := func() error {
		defer func() { _ = f.Close() }()
		if _, err := f.WriteString(content); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}()

	if writeErr != nil {
		_ = os.Remove(path)
		return writeErr
	}

	return nil
}

// fileExists reports whether path names an existing file or directory.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
