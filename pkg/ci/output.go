package ci

import (
	"fmt"
	"os"
	"strings"
)

// NoopOutputWriter is an OutputWriter that does nothing. Used when not
// running in CI or when the output file is not exposed.
type NoopOutputWriter struct{}

// WriteOutput implements OutputWriter.
func (w *NoopOutputWriter) WriteOutput(_, _ string) error {
	return nil
}

// FileOutputWriter writes outputs to a file (like $GITHUB_OUTPUT).
type FileOutputWriter struct {
	outputPath string
}

// NewFileOutputWriter creates a new FileOutputWriter.
func NewFileOutputWriter(outputPath string) *FileOutputWriter {
	return &FileOutputWriter{outputPath: outputPath}
}

// WriteOutput writes a key-value pair to the output file.
// Format: key=value (single line) or key<<EOF\nvalue\nEOF (multiline).
func (w *FileOutputWriter) WriteOutput(key, value string) error {
	if w.outputPath == "" {
		return nil
	}

	f, err := os.OpenFile(w.outputPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	defer f.Close()

	// Use heredoc format for multiline values.
	if strings.Contains(value, "\n") {
		delimiter := "EOF"
		// Ensure delimiter doesn't appear in value.
		for strings.Contains(value, delimiter) {
			delimiter += "_"
		}
		_, err = fmt.Fprintf(f, "%s<<%s\n%s\n%s\n", key, delimiter, value, delimiter)
	} else {
		_, err = fmt.Fprintf(f, "%s=%s\n", key, value)
	}

	return err
}
