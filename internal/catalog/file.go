package catalog

import (
	"context"
	"fmt"
	"os"

	"routineshell/internal/data/embedded"
)

// FileSource reads the catalog from the local filesystem.
type FileSource struct {
	path string
}

// NewFileSource creates a FileSource for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Name returns the file path.
func (s *FileSource) Name() string {
	return s.path
}

// Format is chosen from the file extension.
func (s *FileSource) Format() Format {
	return FormatForPath(s.path)
}

// Fetch reads the file.
func (s *FileSource) Fetch(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return data, nil
}

// EmbeddedSource serves the sample catalog compiled into the binary.
type EmbeddedSource struct{}

// NewEmbeddedSource creates an EmbeddedSource.
func NewEmbeddedSource() *EmbeddedSource {
	return &EmbeddedSource{}
}

// Name returns "embedded:".
func (s *EmbeddedSource) Name() string {
	return "embedded:"
}

// Format is always JSON.
func (s *EmbeddedSource) Format() Format {
	return FormatJSON
}

// Fetch returns the embedded document.
func (s *EmbeddedSource) Fetch(_ context.Context) ([]byte, error) {
	return embedded.SampleCatalogData, nil
}
