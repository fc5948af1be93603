package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"

	"routineshell/internal/logger"
	"routineshell/pkg/routinetypes"
)

// errCorruptFile marks a storage file that is not a JSON object of strings.
var errCorruptFile = errors.New("storage file is not a JSON object of strings")

// FileSlot stores every key in one JSON object on disk. Writes go to a
// temporary file that is renamed over the original. A corrupt file reads as
// empty and is replaced by the next Set.
type FileSlot struct {
	mu   sync.Mutex
	path string
	log  *log.Logger
}

// NewFileSlot creates a FileSlot at path. The file is created on first Set.
func NewFileSlot(path string) *FileSlot {
	return &FileSlot{path: path, log: logger.NewStyledLogger("Storage")}
}

// Get implements Slot.
func (s *FileSlot) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if errors.Is(err, errCorruptFile) {
		s.log.Warn("Ignoring corrupt storage file", "path", s.path, "error", err)
		return "", routinetypes.ErrSlotNotFound
	}
	if err != nil {
		return "", err
	}
	v, ok := values[key]
	if !ok {
		return "", routinetypes.ErrSlotNotFound
	}
	return v, nil
}

// Set implements Slot.
func (s *FileSlot) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if errors.Is(err, errCorruptFile) {
		s.log.Warn("Replacing corrupt storage file", "path", s.path, "error", err)
		values, err = make(map[string]string), nil
	}
	if err != nil {
		return err
	}
	values[key] = value

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode storage file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".slot-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write storage file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write storage file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace storage file: %w", err)
	}
	return nil
}

// Close implements Slot.
func (s *FileSlot) Close() error {
	return nil
}

// read loads the key map. A missing file is an empty map; a file that is not
// a JSON object of strings yields errCorruptFile.
func (s *FileSlot) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read storage file: %w", err)
	}

	values := make(map[string]string)
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errCorruptFile, s.path, err)
	}
	return values, nil
}
