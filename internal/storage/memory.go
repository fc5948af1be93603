package storage

import (
	"context"
	"sync"

	"routineshell/pkg/routinetypes"
)

// MemorySlot keeps values for the lifetime of the process.
type MemorySlot struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemorySlot creates an empty MemorySlot.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{values: make(map[string]string)}
}

// Get implements Slot.
func (s *MemorySlot) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return "", routinetypes.ErrSlotNotFound
	}
	return v, nil
}

// Set implements Slot.
func (s *MemorySlot) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}

// Close implements Slot.
func (s *MemorySlot) Close() error {
	return nil
}
