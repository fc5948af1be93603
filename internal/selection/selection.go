// Package selection owns the set of selected product identifiers and keeps it
// mirrored to a durable storage slot.
package selection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"routineshell/internal/logger"
	"routineshell/internal/metrics"
	"routineshell/internal/storage"
	"routineshell/pkg/routinetypes"
)

// DefaultKey is the storage slot used when none is configured.
const DefaultKey = "selectedProducts"

// Catalog is the lookup Resolve needs.
type Catalog interface {
	FindByID(id any) (routinetypes.ProductRecord, bool)
}

// Store is an insertion-ordered, deduplicated set of product ids.
// A Store is not safe for concurrent use; each controller owns one.
type Store struct {
	ids     []routinetypes.ProductID
	members map[routinetypes.ProductID]struct{}

	slot    storage.Slot
	key     string
	metrics *metrics.Metrics
	log     *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the storage slot key.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithMetrics records persistence outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// New creates an empty Store persisting to slot. A nil slot keeps the set in
// memory only.
func New(slot storage.Slot, opts ...Option) *Store {
	s := &Store{
		members: make(map[routinetypes.ProductID]struct{}),
		slot:    slot,
		key:     DefaultKey,
		log:     logger.NewStyledLogger("Storage"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Toggle flips membership of id and returns the resulting membership.
func (s *Store) Toggle(id any) bool {
	pid := routinetypes.NormalizeID(id)
	if pid == "" {
		return false
	}
	if s.Contains(pid) {
		s.remove(pid)
		return false
	}
	s.add(pid)
	return true
}

// Remove drops id from the set. It is a no-op when id is absent.
func (s *Store) Remove(id any) {
	s.remove(routinetypes.NormalizeID(id))
}

// Clear empties the set.
func (s *Store) Clear() {
	s.ids = nil
	s.members = make(map[routinetypes.ProductID]struct{})
}

// Contains reports whether id is selected.
func (s *Store) Contains(id any) bool {
	_, ok := s.members[routinetypes.NormalizeID(id)]
	return ok
}

// IDs returns the selected ids in insertion order.
func (s *Store) IDs() []routinetypes.ProductID {
	out := make([]routinetypes.ProductID, len(s.ids))
	copy(out, s.ids)
	return out
}

// Len returns the number of selected ids.
func (s *Store) Len() int {
	return len(s.ids)
}

// Key returns the storage slot key.
func (s *Store) Key() string {
	return s.key
}

// LoadFromStorage merges the persisted ids into the set. A missing slot is a
// no-op. A slot that is not a JSON array of strings is discarded: the
// returned error is a *routinetypes.StorageCorruptError and the set is
// unchanged. Any other read failure is returned as is.
func (s *Store) LoadFromStorage(ctx context.Context) error {
	if s.slot == nil {
		return nil
	}

	raw, err := s.slot.Get(ctx, s.key)
	if errors.Is(err, routinetypes.ErrSlotNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read selection: %w", err)
	}

	var stored []string
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		s.metrics.ObserveStorageCorrupt()
		corrupt := &routinetypes.StorageCorruptError{Key: s.key, Raw: raw, Err: err}
		s.log.Debug("Discarding stored selection", "key", s.key, "error", corrupt)
		return corrupt
	}

	for _, id := range stored {
		pid := routinetypes.NormalizeID(id)
		if pid == "" || s.Contains(pid) {
			continue
		}
		s.add(pid)
	}
	s.log.Debug("Selection loaded", "key", s.key, "count", s.Len())
	return nil
}

// SaveToStorage writes the ordered id list as a JSON array to the slot.
func (s *Store) SaveToStorage(ctx context.Context) error {
	if s.slot == nil {
		return nil
	}

	ids := make([]string, len(s.ids))
	for i, id := range s.ids {
		ids[i] = id.String()
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to encode selection: %w", err)
	}

	err = s.slot.Set(ctx, s.key, string(data))
	s.metrics.ObserveStorageWrite(err)
	if err != nil {
		return fmt.Errorf("failed to write selection: %w", err)
	}
	return nil
}

// Resolve returns the selected products found in catalog, in selection
// order. Ids missing from the catalog are skipped.
func (s *Store) Resolve(catalog Catalog) []routinetypes.ResolvedProduct {
	out := make([]routinetypes.ResolvedProduct, 0, len(s.ids))
	for _, id := range s.ids {
		p, ok := catalog.FindByID(id)
		if !ok {
			s.log.Debug("Skipping unresolved selection", "error", &routinetypes.UnresolvedSelectionReference{ID: id})
			continue
		}
		out = append(out, p.Resolve())
	}
	return out
}

func (s *Store) add(id routinetypes.ProductID) {
	s.members[id] = struct{}{}
	s.ids = append(s.ids, id)
}

func (s *Store) remove(id routinetypes.ProductID) {
	if _, ok := s.members[id]; !ok {
		return
	}
	delete(s.members, id)
	for i, existing := range s.ids {
		if existing == id {
			s.ids = append(s.ids[:i:i], s.ids[i+1:]...)
			break
		}
	}
}
