// Package testutils provides deterministic generators, fixtures and fakes for
// RoutineShell tests.
package testutils

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator returns a fresh identifier on every call.
type IDGenerator func() string

// RandomIDs is the production generator.
func RandomIDs() IDGenerator {
	return uuid.NewString
}

// DeterministicIDs returns a generator producing UUID-shaped ids in sequence:
// 00000001-0000-4000-8000-000000000001, 00000002-0000-4000-8000-000000000002, ...
// Each generator has its own counter and is safe for concurrent use.
func DeterministicIDs() IDGenerator {
	var (
		mu      sync.Mutex
		counter uint64
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()

		counter++
		// Format: xxxxxxxx-xxxx-4xxx-yxxx-xxxxxxxxxxxx
		return fmt.Sprintf("%08x-0000-4000-8000-%012x", counter, counter)
	}
}

// DeterministicID returns the n-th id DeterministicIDs produces (1-based).
func DeterministicID(n uint64) string {
	return fmt.Sprintf("%08x-0000-4000-8000-%012x", n, n)
}
