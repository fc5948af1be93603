package routinetypes

import (
	"errors"
	"fmt"
)

var (
	// ErrCatalogMalformed is wrapped by CatalogLoadError when the document
	// parses but lacks the top-level products collection.
	ErrCatalogMalformed = errors.New("catalog document has no products collection")

	// ErrSlotNotFound is returned by storage slots for a key that was never written.
	ErrSlotNotFound = errors.New("storage slot not found")
)

// CatalogLoadError reports that the product source could not be fetched or parsed.
type CatalogLoadError struct {
	Source string
	Err    error
}

func (e *CatalogLoadError) Error() string {
	return fmt.Sprintf("load catalog from %s: %v", e.Source, e.Err)
}

func (e *CatalogLoadError) Unwrap() error { return e.Err }

// StorageCorruptError reports a persisted selection that could not be parsed.
type StorageCorruptError struct {
	Key string
	Raw string
	Err error
}

func (e *StorageCorruptError) Error() string {
	return fmt.Sprintf("storage slot %q is corrupt: %v", e.Key, e.Err)
}

func (e *StorageCorruptError) Unwrap() error { return e.Err }

// RemoteServiceError reports a failed exchange with the remote assistant.
// StatusCode is zero when the request never produced a response.
type RemoteServiceError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *RemoteServiceError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("remote service returned %d: %s", e.StatusCode, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("remote service unreachable: %v", e.Err)
	default:
		return "remote service error"
	}
}

func (e *RemoteServiceError) Unwrap() error { return e.Err }

// UnresolvedSelectionReference reports a selected id missing from the catalog.
// It is never surfaced to the user.
type UnresolvedSelectionReference struct {
	ID ProductID
}

func (e *UnresolvedSelectionReference) Error() string {
	return fmt.Sprintf("selected product %q is not in the catalog", string(e.ID))
}
