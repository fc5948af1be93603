package storage

import "errors"

// Common errors for slot construction.
var (
	ErrInvalidConfig = errors.New("invalid storage configuration")
	ErrInvalidDriver = errors.New("invalid storage driver")
)
