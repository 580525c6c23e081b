package audit

import (
	"errors"
	"fmt"
)

// ErrClosed is returned when an operation is attempted on a closed store.
var ErrClosed = errors.New("audit store closed")

// StorageError represents an error from an audit storage backend.
type StorageError struct {
	Backend   string // "memory" or "sqlite"
	Operation string // "store", "query", "delete", etc.
	Cause     error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("audit storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{
		Backend:   backend,
		Operation: operation,
		Cause:     cause,
	}
}
