package repository

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned when the active backend does not provide a
// capability (enumeration, relational joins, guild scans). It wraps
// errors.ErrUnsupported so either sentinel matches with errors.Is.
var ErrUnsupported = fmt.Errorf("raritycache: operation not supported by backend: %w", errors.ErrUnsupported)

// UnsupportedError names the backend and the operation that was refused
type UnsupportedError struct {
	Backend   string
	Operation string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("raritycache: %s backend does not support %s", e.Backend, e.Operation)
}

func (e *UnsupportedError) Unwrap() error {
	return ErrUnsupported
}

// Unsupported builds an UnsupportedError
func Unsupported(backend, operation string) error {
	return &UnsupportedError{Backend: backend, Operation: operation}
}

// IsUnsupported checks if an error reports a missing backend capability
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupported)
}
