package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("store: not found")

// Error is a failure of the underlying storage: I/O, constraint or
// transaction failure. Op names the primitive that failed.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsStoreError reports whether err carries a *Error.
func IsStoreError(err error) bool {
	var se *Error
	return errors.As(err, &se)
}
