package migration

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownMigration is returned when no migration is registered under a name.
	ErrUnknownMigration = errors.New("migration: unknown migration")
	// ErrAlreadyApplied is returned when a migration has already been committed.
	ErrAlreadyApplied = errors.New("migration: already applied")
	// ErrDuplicate is returned when two migrations share a name.
	ErrDuplicate = errors.New("migration: duplicate name")
)

// FailedError reports a transformation that failed. Nothing of it was
// committed.
type FailedError struct {
	Name string
	Err  error
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("migration %s failed: %v", e.Name, e.Err)
}

func (e *FailedError) Unwrap() error { return e.Err }
