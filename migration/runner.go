package migration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/etnz/contract/store"
)

// Runner applies migrations of a registry to a store.
type Runner struct {
	store    *store.Store
	registry *Registry
	log      *slog.Logger
}

// NewRunner returns a runner of registry over s.
func NewRunner(s *store.Store, registry *Registry) *Runner {
	return &Runner{store: s, registry: registry, log: s.Logger()}
}

// Run applies the migration named after filename.
//
// It fails with ErrUnknownMigration if the name is not registered, with
// ErrAlreadyApplied if its marker exists, and with a *FailedError for any
// other failure, storage ones included. In every failure case the store is
// left unchanged.
func (r *Runner) Run(ctx context.Context, filename string) error {
	name := Resolve(filename)
	m, err := r.registry.Lookup(name)
	if err != nil {
		return err
	}

	err = r.store.InTx(ctx, func(tx *sqlx.Tx) error {
		applied, err := store.IsApplied(ctx, tx, name)
		if err != nil {
			return err
		}
		if applied {
			return fmt.Errorf("%w: %s", ErrAlreadyApplied, name)
		}
		r.log.Debug("running migration", "name", name)
		if err := m.Up(ctx, tx); err != nil {
			return &FailedError{Name: name, Err: err}
		}
		return store.MarkApplied(ctx, tx, name, r.store.Now())
	})
	var failed *FailedError
	switch {
	case err == nil:
	case errors.Is(err, ErrAlreadyApplied), errors.As(err, &failed):
		return err
	default:
		return &FailedError{Name: name, Err: err}
	}
	r.log.Info("migration applied", "name", name)
	return nil
}

// State describes one registered migration.
type State struct {
	Name        string
	Description string
	Applied     bool
	AppliedAt   time.Time
}

// Status returns the state of every registered migration, ordered by name.
func (r *Runner) Status(ctx context.Context) ([]State, error) {
	markers, err := store.AppliedMigrations(ctx, r.store.DB())
	if err != nil {
		return nil, err
	}
	at := make(map[string]time.Time, len(markers))
	for _, mk := range markers {
		t, err := mk.Time()
		if err != nil {
			return nil, fmt.Errorf("migration %s: invalid time %q: %w", mk.Name, mk.AppliedAt, err)
		}
		at[mk.Name] = t
	}

	states := make([]State, 0, len(r.registry.names))
	for _, name := range r.registry.Names() {
		m := r.registry.byName[name]
		t, ok := at[name]
		states = append(states, State{Name: name, Description: m.Description, Applied: ok, AppliedAt: t})
	}
	return states, nil
}
