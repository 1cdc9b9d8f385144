// Package migration runs named, one-time transformations of the contract
// store.
//
// A Registry maps names to Migrations and is built once at startup. A Runner
// applies one migration at a time: the transformation and the marker that
// records it run in the same store transaction, so a migration is either
// fully applied and marked or not applied at all.
package migration

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Migration is a named transformation of the store.
type Migration struct {
	Name        string
	Description string
	// Up performs the transformation inside tx. It must not commit.
	Up func(ctx context.Context, tx *sqlx.Tx) error
}

// Registry is a fixed mapping from name to Migration.
type Registry struct {
	byName map[string]Migration
	names  []string
}

// NewRegistry returns a registry of migrations. Names must be unique and
// non-empty, and every migration needs an Up function.
func NewRegistry(migrations ...Migration) (*Registry, error) {
	r := &Registry{byName: make(map[string]Migration, len(migrations))}
	for _, m := range migrations {
		if m.Name == "" || m.Up == nil {
			return nil, fmt.Errorf("migration: %q needs a name and an Up function", m.Name)
		}
		if _, ok := r.byName[m.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicate, m.Name)
		}
		r.byName[m.Name] = m
		r.names = append(r.names, m.Name)
	}
	slices.Sort(r.names)
	return r, nil
}

// MustRegistry is like NewRegistry but panics on error.
func MustRegistry(migrations ...Migration) *Registry {
	r, err := NewRegistry(migrations...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the migration registered under name.
func (r *Registry) Lookup(name string) (Migration, error) {
	m, ok := r.byName[name]
	if !ok {
		return Migration{}, fmt.Errorf("%w: %q", ErrUnknownMigration, name)
	}
	return m, nil
}

// Names returns the registered names in lexical order.
func (r *Registry) Names() []string { return slices.Clone(r.names) }

// knownExtensions are stripped from a filename by Resolve.
var knownExtensions = []string{".rs", ".go", ".sql"}

// Resolve turns a migration filename into a registry name: the directory and
// a known extension are removed, so "migrations/m_001_x.rs" is "m_001_x".
func Resolve(filename string) string {
	name := filepath.Base(strings.TrimSpace(filename))
	ext := filepath.Ext(name)
	if slices.Contains(knownExtensions, ext) {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}
