package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// AppliedMigration is the marker written once a migration committed.
type AppliedMigration struct {
	Name      string `db:"name"`
	AppliedAt string `db:"applied_at"`
}

// Time returns the parsed application time.
func (m AppliedMigration) Time() (time.Time, error) { return ParseTime(m.AppliedAt) }

// IsApplied reports whether a marker exists for name.
func IsApplied(ctx context.Context, q sqlx.ExtContext, name string) (bool, error) {
	var n int
	query := q.Rebind(`SELECT COUNT(*) FROM applied_migrations WHERE name = ?`)
	if err := sqlx.GetContext(ctx, q, &n, query, name); err != nil {
		return false, &Error{Op: "check migration", Err: err}
	}
	return n > 0, nil
}

// MarkApplied writes the marker for name. The primary key on name rejects a
// second marker.
func MarkApplied(ctx context.Context, q sqlx.ExtContext, name string, at time.Time) error {
	query := q.Rebind(`INSERT INTO applied_migrations (name, applied_at) VALUES (?, ?)`)
	if _, err := q.ExecContext(ctx, query, name, formatTime(at)); err != nil {
		return &Error{Op: "mark migration", Err: err}
	}
	return nil
}

// AppliedMigrations lists every marker ordered by name.
func AppliedMigrations(ctx context.Context, q sqlx.ExtContext) ([]AppliedMigration, error) {
	var rows []AppliedMigration
	if err := sqlx.SelectContext(ctx, q, &rows, `SELECT name, applied_at FROM applied_migrations ORDER BY name`); err != nil {
		return nil, &Error{Op: "list migrations", Err: err}
	}
	return rows, nil
}
