// Package store is the persistent store accessor of the contract ledger.
//
// It owns the database handle, creates the schema on first use and provides
// all-or-nothing execution of a function through InTx. The row primitives
// accept a sqlx.ExtContext so they run the same way against the handle or
// against an open transaction.
//
// Two drivers are supported: "sqlite" (modernc.org/sqlite, the default) and
// "postgres" (github.com/lib/pq). Queries are written with '?' placeholders
// and rebound for the active driver.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

func init() {
	// sqlx does not know modernc's driver name.
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

const schema = `
CREATE TABLE IF NOT EXISTS contracts (
	id         TEXT PRIMARY KEY,
	owner      TEXT NOT NULL,
	balance    BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
	contract_id TEXT NOT NULL REFERENCES contracts (id),
	seq         BIGINT NOT NULL,
	id          TEXT NOT NULL UNIQUE,
	kind        TEXT NOT NULL CHECK (kind IN ('deposit', 'withdraw')),
	amount      BIGINT NOT NULL CHECK (amount > 0),
	created_at  TEXT NOT NULL,
	PRIMARY KEY (contract_id, seq)
);

CREATE TABLE IF NOT EXISTS applied_migrations (
	name       TEXT PRIMARY KEY,
	applied_at TEXT NOT NULL
);
`

// Store holds the open database handle.
//
// A Store is owned by a single invocation. It is safe to pass around but
// callers must not share one InTx function body across goroutines.
type Store struct {
	db    *sqlx.DB
	log   *slog.Logger
	clock func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for statement tracing.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithClock overrides the clock used for created_at and applied_at values.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// New wraps an already opened database. The schema is not created.
func New(db *sqlx.DB, opts ...Option) *Store {
	s := &Store{
		db:    db,
		log:   slog.Default(),
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open opens the database identified by driver and dsn and creates the
// schema if it does not exist yet.
func Open(ctx context.Context, driver, dsn string, opts ...Option) (*Store, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, &Error{Op: "open", Err: fmt.Errorf("unsupported driver %q", driver)}
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, &Error{Op: "open", Err: err}
	}
	if driver == DriverSQLite {
		// A single connection serializes writers and keeps one view of the file.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, &Error{Op: "open", Err: err}
	}

	s := New(db, opts...)
	if err := s.Init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	s.log.Debug("store opened", "driver", driver)
	return s, nil
}

// Init creates the contracts, transactions and applied_migrations tables.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return &Error{Op: "init schema", Err: err}
	}
	return nil
}

// DB returns the underlying handle.
func (s *Store) DB() *sqlx.DB { return s.db }

// DriverName returns the name of the driver in use.
func (s *Store) DriverName() string { return s.db.DriverName() }

// Logger returns the logger of the store.
func (s *Store) Logger() *slog.Logger { return s.log }

// Now returns the current time of the store clock, in UTC.
func (s *Store) Now() time.Time { return s.clock().UTC() }

// Close closes the database handle.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return &Error{Op: "close", Err: err}
	}
	return nil
}

// InTx runs fn inside a single transaction. The transaction is committed
// only if fn returns nil, otherwise it is rolled back and fn's error is
// returned unchanged. Begin and commit failures are returned as *Error.
func (s *Store) InTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return &Error{Op: "begin", Err: err}
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.log.Warn("rollback failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return &Error{Op: "commit", Err: err}
	}
	return nil
}
