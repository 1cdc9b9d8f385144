package contract

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/etnz/contract/store"
)

// newTestStore opens a fresh SQLite store in a temporary directory. Its
// clock advances by one second on every reading.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	now := time.Date(2025, time.January, 10, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		now = now.Add(time.Second)
		return now
	}
	s, err := store.Open(context.Background(), store.DriverSQLite, filepath.Join(t.TempDir(), "contract.db"), store.WithClock(clock))
	if err != nil {
		t.Fatalf("cannot open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// mustOpen returns the contract of owner or fails the test.
func mustOpen(t *testing.T, s *store.Store, owner string) *Contract {
	t.Helper()
	c, err := Open(context.Background(), s, owner)
	if err != nil {
		t.Fatalf("Open(%q) failed: %v", owner, err)
	}
	return c
}
