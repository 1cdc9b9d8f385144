package contract

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/etnz/contract/store"
)

// newMockStore returns a store over sqlmock and a contract of alice holding
// balance, as if it had been loaded already.
func newMockStore(t *testing.T, balance int64) (*store.Store, sqlmock.Sqlmock, *Contract) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	c := &Contract{id: ID("alice"), owner: "alice", balance: balance}
	return store.New(sqlx.NewDb(db, "sqlmock")), mock, c
}

// expectApply expects the statements of a deposit up to the balance update.
func expectApply(mock sqlmock.Sqlmock, c *Contract) {
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, owner, balance, created_at FROM contracts")).
		WithArgs(c.id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner", "balance", "created_at"}).
			AddRow(c.id, c.owner, c.balance, "2025-01-10T09:00:00Z"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(seq), 0) FROM transactions")).
		WithArgs(c.id).
		WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(3))
}

func TestContract_StoreFailureKeepsState(t *testing.T) {
	tests := []struct {
		name   string
		expect func(mock sqlmock.Sqlmock, c *Contract)
		op     string
	}{
		{
			name: "append fails",
			expect: func(mock sqlmock.Sqlmock, c *Contract) {
				expectApply(mock, c)
				mock.ExpectExec("INSERT INTO transactions").WillReturnError(errors.New("disk full"))
				mock.ExpectRollback()
			},
			op: "append transaction",
		},
		{
			name: "balance update fails",
			expect: func(mock sqlmock.Sqlmock, c *Contract) {
				expectApply(mock, c)
				mock.ExpectExec("INSERT INTO transactions").WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec("UPDATE contracts SET balance").WillReturnError(errors.New("disk full"))
				mock.ExpectRollback()
			},
			op: "update balance",
		},
		{
			name: "commit fails",
			expect: func(mock sqlmock.Sqlmock, c *Contract) {
				expectApply(mock, c)
				mock.ExpectExec("INSERT INTO transactions").WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec("UPDATE contracts SET balance").WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit().WillReturnError(errors.New("disk full"))
			},
			op: "commit",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, mock, c := newMockStore(t, 10)
			tc.expect(mock, c)

			tx, err := c.Deposit(context.Background(), s, 5)
			var se *store.Error
			if !errors.As(err, &se) {
				t.Fatalf("Deposit() error = %v, want a *store.Error", err)
			}
			if !store.IsStoreError(err) || se.Op != tc.op {
				t.Errorf("Deposit() error op = %q, want %q", se.Op, tc.op)
			}
			if tx != (Transaction{}) {
				t.Errorf("Deposit() returned %+v on failure", tx)
			}
			if got := c.Balance(); got != 10 {
				t.Errorf("Balance() = %d after a failed deposit, want 10", got)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestContract_WithdrawStoreFailureKeepsState(t *testing.T) {
	s, mock, c := newMockStore(t, 10)
	expectApply(mock, c)
	mock.ExpectExec("INSERT INTO transactions").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE contracts SET balance").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(errors.New("disk full"))

	if _, err := c.Withdraw(context.Background(), s, 4); !store.IsStoreError(err) {
		t.Fatalf("Withdraw() error = %v, want a store error", err)
	}
	if got := c.Balance(); got != 10 {
		t.Errorf("Balance() = %d after a failed withdrawal, want 10", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
