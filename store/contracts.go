package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// ContractRow is the persisted form of a contract.
type ContractRow struct {
	ID        string `db:"id"`
	Owner     string `db:"owner"`
	Balance   int64  `db:"balance"`
	CreatedAt string `db:"created_at"`
}

// GetContract loads the contract row with the given id. It returns
// ErrNotFound if there is none.
func GetContract(ctx context.Context, q sqlx.ExtContext, id string) (ContractRow, error) {
	var row ContractRow
	query := q.Rebind(`SELECT id, owner, balance, created_at FROM contracts WHERE id = ?`)
	if err := sqlx.GetContext(ctx, q, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ContractRow{}, ErrNotFound
		}
		return ContractRow{}, &Error{Op: "get contract", Err: err}
	}
	return row, nil
}

// EnsureContract inserts a contract with a zero balance unless a row with
// the same id already exists. An existing row is left untouched.
func EnsureContract(ctx context.Context, q sqlx.ExtContext, id, owner string, createdAt time.Time) error {
	query := q.Rebind(`INSERT INTO contracts (id, owner, balance, created_at) VALUES (?, ?, 0, ?) ON CONFLICT (id) DO NOTHING`)
	if _, err := q.ExecContext(ctx, query, id, owner, formatTime(createdAt)); err != nil {
		return &Error{Op: "insert contract", Err: err}
	}
	return nil
}

// UpdateBalance sets the cached balance of a contract.
func UpdateBalance(ctx context.Context, q sqlx.ExtContext, id string, balance int64) error {
	query := q.Rebind(`UPDATE contracts SET balance = ? WHERE id = ?`)
	res, err := q.ExecContext(ctx, query, balance, id)
	if err != nil {
		return &Error{Op: "update balance", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &Error{Op: "update balance", Err: err}
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListContracts returns every contract row ordered by id.
func ListContracts(ctx context.Context, q sqlx.ExtContext) ([]ContractRow, error) {
	var rows []ContractRow
	if err := sqlx.SelectContext(ctx, q, &rows, `SELECT id, owner, balance, created_at FROM contracts ORDER BY id`); err != nil {
		return nil, &Error{Op: "list contracts", Err: err}
	}
	return rows, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseTime parses a timestamp written by this package.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
