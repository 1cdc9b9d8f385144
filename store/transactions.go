package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// Transaction kinds as stored in the kind column.
const (
	KindDeposit  = "deposit"
	KindWithdraw = "withdraw"
)

// TransactionRow is one persisted entry of the transaction log.
type TransactionRow struct {
	ContractID string `db:"contract_id"`
	Seq        int64  `db:"seq"`
	ID         string `db:"id"`
	Kind       string `db:"kind"`
	Amount     int64  `db:"amount"`
	CreatedAt  string `db:"created_at"`
}

// Time returns the parsed creation time of the entry.
func (r TransactionRow) Time() (time.Time, error) { return ParseTime(r.CreatedAt) }

const transactionColumns = `contract_id, seq, id, kind, amount, created_at`

// AppendTransaction appends an entry to the log of contractID. The sequence
// number is allocated as one past the highest existing one, so it must run
// inside the same transaction as the balance update.
func AppendTransaction(ctx context.Context, q sqlx.ExtContext, contractID, id, kind string, amount int64, createdAt time.Time) (TransactionRow, error) {
	var last int64
	query := q.Rebind(`SELECT COALESCE(MAX(seq), 0) FROM transactions WHERE contract_id = ?`)
	if err := sqlx.GetContext(ctx, q, &last, query, contractID); err != nil {
		return TransactionRow{}, &Error{Op: "next sequence", Err: err}
	}

	row := TransactionRow{
		ContractID: contractID,
		Seq:        last + 1,
		ID:         id,
		Kind:       kind,
		Amount:     amount,
		CreatedAt:  formatTime(createdAt),
	}
	insert := q.Rebind(`INSERT INTO transactions (` + transactionColumns + `) VALUES (?, ?, ?, ?, ?, ?)`)
	if _, err := q.ExecContext(ctx, insert, row.ContractID, row.Seq, row.ID, row.Kind, row.Amount, row.CreatedAt); err != nil {
		return TransactionRow{}, &Error{Op: "append transaction", Err: err}
	}
	return row, nil
}

// RecentTransactions returns at most limit entries of contractID, newest first.
func RecentTransactions(ctx context.Context, q sqlx.ExtContext, contractID string, limit int) ([]TransactionRow, error) {
	rows := make([]TransactionRow, 0, limit)
	query := q.Rebind(`SELECT ` + transactionColumns + ` FROM transactions WHERE contract_id = ? ORDER BY seq DESC LIMIT ?`)
	if err := sqlx.SelectContext(ctx, q, &rows, query, contractID, limit); err != nil {
		return nil, &Error{Op: "recent transactions", Err: err}
	}
	return rows, nil
}

// AllTransactions returns the whole log of contractID in sequence order.
func AllTransactions(ctx context.Context, q sqlx.ExtContext, contractID string) ([]TransactionRow, error) {
	var rows []TransactionRow
	query := q.Rebind(`SELECT ` + transactionColumns + ` FROM transactions WHERE contract_id = ? ORDER BY seq ASC`)
	if err := sqlx.SelectContext(ctx, q, &rows, query, contractID); err != nil {
		return nil, &Error{Op: "all transactions", Err: err}
	}
	return rows, nil
}

// ReplayedBalance is the signed sum of one contract's log.
type ReplayedBalance struct {
	ContractID string `db:"contract_id"`
	Balance    int64  `db:"balance"`
}

// ReplayBalances computes, for every contract, the signed sum of its log.
// Contracts without entries replay to zero.
func ReplayBalances(ctx context.Context, q sqlx.ExtContext) ([]ReplayedBalance, error) {
	var rows []ReplayedBalance
	query := `
SELECT c.id AS contract_id,
       COALESCE(SUM(CASE t.kind WHEN 'deposit' THEN t.amount ELSE -t.amount END), 0) AS balance
FROM contracts c
LEFT JOIN transactions t ON t.contract_id = c.id
GROUP BY c.id
ORDER BY c.id`
	if err := sqlx.SelectContext(ctx, q, &rows, query); err != nil {
		return nil, &Error{Op: "replay balances", Err: err}
	}
	return rows, nil
}

// CreateHistoryIndex creates the index used to scan a contract log by time.
func CreateHistoryIndex(ctx context.Context, q sqlx.ExtContext) error {
	_, err := q.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_transactions_created_at ON transactions (contract_id, created_at)`)
	if err != nil {
		return &Error{Op: "create history index", Err: err}
	}
	return nil
}
