// Package events publishes the transactions committed to a contract.
//
// Publication happens after the store transaction committed. It is best
// effort: the ledger is the source of truth and a failed publication does not
// undo anything.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/etnz/contract"
)

// TransactionRecorded is the event published for each committed transaction.
type TransactionRecorded struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id"`
	ContractID    string          `json:"contract_id"`
	Owner         string          `json:"owner"`
	Kind          contract.Kind   `json:"kind"`
	Amount        decimal.Decimal `json:"amount"` // major units
	MinorAmount   int64           `json:"minor_amount"`
	Currency      string          `json:"currency"`
	Balance       int64           `json:"balance"` // minor units, right after the transaction
	Seq           int64           `json:"seq"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// Recorded returns the events of txs, just applied to c in that order.
func Recorded(c *contract.Contract, currency string, txs []contract.Transaction) []TransactionRecorded {
	evs := make([]TransactionRecorded, len(txs))
	balance := c.Balance()
	for i := len(txs) - 1; i >= 0; i-- {
		tx := txs[i]
		m := tx.Money(currency)
		evs[i] = TransactionRecorded{
			ID:            uuid.NewString(),
			TransactionID: tx.ID,
			ContractID:    tx.ContractID,
			Owner:         c.Owner(),
			Kind:          tx.Kind,
			Amount:        m.Decimal(),
			MinorAmount:   m.Minor(),
			Currency:      m.Currency(),
			Balance:       balance,
			Seq:           tx.Seq,
			OccurredAt:    tx.Time,
		}
		balance -= tx.Signed()
	}
	return evs
}

// Publisher sends events to a broker.
type Publisher interface {
	Publish(ctx context.Context, evs ...TransactionRecorded) error
	Close() error
}

// Nop is a Publisher that discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, ...TransactionRecorded) error { return nil }
func (Nop) Close() error                                          { return nil }
