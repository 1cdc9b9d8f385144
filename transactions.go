package contract

import (
	"fmt"
	"time"

	"github.com/etnz/contract/store"
)

// Kind identifies what a transaction does to the balance.
type Kind string

// Transaction kinds.
const (
	Deposit  Kind = store.KindDeposit
	Withdraw Kind = store.KindWithdraw
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool { return k == Deposit || k == Withdraw }

// sign returns +1 for a deposit and -1 for a withdrawal.
func (k Kind) sign() int64 {
	if k == Withdraw {
		return -1
	}
	return 1
}

// Entry is a request for a new transaction: the input of Contract.Apply.
type Entry struct {
	Kind   Kind
	Amount int64 // minor units, strictly positive
}

// Validate checks the kind and the amount of the entry.
func (e Entry) Validate() error {
	if !e.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownKind, e.Kind)
	}
	if e.Amount <= 0 {
		return fmt.Errorf("%w: %s of %d", ErrInvalidAmount, e.Kind, e.Amount)
	}
	return nil
}

// Transaction is one immutable entry of a contract's log.
type Transaction struct {
	ID         string    // unique id of the entry
	ContractID string    // contract the entry belongs to
	Seq        int64     // position in the contract log, starting at 1
	Kind       Kind      // deposit or withdraw
	Amount     int64     // minor units, always positive
	Time       time.Time // when the entry was committed
}

// Signed returns the amount with the sign of its effect on the balance.
func (t Transaction) Signed() int64 { return t.Kind.sign() * t.Amount }

// Money returns the amount in currency.
func (t Transaction) Money(currency string) Money { return M(t.Amount, currency) }

// MarshalJSON writes the export form of the transaction.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", t.ID)
	w.Append("seq", t.Seq)
	w.Append("kind", t.Kind)
	w.Append("amount", t.Amount)
	w.Append("time", t.Time.UTC().Format(time.RFC3339Nano))
	return w.MarshalJSON()
}

func fromRow(r store.TransactionRow) (Transaction, error) {
	at, err := r.Time()
	if err != nil {
		return Transaction{}, fmt.Errorf("transaction %s: invalid time %q: %w", r.ID, r.CreatedAt, err)
	}
	return Transaction{
		ID:         r.ID,
		ContractID: r.ContractID,
		Seq:        r.Seq,
		Kind:       Kind(r.Kind),
		Amount:     r.Amount,
		Time:       at,
	}, nil
}

func fromRows(rows []store.TransactionRow) ([]Transaction, error) {
	txs := make([]Transaction, 0, len(rows))
	for _, r := range rows {
		tx, err := fromRow(r)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}
