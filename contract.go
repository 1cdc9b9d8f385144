package contract

import (
	"context"
	"fmt"
	"iter"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/etnz/contract/store"
)

// HistoryLimit is the number of entries returned by History.
const HistoryLimit = 5

// Contract is the request-scoped view of one owner's ledger.
//
// The balance is a cached copy of the stored one. Mutating operations re-read
// the stored balance inside their transaction and refresh the cache only
// after commit, so a failed operation leaves the Contract unchanged.
type Contract struct {
	id        string
	owner     string
	balance   int64
	createdAt time.Time
}

// Open loads the contract of owner, creating it if needed.
func Open(ctx context.Context, s *store.Store, owner string) (*Contract, error) {
	return LoadOrCreate(ctx, s, ID(owner), owner)
}

// LoadOrCreate returns the contract stored under id. If there is none, a
// contract with a zero balance is created for owner. An existing contract
// keeps its owner and balance.
func LoadOrCreate(ctx context.Context, s *store.Store, id, owner string) (*Contract, error) {
	var row store.ContractRow
	err := s.InTx(ctx, func(tx *sqlx.Tx) error {
		if err := store.EnsureContract(ctx, tx, id, owner, s.Now()); err != nil {
			return err
		}
		var err error
		row, err = store.GetContract(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("cannot load contract of %q: %w", owner, err)
	}
	created, err := store.ParseTime(row.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("contract %s: invalid creation time %q: %w", id, row.CreatedAt, err)
	}
	s.Logger().Debug("contract loaded", "id", row.ID, "owner", row.Owner, "balance", row.Balance)
	return &Contract{id: row.ID, owner: row.Owner, balance: row.Balance, createdAt: created}, nil
}

func (c *Contract) ID() string           { return c.id }
func (c *Contract) Owner() string        { return c.owner }
func (c *Contract) Balance() int64       { return c.balance }
func (c *Contract) CreatedAt() time.Time { return c.createdAt }

// Status returns the owner and the balance. It has no side effect.
func (c *Contract) Status() (owner string, balance int64) { return c.owner, c.balance }

// Deposit adds amount to the balance and records it in the log.
func (c *Contract) Deposit(ctx context.Context, s *store.Store, amount int64) (Transaction, error) {
	txs, err := c.Apply(ctx, s, Entry{Kind: Deposit, Amount: amount})
	if err != nil {
		return Transaction{}, err
	}
	return txs[0], nil
}

// Withdraw removes amount from the balance and records it in the log. It
// fails with ErrInsufficientFunds if amount exceeds the balance.
func (c *Contract) Withdraw(ctx context.Context, s *store.Store, amount int64) (Transaction, error) {
	txs, err := c.Apply(ctx, s, Entry{Kind: Withdraw, Amount: amount})
	if err != nil {
		return Transaction{}, err
	}
	return txs[0], nil
}

// Apply records entries in order within a single store transaction. Either
// every entry is committed, with the balance updated accordingly, or none is.
func (c *Contract) Apply(ctx context.Context, s *store.Store, entries ...Entry) ([]Transaction, error) {
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return nil, err
		}
	}
	if len(entries) == 0 {
		return nil, nil
	}

	var (
		balance int64
		txs     []Transaction
	)
	err := s.InTx(ctx, func(tx *sqlx.Tx) error {
		row, err := store.GetContract(ctx, tx, c.id)
		if err != nil {
			return err
		}
		balance = row.Balance
		now := s.Now()
		txs = make([]Transaction, 0, len(entries))
		for _, e := range entries {
			switch e.Kind {
			case Deposit:
				if balance > math.MaxInt64-e.Amount {
					return fmt.Errorf("%w: deposit of %d overflows balance %d", ErrInvalidAmount, e.Amount, balance)
				}
				balance += e.Amount
			case Withdraw:
				if e.Amount > balance {
					return fmt.Errorf("%w: withdraw of %d exceeds balance %d", ErrInsufficientFunds, e.Amount, balance)
				}
				balance -= e.Amount
			}
			r, err := store.AppendTransaction(ctx, tx, c.id, uuid.NewString(), string(e.Kind), e.Amount, now)
			if err != nil {
				return err
			}
			t, err := fromRow(r)
			if err != nil {
				return err
			}
			txs = append(txs, t)
		}
		return store.UpdateBalance(ctx, tx, c.id, balance)
	})
	if err != nil {
		return nil, err
	}
	c.balance = balance
	s.Logger().Debug("transactions applied", "contract", c.id, "count", len(txs), "balance", balance)
	return txs, nil
}

// History returns the HistoryLimit most recent entries, newest first. The
// returned sequence can be iterated any number of times.
func (c *Contract) History(ctx context.Context, s *store.Store) (iter.Seq[Transaction], error) {
	rows, err := store.RecentTransactions(ctx, s.DB(), c.id, HistoryLimit)
	if err != nil {
		return nil, err
	}
	txs, err := fromRows(rows)
	if err != nil {
		return nil, err
	}
	return slices.Values(txs), nil
}

// Transactions returns the whole log in sequence order.
func (c *Contract) Transactions(ctx context.Context, s *store.Store) ([]Transaction, error) {
	rows, err := store.AllTransactions(ctx, s.DB(), c.id)
	if err != nil {
		return nil, err
	}
	return fromRows(rows)
}

// Replay returns the signed sum of the whole log.
func (c *Contract) Replay(ctx context.Context, s *store.Store) (int64, error) {
	txs, err := c.Transactions(ctx, s)
	if err != nil {
		return 0, err
	}
	var sum int64
	for _, t := range txs {
		sum += t.Signed()
	}
	return sum, nil
}

// Verification compares the stored balance of a contract with its log.
type Verification struct {
	Owner    string
	Stored   int64 // balance in the contracts table
	Replayed int64 // signed sum of the log
	Entries  int   // number of log entries
}

// OK reports whether both balances agree.
func (v Verification) OK() bool { return v.Stored == v.Replayed }

// Check reads the stored balance and replays the log in one transaction.
func (c *Contract) Check(ctx context.Context, s *store.Store) (Verification, error) {
	var v Verification
	err := s.InTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		v, err = check(ctx, tx, c)
		return err
	})
	return v, err
}

func check(ctx context.Context, tx *sqlx.Tx, c *Contract) (Verification, error) {
	row, err := store.GetContract(ctx, tx, c.id)
	if err != nil {
		return Verification{}, err
	}
	rows, err := store.AllTransactions(ctx, tx, c.id)
	if err != nil {
		return Verification{}, err
	}
	v := Verification{Owner: c.owner, Stored: row.Balance, Entries: len(rows)}
	for _, r := range rows {
		v.Replayed += Kind(r.Kind).sign() * r.Amount
	}
	return v, nil
}

// Verify returns ErrBalanceMismatch if the stored balance differs from the
// replayed log.
func (c *Contract) Verify(ctx context.Context, s *store.Store) error {
	v, err := c.Check(ctx, s)
	if err != nil {
		return err
	}
	if !v.OK() {
		return fmt.Errorf("%w: stored %d, replayed %d", ErrBalanceMismatch, v.Stored, v.Replayed)
	}
	return nil
}

// Rebuild sets the stored balance to the replayed log and returns the
// verification made before the update. It can run any number of times. A log
// replaying to a negative balance is left untouched and fails with
// ErrBalanceMismatch.
func (c *Contract) Rebuild(ctx context.Context, s *store.Store) (Verification, error) {
	var v Verification
	err := s.InTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		v, err = check(ctx, tx, c)
		if err != nil {
			return err
		}
		if v.Replayed < 0 {
			return fmt.Errorf("%w: log of %s replays to %d", ErrBalanceMismatch, c.owner, v.Replayed)
		}
		if v.OK() {
			return nil
		}
		return store.UpdateBalance(ctx, tx, c.id, v.Replayed)
	})
	if err != nil {
		return Verification{}, err
	}
	c.balance = v.Replayed
	if !v.OK() {
		s.Logger().Info("balance rebuilt", "contract", c.id, "stored", v.Stored, "replayed", v.Replayed)
	}
	return v, nil
}
