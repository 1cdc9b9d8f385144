package contract

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/etnz/contract/store"
)

func TestID(t *testing.T) {
	// sha256("alice")
	const want = "2bd806c97f0e00af1a1fc3328fa763a9269723c8db8fac4f93af71db186d6e90"
	if got := ID("alice"); got != want {
		t.Errorf("ID(alice) = %s, want %s", got, want)
	}
	if ID("alice") == ID("bob") {
		t.Error("ID(alice) == ID(bob)")
	}
}

func TestContract_AliceScenario(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	c := mustOpen(t, s, "alice")

	if owner, balance := c.Status(); owner != "alice" || balance != 0 {
		t.Fatalf("Status() = %q, %d, want alice, 0", owner, balance)
	}

	if _, err := c.Deposit(ctx, s, 100); err != nil {
		t.Fatalf("Deposit(100) failed: %v", err)
	}
	if c.Balance() != 100 {
		t.Errorf("Balance() = %d after deposit, want 100", c.Balance())
	}
	assertHistory(t, c, s, Entry{Deposit, 100})

	if _, err := c.Withdraw(ctx, s, 30); err != nil {
		t.Fatalf("Withdraw(30) failed: %v", err)
	}
	if c.Balance() != 70 {
		t.Errorf("Balance() = %d after withdraw, want 70", c.Balance())
	}
	assertHistory(t, c, s, Entry{Withdraw, 30}, Entry{Deposit, 100})

	_, err := c.Withdraw(ctx, s, 1000)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("Withdraw(1000) error = %v, want ErrInsufficientFunds", err)
	}
	if c.Balance() != 70 {
		t.Errorf("Balance() = %d after failed withdraw, want 70", c.Balance())
	}
	assertHistory(t, c, s, Entry{Withdraw, 30}, Entry{Deposit, 100})

	if err := c.Verify(ctx, s); err != nil {
		t.Errorf("Verify() = %v", err)
	}
}

func TestContract_InvalidAmount(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	c := mustOpen(t, s, "alice")

	tests := []struct {
		name string
		op   func() (Transaction, error)
	}{
		{"deposit zero", func() (Transaction, error) { return c.Deposit(ctx, s, 0) }},
		{"withdraw zero", func() (Transaction, error) { return c.Withdraw(ctx, s, 0) }},
		{"deposit negative", func() (Transaction, error) { return c.Deposit(ctx, s, -5) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.op(); !errors.Is(err, ErrInvalidAmount) {
				t.Errorf("error = %v, want ErrInvalidAmount", err)
			}
		})
	}
	assertHistory(t, c, s)
}

func TestContract_DepositOverflow(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	c := mustOpen(t, s, "alice")

	if _, err := c.Deposit(ctx, s, 1<<62); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Deposit(ctx, s, 1<<62); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("overflowing deposit error = %v, want ErrInvalidAmount", err)
	}
	if c.Balance() != 1<<62 {
		t.Errorf("Balance() = %d, want %d", c.Balance(), int64(1<<62))
	}
}

func TestLoadOrCreate_KeepsBalance(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	first := mustOpen(t, s, "alice")
	if _, err := first.Deposit(ctx, s, 42); err != nil {
		t.Fatal(err)
	}

	second := mustOpen(t, s, "alice")
	if second.ID() != first.ID() {
		t.Errorf("ID() = %s, want %s", second.ID(), first.ID())
	}
	if second.Balance() != 42 {
		t.Errorf("Balance() = %d, want 42", second.Balance())
	}
	if !second.CreatedAt().Equal(first.CreatedAt()) {
		t.Errorf("CreatedAt() = %v, want %v", second.CreatedAt(), first.CreatedAt())
	}

	other := mustOpen(t, s, "bob")
	if other.Balance() != 0 {
		t.Errorf("bob Balance() = %d, want 0", other.Balance())
	}
}

func TestContract_HistoryLimit(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	c := mustOpen(t, s, "alice")
	for i := int64(1); i <= 8; i++ {
		if _, err := c.Deposit(ctx, s, i); err != nil {
			t.Fatal(err)
		}
	}

	seq, err := c.History(ctx, s)
	if err != nil {
		t.Fatal(err)
	}
	var amounts []int64
	for tx := range seq {
		amounts = append(amounts, tx.Amount)
	}
	if want := []int64{8, 7, 6, 5, 4}; !slices.Equal(amounts, want) {
		t.Errorf("History() amounts = %v, want %v", amounts, want)
	}
	// The sequence is restartable.
	if n := len(slices.Collect(seq)); n != HistoryLimit {
		t.Errorf("second iteration yielded %d entries, want %d", n, HistoryLimit)
	}
}

func TestContract_ApplyIsAtomic(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	c := mustOpen(t, s, "alice")

	_, err := c.Apply(ctx, s, Entry{Deposit, 10}, Entry{Withdraw, 100})
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("Apply() error = %v, want ErrInsufficientFunds", err)
	}
	if c.Balance() != 0 {
		t.Errorf("Balance() = %d, want 0", c.Balance())
	}
	assertHistory(t, c, s)

	txs, err := c.Apply(ctx, s, Entry{Deposit, 10}, Entry{Withdraw, 4})
	if err != nil {
		t.Fatal(err)
	}
	if len(txs) != 2 || txs[0].Seq != 1 || txs[1].Seq != 2 {
		t.Errorf("Apply() = %v, want seq 1 and 2", txs)
	}
	if c.Balance() != 6 {
		t.Errorf("Balance() = %d, want 6", c.Balance())
	}

	if _, err := c.Apply(ctx, s, Entry{Kind: "transfer", Amount: 1}); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("Apply(transfer) error = %v, want ErrUnknownKind", err)
	}
}

func TestContract_VerifyMismatch(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	c := mustOpen(t, s, "alice")
	if _, err := c.Deposit(ctx, s, 100); err != nil {
		t.Fatal(err)
	}
	if err := store.UpdateBalance(ctx, s.DB(), c.ID(), 99); err != nil {
		t.Fatal(err)
	}

	v, err := c.Check(ctx, s)
	if err != nil {
		t.Fatal(err)
	}
	if v.OK() || v.Stored != 99 || v.Replayed != 100 || v.Entries != 1 {
		t.Errorf("Check() = %+v", v)
	}
	if err := c.Verify(ctx, s); !errors.Is(err, ErrBalanceMismatch) {
		t.Errorf("Verify() = %v, want ErrBalanceMismatch", err)
	}
}

func TestContract_RebuildIsRepeatable(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	c := mustOpen(t, s, "alice")
	if _, err := c.Deposit(ctx, s, 100); err != nil {
		t.Fatal(err)
	}

	for _, drift := range []int64{99, 42, 100} {
		if err := store.UpdateBalance(ctx, s.DB(), c.ID(), drift); err != nil {
			t.Fatal(err)
		}
		v, err := c.Rebuild(ctx, s)
		if err != nil {
			t.Fatalf("Rebuild() with stored %d failed: %v", drift, err)
		}
		if v.Stored != drift || v.Replayed != 100 {
			t.Errorf("Rebuild() = %+v, want stored %d and replayed 100", v, drift)
		}
		if got := c.Balance(); got != 100 {
			t.Errorf("Balance() = %d after Rebuild, want 100", got)
		}
		if err := c.Verify(ctx, s); err != nil {
			t.Errorf("Verify() after Rebuild = %v", err)
		}
	}
}

func TestContract_RebuildRefusesNegativeLog(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	c := mustOpen(t, s, "alice")
	if _, err := c.Deposit(ctx, s, 100); err != nil {
		t.Fatal(err)
	}
	// a withdrawal that never went through Apply.
	if _, err := store.AppendTransaction(ctx, s.DB(), c.ID(), "forged", store.KindWithdraw, 500, s.Now()); err != nil {
		t.Fatal(err)
	}

	if _, err := c.Rebuild(ctx, s); !errors.Is(err, ErrBalanceMismatch) {
		t.Fatalf("Rebuild() = %v, want ErrBalanceMismatch", err)
	}
	v, err := c.Check(ctx, s)
	if err != nil {
		t.Fatal(err)
	}
	if v.Stored != 100 || c.Balance() != 100 {
		t.Errorf("stored %d, cached %d after a refused Rebuild, want 100", v.Stored, c.Balance())
	}
}

// TestContract_ReplayProperty checks that, whatever the sequence of deposits
// and withdrawals, the stored balance equals the replayed log.
func TestContract_ReplayProperty(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	properties := gopter.NewProperties(parameters)

	run := 0
	properties.Property("balance equals replayed log", prop.ForAll(
		func(ops []int64) bool {
			run++
			c, err := Open(ctx, s, fmt.Sprintf("owner-%d", run))
			if err != nil {
				return false
			}
			var want int64
			for _, op := range ops {
				switch {
				case op > 0:
					if _, err := c.Deposit(ctx, s, op); err != nil {
						return false
					}
					want += op
				case op < 0:
					_, err := c.Withdraw(ctx, s, -op)
					if -op > want {
						if !errors.Is(err, ErrInsufficientFunds) {
							return false
						}
						continue
					}
					if err != nil {
						return false
					}
					want += op
				default:
					if _, err := c.Deposit(ctx, s, 0); !errors.Is(err, ErrInvalidAmount) {
						return false
					}
				}
			}
			replayed, err := c.Replay(ctx, s)
			if err != nil {
				return false
			}
			return replayed == want && c.Balance() == want && c.Verify(ctx, s) == nil
		},
		gen.SliceOfN(12, gen.Int64Range(-100, 100)),
	))

	properties.TestingRun(t)
}

// assertHistory checks the history of c, newest first.
func assertHistory(t *testing.T, c *Contract, s *store.Store, want ...Entry) {
	t.Helper()
	seq, err := c.History(context.Background(), s)
	if err != nil {
		t.Fatalf("History() failed: %v", err)
	}
	var got []Entry
	for tx := range seq {
		got = append(got, Entry{tx.Kind, tx.Amount})
	}
	if !slices.Equal(got, want) {
		t.Errorf("History() = %v, want %v", got, want)
	}
}
