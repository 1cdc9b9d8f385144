package migration

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/etnz/contract/store"
)

// Names of the built-in migrations.
const (
	HistoryIndex  = "m_20240414_001_history_index"
	DataTransform = "m_20240414_002_data_transform"
)

// Builtin returns the registry of the migrations shipped with the tool.
func Builtin() *Registry {
	return MustRegistry(
		Migration{
			Name:        HistoryIndex,
			Description: "index the transaction log by contract and time",
			Up: func(ctx context.Context, tx *sqlx.Tx) error {
				return store.CreateHistoryIndex(ctx, tx)
			},
		},
		Migration{
			Name:        DataTransform,
			Description: "rebuild every cached balance from its transaction log",
			Up:          rebuildBalances,
		},
	)
}

// rebuildBalances sets every contract balance to its replayed log. A negative
// replayed balance aborts the migration.
func rebuildBalances(ctx context.Context, tx *sqlx.Tx) error {
	balances, err := store.ReplayBalances(ctx, tx)
	if err != nil {
		return err
	}
	for _, b := range balances {
		if b.Balance < 0 {
			return fmt.Errorf("contract %s replays to a negative balance %d", b.ContractID, b.Balance)
		}
		if err := store.UpdateBalance(ctx, tx, b.ContractID, b.Balance); err != nil {
			return err
		}
	}
	return nil
}
