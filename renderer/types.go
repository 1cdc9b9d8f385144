package renderer

import (
	"time"

	"github.com/etnz/contract"
	"github.com/etnz/contract/migration"
	"github.com/etnz/contract/profile"
)

// Status is the view of a contract's status.
type Status struct {
	Owner      string
	ContractID string
	Balance    int64
	Currency   string
	Created    time.Time
}

// History is the view of the most recent transactions of a contract.
type History struct {
	Owner        string
	Currency     string
	Transactions []contract.Transaction // newest first
}

// Migrations is the view of the migration registry.
type Migrations struct {
	States []migration.State
}

// Profile is the view of a CSV profile.
type Profile struct {
	Input string
	profile.Profile
}

// Verification is the view of a balance verification.
type Verification struct {
	Currency string
	Rebuilt  bool // the stored balance was set to the replayed one
	contract.Verification
}

// Diff returns the replayed minus the stored balance.
func (v Verification) Diff() int64 { return v.Replayed - v.Stored }
