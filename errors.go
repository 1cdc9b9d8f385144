package contract

import "errors"

var (
	// ErrInvalidAmount is returned for a zero, negative or overflowing amount.
	ErrInvalidAmount = errors.New("contract: invalid amount")
	// ErrInsufficientFunds is returned when a withdrawal exceeds the balance.
	ErrInsufficientFunds = errors.New("contract: insufficient funds")
	// ErrBalanceMismatch is returned by Verify when the cached balance does not
	// match the replayed transaction log.
	ErrBalanceMismatch = errors.New("contract: balance does not match the transaction log")
	// ErrUnknownKind is returned for a transaction kind other than deposit or withdraw.
	ErrUnknownKind = errors.New("contract: unknown transaction kind")
)
