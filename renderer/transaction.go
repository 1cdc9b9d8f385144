package renderer

import (
	"fmt"

	"github.com/etnz/contract"
)

// Transaction renders a transaction as a sentence.
func Transaction(tx contract.Transaction, currency string) string {
	m := tx.Money(currency)
	switch tx.Kind {
	case contract.Deposit:
		return fmt.Sprintf("Deposited %s", m)
	case contract.Withdraw:
		return fmt.Sprintf("Withdrew %s", m)
	default:
		return fmt.Sprintf("%s %s", tx.Kind, m)
	}
}
