// Package ledger holds the guarded wallet mutations. It carries no business
// rules: callers decide when money moves, the ledger only refuses amounts
// that are not positive and debits the wallet cannot cover. Both operations
// mutate in-memory users and are meant to run inside the repository
// transaction that persists the enclosing order transition, always as a
// debit/credit pair.
package ledger

import (
	"fmt"

	"github.com/govalues/decimal"

	"github.com/osenchenko/masterbid/internal/core/domain"
)

// Debit subtracts amount from the user's balance.
func Debit(u *domain.User, amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return domain.ErrInvalidAmount
	}
	if u.Balance.Cmp(amount) < 0 {
		return domain.ErrInsufficientBalance
	}

	newBalance, err := u.Balance.Sub(amount)
	if err != nil {
		return fmt.Errorf("ledger math: %w", err)
	}
	u.Balance = newBalance

	return nil
}

// Credit adds amount to the user's balance.
func Credit(u *domain.User, amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return domain.ErrInvalidAmount
	}

	newBalance, err := u.Balance.Add(amount)
	if err != nil {
		return fmt.Errorf("ledger math: %w", err)
	}
	u.Balance = newBalance

	return nil
}
