package ledger_test

import (
	"testing"

	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/osenchenko/masterbid/internal/core/domain"
	"github.com/osenchenko/masterbid/internal/core/ledger"
)

func mustDecimal(t *testing.T, f float64) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromFloat64(f)
	assert.NoError(t, err)
	return d
}

func TestLedger_Debit(t *testing.T) {
	tests := []struct {
		name       string
		balance    float64
		amount     float64
		expError   error
		expBalance float64
	}{
		{name: "Debit good", balance: 200, amount: 90, expError: nil, expBalance: 110},
		{name: "Debit full balance", balance: 90, amount: 90, expError: nil, expBalance: 0},
		{name: "Debit insufficient", balance: 100, amount: 90.01, expError: domain.ErrInsufficientBalance, expBalance: 100},
		{name: "Debit zero amount", balance: 100, amount: 0, expError: domain.ErrInvalidAmount, expBalance: 100},
		{name: "Debit negative amount", balance: 100, amount: -5, expError: domain.ErrInvalidAmount, expBalance: 100},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			user := &domain.User{ID: 1, Balance: mustDecimal(t, test.balance)}

			err := ledger.Debit(user, mustDecimal(t, test.amount))

			assert.ErrorIs(t, err, test.expError)
			assert.Equal(t, 0, user.Balance.Cmp(mustDecimal(t, test.expBalance)))
		})
	}
}

func TestLedger_Credit(t *testing.T) {
	tests := []struct {
		name       string
		balance    float64
		amount     float64
		expError   error
		expBalance float64
	}{
		{name: "Credit good", balance: 10, amount: 45, expError: nil, expBalance: 55},
		{name: "Credit zero amount", balance: 10, amount: 0, expError: domain.ErrInvalidAmount, expBalance: 10},
		{name: "Credit negative amount", balance: 10, amount: -1, expError: domain.ErrInvalidAmount, expBalance: 10},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			user := &domain.User{ID: 1, Balance: mustDecimal(t, test.balance)}

			err := ledger.Credit(user, mustDecimal(t, test.amount))

			assert.ErrorIs(t, err, test.expError)
			assert.Equal(t, 0, user.Balance.Cmp(mustDecimal(t, test.expBalance)))
		})
	}
}
