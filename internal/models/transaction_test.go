package models

import (
	"testing"
	"time"

	"fjacquet/finance-ledger/internal/ledgererror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransaction(t *testing.T) {
	food := mustCategory(t, "food", Expense)
	before := time.Now()

	tx, err := NewTransaction(dec("12.50"), food, Expense, "lunch")
	require.NoError(t, err)

	assert.NotEmpty(t, tx.ID())
	assert.True(t, tx.Amount().Equal(dec("12.5")))
	assert.Equal(t, food, tx.Category())
	assert.Equal(t, Expense, tx.Kind())
	assert.Equal(t, "lunch", tx.Description())
	assert.False(t, tx.Date().Before(before))
	assert.True(t, tx.IsExpense())
	assert.False(t, tx.IsIncome())
	assert.True(t, tx.Signed().Equal(dec("-12.5")))
}

func TestNewTransaction_UniqueIDs(t *testing.T) {
	salary := mustCategory(t, "salary", Income)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tx, err := NewTransaction(decimal.NewFromInt(1), salary, Income, "")
		require.NoError(t, err)
		assert.False(t, seen[tx.ID()])
		seen[tx.ID()] = true
	}
}

func TestNewTransaction_Validation(t *testing.T) {
	food := mustCategory(t, "food", Expense)

	tests := []struct {
		name     string
		amount   decimal.Decimal
		category Category
		kind     TransactionType
	}{
		{"zero amount", decimal.Zero, food, Expense},
		{"negative amount", dec("-5"), food, Expense},
		{"zero category", dec("5"), Category{}, Expense},
		{"unknown kind", dec("5"), food, TransactionType("BOTH")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTransaction(tt.amount, tt.category, tt.kind, "")
			require.Error(t, err)
			assert.Equal(t, ledgererror.KindValidation, ledgererror.KindOf(err))
		})
	}
}

func TestRestoreTransaction_KeepsStoredFields(t *testing.T) {
	salary := mustCategory(t, "salary", Income)
	date := time.Date(2024, 3, 1, 9, 30, 0, 0, time.Local)

	tx, err := RestoreTransaction("abc-123", dec("100"), salary, Income, date, "march")
	require.NoError(t, err)

	assert.Equal(t, "abc-123", tx.ID())
	assert.True(t, tx.Date().Equal(date))
	assert.True(t, tx.Signed().Equal(dec("100")))
}
