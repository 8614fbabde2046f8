package models

import (
	"testing"

	"fjacquet/finance-ledger/internal/ledgererror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBudget_DerivedValues(t *testing.T) {
	food := mustCategory(t, "food", Expense)

	tests := []struct {
		name          string
		limit         string
		spent         string
		wantRemaining string
		wantExceeded  bool
		wantUsage     string
	}{
		{"under limit", "100", "40", "60", false, "40"},
		{"exactly at limit is not exceeded", "100", "100", "0", false, "100"},
		{"over limit", "100", "120", "-20", true, "120"},
		{"zero limit nothing spent", "0", "0", "0", false, "0"},
		{"zero limit something spent", "0", "5", "-5", true, "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := RestoreBudget(food, dec(tt.limit), dec(tt.spent))
			require.NoError(t, err)

			assert.True(t, b.Remaining().Equal(dec(tt.wantRemaining)), "remaining %s", b.Remaining())
			assert.Equal(t, tt.wantExceeded, b.IsExceeded())
			assert.True(t, b.UsagePercentage().Equal(dec(tt.wantUsage)), "usage %s", b.UsagePercentage())
		})
	}
}

func TestRestoreBudget(t *testing.T) {
	food := mustCategory(t, "food", Expense)

	b, err := RestoreBudget(food, dec("50"), dec("-3"))
	require.NoError(t, err)
	assert.True(t, b.Spent().IsZero(), "negative spent is clamped")

	_, err = RestoreBudget(food, dec("-1"), decimal.Zero)
	assert.Equal(t, ledgererror.KindValidation, ledgererror.KindOf(err))

	_, err = NewBudget(Category{}, dec("10"))
	assert.Equal(t, ledgererror.KindValidation, ledgererror.KindOf(err))
}

func TestBudget_Mutators(t *testing.T) {
	b, err := NewBudget(mustCategory(t, "food", Expense), dec("10"))
	require.NoError(t, err)

	require.NoError(t, b.addSpent(dec("4")))
	require.NoError(t, b.addSpent(dec("3")))
	assert.True(t, b.Spent().Equal(dec("7")))

	assert.Error(t, b.addSpent(dec("-1")))
	assert.True(t, b.Spent().Equal(dec("7")), "spent never decreases through addSpent")

	assert.Error(t, b.setLimit(dec("-1")))
	require.NoError(t, b.setLimit(dec("20")))
	assert.True(t, b.Limit().Equal(dec("20")))

	b.reset()
	assert.True(t, b.Spent().IsZero())
}
