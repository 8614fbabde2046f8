package models

import (
	"fjacquet/finance-ledger/internal/ledgererror"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Budget is a spending limit on one expense category. Values handed out by a
// Wallet are snapshots; only the wallet mutates its own budgets.
type Budget struct {
	category Category
	limit    decimal.Decimal
	spent    decimal.Decimal
}

// NewBudget creates a budget with nothing spent.
func NewBudget(category Category, limit decimal.Decimal) (Budget, error) {
	return RestoreBudget(category, limit, decimal.Zero)
}

// RestoreBudget rebuilds a stored budget. Negative spent is clamped to zero.
func RestoreBudget(category Category, limit, spent decimal.Decimal) (Budget, error) {
	if category.IsZero() {
		return Budget{}, ledgererror.Invalid("category", "name must not be empty")
	}
	if limit.IsNegative() {
		return Budget{}, ledgererror.Invalid("limit", "must not be negative, got "+limit.String())
	}
	if spent.IsNegative() {
		spent = decimal.Zero
	}
	return Budget{category: category, limit: limit, spent: spent}, nil
}

func (b Budget) Category() Category { return b.category }
func (b Budget) Limit() decimal.Decimal { return b.limit }
func (b Budget) Spent() decimal.Decimal { return b.spent }

// Remaining is limit minus spent. Negative once the budget is exceeded.
func (b Budget) Remaining() decimal.Decimal {
	return b.limit.Sub(b.spent)
}

// IsExceeded reports spent > limit. Spending exactly the limit is not exceeding it.
func (b Budget) IsExceeded() bool {
	return b.spent.GreaterThan(b.limit)
}

// UsagePercentage is spent/limit*100. A zero limit reads 100 once anything is spent, else 0.
func (b Budget) UsagePercentage() decimal.Decimal {
	if b.limit.IsZero() {
		if b.spent.IsPositive() {
			return hundred
		}
		return decimal.Zero
	}
	return b.spent.Div(b.limit).Mul(hundred)
}

func (b *Budget) setLimit(limit decimal.Decimal) error {
	if limit.IsNegative() {
		return ledgererror.Invalid("limit", "must not be negative, got "+limit.String())
	}
	b.limit = limit
	return nil
}

func (b *Budget) addSpent(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ledgererror.Invalid("amount", "spent cannot decrease")
	}
	b.spent = b.spent.Add(amount)
	return nil
}

func (b *Budget) reset() {
	b.spent = decimal.Zero
}
