package models

import (
	"time"

	"fjacquet/finance-ledger/internal/ledgererror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is an immutable ledger entry.
type Transaction struct {
	id          string
	amount      decimal.Decimal
	category    Category
	kind        TransactionType
	date        time.Time
	description string
}

// NewTransaction creates a transaction with a fresh UUID stamped with the current local time.
func NewTransaction(amount decimal.Decimal, category Category, kind TransactionType, description string) (Transaction, error) {
	return RestoreTransaction("", amount, category, kind, time.Time{}, description)
}

// RestoreTransaction rebuilds a transaction from stored fields.
// An empty id gets a fresh UUID and a zero date becomes now.
func RestoreTransaction(id string, amount decimal.Decimal, category Category, kind TransactionType, date time.Time, description string) (Transaction, error) {
	if !amount.IsPositive() {
		return Transaction{}, ledgererror.Invalid("amount", "must be positive, got "+amount.String())
	}
	if category.IsZero() {
		return Transaction{}, ledgererror.Invalid("category", "name must not be empty")
	}
	if !kind.Valid() {
		return Transaction{}, ledgererror.Invalid("transaction type", "unknown type "+string(kind))
	}
	if id == "" {
		id = uuid.NewString()
	}
	if date.IsZero() {
		date = time.Now()
	}
	return Transaction{
		id:          id,
		amount:      amount,
		category:    category,
		kind:        kind,
		date:        date,
		description: description,
	}, nil
}

func (t Transaction) ID() string { return t.id }
func (t Transaction) Amount() decimal.Decimal { return t.amount }
func (t Transaction) Category() Category { return t.category }
func (t Transaction) Kind() TransactionType { return t.kind }
func (t Transaction) Date() time.Time { return t.date }
func (t Transaction) Description() string { return t.description }
func (t Transaction) IsIncome() bool { return t.kind == Income }
func (t Transaction) IsExpense() bool { return t.kind == Expense }

// Signed returns the amount as it affects the balance: positive for income, negative for expense.
func (t Transaction) Signed() decimal.Decimal {
	if t.kind == Expense {
		return t.amount.Neg()
	}
	return t.amount
}
