// Package models holds the ledger's domain types: categories, transactions,
// budgets, the wallet aggregate and the user that owns it.
package models

import (
	"fmt"
	"strings"

	"fjacquet/finance-ledger/internal/ledgererror"
)

// TransactionType is the direction of a posting.
type TransactionType string

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

// TransferCategoryName is the category both legs of a transfer are posted under.
const TransferCategoryName = "transfer"

// ParseTransactionType accepts "INCOME" or "EXPENSE" in any case.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(strings.ToUpper(strings.TrimSpace(s))) {
	case Income:
		return Income, nil
	case Expense:
		return Expense, nil
	default:
		return "", ledgererror.Invalid("transaction type", fmt.Sprintf("unknown type %q", s))
	}
}

// Valid reports whether t is one of the two known types.
func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

func (t TransactionType) String() string {
	return string(t)
}

// Category is a (name, kind) pair. Two categories with the same name but different
// kinds are different map keys, so an expense budget never matches an income posting.
type Category struct {
	name string
	kind TransactionType
}

// NewCategory trims name and rejects it when empty. An empty kind means Expense.
func NewCategory(name string, kind TransactionType) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, ledgererror.Invalid("category", "name must not be empty")
	}
	if kind == "" {
		kind = Expense
	}
	if !kind.Valid() {
		return Category{}, ledgererror.Invalid("category", fmt.Sprintf("unknown kind %q", kind))
	}
	return Category{name: name, kind: kind}, nil
}

// Name returns the trimmed category name.
func (c Category) Name() string { return c.name }

// Kind returns the category's transaction type.
func (c Category) Kind() TransactionType { return c.kind }

// IsZero reports whether c is the zero Category.
func (c Category) IsZero() bool { return c.name == "" }

// WithKind returns the same name under kind.
func (c Category) WithKind(kind TransactionType) Category {
	return Category{name: c.name, kind: kind}
}

func (c Category) String() string {
	return fmt.Sprintf("%s (%s)", c.name, c.kind)
}

// less orders categories by name, then kind.
func (c Category) less(o Category) bool {
	if c.name != o.name {
		return c.name < o.name
	}
	return c.kind < o.kind
}
