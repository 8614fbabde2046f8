// Package statistics computes read-only aggregates over a wallet.
package statistics

import (
	"encoding/xml"
	"sort"
	"strings"
	"time"

	"fjacquet/finance-ledger/internal/models"

	"github.com/shopspring/decimal"
)

// CategoryTotal is the summed amount of one category's transactions.
type CategoryTotal struct {
	Category string          `json:"category" yaml:"category" xml:"category"`
	Kind     string          `json:"type" yaml:"type" xml:"type"`
	Total    decimal.Decimal `json:"total" yaml:"total" xml:"total"`
	Count    int             `json:"count" yaml:"count" xml:"count"`
}

// BudgetLine is one row of the budget summary.
type BudgetLine struct {
	Category  string          `json:"category" yaml:"category" xml:"category"`
	Limit     decimal.Decimal `json:"limit" yaml:"limit" xml:"limit"`
	Spent     decimal.Decimal `json:"spent" yaml:"spent" xml:"spent"`
	Remaining decimal.Decimal `json:"remaining" yaml:"remaining" xml:"remaining"`
	Usage     decimal.Decimal `json:"usagePercentage" yaml:"usage_percentage" xml:"usagePercentage"`
	Exceeded  bool            `json:"exceeded" yaml:"exceeded" xml:"exceeded"`
}

// Summary is a full statistics report for one wallet.
type Summary struct {
	XMLName       xml.Name        `json:"-" yaml:"-" xml:"summary"`
	UserID        string          `json:"userId" yaml:"user_id" xml:"userId"`
	Balance       decimal.Decimal `json:"balance" yaml:"balance" xml:"balance"`
	TotalIncome   decimal.Decimal `json:"totalIncome" yaml:"total_income" xml:"totalIncome"`
	TotalExpenses decimal.Decimal `json:"totalExpenses" yaml:"total_expenses" xml:"totalExpenses"`
	Income        []CategoryTotal `json:"income" yaml:"income" xml:"income"`
	Expenses      []CategoryTotal `json:"expenses" yaml:"expenses" xml:"expenses"`
	Budgets       []BudgetLine    `json:"budgets" yaml:"budgets" xml:"budgets"`
	Transactions  int             `json:"transactionCount" yaml:"transaction_count" xml:"transactionCount"`
}

// TotalIncome sums all INCOME transactions.
func TotalIncome(w *models.Wallet) decimal.Decimal {
	return w.TotalByType(models.Income)
}

// TotalExpenses sums all EXPENSE transactions.
func TotalExpenses(w *models.Wallet) decimal.Decimal {
	return w.TotalByType(models.Expense)
}

// IncomeByCategory totals INCOME transactions per category, sorted by name.
func IncomeByCategory(w *models.Wallet) []CategoryTotal {
	return byCategory(w.TransactionsByType(models.Income))
}

// ExpensesByCategory totals EXPENSE transactions per category, sorted by name.
func ExpensesByCategory(w *models.Wallet) []CategoryTotal {
	return byCategory(w.TransactionsByType(models.Expense))
}

func byCategory(txs []models.Transaction) []CategoryTotal {
	index := make(map[models.Category]int)
	var out []CategoryTotal
	for _, t := range txs {
		i, ok := index[t.Category()]
		if !ok {
			i = len(out)
			index[t.Category()] = i
			out = append(out, CategoryTotal{
				Category: t.Category().Name(),
				Kind:     string(t.Category().Kind()),
				Total:    decimal.Zero,
			})
		}
		out[i].Total = out[i].Total.Add(t.Amount())
		out[i].Count++
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Category != out[b].Category {
			return out[a].Category < out[b].Category
		}
		return out[a].Kind < out[b].Kind
	})
	return out
}

// IncomeByCategories sums INCOME transactions whose category name is one of names.
func IncomeByCategories(w *models.Wallet, names []string) decimal.Decimal {
	return sumNamed(w.TransactionsByType(models.Income), names)
}

// ExpensesByCategories sums EXPENSE transactions whose category name is one of names.
func ExpensesByCategories(w *models.Wallet, names []string) decimal.Decimal {
	return sumNamed(w.TransactionsByType(models.Expense), names)
}

func sumNamed(txs []models.Transaction, names []string) decimal.Decimal {
	total := decimal.Zero
	if len(names) == 0 {
		return total
	}
	wanted := make(map[string]struct{}, len(names))
	for _, n := range names {
		wanted[strings.TrimSpace(n)] = struct{}{}
	}
	for _, t := range txs {
		if _, ok := wanted[t.Category().Name()]; ok {
			total = total.Add(t.Amount())
		}
	}
	return total
}

// TransactionsInPeriod returns the transactions dated within [from, to], both
// ends inclusive, in ledger order. A zero bound is open.
func TransactionsInPeriod(w *models.Wallet, from, to time.Time) []models.Transaction {
	var out []models.Transaction
	for _, t := range w.Transactions() {
		if !from.IsZero() && t.Date().Before(from) {
			continue
		}
		if !to.IsZero() && t.Date().After(to) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// MissingCategories returns the names, as given, that no transaction uses.
func MissingCategories(w *models.Wallet, names []string) []string {
	used := make(map[string]struct{})
	for _, t := range w.Transactions() {
		used[t.Category().Name()] = struct{}{}
	}
	var missing []string
	for _, n := range names {
		if _, ok := used[strings.TrimSpace(n)]; !ok {
			missing = append(missing, n)
		}
	}
	return missing
}

// BudgetSummary lists every budget sorted by category.
func BudgetSummary(w *models.Wallet) []BudgetLine {
	budgets := w.Budgets()
	out := make([]BudgetLine, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, BudgetLine{
			Category:  b.Category().Name(),
			Limit:     b.Limit(),
			Spent:     b.Spent(),
			Remaining: b.Remaining(),
			Usage:     b.UsagePercentage().Round(1),
			Exceeded:  b.IsExceeded(),
		})
	}
	return out
}

// Summarize builds the full report for w.
func Summarize(w *models.Wallet) Summary {
	return Summary{
		UserID:        w.UserID(),
		Balance:       w.Balance(),
		TotalIncome:   TotalIncome(w),
		TotalExpenses: TotalExpenses(w),
		Income:        IncomeByCategory(w),
		Expenses:      ExpensesByCategory(w),
		Budgets:       BudgetSummary(w),
		Transactions:  w.TransactionCount(),
	}
}
