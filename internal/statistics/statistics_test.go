package statistics

import (
	"testing"
	"time"

	"fjacquet/finance-ledger/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 12, 0, 0, 0, time.Local)
}

func add(t *testing.T, w *models.Wallet, kind models.TransactionType, name, amount string, date time.Time) {
	t.Helper()
	c, err := models.NewCategory(name, kind)
	require.NoError(t, err)
	tx, err := models.RestoreTransaction("", dec(amount), c, kind, date, "")
	require.NoError(t, err)
	require.NoError(t, w.AddTransaction(tx))
}

func sampleWallet(t *testing.T) *models.Wallet {
	t.Helper()
	w := models.NewWallet("alice")
	food, err := models.NewCategory("food", models.Expense)
	require.NoError(t, err)
	_, err = w.SetBudget(food, dec("100"))
	require.NoError(t, err)

	add(t, w, models.Income, "salary", "3000", day(1))
	add(t, w, models.Income, "bonus", "200", day(5))
	add(t, w, models.Expense, "food", "40", day(2))
	add(t, w, models.Expense, "food", "70.50", day(10))
	add(t, w, models.Expense, "rent", "1200", day(3))
	return w
}

func TestTotals(t *testing.T) {
	w := sampleWallet(t)
	assert.True(t, TotalIncome(w).Equal(dec("3200")))
	assert.True(t, TotalExpenses(w).Equal(dec("1310.50")))

	empty := models.NewWallet("bob")
	assert.True(t, TotalIncome(empty).IsZero())
	assert.True(t, TotalExpenses(empty).IsZero())
}

func TestByCategory(t *testing.T) {
	w := sampleWallet(t)

	expenses := ExpensesByCategory(w)
	require.Len(t, expenses, 2)
	assert.Equal(t, "food", expenses[0].Category)
	assert.True(t, expenses[0].Total.Equal(dec("110.50")))
	assert.Equal(t, 2, expenses[0].Count)
	assert.Equal(t, "rent", expenses[1].Category)

	income := IncomeByCategory(w)
	require.Len(t, income, 2)
	assert.Equal(t, "bonus", income[0].Category)
	assert.Equal(t, "salary", income[1].Category)
}

// A name used under both kinds yields two distinct categories.
func TestByCategory_NameUnderBothKinds(t *testing.T) {
	w := models.NewWallet("alice")
	add(t, w, models.Income, "food", "10", day(1))
	add(t, w, models.Expense, "food", "4", day(1))

	assert.Len(t, IncomeByCategory(w), 1)
	assert.Len(t, ExpensesByCategory(w), 1)
	assert.True(t, ExpensesByCategories(w, []string{"food"}).Equal(dec("4")))
	assert.True(t, IncomeByCategories(w, []string{"food"}).Equal(dec("10")))
}

func TestByNamedCategories(t *testing.T) {
	w := sampleWallet(t)

	assert.True(t, ExpensesByCategories(w, []string{" food ", "rent"}).Equal(dec("1310.50")))
	assert.True(t, ExpensesByCategories(w, []string{"travel"}).IsZero())
	assert.True(t, ExpensesByCategories(w, nil).IsZero())
	assert.True(t, IncomeByCategories(w, []string{"salary"}).Equal(dec("3000")))
}

func TestTransactionsInPeriod(t *testing.T) {
	w := sampleWallet(t)

	inRange := TransactionsInPeriod(w, day(2), day(5))
	require.Len(t, inRange, 3, "both bounds are inclusive")
	assert.True(t, inRange[0].Date().Equal(day(5)))

	assert.Len(t, TransactionsInPeriod(w, time.Time{}, time.Time{}), 5)
	assert.Len(t, TransactionsInPeriod(w, day(6), time.Time{}), 1)
	assert.Empty(t, TransactionsInPeriod(w, day(20), day(25)))
}

func TestMissingCategories(t *testing.T) {
	w := sampleWallet(t)
	assert.Equal(t, []string{"travel", " gifts"}, MissingCategories(w, []string{"food", "travel", " gifts", "salary "}))
	assert.Empty(t, MissingCategories(w, nil))
}

func TestBudgetSummary(t *testing.T) {
	w := sampleWallet(t)

	lines := BudgetSummary(w)
	require.Len(t, lines, 1)
	line := lines[0]
	assert.Equal(t, "food", line.Category)
	assert.True(t, line.Spent.Equal(dec("110.50")))
	assert.True(t, line.Remaining.Equal(dec("-10.50")))
	assert.True(t, line.Usage.Equal(dec("110.5")))
	assert.True(t, line.Exceeded)
}

func TestSummarize(t *testing.T) {
	w := sampleWallet(t)
	s := Summarize(w)

	assert.Equal(t, "alice", s.UserID)
	assert.True(t, s.Balance.Equal(dec("1889.50")))
	assert.Equal(t, 5, s.Transactions)
	assert.Len(t, s.Income, 2)
	assert.Len(t, s.Expenses, 2)
	assert.Len(t, s.Budgets, 1)
}
