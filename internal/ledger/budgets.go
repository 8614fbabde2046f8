package ledger

import (
	"strings"

	"fjacquet/finance-ledger/internal/ledgererror"
	"fjacquet/finance-ledger/internal/logging"
	"fjacquet/finance-ledger/internal/models"
	"fjacquet/finance-ledger/internal/store"

	"github.com/shopspring/decimal"
)

// Budgets manages per-category spending limits. Every name is coerced to an EXPENSE category.
type Budgets struct {
	logger logging.Logger
}

// NewBudgets creates a budget service.
func NewBudgets(logger logging.Logger) *Budgets {
	return &Budgets{logger: logging.OrDefault(logger)}
}

// SetBudget creates the budget for categoryName or updates its limit. Spent is preserved.
func (s *Budgets) SetBudget(wallet *models.Wallet, categoryName string, limit decimal.Decimal) (models.Budget, error) {
	if wallet == nil {
		return models.Budget{}, ledgererror.Invalid("wallet", "must not be nil")
	}
	if limit.IsNegative() {
		return models.Budget{}, ledgererror.Invalid("limit", "must not be negative, got "+limit.String())
	}
	category, err := models.NewCategory(categoryName, models.Expense)
	if err != nil {
		return models.Budget{}, err
	}

	b, err := wallet.SetBudget(category, limit)
	if err != nil {
		return models.Budget{}, err
	}
	s.logger.Debug("Budget set",
		logging.F(logging.FieldUserID, wallet.UserID()),
		logging.F(logging.FieldCategory, category.Name()),
		logging.F("limit", limit.String()))
	return b, nil
}

// EditBudget is SetBudget.
func (s *Budgets) EditBudget(wallet *models.Wallet, categoryName string, limit decimal.Decimal) (models.Budget, error) {
	return s.SetBudget(wallet, categoryName, limit)
}

// DeleteBudget removes the budget. A blank name or an unknown category is a no-op.
func (s *Budgets) DeleteBudget(wallet *models.Wallet, categoryName string) bool {
	category, ok := expenseCategory(wallet, categoryName)
	if !ok {
		return false
	}
	return wallet.RemoveBudget(category)
}

// GetBudget returns the budget for categoryName, if any.
func (s *Budgets) GetBudget(wallet *models.Wallet, categoryName string) (models.Budget, bool) {
	category, ok := expenseCategory(wallet, categoryName)
	if !ok {
		return models.Budget{}, false
	}
	return wallet.Budget(category)
}

// ResetBudget zeroes what was spent against categoryName.
func (s *Budgets) ResetBudget(wallet *models.Wallet, categoryName string) bool {
	category, ok := expenseCategory(wallet, categoryName)
	if !ok {
		return false
	}
	return wallet.ResetBudget(category)
}

// ApplyPlan sets every budget in plan, in order. It stops at the first invalid
// entry and returns how many were applied before it.
func (s *Budgets) ApplyPlan(wallet *models.Wallet, plan []store.BudgetPlanEntry) (int, error) {
	for i, entry := range plan {
		if _, err := s.SetBudget(wallet, entry.Category, entry.Limit); err != nil {
			return i, err
		}
	}
	return len(plan), nil
}

func expenseCategory(wallet *models.Wallet, name string) (models.Category, bool) {
	if wallet == nil || strings.TrimSpace(name) == "" {
		return models.Category{}, false
	}
	c, err := models.NewCategory(name, models.Expense)
	return c, err == nil
}
