// Package book is the session-level entry point for postings and budget edits.
// Each call locks the user, loads the stored wallet, applies the change and
// saves it before the user's in-memory wallet is replaced.
package book

import (
	"context"
	"errors"
	"fmt"

	"fjacquet/finance-ledger/internal/common"
	"fjacquet/finance-ledger/internal/ledger"
	"fjacquet/finance-ledger/internal/ledgererror"
	"fjacquet/finance-ledger/internal/logging"
	"fjacquet/finance-ledger/internal/models"
	"fjacquet/finance-ledger/internal/store"
	"fjacquet/finance-ledger/internal/userlock"
	"fjacquet/finance-ledger/internal/validation"

	"github.com/shopspring/decimal"
)

// Book serializes read-modify-write cycles per user.
type Book struct {
	store   store.WalletStore
	locks   *userlock.Manager
	poster  *ledger.Poster
	budgets *ledger.Budgets
	logger  logging.Logger
}

// New creates a Book. The lock manager should be shared with the transfer engine.
func New(walletStore store.WalletStore, locks *userlock.Manager, poster *ledger.Poster, budgets *ledger.Budgets, logger logging.Logger) *Book {
	logger = logging.OrDefault(logger)
	if locks == nil {
		locks = userlock.NewManager()
	}
	if poster == nil {
		poster = ledger.NewPoster(nil, logger)
	}
	if budgets == nil {
		budgets = ledger.NewBudgets(logger)
	}
	return &Book{
		store:   walletStore,
		locks:   locks,
		poster:  poster,
		budgets: budgets,
		logger:  logger,
	}
}

// Income posts an INCOME transaction for user.
func (b *Book) Income(ctx context.Context, user *models.User, amount decimal.Decimal, categoryName, description string) (models.Transaction, error) {
	category, err := models.NewCategory(categoryName, models.Income)
	if err != nil {
		return models.Transaction{}, err
	}
	var tx models.Transaction
	err = b.mutate(ctx, user, "income", func(w *models.Wallet) error {
		var postErr error
		tx, postErr = b.poster.PostIncome(w, amount, category, description)
		return postErr
	})
	return tx, err
}

// Expense posts an EXPENSE transaction for user.
func (b *Book) Expense(ctx context.Context, user *models.User, amount decimal.Decimal, categoryName, description string) (models.Transaction, error) {
	category, err := models.NewCategory(categoryName, models.Expense)
	if err != nil {
		return models.Transaction{}, err
	}
	var tx models.Transaction
	err = b.mutate(ctx, user, "expense", func(w *models.Wallet) error {
		var postErr error
		tx, postErr = b.poster.PostExpense(w, amount, category, description)
		return postErr
	})
	return tx, err
}

// SetBudget creates or updates a budget.
func (b *Book) SetBudget(ctx context.Context, user *models.User, categoryName string, limit decimal.Decimal) (models.Budget, error) {
	var budget models.Budget
	err := b.mutate(ctx, user, "set_budget", func(w *models.Wallet) error {
		var err error
		budget, err = b.budgets.SetBudget(w, categoryName, limit)
		return err
	})
	return budget, err
}

// DeleteBudget removes a budget. It reports false, and saves nothing, when there was none.
func (b *Book) DeleteBudget(ctx context.Context, user *models.User, categoryName string) (bool, error) {
	removed := false
	err := b.mutate(ctx, user, "delete_budget", func(w *models.Wallet) error {
		removed = b.budgets.DeleteBudget(w, categoryName)
		if !removed {
			return errUnchanged
		}
		return nil
	})
	if errors.Is(err, errUnchanged) {
		return false, nil
	}
	return removed, err
}

// ImportBudgets applies a YAML budget plan and returns how many budgets were set.
// An invalid entry rejects the whole plan.
func (b *Book) ImportBudgets(ctx context.Context, user *models.User, path string) (int, error) {
	if err := validation.InputFile(path); err != nil {
		return 0, err
	}
	plan, err := store.LoadBudgetPlan(path)
	if err != nil {
		return 0, err
	}
	n := 0
	err = b.mutate(ctx, user, "import_budgets", func(w *models.Wallet) error {
		var err error
		n, err = b.budgets.ApplyPlan(w, plan)
		return err
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// ImportTransactions appends transactions read from a CSV export. Rows whose ID
// is already in the wallet are skipped. Any invalid row rejects the whole file.
func (b *Book) ImportTransactions(ctx context.Context, user *models.User, path string, delimiter rune) (int, error) {
	if err := validation.InputFile(path); err != nil {
		return 0, err
	}
	txs, err := common.ReadTransactionsCSV(path, delimiter, b.logger)
	if err != nil {
		return 0, err
	}
	added := 0
	err = b.mutate(ctx, user, "import_transactions", func(w *models.Wallet) error {
		seen := make(map[string]struct{}, w.TransactionCount())
		for _, t := range w.Transactions() {
			seen[t.ID()] = struct{}{}
		}
		for _, t := range txs {
			if _, dup := seen[t.ID()]; dup {
				continue
			}
			if err := w.AddTransaction(t); err != nil {
				return err
			}
			seen[t.ID()] = struct{}{}
			added++
		}
		if added == 0 {
			return errUnchanged
		}
		return nil
	})
	if errors.Is(err, errUnchanged) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	b.logger.Info("Transactions imported",
		logging.F(logging.FieldUserID, user.Username()),
		logging.F(logging.FieldCount, added))
	return added, nil
}

// ExportTransactions writes user's stored transactions to path.
func (b *Book) ExportTransactions(ctx context.Context, user *models.User, path string, delimiter rune) (int, error) {
	if err := validation.OutputFile(path); err != nil {
		return 0, err
	}
	w, err := b.Refresh(ctx, user)
	if err != nil {
		return 0, err
	}
	txs := w.Transactions()
	if txs == nil {
		txs = []models.Transaction{}
	}
	if err := common.WriteTransactionsToCSV(txs, path, delimiter, b.logger); err != nil {
		return 0, err
	}
	return len(txs), nil
}

// Refresh replaces user's in-memory wallet with the stored one.
func (b *Book) Refresh(ctx context.Context, user *models.User) (*models.Wallet, error) {
	if user == nil {
		return nil, ledgererror.Invalid("user", "must not be nil")
	}
	unlock, err := b.locks.Lock(ctx, user.Username())
	if err != nil {
		return nil, fmt.Errorf("failed to lock wallet of %s: %w", user.Username(), err)
	}
	defer unlock()

	w, err := b.store.Load(ctx, user.Username())
	if err != nil {
		return nil, err
	}
	user.SetWallet(w)
	return w, nil
}

// DeleteWallet removes the stored record and resets user's wallet to empty.
func (b *Book) DeleteWallet(ctx context.Context, user *models.User) error {
	if user == nil {
		return ledgererror.Invalid("user", "must not be nil")
	}
	unlock, err := b.locks.Lock(ctx, user.Username())
	if err != nil {
		return fmt.Errorf("failed to lock wallet of %s: %w", user.Username(), err)
	}
	defer unlock()

	if err := b.store.Delete(ctx, user.Username()); err != nil {
		return err
	}
	user.SetWallet(models.NewWallet(user.Username()))
	b.logger.Info("Wallet deleted", logging.F(logging.FieldUserID, user.Username()))
	return nil
}

var errUnchanged = errors.New("wallet unchanged")

func (b *Book) mutate(ctx context.Context, user *models.User, op string, fn func(*models.Wallet) error) error {
	if user == nil {
		return ledgererror.Invalid("user", "must not be nil")
	}
	username := user.Username()

	unlock, err := b.locks.Lock(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to lock wallet of %s: %w", username, err)
	}
	defer unlock()

	w, err := b.store.Load(ctx, username)
	if err != nil {
		return err
	}
	if err := fn(w); err != nil {
		return err
	}
	if err := b.store.Save(ctx, w); err != nil {
		b.logger.WithError(err).Warn("Wallet change not saved",
			logging.F(logging.FieldUserID, username),
			logging.F(logging.FieldOperation, op))
		return err
	}
	user.SetWallet(w)
	return nil
}
