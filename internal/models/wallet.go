package models

import (
	"sort"
	"sync"

	"fjacquet/finance-ledger/internal/ledgererror"

	"github.com/shopspring/decimal"
)

// Wallet is the aggregate root of a user's ledger. Every mutation runs under one
// lock so balance always equals the signed sum of transactions when the lock is free.
type Wallet struct {
	mu           sync.RWMutex
	userID       string
	balance      decimal.Decimal
	transactions []Transaction
	budgets      map[Category]*Budget
}

// WalletSnapshot is a consistent copy of a wallet's state, read under a single lock.
type WalletSnapshot struct {
	UserID       string
	Balance      decimal.Decimal
	Transactions []Transaction
	Budgets      []Budget
}

// NewWallet returns an empty wallet for userID.
func NewWallet(userID string) *Wallet {
	return &Wallet{
		userID:  userID,
		balance: decimal.Zero,
		budgets: make(map[Category]*Budget),
	}
}

// RestoreWallet rebuilds a wallet from stored state. The balance is taken as given;
// callers that need the invariant checked compare it with LedgerBalance.
// A repeated budget category keeps the last entry.
func RestoreWallet(userID string, balance decimal.Decimal, transactions []Transaction, budgets []Budget) *Wallet {
	w := NewWallet(userID)
	w.balance = balance
	w.transactions = append(make([]Transaction, 0, len(transactions)), transactions...)
	for _, b := range budgets {
		b := b
		w.budgets[b.category] = &b
	}
	return w
}

// UserID returns the owning user's name.
func (w *Wallet) UserID() string {
	return w.userID
}

// Balance returns the current balance.
func (w *Wallet) Balance() decimal.Decimal {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.balance
}

// Transactions returns a copy of the ledger in insertion order.
func (w *Wallet) Transactions() []Transaction {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]Transaction, len(w.transactions))
	copy(out, w.transactions)
	return out
}

// TransactionCount returns the number of postings.
func (w *Wallet) TransactionCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.transactions)
}

// TransactionsByType returns the postings of one kind in insertion order.
func (w *Wallet) TransactionsByType(kind TransactionType) []Transaction {
	return w.filter(func(t Transaction) bool { return t.kind == kind })
}

// TransactionsByCategory returns the postings under category in insertion order.
func (w *Wallet) TransactionsByCategory(category Category) []Transaction {
	return w.filter(func(t Transaction) bool { return t.category == category })
}

func (w *Wallet) filter(keep func(Transaction) bool) []Transaction {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var out []Transaction
	for _, t := range w.transactions {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// AddTransaction appends t and applies it to the balance. An expense also
// increases the spent amount of the budget keyed by t's category, if any.
func (w *Wallet) AddTransaction(t Transaction) error {
	if t.id == "" || !t.amount.IsPositive() || !t.kind.Valid() {
		return ledgererror.Invalid("transaction", "not constructed through NewTransaction")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if t.kind == Expense {
		if b, ok := w.budgets[t.category]; ok {
			if err := b.addSpent(t.amount); err != nil {
				return err
			}
		}
	}
	w.balance = w.balance.Add(t.Signed())
	w.transactions = append(w.transactions, t)
	return nil
}

// SetBudget creates the budget for category or updates its limit, keeping what was spent.
func (w *Wallet) SetBudget(category Category, limit decimal.Decimal) (Budget, error) {
	if category.IsZero() {
		return Budget{}, ledgererror.Invalid("category", "name must not be empty")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if b, ok := w.budgets[category]; ok {
		if err := b.setLimit(limit); err != nil {
			return Budget{}, err
		}
		return *b, nil
	}
	b, err := NewBudget(category, limit)
	if err != nil {
		return Budget{}, err
	}
	w.budgets[category] = &b
	return b, nil
}

// Budget returns a snapshot of the budget for category.
func (w *Wallet) Budget(category Category) (Budget, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	b, ok := w.budgets[category]
	if !ok {
		return Budget{}, false
	}
	return *b, true
}

// Budgets returns snapshots of all budgets ordered by category name, then kind.
func (w *Wallet) Budgets() []Budget {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.sortedBudgets()
}

func (w *Wallet) sortedBudgets() []Budget {
	out := make([]Budget, 0, len(w.budgets))
	for _, b := range w.budgets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].category.less(out[j].category) })
	return out
}

// RemoveBudget deletes the budget for category. It reports whether one existed.
func (w *Wallet) RemoveBudget(category Category) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.budgets[category]; !ok {
		return false
	}
	delete(w.budgets, category)
	return true
}

// ResetBudget sets spent back to zero. It reports whether the budget existed.
func (w *Wallet) ResetBudget(category Category) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	b, ok := w.budgets[category]
	if !ok {
		return false
	}
	b.reset()
	return true
}

// TotalByType sums the amounts of all postings of kind.
func (w *Wallet) TotalByType(kind TransactionType) decimal.Decimal {
	w.mu.RLock()
	defer w.mu.RUnlock()
	total := decimal.Zero
	for _, t := range w.transactions {
		if t.kind == kind {
			total = total.Add(t.amount)
		}
	}
	return total
}

// LedgerBalance recomputes Σ income − Σ expense from the transaction log.
func (w *Wallet) LedgerBalance() decimal.Decimal {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return signedSum(w.transactions)
}

// Recalculate overwrites the balance with the recomputed ledger balance and returns it.
func (w *Wallet) Recalculate() decimal.Decimal {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.balance = signedSum(w.transactions)
	return w.balance
}

// Snapshot copies the whole wallet state under one read lock.
func (w *Wallet) Snapshot() WalletSnapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	txs := make([]Transaction, len(w.transactions))
	copy(txs, w.transactions)
	return WalletSnapshot{
		UserID:       w.userID,
		Balance:      w.balance,
		Transactions: txs,
		Budgets:      w.sortedBudgets(),
	}
}

// Clone returns an independent copy of w.
func (w *Wallet) Clone() *Wallet {
	s := w.Snapshot()
	return RestoreWallet(s.UserID, s.Balance, s.Transactions, s.Budgets)
}

func signedSum(transactions []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range transactions {
		total = total.Add(t.Signed())
	}
	return total
}
