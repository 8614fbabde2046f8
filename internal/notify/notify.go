// Package notify turns postings into user-facing warnings. Nothing in this package
// returns an error to the caller: a failed notification never fails a posting.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fjacquet/finance-ledger/internal/logging"
	"fjacquet/finance-ledger/internal/models"

	"github.com/shopspring/decimal"
)

// DefaultWarningThreshold is the budget usage fraction that triggers a warning.
const DefaultWarningThreshold = 0.8

// QueueSize bounds the alerts waiting to be forwarded. Alerts raised while the
// queue is full are kept locally but not forwarded.
const QueueSize = 64

// Notifier is informed after every successful expense posting.
type Notifier interface {
	AfterExpense(wallet *models.Wallet, category models.Category, amount decimal.Decimal)
}

// Publisher forwards alerts to an external channel.
type Publisher interface {
	Publish(ctx context.Context, alert Alert) error
}

// AlertKind classifies an alert.
type AlertKind string

const (
	BudgetExceeded       AlertKind = "budget_exceeded"
	BudgetWarning        AlertKind = "budget_warning"
	NegativeBalance      AlertKind = "negative_balance"
	ExpensesExceedIncome AlertKind = "expenses_exceed_income"
)

// Alert is one notification raised for a wallet.
type Alert struct {
	Kind     AlertKind
	UserID   string
	Category string
	Message  string
	At       time.Time
}

// Service evaluates wallets after expenses, keeps the alerts until drained,
// logs them and forwards them to any configured publishers on a background worker.
// Close flushes the worker.
type Service struct {
	threshold  decimal.Decimal
	logger     logging.Logger
	publishers []Publisher
	timeout    time.Duration

	queue chan Alert
	wg    sync.WaitGroup

	mu     sync.Mutex
	alerts []Alert
	closed bool
}

// NewService creates a Service. A threshold outside (0, 1] falls back to DefaultWarningThreshold.
func NewService(threshold float64, logger logging.Logger, publishers ...Publisher) *Service {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultWarningThreshold
	}
	s := &Service{
		threshold:  decimal.NewFromFloat(threshold).Mul(decimal.NewFromInt(100)),
		logger:     logging.OrDefault(logger),
		publishers: publishers,
		timeout:    5 * time.Second,
	}
	if len(publishers) > 0 {
		s.queue = make(chan Alert, QueueSize)
		s.wg.Add(1)
		go s.forward()
	}
	return s
}

// Close stops accepting alerts for forwarding and waits until the queued ones
// have been handed to every publisher. It is safe to call more than once.
func (s *Service) Close() {
	s.mu.Lock()
	if s.closed || s.queue == nil {
		s.closed = true
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.queue)
	s.mu.Unlock()
	s.wg.Wait()
}

// AfterExpense checks the budget of category, then the wallet's overall state.
func (s *Service) AfterExpense(wallet *models.Wallet, category models.Category, amount decimal.Decimal) {
	if wallet == nil {
		return
	}
	var raised []Alert
	if b, ok := wallet.Budget(category.WithKind(models.Expense)); ok {
		if a, ok := s.budgetAlert(wallet.UserID(), b); ok {
			raised = append(raised, a)
		}
	}
	raised = append(raised, s.balanceAlerts(wallet)...)
	for _, a := range raised {
		s.raise(a)
	}
}

// CheckBudget raises an alert for b if it is exceeded or above the warning threshold.
func (s *Service) CheckBudget(userID string, b models.Budget) {
	if a, ok := s.budgetAlert(userID, b); ok {
		s.raise(a)
	}
}

// CheckBalance raises alerts for a negative balance or expenses above income.
func (s *Service) CheckBalance(wallet *models.Wallet) {
	if wallet == nil {
		return
	}
	for _, a := range s.balanceAlerts(wallet) {
		s.raise(a)
	}
}

func (s *Service) budgetAlert(userID string, b models.Budget) (Alert, bool) {
	name := b.Category().Name()
	if b.IsExceeded() {
		return Alert{
			Kind:     BudgetExceeded,
			UserID:   userID,
			Category: name,
			Message: fmt.Sprintf("BUDGET EXCEEDED: Category '%s' - Spent: %s, Limit: %s, Over by: %s",
				name, b.Spent().StringFixed(2), b.Limit().StringFixed(2), b.Spent().Sub(b.Limit()).StringFixed(2)),
		}, true
	}
	usage := b.UsagePercentage()
	if usage.GreaterThanOrEqual(s.threshold) {
		return Alert{
			Kind:     BudgetWarning,
			UserID:   userID,
			Category: name,
			Message: fmt.Sprintf("BUDGET WARNING: Category '%s' is at %s%% (%s / %s)",
				name, usage.StringFixed(1), b.Spent().StringFixed(2), b.Limit().StringFixed(2)),
		}, true
	}
	return Alert{}, false
}

func (s *Service) balanceAlerts(wallet *models.Wallet) []Alert {
	var out []Alert
	userID := wallet.UserID()

	if balance := wallet.Balance(); balance.IsNegative() {
		out = append(out, Alert{
			Kind:    NegativeBalance,
			UserID:  userID,
			Message: fmt.Sprintf("NEGATIVE BALANCE: Current balance is %s", balance.StringFixed(2)),
		})
	}

	income := wallet.TotalByType(models.Income)
	expenses := wallet.TotalByType(models.Expense)
	if expenses.GreaterThan(income) && income.IsPositive() {
		out = append(out, Alert{
			Kind:   ExpensesExceedIncome,
			UserID: userID,
			Message: fmt.Sprintf("EXPENSES EXCEED INCOME: Expenses: %s, Income: %s",
				expenses.StringFixed(2), income.StringFixed(2)),
		})
	}
	return out
}

func (s *Service) raise(a Alert) {
	a.At = time.Now()

	s.mu.Lock()
	s.alerts = append(s.alerts, a)
	queued := s.enqueue(a)
	s.mu.Unlock()

	s.logger.Warn(a.Message,
		logging.F(logging.FieldUserID, a.UserID),
		logging.F(logging.FieldKind, string(a.Kind)))
	if !queued && s.queue != nil {
		s.logger.Warn("Notification not forwarded, queue full or closed",
			logging.F(logging.FieldUserID, a.UserID),
			logging.F(logging.FieldKind, string(a.Kind)))
	}
}

// enqueue must be called with s.mu held.
func (s *Service) enqueue(a Alert) bool {
	if s.queue == nil || s.closed {
		return false
	}
	select {
	case s.queue <- a:
		return true
	default:
		return false
	}
}

func (s *Service) forward() {
	defer s.wg.Done()
	for a := range s.queue {
		for _, p := range s.publishers {
			ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
			if err := p.Publish(ctx, a); err != nil {
				s.logger.WithError(err).Warn("Failed to forward notification",
					logging.F(logging.FieldUserID, a.UserID),
					logging.F(logging.FieldKind, string(a.Kind)))
			}
			cancel()
		}
	}
}

// Alerts returns the pending alerts without clearing them.
func (s *Service) Alerts() []Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Alert, len(s.alerts))
	copy(out, s.alerts)
	return out
}

// Notifications returns the pending alert messages without clearing them.
func (s *Service) Notifications() []string {
	return messages(s.Alerts())
}

// Drain returns the pending alert messages and clears them.
func (s *Service) Drain() []string {
	s.mu.Lock()
	pending := s.alerts
	s.alerts = nil
	s.mu.Unlock()
	return messages(pending)
}

// Clear drops all pending alerts.
func (s *Service) Clear() {
	s.mu.Lock()
	s.alerts = nil
	s.mu.Unlock()
}

func messages(alerts []Alert) []string {
	out := make([]string, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, a.Message)
	}
	return out
}
