// Package ledger applies postings and budget changes to a wallet. It validates
// every request before touching the wallet, so a rejected call mutates nothing.
package ledger

import (
	"fjacquet/finance-ledger/internal/ledgererror"
	"fjacquet/finance-ledger/internal/logging"
	"fjacquet/finance-ledger/internal/models"
	"fjacquet/finance-ledger/internal/notify"

	"github.com/shopspring/decimal"
)

// Poster records income and expenses.
type Poster struct {
	notifier notify.Notifier
	logger   logging.Logger
}

// NewPoster creates a Poster. notifier may be nil.
func NewPoster(notifier notify.Notifier, logger logging.Logger) *Poster {
	return &Poster{
		notifier: notifier,
		logger:   logging.OrDefault(logger),
	}
}

// PostIncome appends an INCOME transaction and raises the balance.
// A category of the wrong kind is re-keyed to (same name, INCOME).
func (p *Poster) PostIncome(wallet *models.Wallet, amount decimal.Decimal, category models.Category, description string) (models.Transaction, error) {
	return p.post(wallet, amount, category, models.Income, description)
}

// PostExpense appends an EXPENSE transaction, lowers the balance, adds to the
// category's budget if one exists, then informs the notifier.
func (p *Poster) PostExpense(wallet *models.Wallet, amount decimal.Decimal, category models.Category, description string) (models.Transaction, error) {
	tx, err := p.post(wallet, amount, category, models.Expense, description)
	if err != nil {
		return models.Transaction{}, err
	}
	if p.notifier != nil {
		p.notifier.AfterExpense(wallet, tx.Category(), tx.Amount())
	}
	return tx, nil
}

func (p *Poster) post(wallet *models.Wallet, amount decimal.Decimal, category models.Category, kind models.TransactionType, description string) (models.Transaction, error) {
	if wallet == nil {
		return models.Transaction{}, ledgererror.Invalid("wallet", "must not be nil")
	}
	if !amount.IsPositive() {
		return models.Transaction{}, ledgererror.Invalid("amount", "must be positive, got "+amount.String())
	}
	if category.IsZero() {
		return models.Transaction{}, ledgererror.Invalid("category", "name must not be empty")
	}
	if category.Kind() != kind {
		category = category.WithKind(kind)
	}

	tx, err := models.NewTransaction(amount, category, kind, description)
	if err != nil {
		return models.Transaction{}, err
	}
	if err := wallet.AddTransaction(tx); err != nil {
		return models.Transaction{}, err
	}

	p.logger.Debug("Posted transaction",
		logging.F(logging.FieldUserID, wallet.UserID()),
		logging.F(logging.FieldTransactionID, tx.ID()),
		logging.F(logging.FieldKind, string(kind)),
		logging.F(logging.FieldCategory, category.Name()),
		logging.F(logging.FieldAmount, amount.String()))
	return tx, nil
}
