// Package transfer moves money between two users' wallets as a paired
// EXPENSE/INCOME posting and persists both sides.
package transfer

import (
	"context"
	"fmt"
	"strings"

	"fjacquet/finance-ledger/internal/ledger"
	"fjacquet/finance-ledger/internal/ledgererror"
	"fjacquet/finance-ledger/internal/logging"
	"fjacquet/finance-ledger/internal/models"
	"fjacquet/finance-ledger/internal/store"
	"fjacquet/finance-ledger/internal/userlock"

	"github.com/shopspring/decimal"
)

// UserFinder resolves a username to a registered user.
type UserFinder interface {
	FindByUsername(username string) (*models.User, bool)
}

// Result describes a completed transfer.
type Result struct {
	SenderTransaction    models.Transaction
	RecipientTransaction models.Transaction
	SenderBalance        decimal.Decimal
	RecipientBalance     decimal.Decimal
}

// Option configures an Engine.
type Option func(*Engine)

// WithSenderReload controls whether the sender's wallet is reloaded from the
// store under the lock before funds are checked. It is on by default; turning it
// off trusts the wallet the sender logged in with.
func WithSenderReload(enabled bool) Option {
	return func(e *Engine) {
		e.reloadSender = enabled
	}
}

// Engine executes transfers.
type Engine struct {
	store        store.WalletStore
	users        UserFinder
	locks        *userlock.Manager
	poster       *ledger.Poster
	logger       logging.Logger
	reloadSender bool
}

// NewEngine wires a transfer engine. locks and poster may be nil, in which case
// private instances are created.
func NewEngine(walletStore store.WalletStore, users UserFinder, locks *userlock.Manager, poster *ledger.Poster, logger logging.Logger, opts ...Option) *Engine {
	logger = logging.OrDefault(logger)
	if locks == nil {
		locks = userlock.NewManager()
	}
	if poster == nil {
		poster = ledger.NewPoster(nil, logger)
	}
	e := &Engine{
		store:        walletStore,
		users:        users,
		locks:        locks,
		poster:       poster,
		logger:       logger,
		reloadSender: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Transfer moves amount from sender to the user named recipientUsername.
//
// Every validation and business check runs before anything is mutated. The two
// postings are made on copies of the wallets; a user's in-memory wallet is only
// replaced once its record has been saved. Saves run sender first, then
// recipient. If the recipient save fails after the sender save succeeded the
// error is a *ledgererror.PartialTransferError and the durable ledgers disagree.
func (e *Engine) Transfer(ctx context.Context, sender *models.User, recipientUsername string, amount decimal.Decimal, description string) (Result, error) {
	if sender == nil {
		return Result{}, ledgererror.Invalid("sender", "must not be nil")
	}
	recipientUsername = strings.TrimSpace(recipientUsername)
	if recipientUsername == "" {
		return Result{}, ledgererror.Invalid("recipient", "username must not be empty")
	}
	if !amount.IsPositive() {
		return Result{}, ledgererror.Invalid("amount", "must be positive, got "+amount.String())
	}
	senderName := sender.Username()
	if recipientUsername == senderName {
		return Result{}, &ledgererror.SelfReferenceError{Username: senderName}
	}

	unlock, err := e.locks.Lock(ctx, senderName, recipientUsername)
	if err != nil {
		return Result{}, fmt.Errorf("failed to lock wallets for transfer: %w", err)
	}
	defer unlock()

	senderWallet := sender.Wallet()
	if e.reloadSender {
		senderWallet, err = e.store.Load(ctx, senderName)
		if err != nil {
			return Result{}, err
		}
		sender.SetWallet(senderWallet)
	}

	if balance := senderWallet.Balance(); balance.LessThan(amount) {
		return Result{}, &ledgererror.InsufficientFundsError{Balance: balance, Required: amount}
	}

	recipient, ok := e.users.FindByUsername(recipientUsername)
	if !ok {
		return Result{}, &ledgererror.NotFoundError{Entity: "recipient", Key: recipientUsername}
	}

	// The stored record is authoritative for the recipient. Changes made to the
	// recipient's in-memory wallet and not yet saved are discarded here.
	recipientWallet, err := e.store.Load(ctx, recipient.Username())
	if err != nil {
		return Result{}, err
	}
	recipient.SetWallet(recipientWallet)

	senderNext := senderWallet.Clone()
	recipientNext := recipientWallet.Clone()

	out, err := e.poster.PostExpense(senderNext, amount, transferCategory(models.Expense),
		withDescription("Transfer to "+recipient.Username(), description))
	if err != nil {
		return Result{}, err
	}
	in, err := e.poster.PostIncome(recipientNext, amount, transferCategory(models.Income),
		withDescription("Transfer from "+senderName, description))
	if err != nil {
		return Result{}, err
	}

	log := e.logger.WithFields(
		logging.F(logging.FieldUserID, senderName),
		logging.F(logging.FieldRecipient, recipient.Username()),
		logging.F(logging.FieldAmount, amount.String()))

	if err := e.store.Save(ctx, senderNext); err != nil {
		log.WithError(err).Warn("Transfer aborted, sender wallet could not be saved")
		return Result{}, err
	}
	sender.SetWallet(senderNext)

	if err := e.store.Save(ctx, recipientNext); err != nil {
		partial := &ledgererror.PartialTransferError{
			Sender:                 senderName,
			Recipient:              recipient.Username(),
			Amount:                 amount,
			SenderTransactionID:    out.ID(),
			RecipientTransactionID: in.ID(),
			Err:                    err,
		}
		log.WithError(err).WithFields(
			logging.F("sender_transaction_id", out.ID()),
			logging.F("recipient_transaction_id", in.ID()),
		).Error("Partial transfer: sender saved, recipient not saved")
		return Result{}, partial
	}
	recipient.SetWallet(recipientNext)

	log.Info("Transfer completed", logging.F(logging.FieldTransactionID, out.ID()))
	return Result{
		SenderTransaction:    out,
		RecipientTransaction: in,
		SenderBalance:        senderNext.Balance(),
		RecipientBalance:     recipientNext.Balance(),
	}, nil
}

func transferCategory(kind models.TransactionType) models.Category {
	c, _ := models.NewCategory(models.TransferCategoryName, kind)
	return c
}

func withDescription(base, description string) string {
	if description == "" {
		return base
	}
	return base + ": " + description
}
