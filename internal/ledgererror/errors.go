// Package ledgererror defines the typed failures returned by ledger operations.
// Callers switch on KindOf(err) instead of matching messages.
package ledgererror

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Kind tags an error with its place in the ledger's error taxonomy.
type Kind int

const (
	KindNone Kind = iota
	KindValidation
	KindInsufficientFunds
	KindNotFound
	KindSelfReference
	KindStorage
	KindPartialTransfer
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindValidation:
		return "validation"
	case KindInsufficientFunds:
		return "insufficient_funds"
	case KindNotFound:
		return "not_found"
	case KindSelfReference:
		return "self_reference"
	case KindStorage:
		return "storage"
	case KindPartialTransfer:
		return "partial_transfer"
	default:
		return "unknown"
	}
}

// KindOf classifies err. A partial transfer wraps a storage failure, so it is checked first.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var (
		partial *PartialTransferError
		storage *StorageError
		valid   *ValidationError
		funds   *InsufficientFundsError
		missing *NotFoundError
		self    *SelfReferenceError
	)
	switch {
	case errors.As(err, &partial):
		return KindPartialTransfer
	case errors.As(err, &funds):
		return KindInsufficientFunds
	case errors.As(err, &self):
		return KindSelfReference
	case errors.As(err, &missing):
		return KindNotFound
	case errors.As(err, &valid):
		return KindValidation
	case errors.As(err, &storage):
		return KindStorage
	default:
		return KindUnknown
	}
}

// ValidationError reports a malformed argument. Nothing was mutated.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Invalid builds a ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// InsufficientFundsError reports a transfer larger than the sender's balance.
type InsufficientFundsError struct {
	Balance  decimal.Decimal
	Required decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("Insufficient funds. Balance: %s, Required: %s",
		e.Balance.StringFixed(2), e.Required.StringFixed(2))
}

// NotFoundError reports an unknown entity, usually a recipient username.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.Entity, e.Key)
}

// SelfReferenceError reports a transfer whose recipient is the sender.
type SelfReferenceError struct {
	Username string
}

func (e *SelfReferenceError) Error() string {
	return fmt.Sprintf("user '%s' cannot transfer to themselves", e.Username)
}

// StorageError reports a failed read or write of a durable wallet record.
type StorageError struct {
	Op     string
	UserID string
	Err    error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed for user '%s': %v", e.Op, e.UserID, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// PartialTransferError reports a transfer whose sender record was saved but whose
// recipient record was not. The durable ledgers disagree until an operator intervenes.
type PartialTransferError struct {
	Sender                 string
	Recipient              string
	Amount                 decimal.Decimal
	SenderTransactionID    string
	RecipientTransactionID string
	Err                    error
}

func (e *PartialTransferError) Error() string {
	return fmt.Sprintf("partial transfer of %s from '%s' to '%s': sender saved, recipient not saved: %v",
		e.Amount.StringFixed(2), e.Sender, e.Recipient, e.Err)
}

func (e *PartialTransferError) Unwrap() error {
	return e.Err
}
