// Package store persists wallets. Each user's wallet is one self-describing record;
// saving replaces the record wholesale and loading a missing record yields an empty wallet.
package store

import (
	"context"
	"path/filepath"
	"strings"

	"fjacquet/finance-ledger/internal/ledgererror"
	"fjacquet/finance-ledger/internal/models"
)

// WalletStore is the durable home of wallets.
type WalletStore interface {
	// Load returns the stored wallet, or a fresh empty wallet when none is stored.
	Load(ctx context.Context, userID string) (*models.Wallet, error)
	// Save replaces the stored record with the wallet's current state.
	Save(ctx context.Context, wallet *models.Wallet) error
	// Exists reports whether a record is stored for userID.
	Exists(ctx context.Context, userID string) (bool, error)
	// Delete removes the record. Deleting a missing record is not an error.
	Delete(ctx context.Context, userID string) error
	// List returns the user ids with a stored record, sorted.
	List(ctx context.Context) ([]string, error)
}

// Backend names accepted by configuration.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// validateUserID rejects ids that cannot be used as a record key or file name.
func validateUserID(userID string) error {
	trimmed := strings.TrimSpace(userID)
	if trimmed == "" {
		return ledgererror.Invalid("user id", "must not be empty")
	}
	if trimmed != userID {
		return ledgererror.Invalid("user id", "must not have surrounding whitespace")
	}
	if userID == "." || userID == ".." || strings.ContainsAny(userID, `/\`) || filepath.Base(userID) != userID {
		return ledgererror.Invalid("user id", "must not contain path separators")
	}
	return nil
}

func loadError(userID string, err error) error {
	return &ledgererror.StorageError{Op: "load", UserID: userID, Err: err}
}

func saveError(userID string, err error) error {
	return &ledgererror.StorageError{Op: "save", UserID: userID, Err: err}
}

func deleteError(userID string, err error) error {
	return &ledgererror.StorageError{Op: "delete", UserID: userID, Err: err}
}
