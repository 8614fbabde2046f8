package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/finance-ledger/internal/fileutils"
	"fjacquet/finance-ledger/internal/ledgererror"
	"fjacquet/finance-ledger/internal/logging"
	"fjacquet/finance-ledger/internal/models"
)

// DefaultDataDirectory is used when no directory is configured.
const DefaultDataDirectory = "data"

const walletFileSuffix = "_wallet.json"

// JSONStore keeps one <userId>_wallet.json file per user in a directory.
// The directory is created on the first save.
type JSONStore struct {
	dir    string
	logger logging.Logger
}

// NewJSONStore creates a store rooted at dir.
func NewJSONStore(dir string, logger logging.Logger) *JSONStore {
	if strings.TrimSpace(dir) == "" {
		dir = DefaultDataDirectory
	}
	return &JSONStore{
		dir:    dir,
		logger: logging.OrDefault(logger).WithField(logging.FieldBackend, BackendJSON),
	}
}

// Dir returns the data directory.
func (s *JSONStore) Dir() string {
	return s.dir
}

// Path returns the record file for userID.
func (s *JSONStore) Path(userID string) (string, error) {
	if err := validateUserID(userID); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, userID+walletFileSuffix), nil
}

// Load reads the user's record. A missing file yields an empty wallet.
func (s *JSONStore) Load(ctx context.Context, userID string) (*models.Wallet, error) {
	if err := ctx.Err(); err != nil {
		return nil, loadError(userID, err)
	}
	path, err := s.Path(userID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Debug("No wallet record, starting empty",
				logging.F(logging.FieldUserID, userID),
				logging.F(logging.FieldFile, path))
			return models.NewWallet(userID), nil
		}
		return nil, loadError(userID, fmt.Errorf("read %s: %w", path, err))
	}

	w, err := decodeWallet(userID, data)
	if err != nil {
		s.logger.WithError(err).Error("Corrupt wallet record",
			logging.F(logging.FieldUserID, userID),
			logging.F(logging.FieldFile, path))
		return nil, loadError(userID, err)
	}

	s.logger.Debug("Loaded wallet",
		logging.F(logging.FieldUserID, userID),
		logging.F(logging.FieldCount, w.TransactionCount()))
	return w, nil
}

// Save replaces the user's record file.
func (s *JSONStore) Save(ctx context.Context, wallet *models.Wallet) error {
	if wallet == nil {
		return ledgererror.Invalid("wallet", "must not be nil")
	}
	userID := wallet.UserID()
	if err := ctx.Err(); err != nil {
		return saveError(userID, err)
	}
	path, err := s.Path(userID)
	if err != nil {
		return err
	}

	data, err := encodeWallet(wallet)
	if err != nil {
		return saveError(userID, fmt.Errorf("encode: %w", err))
	}
	if err := fileutils.WriteFileAtomic(path, data, 0644); err != nil {
		return saveError(userID, err)
	}

	s.logger.Debug("Saved wallet",
		logging.F(logging.FieldUserID, userID),
		logging.F(logging.FieldFile, path))
	return nil
}

// Exists reports whether a record file is present.
func (s *JSONStore) Exists(ctx context.Context, userID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, loadError(userID, err)
	}
	path, err := s.Path(userID)
	if err != nil {
		return false, err
	}
	return fileutils.FileExists(path), nil
}

// Delete removes the record file.
func (s *JSONStore) Delete(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return deleteError(userID, err)
	}
	path, err := s.Path(userID)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return deleteError(userID, err)
	}
	s.logger.Info("Deleted wallet record", logging.F(logging.FieldUserID, userID))
	return nil
}

// List returns the users with a record file in the directory.
func (s *JSONStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	names, err := fileutils.ListFilesWithSuffix(s.dir, walletFileSuffix)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(names))
	for _, name := range names {
		if id := strings.TrimSuffix(name, walletFileSuffix); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
