package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fjacquet/finance-ledger/internal/ledgererror"
	"fjacquet/finance-ledger/internal/logging"
	"fjacquet/finance-ledger/internal/models"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the same JSON wallet records in a single SQLite table.
type SQLiteStore struct {
	db     *sql.DB
	logger logging.Logger
}

// NewSQLiteStore opens (or creates) the database at dbPath and applies migrations.
func NewSQLiteStore(dbPath string, logger logging.Logger) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logging.OrDefault(logger).WithField(logging.FieldBackend, BackendSQLite),
	}, nil
}

// Close releases the database.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load reads the user's record. A missing row yields an empty wallet.
func (s *SQLiteStore) Load(ctx context.Context, userID string) (*models.Wallet, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT record FROM wallet_records WHERE user_id = ?`, userID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NewWallet(userID), nil
	}
	if err != nil {
		return nil, loadError(userID, fmt.Errorf("query record: %w", err))
	}

	w, err := decodeWallet(userID, []byte(data))
	if err != nil {
		s.logger.WithError(err).Error("Corrupt wallet record", logging.F(logging.FieldUserID, userID))
		return nil, loadError(userID, err)
	}
	return w, nil
}

// Save upserts the user's record.
func (s *SQLiteStore) Save(ctx context.Context, wallet *models.Wallet) error {
	if wallet == nil {
		return ledgererror.Invalid("wallet", "must not be nil")
	}
	userID := wallet.UserID()
	if err := validateUserID(userID); err != nil {
		return err
	}

	data, err := encodeWallet(wallet)
	if err != nil {
		return saveError(userID, fmt.Errorf("encode: %w", err))
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO wallet_records (user_id, record, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET record = excluded.record, updated_at = excluded.updated_at`,
		userID, string(data), time.Now().UTC())
	if err != nil {
		return saveError(userID, fmt.Errorf("upsert record: %w", err))
	}

	s.logger.Debug("Saved wallet", logging.F(logging.FieldUserID, userID))
	return nil
}

// Exists reports whether a row is stored for userID.
func (s *SQLiteStore) Exists(ctx context.Context, userID string) (bool, error) {
	if err := validateUserID(userID); err != nil {
		return false, err
	}
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM wallet_records WHERE user_id = ?`, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, loadError(userID, err)
	}
	return true, nil
}

// Delete removes the user's row.
func (s *SQLiteStore) Delete(ctx context.Context, userID string) error {
	if err := validateUserID(userID); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM wallet_records WHERE user_id = ?`, userID); err != nil {
		return deleteError(userID, err)
	}
	s.logger.Info("Deleted wallet record", logging.F(logging.FieldUserID, userID))
	return nil
}

// List returns all stored user ids.
func (s *SQLiteStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT user_id FROM wallet_records ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
