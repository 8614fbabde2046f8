// Package common provides CSV import and export of wallet transactions.
package common

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fjacquet/finance-ledger/internal/logging"
	"fjacquet/finance-ledger/internal/models"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// DefaultDelimiter is used when no delimiter is configured.
const DefaultDelimiter = ','

// DateLayout is the date format of the CSV Date column.
const DateLayout = "2006-01-02 15:04:05"

// TransactionRow is one CSV line of an exported ledger.
type TransactionRow struct {
	ID          string `csv:"ID"`
	Date        string `csv:"Date"`
	Type        string `csv:"Type"`
	Category    string `csv:"Category"`
	Amount      string `csv:"Amount"`
	Description string `csv:"Description"`
}

// NewTransactionRow flattens t. Amounts are written with two decimals.
func NewTransactionRow(t models.Transaction) TransactionRow {
	return TransactionRow{
		ID:          t.ID(),
		Date:        t.Date().Format(DateLayout),
		Type:        string(t.Kind()),
		Category:    t.Category().Name(),
		Amount:      t.Amount().StringFixed(2),
		Description: t.Description(),
	}
}

// Transaction rebuilds a transaction from the row. An empty ID gets a fresh one
// and an empty Date means now.
func (r TransactionRow) Transaction() (models.Transaction, error) {
	kind, err := models.ParseTransactionType(r.Type)
	if err != nil {
		return models.Transaction{}, err
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(r.Amount))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("invalid amount %q: %w", r.Amount, err)
	}
	category, err := models.NewCategory(r.Category, kind)
	if err != nil {
		return models.Transaction{}, err
	}
	var date time.Time
	if s := strings.TrimSpace(r.Date); s != "" {
		date, err = time.ParseInLocation(DateLayout, s, time.Local)
		if err != nil {
			return models.Transaction{}, fmt.Errorf("invalid date %q: %w", r.Date, err)
		}
	}
	return models.RestoreTransaction(strings.TrimSpace(r.ID), amount, category, kind, date, r.Description)
}

// ReadCSVFile reads CSV data into a slice of structs using gocsv.
// TCSVRow is the struct type that maps to the CSV columns.
func ReadCSVFile[TCSVRow any](filePath string, delimiter rune, logger logging.Logger) ([]TCSVRow, error) {
	logger = logging.OrDefault(logger)
	logger.Info("Reading CSV file", logging.F(logging.FieldFile, filePath))

	file, err := os.Open(filePath)
	if err != nil {
		logger.WithError(err).Error("Failed to open CSV file")
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	reader := csv.NewReader(file)
	reader.Comma = orDefault(delimiter)

	var rows []TCSVRow
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		logger.WithError(err).Error("Failed to parse CSV file")
		return nil, fmt.Errorf("error parsing CSV file: %w", err)
	}

	logger.Info("Successfully read CSV data", logging.F(logging.FieldCount, len(rows)))
	return rows, nil
}

// WriteTransactionsToCSV writes transactions to csvFile, creating its directory if needed.
func WriteTransactionsToCSV(transactions []models.Transaction, csvFile string, delimiter rune, logger logging.Logger) error {
	logger = logging.OrDefault(logger)
	if transactions == nil {
		return fmt.Errorf("cannot write nil transactions to CSV")
	}

	if err := os.MkdirAll(filepath.Dir(csvFile), 0750); err != nil {
		logger.WithError(err).Error("Failed to create directory")
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(csvFile)
	if err != nil {
		logger.WithError(err).Error("Failed to create CSV file")
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	rows := make([]TransactionRow, 0, len(transactions))
	for _, t := range transactions {
		rows = append(rows, NewTransactionRow(t))
	}

	csvWriter := csv.NewWriter(file)
	csvWriter.Comma = orDefault(delimiter)
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		logger.WithError(err).Error("Failed to marshal transactions to CSV")
		return fmt.Errorf("error writing CSV data: %w", err)
	}

	logger.Info("Successfully wrote transactions to CSV file",
		logging.F(logging.FieldFile, csvFile),
		logging.F(logging.FieldCount, len(rows)))
	return nil
}

// ReadTransactionsCSV reads a file written by WriteTransactionsToCSV.
func ReadTransactionsCSV(csvFile string, delimiter rune, logger logging.Logger) ([]models.Transaction, error) {
	rows, err := ReadCSVFile[TransactionRow](csvFile, delimiter, logger)
	if err != nil {
		return nil, err
	}
	out := make([]models.Transaction, 0, len(rows))
	for i, r := range rows {
		t, err := r.Transaction()
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		out = append(out, t)
	}
	return out, nil
}

// ParseDelimiter returns the first rune of s, or DefaultDelimiter for an empty string.
// "\t" and "tab" both mean a tab.
func ParseDelimiter(s string) rune {
	switch s {
	case "":
		return DefaultDelimiter
	case `\t`, "tab":
		return '\t'
	}
	return []rune(s)[0]
}

func orDefault(delimiter rune) rune {
	if delimiter == 0 {
		return DefaultDelimiter
	}
	return delimiter
}
