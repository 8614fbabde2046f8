package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"fjacquet/finance-ledger/internal/models"

	"github.com/shopspring/decimal"
)

// dateLayout is an ISO-8601 local date-time without zone. Trailing zero fractions are dropped.
const dateLayout = "2006-01-02T15:04:05.999999999"

// Layouts accepted when reading. Records written by older tools may omit seconds.
var readLayouts = []string{dateLayout, "2006-01-02T15:04", time.RFC3339Nano}

type walletRecord struct {
	UserID       string              `json:"userId"`
	Balance      amount              `json:"balance"`
	Transactions []transactionRecord `json:"transactions"`
	Budgets      []budgetRecord      `json:"budgets"`
}

type transactionRecord struct {
	ID          string `json:"id"`
	Amount      amount `json:"amount"`
	Category    string `json:"category"`
	Type        string `json:"type"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

type budgetRecord struct {
	Category     string `json:"category"`
	CategoryType string `json:"categoryType"`
	Limit        amount `json:"limit"`
	Spent        amount `json:"spent"`
}

// amount is a decimal written as a bare JSON number and read from a number or a string.
type amount struct {
	decimal.Decimal
}

func (a amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

func (a *amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		a.Decimal = decimal.Zero
		return nil
	}
	s := strings.Trim(string(data), `"`)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid amount %s: %w", data, err)
	}
	a.Decimal = d
	return nil
}

// encodeWallet renders the wallet as an indented JSON record.
func encodeWallet(w *models.Wallet) ([]byte, error) {
	snap := w.Snapshot()
	rec := walletRecord{
		UserID:       snap.UserID,
		Balance:      amount{snap.Balance},
		Transactions: make([]transactionRecord, 0, len(snap.Transactions)),
		Budgets:      make([]budgetRecord, 0, len(snap.Budgets)),
	}
	for _, t := range snap.Transactions {
		rec.Transactions = append(rec.Transactions, transactionRecord{
			ID:          t.ID(),
			Amount:      amount{t.Amount()},
			Category:    t.Category().Name(),
			Type:        string(t.Kind()),
			Date:        t.Date().In(time.Local).Format(dateLayout),
			Description: t.Description(),
		})
	}
	for _, b := range snap.Budgets {
		rec.Budgets = append(rec.Budgets, budgetRecord{
			Category:     b.Category().Name(),
			CategoryType: string(b.Category().Kind()),
			Limit:        amount{b.Limit()},
			Spent:        amount{b.Spent()},
		})
	}
	return json.MarshalIndent(rec, "", "  ")
}

// decodeWallet rebuilds a wallet from a record. A transaction's category kind is its type.
// The stored balance must equal the signed sum of the transactions.
func decodeWallet(userID string, data []byte) (*models.Wallet, error) {
	var rec walletRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("malformed record: %w", err)
	}
	if rec.UserID == "" {
		rec.UserID = userID
	}
	if rec.UserID != userID {
		return nil, fmt.Errorf("record belongs to %q, not %q", rec.UserID, userID)
	}

	txs := make([]models.Transaction, 0, len(rec.Transactions))
	for i, tr := range rec.Transactions {
		kind, err := models.ParseTransactionType(tr.Type)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		category, err := models.NewCategory(tr.Category, kind)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		date, err := parseDate(tr.Date)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		tx, err := models.RestoreTransaction(tr.ID, tr.Amount.Decimal, category, kind, date, tr.Description)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		txs = append(txs, tx)
	}

	budgets := make([]models.Budget, 0, len(rec.Budgets))
	for i, br := range rec.Budgets {
		kind := models.Expense
		if br.CategoryType != "" {
			k, err := models.ParseTransactionType(br.CategoryType)
			if err != nil {
				return nil, fmt.Errorf("budget %d: %w", i, err)
			}
			kind = k
		}
		category, err := models.NewCategory(br.Category, kind)
		if err != nil {
			return nil, fmt.Errorf("budget %d: %w", i, err)
		}
		b, err := models.RestoreBudget(category, br.Limit.Decimal, br.Spent.Decimal)
		if err != nil {
			return nil, fmt.Errorf("budget %d: %w", i, err)
		}
		budgets = append(budgets, b)
	}

	w := models.RestoreWallet(rec.UserID, rec.Balance.Decimal, txs, budgets)
	if ledger := w.LedgerBalance(); !ledger.Equal(rec.Balance.Decimal) {
		return nil, fmt.Errorf("stored balance %s does not match transactions total %s",
			rec.Balance.Decimal.String(), ledger.String())
	}
	return w, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range readLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}
