package store

import (
	"context"
	"sort"
	"sync"

	"fjacquet/finance-ledger/internal/ledgererror"
	"fjacquet/finance-ledger/internal/models"
)

// MockWalletStore is an in-memory WalletStore for tests. Records are kept encoded,
// so every Load returns an independent wallet just like a real backend.
type MockWalletStore struct {
	mu         sync.Mutex
	records    map[string][]byte
	loadErrors map[string]error
	saveErrors map[string]error

	// SaveCalls lists the user ids passed to Save, in call order, including failed saves.
	SaveCalls []string
}

// NewMockWalletStore returns an empty mock.
func NewMockWalletStore() *MockWalletStore {
	return &MockWalletStore{
		records:    make(map[string][]byte),
		loadErrors: make(map[string]error),
		saveErrors: make(map[string]error),
	}
}

// FailSave makes every Save of userID fail with err. A nil err clears the failure.
func (m *MockWalletStore) FailSave(userID string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.saveErrors, userID)
		return
	}
	m.saveErrors[userID] = err
}

// FailLoad makes every Load of userID fail with err. A nil err clears the failure.
func (m *MockWalletStore) FailLoad(userID string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.loadErrors, userID)
		return
	}
	m.loadErrors[userID] = err
}

// Seed stores wallet directly, bypassing injected failures.
func (m *MockWalletStore) Seed(wallet *models.Wallet) error {
	data, err := encodeWallet(wallet)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.records[wallet.UserID()] = data
	m.mu.Unlock()
	return nil
}

// Load returns the stored wallet, or an empty one.
func (m *MockWalletStore) Load(ctx context.Context, userID string) (*models.Wallet, error) {
	m.mu.Lock()
	data, ok := m.records[userID]
	loadErr := m.loadErrors[userID]
	m.mu.Unlock()

	if loadErr != nil {
		return nil, loadError(userID, loadErr)
	}
	if err := ctx.Err(); err != nil {
		return nil, loadError(userID, err)
	}
	if !ok {
		return models.NewWallet(userID), nil
	}
	w, err := decodeWallet(userID, data)
	if err != nil {
		return nil, loadError(userID, err)
	}
	return w, nil
}

// Save stores the wallet unless a failure was injected for its user.
func (m *MockWalletStore) Save(ctx context.Context, wallet *models.Wallet) error {
	if wallet == nil {
		return ledgererror.Invalid("wallet", "must not be nil")
	}
	userID := wallet.UserID()

	m.mu.Lock()
	m.SaveCalls = append(m.SaveCalls, userID)
	saveErr := m.saveErrors[userID]
	m.mu.Unlock()

	if saveErr != nil {
		return saveError(userID, saveErr)
	}
	if err := ctx.Err(); err != nil {
		return saveError(userID, err)
	}
	data, err := encodeWallet(wallet)
	if err != nil {
		return saveError(userID, err)
	}

	m.mu.Lock()
	m.records[userID] = data
	m.mu.Unlock()
	return nil
}

// Exists reports whether a record is stored.
func (m *MockWalletStore) Exists(_ context.Context, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.records[userID]
	return ok, nil
}

// Delete drops the record.
func (m *MockWalletStore) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, userID)
	return nil
}

// List returns the stored user ids, sorted.
func (m *MockWalletStore) List(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.records))
	for id := range m.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Record returns the raw stored record for userID.
func (m *MockWalletStore) Record(userID string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.records[userID]
	return append([]byte(nil), data...), ok
}
