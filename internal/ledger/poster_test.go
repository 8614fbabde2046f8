package ledger

import (
	"testing"

	"fjacquet/finance-ledger/internal/ledgererror"
	"fjacquet/finance-ledger/internal/logging"
	"fjacquet/finance-ledger/internal/models"
	"fjacquet/finance-ledger/internal/notify"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) AfterExpense(wallet *models.Wallet, category models.Category, amount decimal.Decimal) {
	m.Called(wallet, category, amount)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func category(t *testing.T, name string, kind models.TransactionType) models.Category {
	t.Helper()
	c, err := models.NewCategory(name, kind)
	require.NoError(t, err)
	return c
}

func TestPoster_PostIncome(t *testing.T) {
	poster := NewPoster(nil, logging.NewMockLogger())
	w := models.NewWallet("alice")

	tx, err := poster.PostIncome(w, dec("100"), category(t, "salary", models.Income), "March")
	require.NoError(t, err)

	assert.True(t, tx.IsIncome())
	assert.Equal(t, "March", tx.Description())
	assert.True(t, w.Balance().Equal(dec("100")))
	assert.Equal(t, 1, w.TransactionCount())
}

func TestPoster_PostExpense_UpdatesBudgetAndNotifies(t *testing.T) {
	notifier := &MockNotifier{}
	poster := NewPoster(notifier, logging.NewMockLogger())
	w := models.NewWallet("alice")
	food := category(t, "food", models.Expense)
	_, err := w.SetBudget(food, dec("100"))
	require.NoError(t, err)

	notifier.On("AfterExpense", w, food, mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(dec("30"))
	})).Once()

	tx, err := poster.PostExpense(w, dec("30"), food, "groceries")
	require.NoError(t, err)

	assert.True(t, tx.IsExpense())
	assert.True(t, w.Balance().Equal(dec("-30")))
	b, ok := w.Budget(food)
	require.True(t, ok)
	assert.True(t, b.Spent().Equal(dec("30")))
	notifier.AssertExpectations(t)
}

func TestPoster_NormalizesCategoryKind(t *testing.T) {
	poster := NewPoster(nil, nil)
	w := models.NewWallet("alice")
	food := category(t, "food", models.Expense)
	_, err := w.SetBudget(food, dec("50"))
	require.NoError(t, err)

	tx, err := poster.PostExpense(w, dec("20"), category(t, "food", models.Income), "")
	require.NoError(t, err)
	assert.Equal(t, models.Expense, tx.Category().Kind())

	b, _ := w.Budget(food)
	assert.True(t, b.Spent().Equal(dec("20")), "expense must land in the EXPENSE budget")

	tx, err = poster.PostIncome(w, dec("5"), food, "refund")
	require.NoError(t, err)
	assert.Equal(t, models.Income, tx.Category().Kind())
}

func TestPoster_RejectsInvalidInput(t *testing.T) {
	food := category(t, "food", models.Expense)

	tests := []struct {
		name     string
		wallet   *models.Wallet
		amount   decimal.Decimal
		category models.Category
		field    string
	}{
		{"nil wallet", nil, dec("10"), food, "wallet"},
		{"zero amount", models.NewWallet("alice"), decimal.Zero, food, "amount"},
		{"negative amount", models.NewWallet("alice"), dec("-1"), food, "amount"},
		{"empty category", models.NewWallet("alice"), dec("10"), models.Category{}, "category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := &MockNotifier{}
			poster := NewPoster(notifier, logging.NewMockLogger())

			_, err := poster.PostExpense(tt.wallet, tt.amount, tt.category, "")
			require.Error(t, err)
			assert.Equal(t, ledgererror.KindValidation, ledgererror.KindOf(err))

			var verr *ledgererror.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)

			if tt.wallet != nil {
				assert.Equal(t, 0, tt.wallet.TransactionCount())
				assert.True(t, tt.wallet.Balance().IsZero())
			}
			notifier.AssertNotCalled(t, "AfterExpense", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestPoster_WithNotifyService(t *testing.T) {
	service := notify.NewService(0.8, logging.NewMockLogger())
	poster := NewPoster(service, logging.NewMockLogger())
	w := models.NewWallet("alice")
	food := category(t, "food", models.Expense)

	_, err := poster.PostIncome(w, dec("100"), category(t, "salary", models.Income), "")
	require.NoError(t, err)
	_, err = w.SetBudget(food, dec("100"))
	require.NoError(t, err)

	_, err = poster.PostExpense(w, dec("85"), food, "")
	require.NoError(t, err)

	notes := service.Notifications()
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0], "BUDGET WARNING: Category 'food' is at 85")
}
