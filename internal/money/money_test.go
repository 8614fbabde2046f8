package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1234.56", "1234.56"},
		{" 12.50 ", "12.5"},
		{"1,234.56", "1234.56"},
		{"1.234,56", "1234.56"},
		{"1'234.56", "1234.56"},
		{"1234,5", "1234.5"},
		{"1,234", "1234"},
		{"CHF 99.90", "99.9"},
		{"€10", "10"},
		{"-5", "-5"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.expected)), "got %s", got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("")
	assert.Error(t, err)
	_, err = Parse("   ")
	assert.Error(t, err)
	_, err = Parse("twelve")
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	amount := decimal.RequireFromString("1234.5")
	assert.Equal(t, "1234.50", Format(amount, ""))
	assert.Equal(t, "€1234.50", Format(amount, "eur"))
	assert.Equal(t, "$1234.50", Format(amount, "USD"))
	assert.Equal(t, "CHF 1234.50", Format(amount, "CHF"))
}
