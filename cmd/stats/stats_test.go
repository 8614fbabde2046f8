package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetFlags(t *testing.T) {
	t.Cleanup(func() { from, to, month = "", "", "" })
}

func TestStatsCommandMetadata(t *testing.T) {
	assert.Equal(t, "stats", Cmd.Use)
	for _, name := range []string{"format", "from", "to", "month", "categories"} {
		assert.NotNil(t, Cmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "text", Cmd.Flags().Lookup("format").DefValue)
}

func TestPeriodFromMonth(t *testing.T) {
	resetFlags(t)
	month = "2024-02"
	start, end, err := period()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.Local), start)
	assert.Equal(t, time.Date(2024, 2, 29, 23, 59, 59, 999999999, time.Local), end)
}

func TestPeriodRejectsMonthWithRange(t *testing.T) {
	resetFlags(t)
	month = "2024-02"
	from = "2024-02-03"
	_, _, err := period()
	assert.ErrorContains(t, err, "--month cannot be combined")
}

func TestStatsRejectsUnknownFormat(t *testing.T) {
	format = "pdf"
	t.Cleanup(func() { format = "text" })
	err := statsFunc(Cmd, nil)
	assert.ErrorContains(t, err, "unsupported output format: pdf")
}
