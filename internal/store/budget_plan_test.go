package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func TestLoadBudgetPlan(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		want    map[string]string
	}{
		{
			name: "budgets mapping",
			content: `budgets:
  - category: food
    limit: 300
  - category: rent
    limit: "1250.50"
`,
			want: map[string]string{"food": "300", "rent": "1250.5"},
		},
		{
			name: "bare list",
			content: `- category: travel
  limit: 99.99
`,
			want: map[string]string{"travel": "99.99"},
		},
		{name: "empty file", content: "", want: map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			writeFile(t, path, tt.content)

			plan, err := LoadBudgetPlan(path)
			require.NoError(t, err)
			got := make(map[string]string)
			for _, e := range plan {
				got[e.Category] = e.Limit.String()
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadBudgetPlan_MissingFileIsEmpty(t *testing.T) {
	plan, err := LoadBudgetPlan(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Empty(t, plan)
}

func TestLoadBudgetPlan_InvalidLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	writeFile(t, path, "budgets:\n  - category: food\n    limit: lots\n")

	_, err := LoadBudgetPlan(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid limit")
}

func TestSaveBudgetPlan_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plans", "plan.yaml")
	plan := []BudgetPlanEntry{
		{Category: "food", Limit: dec("300")},
		{Category: "rent", Limit: dec("1250.5")},
	}

	require.NoError(t, SaveBudgetPlan(path, plan))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "limit: 300\n")

	got, err := LoadBudgetPlan(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "rent", got[1].Category)
	assert.True(t, got[1].Limit.Equal(dec("1250.5")))
}
