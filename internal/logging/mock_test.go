package logging

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockLogger_DerivedLoggersShareEntries(t *testing.T) {
	root := NewMockLogger()
	child := root.WithField(FieldUserID, "alice").WithError(errors.New("boom"))

	child.Warn("budget warning", F(FieldCategory, "food"))
	root.Info("plain")

	entries := root.GetEntries()
	require.Len(t, entries, 2)

	warn := entries[0]
	assert.Equal(t, "WARN", warn.Level)
	assert.EqualError(t, warn.Error, "boom")
	v, ok := warn.FieldValue(FieldUserID)
	assert.True(t, ok)
	assert.Equal(t, "alice", v)
	v, ok = warn.FieldValue(FieldCategory)
	assert.True(t, ok)
	assert.Equal(t, "food", v)

	assert.True(t, root.HasEntry("INFO", "plain"))
	assert.Len(t, root.GetEntriesByLevel("WARN"), 1)
}

func TestMockLogger_FieldsDoNotLeakBetweenSiblings(t *testing.T) {
	root := NewMockLogger()
	a := root.WithField("a", 1)
	b := root.WithField("b", 2)

	a.Info("from a")
	b.Info("from b")

	entries := root.GetEntries()
	require.Len(t, entries, 2)
	_, hasB := entries[0].FieldValue("b")
	assert.False(t, hasB)
	_, hasA := entries[1].FieldValue("a")
	assert.False(t, hasA)
}

func TestMockLogger_Clear(t *testing.T) {
	m := NewMockLogger()
	m.Error("failed after 3 attempts")
	assert.True(t, m.HasEntry("ERROR", "failed after 3 attempts"))

	m.Clear()
	assert.Empty(t, m.GetEntries())
}

func TestMockLogger_ConcurrentUse(t *testing.T) {
	m := NewMockLogger()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.WithField(FieldCount, i).Debug("tick")
		}(i)
	}
	wg.Wait()
	assert.Len(t, m.GetEntriesByLevel("DEBUG"), 20)
}
