package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/finance-ledger/internal/ledgererror"
	"fjacquet/finance-ledger/internal/logging"
	"fjacquet/finance-ledger/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJSONStore(t *testing.T) (*JSONStore, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "data")
	return NewJSONStore(dir, logging.NewMockLogger()), dir
}

func TestJSONStore_RoundTrip(t *testing.T) {
	s, dir := newTestJSONStore(t)
	ctx := context.Background()
	w := sampleWallet(t, "alice")

	require.NoError(t, s.Save(ctx, w))
	assert.FileExists(t, filepath.Join(dir, "alice_wallet.json"), "data directory is created on first save")

	got, err := s.Load(ctx, "alice")
	require.NoError(t, err)
	assertSameWallet(t, w, got)

	// Saving the loaded wallet yields byte-identical content.
	first, err := os.ReadFile(filepath.Join(dir, "alice_wallet.json"))
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, got))
	second, err := os.ReadFile(filepath.Join(dir, "alice_wallet.json"))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestJSONStore_LoadMissingIsEmpty(t *testing.T) {
	s, dir := newTestJSONStore(t)
	ctx := context.Background()

	w, err := s.Load(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, "nobody", w.UserID())
	assert.True(t, w.Balance().IsZero())
	assert.Equal(t, 0, w.TransactionCount())

	exists, err := s.Exists(ctx, "nobody")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoDirExists(t, dir, "loading never creates files")
}

func TestJSONStore_SaveReplacesRecord(t *testing.T) {
	s, _ := newTestJSONStore(t)
	ctx := context.Background()

	w := sampleWallet(t, "alice")
	require.NoError(t, s.Save(ctx, w))

	fresh := models.NewWallet("alice")
	require.NoError(t, s.Save(ctx, fresh))

	got, err := s.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, got.TransactionCount())
	assert.Empty(t, got.Budgets())
}

func TestJSONStore_ExistsDeleteList(t *testing.T) {
	s, _ := newTestJSONStore(t)
	ctx := context.Background()

	ids, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, s.Save(ctx, models.NewWallet("bob")))
	require.NoError(t, s.Save(ctx, models.NewWallet("alice")))

	exists, err := s.Exists(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, exists)

	ids, err = s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, ids)

	require.NoError(t, s.Delete(ctx, "bob"))
	require.NoError(t, s.Delete(ctx, "bob"), "deleting a missing record is not an error")

	exists, err = s.Exists(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestJSONStore_RejectsUnsafeUserIDs(t *testing.T) {
	s, _ := newTestJSONStore(t)
	ctx := context.Background()

	for _, id := range []string{"", " ", "../etc", "a/b", `a\b`, "..", " alice"} {
		_, err := s.Load(ctx, id)
		assert.Equal(t, ledgererror.KindValidation, ledgererror.KindOf(err), "id %q", id)
		err = s.Save(ctx, models.NewWallet(id))
		assert.Equal(t, ledgererror.KindValidation, ledgererror.KindOf(err), "id %q", id)
	}
	assert.Equal(t, ledgererror.KindValidation, ledgererror.KindOf(s.Save(ctx, nil)))
}

func TestJSONStore_CorruptRecordIsStorageError(t *testing.T) {
	s, dir := newTestJSONStore(t)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alice_wallet.json"),
		[]byte(`{"userId":"alice","balance":10,"transactions":[]}`), 0644))

	_, err := s.Load(context.Background(), "alice")
	require.Error(t, err)
	assert.Equal(t, ledgererror.KindStorage, ledgererror.KindOf(err))
	assert.Contains(t, err.Error(), "does not match")
}

func TestJSONStore_UnwritableDirectory(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "data")
	require.NoError(t, os.WriteFile(blocker, []byte("not a directory"), 0644))

	s := NewJSONStore(blocker, logging.NewMockLogger())
	err := s.Save(context.Background(), models.NewWallet("alice"))
	require.Error(t, err)
	assert.Equal(t, ledgererror.KindStorage, ledgererror.KindOf(err))
}

func TestJSONStore_CanceledContext(t *testing.T) {
	s, _ := newTestJSONStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Load(ctx, "alice")
	assert.Equal(t, ledgererror.KindStorage, ledgererror.KindOf(err))
	assert.ErrorIs(t, s.Save(ctx, models.NewWallet("alice")), context.Canceled)
}

func TestNewJSONStore_DefaultDirectory(t *testing.T) {
	s := NewJSONStore("  ", nil)
	assert.Equal(t, DefaultDataDirectory, s.Dir())

	path, err := s.Path("alice")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("data", "alice_wallet.json"), path)
}
