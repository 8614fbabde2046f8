package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldConstants_AreUnique(t *testing.T) {
	all := []string{
		FieldUserID, FieldRecipient, FieldAmount, FieldBalance, FieldCategory,
		FieldKind, FieldTransactionID, FieldSessionID, FieldOperation, FieldBackend,
		FieldFile, FieldReason, FieldError, FieldCount, FieldDuration, FieldExchange,
	}

	seen := make(map[string]bool, len(all))
	for _, name := range all {
		assert.NotEmpty(t, name)
		assert.False(t, seen[name], "duplicate field name %q", name)
		seen[name] = true
	}
}

func TestF(t *testing.T) {
	f := F(FieldUserID, "alice")
	assert.Equal(t, Field{Key: "user_id", Value: "alice"}, f)
}
