package amqp

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertMessage_WireFormat(t *testing.T) {
	before := time.Now()
	msg := NewAlertMessage("alice", "budget_exceeded", "food", "BUDGET EXCEEDED")
	assert.False(t, msg.Timestamp.Before(before))

	body, err := msg.ToJSON()
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &raw))
	assert.Equal(t, "alice", raw["user_id"])
	assert.Equal(t, "budget_exceeded", raw["kind"])
	assert.Equal(t, "food", raw["category"])
	assert.Contains(t, raw, "timestamp")

	decoded, err := AlertMessageFromJSON(body)
	require.NoError(t, err)
	assert.Equal(t, msg.Message, decoded.Message)
	assert.True(t, msg.Timestamp.Equal(decoded.Timestamp))
}

func TestAlertMessage_OmitsEmptyCategory(t *testing.T) {
	body, err := NewAlertMessage("bob", "negative_balance", "", "NEGATIVE BALANCE").ToJSON()
	require.NoError(t, err)
	assert.NotContains(t, string(body), "category")
}

func TestAlertMessageFromJSON_Invalid(t *testing.T) {
	_, err := AlertMessageFromJSON([]byte("{not json"))
	assert.Error(t, err)
}
