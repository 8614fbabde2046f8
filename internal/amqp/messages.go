package amqp

import (
	"encoding/json"
	"time"
)

// AlertMessage carries one ledger notification to downstream consumers.
type AlertMessage struct {
	UserID    string    `json:"user_id"`
	Kind      string    `json:"kind"`
	Category  string    `json:"category,omitempty"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// NewAlertMessage stamps a message with the current time.
func NewAlertMessage(userID, kind, category, message string) *AlertMessage {
	return &AlertMessage{
		UserID:    userID,
		Kind:      kind,
		Category:  category,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *AlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// AlertMessageFromJSON decodes a message published by PublishAlert.
func AlertMessageFromJSON(data []byte) (*AlertMessage, error) {
	var msg AlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
