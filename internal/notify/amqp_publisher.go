package notify

import (
	"context"

	"fjacquet/finance-ledger/internal/amqp"
)

// AlertSender is the part of amqp.Client the publisher needs.
type AlertSender interface {
	PublishAlert(ctx context.Context, msg *amqp.AlertMessage) error
}

// AMQPPublisher forwards alerts to RabbitMQ.
type AMQPPublisher struct {
	sender AlertSender
}

// NewAMQPPublisher wraps sender, typically an *amqp.Client.
func NewAMQPPublisher(sender AlertSender) *AMQPPublisher {
	return &AMQPPublisher{sender: sender}
}

// Publish converts the alert to its wire message and sends it.
func (p *AMQPPublisher) Publish(ctx context.Context, alert Alert) error {
	msg := amqp.NewAlertMessage(alert.UserID, string(alert.Kind), alert.Category, alert.Message)
	if !alert.At.IsZero() {
		msg.Timestamp = alert.At
	}
	return p.sender.PublishAlert(ctx, msg)
}
