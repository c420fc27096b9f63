package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Publisher enqueues booking-confirmed events. Publish failures are logged
// and returned so the caller can ignore them: notification is best-effort
// and must never unwind a committed confirmation.
type Publisher struct {
	url    string
	logger *logrus.Logger
}

func NewPublisher(url string, logger *logrus.Logger) *Publisher {
	return &Publisher{url: url, logger: logger}
}

func (p *Publisher) PublishBookingConfirmed(ctx context.Context, event BookingConfirmedEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.logger.WithContext(ctx).WithError(err).Error("rabbitmq dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.logger.WithContext(ctx).WithError(err).Error("rabbitmq channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable so confirmations survive broker restarts.
	if _, err := ch.QueueDeclare(QueueBookingConfirmed, true, false, false, false, nil); err != nil {
		p.logger.WithContext(ctx).WithError(err).Error("rabbitmq queue declare failed")
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", QueueBookingConfirmed, false, false, pub); err != nil {
		p.logger.WithContext(ctx).WithError(err).Error("rabbitmq publish failed")
		return err
	}

	return nil
}
