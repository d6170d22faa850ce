package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Publisher sends reservation events to RabbitMQ.  Each Publish dials a
// fresh connection; reservation traffic is low and this keeps the
// publisher free of reconnect state.
type Publisher struct {
	url string
	log logrus.FieldLogger
}

// NewPublisher returns a Publisher for the broker at url.
func NewPublisher(url string, log logrus.FieldLogger) *Publisher {
	return &Publisher{url: url, log: log.WithField("component", "reservation-publisher")}
}

// Publish declares the event's queue (durable) and sends ev as a
// persistent JSON message routed by ev.Type.
func (p *Publisher) Publish(ctx context.Context, ev ReservationEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(ev.Type, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", ev.Type, err)
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         ev.Type,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", ev.Type, false, false, pub); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	p.log.WithFields(logrus.Fields{
		"event":          ev.Type,
		"reservation_id": ev.ReservationID,
	}).Debug("event published")
	return nil
}

// NopPublisher drops every event.  Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ReservationEvent) error { return nil }
