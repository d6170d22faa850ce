package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Consumer listens on the reservation queues and appends one line per
// event to LogPath.
type Consumer struct {
	URL     string
	LogPath string
	Log     logrus.FieldLogger
}

// NewConsumer returns a consumer writing to logs/reservations.log.
func NewConsumer(url string, log logrus.FieldLogger) *Consumer {
	return &Consumer{
		URL:     url,
		LogPath: filepath.Join("logs", "reservations.log"),
		Log:     log.WithField("component", "reservation-consumer"),
	}
}

// Run connects to the broker and consumes until ctx is cancelled,
// reconnecting with exponential backoff (capped at 30s) whenever the
// connection drops.  It returns nil after cancellation.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return nil
		}
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			c.Log.WithError(err).Warnf("failed to dial broker; retrying in %s", backoff)
			if !sleep(ctx, backoff) {
				return nil
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return nil
		}
		c.Log.WithError(err).Warn("consume loop ended; reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return nil
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.Log.WithError(err).Warn("set QoS failed")
	}

	deliveries := make(chan amqp.Delivery)
	for _, name := range Queues {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", name, err)
		}
		msgs, err := ch.Consume(name, "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("queue consume %s: %w", name, err)
		}
		go func(msgs <-chan amqp.Delivery) {
			for d := range msgs {
				select {
				case deliveries <- d:
				case <-ctx.Done():
					return
				}
			}
		}(msgs)
	}

	closed := conn.NotifyClose(make(chan *amqp.Error, 1))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case amqpErr := <-closed:
			if amqpErr != nil {
				return amqpErr
			}
			return errors.New("connection closed")
		case d := <-deliveries:
			if err := c.handleMessage(d.Body); err != nil {
				c.Log.WithError(err).Error("handle message failed")
				_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Consumer) handleMessage(body []byte) error {
	var ev ReservationEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.LogPath), 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(c.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(formatLine(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

func formatLine(ev ReservationEvent) string {
	seats := make([]string, 0, len(ev.Tickets))
	for _, t := range ev.Tickets {
		seats = append(seats, fmt.Sprintf("p%d:r%d:s%d", t.PerformanceID, t.Row, t.Seat))
	}
	action := "Reservation created"
	switch ev.Type {
	case ReservationUpdated:
		action = "Reservation updated"
	case ReservationCancelled:
		action = "Reservation cancelled"
	}
	return fmt.Sprintf("[%s] %s | reservation_id=%d | user_id=%d | created_at=%s | seats=[%s]\n",
		ev.OccurredAt, action, ev.ReservationID, ev.UserID, ev.CreatedAt, strings.Join(seats, ","))
}
