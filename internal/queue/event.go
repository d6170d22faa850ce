// Package queue carries reservation events over RabbitMQ: the publisher
// used by the reservation service and the consumer that appends them to an
// audit log.
package queue

import (
	"time"

	"github.com/iliyamo/theatre-booking/internal/model"
)

// Queue names double as event types and routing keys on the default
// exchange.
const (
	ReservationCreated   = "reservation.created"
	ReservationUpdated   = "reservation.updated"
	ReservationCancelled = "reservation.cancelled"
)

// Queues lists every queue the consumer subscribes to.
var Queues = []string{ReservationCreated, ReservationUpdated, ReservationCancelled}

// TicketRef is a seat inside an event payload.
type TicketRef struct {
	PerformanceID uint64 `json:"performance_id"`
	Row           int    `json:"row"`
	Seat          int    `json:"seat"`
}

// ReservationEvent is published after a reservation is created, has its
// tickets replaced, or is deleted.  It contains enough for downstream consumers to log or notify
// without querying the primary database.
type ReservationEvent struct {
	Type           string      `json:"type"`
	ReservationID  uint64      `json:"reservation_id"`
	UserID         uint64      `json:"user_id"`
	PerformanceIDs []uint64    `json:"performance_ids"`
	Tickets        []TicketRef `json:"tickets"`
	CreatedAt      string      `json:"created_at"`
	OccurredAt     string      `json:"occurred_at"`
}

// NewReservationEvent builds an event of the given type from r.
func NewReservationEvent(eventType string, r model.Reservation, at time.Time) ReservationEvent {
	ev := ReservationEvent{
		Type:           eventType,
		ReservationID:  r.ID,
		UserID:         r.UserID,
		PerformanceIDs: r.PerformanceIDs(),
		Tickets:        make([]TicketRef, 0, len(r.Tickets)),
		CreatedAt:      r.CreatedAt.UTC().Format(time.RFC3339),
		OccurredAt:     at.UTC().Format(time.RFC3339),
	}
	for _, t := range r.Tickets {
		ev.Tickets = append(ev.Tickets, TicketRef{PerformanceID: t.PerformanceID, Row: t.Row, Seat: t.Seat})
	}
	return ev
}
