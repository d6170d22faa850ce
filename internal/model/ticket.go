package model

import "time"

// Ticket is a claim on a (row, seat) for a performance.  The triple
// (PerformanceID, Row, Seat) is unique across all tickets.  Tickets are
// created together with their reservation, so ReservationID is only nil
// for rows written outside the reservation flow.
type Ticket struct {
	ID            uint64  `db:"id"`             // tickets.id
	Row           int     `db:"seat_row"`       // tickets.seat_row
	Seat          int     `db:"seat_number"`    // tickets.seat_number
	PerformanceID uint64  `db:"performance_id"` // tickets.performance_id
	ReservationID *uint64 `db:"reservation_id"` // tickets.reservation_id (nullable)
}

// Position returns the ticket's seat coordinate.
func (t Ticket) Position() Seat {
	return Seat{Row: t.Row, Seat: t.Seat}
}

// Reserved reports whether the ticket belongs to a reservation.
func (t Ticket) Reserved() bool {
	return t.ReservationID != nil
}

// TicketRequest is one requested seat inside a reservation.
type TicketRequest struct {
	Row           int
	Seat          int
	PerformanceID uint64
}

// TicketDetail is a ticket joined with its performance, play, hall and the
// owning reservation's user.  It backs the ticket list and detail views.
type TicketDetail struct {
	Ticket
	ShowTime             time.Time  `db:"show_time"`
	PlayTitle            string     `db:"play_title"`
	HallName             string     `db:"hall_name"`
	ReservationCreatedAt *time.Time `db:"reservation_created_at"`
	ReservedByUserID     *uint64    `db:"reserved_by_user_id"`
	Username             *string    `db:"username"`
	Email                *string    `db:"email"`
}

// ReservedBy returns the username of the reserving user, falling back to
// the email address.  It is empty for unreserved tickets.
func (d TicketDetail) ReservedBy() string {
	if d.Username != nil && *d.Username != "" {
		return *d.Username
	}
	if d.Email != nil {
		return *d.Email
	}
	return ""
}
