package model

import "time"

// Reservation is a user's atomic purchase grouping of one or more tickets.
// It owns its tickets: deleting a reservation deletes them.  The performance
// is not stored on the reservation; it is derived from the tickets.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – user who made the reservation.
//  CreatedAt – server-assigned creation timestamp (immutable).
//  Tickets   – tickets in the order they were requested.
type Reservation struct {
	ID        uint64    `db:"id"`         // reservations.id
	UserID    uint64    `db:"user_id"`    // reservations.user_id
	CreatedAt time.Time `db:"created_at"` // reservations.created_at
	Tickets   []Ticket  `db:"-"`
}

// PerformanceIDs returns the distinct performances referenced by the
// reservation's tickets in first-seen order.
func (r Reservation) PerformanceIDs() []uint64 {
	seen := make(map[uint64]struct{}, len(r.Tickets))
	out := make([]uint64, 0, 1)
	for _, t := range r.Tickets {
		if _, ok := seen[t.PerformanceID]; ok {
			continue
		}
		seen[t.PerformanceID] = struct{}{}
		out = append(out, t.PerformanceID)
	}
	return out
}
