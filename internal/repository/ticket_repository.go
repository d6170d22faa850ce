package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/theatre-booking/internal/model"
)

// TicketRepo reads tickets for the catalog and writes them inside
// reservation transactions.  Tickets are never created outside a
// reservation.
type TicketRepo struct {
	db *sqlx.DB
}

func NewTicketRepo(db *sqlx.DB) *TicketRepo { return &TicketRepo{db: db} }

const ticketDetailSelect = `
	SELECT t.id, t.seat_row, t.seat_number, t.performance_id, t.reservation_id,
	       p.show_time, pl.title AS play_title, h.name AS hall_name,
	       r.created_at AS reservation_created_at, r.user_id AS reserved_by_user_id,
	       u.username, u.email
	FROM tickets t
	JOIN performances p ON p.id = t.performance_id
	JOIN plays pl ON pl.id = p.play_id
	JOIN theatre_halls h ON h.id = p.theatre_hall_id
	LEFT JOIN reservations r ON r.id = t.reservation_id
	LEFT JOIN users u ON u.id = r.user_id`

// InsertTx inserts one ticket inside tx and sets its ID.  The raw driver
// error is returned so the caller can recognise a unique-index violation on
// (performance_id, seat_row, seat_number).
func (r *TicketRepo) InsertTx(ctx context.Context, tx sqlx.ExecerContext, t *model.Ticket) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO tickets (seat_row, seat_number, performance_id, reservation_id) VALUES (?, ?, ?, ?)`,
		t.Row, t.Seat, t.PerformanceID, t.ReservationID)
	if err != nil {
		return err
	}
	t.ID, err = lastID(res)
	return err
}

// DeleteByReservationTx removes every ticket of a reservation.
func (r *TicketRepo) DeleteByReservationTx(ctx context.Context, tx sqlx.ExecerContext, reservationID uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM tickets WHERE reservation_id = ?`, reservationID)
	return err
}

// ListByReservations loads tickets for the given reservations keyed by
// reservation id, each slice in insertion order.
func (r *TicketRepo) ListByReservations(ctx context.Context, q sqlx.QueryerContext, reservationIDs []uint64) (map[uint64][]model.Ticket, error) {
	out := make(map[uint64][]model.Ticket, len(reservationIDs))
	if len(reservationIDs) == 0 {
		return out, nil
	}
	query, args, err := sqlx.In(`
		SELECT id, seat_row, seat_number, performance_id, reservation_id
		FROM tickets WHERE reservation_id IN (?) ORDER BY id`, reservationIDs)
	if err != nil {
		return nil, err
	}
	var tickets []model.Ticket
	if err := sqlx.SelectContext(ctx, q, &tickets, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	for _, t := range tickets {
		out[*t.ReservationID] = append(out[*t.ReservationID], t)
	}
	return out, nil
}

// ListDetails returns tickets with performance, play, hall and reserving
// user.  A non-zero performanceID narrows the list to one performance.
func (r *TicketRepo) ListDetails(ctx context.Context, performanceID uint64) ([]model.TicketDetail, error) {
	out := []model.TicketDetail{}
	q := ticketDetailSelect
	var args []any
	if performanceID != 0 {
		q += ` WHERE t.performance_id = ?`
		args = append(args, performanceID)
	}
	q += ` ORDER BY t.performance_id, t.seat_row, t.seat_number`
	if err := r.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *TicketRepo) GetDetail(ctx context.Context, id uint64) (*model.TicketDetail, error) {
	var d model.TicketDetail
	if err := r.db.GetContext(ctx, &d, ticketDetailSelect+` WHERE t.id = ?`, id); err != nil {
		return nil, notFound(err)
	}
	return &d, nil
}
