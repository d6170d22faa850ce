package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/theatre-booking/internal/model"
)

// ReservationRepo persists reservations.  Every read and delete takes the
// owner's user id and filters on it; there is no unscoped accessor.
type ReservationRepo struct {
	db      *sqlx.DB
	tickets *TicketRepo
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sqlx.DB) *ReservationRepo {
	return &ReservationRepo{db: db, tickets: NewTicketRepo(db)}
}

// DB exposes the handle used to open reservation transactions.
func (r *ReservationRepo) DB() *sqlx.DB { return r.db }

// CreateTx inserts the reservation row inside tx and sets its ID.  The
// caller supplies CreatedAt.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx sqlx.ExecerContext, res *model.Reservation) error {
	result, err := tx.ExecContext(ctx,
		`INSERT INTO reservations (user_id, created_at) VALUES (?, ?)`,
		res.UserID, res.CreatedAt.UTC())
	if err != nil {
		return classify(err)
	}
	res.ID, err = lastID(result)
	return err
}

// GetForUser loads one of the user's reservations with its tickets.  A
// reservation owned by someone else is reported as ErrNotFound.
func (r *ReservationRepo) GetForUser(ctx context.Context, q sqlx.QueryerContext, id, userID uint64) (*model.Reservation, error) {
	var res model.Reservation
	err := sqlx.GetContext(ctx, q, &res,
		`SELECT id, user_id, created_at FROM reservations WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return nil, notFound(err)
	}
	byRes, err := r.tickets.ListByReservations(ctx, q, []uint64{res.ID})
	if err != nil {
		return nil, err
	}
	res.Tickets = byRes[res.ID]
	if res.Tickets == nil {
		res.Tickets = []model.Ticket{}
	}
	return &res, nil
}

// ListForUser returns the user's reservations newest first, tickets
// attached.
func (r *ReservationRepo) ListForUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	out := []model.Reservation{}
	err := r.db.SelectContext(ctx, &out,
		`SELECT id, user_id, created_at FROM reservations WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, len(out))
	for i := range out {
		ids[i] = out[i].ID
	}
	byRes, err := r.tickets.ListByReservations(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Tickets = byRes[out[i].ID]
		if out[i].Tickets == nil {
			out[i].Tickets = []model.Ticket{}
		}
	}
	return out, nil
}

// DeleteForUserTx removes one of the user's reservations; its tickets
// cascade.
func (r *ReservationRepo) DeleteForUserTx(ctx context.Context, tx sqlx.ExecerContext, id, userID uint64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM reservations WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	return affectedOne(res)
}
