package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/theatre-booking/internal/model"
)

// HallRepo provides CRUD for theatre halls.  Layout validation
// (rows > 0, seats_in_row > 0) belongs to the caller; the schema repeats
// it as a CHECK constraint.
type HallRepo struct {
	db *sqlx.DB
}

// NewHallRepo constructs a HallRepo with the given DB handle.
func NewHallRepo(db *sqlx.DB) *HallRepo {
	return &HallRepo{db: db}
}

const hallColumns = `id, name, seat_rows, seats_in_row`

// Create inserts a hall and sets its ID.
func (r *HallRepo) Create(ctx context.Context, h *model.TheatreHall) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO theatre_halls (name, seat_rows, seats_in_row) VALUES (?, ?, ?)`,
		h.Name, h.Rows, h.SeatsInRow)
	if err != nil {
		return classify(err)
	}
	h.ID, err = lastID(res)
	return err
}

// GetByID returns ErrNotFound when no hall has the given id.
func (r *HallRepo) GetByID(ctx context.Context, id uint64) (*model.TheatreHall, error) {
	var h model.TheatreHall
	if err := r.db.GetContext(ctx, &h, `SELECT `+hallColumns+` FROM theatre_halls WHERE id = ?`, id); err != nil {
		return nil, notFound(err)
	}
	return &h, nil
}

func (r *HallRepo) List(ctx context.Context) ([]model.TheatreHall, error) {
	halls := []model.TheatreHall{}
	if err := r.db.SelectContext(ctx, &halls, `SELECT `+hallColumns+` FROM theatre_halls ORDER BY id`); err != nil {
		return nil, err
	}
	return halls, nil
}

// Update changes name and layout.  Shrinking a hall below a seat that is
// already ticketed for one of its performances fails with ErrConflict, so
// every stored ticket stays inside its hall's bounds.  The UPDATE runs
// before the ticket count: it holds the hall row lock that reservation
// lookups wait on, so no ticket can commit against the old layout once the
// count has been taken.
func (r *HallRepo) Update(ctx context.Context, h *model.TheatreHall) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE theatre_halls SET name = ?, seat_rows = ?, seats_in_row = ? WHERE id = ?`,
		h.Name, h.Rows, h.SeatsInRow, h.ID)
	if err != nil {
		return classify(err)
	}
	if err := affectedOne(res); err != nil {
		return err
	}

	var outside int
	err = tx.GetContext(ctx, &outside, `
		SELECT COUNT(*)
		FROM tickets t
		JOIN performances p ON p.id = t.performance_id
		WHERE p.theatre_hall_id = ? AND (t.seat_row > ? OR t.seat_number > ?)`,
		h.ID, h.Rows, h.SeatsInRow)
	if err != nil {
		return err
	}
	if outside > 0 {
		return fmt.Errorf("%w: %d ticketed seats fall outside the new layout", ErrConflict, outside)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Delete removes a hall; its performances and their tickets cascade.
func (r *HallRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM theatre_halls WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affectedOne(res)
}
