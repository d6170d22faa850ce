package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/theatre-booking/internal/database"
	"github.com/iliyamo/theatre-booking/internal/model"
)

// PerformanceRepo stores performances and answers the seating queries the
// availability calculator and the reservation transaction rely on.
type PerformanceRepo struct {
	db *sqlx.DB
}

func NewPerformanceRepo(db *sqlx.DB) *PerformanceRepo {
	return &PerformanceRepo{db: db}
}

// DB exposes the underlying handle so services can open transactions
// spanning several repositories.
func (r *PerformanceRepo) DB() *sqlx.DB { return r.db }

const performanceColumns = `id, play_id, theatre_hall_id, show_time`

// summarySelect joins play and hall and counts tickets per performance in a
// single aggregate.  sold_tickets counts only tickets with a reservation.
const summarySelect = `
	SELECT p.id, p.play_id, p.theatre_hall_id, p.show_time,
	       pl.title AS play_title, h.name AS hall_name, h.seat_rows, h.seats_in_row,
	       COUNT(t.reservation_id) AS sold_tickets, COUNT(t.id) AS all_tickets
	FROM performances p
	JOIN plays pl ON pl.id = p.play_id
	JOIN theatre_halls h ON h.id = p.theatre_hall_id
	LEFT JOIN tickets t ON t.performance_id = p.id`

const summaryGroupBy = `
	GROUP BY p.id, p.play_id, p.theatre_hall_id, p.show_time, pl.title, h.name, h.seat_rows, h.seats_in_row`

// Create inserts a performance.  Unknown play or hall ids yield
// ErrInvalidReference.
func (r *PerformanceRepo) Create(ctx context.Context, p *model.Performance) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO performances (play_id, theatre_hall_id, show_time) VALUES (?, ?, ?)`,
		p.PlayID, p.TheatreHallID, p.ShowTime.UTC())
	if err != nil {
		return classify(err)
	}
	p.ID, err = lastID(res)
	return err
}

func (r *PerformanceRepo) GetByID(ctx context.Context, id uint64) (*model.Performance, error) {
	var p model.Performance
	if err := r.db.GetContext(ctx, &p, `SELECT `+performanceColumns+` FROM performances WHERE id = ?`, id); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// ListSummaries returns every performance with play title, hall and ticket
// counters, ordered by show time.
func (r *PerformanceRepo) ListSummaries(ctx context.Context) ([]model.PerformanceSummary, error) {
	out := []model.PerformanceSummary{}
	q := summarySelect + summaryGroupBy + ` ORDER BY p.show_time, p.id`
	if err := r.db.SelectContext(ctx, &out, q); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PerformanceRepo) GetSummary(ctx context.Context, id uint64) (*model.PerformanceSummary, error) {
	var s model.PerformanceSummary
	q := summarySelect + ` WHERE p.id = ?` + summaryGroupBy
	if err := r.db.GetContext(ctx, &s, q, id); err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

// HallForPerformance resolves the hall a performance takes place in.  q may
// be a transaction so the lookup shares the caller's snapshot.  On MySQL
// the hall row is share-locked until q commits, so a concurrent hall
// resize cannot slip between the bounds check and the ticket insert.
func (r *PerformanceRepo) HallForPerformance(ctx context.Context, q sqlx.QueryerContext, performanceID uint64) (*model.TheatreHall, error) {
	var h model.TheatreHall
	err := sqlx.GetContext(ctx, q, &h, `
		SELECT h.id, h.name, h.seat_rows, h.seats_in_row
		FROM performances p
		JOIN theatre_halls h ON h.id = p.theatre_hall_id
		WHERE p.id = ?`+shareLock(q), performanceID)
	if err != nil {
		return nil, notFound(err)
	}
	return &h, nil
}

// seatingRow is one row of the availability join.  Ticket columns are NULL
// when the performance has no tickets yet.
type seatingRow struct {
	HallID        uint64        `db:"hall_id"`
	HallName      string        `db:"hall_name"`
	Rows          int           `db:"seat_rows"`
	SeatsInRow    int           `db:"seats_in_row"`
	TicketID      sql.NullInt64 `db:"ticket_id"`
	Row           sql.NullInt64 `db:"seat_row"`
	Seat          sql.NullInt64 `db:"seat_number"`
	ReservationID sql.NullInt64 `db:"reservation_id"`
}

// Seating returns the hall and every ticket of a performance from one
// statement, so counts and taken seats come from the same snapshot.
func (r *PerformanceRepo) Seating(ctx context.Context, performanceID uint64) (model.TheatreHall, []model.Ticket, error) {
	var rows []seatingRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT h.id AS hall_id, h.name AS hall_name, h.seat_rows, h.seats_in_row,
		       t.id AS ticket_id, t.seat_row, t.seat_number, t.reservation_id
		FROM performances p
		JOIN theatre_halls h ON h.id = p.theatre_hall_id
		LEFT JOIN tickets t ON t.performance_id = p.id
		WHERE p.id = ?
		ORDER BY t.seat_row, t.seat_number`, performanceID)
	if err != nil {
		return model.TheatreHall{}, nil, err
	}
	if len(rows) == 0 {
		return model.TheatreHall{}, nil, ErrNotFound
	}
	hall := model.TheatreHall{ID: rows[0].HallID, Name: rows[0].HallName, Rows: rows[0].Rows, SeatsInRow: rows[0].SeatsInRow}
	tickets := make([]model.Ticket, 0, len(rows))
	for _, row := range rows {
		if !row.TicketID.Valid {
			continue
		}
		t := model.Ticket{
			ID:            uint64(row.TicketID.Int64),
			Row:           int(row.Row.Int64),
			Seat:          int(row.Seat.Int64),
			PerformanceID: performanceID,
		}
		if row.ReservationID.Valid {
			id := uint64(row.ReservationID.Int64)
			t.ReservationID = &id
		}
		tickets = append(tickets, t)
	}
	return hall, tickets, nil
}

// Update changes play, hall and show time.  Moving a performance into a
// hall whose layout cannot hold its existing tickets fails with
// ErrConflict.
func (r *PerformanceRepo) Update(ctx context.Context, p *model.Performance) error {
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

	var outside int
	err = tx.GetContext(ctx, &outside, `
		SELECT COUNT(*)
		FROM tickets t
		JOIN theatre_halls h ON h.id = ?
		WHERE t.performance_id = ? AND (t.seat_row > h.seat_rows OR t.seat_number > h.seats_in_row)`,
		p.TheatreHallID, p.ID)
	if err != nil {
		return err
	}
	if outside > 0 {
		return fmt.Errorf("%w: %d tickets do not fit the target hall", ErrConflict, outside)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE performances SET play_id = ?, theatre_hall_id = ?, show_time = ? WHERE id = ?`,
		p.PlayID, p.TheatreHallID, p.ShowTime.UTC(), p.ID)
	if err != nil {
		return classify(err)
	}
	if err := affectedOne(res); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Delete removes a performance and, by cascade, its tickets.
func (r *PerformanceRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM performances WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affectedOne(res)
}

// shareLock is the locking-read suffix for q's driver.  SQLite needs none:
// a write transaction that read stale rows fails to commit with SQLITE_BUSY.
func shareLock(q interface{}) string {
	if d, ok := q.(interface{ DriverName() string }); ok && d.DriverName() == database.DriverMySQL {
		return " LOCK IN SHARE MODE"
	}
	return ""
}
