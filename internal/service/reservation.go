package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/theatre-booking/internal/access"
	"github.com/iliyamo/theatre-booking/internal/database"
	"github.com/iliyamo/theatre-booking/internal/model"
	"github.com/iliyamo/theatre-booking/internal/queue"
	"github.com/iliyamo/theatre-booking/internal/repository"
)

// EventPublisher delivers reservation events after commit.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.ReservationEvent) error
}

// ReservationService creates and manages reservations.  Every operation is
// scoped to the calling actor.  Writes run in one transaction; the unique
// index on (performance_id, seat_row, seat_number) is what serialises
// competing requests for the same seat.
type ReservationService struct {
	db           *sqlx.DB
	reservations *repository.ReservationRepo
	tickets      *repository.TicketRepo
	performances *repository.PerformanceRepo
	publisher    EventPublisher
	log          logrus.FieldLogger
	now          func() time.Time
}

// NewReservationService wires the service.  A nil publisher disables
// events.
func NewReservationService(
	reservations *repository.ReservationRepo,
	tickets *repository.TicketRepo,
	performances *repository.PerformanceRepo,
	publisher EventPublisher,
	log logrus.FieldLogger,
) *ReservationService {
	if publisher == nil {
		publisher = queue.NopPublisher{}
	}
	return &ReservationService{
		db:           reservations.DB(),
		reservations: reservations,
		tickets:      tickets,
		performances: performances,
		publisher:    publisher,
		log:          log.WithField("component", "reservations"),
		now:          time.Now,
	}
}

// WithClock replaces the clock used for created_at.
func (s *ReservationService) WithClock(now func() time.Time) *ReservationService {
	s.now = now
	return s
}

// Create validates every requested seat and then stores the reservation
// and its tickets atomically.  Either all tickets are created or none.
func (s *ReservationService) Create(ctx context.Context, actor access.Actor, requests []model.TicketRequest) (*model.Reservation, error) {
	scope, err := access.ReservationScope(actor)
	if err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return nil, model.ErrEmptyReservationRequest
	}

	var res *model.Reservation
	err = s.inTx(ctx, "create reservation", func(tx *sqlx.Tx) error {
		tickets, err := s.resolve(ctx, tx, requests)
		if err != nil {
			return err
		}
		res = &model.Reservation{
			UserID:    scope.UserID,
			CreatedAt: s.now().UTC().Truncate(time.Microsecond),
		}
		if err := s.reservations.CreateTx(ctx, tx, res); err != nil {
			if errors.Is(err, repository.ErrInvalidReference) {
				return fmt.Errorf("%w: user %d does not exist", access.ErrUnauthenticated, scope.UserID)
			}
			return &model.StorageError{Op: "insert reservation", Err: err}
		}
		res.Tickets, err = s.insertTickets(ctx, tx, res.ID, tickets)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, queue.ReservationCreated, *res)
	s.log.WithFields(logrus.Fields{
		"reservation_id": res.ID,
		"user_id":        res.UserID,
		"tickets":        len(res.Tickets),
	}).Info("reservation created")
	return res, nil
}

// ReplaceTickets swaps the tickets of one of the actor's reservations for
// a new set, validated exactly like Create.  Old tickets are deleted and
// new ones inserted in the same transaction, so seats released by the
// reservation may be requested again.
func (s *ReservationService) ReplaceTickets(ctx context.Context, actor access.Actor, id uint64, requests []model.TicketRequest) (*model.Reservation, error) {
	scope, err := access.ReservationScope(actor)
	if err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return nil, model.ErrEmptyReservationRequest
	}

	var res *model.Reservation
	err = s.inTx(ctx, "replace tickets", func(tx *sqlx.Tx) error {
		existing, err := s.reservations.GetForUser(ctx, tx, id, scope.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return err
			}
			return &model.StorageError{Op: "load reservation", Err: err}
		}
		tickets, err := s.resolve(ctx, tx, requests)
		if err != nil {
			return err
		}
		if err := s.tickets.DeleteByReservationTx(ctx, tx, existing.ID); err != nil {
			return &model.StorageError{Op: "delete tickets", Err: err}
		}
		existing.Tickets, err = s.insertTickets(ctx, tx, existing.ID, tickets)
		res = existing
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, queue.ReservationUpdated, *res)
	s.log.WithFields(logrus.Fields{
		"reservation_id": res.ID,
		"tickets":        len(res.Tickets),
	}).Info("reservation tickets replaced")
	return res, nil
}

// List returns the actor's reservations, newest first.
func (s *ReservationService) List(ctx context.Context, actor access.Actor) ([]model.Reservation, error) {
	scope, err := access.ReservationScope(actor)
	if err != nil {
		return nil, err
	}
	out, err := s.reservations.ListForUser(ctx, scope.UserID)
	if err != nil {
		return nil, &model.StorageError{Op: "list reservations", Err: err}
	}
	return out, nil
}

// Get returns one of the actor's reservations.  Reservations of other
// users are indistinguishable from missing ones.
func (s *ReservationService) Get(ctx context.Context, actor access.Actor, id uint64) (*model.Reservation, error) {
	scope, err := access.ReservationScope(actor)
	if err != nil {
		return nil, err
	}
	res, err := s.reservations.GetForUser(ctx, s.db, id, scope.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, &model.StorageError{Op: "get reservation", Err: err}
	}
	return res, nil
}

// Delete removes one of the actor's reservations together with its
// tickets, freeing the seats.
func (s *ReservationService) Delete(ctx context.Context, actor access.Actor, id uint64) error {
	scope, err := access.ReservationScope(actor)
	if err != nil {
		return err
	}
	var res *model.Reservation
	err = s.inTx(ctx, "delete reservation", func(tx *sqlx.Tx) error {
		res, err = s.reservations.GetForUser(ctx, tx, id, scope.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return err
			}
			return &model.StorageError{Op: "load reservation", Err: err}
		}
		if err := s.reservations.DeleteForUserTx(ctx, tx, id, scope.UserID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return err
			}
			return &model.StorageError{Op: "delete reservation", Err: err}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.publish(ctx, queue.ReservationCancelled, *res)
	s.log.WithField("reservation_id", id).Info("reservation deleted")
	return nil
}

// resolve checks every request against its performance's hall before
// anything is written.  Halls are looked up once per performance.
func (s *ReservationService) resolve(ctx context.Context, tx *sqlx.Tx, requests []model.TicketRequest) ([]model.Ticket, error) {
	halls := make(map[uint64]*model.TheatreHall)
	seen := make(map[model.TicketRequest]struct{}, len(requests))
	out := make([]model.Ticket, 0, len(requests))
	for _, req := range requests {
		hall, ok := halls[req.PerformanceID]
		if !ok {
			h, err := s.performances.HallForPerformance(ctx, tx, req.PerformanceID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return nil, &model.PerformanceNotFoundError{PerformanceID: req.PerformanceID}
				}
				return nil, &model.StorageError{Op: "resolve performance", Err: err}
			}
			halls[req.PerformanceID] = h
			hall = h
		}
		if err := hall.ValidatePosition(req.Row, req.Seat); err != nil {
			return nil, err
		}
		if _, dup := seen[req]; dup {
			return nil, &model.SeatTakenError{PerformanceID: req.PerformanceID, Row: req.Row, Seat: req.Seat}
		}
		seen[req] = struct{}{}
		out = append(out, model.Ticket{Row: req.Row, Seat: req.Seat, PerformanceID: req.PerformanceID})
	}
	return out, nil
}

// insertTickets writes tickets in request order.  A unique-index violation
// names the seat that was taken.  Two requests locking the same seats in
// opposite order can deadlock on MySQL; the loser gets a retryable
// *model.StorageError rather than SeatTaken since neither seat was sold.
func (s *ReservationService) insertTickets(ctx context.Context, tx *sqlx.Tx, reservationID uint64, tickets []model.Ticket) ([]model.Ticket, error) {
	for i := range tickets {
		rid := reservationID
		tickets[i].ReservationID = &rid
		if err := s.tickets.InsertTx(ctx, tx, &tickets[i]); err != nil {
			if database.IsUniqueViolation(err) {
				return nil, &model.SeatTakenError{
					PerformanceID: tickets[i].PerformanceID,
					Row:           tickets[i].Row,
					Seat:          tickets[i].Seat,
				}
			}
			if database.IsLockConflict(err) {
				return nil, &model.StorageError{Op: "insert ticket (lock conflict)", Err: err}
			}
			return nil, &model.StorageError{Op: "insert ticket", Err: err}
		}
	}
	return tickets, nil
}

// inTx runs fn inside a transaction.  Errors from fn are returned as is;
// failures to begin or commit become *model.StorageError.  The transaction
// is rolled back on every path that does not commit.
func (s *ReservationService) inTx(ctx context.Context, op string, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return &model.StorageError{Op: op, Err: err}
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		var storageErr *model.StorageError
		switch {
		case errors.As(err, &storageErr) && database.IsLockConflict(err):
			s.log.WithError(err).WithField("op", op).Warn("lock conflict, request may be retried")
		case errors.As(err, &storageErr):
			s.log.WithError(err).WithField("op", op).Error("storage failure")
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		s.log.WithError(err).WithField("op", op).Error("commit failed")
		return &model.StorageError{Op: op + " (commit)", Err: err}
	}
	committed = true
	return nil
}

// publish sends ev best effort.  Failures are logged and never reach the
// caller: the reservation is already committed.
func (s *ReservationService) publish(ctx context.Context, eventType string, res model.Reservation) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	ev := queue.NewReservationEvent(eventType, res, s.now())
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"event":          eventType,
			"reservation_id": res.ID,
		}).Warn("failed to publish reservation event")
	}
}
