package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/theatre-booking/internal/model"
	"github.com/iliyamo/theatre-booking/internal/repository"
)

// Availability is the seat picture of one performance.
type Availability struct {
	PerformanceID uint64       `json:"performance_id"`
	TotalSeats    int          `json:"total_seats"`
	SoldTickets   int          `json:"sold_tickets"`
	FreeSeats     int          `json:"free_seats"`
	TakenSeats    []model.Seat `json:"taken_seats"`
}

// ComputeAvailability derives counters from a hall and the performance's
// tickets.  SoldTickets counts tickets that belong to a reservation;
// TakenSeats lists every ticketed seat sorted by row then seat.  A negative
// free count means stored data is inconsistent and is reported as
// *model.InvariantViolationError rather than clamped.
func ComputeAvailability(hall model.TheatreHall, tickets []model.Ticket) (Availability, error) {
	a := Availability{
		TotalSeats: hall.Capacity(),
		TakenSeats: make([]model.Seat, 0, len(tickets)),
	}
	for _, t := range tickets {
		if t.Reserved() {
			a.SoldTickets++
		}
		a.TakenSeats = append(a.TakenSeats, t.Position())
	}
	sort.Slice(a.TakenSeats, func(i, j int) bool {
		if a.TakenSeats[i].Row != a.TakenSeats[j].Row {
			return a.TakenSeats[i].Row < a.TakenSeats[j].Row
		}
		return a.TakenSeats[i].Seat < a.TakenSeats[j].Seat
	})
	a.FreeSeats = a.TotalSeats - a.SoldTickets
	if a.FreeSeats < 0 {
		return a, &model.InvariantViolationError{
			Msg: fmt.Sprintf("hall %d has %d seats but %d sold tickets", hall.ID, a.TotalSeats, a.SoldTickets),
		}
	}
	return a, nil
}

// SeatingReader is the storage the availability service reads from.
type SeatingReader interface {
	Seating(ctx context.Context, performanceID uint64) (model.TheatreHall, []model.Ticket, error)
	ListSummaries(ctx context.Context) ([]model.PerformanceSummary, error)
	GetSummary(ctx context.Context, id uint64) (*model.PerformanceSummary, error)
}

// PerformanceListing is a list row: the summary plus derived seat counts.
type PerformanceListing struct {
	model.PerformanceSummary
	TotalSeats int
	FreeSeats  int
}

// PerformanceDetail is a summary combined with full availability.
type PerformanceDetail struct {
	Summary      model.PerformanceSummary
	Availability Availability
}

type AvailabilityService struct {
	seating SeatingReader
	log     logrus.FieldLogger
}

func NewAvailabilityService(seating SeatingReader, log logrus.FieldLogger) *AvailabilityService {
	return &AvailabilityService{seating: seating, log: log.WithField("component", "availability")}
}

// Get returns availability for one performance.  Unknown performances
// yield repository.ErrNotFound.
func (s *AvailabilityService) Get(ctx context.Context, performanceID uint64) (Availability, error) {
	hall, tickets, err := s.seating.Seating(ctx, performanceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Availability{}, err
		}
		return Availability{}, &model.StorageError{Op: "read availability", Err: err}
	}
	a, err := ComputeAvailability(hall, tickets)
	a.PerformanceID = performanceID
	if err != nil {
		s.logInvariant(performanceID, err)
		return Availability{}, err
	}
	return a, nil
}

// List returns every performance with free and total seat counts computed
// from one aggregate query.
func (s *AvailabilityService) List(ctx context.Context) ([]PerformanceListing, error) {
	summaries, err := s.seating.ListSummaries(ctx)
	if err != nil {
		return nil, &model.StorageError{Op: "list performances", Err: err}
	}
	out := make([]PerformanceListing, 0, len(summaries))
	for _, sum := range summaries {
		total := sum.Hall().Capacity()
		free := total - sum.SoldTickets
		if free < 0 {
			err := &model.InvariantViolationError{
				Msg: fmt.Sprintf("performance %d has %d seats but %d sold tickets", sum.ID, total, sum.SoldTickets),
			}
			s.logInvariant(sum.ID, err)
			return nil, err
		}
		out = append(out, PerformanceListing{PerformanceSummary: sum, TotalSeats: total, FreeSeats: free})
	}
	return out, nil
}

// Detail combines the performance summary with its availability.
func (s *AvailabilityService) Detail(ctx context.Context, performanceID uint64) (*PerformanceDetail, error) {
	sum, err := s.seating.GetSummary(ctx, performanceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, &model.StorageError{Op: "read performance", Err: err}
	}
	a, err := s.Get(ctx, performanceID)
	if err != nil {
		return nil, err
	}
	return &PerformanceDetail{Summary: *sum, Availability: a}, nil
}

func (s *AvailabilityService) logInvariant(performanceID uint64, err error) {
	s.log.WithFields(logrus.Fields{
		"performance_id": performanceID,
	}).WithError(err).Error("seat counters are inconsistent")
}
