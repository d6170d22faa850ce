package handler

import (
	"github.com/iliyamo/theatre-booking/internal/repository"
	"github.com/iliyamo/theatre-booking/internal/service"
)

// CatalogHandler serves plays, actors, genres, theatre halls,
// performances and tickets.  Access rules are enforced by the router's
// middleware; handlers assume the caller may perform the operation.
type CatalogHandler struct {
	Plays        *repository.PlayRepo
	Actors       *repository.ActorRepo
	Genres       *repository.GenreRepo
	Halls        *repository.HallRepo
	Performances *repository.PerformanceRepo
	Tickets      *repository.TicketRepo
	Availability *service.AvailabilityService
}

// NewCatalogHandler constructs a CatalogHandler and panics if any
// dependency is nil.
func NewCatalogHandler(
	plays *repository.PlayRepo,
	actors *repository.ActorRepo,
	genres *repository.GenreRepo,
	halls *repository.HallRepo,
	performances *repository.PerformanceRepo,
	tickets *repository.TicketRepo,
	availability *service.AvailabilityService,
) *CatalogHandler {
	if plays == nil || actors == nil || genres == nil || halls == nil || performances == nil || tickets == nil || availability == nil {
		panic("nil dependency passed to NewCatalogHandler")
	}
	return &CatalogHandler{
		Plays:        plays,
		Actors:       actors,
		Genres:       genres,
		Halls:        halls,
		Performances: performances,
		Tickets:      tickets,
		Availability: availability,
	}
}
