package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"github.com/iliyamo/theatre-booking/internal/middleware"
	"github.com/iliyamo/theatre-booking/internal/model"
	"github.com/iliyamo/theatre-booking/internal/service"
)

// ReservationHandler exposes the caller's own reservations.  Every call
// passes the authenticated actor to the service, which scopes reads and
// writes to that user.
type ReservationHandler struct {
	Service *service.ReservationService
}

// NewReservationHandler panics if svc is nil.
func NewReservationHandler(svc *service.ReservationService) *ReservationHandler {
	if svc == nil {
		panic("nil service passed to NewReservationHandler")
	}
	return &ReservationHandler{Service: svc}
}

type ticketBody struct {
	Row         int    `json:"row"`
	Seat        int    `json:"seat"`
	Performance uint64 `json:"performance" validate:"required"`
}

// reservationBody lists the requested seats.  Row and seat bounds are
// validated against the hall by the service.
type reservationBody struct {
	Tickets []ticketBody `json:"tickets" validate:"dive"`
}

func (b reservationBody) requests() []model.TicketRequest {
	return lo.Map(b.Tickets, func(t ticketBody, _ int) model.TicketRequest {
		return model.TicketRequest{Row: t.Row, Seat: t.Seat, PerformanceID: t.Performance}
	})
}

// List handles GET /v1/reservations, newest first.
func (h *ReservationHandler) List(c echo.Context) error {
	list, err := h.Service.List(c.Request().Context(), middleware.ActorFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, lo.Map(list, reservationListView))
}

// Get handles GET /v1/reservations/:id.  Another user's reservation is
// reported as 404.
func (h *ReservationHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	res, err := h.Service.Get(c.Request().Context(), middleware.ActorFrom(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, reservationDetailView(*res))
}

// Create handles POST /v1/reservations.  The reservation and all its
// tickets are stored atomically.
func (h *ReservationHandler) Create(c echo.Context) error {
	var body reservationBody
	if err := bindBody(c, &body); err != nil {
		return writeError(c, err)
	}
	res, err := h.Service.Create(c.Request().Context(), middleware.ActorFrom(c), body.requests())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, reservationDetailView(*res))
}

// Update handles PUT /v1/reservations/:id by replacing the ticket set.
func (h *ReservationHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	var body reservationBody
	if err := bindBody(c, &body); err != nil {
		return writeError(c, err)
	}
	res, err := h.Service.ReplaceTickets(c.Request().Context(), middleware.ActorFrom(c), id, body.requests())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, reservationDetailView(*res))
}

// Delete handles DELETE /v1/reservations/:id; tickets go with it.
func (h *ReservationHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.Service.Delete(c.Request().Context(), middleware.ActorFrom(c), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
