package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/theatre-booking/internal/access"
	"github.com/iliyamo/theatre-booking/internal/handler"
	"github.com/iliyamo/theatre-booking/internal/middleware"
)

// RegisterReservations registers the caller's reservations under /v1.
// Every route requires authentication; the service limits results to the
// caller's own reservations.  invalidate drops cached catalog responses
// after a successful write since seat counts change.
func RegisterReservations(e *echo.Echo, h *handler.ReservationHandler, invalidate echo.MiddlewareFunc) {
	g := e.Group("/v1/reservations", middleware.Authorize(access.Reservation), invalidate)
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}
