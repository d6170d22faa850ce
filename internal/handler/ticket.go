package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
)

// ListTickets handles GET /v1/tickets.  ?performance= narrows the list to
// one performance.  Tickets are created only through reservations, so
// this resource is read-only.
func (h *CatalogHandler) ListTickets(c echo.Context) error {
	perfID, err := queryID(c, "performance")
	if err != nil {
		return writeError(c, err)
	}
	tickets, err := h.Tickets.ListDetails(c.Request().Context(), perfID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, lo.Map(tickets, ticketListView))
}

// GetTicket handles GET /v1/tickets/:id.
func (h *CatalogHandler) GetTicket(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	d, err := h.Tickets.GetDetail(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, ticketDetailView(*d))
}
