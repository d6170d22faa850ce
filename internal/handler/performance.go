package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"github.com/iliyamo/theatre-booking/internal/model"
)

type performanceBody struct {
	PlayID        uint64    `json:"play_id" validate:"required"`
	TheatreHallID uint64    `json:"theatre_hall_id" validate:"required"`
	ShowTime      time.Time `json:"show_time" validate:"required"`
}

func (b performanceBody) performance(id uint64) *model.Performance {
	return &model.Performance{ID: id, PlayID: b.PlayID, TheatreHallID: b.TheatreHallID, ShowTime: b.ShowTime.UTC()}
}

// ListPerformances handles GET /v1/performances.  Each row carries the
// play title, hall name and the number of free seats.
func (h *CatalogHandler) ListPerformances(c echo.Context) error {
	listing, err := h.Availability.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, lo.Map(listing, performanceListView))
}

// GetPerformance handles GET /v1/performances/:id with the hall, ticket
// counters and taken seats.
func (h *CatalogHandler) GetPerformance(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	d, err := h.Availability.Detail(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, performanceDetailView(*d))
}

// GetAvailability handles GET /v1/performances/:id/availability.
func (h *CatalogHandler) GetAvailability(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	a, err := h.Availability.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

// CreatePerformance handles POST /v1/performances.  Unknown play or hall
// ids are a 400.
func (h *CatalogHandler) CreatePerformance(c echo.Context) error {
	var body performanceBody
	if err := bindBody(c, &body); err != nil {
		return writeError(c, err)
	}
	p := body.performance(0)
	if err := h.Performances.Create(c.Request().Context(), p); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, performanceView(*p))
}

// UpdatePerformance handles PUT /v1/performances/:id.  Moving the
// performance to a hall too small for its tickets yields 409.
func (h *CatalogHandler) UpdatePerformance(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	var body performanceBody
	if err := bindBody(c, &body); err != nil {
		return writeError(c, err)
	}
	p := body.performance(id)
	if err := h.Performances.Update(c.Request().Context(), p); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, performanceView(*p))
}

func (h *CatalogHandler) DeletePerformance(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.Performances.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
