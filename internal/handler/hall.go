package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"github.com/iliyamo/theatre-booking/internal/model"
)

// hallBody carries the hall layout.  Rows and seats_in_row are checked by
// model.TheatreHall.Validate so that create and update report the same
// error.
type hallBody struct {
	Name       string `json:"name" validate:"required,max=255"`
	Rows       int    `json:"rows"`
	SeatsInRow int    `json:"seats_in_row"`
}

func (b hallBody) hall(id uint64) model.TheatreHall {
	return model.TheatreHall{ID: id, Name: strings.TrimSpace(b.Name), Rows: b.Rows, SeatsInRow: b.SeatsInRow}
}

// ListHalls handles GET /v1/theatre-halls.
func (h *CatalogHandler) ListHalls(c echo.Context) error {
	halls, err := h.Halls.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, lo.Map(halls, hallView))
}

func (h *CatalogHandler) GetHall(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	hall, err := h.Halls.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, hallView(*hall, 0))
}

// CreateHall handles POST /v1/theatre-halls.
func (h *CatalogHandler) CreateHall(c echo.Context) error {
	var body hallBody
	if err := bindBody(c, &body); err != nil {
		return writeError(c, err)
	}
	hall := body.hall(0)
	if err := hall.Validate(); err != nil {
		return writeError(c, err)
	}
	if err := h.Halls.Create(c.Request().Context(), &hall); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, hallView(hall, 0))
}

// UpdateHall handles PUT /v1/theatre-halls/:id.  Shrinking the layout
// below an existing ticket is refused with 409.
func (h *CatalogHandler) UpdateHall(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	var body hallBody
	if err := bindBody(c, &body); err != nil {
		return writeError(c, err)
	}
	hall := body.hall(id)
	if err := hall.Validate(); err != nil {
		return writeError(c, err)
	}
	if err := h.Halls.Update(c.Request().Context(), &hall); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, hallView(hall, 0))
}

func (h *CatalogHandler) DeleteHall(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.Halls.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
