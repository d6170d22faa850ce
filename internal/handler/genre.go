package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"github.com/iliyamo/theatre-booking/internal/model"
)

type genreBody struct {
	Name string `json:"name" validate:"required,max=255"`
}

// ListGenres handles GET /v1/genres.
func (h *CatalogHandler) ListGenres(c echo.Context) error {
	genres, err := h.Genres.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, lo.Map(genres, genreView))
}

func (h *CatalogHandler) GetGenre(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	g, err := h.Genres.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, genreView(*g, 0))
}

// CreateGenre handles POST /v1/genres.  Genre names are unique; a
// duplicate yields 409.
func (h *CatalogHandler) CreateGenre(c echo.Context) error {
	var body genreBody
	if err := bindBody(c, &body); err != nil {
		return writeError(c, err)
	}
	g := &model.Genre{Name: strings.TrimSpace(body.Name)}
	if err := h.Genres.Create(c.Request().Context(), g); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, genreView(*g, 0))
}

func (h *CatalogHandler) UpdateGenre(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	var body genreBody
	if err := bindBody(c, &body); err != nil {
		return writeError(c, err)
	}
	g := &model.Genre{ID: id, Name: strings.TrimSpace(body.Name)}
	if err := h.Genres.Update(c.Request().Context(), g); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, genreView(*g, 0))
}

func (h *CatalogHandler) DeleteGenre(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.Genres.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
