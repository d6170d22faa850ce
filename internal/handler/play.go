package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"github.com/iliyamo/theatre-booking/internal/model"
)

type playBody struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Description string   `json:"description"`
	ActorIDs    []uint64 `json:"actor_ids" validate:"dive,gt=0"`
	GenreIDs    []uint64 `json:"genre_ids" validate:"dive,gt=0"`
}

// ListPlays handles GET /v1/plays.  ?title= filters by a case-insensitive
// substring of the title.
func (h *CatalogHandler) ListPlays(c echo.Context) error {
	plays, err := h.Plays.List(c.Request().Context(), c.QueryParam("title"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, lo.Map(plays, playListView))
}

// GetPlay handles GET /v1/plays/:id.
func (h *CatalogHandler) GetPlay(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	p, err := h.Plays.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, playDetailView(*p))
}

// CreatePlay handles POST /v1/plays.
func (h *CatalogHandler) CreatePlay(c echo.Context) error {
	var body playBody
	if err := bindBody(c, &body); err != nil {
		return writeError(c, err)
	}
	p := &model.Play{Title: strings.TrimSpace(body.Title), Description: body.Description}
	ctx := c.Request().Context()
	if err := h.Plays.Create(ctx, p, body.ActorIDs, body.GenreIDs); err != nil {
		return writeError(c, err)
	}
	created, err := h.Plays.GetByID(ctx, p.ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, playDetailView(*created))
}

// UpdatePlay handles PUT /v1/plays/:id.  The actor and genre sets are
// replaced by the ones in the body.
func (h *CatalogHandler) UpdatePlay(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	var body playBody
	if err := bindBody(c, &body); err != nil {
		return writeError(c, err)
	}
	p := &model.Play{ID: id, Title: strings.TrimSpace(body.Title), Description: body.Description}
	ctx := c.Request().Context()
	if err := h.Plays.Update(ctx, p, body.ActorIDs, body.GenreIDs); err != nil {
		return writeError(c, err)
	}
	updated, err := h.Plays.GetByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, playDetailView(*updated))
}

// DeletePlay handles DELETE /v1/plays/:id.
func (h *CatalogHandler) DeletePlay(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.Plays.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
