package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"github.com/iliyamo/theatre-booking/internal/model"
)

type actorBody struct {
	FirstName string `json:"first_name" validate:"required,max=255"`
	LastName  string `json:"last_name" validate:"required,max=255"`
}

func (b actorBody) actor(id uint64) *model.Actor {
	return &model.Actor{ID: id, FirstName: strings.TrimSpace(b.FirstName), LastName: strings.TrimSpace(b.LastName)}
}

// ListActors handles GET /v1/actors.
func (h *CatalogHandler) ListActors(c echo.Context) error {
	actors, err := h.Actors.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, lo.Map(actors, actorView))
}

// GetActor handles GET /v1/actors/:id; the response lists the actor's
// plays.
func (h *CatalogHandler) GetActor(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	ctx := c.Request().Context()
	a, err := h.Actors.GetByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	plays, err := h.Plays.ListByActor(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, actorDetailView(*a, plays))
}

func (h *CatalogHandler) CreateActor(c echo.Context) error {
	var body actorBody
	if err := bindBody(c, &body); err != nil {
		return writeError(c, err)
	}
	a := body.actor(0)
	if err := h.Actors.Create(c.Request().Context(), a); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, actorView(*a, 0))
}

func (h *CatalogHandler) UpdateActor(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	var body actorBody
	if err := bindBody(c, &body); err != nil {
		return writeError(c, err)
	}
	a := body.actor(id)
	if err := h.Actors.Update(c.Request().Context(), a); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, actorView(*a, 0))
}

func (h *CatalogHandler) DeleteActor(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.Actors.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
