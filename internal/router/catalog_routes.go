package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/theatre-booking/internal/access"
	"github.com/iliyamo/theatre-booking/internal/handler"
	"github.com/iliyamo/theatre-booking/internal/middleware"
)

// RegisterCatalog registers the catalog under /v1.  Reads need any valid
// token, writes a staff token.  Authorization and cache are attached per
// route so that unknown paths under /v1 still answer 404.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, cache echo.MiddlewareFunc) {
	g := &catalogGroup{
		g:  e.Group("/v1"),
		mw: []echo.MiddlewareFunc{middleware.Authorize(access.Catalog), cache},
	}

	// ---- Plays ----
	g.GET("/plays", h.ListPlays)
	g.POST("/plays", h.CreatePlay)
	g.GET("/plays/:id", h.GetPlay)
	g.PUT("/plays/:id", h.UpdatePlay)
	g.DELETE("/plays/:id", h.DeletePlay)

	// ---- Actors ----
	g.GET("/actors", h.ListActors)
	g.POST("/actors", h.CreateActor)
	g.GET("/actors/:id", h.GetActor)
	g.PUT("/actors/:id", h.UpdateActor)
	g.DELETE("/actors/:id", h.DeleteActor)

	// ---- Genres ----
	g.GET("/genres", h.ListGenres)
	g.POST("/genres", h.CreateGenre)
	g.GET("/genres/:id", h.GetGenre)
	g.PUT("/genres/:id", h.UpdateGenre)
	g.DELETE("/genres/:id", h.DeleteGenre)

	// ---- Theatre halls ----
	g.GET("/theatre-halls", h.ListHalls)
	g.POST("/theatre-halls", h.CreateHall)
	g.GET("/theatre-halls/:id", h.GetHall)
	g.PUT("/theatre-halls/:id", h.UpdateHall)
	g.DELETE("/theatre-halls/:id", h.DeleteHall)

	// ---- Performances ----
	g.GET("/performances", h.ListPerformances)
	g.POST("/performances", h.CreatePerformance)
	g.GET("/performances/:id", h.GetPerformance)
	g.GET("/performances/:id/availability", h.GetAvailability)
	g.PUT("/performances/:id", h.UpdatePerformance)
	g.DELETE("/performances/:id", h.DeletePerformance)

	// ---- Tickets (read-only) ----
	g.GET("/tickets", h.ListTickets)
	g.GET("/tickets/:id", h.GetTicket)
}

// catalogGroup registers routes with the catalog middleware attached to
// each route rather than to the group.
type catalogGroup struct {
	g  *echo.Group
	mw []echo.MiddlewareFunc
}

func (cg *catalogGroup) GET(path string, h echo.HandlerFunc) {
	cg.g.GET(path, h, cg.mw...)
}

func (cg *catalogGroup) POST(path string, h echo.HandlerFunc) {
	cg.g.POST(path, h, cg.mw...)
}

func (cg *catalogGroup) PUT(path string, h echo.HandlerFunc) {
	cg.g.PUT(path, h, cg.mw...)
}

func (cg *catalogGroup) DELETE(path string, h echo.HandlerFunc) {
	cg.g.DELETE(path, h, cg.mw...)
}
