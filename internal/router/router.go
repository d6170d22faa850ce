// Package router registers the HTTP routes and the middleware chain.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/theatre-booking/internal/config"
	"github.com/iliyamo/theatre-booking/internal/handler"
	"github.com/iliyamo/theatre-booking/internal/middleware"
)

// Deps carries everything the routes need.  Redis is optional; without it
// rate limiting and response caching are disabled.
type Deps struct {
	JWTSecret    string
	Log          *logrus.Logger
	Redis        *redis.Client
	RateLimit    config.RateLimitConfig
	Cache        config.CacheConfig
	DB           handler.Pinger
	Catalog      *handler.CatalogHandler
	Reservations *handler.ReservationHandler
}

// New builds an echo instance with all routes registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewRequestValidator()

	RegisterMiddleware(e, d)
	RegisterRoutes(e, d.DB)
	RegisterCatalog(e, d.Catalog, middleware.NewRedisCache(d.Cache, d.Redis, d.Log))
	RegisterReservations(e, d.Reservations, middleware.NewRedisCache(invalidateOnly(d.Cache), d.Redis, d.Log))
	return e
}

// RegisterMiddleware installs the global chain.  Authentication runs
// before rate limiting so that limits can be keyed per user.
func RegisterMiddleware(e *echo.Echo, d Deps) {
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomw.Recover())
	e.Use(middleware.Authenticate(d.JWTSecret))
	e.Use(middleware.NewTokenBucket(d.RateLimit, d.Redis, d.Log))
}

// RegisterRoutes registers routes outside /v1.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health(db))
}

// invalidateOnly keeps the cache prefix but caches nothing, so writes
// through the group still drop cached catalog responses.
func invalidateOnly(cfg config.CacheConfig) config.CacheConfig {
	cfg.Methods = map[string]bool{}
	return cfg
}
