package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/theatre-booking/internal/logger"
)

// RequestID assigns every request a UUID in X-Request-Id unless the client
// already sent one.
func RequestID() echo.MiddlewareFunc {
	return echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	})
}

// RequestLogger attaches a request-scoped logrus entry to the request
// context and logs one line per request once the handler returns.  It
// must run after RequestID; the actor is read after the chain completes.
func RequestLogger(log *logrus.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			entry := log.WithFields(logrus.Fields{
				"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
				"method":     req.Method,
				"path":       req.URL.Path,
			})
			c.SetRequest(req.WithContext(logger.ToContext(req.Context(), entry)))

			err := next(c)
			if err != nil {
				// let echo's error handler pick the status before logging
				c.Error(err)
			}

			fields := logrus.Fields{
				"status":     c.Response().Status,
				"latency_ms": time.Since(start).Milliseconds(),
				"route":      c.Path(),
				"actor":      userKey(c),
			}
			switch status := c.Response().Status; {
			case status >= 500:
				entry.WithFields(fields).Error("request failed")
			case status >= 400:
				entry.WithFields(fields).Warn("request rejected")
			default:
				entry.WithFields(fields).Info("request handled")
			}
			return nil
		}
	}
}
