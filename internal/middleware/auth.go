package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/theatre-booking/internal/access"
	"github.com/iliyamo/theatre-booking/internal/utils"
)

const actorKey = "actor"

// Authenticate resolves the request's actor from an optional Bearer token.
// Requests without an Authorization header continue as anonymous; a header
// that is present but malformed, expired or badly signed is rejected with
// 401.  The actor is stored in the echo context and in the request's
// context.Context (see access.FromContext).
func Authenticate(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if auth == "" {
				setActor(c, access.Anonymous)
				return next(c)
			}
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			claims, err := utils.ParseAccessToken(secret, strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			setActor(c, access.Actor{
				UserID:        claims.UserID,
				Staff:         claims.IsStaff(),
				Authenticated: true,
			})
			return next(c)
		}
	}
}

func setActor(c echo.Context, a access.Actor) {
	c.Set(actorKey, a)
	c.SetRequest(c.Request().WithContext(access.WithActor(c.Request().Context(), a)))
}

// ActorFrom returns the actor set by Authenticate, or anonymous.
func ActorFrom(c echo.Context) access.Actor {
	if a, ok := c.Get(actorKey).(access.Actor); ok {
		return a
	}
	return access.Anonymous
}
