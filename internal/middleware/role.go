package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/theatre-booking/internal/access"
)

// Authorize enforces the access policy for one resource group.  The HTTP
// method decides the operation (GET, HEAD and OPTIONS read, anything else
// writes).  Anonymous callers that are denied get 401, authenticated ones
// 403.  It must run after Authenticate.
func Authorize(resource access.Resource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			op := access.OperationForMethod(c.Request().Method)
			err := access.Check(op, resource, ActorFrom(c))
			switch {
			case err == nil:
				return next(c)
			case errors.Is(err, access.ErrUnauthenticated):
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			default:
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
		}
	}
}
