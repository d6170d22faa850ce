package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// userKey identifies the caller for rate-limit keys and request logs:
// the numeric user id, or "anon".
func userKey(c echo.Context) string {
	a := ActorFrom(c)
	if !a.Authenticated {
		return "anon"
	}
	return strconv.FormatUint(a.UserID, 10)
}
