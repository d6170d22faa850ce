package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/theatre-booking/internal/access"
	"github.com/iliyamo/theatre-booking/internal/logger"
	"github.com/iliyamo/theatre-booking/internal/model"
	"github.com/iliyamo/theatre-booking/internal/repository"
)

// writeError translates a service or repository error into a JSON
// response.  Every handler funnels its failures through here so that the
// status codes stay consistent across endpoints.
func writeError(c echo.Context, err error) error {
	var (
		reqErr   *requestError
		oor      *model.SeatOutOfRangeError
		taken    *model.SeatTakenError
		perfNF   *model.PerformanceNotFoundError
		invErr   *model.InvariantViolationError
		storeErr *model.StorageError
	)
	log := logger.FromContext(c.Request().Context())

	switch {
	case errors.As(err, &reqErr):
		body := echo.Map{"error": reqErr.msg}
		if len(reqErr.fields) > 0 {
			body["fields"] = reqErr.fields
		}
		return c.JSON(http.StatusBadRequest, body)
	case errors.Is(err, access.ErrUnauthenticated):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	case errors.Is(err, access.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.As(err, &oor):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": oor.Error(),
			"field": oor.Field,
			"value": oor.Value,
			"min":   oor.Min,
			"max":   oor.Max,
		})
	case errors.As(err, &taken):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":       taken.Error(),
			"performance": taken.PerformanceID,
			"row":         taken.Row,
			"seat":        taken.Seat,
		})
	case errors.As(err, &perfNF):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": perfNF.Error(), "performance": perfNF.PerformanceID})
	case errors.Is(err, model.ErrEmptyReservationRequest), errors.Is(err, model.ErrInvalidHallLayout):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrInvalidReference):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.As(err, &invErr):
		log.WithError(err).Error("invariant violation")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	case errors.As(err, &storeErr):
		log.WithError(err).Error("storage failure")
		c.Response().Header().Set("Retry-After", "1")
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "temporarily unavailable", "retryable": storeErr.Retryable()})
	default:
		log.WithError(err).Error("unhandled error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// parseID reads the :id path parameter.
func parseID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, &requestError{msg: "invalid id"}
	}
	return id, nil
}

// queryID reads an optional numeric query parameter; absent means 0.
func queryID(c echo.Context, name string) (uint64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, &requestError{msg: "invalid " + name}
	}
	return id, nil
}
