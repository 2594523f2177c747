package handler // handler defines http handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/iliyamo/seat-reservation/internal/booking"
	"github.com/iliyamo/seat-reservation/internal/middleware"
	"github.com/iliyamo/seat-reservation/internal/validate"
)

var errNoUser = errors.New("invalid user_id in context")

// getUserID returns the authenticated user's id set by the JWT middleware.
func getUserID(c echo.Context) (uint64, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return 0, errNoUser
	}
	return id, nil
}

// parseID reads a positive numeric path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

// bindAndValidate binds the request body into req and runs the validator
// when one is installed.  On failure it writes the 400 response and
// returns false.
func bindAndValidate(c echo.Context, req interface{}) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if c.Echo().Validator == nil {
		return true, nil
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, echo.Map{"error": validate.Message(err)})
	}
	return true, nil
}

// bookingError writes the response for an error returned by the booking
// engine.  Expected outcomes keep their reason; anything else is logged and
// reported as a generic server error.
func bookingError(c echo.Context, log *zap.Logger, err error) error {
	switch {
	case errors.Is(err, booking.ErrInvalidArgument), errors.Is(err, booking.ErrPastDate):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": booking.Reason(err)})
	case errors.Is(err, booking.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": booking.Reason(err)})
	case errors.Is(err, booking.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": booking.Reason(err)})
	}
	return serverError(c, log, err)
}

func serverError(c echo.Context, log *zap.Logger, err error) error {
	log.Error("request failed",
		zap.String("method", c.Request().Method),
		zap.String("path", c.Path()),
		zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
}
