package handlers

import (
	"errors"
	"net/http"

	"github.com/blognest/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// httpError maps domain errors onto HTTP statuses. ErrAuthFailure is
// mapped by the individual handlers because the status depends on
// whether credentials or a token failed.
func httpError(err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Not found")
	case errors.Is(err, services.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "Not enough permissions")
	case errors.Is(err, services.ErrInactiveAccount):
		return echo.NewHTTPError(http.StatusForbidden, "Inactive user")
	case errors.Is(err, services.ErrConflict):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrExternalService):
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
}
