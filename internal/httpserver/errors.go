package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/book_catalog/internal/service"
	"github.com/Skotchmaster/book_catalog/internal/validation"
)

const (
	credentialsMessage = "could not validate credentials"
	internalMessage    = "internal error"
	forbiddenMessage   = "you can only change your own account"
)

// bindValid decodes the body into req and runs the registered validator.
func bindValid(c echo.Context, l *slog.Logger, event string, req any) error {
	if err := c.Bind(req); err != nil {
		l.Warn(event, "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(req); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			l.Warn(event, "status", 400, "reason", "validation failed", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, verr.Error())
		}
		l.Warn(event, "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	return nil
}

func parseID(c echo.Context, l *slog.Logger, event string) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		l.Warn(event, "status", 400, "reason", "id is not a positive integer", "id", c.Param("id"))
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}
	return uint(id), nil
}

// serviceError maps a service error onto a response and logs it at the level
// its status deserves.
func serviceError(l *slog.Logger, event string, err error, notFound string) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", 404, "reason", notFound, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, notFound)
	case errors.Is(err, service.ErrDuplicate), errors.Is(err, service.ErrValidation):
		l.Warn(event, "status", 400, "reason", "rejected by service", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrForbidden):
		l.Warn(event, "status", 403, "reason", forbiddenMessage, "error", err)
		return echo.NewHTTPError(http.StatusForbidden, forbiddenMessage)
	case errors.Is(err, service.ErrUnauthorized):
		l.Warn(event, "status", 401, "reason", "unauthorized", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, credentialsMessage)
	default:
		l.Error(event, "status", 500, "reason", internalMessage, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, internalMessage)
	}
}
