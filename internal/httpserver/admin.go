package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/book_catalog/internal/logging"
	"github.com/Skotchmaster/book_catalog/internal/service"
	"github.com/Skotchmaster/book_catalog/internal/transport"
)

type AdminHTTP struct {
	Svc *service.AdminService
}

func (h *AdminHTTP) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Welcome to the book catalog API"})
}

func (h *AdminHTTP) Ready(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.Svc.Ready(ctx); err != nil {
		logging.FromContext(ctx).Error("readiness_error", "status", 503, "error", err)
		return c.NoContent(http.StatusServiceUnavailable)
	}
	return c.NoContent(http.StatusOK)
}

// SetupDatabase drops and recreates all tables.
func (h *AdminHTTP) SetupDatabase(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.setup_database")

	if err := h.Svc.ResetDatabase(ctx); err != nil {
		l.Error("setup_database_error", "status", 500, "reason", "cannot reset database", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot reset database")
	}

	l.Info("setup_database_success")
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "database reset"})
}
