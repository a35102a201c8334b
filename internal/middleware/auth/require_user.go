package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/book_catalog/internal/logging"
	"github.com/Skotchmaster/book_catalog/internal/models"
	"github.com/Skotchmaster/book_catalog/internal/service"
)

const credentialsMessage = "could not validate credentials"

type Resolver interface {
	Resolve(ctx context.Context, token string) (*models.User, error)
}

// RequireUser rejects requests without a bearer token that resolves to an
// existing user and stores that user in the echo context otherwise.
func RequireUser(r Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			l := logging.FromContext(ctx).With("middleware", "auth.require_user")

			token, ok := BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				l.Warn("auth_error", "status", 401, "reason", "missing bearer token")
				return unauthorized(c)
			}

			user, err := r.Resolve(ctx, token)
			if err != nil {
				if errors.Is(err, service.ErrUnauthorized) {
					l.Warn("auth_error", "status", 401, "reason", "token rejected")
					return unauthorized(c)
				}
				l.Error("auth_error", "status", 500, "reason", "cannot resolve user", "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
			}

			setUser(c, user)
			return next(c)
		}
	}
}

func unauthorized(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return echo.NewHTTPError(http.StatusUnauthorized, credentialsMessage)
}
