package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/book_catalog/internal/logging"
	authmw "github.com/Skotchmaster/book_catalog/internal/middleware/auth"
	"github.com/Skotchmaster/book_catalog/internal/service"
	"github.com/Skotchmaster/book_catalog/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := bindValid(c, l, "register_error", &req); err != nil {
		return err
	}

	user, err := h.Svc.Register(ctx, req.Username, req.Password)
	if err != nil {
		return serviceError(l, "register_error", err, "user not found")
	}

	l.Info("register_success", "user_id", user.ID)
	return c.JSON(http.StatusOK, transport.NewUserResponse(user))
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := bindValid(c, l, "login_error", &req); err != nil {
		return err
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			l.Warn("login_error", "status", 401, "reason", "invalid username or password")
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
		}
		return serviceError(l, "login_error", err, "user not found")
	}

	l.Info("login_success")
	return c.JSON(http.StatusOK, transport.TokenResponse{AccessToken: res.AccessToken, TokenType: res.TokenType})
}

func (h *AuthHTTP) Me(c echo.Context) error {
	user, ok := authmw.UserFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, credentialsMessage)
	}
	return c.JSON(http.StatusOK, transport.NewUserResponse(user))
}

func (h *AuthHTTP) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.update_user")

	id, err := parseID(c, l, "update_user_error")
	if err != nil {
		return err
	}

	var req transport.UpdateUserRequest
	if err := bindValid(c, l, "update_user_error", &req); err != nil {
		return err
	}

	caller, _ := authmw.UserFrom(c)
	user, err := h.Svc.UpdateUser(ctx, caller, id, service.UserUpdate{Username: req.Username, Password: req.Password})
	if err != nil {
		return serviceError(l, "update_user_error", err, "user not found")
	}

	l.Info("update_user_success", "user_id", user.ID)
	return c.JSON(http.StatusOK, transport.NewUserResponse(user))
}

func (h *AuthHTTP) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.delete_user")

	id, err := parseID(c, l, "delete_user_error")
	if err != nil {
		return err
	}

	caller, _ := authmw.UserFrom(c)
	if err := h.Svc.DeleteUser(ctx, caller, id); err != nil {
		return serviceError(l, "delete_user_error", err, "user not found")
	}

	l.Info("delete_user_success", "user_id", id)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "user deleted"})
}
