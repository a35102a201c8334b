package auth

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/book_catalog/internal/models"
)

const userCtxKey = "user"

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header value. The scheme is matched case-insensitively.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func setUser(c echo.Context, u *models.User) {
	c.Set(userCtxKey, u)
}

// UserFrom returns the user stored by RequireUser.
func UserFrom(c echo.Context) (*models.User, bool) {
	u, ok := c.Get(userCtxKey).(*models.User)
	return u, ok && u != nil
}
