package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nventon/user-backend/internal/service"
	"github.com/nventon/user-backend/internal/tokens"
)

type SessionAuth struct {
	Svc *service.SessionService
}

func NewSessionAuth(svc *service.SessionService) *SessionAuth {
	return &SessionAuth{Svc: svc}
}

// RequireAuth gates a route on a live session: the token must carry a valid
// signature, be unexpired, and still have its row in the owner's token list.
func (m *SessionAuth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		username := c.Request().Header.Get("X-Username")
		token := bearerToken(c)
		if username == "" || token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing session credentials")
		}

		ok, err := m.Svc.TryToken(c.Request().Context(), username, token)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrUserNotFound):
				return echo.NewHTTPError(http.StatusUnauthorized, "unknown user")
			case errors.Is(err, tokens.ErrTokenExpired):
				return echo.NewHTTPError(http.StatusUnauthorized, "token has expired")
			case errors.Is(err, tokens.ErrTokenInvalid):
				return echo.NewHTTPError(http.StatusUnauthorized, "token is invalid")
			}
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot verify token")
		}
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "session has been revoked")
		}

		c.Set("username", username)
		return next(c)
	}
}

func bearerToken(c echo.Context) string {
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	if cookie, err := c.Cookie("sessionToken"); err == nil {
		return cookie.Value
	}
	return ""
}
