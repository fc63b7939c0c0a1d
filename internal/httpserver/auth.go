package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nventon/user-backend/internal/logging"
	"github.com/nventon/user-backend/internal/service"
	"github.com/nventon/user-backend/internal/tokens"
	"github.com/nventon/user-backend/internal/transport"
)

type AuthHTTP struct {
	Svc *service.SessionService
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			l.Warn("login_failed", "status", 401)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
		}
		l.Error("login_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot log in")
	}

	c.SetCookie(createCookie("sessionToken", res.Token, "/", res.ExpiresAt))

	return c.JSON(http.StatusOK, res)
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	var req transport.LogoutRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("logout_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.Logout(ctx, req.Username, req.Token); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			l.Warn("logout_failed", "status", 404, "reason", "user does not exist")
			return echo.NewHTTPError(http.StatusNotFound, "user does not exist")
		case errors.Is(err, service.ErrTokenNotExist):
			l.Warn("logout_failed", "status", 404, "reason", "token does not exist")
			return echo.NewHTTPError(http.StatusNotFound, "token does not exist")
		}
		l.Error("logout_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot log out")
	}

	c.SetCookie(deleteCookie("sessionToken", "/"))

	l.Info("logout_successful")
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *AuthHTTP) TryToken(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.try_token")

	var req transport.TryTokenRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("try_token_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	valid, err := h.Svc.TryToken(ctx, req.Username, req.Token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			l.Warn("try_token_failed", "status", 404, "reason", "user does not exist")
			return echo.NewHTTPError(http.StatusNotFound, "user does not exist")
		case errors.Is(err, tokens.ErrTokenExpired):
			l.Warn("try_token_failed", "status", 401, "reason", "token has expired")
			return echo.NewHTTPError(http.StatusUnauthorized, "token has expired")
		case errors.Is(err, tokens.ErrTokenInvalid):
			l.Warn("try_token_failed", "status", 401, "reason", "token is invalid")
			return echo.NewHTTPError(http.StatusUnauthorized, "token is invalid")
		}
		l.Error("try_token_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot verify token")
	}

	return c.JSON(http.StatusOK, echo.Map{"valid": valid})
}
