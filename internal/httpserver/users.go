package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/nventon/user-backend/internal/logging"
	"github.com/nventon/user-backend/internal/repo"
	"github.com/nventon/user-backend/internal/service"
	"github.com/nventon/user-backend/internal/transport"
	"github.com/nventon/user-backend/internal/util"
)

type UserHTTP struct {
	Svc *service.UserService
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id is not a number")
	}
	return uint(id), nil
}

func (h *UserHTTP) GetUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.list")

	users, err := h.Svc.GetUsers(ctx)
	if err != nil {
		l.Error("get_users_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list users")
	}

	return c.JSON(http.StatusOK, users)
}

func (h *UserHTTP) GetUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.get")

	id, err := parseID(c)
	if err != nil {
		l.Warn("get_user_failed", "status", 400, "reason", "id is not a number")
		return err
	}

	user, err := h.Svc.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			l.Warn("get_user_failed", "status", 404, "id", id)
			return echo.NewHTTPError(http.StatusNotFound, "user does not exist")
		}
		l.Error("get_user_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get user")
	}

	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) CreateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.create")

	var req transport.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_user_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.CreateUser(ctx, req)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			l.Warn("create_user_failed", "status", 400, "field", verr.Field)
			return echo.NewHTTPError(http.StatusBadRequest, verr.Error())
		case errors.Is(err, repo.ErrDuplicateUsername):
			l.Warn("create_user_failed", "status", 409, "reason", "username already exists")
			return echo.NewHTTPError(http.StatusConflict, "username already exists")
		}
		l.Error("create_user_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create user")
	}

	return c.JSON(http.StatusCreated, user)
}

func (h *UserHTTP) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.update")

	id, err := parseID(c)
	if err != nil {
		l.Warn("update_user_failed", "status", 400, "reason", "id is not a number")
		return err
	}

	var req transport.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_user_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.UpdateUser(ctx, id, req)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			l.Warn("update_user_failed", "status", 400, "field", verr.Field)
			return echo.NewHTTPError(http.StatusBadRequest, verr.Error())
		case errors.Is(err, service.ErrUserNotFound):
			l.Warn("update_user_failed", "status", 404, "id", id)
			return echo.NewHTTPError(http.StatusNotFound, "user does not exist")
		case errors.Is(err, repo.ErrDuplicateUsername):
			l.Warn("update_user_failed", "status", 409, "reason", "username already exists")
			return echo.NewHTTPError(http.StatusConflict, "username already exists")
		}
		l.Error("update_user_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update user")
	}

	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.delete")

	id, err := parseID(c)
	if err != nil {
		l.Warn("delete_user_failed", "status", 400, "reason", "id is not a number")
		return err
	}

	if err := h.Svc.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			l.Warn("delete_user_failed", "status", 404, "id", id)
			return echo.NewHTTPError(http.StatusNotFound, "user does not exist")
		}
		l.Error("delete_user_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete user")
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *UserHTTP) SearchUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.search")

	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing query")
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	total, users, err := h.Svc.SearchUsers(ctx, q, from, limit)
	if err != nil {
		l.Error("search_users_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot search users")
	}

	return c.JSON(http.StatusOK, echo.Map{"total": total, "users": users})
}
