package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nventon/user-backend/internal/middleware"
)

type Deps struct {
	AuthHandler *AuthHTTP
	UserHandler *UserHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	authMw := middleware.NewSessionAuth(d.AuthHandler.Svc)

	e.POST("/login", d.AuthHandler.Login)
	e.POST("/logout", d.AuthHandler.Logout)
	e.POST("/try-token", d.AuthHandler.TryToken)

	users := e.Group("/users")
	users.POST("", d.UserHandler.CreateUser)

	private := users.Group("", authMw.RequireAuth)
	private.GET("", d.UserHandler.GetUsers)
	private.GET("/search", d.UserHandler.SearchUsers)
	private.GET("/:id", d.UserHandler.GetUser)
	private.PATCH("/:id", d.UserHandler.UpdateUser)
	private.DELETE("/:id", d.UserHandler.DeleteUser)
}
