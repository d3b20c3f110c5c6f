package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/resident_hub/internal/middleware"
)

type Deps struct {
	AuthHandler  *AuthHTTP
	AccessSecret []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	guard := middleware.NewGuard(d.AccessSecret)

	auth := e.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/refresh", d.AuthHandler.Refresh)

	private := auth.Group("")
	private.Use(guard.RequireAccessToken)
	private.GET("/me", d.AuthHandler.Me)
	private.POST("/logout", d.AuthHandler.Logout)
}
