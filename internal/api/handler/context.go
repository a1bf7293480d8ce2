package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/imagegallery/gallery/internal/api/middleware"
)

// ctxUsername returns the username placed in the context by the Auth
// middleware, or "" when the route is unauthenticated.
func ctxUsername(c echo.Context) string {
	username, _ := c.Get(middleware.UsernameKey).(string)
	return username
}
