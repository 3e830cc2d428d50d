package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/logintest/accounts-api/internal/api/middleware"
)

// callerID returns the id of the authenticated caller, or "" on routes that
// are not behind the Auth middleware.
func callerID(c echo.Context) string {
	id, _ := c.Get(middleware.UserIDKey).(string)
	return id
}
