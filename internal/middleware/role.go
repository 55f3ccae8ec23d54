package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole returns a middleware that enforces that the authenticated
// user holds one of the specified roles. It assumes Auth has already
// resolved the user into the context; requests without one are rejected.
// Business-facing role failures keep the structured success=false envelope
// rather than a protocol error, matching the rest of the API.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "not authenticated"})
			}
			if !allowed[user.Role] {
				return c.JSON(http.StatusOK, echo.Map{"success": false, "message": "forbidden"})
			}
			return next(c)
		}
	}
}
