// Package handler contains the HTTP handlers for the booking API.
//
// Error policy: business-rule failures (validation, unavailable room,
// unauthorized action on a booking, missing records) are returned as
// 200 responses with {"success": false, "message": ...} so browser
// clients branch on the flag instead of catching transport errors.
// Protocol failures keep real status codes: 401 for missing/invalid
// bearer tokens, 400 for webhook signature failures (the provider
// retries on non-2xx), 500 for unexpected server faults.
package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aks-110/quickstay/internal/middleware"
	"github.com/aks-110/quickstay/internal/model"
)

// dateLayout is the wire format for check-in/check-out dates.
const dateLayout = "2006-01-02"

// fail reports a business-rule failure.
func fail(c echo.Context, msg string) error {
	return c.JSON(http.StatusOK, echo.Map{"success": false, "message": msg})
}

// serverError reports an unexpected fault without leaking internals.
func serverError(c echo.Context, msg string) error {
	return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": msg})
}

// currentUser pulls the authenticated user from context. Routes reaching
// handlers that call this are always wrapped by the Auth middleware; the
// fallback guards against wiring mistakes.
func currentUser(c echo.Context) (model.User, error) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return model.User{}, echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	return u, nil
}

// parseDate parses a wire date into a UTC date-only time.
func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.UTC)
}
