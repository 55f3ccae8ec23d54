package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aks-110/quickstay/internal/observability"
)

// Metrics records per-route request counts and latency histograms.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			route := c.Path()
			if route == "" {
				route = c.Request().URL.Path
			}
			observability.ObserveHTTP(route, c.Request().Method, c.Response().Status, time.Since(start))
			return err
		}
	}
}
