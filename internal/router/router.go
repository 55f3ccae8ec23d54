package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/aks-110/quickstay/internal/config"
	"github.com/aks-110/quickstay/internal/handler"
	"github.com/aks-110/quickstay/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication: the
// health check, the public room listing and the availability check. The
// room listing is the hottest read path and sits behind the Redis response
// cache; rdb may be nil, in which case the cache middleware is a no-op.
func RegisterRoutes(e *echo.Echo, rooms *handler.RoomHandler, bookings *handler.BookingHandler, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	e.GET("/v1/rooms", rooms.ListAvailable, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	e.POST("/v1/bookings/check-availability", bookings.CheckAvailability)
}

// RegisterWebhooks registers provider-facing callback routes. These are
// authenticated by payload signature, not by bearer token, so they live
// outside the auth group.
func RegisterWebhooks(e *echo.Echo, w *handler.WebhookHandler) {
	e.POST("/v1/payments/webhook", w.Handle)
}
