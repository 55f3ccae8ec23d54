package router

import (
	"github.com/labstack/echo/v4"

	"github.com/aks-110/quickstay/internal/handler"
	"github.com/aks-110/quickstay/internal/middleware"
	"github.com/aks-110/quickstay/internal/model"
	"github.com/aks-110/quickstay/internal/repository"
)

// RegisterOwner registers the hotel-owner endpoints: room management and
// the booking dashboard. All routes require the hotelOwner role; the
// handlers additionally scope every operation through the caller's own
// hotel.
func RegisterOwner(e *echo.Echo, r *handler.RoomHandler, b *handler.BookingHandler, jwtSecret string, users *repository.UserRepo) {
	g := e.Group(
		"/v1",
		middleware.Auth(jwtSecret, users),
		middleware.RequireRole(model.RoleHotelOwner),
	)

	g.POST("/rooms", r.Create)
	g.GET("/rooms/owner", r.ListOwner)
	g.POST("/rooms/toggle-availability", r.ToggleAvailability)
	g.POST("/rooms/remove", r.Remove)

	g.GET("/bookings/hotel", b.ListHotel)
}
