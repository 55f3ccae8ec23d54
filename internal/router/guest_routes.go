package router

import (
	"github.com/labstack/echo/v4"

	"github.com/aks-110/quickstay/internal/handler"
	"github.com/aks-110/quickstay/internal/middleware"
	"github.com/aks-110/quickstay/internal/model"
	"github.com/aks-110/quickstay/internal/repository"
)

// RegisterGuest registers the endpoints any authenticated caller may use:
// profile data, recent searches, hotel registration, booking creation and
// the checkout flow. Both roles are accepted because hotel owners also book
// stays; the one asymmetry is self-booking, which the booking handler
// rejects per room rather than per role.
func RegisterGuest(e *echo.Echo, u *handler.UserHandler, ho *handler.HotelHandler, b *handler.BookingHandler, p *handler.PaymentHandler, jwtSecret string, users *repository.UserRepo) {
	g := e.Group(
		"/v1",
		middleware.Auth(jwtSecret, users),
		middleware.RequireRole(model.RoleUser, model.RoleHotelOwner),
	)

	g.GET("/users/me", u.GetMe)
	g.POST("/users/recent-search", u.StoreRecentSearch)

	// Registering a hotel promotes the caller to hotelOwner.
	g.POST("/hotels", ho.Register)

	g.POST("/bookings", b.Create)
	g.GET("/bookings/user", b.ListUser)
	g.POST("/bookings/cancel", b.Cancel)

	g.POST("/payments/checkout", p.InitiateCheckout)
	g.POST("/payments/verify", p.Verify)
}
