package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/aks-110/quickstay/internal/model"
	"github.com/aks-110/quickstay/internal/observability"
	"github.com/aks-110/quickstay/internal/queue"
	"github.com/aks-110/quickstay/internal/repository"
	queue_publisher "github.com/aks-110/quickstay/internal/service"
)

// BookingHandler implements availability checks, booking creation,
// listings and cancellation.
type BookingHandler struct {
	Bookings *repository.BookingRepo
	Rooms    *repository.RoomRepo
	Hotels   *repository.HotelRepo

	// AMQPURL is the broker used for best-effort booking notifications.
	AMQPURL string
}

func NewBookingHandler(bookings *repository.BookingRepo, rooms *repository.RoomRepo, hotels *repository.HotelRepo, amqpURL string) *BookingHandler {
	if bookings == nil || rooms == nil || hotels == nil {
		panic("nil repository passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: bookings, Rooms: rooms, Hotels: hotels, AMQPURL: amqpURL}
}

type bookingDates struct {
	in  time.Time
	out time.Time
}

// parseBookingDates validates the wire dates shared by the availability
// and create endpoints.
func parseBookingDates(checkIn, checkOut string) (bookingDates, string) {
	in, err := parseDate(checkIn)
	if err != nil {
		return bookingDates{}, "invalid checkInDate"
	}
	out, err := parseDate(checkOut)
	if err != nil {
		return bookingDates{}, "invalid checkOutDate"
	}
	if out.Before(in) {
		return bookingDates{}, "checkOutDate must not be before checkInDate"
	}
	return bookingDates{in: in, out: out}, ""
}

// CheckAvailability handles POST /v1/bookings/check-availability. This is
// a point-in-time read; the create path re-checks atomically, so a true
// answer here is advisory, not a hold.
func (h *BookingHandler) CheckAvailability(c echo.Context) error {
	var body struct {
		Room         uint64 `json:"room"`
		CheckInDate  string `json:"checkInDate"`
		CheckOutDate string `json:"checkOutDate"`
	}
	if err := c.Bind(&body); err != nil || body.Room == 0 {
		return fail(c, "room, checkInDate and checkOutDate are required")
	}
	dates, msg := parseBookingDates(body.CheckInDate, body.CheckOutDate)
	if msg != "" {
		return fail(c, msg)
	}
	available, err := h.Bookings.IsAvailable(c.Request().Context(), body.Room, dates.in, dates.out)
	if err != nil {
		return serverError(c, "failed to check availability")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "isAvailable": available})
}

// Create handles POST /v1/bookings. The overlap check and the insert run
// in one transaction inside the repository, so two concurrent requests
// for the same dates cannot both succeed. A confirmation notification is
// fired after commit; its failure never fails the booking.
func (h *BookingHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var body struct {
		Room          uint64 `json:"room"`
		CheckInDate   string `json:"checkInDate"`
		CheckOutDate  string `json:"checkOutDate"`
		Guests        uint32 `json:"guests"`
		PaymentMethod string `json:"paymentMethod"`
	}
	if err := c.Bind(&body); err != nil || body.Room == 0 {
		return fail(c, "room, checkInDate and checkOutDate are required")
	}
	dates, msg := parseBookingDates(body.CheckInDate, body.CheckOutDate)
	if msg != "" {
		return fail(c, msg)
	}
	if body.Guests == 0 {
		return fail(c, "guests must be at least 1")
	}

	ctx := c.Request().Context()
	room, err := h.Rooms.GetWithOwner(ctx, body.Room)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return fail(c, "room not found")
		}
		return serverError(c, "failed to load room")
	}
	if room.OwnerID == user.ID {
		return fail(c, "you cannot book your own room")
	}

	method := body.PaymentMethod
	if method == "" {
		method = model.PayAtHotel
	}
	booking := &model.Booking{
		UserID:        user.ID,
		RoomID:        room.ID,
		HotelID:       room.HotelID,
		CheckIn:       dates.in,
		CheckOut:      dates.out,
		Guests:        body.Guests,
		TotalPrice:    model.TotalPrice(room.PricePerNight, dates.in, dates.out),
		PaymentMethod: method,
	}
	if err := h.Bookings.CreateIfAvailable(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrRoomUnavailable) {
			return fail(c, "room not available for these dates")
		}
		return serverError(c, "booking failed")
	}
	observability.BookingsCreated.Inc()

	// Best-effort guest notification; isolated from the request so a slow
	// or dead broker never fails the booking.
	event := queue.BookingConfirmedEvent{
		BookingID:     booking.ID,
		UserID:        user.ID,
		GuestEmail:    user.Email,
		GuestName:     user.Username,
		HotelName:     room.HotelName,
		RoomType:      room.RoomType,
		CheckInDate:   dates.in.Format(dateLayout),
		CheckOutDate:  dates.out.Format(dateLayout),
		Guests:        body.Guests,
		TotalPrice:    booking.TotalPrice,
		PaymentMethod: method,
		ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	go func(url string, ev queue.BookingConfirmedEvent) {
		pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := queue_publisher.PublishBookingConfirmed(pubCtx, url, ev); err != nil {
			log.Warn().Err(err).Uint64("booking_id", ev.BookingID).Msg("booking notification failed")
		}
	}(h.AMQPURL, event)

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "booking created successfully"})
}

// ListUser handles GET /v1/bookings/user: the caller's bookings, newest
// first, joined with room and hotel details.
func (h *BookingHandler) ListUser(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	bookings, err := h.Bookings.ListByUser(c.Request().Context(), user.ID)
	if err != nil {
		return serverError(c, "failed to load bookings")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "bookings": bookings})
}

// ListHotel handles GET /v1/bookings/hotel: the owner dashboard with all
// bookings for the caller's hotel plus aggregate totals. Revenue excludes
// cancelled bookings.
func (h *BookingHandler) ListHotel(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	hotel, err := h.Hotels.GetByOwner(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrHotelNotFound) {
			return fail(c, "hotel not found")
		}
		return serverError(c, "failed to load hotel")
	}
	bookings, err := h.Bookings.ListByHotel(ctx, hotel.ID)
	if err != nil {
		return serverError(c, "failed to fetch bookings")
	}
	totalBookings, totalRevenue, err := h.Bookings.DashboardTotals(ctx, hotel.ID)
	if err != nil {
		return serverError(c, "failed to fetch bookings")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"dashboardData": echo.Map{
			"totalBookings": totalBookings,
			"totalRevenue":  totalRevenue,
		},
		"bookings": bookings,
	})
}

// Cancel handles POST /v1/bookings/cancel. Only the guest or the owner of
// the booking's hotel may cancel; the booking transitions to cancelled and
// the record is retained.
func (h *BookingHandler) Cancel(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var body struct {
		BookingID uint64 `json:"bookingId"`
	}
	if err := c.Bind(&body); err != nil || body.BookingID == 0 {
		return fail(c, "bookingId is required")
	}
	ctx := c.Request().Context()
	booking, err := h.Bookings.GetByID(ctx, body.BookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return fail(c, "booking not found")
		}
		return serverError(c, "failed to load booking")
	}

	if booking.UserID != user.ID {
		// Not the guest; permit only the owner of the booking's hotel.
		hotel, err := h.Hotels.GetByOwner(ctx, user.ID)
		if err != nil || hotel.ID != booking.HotelID {
			return fail(c, "unauthorized action")
		}
	}

	cancelled, err := h.Bookings.Cancel(ctx, booking.ID)
	if err != nil {
		return serverError(c, "failed to cancel booking")
	}
	if !cancelled {
		return fail(c, "booking already cancelled")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "booking cancelled"})
}
