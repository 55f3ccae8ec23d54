package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/aks-110/quickstay/internal/model"
	"github.com/aks-110/quickstay/internal/observability"
	"github.com/aks-110/quickstay/internal/payment"
	"github.com/aks-110/quickstay/internal/repository"
)

// PaymentHandler drives the hosted-checkout flow. A booking is only ever
// marked paid from provider-asserted session state: either the verify
// endpoint fetching the session from the provider, or the signed webhook.
type PaymentHandler struct {
	Bookings *repository.BookingRepo
	Rooms    *repository.RoomRepo
	Payments *payment.Client

	// FrontendBaseURL is where the provider redirects the guest after
	// checkout completes or is abandoned.
	FrontendBaseURL string
}

func NewPaymentHandler(bookings *repository.BookingRepo, rooms *repository.RoomRepo, payments *payment.Client, frontendBaseURL string) *PaymentHandler {
	if bookings == nil || rooms == nil || payments == nil {
		panic("nil dependency passed to NewPaymentHandler")
	}
	return &PaymentHandler{Bookings: bookings, Rooms: rooms, Payments: payments, FrontendBaseURL: frontendBaseURL}
}

// InitiateCheckout handles POST /v1/payments/checkout. It opens a checkout
// session for the caller's booking and returns the redirect URL. Prices are
// stored in major units; the provider expects minor units.
func (h *PaymentHandler) InitiateCheckout(c echo.Context) error {
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
		return fail(c, "unauthorized action")
	}
	if booking.IsPaid {
		return fail(c, "Booking is already paid")
	}
	if booking.Status == model.BookingCancelled {
		return fail(c, "booking is cancelled")
	}

	room, err := h.Rooms.GetWithOwner(ctx, booking.RoomID)
	if err != nil {
		return serverError(c, "failed to load room")
	}

	bookingID := strconv.FormatUint(booking.ID, 10)
	session, err := h.Payments.CreateSession(ctx, payment.CreateSessionParams{
		Name:       room.HotelName + " - " + room.RoomType,
		Amount:     booking.TotalPrice * 100,
		Quantity:   1,
		SuccessURL: h.FrontendBaseURL + "/loader/my-bookings",
		CancelURL:  h.FrontendBaseURL + "/my-bookings",
		Metadata:   map[string]string{"booking_id": bookingID},
	})
	if err != nil {
		return serverError(c, "failed to create payment session")
	}
	if err := h.Bookings.SetSessionID(ctx, booking.ID, session.ID); err != nil {
		return serverError(c, "failed to record payment session")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "url": session.URL})
}

// Verify handles POST /v1/payments/verify. The caller supplies either the
// session id returned by the provider redirect or the booking id; in both
// cases the session state is fetched from the provider and the booking is
// marked paid only when the provider says the session is paid.
func (h *PaymentHandler) Verify(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var body struct {
		SessionID string `json:"sessionId"`
		BookingID uint64 `json:"bookingId"`
	}
	if err := c.Bind(&body); err != nil {
		return fail(c, "invalid request body")
	}

	ctx := c.Request().Context()
	sessionID := body.SessionID
	if sessionID == "" {
		if body.BookingID == 0 {
			return fail(c, "sessionId or bookingId is required")
		}
		booking, err := h.Bookings.GetByID(ctx, body.BookingID)
		if err != nil {
			if errors.Is(err, repository.ErrBookingNotFound) {
				return fail(c, "booking not found")
			}
			return serverError(c, "failed to load booking")
		}
		if booking.SessionID == nil {
			return fail(c, "no payment session for this booking")
		}
		sessionID = *booking.SessionID
	}

	session, err := h.Payments.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, payment.ErrNotFound) {
			return fail(c, "payment session not found")
		}
		return serverError(c, "failed to verify payment")
	}
	if session.Status != payment.SessionPaid {
		return fail(c, "payment not completed")
	}

	bookingID, err := strconv.ParseUint(session.Metadata["booking_id"], 10, 64)
	if err != nil || bookingID == 0 {
		return serverError(c, "payment session has no booking reference")
	}
	booking, err := h.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return fail(c, "booking not found")
		}
		return serverError(c, "failed to load booking")
	}
	if booking.UserID != user.ID {
		return fail(c, "unauthorized action")
	}

	updated, err := h.Bookings.MarkPaid(ctx, booking.ID, "Online (Verified)")
	if err != nil {
		return serverError(c, "failed to update booking")
	}
	if !updated {
		return fail(c, "Booking is already paid")
	}
	observability.PaymentsConfirmed.WithLabelValues("verify").Inc()
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Payment Successful! Booking Updated."})
}
