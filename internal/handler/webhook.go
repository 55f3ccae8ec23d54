package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/aks-110/quickstay/internal/observability"
	"github.com/aks-110/quickstay/internal/payment"
	"github.com/aks-110/quickstay/internal/repository"
)

// WebhookHandler receives checkout events pushed by the payment provider.
// The endpoint is unauthenticated; the HMAC signature over the raw body is
// the only trust anchor, so signature failures are the one place this
// service answers 400.
type WebhookHandler struct {
	Bookings *repository.BookingRepo
	Secret   string
}

func NewWebhookHandler(bookings *repository.BookingRepo, secret string) *WebhookHandler {
	if bookings == nil {
		panic("nil repository passed to NewWebhookHandler")
	}
	return &WebhookHandler{Bookings: bookings, Secret: secret}
}

// Handle processes POST /v1/payments/webhook. Events are acknowledged with
// {"received": true} whenever the signature checks out, including replays
// of already-paid bookings and event types we do not handle, so the
// provider stops retrying.
func (h *WebhookHandler) Handle(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.String(http.StatusBadRequest, "Webhook Error: unreadable body")
	}
	sig := c.Request().Header.Get("X-Checkout-Signature")
	if err := payment.VerifySignature(body, sig, h.Secret, time.Now()); err != nil {
		return c.String(http.StatusBadRequest, "Webhook Error: "+err.Error())
	}

	var event payment.Event
	if err := json.Unmarshal(body, &event); err != nil {
		return c.String(http.StatusBadRequest, "Webhook Error: malformed payload")
	}

	switch event.Type {
	case payment.EventCheckoutCompleted:
		session := event.Data.Object
		bookingID, err := strconv.ParseUint(session.Metadata["booking_id"], 10, 64)
		if err != nil || bookingID == 0 {
			log.Warn().Str("event_id", event.ID).Msg("checkout event without booking reference")
			break
		}
		updated, err := h.Bookings.MarkPaid(c.Request().Context(), bookingID, "Online (Checkout)")
		if err != nil {
			log.Error().Err(err).Uint64("booking_id", bookingID).Msg("webhook payment update failed")
			return serverError(c, "failed to update booking")
		}
		if updated {
			observability.PaymentsConfirmed.WithLabelValues("webhook").Inc()
		} else {
			// Replayed or raced with the verify path; already settled.
			log.Info().Uint64("booking_id", bookingID).Msg("webhook for already-paid booking")
		}
	default:
		log.Info().Str("type", event.Type).Msg("unhandled webhook event type")
	}

	return c.JSON(http.StatusOK, echo.Map{"received": true})
}
