package handler

import (
	"fmt"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aks-110/quickstay/internal/payment"
	"github.com/aks-110/quickstay/internal/repository"
)

const webhookSecret = "whsec_test"

func newWebhookHandler(t *testing.T) (*WebhookHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewWebhookHandler(repository.NewBookingRepo(db), webhookSecret), mock
}

func signWebhook(body string) string {
	ts := time.Now().Unix()
	return fmt.Sprintf("t=%d,v1=%s", ts, payment.ComputeSignature([]byte(body), ts, webhookSecret))
}

func TestWebhook(t *testing.T) {
	completed := `{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"id":"cs_123","status":"paid","metadata":{"booking_id":"7"}}}}`

	t.Run("marks booking paid on completed checkout", func(t *testing.T) {
		h, mock := newWebhookHandler(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET is_paid = 1, payment_method = ?")).
			WithArgs("Online (Checkout)", uint64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		c, rec := newContext(t, http.MethodPost, "/v1/payments/webhook", completed, nil)
		c.Request().Header.Set("X-Checkout-Signature", signWebhook(completed))
		require.NoError(t, h.Handle(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		out := decodeBody(t, rec)
		assert.Equal(t, true, out["received"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("bad signature is rejected with 400", func(t *testing.T) {
		h, mock := newWebhookHandler(t)

		c, rec := newContext(t, http.MethodPost, "/v1/payments/webhook", completed, nil)
		c.Request().Header.Set("X-Checkout-Signature", "t=1,v1=deadbeef")
		require.NoError(t, h.Handle(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Webhook Error")
		assert.NoError(t, mock.ExpectationsWereMet(), "no database access on signature failure")
	})

	t.Run("missing signature is rejected with 400", func(t *testing.T) {
		h, _ := newWebhookHandler(t)

		c, rec := newContext(t, http.MethodPost, "/v1/payments/webhook", completed, nil)
		require.NoError(t, h.Handle(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("replay still acknowledges", func(t *testing.T) {
		h, mock := newWebhookHandler(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET is_paid = 1, payment_method = ?")).
			WithArgs("Online (Checkout)", uint64(7)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		c, rec := newContext(t, http.MethodPost, "/v1/payments/webhook", completed, nil)
		c.Request().Header.Set("X-Checkout-Signature", signWebhook(completed))
		require.NoError(t, h.Handle(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		out := decodeBody(t, rec)
		assert.Equal(t, true, out["received"])
	})

	t.Run("unhandled event types are acknowledged", func(t *testing.T) {
		other := `{"id":"evt_2","type":"checkout.session.expired","data":{"object":{"id":"cs_9"}}}`
		h, mock := newWebhookHandler(t)

		c, rec := newContext(t, http.MethodPost, "/v1/payments/webhook", other, nil)
		c.Request().Header.Set("X-Checkout-Signature", signWebhook(other))
		require.NoError(t, h.Handle(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		out := decodeBody(t, rec)
		assert.Equal(t, true, out["received"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
