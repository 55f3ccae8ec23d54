package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aks-110/quickstay/internal/model"
	"github.com/aks-110/quickstay/internal/payment"
	"github.com/aks-110/quickstay/internal/repository"
)

func expectGetBookingByIDWithSession(mock sqlmock.Sqlmock, id, userID uint64, sessionID string) {
	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = ?").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "room_id", "hotel_id", "check_in", "check_out", "guests", "total_price",
			"payment_method", "is_paid", "session_id", "status", "created_at", "updated_at",
		}).AddRow(id, userID, 5, 3,
			time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 6, 4, 0, 0, 0, 0, time.UTC),
			2, 450, model.PayAtHotel, false, sessionID, model.BookingConfirmed, now, now))
}

func newPaymentHandler(t *testing.T, providerURL string) (*PaymentHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	client, err := payment.New(providerURL, "sk_test", 100)
	require.NoError(t, err)

	return NewPaymentHandler(
		repository.NewBookingRepo(db),
		repository.NewRoomRepo(db),
		client,
		"http://localhost:5173",
	), mock
}

func TestInitiateCheckout(t *testing.T) {
	guest := &model.User{ID: 2, Role: model.RoleUser}

	t.Run("creates session and stores its id", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var p payment.CreateSessionParams
			require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
			assert.Equal(t, "Seaview Hotel - Double Bed", p.Name)
			assert.Equal(t, int64(45000), p.Amount, "amount is converted to minor units")
			assert.Equal(t, "7", p.Metadata["booking_id"])
			json.NewEncoder(w).Encode(payment.Session{ID: "cs_123", URL: "https://pay.example.com/cs_123", Status: payment.SessionOpen})
		}))
		defer srv.Close()

		h, mock := newPaymentHandler(t, srv.URL)
		expectGetBookingByID(mock, 7, guest.ID, 3, model.BookingConfirmed)
		expectGetWithOwner(mock, 5, 3, 9)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET session_id = ?")).
			WithArgs("cs_123", uint64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		c, rec := newContext(t, http.MethodPost, "/v1/payments/checkout", `{"bookingId":7}`, guest)
		require.NoError(t, h.InitiateCheckout(c))
		out := decodeBody(t, rec)
		assert.Equal(t, true, out["success"])
		assert.Equal(t, "https://pay.example.com/cs_123", out["url"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects another user's booking", func(t *testing.T) {
		h, mock := newPaymentHandler(t, "http://127.0.0.1:1")
		expectGetBookingByID(mock, 7, 99, 3, model.BookingConfirmed)

		c, rec := newContext(t, http.MethodPost, "/v1/payments/checkout", `{"bookingId":7}`, guest)
		require.NoError(t, h.InitiateCheckout(c))
		out := decodeBody(t, rec)
		assert.Equal(t, false, out["success"])
		assert.Equal(t, "unauthorized action", out["message"])
	})
}

func TestVerify(t *testing.T) {
	guest := &model.User{ID: 2, Role: model.RoleUser}

	paidSession := func(w http.ResponseWriter) {
		json.NewEncoder(w).Encode(payment.Session{
			ID:       "cs_123",
			Status:   payment.SessionPaid,
			Metadata: map[string]string{"booking_id": "7"},
		})
	}

	t.Run("marks booking paid from provider state", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/checkout/sessions/cs_123", r.URL.Path)
			paidSession(w)
		}))
		defer srv.Close()

		h, mock := newPaymentHandler(t, srv.URL)
		expectGetBookingByID(mock, 7, guest.ID, 3, model.BookingConfirmed)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET is_paid = 1, payment_method = ?")).
			WithArgs("Online (Verified)", uint64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		c, rec := newContext(t, http.MethodPost, "/v1/payments/verify", `{"sessionId":"cs_123"}`, guest)
		require.NoError(t, h.Verify(c))
		out := decodeBody(t, rec)
		assert.Equal(t, true, out["success"])
		assert.Equal(t, "Payment Successful! Booking Updated.", out["message"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unpaid session is not confirmed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(payment.Session{ID: "cs_123", Status: payment.SessionOpen})
		}))
		defer srv.Close()

		h, _ := newPaymentHandler(t, srv.URL)
		c, rec := newContext(t, http.MethodPost, "/v1/payments/verify", `{"sessionId":"cs_123"}`, guest)
		require.NoError(t, h.Verify(c))
		out := decodeBody(t, rec)
		assert.Equal(t, false, out["success"])
		assert.Equal(t, "payment not completed", out["message"])
	})

	t.Run("replay reports already paid", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			paidSession(w)
		}))
		defer srv.Close()

		h, mock := newPaymentHandler(t, srv.URL)
		expectGetBookingByID(mock, 7, guest.ID, 3, model.BookingConfirmed)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET is_paid = 1, payment_method = ?")).
			WithArgs("Online (Verified)", uint64(7)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		c, rec := newContext(t, http.MethodPost, "/v1/payments/verify", `{"sessionId":"cs_123"}`, guest)
		require.NoError(t, h.Verify(c))
		out := decodeBody(t, rec)
		assert.Equal(t, false, out["success"])
		assert.Equal(t, "Booking is already paid", out["message"])
	})

	t.Run("falls back to the stored session id", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/checkout/sessions/cs_stored", r.URL.Path)
			json.NewEncoder(w).Encode(payment.Session{
				ID:       "cs_stored",
				Status:   payment.SessionPaid,
				Metadata: map[string]string{"booking_id": "7"},
			})
		}))
		defer srv.Close()

		h, mock := newPaymentHandler(t, srv.URL)
		expectGetBookingByIDWithSession(mock, 7, guest.ID, "cs_stored")
		expectGetBookingByID(mock, 7, guest.ID, 3, model.BookingConfirmed)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET is_paid = 1, payment_method = ?")).
			WithArgs("Online (Verified)", uint64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		c, rec := newContext(t, http.MethodPost, "/v1/payments/verify", `{"bookingId":7}`, guest)
		require.NoError(t, h.Verify(c))
		out := decodeBody(t, rec)
		assert.Equal(t, true, out["success"])
	})

	t.Run("no session for booking", func(t *testing.T) {
		h, mock := newPaymentHandler(t, "http://127.0.0.1:1")
		expectGetBookingByID(mock, 7, guest.ID, 3, model.BookingConfirmed)

		c, rec := newContext(t, http.MethodPost, "/v1/payments/verify", `{"bookingId":7}`, guest)
		require.NoError(t, h.Verify(c))
		out := decodeBody(t, rec)
		assert.Equal(t, false, out["success"])
		assert.Equal(t, "no payment session for this booking", out["message"])
	})
}
