package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aks-110/quickstay/internal/model"
)

func newBookingRepo(t *testing.T) (*BookingRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewBookingRepo(db), mock
}

func testBooking() *model.Booking {
	return &model.Booking{
		UserID:        2,
		RoomID:        5,
		HotelID:       3,
		CheckIn:       time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:      time.Date(2026, 6, 4, 0, 0, 0, 0, time.UTC),
		Guests:        2,
		TotalPrice:    450,
		PaymentMethod: model.PayAtHotel,
	}
}

func TestIsAvailable(t *testing.T) {
	repo, mock := newBookingRepo(t)
	b := testBooking()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM bookings WHERE " + overlapCond)).
		WithArgs(b.RoomID, b.CheckOut, b.CheckIn).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	ok, err := repo.IsAvailable(context.Background(), b.RoomID, b.CheckIn, b.CheckOut)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateIfAvailable(t *testing.T) {
	t.Run("inserts when no overlap", func(t *testing.T) {
		repo, mock := newBookingRepo(t)
		b := testBooking()

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM bookings WHERE " + overlapCond + " FOR UPDATE")).
			WithArgs(b.RoomID, b.CheckOut, b.CheckIn).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bookings")).
			WithArgs(b.UserID, b.RoomID, b.HotelID, b.CheckIn, b.CheckOut, b.Guests, b.TotalPrice, b.PaymentMethod).
			WillReturnResult(sqlmock.NewResult(42, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.CreateIfAvailable(context.Background(), b))
		assert.Equal(t, uint64(42), b.ID)
		assert.Equal(t, model.BookingConfirmed, b.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects overlapping window", func(t *testing.T) {
		repo, mock := newBookingRepo(t)
		b := testBooking()

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM bookings WHERE " + overlapCond + " FOR UPDATE")).
			WithArgs(b.RoomID, b.CheckOut, b.CheckIn).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectRollback()

		err := repo.CreateIfAvailable(context.Background(), b)
		assert.ErrorIs(t, err, ErrRoomUnavailable)
		assert.Zero(t, b.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMarkPaid(t *testing.T) {
	t.Run("first confirmation updates", func(t *testing.T) {
		repo, mock := newBookingRepo(t)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET is_paid = 1, payment_method = ?")).
			WithArgs("Online (Verified)", uint64(42)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		updated, err := repo.MarkPaid(context.Background(), 42, "Online (Verified)")
		require.NoError(t, err)
		assert.True(t, updated)
	})

	t.Run("replay is a no-op", func(t *testing.T) {
		repo, mock := newBookingRepo(t)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET is_paid = 1, payment_method = ?")).
			WithArgs("Online (Checkout)", uint64(42)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		updated, err := repo.MarkPaid(context.Background(), 42, "Online (Checkout)")
		require.NoError(t, err)
		assert.False(t, updated)
	})
}

func TestCancel(t *testing.T) {
	t.Run("transitions confirmed booking", func(t *testing.T) {
		repo, mock := newBookingRepo(t)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = 'cancelled' WHERE id = ? AND status = 'confirmed'")).
			WithArgs(uint64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		cancelled, err := repo.Cancel(context.Background(), 7)
		require.NoError(t, err)
		assert.True(t, cancelled)
	})

	t.Run("already cancelled", func(t *testing.T) {
		repo, mock := newBookingRepo(t)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = 'cancelled' WHERE id = ? AND status = 'confirmed'")).
			WithArgs(uint64(7)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		cancelled, err := repo.Cancel(context.Background(), 7)
		require.NoError(t, err)
		assert.False(t, cancelled)
	})
}

func TestGetByID(t *testing.T) {
	repo, mock := newBookingRepo(t)
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "room_id", "hotel_id", "check_in", "check_out", "guests", "total_price",
		"payment_method", "is_paid", "session_id", "status", "created_at", "updated_at",
	}).AddRow(7, 2, 5, 3,
		time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 6, 4, 0, 0, 0, 0, time.UTC),
		2, 450, model.PayAtHotel, false, "cs_123", model.BookingConfirmed, now, now)

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = ?").
		WithArgs(uint64(7)).
		WillReturnRows(rows)

	b, err := repo.GetByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), b.ID)
	require.NotNil(t, b.SessionID)
	assert.Equal(t, "cs_123", *b.SessionID)
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock := newBookingRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = ?").
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestDashboardTotals(t *testing.T) {
	repo, mock := newBookingRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*), COALESCE(SUM(CASE WHEN status <> 'cancelled' THEN total_price ELSE 0 END), 0)")).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count", "revenue"}).AddRow(4, 1800))

	count, revenue, err := repo.DashboardTotals(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
	assert.Equal(t, int64(1800), revenue)
}
