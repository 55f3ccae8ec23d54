package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/aks-110/quickstay/internal/model"
)

// BookingRepo provides access to the bookings table. The availability
// invariant lives here: for a given room no two non-cancelled bookings may
// have overlapping [check_in, check_out] windows, with inclusive
// boundaries. All date parameters are date-only values in UTC.
type BookingRepo struct{ db *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle for handlers that coordinate
// transactions across repositories.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// overlapCond selects non-cancelled bookings whose window touches the
// candidate [in, out] window. Boundaries are inclusive: a booking ending on
// the candidate's check-in day conflicts.
const overlapCond = `room_id = ? AND status <> 'cancelled' AND check_in <= ? AND check_out >= ?`

// IsAvailable reports whether the room is free for the candidate window.
// This is a point-in-time read used by the public availability endpoint;
// the write path re-checks inside a transaction.
func (r *BookingRepo) IsAvailable(ctx context.Context, roomID uint64, checkIn, checkOut time.Time) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM bookings WHERE "+overlapCond,
		roomID, checkOut, checkIn).Scan(&n)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// CreateIfAvailable re-runs the overlap check and inserts the booking in a
// single transaction. The SELECT locks the room's matching booking rows
// (FOR UPDATE) so two concurrent writers cannot both observe an empty
// overlap set and insert conflicting stays; the loser sees the committed
// row and gets ErrRoomUnavailable. On success the generated ID is stored
// on the passed booking.
func (r *BookingRepo) CreateIfAvailable(ctx context.Context, b *model.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var n int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM bookings WHERE "+overlapCond+" FOR UPDATE",
		b.RoomID, b.CheckOut, b.CheckIn).Scan(&n)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrRoomUnavailable
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (user_id, room_id, hotel_id, check_in, check_out, guests, total_price, payment_method, is_paid, status)
		 VALUES (?,?,?,?,?,?,?,?,0,'confirmed')`,
		b.UserID, b.RoomID, b.HotelID, b.CheckIn, b.CheckOut, b.Guests, b.TotalPrice, b.PaymentMethod)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	b.Status = model.BookingConfirmed

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID fetches a booking by primary key. Returns ErrBookingNotFound
// when it does not exist.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	const q = `SELECT id, user_id, room_id, hotel_id, check_in, check_out, guests, total_price,
	                  payment_method, is_paid, session_id, status, created_at, updated_at
	           FROM bookings WHERE id = ?`
	var b model.Booking
	var sessionID sql.NullString
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&b.ID, &b.UserID, &b.RoomID, &b.HotelID, &b.CheckIn, &b.CheckOut, &b.Guests, &b.TotalPrice,
		&b.PaymentMethod, &b.IsPaid, &sessionID, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Booking{}, ErrBookingNotFound
	}
	if err != nil {
		return model.Booking{}, err
	}
	if sessionID.Valid {
		s := sessionID.String
		b.SessionID = &s
	}
	return b, nil
}

// SetSessionID records the checkout session created for a booking so the
// verify path and the webhook can correlate provider events back to it.
func (r *BookingRepo) SetSessionID(ctx context.Context, bookingID uint64, sessionID string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE bookings SET session_id = ? WHERE id = ?", sessionID, bookingID)
	return err
}

// MarkPaid flips a booking to paid with the given payment method label.
// The conditional UPDATE makes confirmation idempotent: it reports false
// when the booking was already paid (or cancelled), and callers translate
// that into an "already paid" failure without double-processing.
func (r *BookingRepo) MarkPaid(ctx context.Context, bookingID uint64, method string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE bookings SET is_paid = 1, payment_method = ? WHERE id = ? AND is_paid = 0 AND status = 'confirmed'",
		method, bookingID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Cancel transitions a booking to cancelled, retaining the record. It
// reports false when the booking was already cancelled. Authorization
// (guest or hotel owner) is enforced by the handler before calling this.
func (r *BookingRepo) Cancel(ctx context.Context, bookingID uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE bookings SET status = 'cancelled' WHERE id = ? AND status = 'confirmed'", bookingID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// BookingDetail is the guest-facing listing shape: a booking joined with
// its room and hotel.
type BookingDetail struct {
	ID            uint64   `json:"id"`
	CheckInDate   string   `json:"checkInDate"`
	CheckOutDate  string   `json:"checkOutDate"`
	Guests        uint32   `json:"guests"`
	TotalPrice    int64    `json:"totalPrice"`
	PaymentMethod string   `json:"paymentMethod"`
	IsPaid        bool     `json:"isPaid"`
	Status        string   `json:"status"`
	Room          struct {
		ID       uint64 `json:"id"`
		RoomType string `json:"roomType"`
	} `json:"room"`
	Hotel struct {
		ID      uint64 `json:"id"`
		Name    string `json:"name"`
		Address string `json:"address"`
		City    string `json:"city"`
	} `json:"hotel"`
	Guest *struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	} `json:"guest,omitempty"`
}

const detailCols = `b.id, b.check_in, b.check_out, b.guests, b.total_price, b.payment_method, b.is_paid, b.status,
	                  ro.id, ro.room_type,
	                  h.id, h.name, h.address, h.city`

const detailJoins = `FROM bookings b
	           JOIN rooms ro ON ro.id = b.room_id
	           JOIN hotels h ON h.id = b.hotel_id`

// ListByUser returns the guest's bookings, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	q := `SELECT ` + detailCols + ` ` + detailJoins + `
	           WHERE b.user_id = ?
	           ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDetails(rows, false)
}

// ListByHotel returns all bookings for the owner's hotel, newest first,
// including guest contact details for the dashboard.
func (r *BookingRepo) ListByHotel(ctx context.Context, hotelID uint64) ([]BookingDetail, error) {
	q := `SELECT ` + detailCols + `, u.username, u.email ` + detailJoins + `
	           JOIN users u ON u.id = b.user_id
	           WHERE b.hotel_id = ?
	           ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDetails(rows, true)
}

func scanDetails(rows *sql.Rows, withGuest bool) ([]BookingDetail, error) {
	details := make([]BookingDetail, 0)
	for rows.Next() {
		var d BookingDetail
		var in, out time.Time
		dest := []interface{}{
			&d.ID, &in, &out, &d.Guests, &d.TotalPrice, &d.PaymentMethod, &d.IsPaid, &d.Status,
			&d.Room.ID, &d.Room.RoomType,
			&d.Hotel.ID, &d.Hotel.Name, &d.Hotel.Address, &d.Hotel.City,
		}
		var username, email string
		if withGuest {
			dest = append(dest, &username, &email)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		d.CheckInDate = in.UTC().Format("2006-01-02")
		d.CheckOutDate = out.UTC().Format("2006-01-02")
		if withGuest {
			d.Guest = &struct {
				Username string `json:"username"`
				Email    string `json:"email"`
			}{Username: username, Email: email}
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// DashboardTotals aggregates the owner dashboard numbers: count of all
// bookings and revenue over non-cancelled ones.
func (r *BookingRepo) DashboardTotals(ctx context.Context, hotelID uint64) (totalBookings int64, totalRevenue int64, err error) {
	const q = `SELECT COUNT(*), COALESCE(SUM(CASE WHEN status <> 'cancelled' THEN total_price ELSE 0 END), 0)
	           FROM bookings WHERE hotel_id = ?`
	err = r.db.QueryRowContext(ctx, q, hotelID).Scan(&totalBookings, &totalRevenue)
	return
}
