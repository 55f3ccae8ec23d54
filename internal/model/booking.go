package model

import "time"

// Booking statuses. A cancelled booking keeps its row so history survives,
// but it no longer blocks the room's dates and is excluded from revenue.
const (
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

// PayAtHotel is the payment method applied when a guest books without
// choosing one.
const PayAtHotel = "Pay At Hotel"

// Booking records a guest's stay in a room. HotelID is denormalized from
// the room for owner-scoped queries. SessionID carries the hosted-checkout
// session created for this booking, if any.
//
// Fields:
//
//	ID            – primary key identifier.
//	UserID        – guest who made the booking.
//	RoomID        – room being booked.
//	HotelID       – hotel owning the room.
//	CheckIn       – first night of the stay (date only, UTC).
//	CheckOut      – departure date (date only, UTC).
//	Guests        – number of guests.
//	TotalPrice    – nightly rate × nights, in major currency units.
//	PaymentMethod – "Pay At Hotel" or a provider label once paid.
//	IsPaid        – whether payment has been confirmed.
//	SessionID     – checkout session correlation id (nullable).
//	Status        – "confirmed" or "cancelled".
//	CreatedAt     – creation timestamp.
//	UpdatedAt     – last update timestamp.
type Booking struct {
	ID            uint64    // bookings.id
	UserID        uint64    // bookings.user_id
	RoomID        uint64    // bookings.room_id
	HotelID       uint64    // bookings.hotel_id
	CheckIn       time.Time // bookings.check_in
	CheckOut      time.Time // bookings.check_out
	Guests        uint32    // bookings.guests
	TotalPrice    int64     // bookings.total_price
	PaymentMethod string    // bookings.payment_method
	IsPaid        bool      // bookings.is_paid
	SessionID     *string   // bookings.session_id (nullable)
	Status        string    // bookings.status
	CreatedAt     time.Time // bookings.created_at
	UpdatedAt     time.Time // bookings.updated_at
}

// Nights returns the number of billable nights between check-in and
// check-out: the day difference rounded up, and never less than one. A
// same-day stay is charged as a single night.
func Nights(checkIn, checkOut time.Time) int64 {
	diff := checkOut.Sub(checkIn)
	nights := int64(diff / (24 * time.Hour))
	if diff%(24*time.Hour) > 0 {
		nights++
	}
	if nights < 1 {
		nights = 1
	}
	return nights
}

// TotalPrice prices a stay: nightly rate times billable nights, exactly.
func TotalPrice(pricePerNight int64, checkIn, checkOut time.Time) int64 {
	return pricePerNight * Nights(checkIn, checkOut)
}

// Overlaps reports whether two [checkIn, checkOut] windows collide under the
// inclusive-boundary policy: back-to-back stays sharing a boundary date are
// treated as conflicting.
func Overlaps(aIn, aOut, bIn, bOut time.Time) bool {
	return !aIn.After(bOut) && !aOut.Before(bIn)
}
