// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a booking is successfully
// created. It carries enough information for downstream consumers to
// notify the guest or feed analytics without querying the primary
// database. Delivery is best effort: the booking succeeds whether or not
// this event reaches the broker.
type BookingConfirmedEvent struct {
	BookingID     uint64 `json:"booking_id"`
	UserID        uint64 `json:"user_id"`
	GuestEmail    string `json:"guest_email"`
	GuestName     string `json:"guest_name"`
	HotelName     string `json:"hotel_name"`
	RoomType      string `json:"room_type"`
	CheckInDate   string `json:"check_in_date"`
	CheckOutDate  string `json:"check_out_date"`
	Guests        uint32 `json:"guests"`
	TotalPrice    int64  `json:"total_price"`
	PaymentMethod string `json:"payment_method"`
	ConfirmedAt   string `json:"confirmed_at"`
}
