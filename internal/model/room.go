package model

import "time"

// Room describes a bookable room belonging to a hotel. Amenities and image
// URLs are stored as JSON arrays in the database. PricePerNight is in major
// currency units; conversion to minor units happens only at the payment
// boundary.
//
// Fields:
//
//	ID            – primary key identifier.
//	HotelID       – hotel to which this room belongs.
//	RoomType      – e.g. "Single Bed", "Double Bed", "Luxury Room".
//	PricePerNight – nightly rate in major currency units.
//	Amenities     – amenity names.
//	Images        – image URLs.
//	IsAvailable   – whether the room is open for booking.
//	CreatedAt     – creation timestamp.
//	UpdatedAt     – last update timestamp.
type Room struct {
	ID            uint64    // rooms.id
	HotelID       uint64    // rooms.hotel_id
	RoomType      string    // rooms.room_type
	PricePerNight int64     // rooms.price_per_night
	Amenities     []string  // rooms.amenities (JSON)
	Images        []string  // rooms.images (JSON)
	IsAvailable   bool      // rooms.is_available
	CreatedAt     time.Time // rooms.created_at
	UpdatedAt     time.Time // rooms.updated_at
}
