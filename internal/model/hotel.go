package model

import "time"

// Hotel represents a property registered by a hotel owner. Each owner has
// at most one hotel (owner_id is unique), and a hotel contains many rooms.
//
// Fields:
//
//	ID        – primary key identifier.
//	OwnerID   – user ID of the hotel owner (unique).
//	Name      – hotel name.
//	Address   – street address.
//	Contact   – contact phone number.
//	City      – city used for guest searches.
//	CreatedAt – creation timestamp.
//	UpdatedAt – last update timestamp.
type Hotel struct {
	ID        uint64    // hotels.id
	OwnerID   uint64    // hotels.owner_id
	Name      string    // hotels.name
	Address   string    // hotels.address
	Contact   string    // hotels.contact
	City      string    // hotels.city
	CreatedAt time.Time // hotels.created_at
	UpdatedAt time.Time // hotels.updated_at
}
