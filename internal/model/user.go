package model

import "time"

// Role values stored in users.role. Every account starts as RoleUser and is
// promoted to RoleHotelOwner when it registers a hotel.
const (
	RoleUser       = "user"
	RoleHotelOwner = "hotelOwner"
)

// User represents an application user record as stored in the `users`
// table. Accounts are provisioned automatically the first time a verified
// identity-provider token is seen, so ExternalID carries the provider's
// subject identifier while ID is the internal primary key used by foreign
// keys elsewhere.
//
// Fields:
//
//	ID         – primary key identifier.
//	ExternalID – identity provider subject (unique).
//	Email      – email address reported by the provider.
//	Username   – display name reported by the provider.
//	Image      – avatar URL reported by the provider.
//	Role       – "user" or "hotelOwner".
//	CreatedAt  – timestamp of creation.
//	UpdatedAt  – timestamp of last update.
type User struct {
	ID         uint64    // users.id
	ExternalID string    // users.external_id
	Email      string    // users.email
	Username   string    // users.username
	Image      string    // users.image
	Role       string    // users.role
	CreatedAt  time.Time // users.created_at
	UpdatedAt  time.Time // users.updated_at
}

// MaxRecentCities bounds the per-user recent-search list. Storing a fourth
// city evicts the oldest entry.
const MaxRecentCities = 3
