// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as handlers
// to distinguish between different failure scenarios without inspecting
// driver-specific errors.
package repository

import "errors"

// ErrHotelNotFound is returned when an owner-scoped operation finds no
// hotel registered for the caller.
var ErrHotelNotFound = errors.New("hotel not found")

// ErrHotelExists is returned when a user attempts to register a second
// hotel; owner_id is unique in the hotels table.
var ErrHotelExists = errors.New("hotel already registered")

// ErrRoomNotFound is returned when a referenced room does not exist.
var ErrRoomNotFound = errors.New("room not found")

// ErrBookingNotFound is returned when a referenced booking does not exist.
var ErrBookingNotFound = errors.New("booking not found")

// ErrRoomUnavailable is returned by the transactional create path when an
// existing non-cancelled booking overlaps the requested window.
var ErrRoomUnavailable = errors.New("room not available for these dates")
