package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/aks-110/quickstay/internal/model"
)

// RoomRepo provides access to the rooms table. Amenities and images are
// stored as JSON arrays.
type RoomRepo struct{ DB *sql.DB }

func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{DB: db} }

// RoomDetail is the public listing shape: a room joined with its hotel.
type RoomDetail struct {
	ID            uint64   `json:"id"`
	RoomType      string   `json:"roomType"`
	PricePerNight int64    `json:"pricePerNight"`
	Amenities     []string `json:"amenities"`
	Images        []string `json:"images"`
	IsAvailable   bool     `json:"isAvailable"`
	Hotel         struct {
		ID      uint64 `json:"id"`
		Name    string `json:"name"`
		Address string `json:"address"`
		Contact string `json:"contact"`
		City    string `json:"city"`
	} `json:"hotel"`
}

// RoomWithOwner carries the fields the booking path needs: the room's rate
// plus its hotel and that hotel's owner, for the self-booking check.
type RoomWithOwner struct {
	ID            uint64
	HotelID       uint64
	RoomType      string
	PricePerNight int64
	HotelName     string
	OwnerID       uint64
}

// Create inserts a room for a hotel and populates the generated ID.
func (r *RoomRepo) Create(ctx context.Context, room *model.Room) error {
	amenities, err := json.Marshal(room.Amenities)
	if err != nil {
		return err
	}
	images, err := json.Marshal(room.Images)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO rooms (hotel_id, room_type, price_per_night, amenities, images, is_available) VALUES (?,?,?,?,?,1)",
		room.HotelID, room.RoomType, room.PricePerNight, amenities, images)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	room.ID = uint64(id)
	return nil
}

// GetWithOwner loads the room along with its hotel name and owner id.
// Returns ErrRoomNotFound when the room does not exist.
func (r *RoomRepo) GetWithOwner(ctx context.Context, roomID uint64) (RoomWithOwner, error) {
	const q = `SELECT ro.id, ro.hotel_id, ro.room_type, ro.price_per_night, h.name, h.owner_id
	           FROM rooms ro
	           JOIN hotels h ON h.id = ro.hotel_id
	           WHERE ro.id = ?`
	var rw RoomWithOwner
	err := r.DB.QueryRowContext(ctx, q, roomID).Scan(
		&rw.ID, &rw.HotelID, &rw.RoomType, &rw.PricePerNight, &rw.HotelName, &rw.OwnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return RoomWithOwner{}, ErrRoomNotFound
	}
	return rw, err
}

// ListAvailable returns all rooms currently open for booking joined with
// their hotels, newest first. Used by the public browse endpoint.
func (r *RoomRepo) ListAvailable(ctx context.Context) ([]RoomDetail, error) {
	const q = `SELECT ro.id, ro.room_type, ro.price_per_night, ro.amenities, ro.images, ro.is_available,
	                  h.id, h.name, h.address, h.contact, h.city
	           FROM rooms ro
	           JOIN hotels h ON h.id = ro.hotel_id
	           WHERE ro.is_available = 1
	           ORDER BY ro.created_at DESC`
	return r.queryDetails(ctx, q)
}

// ListByHotel returns every room of a hotel, available or not, newest
// first. Used by the owner listing.
func (r *RoomRepo) ListByHotel(ctx context.Context, hotelID uint64) ([]RoomDetail, error) {
	const q = `SELECT ro.id, ro.room_type, ro.price_per_night, ro.amenities, ro.images, ro.is_available,
	                  h.id, h.name, h.address, h.contact, h.city
	           FROM rooms ro
	           JOIN hotels h ON h.id = ro.hotel_id
	           WHERE ro.hotel_id = ?
	           ORDER BY ro.created_at DESC`
	return r.queryDetails(ctx, q, hotelID)
}

func (r *RoomRepo) queryDetails(ctx context.Context, q string, args ...interface{}) ([]RoomDetail, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]RoomDetail, 0)
	for rows.Next() {
		var d RoomDetail
		var amenities, images []byte
		if err := rows.Scan(
			&d.ID, &d.RoomType, &d.PricePerNight, &amenities, &images, &d.IsAvailable,
			&d.Hotel.ID, &d.Hotel.Name, &d.Hotel.Address, &d.Hotel.Contact, &d.Hotel.City,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(amenities, &d.Amenities); err != nil {
			d.Amenities = []string{}
		}
		if err := json.Unmarshal(images, &d.Images); err != nil {
			d.Images = []string{}
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// ToggleAvailability flips a room's availability flag. The update is
// scoped to the owner's hotel so one owner cannot toggle another's room;
// zero rows affected maps to ErrRoomNotFound.
func (r *RoomRepo) ToggleAvailability(ctx context.Context, roomID, hotelID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE rooms SET is_available = NOT is_available WHERE id = ? AND hotel_id = ?",
		roomID, hotelID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRoomNotFound
	}
	return nil
}

// Delete removes a room. Scoped to the owner's hotel like
// ToggleAvailability.
func (r *RoomRepo) Delete(ctx context.Context, roomID, hotelID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM rooms WHERE id = ? AND hotel_id = ?", roomID, hotelID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRoomNotFound
	}
	return nil
}
