package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/aks-110/quickstay/internal/model"
)

// HotelRepo provides access to the hotels table. Each owner has at most
// one hotel; the owner_id column carries a unique index.
type HotelRepo struct{ DB *sql.DB }

func NewHotelRepo(db *sql.DB) *HotelRepo { return &HotelRepo{DB: db} }

// CreateTx inserts a hotel inside an existing transaction and returns its
// ID. A duplicate owner maps to ErrHotelExists. The caller commits or
// rolls back; hotel registration also promotes the user in the same
// transaction.
func (r *HotelRepo) CreateTx(ctx context.Context, tx *sql.Tx, ownerID uint64, name, address, contact, city string) (uint64, error) {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO hotels (owner_id, name, address, contact, city) VALUES (?,?,?,?,?)",
		ownerID, name, address, contact, city)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrHotelExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByOwner fetches the hotel registered by the given user. Returns
// ErrHotelNotFound when the user has not registered one.
func (r *HotelRepo) GetByOwner(ctx context.Context, ownerID uint64) (model.Hotel, error) {
	var h model.Hotel
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, owner_id, name, address, contact, city, created_at, updated_at FROM hotels WHERE owner_id = ? LIMIT 1",
		ownerID).Scan(&h.ID, &h.OwnerID, &h.Name, &h.Address, &h.Contact, &h.City, &h.CreatedAt, &h.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Hotel{}, ErrHotelNotFound
	}
	return h, err
}
