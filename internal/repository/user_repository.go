package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/aks-110/quickstay/internal/model"
)

// UserRepo provides access to the users and recent_searches tables. Users
// are provisioned lazily by the auth middleware the first time a verified
// identity-provider token is seen.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// GetByExternalID fetches a user by the identity provider's subject id.
func (r *UserRepo) GetByExternalID(ctx context.Context, externalID string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, external_id, email, username, image, role, created_at, updated_at FROM users WHERE external_id = ? LIMIT 1",
		externalID).Scan(&u.ID, &u.ExternalID, &u.Email, &u.Username, &u.Image, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Create inserts a new user with the default "user" role and returns the
// stored record. Email is normalized to lower case.
func (r *UserRepo) Create(ctx context.Context, externalID, email, username, image string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (external_id, email, username, image, role) VALUES (?,?,?,?,?)",
		externalID, email, username, image, model.RoleUser)
	if err != nil {
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	var u model.User
	err = r.DB.QueryRowContext(ctx,
		"SELECT id, external_id, email, username, image, role, created_at, updated_at FROM users WHERE id = ? LIMIT 1",
		id).Scan(&u.ID, &u.ExternalID, &u.Email, &u.Username, &u.Image, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// PromoteToOwnerTx flips a user's role to hotelOwner inside the hotel
// registration transaction.
func (r *UserRepo) PromoteToOwnerTx(ctx context.Context, tx *sql.Tx, userID uint64) error {
	_, err := tx.ExecContext(ctx, "UPDATE users SET role = ? WHERE id = ?", model.RoleHotelOwner, userID)
	return err
}

// RecentCities returns the user's recently searched cities ordered oldest
// first. Eviction keeps at most model.MaxRecentCities rows per user.
func (r *UserRepo) RecentCities(ctx context.Context, userID uint64) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT city FROM recent_searches WHERE user_id = ? ORDER BY id ASC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	cities := make([]string, 0, model.MaxRecentCities)
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		cities = append(cities, c)
	}
	return cities, rows.Err()
}

// AddRecentCity appends a searched city and evicts the oldest entries
// beyond the bound. Both statements run in one transaction so concurrent
// searches cannot grow the list past the limit.
func (r *UserRepo) AddRecentCity(ctx context.Context, userID uint64, city string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO recent_searches (user_id, city) VALUES (?,?)", userID, city); err != nil {
		return err
	}
	// MySQL cannot delete from a table it selects from directly; the derived
	// table works around that.
	const evict = `DELETE FROM recent_searches WHERE user_id = ? AND id NOT IN (
	                 SELECT id FROM (
	                   SELECT id FROM recent_searches WHERE user_id = ? ORDER BY id DESC LIMIT ?
	                 ) keep)`
	if _, err := tx.ExecContext(ctx, evict, userID, userID, model.MaxRecentCities); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
