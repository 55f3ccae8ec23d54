package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/aks-110/quickstay/internal/repository"
)

// HotelHandler manages hotel registration. Registering a hotel also
// promotes the user to the hotelOwner role; both writes share one
// transaction so a failed promotion never leaves an ownerless hotel.
type HotelHandler struct {
	Hotels *repository.HotelRepo
	Users  *repository.UserRepo
}

func NewHotelHandler(hotels *repository.HotelRepo, users *repository.UserRepo) *HotelHandler {
	if hotels == nil || users == nil {
		panic("nil repository passed to NewHotelHandler")
	}
	return &HotelHandler{Hotels: hotels, Users: users}
}

// Register handles POST /v1/hotels.
func (h *HotelHandler) Register(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var body struct {
		Name    string `json:"name"`
		Contact string `json:"contact"`
		Address string `json:"address"`
		City    string `json:"city"`
	}
	if err := c.Bind(&body); err != nil {
		return fail(c, "invalid request body")
	}
	name := strings.TrimSpace(body.Name)
	if name == "" || strings.TrimSpace(body.City) == "" {
		return fail(c, "name and city are required")
	}

	ctx := c.Request().Context()
	tx, err := h.Hotels.DB.BeginTx(ctx, nil)
	if err != nil {
		return serverError(c, "failed to start transaction")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := h.Hotels.CreateTx(ctx, tx, user.ID, name, body.Address, body.Contact, body.City); err != nil {
		if errors.Is(err, repository.ErrHotelExists) {
			return fail(c, "hotel already registered")
		}
		return serverError(c, "failed to register hotel")
	}
	if err := h.Users.PromoteToOwnerTx(ctx, tx, user.ID); err != nil {
		return serverError(c, "failed to register hotel")
	}
	if err := tx.Commit(); err != nil {
		return serverError(c, "failed to register hotel")
	}
	committed = true
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "hotel registered successfully"})
}
