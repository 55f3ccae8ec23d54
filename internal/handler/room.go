package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/aks-110/quickstay/internal/model"
	"github.com/aks-110/quickstay/internal/repository"
)

// RoomHandler manages rooms on behalf of hotel owners and exposes the
// public room listing. Owner operations are scoped through the caller's
// registered hotel, so an owner can never mutate another hotel's rooms.
type RoomHandler struct {
	Rooms  *repository.RoomRepo
	Hotels *repository.HotelRepo
}

func NewRoomHandler(rooms *repository.RoomRepo, hotels *repository.HotelRepo) *RoomHandler {
	if rooms == nil || hotels == nil {
		panic("nil repository passed to NewRoomHandler")
	}
	return &RoomHandler{Rooms: rooms, Hotels: hotels}
}

// ownerHotel resolves the caller's hotel or reports the registration
// failure message shared by all owner endpoints.
func (h *RoomHandler) ownerHotel(c echo.Context) (model.Hotel, bool, error) {
	user, err := currentUser(c)
	if err != nil {
		return model.Hotel{}, false, err
	}
	hotel, err := h.Hotels.GetByOwner(c.Request().Context(), user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrHotelNotFound) {
			return model.Hotel{}, false, fail(c, "hotel not found, please register first")
		}
		return model.Hotel{}, false, serverError(c, "failed to load hotel")
	}
	return hotel, true, nil
}

// Create handles POST /v1/rooms. Images are accepted as URLs; upload
// mechanics live with the caller.
func (h *RoomHandler) Create(c echo.Context) error {
	hotel, ok, err := h.ownerHotel(c)
	if !ok {
		return err
	}
	var body struct {
		RoomType      string   `json:"roomType"`
		PricePerNight int64    `json:"pricePerNight"`
		Amenities     []string `json:"amenities"`
		Images        []string `json:"images"`
	}
	if err := c.Bind(&body); err != nil {
		return fail(c, "invalid request body")
	}
	if strings.TrimSpace(body.RoomType) == "" {
		return fail(c, "roomType is required")
	}
	if body.PricePerNight <= 0 {
		return fail(c, "pricePerNight must be positive")
	}
	if len(body.Images) == 0 {
		return fail(c, "please provide at least one image")
	}
	if body.Amenities == nil {
		body.Amenities = []string{}
	}

	room := &model.Room{
		HotelID:       hotel.ID,
		RoomType:      body.RoomType,
		PricePerNight: body.PricePerNight,
		Amenities:     body.Amenities,
		Images:        body.Images,
	}
	if err := h.Rooms.Create(c.Request().Context(), room); err != nil {
		return serverError(c, "failed to create room")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "room created successfully"})
}

// ListAvailable handles GET /v1/rooms, the public browse endpoint. The
// response is cached by the Redis middleware.
func (h *RoomHandler) ListAvailable(c echo.Context) error {
	rooms, err := h.Rooms.ListAvailable(c.Request().Context())
	if err != nil {
		return serverError(c, "failed to load rooms")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "rooms": rooms})
}

// ListOwner handles GET /v1/rooms/owner: every room of the caller's hotel.
func (h *RoomHandler) ListOwner(c echo.Context) error {
	hotel, ok, err := h.ownerHotel(c)
	if !ok {
		return err
	}
	rooms, err := h.Rooms.ListByHotel(c.Request().Context(), hotel.ID)
	if err != nil {
		return serverError(c, "failed to load rooms")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "rooms": rooms})
}

// ToggleAvailability handles POST /v1/rooms/toggle-availability.
func (h *RoomHandler) ToggleAvailability(c echo.Context) error {
	hotel, ok, err := h.ownerHotel(c)
	if !ok {
		return err
	}
	var body struct {
		RoomID uint64 `json:"roomId"`
	}
	if err := c.Bind(&body); err != nil || body.RoomID == 0 {
		return fail(c, "roomId is required")
	}
	if err := h.Rooms.ToggleAvailability(c.Request().Context(), body.RoomID, hotel.ID); err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return fail(c, "room not found")
		}
		return serverError(c, "failed to update availability")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "availability updated"})
}

// Remove handles POST /v1/rooms/remove, deleting a room of the caller's
// hotel.
func (h *RoomHandler) Remove(c echo.Context) error {
	hotel, ok, err := h.ownerHotel(c)
	if !ok {
		return err
	}
	var body struct {
		RoomID uint64 `json:"roomId"`
	}
	if err := c.Bind(&body); err != nil || body.RoomID == 0 {
		return fail(c, "roomId is required")
	}
	if err := h.Rooms.Delete(c.Request().Context(), body.RoomID, hotel.ID); err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return fail(c, "room not found")
		}
		return serverError(c, "failed to remove room")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "room removed"})
}
