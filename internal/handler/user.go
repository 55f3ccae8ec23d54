package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/aks-110/quickstay/internal/repository"
)

// UserHandler serves the authenticated user's profile data.
type UserHandler struct {
	Users *repository.UserRepo
}

func NewUserHandler(users *repository.UserRepo) *UserHandler {
	return &UserHandler{Users: users}
}

// GetMe handles GET /v1/users/me. It returns the caller's role and the
// bounded list of recently searched cities, oldest first.
func (h *UserHandler) GetMe(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	cities, err := h.Users.RecentCities(c.Request().Context(), user.ID)
	if err != nil {
		return serverError(c, "failed to load user data")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":              true,
		"role":                 user.Role,
		"recentSearchedCities": cities,
	})
}

// StoreRecentSearch handles POST /v1/users/recent-search. It appends a
// searched city to the caller's recent list; the oldest entry is evicted
// once the list holds three cities.
func (h *UserHandler) StoreRecentSearch(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var body struct {
		City string `json:"city"`
	}
	if err := c.Bind(&body); err != nil {
		return fail(c, "invalid request body")
	}
	city := strings.TrimSpace(body.City)
	if city == "" {
		return fail(c, "city is required")
	}
	if err := h.Users.AddRecentCity(c.Request().Context(), user.ID, city); err != nil {
		return serverError(c, "failed to store city")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "city stored successfully"})
}
