package middleware // middleware provides shared request processing for handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/aks-110/quickstay/internal/model"
	"github.com/aks-110/quickstay/internal/repository"
)

// userKey is the context key under which the resolved user record is
// stored for handlers.
const userKey = "current_user"

// Auth returns an Echo middleware that validates a Bearer token issued by
// the external identity provider (HS256 JWT over the shared secret) and
// resolves it to an internal user record. Accounts are provisioned on
// first sight from the token's profile claims, so a freshly signed-up
// guest can call any endpoint without a separate registration step. The
// resolved record is stored in the request context; handlers read it via
// CurrentUser.
func Auth(secret string, users *repository.UserRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "not authenticated"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "invalid token"})
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "invalid claims"})
			}
			sub, _ := claims["sub"].(string)
			if sub == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "invalid token"})
			}

			ctx := c.Request().Context()
			user, err := users.GetByExternalID(ctx, sub)
			if errors.Is(err, sql.ErrNoRows) {
				// First sight of this identity: sync the profile from the
				// token claims into our own users table.
				email, _ := claims["email"].(string)
				name, _ := claims["name"].(string)
				if name == "" {
					name = "User"
				}
				picture, _ := claims["picture"].(string)
				user, err = users.Create(ctx, sub, email, name, picture)
			}
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "user sync failed, please try logging in again"})
			}

			c.Set(userKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user stored by Auth. The boolean
// is false on routes that were not wrapped by the middleware.
func CurrentUser(c echo.Context) (model.User, bool) {
	u, ok := c.Get(userKey).(model.User)
	return u, ok
}
