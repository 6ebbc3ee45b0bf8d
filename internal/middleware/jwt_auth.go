package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/blognest/backend/internal/models"
	"github.com/blognest/backend/internal/services"
	"github.com/labstack/echo/v4"
)

const currentUserKey = "currentUser"

// JWTAuthMiddleware resolves the bearer access token to its user and
// stores the authenticated principal in the request context.
func JWTAuthMiddleware(auth *services.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
			}

			// Expecting "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
			}

			user, err := auth.CurrentUser(c.Request().Context(), parts[1])
			if err != nil {
				if errors.Is(err, services.ErrInactiveAccount) {
					return echo.NewHTTPError(http.StatusForbidden, "Inactive user")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "Could not validate credentials")
			}

			c.Set(currentUserKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated principal set by the middleware.
func CurrentUser(c echo.Context) *models.User {
	user, _ := c.Get(currentUserKey).(*models.User)
	return user
}
