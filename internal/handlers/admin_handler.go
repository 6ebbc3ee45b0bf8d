package handlers

import (
	"net/http"

	"github.com/blognest/backend/internal/middleware"
	"github.com/blognest/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AdminHandler handles user management for superusers.
type AdminHandler struct {
	userRepo repositories.UserRepository
	log      *zap.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(userRepo repositories.UserRepository, log *zap.Logger) *AdminHandler {
	return &AdminHandler{userRepo: userRepo, log: log}
}

// RegisterAdminRoutes registers admin-related routes
func (h *AdminHandler) RegisterAdminRoutes(g *echo.Group) {
	g.GET("/users", h.ListUsers)
	g.PATCH("/users/:id/toggle-active", h.ToggleActive)
}

// ListUsers returns all non-superuser accounts. Superusers only.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	caller := middleware.CurrentUser(c)
	if !caller.IsSuperuser {
		return echo.NewHTTPError(http.StatusForbidden, "You do not have enough permissions")
	}

	users, err := h.userRepo.ListNonSuperusers(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, users)
}

// ToggleActive flips a user's active flag. Superusers cannot be
// deactivated; targeting one reads as not found.
func (h *AdminHandler) ToggleActive(c echo.Context) error {
	caller := middleware.CurrentUser(c)
	if !caller.IsSuperuser {
		return echo.NewHTTPError(http.StatusForbidden, "Not enough permissions")
	}

	userID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	user, err := h.userRepo.GetNonSuperuserByID(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	user.IsActive = !user.IsActive
	if err := h.userRepo.Update(c.Request().Context(), user); err != nil {
		return httpError(err)
	}

	h.log.Info("user active flag toggled",
		zap.Uint("user_id", user.ID),
		zap.Bool("is_active", user.IsActive),
		zap.Uint("by", caller.ID))
	return c.JSON(http.StatusOK, user)
}
