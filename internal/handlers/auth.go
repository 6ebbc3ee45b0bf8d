package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/blognest/backend/internal/middleware"
	"github.com/blognest/backend/internal/models"
	"github.com/blognest/backend/internal/services"
	"github.com/blognest/backend/pkg/cloudinary"
	"github.com/labstack/echo/v4"
)

const refreshCookieName = "refresh_token"

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	auth            *services.AuthService
	storage         *cloudinary.Client
	refreshTokenTTL time.Duration
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth *services.AuthService, storage *cloudinary.Client, refreshTokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{auth: auth, storage: storage, refreshTokenTTL: refreshTokenTTL}
}

// RegisterPublicRoutes registers the routes that need no bearer token.
func (h *AuthHandler) RegisterPublicRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/token/refresh", h.RefreshToken)
	g.POST("/logout", h.Logout)
}

// RegisterProtectedRoutes registers the routes that require a bearer token.
func (h *AuthHandler) RegisterProtectedRoutes(g *echo.Group) {
	g.PATCH("/update-profile", h.UpdateProfile)
	g.PUT("/change-password", h.ChangePassword)
	g.GET("/generate-signature", h.GenerateSignature)
}

// Register handles user registration
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.auth.Register(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, user)
}

// Login authenticates credentials, returns the access token in the body
// and delivers the refresh token as an HttpOnly cookie only.
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.auth.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrAuthFailure) {
			return echo.NewHTTPError(http.StatusBadRequest, "Incorrect email or password")
		}
		return httpError(err)
	}

	accessToken, err := h.auth.IssueAccessToken(user)
	if err != nil {
		return httpError(err)
	}
	refreshToken, err := h.auth.IssueRefreshToken(user)
	if err != nil {
		return httpError(err)
	}

	h.setRefreshCookie(c, refreshToken, h.refreshTokenTTL)

	return c.JSON(http.StatusOK, echo.Map{
		"access_token": accessToken,
		"token_type":   "bearer",
		"user":         user,
	})
}

// RefreshToken mints a new access token from the refresh-token cookie.
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	cookie, err := c.Cookie(refreshCookieName)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Missing refresh token")
	}

	accessToken, err := h.auth.Refresh(c.Request().Context(), cookie.Value)
	if err != nil {
		if errors.Is(err, services.ErrAuthFailure) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid refresh token")
		}
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"access": accessToken})
}

// Logout clears the refresh-token cookie. There is no server-side
// revocation list; the session ends on the client.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.setRefreshCookie(c, "", -time.Hour)
	return c.JSON(http.StatusOK, echo.Map{"detail": "Logged out"})
}

// UpdateProfile applies a partial profile update for the caller.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	user := middleware.CurrentUser(c)

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	updated, err := h.auth.UpdateProfile(c.Request().Context(), user, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

// ChangePassword replaces the caller's password after re-verification.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	user := middleware.CurrentUser(c)

	var req models.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.auth.ChangePassword(c.Request().Context(), user, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, services.ErrAuthFailure) {
			return echo.NewHTTPError(http.StatusBadRequest, "Current password is incorrect")
		}
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"detail": "Password updated"})
}

// GenerateSignature returns the timestamp/signature pair a client needs
// for a signed direct upload to the attachment store.
func (h *AuthHandler) GenerateSignature(c echo.Context) error {
	timestamp, signature := h.storage.SignUploadRequest()
	return c.JSON(http.StatusOK, echo.Map{
		"timestamp": timestamp,
		"signature": signature,
	})
}

func (h *AuthHandler) setRefreshCookie(c echo.Context, value string, ttl time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    value,
		Path:     "/api/v1/auth",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}
