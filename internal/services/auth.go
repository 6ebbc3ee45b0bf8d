package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blognest/backend/internal/models"
	"github.com/blognest/backend/internal/repositories"
	"github.com/blognest/backend/pkg/token"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService proves caller identity and manages the access/refresh
// token lifecycle.
type AuthService struct {
	users repositories.UserRepository
	codec *token.Codec
	log   *zap.Logger
}

func NewAuthService(users repositories.UserRepository, codec *token.Codec, log *zap.Logger) *AuthService {
	return &AuthService{users: users, codec: codec, log: log}
}

// Register creates a user with a bcrypt hash of the password. Duplicate
// email or username is a conflict.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("email %w", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.users.GetByUsername(ctx, req.Username); err == nil {
		return nil, fmt.Errorf("username %w", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: string(hash),
		IsActive:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user registered", zap.Uint("user_id", user.ID))
	return user, nil
}

// Authenticate checks credentials and account status, then records the
// login time. Unknown email and wrong password return the same error.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// burn a comparison so the miss costs as much as a mismatch
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, ErrAuthFailure
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, ErrAuthFailure
	}
	if !user.IsActive {
		return nil, ErrInactiveAccount
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// dummyHash is a bcrypt hash of an unguessable value, compared against
// when the email is unknown.
var dummyHash = func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("blognest-dummy-credential"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return h
}()

// IssueAccessToken mints the short-lived bearer token for a user.
func (s *AuthService) IssueAccessToken(user *models.User) (string, error) {
	return s.codec.IssueAccess(user.Email)
}

// IssueRefreshToken mints the long-lived token. Handlers deliver it only
// as an HttpOnly cookie, never in a response body.
func (s *AuthService) IssueRefreshToken(user *models.User) (string, error) {
	return s.codec.IssueRefresh(user.Email)
}

// Refresh verifies a refresh token, re-resolves the user and re-checks
// account status, then mints a fresh access token. The refresh token
// itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.codec.Verify(refreshToken, token.KindRefresh)
	if err != nil {
		return "", ErrAuthFailure
	}

	user, err := s.users.GetByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrAuthFailure
		}
		return "", err
	}
	if !user.IsActive {
		return "", ErrInactiveAccount
	}

	return s.codec.IssueAccess(user.Email)
}

// CurrentUser resolves a bearer access token to its active user. Used by
// the auth middleware on every protected request.
func (s *AuthService) CurrentUser(ctx context.Context, accessToken string) (*models.User, error) {
	claims, err := s.codec.Verify(accessToken, token.KindAccess)
	if err != nil {
		return nil, ErrAuthFailure
	}

	user, err := s.users.GetByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthFailure
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInactiveAccount
	}
	return user, nil
}

// ChangePassword replaces the stored hash after verifying the current
// password.
func (s *AuthService) ChangePassword(ctx context.Context, user *models.User, current, next string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(current)); err != nil {
		return ErrAuthFailure
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.HashedPassword = string(hash)
	return s.users.Update(ctx, user)
}

// UpdateProfile applies the present fields of the patch. Username
// uniqueness is re-checked when it changes.
func (s *AuthService) UpdateProfile(ctx context.Context, user *models.User, req models.UpdateProfileRequest) (*models.User, error) {
	if req.Username != nil && *req.Username != user.Username {
		if _, err := s.users.GetByUsername(ctx, *req.Username); err == nil {
			return nil, fmt.Errorf("username %w", ErrConflict)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Username = *req.Username
	}
	if req.ProfilePic != nil {
		user.ProfilePic = req.ProfilePic
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
