package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Token kinds. An access token never passes verification as a refresh
// token and vice versa.
const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

// ErrInvalidToken is returned for every verification failure. Expired,
// malformed and badly signed tokens are not distinguished to callers.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the custom claims carried by both token kinds. The subject
// registered claim holds the user's email.
type Claims struct {
	Kind string `json:"kind"`
	jwt.RegisteredClaims
}

// Codec signs and verifies access and refresh tokens with a shared
// HS256 secret.
type Codec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewCodec(secret string, accessTTL, refreshTTL time.Duration) *Codec {
	return &Codec{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssueAccess mints a short-lived access token for the given subject.
func (c *Codec) IssueAccess(subject string) (string, error) {
	return c.issue(subject, KindAccess, c.accessTTL)
}

// IssueRefresh mints a long-lived refresh token for the given subject.
func (c *Codec) IssueRefresh(subject string) (string, error) {
	return c.issue(subject, KindRefresh, c.refreshTTL)
}

func (c *Codec) issue(subject, kind string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify validates signature, expiry and kind, returning the decoded
// claims. Every failure comes back wrapped in ErrInvalidToken.
func (c *Codec) Verify(tokenString, kind string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tok.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Kind != kind {
		return nil, fmt.Errorf("%w: unexpected token kind", ErrInvalidToken)
	}
	return claims, nil
}
