// Package session issues and verifies the signed tokens stored in the
// session cookie after an OAuth login.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTTL is the lifetime of a session token.
const DefaultTTL = 365 * 24 * time.Hour

var (
	// ErrInvalidToken covers malformed, expired and wrongly signed tokens.
	ErrInvalidToken = errors.New("invalid session token")
	// ErrRevoked is returned for a token whose session was logged out.
	ErrRevoked = errors.New("session revoked")
)

// Revoker records logged-out sessions until their tokens expire.
type Revoker interface {
	Revoke(ctx context.Context, id string, until time.Time) error
	IsRevoked(ctx context.Context, id string) (bool, error)
}

// Claims is the payload of a session token. Subject holds the openId.
type Claims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// OpenID returns the identity the session belongs to.
func (c *Claims) OpenID() string { return c.Subject }

// Manager signs session tokens with HS256.
type Manager struct {
	secret  []byte
	ttl     time.Duration
	revoker Revoker
	now     func() time.Time
}

// NewManager creates a manager. A non-positive ttl selects DefaultTTL; a nil
// revoker disables logout revocation.
func NewManager(secret string, ttl time.Duration, revoker Revoker) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{secret: []byte(secret), ttl: ttl, revoker: revoker, now: time.Now}
}

// TTL returns the token lifetime, used for the cookie max-age.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Issue creates a token for openID.
func (m *Manager) Issue(openID, name string) (string, error) {
	if openID == "" {
		return "", fmt.Errorf("issue session: empty openId")
	}
	now := m.now()
	claims := Claims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   openID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return signed, nil
}

// Parse verifies raw and returns its claims.
func (m *Manager) Parse(ctx context.Context, raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !tok.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	if m.revoker != nil && claims.ID != "" {
		revoked, err := m.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return nil, ErrRevoked
		}
	}
	return claims, nil
}

// Revoke ends the session carried by raw. Invalid tokens are ignored.
func (m *Manager) Revoke(ctx context.Context, raw string) error {
	if m.revoker == nil {
		return nil
	}
	claims, err := m.Parse(ctx, raw)
	if err != nil {
		return nil
	}
	until := m.now().Add(m.ttl)
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	return m.revoker.Revoke(ctx, claims.ID, until)
}
