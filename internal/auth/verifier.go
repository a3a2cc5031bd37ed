// Package auth issues and verifies session tokens and decides whether a
// principal may perform a role-gated operation.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tungtee888/bookingapi/internal/domain"
)

// IdentityLookup resolves a token subject to a live user record.
type IdentityLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// Claims are the JWT claims carried by a session token.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Verifier signs tokens with a shared HS256 secret and verifies them back
// into principals.
type Verifier struct {
	secret []byte
	ttl    time.Duration
	users  IdentityLookup
	now    func() time.Time
}

// NewVerifier creates a Verifier. users is consulted on every Authenticate
// so a token for a deleted account stops working immediately.
func NewVerifier(secret string, ttl time.Duration, users IdentityLookup) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		ttl:    ttl,
		users:  users,
		now:    time.Now,
	}
}

// TTL is how long issued tokens stay valid.
func (v *Verifier) TTL() time.Duration { return v.ttl }

// Issue signs a token for u.
func (v *Verifier) Issue(u *domain.User) (string, error) {
	now := v.now()
	claims := Claims{
		Role: string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(v.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Authenticate verifies token and resolves it to a Principal. Every failure
// mode (missing, malformed, expired, bad signature, unknown user) is
// reported as domain.ErrUnauthenticated; store outages are returned as-is.
func (v *Verifier) Authenticate(ctx context.Context, token string) (domain.Principal, error) {
	if token == "" {
		return domain.Principal{}, fmt.Errorf("%w: missing token", domain.ErrUnauthenticated)
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("%w: invalid subject", domain.ErrUnauthenticated)
	}

	u, err := v.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Principal{}, fmt.Errorf("%w: user %s no longer exists", domain.ErrUnauthenticated, id)
		}
		return domain.Principal{}, fmt.Errorf("lookup principal: %w", err)
	}

	return domain.Principal{ID: u.ID, Role: u.Role}, nil
}

// Authorize reports whether p may act under required. An empty required
// role is the identity check: any authenticated principal passes.
func Authorize(p domain.Principal, required domain.Role) bool {
	if required == "" {
		return p.ID != uuid.Nil
	}
	return p.Role == required
}
