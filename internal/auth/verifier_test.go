package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tungtee888/bookingapi/internal/domain"
	"github.com/tungtee888/bookingapi/internal/infrastructure/memory"
)

func newTestVerifier(t *testing.T) (*Verifier, *memory.UserRepository) {
	t.Helper()
	users := memory.NewUserRepository()
	return NewVerifier("test-secret", time.Hour, users), users
}

func mustUser(t *testing.T, users *memory.UserRepository, role domain.Role) *domain.User {
	t.Helper()
	u, err := users.Create(context.Background(), domain.CreateUserInput{
		Name:  "Somchai",
		Email: uuid.NewString() + "@example.com",
		Role:  role,
	})
	require.NoError(t, err)
	return u
}

func TestAuthenticate_RoundTrip(t *testing.T) {
	v, users := newTestVerifier(t)
	u := mustUser(t, users, domain.RoleAdmin)

	token, err := v.Issue(u)
	require.NoError(t, err)

	p, err := v.Authenticate(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, u.ID, p.ID)
	require.Equal(t, domain.RoleAdmin, p.Role)
}

func TestAuthenticate_Failures(t *testing.T) {
	v, users := newTestVerifier(t)
	u := mustUser(t, users, domain.RoleUser)

	expired := *v
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, err := expired.Issue(u)
	require.NoError(t, err)

	other := NewVerifier("other-secret", time.Hour, users)
	forged, err := other.Issue(u)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": u.ID.String()}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	ghost := &domain.User{ID: uuid.New(), Role: domain.RoleAdmin}
	ghostToken, err := v.Issue(ghost)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"missing", ""},
		{"malformed", "not-a-jwt"},
		{"expired", expiredToken},
		{"wrong signature", forged},
		{"alg none", none},
		{"unknown user", ghostToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Authenticate(context.Background(), tt.token)
			require.ErrorIs(t, err, domain.ErrUnauthenticated)
		})
	}
}

func TestAuthorize(t *testing.T) {
	admin := domain.Principal{ID: uuid.New(), Role: domain.RoleAdmin}
	user := domain.Principal{ID: uuid.New(), Role: domain.RoleUser}

	require.True(t, Authorize(admin, domain.RoleAdmin))
	require.False(t, Authorize(user, domain.RoleAdmin))
	require.True(t, Authorize(user, domain.RoleUser))
	require.False(t, Authorize(admin, domain.RoleUser), "roles are not hierarchical")
	require.True(t, Authorize(user, ""))
	require.False(t, Authorize(domain.Principal{}, ""))
}
