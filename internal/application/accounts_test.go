package application

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tungtee888/bookingapi/internal/domain"
	"github.com/tungtee888/bookingapi/internal/infrastructure/memory"
)

type stubIssuer struct{}

func (stubIssuer) Issue(u *domain.User) (string, error) { return "token-" + u.ID.String(), nil }

type outbox struct {
	mu   sync.Mutex
	sent []domain.Email
	fail bool
}

func (o *outbox) Send(_ context.Context, msg domain.Email) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.fail {
		return errors.New("smtp unavailable")
	}
	o.sent = append(o.sent, msg)
	return nil
}

func (o *outbox) last() domain.Email {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sent[len(o.sent)-1]
}

func newTestAccounts(adminSignup bool) *Accounts {
	a, _ := newTestAccountsWithOutbox(adminSignup)
	return a
}

func newTestAccountsWithOutbox(adminSignup bool) (*Accounts, *outbox) {
	box := &outbox{}
	a := NewAccounts(memory.NewUserRepository(), stubIssuer{}, box, adminSignup)
	a.hashCost = bcrypt.MinCost
	return a, box
}

func TestRegisterAndLogin(t *testing.T) {
	a := newTestAccounts(false)
	ctx := context.Background()

	u, token, err := a.Register(ctx, RegisterInput{Name: " Malee ", Email: "Malee@Example.COM", Password: "s3cret!"})
	require.NoError(t, err)
	require.Equal(t, "malee@example.com", u.Email)
	require.Equal(t, "Malee", u.Name)
	require.Equal(t, domain.RoleUser, u.Role)
	require.NotEqual(t, "s3cret!", u.PasswordHash)
	require.Equal(t, "token-"+u.ID.String(), token)

	got, _, err := a.Login(ctx, "malee@example.com", "s3cret!")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	_, _, err = a.Login(ctx, "malee@example.com", "wrong")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, _, err = a.Login(ctx, "nobody@example.com", "s3cret!")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, _, err = a.Register(ctx, RegisterInput{Name: "Again", Email: "MALEE@example.com", Password: "x"})
	require.ErrorIs(t, err, domain.ErrEmailTaken)

	me, err := a.Me(ctx, domain.Principal{ID: u.ID, Role: u.Role})
	require.NoError(t, err)
	require.Equal(t, u.Email, me.Email)
}

func TestRegister_AdminSignupGate(t *testing.T) {
	ctx := context.Background()

	_, _, err := newTestAccounts(false).Register(ctx, RegisterInput{Name: "A", Email: "a@example.com", Password: "pw", Role: domain.RoleAdmin})
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	u, _, err := newTestAccounts(true).Register(ctx, RegisterInput{Name: "A", Email: "a@example.com", Password: "pw", Role: domain.RoleAdmin})
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, u.Role)
}

func TestRegister_EmailsVerificationCode(t *testing.T) {
	a, box := newTestAccountsWithOutbox(false)
	codes := []string{"111111", "222222"}
	a.newCode = func() (string, error) {
		c := codes[0]
		codes = codes[1:]
		return c, nil
	}
	ctx := context.Background()

	u, _, err := a.Register(ctx, RegisterInput{Name: "Niran", Email: "niran@example.com", Password: "pw"})
	require.NoError(t, err)
	require.False(t, u.Verified)
	require.Len(t, box.sent, 1)
	require.Equal(t, "niran@example.com", box.last().To)
	require.Contains(t, box.last().HTML, "111111")

	p := domain.Principal{ID: u.ID, Role: u.Role}

	_, err = a.Verify(ctx, p, "999999")
	require.ErrorIs(t, err, domain.ErrInvalidVerification)

	require.NoError(t, a.ResendVerification(ctx, p))
	require.Contains(t, box.last().HTML, "222222")

	_, err = a.Verify(ctx, p, "111111")
	require.ErrorIs(t, err, domain.ErrInvalidVerification, "a resent code replaces the old one")

	verified, err := a.Verify(ctx, p, "222222")
	require.NoError(t, err)
	require.True(t, verified.Verified)

	me, err := a.Me(ctx, p)
	require.NoError(t, err)
	require.True(t, me.Verified)
	require.Empty(t, me.VerificationCode)
}

func TestRegister_MailFailureKeepsAccount(t *testing.T) {
	a, box := newTestAccountsWithOutbox(false)
	box.fail = true
	ctx := context.Background()

	u, token, err := a.Register(ctx, RegisterInput{Name: "Ploy", Email: "ploy@example.com", Password: "pw"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	err = a.ResendVerification(ctx, domain.Principal{ID: u.ID, Role: u.Role})
	require.ErrorContains(t, err, "smtp unavailable")
}

func TestVerificationCodeFormat(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := verificationCode()
		require.NoError(t, err)
		require.Regexp(t, `^[0-9]{6}$`, code)
	}
}
