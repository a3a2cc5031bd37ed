package application

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/tungtee888/bookingapi/internal/domain"
	"github.com/tungtee888/bookingapi/internal/messages"
)

// TokenIssuer signs session tokens for users.
type TokenIssuer interface {
	Issue(u *domain.User) (string, error)
}

// Accounts owns registration, email verification, login and profile lookup.
type Accounts struct {
	users       domain.UserRepository
	tokens      TokenIssuer
	mailer      domain.Notifier
	adminSignup bool
	hashCost    int
	newCode     func() (string, error)
	now         func() time.Time
}

// NewAccounts creates Accounts. adminSignup controls whether self-registration
// may request the admin role.
func NewAccounts(users domain.UserRepository, tokens TokenIssuer, mailer domain.Notifier, adminSignup bool) *Accounts {
	return &Accounts{
		users:       users,
		tokens:      tokens,
		mailer:      mailer,
		adminSignup: adminSignup,
		hashCost:    bcrypt.DefaultCost,
		newCode:     verificationCode,
		now:         time.Now,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Tel      string
	Password string
	Role     domain.Role
}

// Register creates a user and returns it with a fresh session token.
func (a *Accounts) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if role == domain.RoleAdmin && !a.adminSignup {
		return nil, "", fmt.Errorf("%w: admin self-registration is disabled", domain.ErrUnauthorized)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), a.hashCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}
	code, err := a.newCode()
	if err != nil {
		return nil, "", fmt.Errorf("generate verification code: %w", err)
	}

	u, err := a.users.Create(ctx, domain.CreateUserInput{
		Name:         strings.TrimSpace(in.Name),
		Email:        normalizeEmail(in.Email),
		Tel:          in.Tel,
		Role:         role,
		PasswordHash: string(hash),

		VerificationCode: code,
	})
	if err != nil {
		return nil, "", err
	}

	token, err := a.tokens.Issue(u)
	if err != nil {
		return nil, "", err
	}

	log.Info().Str("user", u.ID.String()).Str("role", string(u.Role)).Msg("user registered")

	// The account exists either way; a failed send can be retried via ResendVerification.
	if err := a.sendVerification(ctx, u.Email, code); err != nil {
		log.Error().Err(err).Str("user", u.ID.String()).Msg("verification email not sent")
	}
	return u, token, nil
}

// Verify confirms the emailed code for p's account. Verifying an already
// verified account is a no-op.
func (a *Accounts) Verify(ctx context.Context, p domain.Principal, code string) (*domain.User, error) {
	u, err := a.users.GetByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if u.Verified {
		return u, nil
	}
	if code == "" || u.VerificationCode == "" ||
		subtle.ConstantTimeCompare([]byte(code), []byte(u.VerificationCode)) != 1 {
		return nil, domain.ErrInvalidVerification
	}

	if err := a.users.MarkVerified(ctx, u.ID); err != nil {
		return nil, err
	}
	u.Verified = true
	u.VerificationCode = ""

	log.Info().Str("user", u.ID.String()).Msg("email verified")
	return u, nil
}

// ResendVerification issues a fresh code for p and emails it. The previous
// code stops working.
func (a *Accounts) ResendVerification(ctx context.Context, p domain.Principal) error {
	u, err := a.users.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	if u.Verified {
		return nil
	}

	code, err := a.newCode()
	if err != nil {
		return fmt.Errorf("generate verification code: %w", err)
	}
	if err := a.users.SetVerificationCode(ctx, u.ID, code); err != nil {
		return err
	}
	return a.sendVerification(ctx, u.Email, code)
}

func (a *Accounts) sendVerification(ctx context.Context, to, code string) error {
	subject, body := messages.VerificationEmail(code, a.now())
	if err := a.mailer.Send(ctx, domain.Email{To: to, Subject: subject, HTML: body}); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	return nil
}

// verificationCode returns six random decimal digits.
func verificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Login checks credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (a *Accounts) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	u, err := a.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := a.tokens.Issue(u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Me returns the account behind p.
func (a *Accounts) Me(ctx context.Context, p domain.Principal) (*domain.User, error) {
	return a.users.GetByID(ctx, p.ID)
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
