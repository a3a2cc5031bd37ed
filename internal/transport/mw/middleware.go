package mw

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/tungtee888/bookingapi/internal/auth"
	"github.com/tungtee888/bookingapi/internal/domain"
)

const principalKey = "principal"

// Authenticator turns a raw token into a Principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.Principal, error)
}

// Authenticate looks for the session token in the Authorization header
// (Bearer scheme) and then in cookieName. The verified principal is stored
// in echo.Context for the remainder of the request.
func Authenticate(a Authenticator, cookieName string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  principalKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ,cookie:" + cookieName,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return a.Authenticate(c.Request().Context(), token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if errors.Is(err, echojwt.ErrJWTMissing) || errors.Is(err, domain.ErrUnauthenticated) {
				log.Debug().Err(err).Str("path", c.Path()).Str("ip", c.RealIP()).Msg("authentication failed")
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}
			// Identity store unreachable: the caller may well hold a valid token.
			log.Error().Err(err).Str("path", c.Path()).Msg("authentication lookup failed")
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		},
	})
}

// RequireRole rejects principals that do not hold role with 403.
func RequireRole(role domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}
			if !auth.Authorize(p, role) {
				return echo.NewHTTPError(http.StatusForbidden,
					fmt.Sprintf("user role %s is not authorized to access this route", p.Role))
			}
			return next(c)
		}
	}
}

// PrincipalFrom returns the principal set by Authenticate.
func PrincipalFrom(c echo.Context) (domain.Principal, bool) {
	p, ok := c.Get(principalKey).(domain.Principal)
	return p, ok
}

// WithPrincipal attaches p to c. Used by tests that bypass token parsing.
func WithPrincipal(c echo.Context, p domain.Principal) {
	c.Set(principalKey, p)
}
