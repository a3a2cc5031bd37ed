package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/tungtee888/bookingapi/internal/domain"
)

// toHTTPError maps domain errors onto status codes. Unrecognised errors are
// store or programming failures: they are logged and reported as 500
// without leaking details.
func toHTTPError(err error) error {
	var pe *domain.PolicyError
	switch {
	case errors.As(err, &pe):
		return echo.NewHTTPError(http.StatusBadRequest, pe.Error())
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, domain.ErrInvalidVerification):
		return echo.NewHTTPError(http.StatusBadRequest, "invalid verification code")
	case errors.Is(err, domain.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusForbidden, "not authorized")
	case errors.Is(err, domain.ErrRetentionUnavailable), errors.Is(err, domain.ErrPolicyNotConfigured):
		return echo.NewHTTPError(http.StatusConflict, "retention policy is not configured")
	case errors.Is(err, domain.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrEmailTaken):
		return echo.NewHTTPError(http.StatusConflict, "email already registered")
	}

	log.Error().Err(err).Msg("request failed")
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}

// errorHandler renders every error as {"success": false, "message": ...}.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	var msg any = http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = he.Message
		if he.Internal != nil {
			log.Debug().Err(he.Internal).Int("status", code).Msg("http error")
		}
	} else {
		log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, map[string]any{"success": false, "message": msg})
}
