package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tungtee888/bookingapi/internal/application"
	"github.com/tungtee888/bookingapi/internal/domain"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Tel      string `json:"tel"`
	Role     string `json:"role" validate:"omitempty,oneof=admin user"`
}

type verifyRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register POST /auth/register
func (h *Handler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	_, token, err := h.accounts.Register(c.Request().Context(), application.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Tel:      req.Tel,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		return toHTTPError(err)
	}
	return h.sendToken(c, http.StatusCreated, token)
}

// Login POST /auth/login
func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	_, token, err := h.accounts.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return toHTTPError(err)
	}
	return h.sendToken(c, http.StatusOK, token)
}

// Me GET /auth/me
func (h *Handler) Me(c echo.Context) error {
	u, err := h.accounts.Me(c.Request().Context(), mustPrincipal(c))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": u})
}

// Verify POST /auth/verify
func (h *Handler) Verify(c echo.Context) error {
	var req verifyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	u, err := h.accounts.Verify(c.Request().Context(), mustPrincipal(c), req.Code)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": u})
}

// ReVerify GET /auth/re-verify
func (h *Handler) ReVerify(c echo.Context) error {
	if err := h.accounts.ResendVerification(c.Request().Context(), mustPrincipal(c)); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": map[string]any{}})
}

// Logout GET /auth/logout
func (h *Handler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     h.cookie.Name,
		Value:    "none",
		Path:     "/",
		Expires:  h.now().Add(10 * time.Second),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
	})
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": map[string]any{}})
}

func (h *Handler) sendToken(c echo.Context, status int, token string) error {
	c.SetCookie(&http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		Expires:  h.now().Add(h.tokenTTL),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(status, map[string]any{"success": true, "token": token})
}
