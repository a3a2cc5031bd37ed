package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type updateConfigRequest struct {
	// Pointer so a missing field is told apart from zero.
	PeriodDays *int `json:"periodDays"`
}

// GetConfig GET /config
func (h *Handler) GetConfig(c echo.Context) error {
	policy, err := h.policies.Get(c.Request().Context(), mustPrincipal(c))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": policy})
}

// UpdateConfig PUT /config
func (h *Handler) UpdateConfig(c echo.Context) error {
	var req updateConfigRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "periodDays must be a positive integer")
	}
	if req.PeriodDays == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "periodDays is required")
	}

	policy, err := h.policies.Set(c.Request().Context(), mustPrincipal(c), *req.PeriodDays)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": policy})
}
