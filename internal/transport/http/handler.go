package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/tungtee888/bookingapi/internal/application"
	"github.com/tungtee888/bookingapi/internal/domain"
	"github.com/tungtee888/bookingapi/internal/transport/mw"
)

// CookieConfig describes the session cookie set on login/register.
type CookieConfig struct {
	Name   string
	Secure bool
}

// Handler holds all HTTP handler methods.
type Handler struct {
	notifications *application.Service
	policies      *application.RetentionPolicies
	cleanup       *application.CleanupEngine
	accounts      *application.Accounts
	hub           *Hub
	cookie        CookieConfig
	tokenTTL      time.Duration
	now           func() time.Time
}

// Deps bundles what NewHandler needs.
type Deps struct {
	Notifications *application.Service
	Policies      *application.RetentionPolicies
	Cleanup       *application.CleanupEngine
	Accounts      *application.Accounts
	Hub           *Hub
	Cookie        CookieConfig
	TokenTTL      time.Duration
}

// NewHandler creates a new Handler.
func NewHandler(d Deps) *Handler {
	return &Handler{
		notifications: d.Notifications,
		policies:      d.Policies,
		cleanup:       d.Cleanup,
		accounts:      d.Accounts,
		hub:           d.Hub,
		cookie:        d.Cookie,
		tokenTTL:      d.TokenTTL,
		now:           time.Now,
	}
}

// --- Notification REST handlers ---

type createNotificationRequest struct {
	User    string `json:"user" validate:"omitempty,uuid"`
	Message string `json:"message" validate:"required,max=1000"`
	Type    string `json:"type" validate:"omitempty,oneof=SYSTEM BOOKING REVIEW CUSTOM"`
}

type updateNotificationRequest struct {
	Message *string `json:"message" validate:"omitempty,max=1000"`
	Type    *string `json:"type" validate:"omitempty,oneof=SYSTEM BOOKING REVIEW CUSTOM"`
	IsRead  *bool   `json:"isRead"`
}

// ListNotifications GET /notifications
func (h *Handler) ListNotifications(c echo.Context) error {
	p := mustPrincipal(c)

	filter := domain.NotificationFilter{
		Limit:  parseIntQuery(c, "limit", 20),
		Offset: parseIntQuery(c, "offset", 0),
	}
	if r := c.QueryParam("isRead"); r != "" {
		isRead := r == "true"
		filter.IsRead = &isRead
	}

	items, err := h.notifications.List(c.Request().Context(), p, filter)
	if err != nil {
		return toHTTPError(err)
	}
	if items == nil {
		items = []*domain.Notification{}
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"count":   len(items),
		"data":    items,
	})
}

// GetNotification GET /notifications/:id
func (h *Handler) GetNotification(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	n, err := h.notifications.Get(c.Request().Context(), mustPrincipal(c), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": n})
}

// CreateNotification POST /notifications
func (h *Handler) CreateNotification(c echo.Context) error {
	var req createNotificationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	var userID uuid.UUID
	if req.User != "" {
		userID = uuid.MustParse(req.User)
	}

	n, err := h.notifications.Create(c.Request().Context(), mustPrincipal(c), application.CreateRequest{
		UserID:  userID,
		Message: req.Message,
		Type:    domain.NotificationType(req.Type),
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "data": n})
}

// UpdateNotification PUT /notifications/:id
func (h *Handler) UpdateNotification(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req updateNotificationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	upd := domain.NotificationUpdate{Message: req.Message, IsRead: req.IsRead}
	if req.Type != nil {
		t := domain.NotificationType(*req.Type)
		upd.Type = &t
	}

	n, err := h.notifications.Update(c.Request().Context(), mustPrincipal(c), id, upd)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": n})
}

// DeleteNotification DELETE /notifications/:id
func (h *Handler) DeleteNotification(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.notifications.Delete(c.Request().Context(), mustPrincipal(c), id); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": map[string]any{}})
}

// CleanupNotifications DELETE /notifications/cleanup and /notifications/cleanup/:days
//
// With :days the value overrides the stored retention policy for this call
// only. Without it the stored policy is used and its absence is a 409.
func (h *Handler) CleanupNotifications(c echo.Context) error {
	req := application.CleanupRequest{Trigger: application.TriggerAdmin}

	if raw := c.Param("days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days <= 0 {
			return toHTTPError(&domain.PolicyError{Field: "days", Value: raw})
		}
		req.OverrideDays = days
	}

	res, err := h.cleanup.Run(c.Request().Context(), h.now(), req)
	if err != nil {
		return toHTTPError(err)
	}

	log.Info().
		Str("by", mustPrincipal(c).ID.String()).
		Int64("deleted", res.DeletedCount).
		Int("older_than_days", res.PeriodDays).
		Msg("manual notification cleanup")

	return c.JSON(http.StatusOK, map[string]any{
		"success":      true,
		"deletedCount": res.DeletedCount,
		"message":      fmt.Sprintf("Deleted %d notifications older than %d days", res.DeletedCount, res.PeriodDays),
	})
}

// --- SSE Handler ---

// Stream GET /notifications/stream (SSE endpoint)
func (h *Handler) Stream(c echo.Context) error {
	p := mustPrincipal(c)

	// SSE headers
	w := c.Response()
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	sendCh := make(chan []byte, 32)
	client := h.hub.Register(p.ID, sendCh)
	defer h.hub.Unregister(client)

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"ok\"}\n\n")
	w.Flush()

	log.Info().Str("user", p.ID.String()).Msg("SSE stream opened")

	ctx := c.Request().Context()
	for {
		select {
		case msg, ok := <-sendCh:
			if !ok {
				return nil
			}
			if _, err := w.Write(msg); err != nil {
				return nil
			}
			w.Flush()

		case <-ctx.Done():
			log.Info().Str("user", p.ID.String()).Msg("SSE stream closed by client")
			return nil
		}
	}
}

// --- Healthcheck ---

// Health GET /health
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":      "ok",
		"sse_clients": h.hub.ConnectedCount(),
	})
}

// --- Helpers ---

func mustPrincipal(c echo.Context) domain.Principal {
	p, ok := mw.PrincipalFrom(c)
	if !ok {
		panic("handler mounted without authentication middleware")
	}
	return p
}

func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("cannot find notification with id %s", c.Param("id")))
	}
	return id, nil
}

func parseIntQuery(c echo.Context, key string, def int) int {
	v, err := strconv.Atoi(c.QueryParam(key))
	if err != nil || v < 0 {
		return def
	}
	return v
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
