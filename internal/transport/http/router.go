package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tungtee888/bookingapi/internal/domain"
	"github.com/tungtee888/bookingapi/internal/transport/mw"
)

// RouterConfig carries the collaborators NewRouter needs besides the handler.
type RouterConfig struct {
	Auth       mw.Authenticator
	CookieName string
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

// NewRouter sets up all Echo routes and middleware.
func NewRouter(h *Handler, cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = errorHandler
	e.Validator = NewValidator()

	// Global middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowCredentials: true,
	}))

	// Health (no auth required)
	e.GET("/health", h.Health)
	if cfg.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	authn := mw.Authenticate(cfg.Auth, cfg.CookieName)
	admin := mw.RequireRole(domain.RoleAdmin)

	v1 := e.Group("/api/v1")

	a := v1.Group("/auth")
	a.POST("/register", h.Register)
	a.POST("/login", h.Login)
	a.GET("/me", h.Me, authn)
	a.POST("/verify", h.Verify, authn)
	a.GET("/re-verify", h.ReVerify, authn)
	a.GET("/logout", h.Logout)

	n := v1.Group("/notifications", authn)
	n.GET("", h.ListNotifications)
	n.POST("", h.CreateNotification)
	n.GET("/stream", h.Stream)
	n.DELETE("/cleanup", h.CleanupNotifications, admin)
	n.DELETE("/cleanup/:days", h.CleanupNotifications, admin)
	n.GET("/:id", h.GetNotification)
	n.PUT("/:id", h.UpdateNotification)
	n.DELETE("/:id", h.DeleteNotification, admin)

	c := v1.Group("/config", authn, admin)
	c.GET("", h.GetConfig)
	c.PUT("", h.UpdateConfig)

	return e
}
