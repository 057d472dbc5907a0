// Package router wires handlers and middleware into an Echo instance.
package router

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/fleetease-rental/internal/handler"
	"github.com/iliyamo/fleetease-rental/internal/middleware"
	"github.com/iliyamo/fleetease-rental/internal/validation"
)

// Deps holds everything the routes need. Limiter and Cache may be nil.
type Deps struct {
	Log           *slog.Logger
	CORSOrigins   []string
	SeedEnabled   bool
	Sessions      middleware.SessionResolver
	Auth          *handler.AuthHandler
	Catalog       *handler.CatalogHandler
	Reservations  *handler.ReservationHandler
	Notifications *handler.NotificationHandler
	Limiter       echo.MiddlewareFunc
	Cache         echo.MiddlewareFunc
}

// New builds the Echo instance with global middleware and every route.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.New()
	e.HTTPErrorHandler = handler.ErrorHandler(d.Log)

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     corsOrigins(d.CORSOrigins),
		AllowCredentials: true,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization, echo.HeaderXRequestID},
	}))
	e.Use(middleware.Slog(d.Log))

	RegisterRoutes(e)
	api := e.Group("/api")
	api.GET("/", handler.Root)
	api.GET("", handler.Root)
	RegisterAuth(api, d)
	RegisterCatalog(api, d)
	RegisterReservations(api, d)
	RegisterNotifications(api, d)
	return e
}

func corsOrigins(in []string) []string {
	if len(in) == 0 {
		return []string{"*"}
	}
	return in
}

func orNoop(mw echo.MiddlewareFunc) echo.MiddlewareFunc {
	if mw == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return mw
}

// RegisterRoutes registers routes outside the API prefix.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the credential endpoints, rate limited, and the
// session-protected profile endpoints.
func RegisterAuth(api *echo.Group, d Deps) {
	limited := api.Group("/auth", orNoop(d.Limiter))
	limited.POST("/register", d.Auth.Register)
	limited.POST("/login", d.Auth.Login)
	limited.POST("/google/callback", d.Auth.ExternalCallback)
	// logout works with or without a live session
	api.POST("/auth/logout", d.Auth.Logout)

	auth := middleware.RequireSession(d.Sessions)
	api.GET("/auth/me", d.Auth.Me, auth)
	api.PUT("/users/me", d.Auth.UpdateMe, auth)
}

// RegisterCatalog registers the cached public listings. /vehicles/popular
// is a static route and takes precedence over /vehicles/:id.
func RegisterCatalog(api *echo.Group, d Deps) {
	g := api.Group("", orNoop(d.Cache))
	g.GET("/vehicles", d.Catalog.ListVehicles)
	g.GET("/vehicles/popular", d.Catalog.PopularVehicles)
	g.GET("/vehicles/:id", d.Catalog.GetVehicle)
	g.GET("/locations", d.Catalog.ListLocations)
	g.GET("/campaigns", d.Catalog.ActiveCampaigns)

	if d.SeedEnabled {
		api.POST("/seed", d.Catalog.Seed)
	}
}

func RegisterReservations(api *echo.Group, d Deps) {
	g := api.Group("/reservations", middleware.RequireSession(d.Sessions))
	g.GET("", d.Reservations.List)
	g.POST("", d.Reservations.Create)
	g.GET("/:id", d.Reservations.Get)
	g.DELETE("/:id", d.Reservations.Cancel)
	g.POST("/:id/pay", d.Reservations.Pay)
}

func RegisterNotifications(api *echo.Group, d Deps) {
	g := api.Group("/notifications", middleware.RequireSession(d.Sessions))
	g.GET("", d.Notifications.List)
	g.GET("/unread-count", d.Notifications.UnreadCount)
	g.PUT("/read-all", d.Notifications.MarkAllRead)
	g.PUT("/:id/read", d.Notifications.MarkRead)
	g.GET("/ws", d.Notifications.Stream)
}
