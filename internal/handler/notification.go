package handler

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fleetease-rental/internal/middleware"
	"github.com/iliyamo/fleetease-rental/internal/realtime"
	"github.com/iliyamo/fleetease-rental/internal/service"
)

type NotificationHandler struct {
	Notifications *service.NotificationService
	Hub           *realtime.Hub
	Log           *slog.Logger
	upgrader      websocket.Upgrader
}

// NewNotificationHandler accepts websocket origins from allowedOrigins; "*"
// allows any origin.
func NewNotificationHandler(svc *service.NotificationService, hub *realtime.Hub, allowedOrigins []string, log *slog.Logger) *NotificationHandler {
	if log == nil {
		log = slog.Default()
	}
	allowed := map[string]bool{}
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &NotificationHandler{
		Notifications: svc,
		Hub:           hub,
		Log:           log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || allowed["*"] || allowed[origin] {
					return true
				}
				u, err := url.Parse(origin)
				return err == nil && u.Host == r.Host
			},
		},
	}
}

func (h *NotificationHandler) List(c echo.Context) error {
	ctx, cancel := opCtx(c)
	defer cancel()
	ns, err := h.Notifications.List(ctx, middleware.CurrentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ns)
}

func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	ctx, cancel := opCtx(c)
	defer cancel()
	n, err := h.Notifications.UnreadCount(ctx, middleware.CurrentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"count": n})
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	ctx, cancel := opCtx(c)
	defer cancel()
	if err := h.Notifications.MarkRead(ctx, c.Param("id"), middleware.CurrentUserID(c)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Okundu olarak işaretlendi"})
}

func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	ctx, cancel := opCtx(c)
	defer cancel()
	if _, err := h.Notifications.MarkAllRead(ctx, middleware.CurrentUserID(c)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Tümü okundu olarak işaretlendi"})
}

// Stream upgrades to a websocket that receives the user's new
// notifications until either side closes.
func (h *NotificationHandler) Stream(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// the upgrader has already written an error response
		h.Log.Warn("websocket upgrade failed", "err", err)
		return nil
	}
	h.Hub.Serve(c.Request().Context(), conn, middleware.CurrentUserID(c))
	return nil
}
