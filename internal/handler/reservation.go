package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fleetease-rental/internal/middleware"
	"github.com/iliyamo/fleetease-rental/internal/service"
)

// ReservationHandler exposes the reservation lifecycle for the logged-in
// user. Every lookup is scoped to that user, so foreign ids answer 404.
type ReservationHandler struct {
	Reservations *service.ReservationService
	Log          *slog.Logger
}

func NewReservationHandler(svc *service.ReservationService, log *slog.Logger) *ReservationHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ReservationHandler{Reservations: svc, Log: log}
}

type createReservationReq struct {
	VehicleID      string         `json:"vehicle_id" validate:"required"`
	PickupDate     string         `json:"pickup_date" validate:"required"`
	ReturnDate     string         `json:"return_date" validate:"required"`
	PickupLocation string         `json:"pickup_location" validate:"required"`
	ReturnLocation string         `json:"return_location" validate:"required"`
	Extras         []string       `json:"extras"`
	DriverInfo     map[string]any `json:"driver_info"`
}

// dateLayouts are tried in order; values without a zone are taken as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, l := range dateLayouts {
		if t, err := time.ParseInLocation(l, s, time.UTC); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func (h *ReservationHandler) Create(c echo.Context) error {
	var req createReservationReq
	if err := bindValid(c, &req); err != nil {
		return err
	}
	pickup, ok := parseDate(req.PickupDate)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "Geçersiz alan: pickup_date")
	}
	ret, ok := parseDate(req.ReturnDate)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "Geçersiz alan: return_date")
	}

	ctx, cancel := opCtx(c)
	defer cancel()
	res, err := h.Reservations.Create(ctx, middleware.CurrentUserID(c), service.ReservationInput{
		VehicleID:      req.VehicleID,
		PickupDate:     pickup,
		ReturnDate:     ret,
		PickupLocation: req.PickupLocation,
		ReturnLocation: req.ReturnLocation,
		Extras:         req.Extras,
		DriverInfo:     req.DriverInfo,
	})
	if err != nil {
		return err
	}
	h.Log.Info("reservation created", "reservation_id", res.ID, "vehicle_id", res.VehicleID, "total", res.TotalPrice)
	return c.JSON(http.StatusOK, res)
}

// List handles GET /reservations?status=.
func (h *ReservationHandler) List(c echo.Context) error {
	ctx, cancel := opCtx(c)
	defer cancel()
	rs, err := h.Reservations.List(ctx, middleware.CurrentUserID(c), c.QueryParam("status"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rs)
}

func (h *ReservationHandler) Get(c echo.Context) error {
	ctx, cancel := opCtx(c)
	defer cancel()
	res, err := h.Reservations.Get(ctx, c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// Cancel handles DELETE /reservations/:id.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	ctx, cancel := opCtx(c)
	defer cancel()
	if err := h.Reservations.Cancel(ctx, c.Param("id"), middleware.CurrentUserID(c)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Rezervasyon iptal edildi"})
}

// Pay handles POST /reservations/:id/pay. Payment is simulated.
func (h *ReservationHandler) Pay(c echo.Context) error {
	ctx, cancel := opCtx(c)
	defer cancel()
	status, err := h.Reservations.Pay(ctx, c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Ödeme başarılı", "status": status})
}
