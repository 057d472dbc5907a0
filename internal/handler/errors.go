package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fleetease-rental/internal/service"
	"github.com/iliyamo/fleetease-rental/internal/validation"
)

// opTimeout bounds the store work of a single request.
const opTimeout = 5 * time.Second

func opCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), opTimeout)
}

// errorStatus maps a service error to its status and user-facing detail.
// ok is false for unexpected errors.
func errorStatus(err error) (status int, detail string, ok bool) {
	var ve *service.ValidationError
	switch {
	case errors.Is(err, service.ErrDuplicateEmail):
		return http.StatusBadRequest, "Bu e-posta adresi zaten kayıtlı", true
	case errors.Is(err, service.ErrDuplicatePhone):
		return http.StatusBadRequest, "Bu telefon numarası zaten kayıtlı", true
	case errors.As(err, &ve):
		return http.StatusBadRequest, "Geçersiz istek: " + ve.Error(), true
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, "Geçersiz istek", true
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "E-posta veya şifre hatalı", true
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized, "Unauthorized", true
	case errors.Is(err, service.ErrInvalidExternalSession):
		return http.StatusUnauthorized, "Invalid session_id", true
	case errors.Is(err, service.ErrProviderUnavailable):
		return http.StatusInternalServerError, "Authentication failed", true
	case errors.Is(err, service.ErrVehicleNotFound):
		return http.StatusNotFound, "Araç bulunamadı", true
	case errors.Is(err, service.ErrVehicleUnavailable):
		return http.StatusBadRequest, "Araç müsait değil", true
	case errors.Is(err, service.ErrReservationNotFound):
		return http.StatusNotFound, "Rezervasyon bulunamadı", true
	case errors.Is(err, service.ErrInvalidTransition):
		return http.StatusBadRequest, "Bu rezervasyon iptal edilemez", true
	case errors.Is(err, service.ErrNotificationNotFound):
		return http.StatusNotFound, "Bildirim bulunamadı", true
	}
	return http.StatusInternalServerError, "Internal Server Error", false
}

// ErrorHandler renders every error as {"detail": message}. Unexpected errors
// are logged with the request id and hidden from the client.
func ErrorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	if log == nil {
		log = slog.Default()
	}
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var status int
		var detail string
		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			detail = http.StatusText(he.Code)
			if m, ok := he.Message.(string); ok && m != "" {
				detail = m
			}
		} else {
			var known bool
			status, detail, known = errorStatus(err)
			if !known {
				log.Error("request failed",
					"err", err,
					"req_id", c.Response().Header().Get(echo.HeaderXRequestID),
					"method", c.Request().Method,
					"path", c.Path(),
				)
			}
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, echo.Map{"detail": detail})
	}
}

// bindValid decodes the JSON body into dst and runs the struct validator.
func bindValid(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Geçersiz istek gövdesi")
	}
	if err := c.Validate(dst); err != nil {
		if fields := validation.Fields(err); len(fields) > 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Geçersiz alan: "+strings.Join(fields, ", "))
		}
		return echo.NewHTTPError(http.StatusBadRequest, "Geçersiz istek")
	}
	return nil
}
