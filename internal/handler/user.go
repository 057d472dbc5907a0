package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fleetease-rental/internal/middleware"
	"github.com/iliyamo/fleetease-rental/internal/model"
)

type profileReq struct {
	Name         *string `json:"name"`
	Phone        *string `json:"phone"`
	NationalID   *string `json:"tc_kimlik"`
	LicenseNo    *string `json:"ehliyet_no"`
	LicenseClass *string `json:"ehliyet_sinifi"`
	LicenseDate  *string `json:"ehliyet_tarihi"`
	BirthDate    *string `json:"dogum_tarihi"`
	Address      *string `json:"adres"`
}

// UpdateMe applies a partial profile update. Absent and null fields are left
// as they are.
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	var req profileReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Geçersiz istek gövdesi")
	}
	ctx, cancel := opCtx(c)
	defer cancel()

	u, err := h.Auth.UpdateProfile(ctx, middleware.CurrentUserID(c), model.ProfileUpdate{
		Name:         req.Name,
		Phone:        req.Phone,
		NationalID:   req.NationalID,
		LicenseNo:    req.LicenseNo,
		LicenseClass: req.LicenseClass,
		LicenseDate:  req.LicenseDate,
		BirthDate:    req.BirthDate,
		Address:      req.Address,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}
