package handler

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fleetease-rental/internal/model"
	"github.com/iliyamo/fleetease-rental/internal/service"
)

// CatalogHandler serves the public vehicle, location and campaign listings
// and the development seeder.
type CatalogHandler struct {
	Catalog *service.CatalogService
	Log     *slog.Logger
}

func NewCatalogHandler(catalog *service.CatalogService, log *slog.Logger) *CatalogHandler {
	if log == nil {
		log = slog.Default()
	}
	return &CatalogHandler{Catalog: catalog, Log: log}
}

// ListVehicles handles GET /vehicles. Query parameters: segment, brand,
// transmission, fuel_type, min_price, max_price, available, sort_by,
// sort_order (default asc).
func (h *CatalogHandler) ListVehicles(c echo.Context) error {
	f := model.VehicleFilter{
		Segment:      c.QueryParam("segment"),
		Brand:        c.QueryParam("brand"),
		Transmission: c.QueryParam("transmission"),
		FuelType:     c.QueryParam("fuel_type"),
		SortBy:       c.QueryParam("sort_by"),
		SortOrder:    strings.ToLower(c.QueryParam("sort_order")),
	}
	if f.SortOrder == "" {
		f.SortOrder = "asc"
	}
	var err error
	if f.MinPrice, err = floatParam(c, "min_price"); err != nil {
		return err
	}
	if f.MaxPrice, err = floatParam(c, "max_price"); err != nil {
		return err
	}
	if v := c.QueryParam("available"); v != "" {
		b, perr := strconv.ParseBool(v)
		if perr != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Geçersiz parametre: available")
		}
		f.Available = &b
	}

	ctx, cancel := opCtx(c)
	defer cancel()
	vs, err := h.Catalog.ListVehicles(ctx, f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, vs)
}

func floatParam(c echo.Context, name string) (*float64, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Geçersiz parametre: "+name)
	}
	return &f, nil
}

func (h *CatalogHandler) PopularVehicles(c echo.Context) error {
	ctx, cancel := opCtx(c)
	defer cancel()
	vs, err := h.Catalog.PopularVehicles(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, vs)
}

func (h *CatalogHandler) GetVehicle(c echo.Context) error {
	ctx, cancel := opCtx(c)
	defer cancel()
	v, err := h.Catalog.GetVehicle(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v)
}

// ListLocations handles GET /locations?city=.
func (h *CatalogHandler) ListLocations(c echo.Context) error {
	ctx, cancel := opCtx(c)
	defer cancel()
	ls, err := h.Catalog.ListLocations(ctx, c.QueryParam("city"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ls)
}

func (h *CatalogHandler) ActiveCampaigns(c echo.Context) error {
	ctx, cancel := opCtx(c)
	defer cancel()
	cs, err := h.Catalog.ActiveCampaigns(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cs)
}

// Seed replaces the catalog with the reference data set.
func (h *CatalogHandler) Seed(c echo.Context) error {
	ctx, cancel := opCtx(c)
	defer cancel()
	res, err := h.Catalog.Seed(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":   "Data seeded successfully",
		"vehicles":  res.Vehicles,
		"locations": res.Locations,
		"campaigns": res.Campaigns,
	})
}
