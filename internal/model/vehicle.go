package model

import "time"

// Vehicle is a rentable car. Availability is a single flag with no
// date-range calendar.
type Vehicle struct {
	ID              string   `json:"vehicle_id"`
	Brand           string   `json:"brand"`
	Model           string   `json:"model"`
	Year            int      `json:"year"`
	Plate           string   `json:"plate"`
	Color           string   `json:"color"`
	Segment         string   `json:"segment"`
	Transmission    string   `json:"transmission"`
	FuelType        string   `json:"fuel_type"`
	Seats           int      `json:"seats"`
	Doors           int      `json:"doors"`
	DailyPrice      float64  `json:"daily_price"`
	Features        []string `json:"features"`
	Images          []string `json:"images"`
	Available       bool     `json:"available"`
	Km              int      `json:"km"`
	BaggageCapacity string   `json:"baggage_capacity"`
	MinAge          int      `json:"min_age"`
	MinLicenseYears int      `json:"min_license_years"`
	Deposit         float64  `json:"deposit"`
	KmLimit         int      `json:"km_limit"`
}

// VehicleFilter narrows a catalog listing. Zero values mean "no filter".
type VehicleFilter struct {
	Segment      string
	Brand        string // case-insensitive substring
	Transmission string
	FuelType     string
	MinPrice     *float64
	MaxPrice     *float64
	Available    *bool
	SortBy       string
	SortOrder    string // "asc"; anything else sorts descending
	Limit        int
}

// DefaultVehicleSort is used when the requested sort field is not sortable.
const DefaultVehicleSort = "daily_price"

// VehicleSortFields lists the vehicle fields a listing may be ordered by.
var VehicleSortFields = map[string]bool{
	"vehicle_id": true, "brand": true, "model": true, "year": true,
	"plate": true, "color": true, "segment": true, "transmission": true,
	"fuel_type": true, "seats": true, "doors": true, "daily_price": true,
	"available": true, "km": true, "baggage_capacity": true, "min_age": true,
	"min_license_years": true, "deposit": true, "km_limit": true,
}

// Normalize replaces an unknown sort field with the default, folds the sort
// order to "asc" or "desc" and clamps Limit to [1, max].
func (f VehicleFilter) Normalize(max int) VehicleFilter {
	if !VehicleSortFields[f.SortBy] {
		f.SortBy = DefaultVehicleSort
	}
	if f.SortOrder != "asc" {
		f.SortOrder = "desc"
	}
	if f.Limit <= 0 || f.Limit > max {
		f.Limit = max
	}
	return f
}

// Location is a pickup/return branch.
type Location struct {
	ID           string `json:"location_id"`
	Name         string `json:"name"`
	Address      string `json:"address"`
	City         string `json:"city"`
	Type         string `json:"type"` // airport, city, hotel
	WorkingHours string `json:"working_hours"`
}

// Campaign is a marketing promotion shown while active and not expired.
type Campaign struct {
	ID              string    `json:"campaign_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Image           string    `json:"image"`
	DiscountPercent int       `json:"discount_percent"`
	ValidUntil      time.Time `json:"valid_until"`
	Active          bool      `json:"active"`
}
