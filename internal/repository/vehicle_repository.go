package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iliyamo/fleetease-rental/internal/model"
)

// VehicleRepo reads the vehicle catalog. Storage order is the insertion
// order (auto-increment id).
type VehicleRepo struct{ db *sql.DB }

func NewVehicleRepo(db *sql.DB) *VehicleRepo { return &VehicleRepo{db: db} }

const vehicleColumns = `vehicle_id, brand, model, year, plate, color, segment, transmission, fuel_type,
	seats, doors, daily_price, features, images, available, km, baggage_capacity,
	min_age, min_license_years, deposit, km_limit`

// List applies the filter and returns at most f.Limit vehicles. The filter
// must already be normalized; an unknown sort field falls back to
// daily_price here as well.
func (r *VehicleRepo) List(ctx context.Context, f model.VehicleFilter) ([]model.Vehicle, error) {
	where := []string{}
	args := []any{}

	if f.Segment != "" {
		where = append(where, "segment = ?")
		args = append(args, f.Segment)
	}
	if f.Brand != "" {
		where = append(where, "LOWER(brand) LIKE ?")
		args = append(args, "%"+likeEscape(strings.ToLower(f.Brand))+"%")
	}
	if f.Transmission != "" {
		where = append(where, "transmission = ?")
		args = append(args, f.Transmission)
	}
	if f.FuelType != "" {
		where = append(where, "fuel_type = ?")
		args = append(args, f.FuelType)
	}
	if f.Available != nil {
		where = append(where, "available = ?")
		args = append(args, *f.Available)
	}
	if f.MinPrice != nil {
		where = append(where, "daily_price >= ?")
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		where = append(where, "daily_price <= ?")
		args = append(args, *f.MaxPrice)
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	sortBy := f.SortBy
	if !model.VehicleSortFields[sortBy] {
		sortBy = model.DefaultVehicleSort
	}
	dir := "DESC"
	if f.SortOrder == "asc" {
		dir = "ASC"
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}

	q := fmt.Sprintf("SELECT %s FROM vehicles WHERE %s ORDER BY %s %s, id ASC LIMIT ?", vehicleColumns, cond, sortBy, dir)
	args = append(args, limit)
	return r.query(ctx, q, args...)
}

// ListAvailable returns the first limit available vehicles in storage order.
func (r *VehicleRepo) ListAvailable(ctx context.Context, limit int) ([]model.Vehicle, error) {
	return r.query(ctx, "SELECT "+vehicleColumns+" FROM vehicles WHERE available = TRUE ORDER BY id ASC LIMIT ?", limit)
}

// Get returns one vehicle or ErrNotFound.
func (r *VehicleRepo) Get(ctx context.Context, id string) (*model.Vehicle, error) {
	rows, err := r.query(ctx, "SELECT "+vehicleColumns+" FROM vehicles WHERE vehicle_id = ? LIMIT 1", id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

func (r *VehicleRepo) query(ctx context.Context, q string, args ...any) ([]model.Vehicle, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Vehicle, 0)
	for rows.Next() {
		var (
			v                model.Vehicle
			features, images []byte
		)
		if err := rows.Scan(
			&v.ID, &v.Brand, &v.Model, &v.Year, &v.Plate, &v.Color, &v.Segment, &v.Transmission, &v.FuelType,
			&v.Seats, &v.Doors, &v.DailyPrice, &features, &images, &v.Available, &v.Km, &v.BaggageCapacity,
			&v.MinAge, &v.MinLicenseYears, &v.Deposit, &v.KmLimit,
		); err != nil {
			return nil, err
		}
		if v.Features, err = decodeStrings(features); err != nil {
			return nil, fmt.Errorf("vehicle %s features: %w", v.ID, err)
		}
		if v.Images, err = decodeStrings(images); err != nil {
			return nil, fmt.Errorf("vehicle %s images: %w", v.ID, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// insertVehicleTx is used by the catalog seeder.
func insertVehicleTx(ctx context.Context, tx *sql.Tx, v model.Vehicle) error {
	features, err := encodeStrings(v.Features)
	if err != nil {
		return err
	}
	images, err := encodeStrings(v.Images)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO vehicles (`+vehicleColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		v.ID, v.Brand, v.Model, v.Year, v.Plate, v.Color, v.Segment, v.Transmission, v.FuelType,
		v.Seats, v.Doors, v.DailyPrice, features, images, v.Available, v.Km, v.BaggageCapacity,
		v.MinAge, v.MinLicenseYears, v.Deposit, v.KmLimit)
	return err
}

func likeEscape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// decodeStrings reads a JSON array column; NULL or empty becomes an empty slice.
func decodeStrings(raw []byte) ([]string, error) {
	out := []string{}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func encodeStrings(v []string) (string, error) {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	return string(b), err
}

// decodeObject reads a nullable JSON object column.
func decodeObject(raw []byte) (map[string]any, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// encodeObject returns nil (SQL NULL) for a nil map.
func encodeObject(m map[string]any) (any, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
