package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/fleetease-rental/internal/model"
)

// LocationRepo reads pickup/return branches.
type LocationRepo struct{ db *sql.DB }

func NewLocationRepo(db *sql.DB) *LocationRepo { return &LocationRepo{db: db} }

// List returns locations whose city contains city (case-insensitive), or
// all locations when city is empty.
func (r *LocationRepo) List(ctx context.Context, city string, limit int) ([]model.Location, error) {
	q := "SELECT location_id, name, address, city, type, working_hours FROM locations"
	args := []any{}
	if city != "" {
		q += " WHERE LOWER(city) LIKE ?"
		args = append(args, "%"+likeEscape(strings.ToLower(city))+"%")
	}
	q += " ORDER BY id ASC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Location, 0)
	for rows.Next() {
		var l model.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Address, &l.City, &l.Type, &l.WorkingHours); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// CampaignRepo reads marketing campaigns.
type CampaignRepo struct{ db *sql.DB }

func NewCampaignRepo(db *sql.DB) *CampaignRepo { return &CampaignRepo{db: db} }

// ListActive returns active campaigns valid at or after now.
func (r *CampaignRepo) ListActive(ctx context.Context, now time.Time, limit int) ([]model.Campaign, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT campaign_id, title, description, image, discount_percent, valid_until, active
		 FROM campaigns WHERE active = TRUE AND valid_until >= ? ORDER BY id ASC LIMIT ?`,
		now.UTC(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Campaign, 0)
	for rows.Next() {
		var c model.Campaign
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.Image, &c.DiscountPercent, &c.ValidUntil, &c.Active); err != nil {
			return nil, err
		}
		c.ValidUntil = c.ValidUntil.UTC()
		out = append(out, c)
	}
	return out, rows.Err()
}

// CatalogSeedRepo replaces the reference collections in one transaction.
type CatalogSeedRepo struct{ db *sql.DB }

func NewCatalogSeedRepo(db *sql.DB) *CatalogSeedRepo { return &CatalogSeedRepo{db: db} }

// ReplaceCatalog deletes every vehicle, location and campaign and inserts
// the given sets. Reservations and users are untouched.
func (r *CatalogSeedRepo) ReplaceCatalog(ctx context.Context, vehicles []model.Vehicle, locations []model.Location, campaigns []model.Campaign) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"vehicles", "locations", "campaigns"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	for _, v := range vehicles {
		if err := insertVehicleTx(ctx, tx, v); err != nil {
			return err
		}
	}
	for _, l := range locations {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO locations (location_id, name, address, city, type, working_hours) VALUES (?,?,?,?,?,?)",
			l.ID, l.Name, l.Address, l.City, l.Type, l.WorkingHours); err != nil {
			return err
		}
	}
	for _, c := range campaigns {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO campaigns (campaign_id, title, description, image, discount_percent, valid_until, active)
			 VALUES (?,?,?,?,?,?,?)`,
			c.ID, c.Title, c.Description, c.Image, c.DiscountPercent, c.ValidUntil.UTC(), c.Active); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
