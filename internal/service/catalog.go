package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/iliyamo/fleetease-rental/internal/model"
	"github.com/iliyamo/fleetease-rental/internal/repository"
)

// Listing caps.
const (
	MaxVehicleResults   = 100
	PopularVehicleCount = 6
	MaxLocationResults  = 100
	MaxCampaignResults  = 10
)

// CatalogService answers the read-only catalog queries and resets the
// reference data in development.
type CatalogService struct {
	vehicles  VehicleStore
	locations LocationStore
	campaigns CampaignStore
	seeder    CatalogSeeder
	purger    CachePurger
	log       *slog.Logger
	now       func() time.Time
}

// SeedResult reports how many rows the seeder wrote.
type SeedResult struct {
	Vehicles  int `json:"vehicles"`
	Locations int `json:"locations"`
	Campaigns int `json:"campaigns"`
}

func NewCatalogService(vehicles VehicleStore, locations LocationStore, campaigns CampaignStore, seeder CatalogSeeder, purger CachePurger, log *slog.Logger) *CatalogService {
	if log == nil {
		log = slog.Default()
	}
	return &CatalogService{
		vehicles:  vehicles,
		locations: locations,
		campaigns: campaigns,
		seeder:    seeder,
		purger:    purger,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the time source; used by tests.
func (s *CatalogService) SetClock(now func() time.Time) { s.now = now }

// ListVehicles filters and sorts the catalog. Unknown sort fields fall back
// to daily_price; any sort order other than "asc" is descending.
func (s *CatalogService) ListVehicles(ctx context.Context, f model.VehicleFilter) ([]model.Vehicle, error) {
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return []model.Vehicle{}, nil
	}
	return s.vehicles.List(ctx, f.Normalize(MaxVehicleResults))
}

func (s *CatalogService) GetVehicle(ctx context.Context, id string) (*model.Vehicle, error) {
	v, err := s.vehicles.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrVehicleNotFound
	}
	return v, err
}

// PopularVehicles returns the first available vehicles in storage order.
func (s *CatalogService) PopularVehicles(ctx context.Context) ([]model.Vehicle, error) {
	return s.vehicles.ListAvailable(ctx, PopularVehicleCount)
}

// ListLocations matches city as a case-insensitive substring.
func (s *CatalogService) ListLocations(ctx context.Context, city string) ([]model.Location, error) {
	return s.locations.List(ctx, strings.TrimSpace(city), MaxLocationResults)
}

// ActiveCampaigns returns active campaigns that have not expired.
func (s *CatalogService) ActiveCampaigns(ctx context.Context) ([]model.Campaign, error) {
	return s.campaigns.ListActive(ctx, s.now(), MaxCampaignResults)
}

// Seed replaces vehicles, locations and campaigns with the built-in
// reference set and drops cached catalog responses.
func (s *CatalogService) Seed(ctx context.Context) (SeedResult, error) {
	if s.seeder == nil {
		return SeedResult{}, errors.New("catalog seeding not configured")
	}
	vehicles, locations, campaigns := ReferenceCatalog(s.now())
	if err := s.seeder.ReplaceCatalog(ctx, vehicles, locations, campaigns); err != nil {
		return SeedResult{}, err
	}
	if s.purger != nil {
		if err := s.purger.Purge(ctx); err != nil {
			s.log.Warn("catalog cache purge failed", "err", err)
		}
	}
	s.log.Info("catalog seeded", "vehicles", len(vehicles), "locations", len(locations), "campaigns", len(campaigns))
	return SeedResult{Vehicles: len(vehicles), Locations: len(locations), Campaigns: len(campaigns)}, nil
}
