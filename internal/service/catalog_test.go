package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/fleetease-rental/internal/model"
	"github.com/iliyamo/fleetease-rental/internal/service"
	"github.com/iliyamo/fleetease-rental/internal/service/servicetest"
)

func newCatalog(t *testing.T) (*service.CatalogService, *servicetest.Catalog, *servicetest.CountingPurger) {
	t.Helper()
	c := servicetest.NewCatalog()
	purger := &servicetest.CountingPurger{}
	svc := service.NewCatalogService(c, servicetest.Locations{C: c}, c, c, purger, nil)
	svc.SetClock(func() time.Time { return t0 })
	return svc, c, purger
}

func TestCatalog_SeedThenBrowse(t *testing.T) {
	svc, store, purger := newCatalog(t)
	ctx := context.Background()
	store.AddVehicles(model.Vehicle{ID: "old", Available: true})

	res, err := svc.Seed(ctx)
	require.NoError(t, err)
	require.Equal(t, service.SeedResult{Vehicles: 10, Locations: 8, Campaigns: 3}, res)
	require.Equal(t, 1, purger.Calls)

	_, err = svc.GetVehicle(ctx, "old")
	require.ErrorIs(t, err, service.ErrVehicleNotFound)
	v, err := svc.GetVehicle(ctx, "v003")
	require.NoError(t, err)
	require.Equal(t, "BMW", v.Brand)

	// seeding twice leaves the same counts
	_, err = svc.Seed(ctx)
	require.NoError(t, err)
	nv, nl, nc := store.Counts()
	require.Equal(t, [3]int{10, 8, 3}, [3]int{nv, nl, nc})

	popular, err := svc.PopularVehicles(ctx)
	require.NoError(t, err)
	require.Len(t, popular, 6)
	require.Equal(t, "v001", popular[0].ID)
	require.Equal(t, "v006", popular[5].ID)

	camps, err := svc.ActiveCampaigns(ctx)
	require.NoError(t, err)
	require.Len(t, camps, 3)

	locs, err := svc.ListLocations(ctx, "İstanbul")
	require.NoError(t, err)
	require.Len(t, locs, 4)
	locs, err = svc.ListLocations(ctx, "ankara")
	require.NoError(t, err)
	require.Len(t, locs, 2)
	locs, err = svc.ListLocations(ctx, "")
	require.NoError(t, err)
	require.Len(t, locs, 8)
}

func TestCatalog_ListVehiclesFiltersAndSorts(t *testing.T) {
	svc, _, _ := newCatalog(t)
	ctx := context.Background()
	_, err := svc.Seed(ctx)
	require.NoError(t, err)

	got, err := svc.ListVehicles(ctx, model.VehicleFilter{Segment: "Lüks"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, "v004", got[0].ID, "default order is daily_price descending")

	got, err = svc.ListVehicles(ctx, model.VehicleFilter{Segment: "Lüks", SortOrder: "asc"})
	require.NoError(t, err)
	require.Equal(t, []string{"v009", "v003", "v004"}, ids(got))

	got, err = svc.ListVehicles(ctx, model.VehicleFilter{Brand: "volks", SortBy: "not_a_field", SortOrder: "asc"})
	require.NoError(t, err)
	require.Equal(t, []string{"v002", "v008"}, ids(got))

	lo, hi := 900.0, 1600.0
	got, err = svc.ListVehicles(ctx, model.VehicleFilter{MinPrice: &lo, MaxPrice: &hi, SortOrder: "asc"})
	require.NoError(t, err)
	require.Equal(t, []string{"v007", "v002", "v005"}, ids(got))

	got, err = svc.ListVehicles(ctx, model.VehicleFilter{MinPrice: &hi, MaxPrice: &lo})
	require.NoError(t, err)
	require.Empty(t, got)

	no := false
	got, err = svc.ListVehicles(ctx, model.VehicleFilter{Available: &no})
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestCatalog_CampaignsExpire(t *testing.T) {
	svc, store, _ := newCatalog(t)
	store.AddCampaigns(
		model.Campaign{ID: "live", Active: true, ValidUntil: t0.Add(time.Hour)},
		model.Campaign{ID: "expired", Active: true, ValidUntil: t0.Add(-time.Hour)},
		model.Campaign{ID: "off", Active: false, ValidUntil: t0.Add(time.Hour)},
	)
	got, err := svc.ActiveCampaigns(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "live", got[0].ID)
}

func ids(vs []model.Vehicle) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.ID)
	}
	return out
}
