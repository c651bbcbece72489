package aggregator

import (
	"context"
	"errors"
	"testing"

	"github.com/apex/log"
	"github.com/apex/log/handlers/discard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaitlin-del/SiteSheets/adapters"
	"github.com/kaitlin-del/SiteSheets/config"
	"github.com/kaitlin-del/SiteSheets/models"
	"github.com/kaitlin-del/SiteSheets/projection"
)

// Deterministic fakes for each capability. Each counts its calls so tests
// can assert that invalid input short-circuits before any source is hit.
type fakeSources struct {
	calls int

	adminErr     error
	geocodeErr   error
	roadsErr     error
	trafficErr   error
	placesErr    error
	stationsErr  error
	elevationErr error

	geocodePostcode string
}

func (f *fakeSources) Lookup(ctx context.Context, lat, lon float64) (adapters.AdminInfo, error) {
	f.calls++
	if f.adminErr != nil {
		return adapters.DefaultAdminInfo(), f.adminErr
	}
	info := adapters.DefaultAdminInfo()
	info.Postcode = "SW1A 1AA"
	info.Ward = "St James's"
	info.District = "Westminster"
	info.Region = "London"
	info.Country = "England"
	return info, nil
}

func (f *fakeSources) Reverse(ctx context.Context, lat, lon float64) (adapters.AddressInfo, error) {
	f.calls++
	if f.geocodeErr != nil {
		return adapters.DefaultAddressInfo(), f.geocodeErr
	}
	info := adapters.AddressInfo{
		Street:   "The Mall",
		Address:  "The Mall, London, United Kingdom",
		Postcode: f.geocodePostcode,
	}
	if info.Postcode == "" {
		info.Postcode = models.NA
	}
	return info, nil
}

func (f *fakeSources) Snap(ctx context.Context, lat, lon float64) (adapters.RoadInfo, error) {
	f.calls++
	if f.roadsErr != nil {
		return adapters.DefaultRoadInfo(), f.roadsErr
	}
	return adapters.RoadInfo{Name: "A4", Type: "A Road"}, nil
}

func (f *fakeSources) Flow(ctx context.Context, lat, lon float64) (adapters.TrafficInfo, error) {
	f.calls++
	if f.trafficErr != nil {
		return adapters.TrafficInfo{}, f.trafficErr
	}
	return adapters.TrafficInfo{CurrentSpeedKPH: 45, FreeFlowSpeedKPH: 50, Valid: true}, nil
}

func (f *fakeSources) Nearby(ctx context.Context, lat, lon float64, radiusM int, category, keyword string) ([]adapters.Place, error) {
	f.calls++
	if f.placesErr != nil {
		return nil, f.placesErr
	}
	if category == "cafe" {
		return []adapters.Place{{PlaceID: "c1", Name: "Regency Cafe"}}, nil
	}
	return nil, nil
}

func (f *fakeSources) Search(ctx context.Context, lat, lon float64, radiusM int) ([]models.CompetitorStation, error) {
	f.calls++
	if f.stationsErr != nil {
		return nil, f.stationsErr
	}
	return []models.CompetitorStation{
		{PlaceID: "s1", Name: "BP Pulse Rapid 01", Latitude: 51.51, Longitude: -0.13, DistanceM: 320},
	}, nil
}

func (f *fakeSources) Elevation(ctx context.Context, lat, lon float64) (float64, error) {
	f.calls++
	if f.elevationErr != nil {
		return 0, f.elevationErr
	}
	return 12.0, nil
}

func testConfig() *config.Config {
	return &config.Config{
		FastKW:            22,
		RapidKW:           60,
		UltraKW:           150,
		PowerFactor:       0.95,
		CompetitorRadiusM: 1500,
		AmenitiesRadiusM:  1000,
		EVKeywords:        []string{"charging", "supercharger"},
		IncludeElevation:  true,
		IncludeStreetView: true,
		IncludeAmenities:  true,
	}
}

func newTestAggregator(f *fakeSources) *Aggregator {
	logger := &log.Logger{Handler: discard.New(), Level: log.ErrorLevel}
	return New(testConfig(), logger, Deps{
		Projector: projection.NewTransformer(),
		Admin:     f,
		Geocoder:  f,
		Roads:     f,
		Traffic:   f,
		Places:    f,
		Stations:  f,
		Elevation: f,
	})
}

func westminsterQuery() models.SiteQuery {
	return models.SiteQuery{
		Latitude:   51.5014,
		Longitude:  -0.1419,
		FastCount:  2,
		RapidCount: 2,
		UltraCount: 1,
	}
}

func TestAggregateFullRecord(t *testing.T) {
	f := &fakeSources{}
	agg := newTestAggregator(f)

	record, err := agg.Aggregate(context.Background(), westminsterQuery())
	require.NoError(t, err)

	assert.Equal(t, 330.53, record.RequiredKVA) // (44+120+150)/0.95
	assert.NotEqual(t, models.NA, record.Easting)
	assert.NotEqual(t, models.NA, record.Northing)
	assert.Equal(t, "SW1A 1AA", record.Postcode)
	assert.Equal(t, "Westminster", record.District)
	assert.Equal(t, "The Mall", record.Street)
	assert.Equal(t, "A4", record.RoadName)
	assert.Equal(t, "A Road", record.RoadType)
	assert.Equal(t, "The Mall", record.NearestRoadName)
	assert.Equal(t, "Local Road", record.NearestRoadType)
	assert.Equal(t, "45", record.CurrentSpeedKPH)
	assert.Equal(t, "Low", record.CongestionLevel)
	assert.Equal(t, 1, record.AmenityCounts["cafe"])
	assert.Equal(t, 1, record.CompetitorCount)
	assert.Equal(t, "BP Pulse", record.Competitors[0].Brand)
	assert.Equal(t, "Rapid", record.Competitors[0].PowerClass)
	assert.Equal(t, "12.0", record.Elevation)
	assert.Contains(t, record.SearchURL, "SW1A")
	assert.NotEqual(t, models.NA, record.StreetViewURL)
	assert.Empty(t, record.Warnings)
}

func TestAggregateRejectsInvalidCoordinates(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
	}{
		{"latitude too high", 95, 0},
		{"longitude too high", 0, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeSources{}
			agg := newTestAggregator(f)

			_, err := agg.Aggregate(context.Background(), models.SiteQuery{Latitude: tt.lat, Longitude: tt.lon})
			assert.Error(t, err)
			assert.Zero(t, f.calls, "no source may be called for invalid input")
		})
	}
}

func TestAggregateSingleFailureNoCrossContamination(t *testing.T) {
	f := &fakeSources{trafficErr: errors.New("upstream timeout")}
	agg := newTestAggregator(f)

	record, err := agg.Aggregate(context.Background(), westminsterQuery())
	require.NoError(t, err)

	// Traffic fields at sentinels.
	assert.Equal(t, models.NA, record.CurrentSpeedKPH)
	assert.Equal(t, models.NA, record.FreeFlowSpeedKPH)
	assert.Equal(t, models.NA, record.CongestionLevel)

	// Everything else intact.
	assert.Equal(t, "SW1A 1AA", record.Postcode)
	assert.Equal(t, "A4", record.RoadName)
	assert.Equal(t, 1, record.CompetitorCount)
	assert.Equal(t, "12.0", record.Elevation)

	require.Len(t, record.Warnings, 1)
	assert.Contains(t, record.Warnings[0], "traffic")
}

func TestAggregatePrimaryPostcodeWins(t *testing.T) {
	// The geocoder supplies a postcode; the admin lookup (which runs later)
	// must not overwrite it.
	f := &fakeSources{geocodePostcode: "SW1A 2BX"}
	agg := newTestAggregator(f)

	record, err := agg.Aggregate(context.Background(), westminsterQuery())
	require.NoError(t, err)
	assert.Equal(t, "SW1A 2BX", record.Postcode)
	assert.Equal(t, "Westminster", record.District) // rest of the admin merge kept
}

func TestAggregateAdminPostcodeUsedWhenPrimaryMissing(t *testing.T) {
	f := &fakeSources{} // geocoder returns sentinel postcode
	agg := newTestAggregator(f)

	record, err := agg.Aggregate(context.Background(), westminsterQuery())
	require.NoError(t, err)
	assert.Equal(t, "SW1A 1AA", record.Postcode)
}

func TestAggregateRoadSnapFallsBackToGeocodedStreet(t *testing.T) {
	f := &fakeSources{roadsErr: errors.New("no segment")}
	agg := newTestAggregator(f)

	record, err := agg.Aggregate(context.Background(), westminsterQuery())
	require.NoError(t, err)
	assert.Equal(t, "The Mall", record.RoadName)
	assert.Equal(t, "Local Road", record.RoadType)
}

func TestAggregateEverySourceDown(t *testing.T) {
	boom := errors.New("boom")
	f := &fakeSources{
		adminErr: boom, geocodeErr: boom, roadsErr: boom, trafficErr: boom,
		placesErr: boom, stationsErr: boom, elevationErr: boom,
	}
	agg := newTestAggregator(f)

	record, err := agg.Aggregate(context.Background(), westminsterQuery())
	require.NoError(t, err, "aggregation never fails on upstream errors")

	assert.Equal(t, models.NA, record.Postcode)
	assert.Equal(t, models.NA, record.Street)
	assert.Equal(t, 0, record.CompetitorCount)
	assert.Equal(t, 330.53, record.RequiredKVA) // pure metrics still computed
	assert.NotEmpty(t, record.Warnings)
}

func TestAggregateCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := &fakeSources{}
	agg := newTestAggregator(f)

	record, err := agg.Aggregate(ctx, westminsterQuery())
	require.NoError(t, err)
	assert.Zero(t, f.calls, "no source may be called after cancellation")
	assert.Contains(t, record.Warnings, "cancelled")
}
