// Package aggregator combines the coordinate projector, the external data
// adapters and the derived metrics into one flat SiteRecord per site. Any
// individual source may fail; the record is still returned, with that
// source's fields left at their sentinels and the failure noted.
package aggregator

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/apex/log"

	"github.com/kaitlin-del/SiteSheets/adapters"
	"github.com/kaitlin-del/SiteSheets/config"
	"github.com/kaitlin-del/SiteSheets/models"
	"github.com/kaitlin-del/SiteSheets/projection"
	"github.com/kaitlin-del/SiteSheets/services"
)

// The adapter capabilities the pipeline consumes. Kept as small interfaces
// so tests can substitute deterministic fakes per source.
type (
	// AdminLookup resolves postcode and administrative units.
	AdminLookup interface {
		Lookup(ctx context.Context, lat, lon float64) (adapters.AdminInfo, error)
	}
	// ReverseGeocoder resolves street and formatted address.
	ReverseGeocoder interface {
		Reverse(ctx context.Context, lat, lon float64) (adapters.AddressInfo, error)
	}
	// RoadSnapper resolves the snapped road segment.
	RoadSnapper interface {
		Snap(ctx context.Context, lat, lon float64) (adapters.RoadInfo, error)
	}
	// TrafficFlow resolves current and free-flow speeds.
	TrafficFlow interface {
		Flow(ctx context.Context, lat, lon float64) (adapters.TrafficInfo, error)
	}
	// PlaceSearcher resolves nearby places for one category or keyword.
	PlaceSearcher interface {
		Nearby(ctx context.Context, lat, lon float64, radiusM int, category, keyword string) ([]adapters.Place, error)
	}
	// StationSearcher resolves competitor charging stations.
	StationSearcher interface {
		Search(ctx context.Context, lat, lon float64, radiusM int) ([]models.CompetitorStation, error)
	}
	// ElevationLookup resolves the site elevation.
	ElevationLookup interface {
		Elevation(ctx context.Context, lat, lon float64) (float64, error)
	}
)

// Deps bundles everything the Aggregator consumes.
type Deps struct {
	Projector *projection.Transformer
	Admin     AdminLookup
	Geocoder  ReverseGeocoder
	Roads     RoadSnapper
	Traffic   TrafficFlow
	Places    PlaceSearcher
	Stations  StationSearcher
	Elevation ElevationLookup
}

// Aggregator runs the per-site pipeline.
type Aggregator struct {
	cfg    *config.Config
	logger log.Interface
	deps   Deps
}

// New creates an Aggregator.
func New(cfg *config.Config, logger log.Interface, deps Deps) *Aggregator {
	return &Aggregator{cfg: cfg, logger: logger, deps: deps}
}

// Aggregate analyzes one site. It returns an error only for invalid input,
// before any network call; upstream failures degrade the record instead.
func (a *Aggregator) Aggregate(ctx context.Context, q models.SiteQuery) (*models.SiteRecord, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	a.applyDefaults(&q)

	record := models.NewSiteRecord(q)
	record.RequiredKVA = services.RequiredKVA(
		q.FastCount, q.RapidCount, q.UltraCount,
		q.FastKW, q.RapidKW, q.UltraKW, a.cfg.PowerFactor)

	a.project(record, q)

	// The reverse geocoder is the primary postcode source: its value must
	// survive the administrative merge that runs after it.
	primaryPostcode := a.mergeGeocode(ctx, record, q)
	a.mergeAdmin(ctx, record, q)
	if primaryPostcode != models.NA {
		record.Postcode = primaryPostcode
	}

	a.mergeRoads(ctx, record, q)
	a.mergeTraffic(ctx, record, q)
	if a.cfg.IncludeAmenities {
		a.mergeAmenities(ctx, record, q)
	}
	a.mergeStations(ctx, record, q)
	if a.cfg.IncludeElevation {
		a.mergeElevation(ctx, record, q)
	}

	a.buildLinks(record)
	return record, nil
}

// applyDefaults fills unset power ratings and radii from configuration.
func (a *Aggregator) applyDefaults(q *models.SiteQuery) {
	if q.FastKW == 0 {
		q.FastKW = a.cfg.FastKW
	}
	if q.RapidKW == 0 {
		q.RapidKW = a.cfg.RapidKW
	}
	if q.UltraKW == 0 {
		q.UltraKW = a.cfg.UltraKW
	}
	if q.CompetitorRadiusM == 0 {
		q.CompetitorRadiusM = a.cfg.CompetitorRadiusM
	}
	if q.AmenitiesRadiusM == 0 {
		q.AmenitiesRadiusM = a.cfg.AmenitiesRadiusM
	}
}

func (a *Aggregator) project(record *models.SiteRecord, q models.SiteQuery) {
	easting, northing, ok := a.deps.Projector.Project(q.Latitude, q.Longitude)
	if !ok {
		a.warn(record, "projection", fmt.Errorf("coordinate outside the national grid domain"))
		return
	}
	record.Easting = strconv.Itoa(easting)
	record.Northing = strconv.Itoa(northing)
}

// mergeGeocode merges the reverse-geocode partial and returns the primary
// postcode so the caller can re-apply it after the administrative merge.
func (a *Aggregator) mergeGeocode(ctx context.Context, record *models.SiteRecord, q models.SiteQuery) string {
	if a.cancelled(ctx, record) {
		return models.NA
	}
	info, err := a.deps.Geocoder.Reverse(ctx, q.Latitude, q.Longitude)
	if err != nil {
		a.warn(record, "geocode", err)
		return models.NA
	}
	record.Street = info.Street
	record.Address = info.Address
	record.Postcode = info.Postcode

	// The street doubles as the nearest-road answer for the road-snap
	// fallback tier.
	if info.Street != models.NA {
		record.NearestRoadName = info.Street
		record.NearestRoadType = services.ClassifyRoadName(info.Street)
	}
	return info.Postcode
}

func (a *Aggregator) mergeAdmin(ctx context.Context, record *models.SiteRecord, q models.SiteQuery) {
	if a.cancelled(ctx, record) {
		return
	}
	info, err := a.deps.Admin.Lookup(ctx, q.Latitude, q.Longitude)
	if err != nil {
		a.warn(record, "postcode", err)
		return
	}
	record.Postcode = info.Postcode
	record.Ward = info.Ward
	record.District = info.District
	record.County = info.County
	record.Parish = info.Parish
	record.Constituency = info.Constituency
	record.Region = info.Region
	record.Country = info.Country
}

func (a *Aggregator) mergeRoads(ctx context.Context, record *models.SiteRecord, q models.SiteQuery) {
	if a.cancelled(ctx, record) {
		return
	}
	info, err := a.deps.Roads.Snap(ctx, q.Latitude, q.Longitude)
	if err != nil {
		a.warn(record, "road-snap", err)
		// Fallback tier: reuse the reverse-geocoded street.
		record.RoadName = record.NearestRoadName
		record.RoadType = record.NearestRoadType
		return
	}
	record.RoadName = info.Name
	record.RoadType = info.Type
}

func (a *Aggregator) mergeTraffic(ctx context.Context, record *models.SiteRecord, q models.SiteQuery) {
	if a.cancelled(ctx, record) {
		return
	}
	info, err := a.deps.Traffic.Flow(ctx, q.Latitude, q.Longitude)
	if err != nil || !info.Valid {
		a.warn(record, "traffic", err)
		return
	}
	record.CurrentSpeedKPH = strconv.FormatFloat(info.CurrentSpeedKPH, 'f', 0, 64)
	record.FreeFlowSpeedKPH = strconv.FormatFloat(info.FreeFlowSpeedKPH, 'f', 0, 64)
	record.CongestionLevel = services.CongestionLevel(info.CurrentSpeedKPH, info.FreeFlowSpeedKPH)
}

func (a *Aggregator) mergeAmenities(ctx context.Context, record *models.SiteRecord, q models.SiteQuery) {
	byCategory := make(map[string][]string, len(services.AmenityCategories))
	failed := false

	for _, category := range services.AmenityCategories {
		if a.cancelled(ctx, record) {
			return
		}
		places, err := a.deps.Places.Nearby(ctx, q.Latitude, q.Longitude, q.AmenitiesRadiusM, category, "")
		if err != nil {
			a.warn(record, "places:"+category, err)
			failed = true
			continue
		}
		names := make([]string, 0, len(places))
		for _, p := range places {
			names = append(names, p.Name)
		}
		byCategory[category] = names
	}

	if failed && len(byCategory) == 0 {
		return
	}

	stats := services.BuildAmenityStats(byCategory, a.cfg.EVKeywords)
	record.AmenitySummary = stats.Summary
	record.AmenityCounts = stats.Counts
	record.AmenityShares = stats.Shares
	record.AmenityTotal = stats.Total
}

func (a *Aggregator) mergeStations(ctx context.Context, record *models.SiteRecord, q models.SiteQuery) {
	if a.cancelled(ctx, record) {
		return
	}
	stations, err := a.deps.Stations.Search(ctx, q.Latitude, q.Longitude, q.CompetitorRadiusM)
	if err != nil {
		a.warn(record, "stations", err)
		return
	}

	for i := range stations {
		stations[i].Brand = services.ExtractBrand(stations[i].Name)
		stations[i].PowerClass = services.ClassifyChargerPower(stations[i].Name, 0)
	}

	record.Competitors = stations
	record.CompetitorCount = len(stations)
	record.CompetitorNames = make([]string, 0, len(stations))
	for _, s := range stations {
		record.CompetitorNames = append(record.CompetitorNames, s.Name)
	}
}

func (a *Aggregator) mergeElevation(ctx context.Context, record *models.SiteRecord, q models.SiteQuery) {
	if a.cancelled(ctx, record) {
		return
	}
	elevation, err := a.deps.Elevation.Elevation(ctx, q.Latitude, q.Longitude)
	if err != nil {
		a.warn(record, "elevation", err)
		return
	}
	record.Elevation = strconv.FormatFloat(elevation, 'f', 1, 64)
}

// buildLinks computes the presentation URLs once so downstream consumers
// never recompute them.
func (a *Aggregator) buildLinks(record *models.SiteRecord) {
	lat, lon := record.Latitude, record.Longitude
	record.MapURL = fmt.Sprintf("https://www.google.com/maps?q=%f,%f", lat, lon)
	record.DirectionsURL = fmt.Sprintf("https://www.google.com/maps/dir/?api=1&destination=%f,%f", lat, lon)
	if record.Postcode != models.NA {
		record.SearchURL = "https://www.google.com/search?q=" + url.QueryEscape(record.Postcode)
	}
	if a.cfg.IncludeStreetView {
		record.StreetViewURL = fmt.Sprintf(
			"https://www.google.com/maps/@?api=1&map_action=pano&viewpoint=%f,%f", lat, lon)
	}
}

// warn records a sub-operation failure on the record and in the log.
func (a *Aggregator) warn(record *models.SiteRecord, source string, err error) {
	msg := source + ": unavailable"
	if err != nil {
		msg = fmt.Sprintf("%s: %v", source, err)
	}
	a.logger.Warnf("[aggregator] %s", msg)
	record.Warnings = append(record.Warnings, msg)
}

// cancelled checks for cooperative cancellation between pipeline steps.
func (a *Aggregator) cancelled(ctx context.Context, record *models.SiteRecord) bool {
	if ctx.Err() == nil {
		return false
	}
	if len(record.Warnings) == 0 || record.Warnings[len(record.Warnings)-1] != "cancelled" {
		record.Warnings = append(record.Warnings, "cancelled")
	}
	return true
}
