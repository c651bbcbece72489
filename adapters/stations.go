package adapters

import (
	"context"
	"fmt"
	"strings"

	"github.com/apex/log"
	"github.com/golang/geo/s2"
	"golang.org/x/time/rate"

	"github.com/kaitlin-del/SiteSheets/models"
	"github.com/kaitlin-del/SiteSheets/utils"
)

const earthRadiusM = 6371010.0

// stationKeywordQueries is the fan-out issued on top of the broad
// charging-station category search; niche operators often only surface
// under keyword queries.
var stationKeywordQueries = []string{
	"ev charging station",
	"electric vehicle charging",
	"rapid charger",
	"tesla supercharger",
}

// stationMatchKeywords filter fan-out candidates: a station must carry the
// charging category tag or a charging keyword in its name.
var stationMatchKeywords = []string{"charg", "supercharger", "electric vehicle", "ev point"}

// StationsAdapter discovers competitor charging stations around a site.
type StationsAdapter struct {
	client  *Client
	places  *PlacesAdapter
	baseURL string
	apiKey  string
	limiter *rate.Limiter
	logger  log.Interface
}

// NewStationsAdapter creates a StationsAdapter. detailRPS throttles the
// per-candidate detail lookups to respect the provider's rate limit.
func NewStationsAdapter(client *Client, places *PlacesAdapter, baseURL, apiKey string, detailRPS float64, logger log.Interface) *StationsAdapter {
	if detailRPS <= 0 {
		detailRPS = 4
	}
	return &StationsAdapter{
		client:  client,
		places:  places,
		baseURL: baseURL,
		apiKey:  apiKey,
		limiter: rate.NewLimiter(rate.Limit(detailRPS), 1),
		logger:  logger,
	}
}

type stationDetailsResponse struct {
	Status string `json:"status"`
	Result struct {
		Name             string  `json:"name"`
		Rating           float64 `json:"rating"`
		FormattedAddress string  `json:"formatted_address"`
		FormattedPhone   string  `json:"formatted_phone_number"`
		Photos           []struct {
			PhotoReference string `json:"photo_reference"`
		} `json:"photos"`
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"result"`
}

// Search runs the multi-query fan-out, deduplicates by place identifier,
// filters to charging-related candidates and enriches each survivor with a
// throttled detail lookup. A failed detail lookup degrades that station to
// its basic candidate record rather than dropping it.
func (a *StationsAdapter) Search(ctx context.Context, lat, lon float64, radiusM int) ([]models.CompetitorStation, error) {
	seen := utils.NewSeenSet()
	var candidates []Place

	broad, err := a.places.Nearby(ctx, lat, lon, radiusM, "charging_station", "")
	if err != nil {
		// The broad query is the backbone; without it the fan-out alone is
		// not a trustworthy answer.
		return nil, err
	}
	for _, p := range broad {
		if seen.Add(p.PlaceID) {
			candidates = append(candidates, p)
		}
	}

	for _, keyword := range stationKeywordQueries {
		results, err := a.places.Nearby(ctx, lat, lon, radiusM, "", keyword)
		if err != nil {
			a.logger.Warnf("[stations] keyword query %q failed: %v", keyword, err)
			continue
		}
		for _, p := range results {
			if isChargingStation(p) && seen.Add(p.PlaceID) {
				candidates = append(candidates, p)
			}
		}
	}

	origin := s2.LatLngFromDegrees(lat, lon)
	stations := make([]models.CompetitorStation, 0, len(candidates))
	for _, p := range candidates {
		station := a.lookupDetails(ctx, p)
		station.DistanceM = distanceM(origin, station.Latitude, station.Longitude)
		stations = append(stations, station)
	}
	return stations, nil
}

// lookupDetails fetches the detail record for one candidate, falling back to
// the basic candidate fields when the lookup fails.
func (a *StationsAdapter) lookupDetails(ctx context.Context, p Place) models.CompetitorStation {
	station := models.CompetitorStation{
		PlaceID:   p.PlaceID,
		Name:      p.Name,
		Address:   orNA(p.Vicinity),
		Phone:     models.NA,
		PhotoRef:  models.NA,
		Latitude:  p.Lat,
		Longitude: p.Lon,
	}

	if err := a.limiter.Wait(ctx); err != nil {
		return station
	}

	url := fmt.Sprintf("%s/maps/api/place/details/json?place_id=%s&fields=name,rating,formatted_address,formatted_phone_number,photos,geometry&key=%s",
		a.baseURL, p.PlaceID, a.apiKey)
	var resp stationDetailsResponse
	if err := a.client.getJSON(ctx, "station-details", url, nil, &resp); err != nil {
		a.logger.Warnf("[stations] details for %q failed, keeping basic record: %v", p.Name, err)
		return station
	}
	if resp.Status != "OK" {
		a.logger.Warnf("[stations] details for %q returned status %q, keeping basic record", p.Name, resp.Status)
		return station
	}

	r := resp.Result
	if r.Name != "" {
		station.Name = r.Name
	}
	station.Rating = r.Rating
	station.Address = orNA(r.FormattedAddress)
	station.Phone = orNA(r.FormattedPhone)
	if len(r.Photos) > 0 {
		station.PhotoRef = r.Photos[0].PhotoReference
	}
	if r.Geometry.Location.Lat != 0 || r.Geometry.Location.Lng != 0 {
		station.Latitude = r.Geometry.Location.Lat
		station.Longitude = r.Geometry.Location.Lng
	}
	return station
}

// isChargingStation reports whether a fan-out candidate looks like an EV
// charging station by category tag or name keyword.
func isChargingStation(p Place) bool {
	for _, t := range p.Types {
		if t == "charging_station" {
			return true
		}
	}
	lower := strings.ToLower(p.Name)
	for _, kw := range stationMatchKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// distanceM computes the great-circle distance in metres from origin to the
// given coordinate.
func distanceM(origin s2.LatLng, lat, lon float64) float64 {
	if lat == 0 && lon == 0 {
		return 0
	}
	return origin.Distance(s2.LatLngFromDegrees(lat, lon)).Radians() * earthRadiusM
}
