package adapters

import (
	"context"
	"fmt"
	"net/url"
)

// Place is one nearby-search candidate.
type Place struct {
	PlaceID  string
	Name     string
	Types    []string
	Vicinity string
	Lat      float64
	Lon      float64
}

// PlacesAdapter wraps the places nearby-search endpoint.
type PlacesAdapter struct {
	client  *Client
	baseURL string
	apiKey  string
}

// NewPlacesAdapter creates a PlacesAdapter against the given base URL.
func NewPlacesAdapter(client *Client, baseURL, apiKey string) *PlacesAdapter {
	return &PlacesAdapter{client: client, baseURL: baseURL, apiKey: apiKey}
}

type nearbyResponse struct {
	Status  string `json:"status"`
	Results []struct {
		PlaceID  string   `json:"place_id"`
		Name     string   `json:"name"`
		Types    []string `json:"types"`
		Vicinity string   `json:"vicinity"`
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Nearby searches for places around the coordinate. Exactly one of category
// (a provider type) or keyword may be empty. ZERO_RESULTS is a valid empty
// answer, not a failure.
func (a *PlacesAdapter) Nearby(ctx context.Context, lat, lon float64, radiusM int, category, keyword string) ([]Place, error) {
	q := url.Values{}
	q.Set("location", fmt.Sprintf("%f,%f", lat, lon))
	q.Set("radius", fmt.Sprintf("%d", radiusM))
	if category != "" {
		q.Set("type", category)
	}
	if keyword != "" {
		q.Set("keyword", keyword)
	}
	q.Set("key", a.apiKey)

	full := fmt.Sprintf("%s/maps/api/place/nearbysearch/json?%s", a.baseURL, q.Encode())
	var resp nearbyResponse
	if err := a.client.getJSON(ctx, "places", full, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "OK" && resp.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("places: provider status %q", resp.Status)
	}

	places := make([]Place, 0, len(resp.Results))
	for _, r := range resp.Results {
		places = append(places, Place{
			PlaceID:  r.PlaceID,
			Name:     r.Name,
			Types:    r.Types,
			Vicinity: r.Vicinity,
			Lat:      r.Geometry.Location.Lat,
			Lon:      r.Geometry.Location.Lng,
		})
	}
	return places, nil
}
