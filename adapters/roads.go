package adapters

import (
	"context"
	"fmt"

	"github.com/kaitlin-del/SiteSheets/models"
	"github.com/kaitlin-del/SiteSheets/services"
)

// RoadInfo is the normalized road-snap partial.
type RoadInfo struct {
	Name string
	Type string
}

// DefaultRoadInfo returns the all-sentinel partial.
func DefaultRoadInfo() RoadInfo {
	return RoadInfo{Name: models.NA, Type: models.NA}
}

// RoadsAdapter snaps a coordinate to its nearest road segment and classifies
// the road. The snap endpoint yields a place identifier; a follow-up details
// lookup resolves the road's name and category tags.
type RoadsAdapter struct {
	client       *Client
	snapBaseURL  string
	placeBaseURL string
	apiKey       string
}

// NewRoadsAdapter creates a RoadsAdapter against the given base URLs.
func NewRoadsAdapter(client *Client, snapBaseURL, placeBaseURL, apiKey string) *RoadsAdapter {
	return &RoadsAdapter{
		client:       client,
		snapBaseURL:  snapBaseURL,
		placeBaseURL: placeBaseURL,
		apiKey:       apiKey,
	}
}

type snapResponse struct {
	SnappedPoints []struct {
		PlaceID string `json:"placeId"`
	} `json:"snappedPoints"`
}

type placeDetailsResponse struct {
	Status string `json:"status"`
	Result struct {
		Name  string   `json:"name"`
		Types []string `json:"types"`
	} `json:"result"`
}

// Snap resolves the road segment the coordinate sits on. Road type comes
// from the segment's category tags where they are conclusive, otherwise from
// lexical patterns in the road name. On any failure the sentinel partial and
// the error are returned; the caller then falls back to the reverse-geocoded
// street.
func (a *RoadsAdapter) Snap(ctx context.Context, lat, lon float64) (RoadInfo, error) {
	info := DefaultRoadInfo()

	url := fmt.Sprintf("%s/v1/snapToRoads?path=%f,%f&key=%s", a.snapBaseURL, lat, lon, a.apiKey)
	var snap snapResponse
	if err := a.client.getJSON(ctx, "road-snap", url, nil, &snap); err != nil {
		return info, err
	}
	if len(snap.SnappedPoints) == 0 || snap.SnappedPoints[0].PlaceID == "" {
		return info, fmt.Errorf("road-snap: no road segment near %.5f,%.5f", lat, lon)
	}

	detailsURL := fmt.Sprintf("%s/maps/api/place/details/json?place_id=%s&fields=name,types&key=%s",
		a.placeBaseURL, snap.SnappedPoints[0].PlaceID, a.apiKey)
	var details placeDetailsResponse
	if err := a.client.getJSON(ctx, "road-details", detailsURL, nil, &details); err != nil {
		return info, err
	}
	if details.Status != "OK" || details.Result.Name == "" {
		return info, fmt.Errorf("road-details: provider status %q", details.Status)
	}

	info.Name = details.Result.Name
	if t := services.ClassifyRoadTags(details.Result.Types); t != "" {
		info.Type = t
	} else {
		info.Type = services.ClassifyRoadName(details.Result.Name)
	}
	return info, nil
}
