package adapters

import (
	"context"
	"fmt"
)

// ElevationAdapter wraps the open-elevation lookup endpoint.
type ElevationAdapter struct {
	client  *Client
	baseURL string
}

// NewElevationAdapter creates an ElevationAdapter against the given base URL.
func NewElevationAdapter(client *Client, baseURL string) *ElevationAdapter {
	return &ElevationAdapter{client: client, baseURL: baseURL}
}

type elevationResponse struct {
	Results []struct {
		Elevation float64 `json:"elevation"`
	} `json:"results"`
}

// Elevation fetches the site's elevation in metres above sea level.
func (a *ElevationAdapter) Elevation(ctx context.Context, lat, lon float64) (float64, error) {
	url := fmt.Sprintf("%s/api/v1/lookup?locations=%f,%f", a.baseURL, lat, lon)
	var resp elevationResponse
	if err := a.client.getJSON(ctx, "elevation", url, nil, &resp); err != nil {
		return 0, err
	}
	if len(resp.Results) == 0 {
		return 0, fmt.Errorf("elevation: empty result for %.5f,%.5f", lat, lon)
	}
	return resp.Results[0].Elevation, nil
}
