package adapters

import (
	"context"
	"fmt"

	"github.com/kaitlin-del/SiteSheets/models"
)

// AddressInfo is the normalized reverse-geocoding partial. Its postcode is
// the primary postcode source and takes precedence over the administrative
// lookup's postcode during aggregation.
type AddressInfo struct {
	Street   string
	Address  string
	Postcode string
}

// DefaultAddressInfo returns the all-sentinel partial.
func DefaultAddressInfo() AddressInfo {
	return AddressInfo{Street: models.NA, Address: models.NA, Postcode: models.NA}
}

// GeocodeAdapter wraps the Nominatim reverse-geocoding endpoint.
type GeocodeAdapter struct {
	client  *Client
	baseURL string
}

// NewGeocodeAdapter creates a GeocodeAdapter against the given base URL.
func NewGeocodeAdapter(client *Client, baseURL string) *GeocodeAdapter {
	return &GeocodeAdapter{client: client, baseURL: baseURL}
}

type nominatimResponse struct {
	DisplayName string `json:"display_name"`
	Address     struct {
		Road     string `json:"road"`
		Postcode string `json:"postcode"`
	} `json:"address"`
	Error string `json:"error"`
}

// Reverse resolves the street, formatted address and postal code for the
// coordinate. On any failure it returns the sentinel partial and the error.
func (a *GeocodeAdapter) Reverse(ctx context.Context, lat, lon float64) (AddressInfo, error) {
	info := DefaultAddressInfo()

	url := fmt.Sprintf("%s/reverse?format=json&lat=%f&lon=%f&zoom=18&addressdetails=1", a.baseURL, lat, lon)
	var resp nominatimResponse
	if err := a.client.getJSON(ctx, "geocode", url, nil, &resp); err != nil {
		return info, err
	}
	if resp.Error != "" {
		return info, fmt.Errorf("geocode: provider error: %s", resp.Error)
	}

	info.Street = orNA(resp.Address.Road)
	info.Address = orNA(resp.DisplayName)
	info.Postcode = orNA(resp.Address.Postcode)
	return info, nil
}
