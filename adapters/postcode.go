package adapters

import (
	"context"
	"fmt"

	"github.com/kaitlin-del/SiteSheets/models"
)

// AdminInfo is the normalized administrative-lookup partial.
type AdminInfo struct {
	Postcode     string
	Ward         string
	District     string
	County       string
	Parish       string
	Constituency string
	Region       string
	Country      string
}

// DefaultAdminInfo returns the all-sentinel partial.
func DefaultAdminInfo() AdminInfo {
	return AdminInfo{
		Postcode:     models.NA,
		Ward:         models.NA,
		District:     models.NA,
		County:       models.NA,
		Parish:       models.NA,
		Constituency: models.NA,
		Region:       models.NA,
		Country:      models.NA,
	}
}

// PostcodeAdapter wraps the postcodes.io reverse lookup.
type PostcodeAdapter struct {
	client  *Client
	baseURL string
}

// NewPostcodeAdapter creates a PostcodeAdapter against the given base URL.
func NewPostcodeAdapter(client *Client, baseURL string) *PostcodeAdapter {
	return &PostcodeAdapter{client: client, baseURL: baseURL}
}

type postcodeResponse struct {
	Status int `json:"status"`
	Result []struct {
		Postcode      string `json:"postcode"`
		AdminWard     string `json:"admin_ward"`
		AdminDistrict string `json:"admin_district"`
		AdminCounty   string `json:"admin_county"`
		Parish        string `json:"parish"`
		Constituency  string `json:"parliamentary_constituency"`
		Region        string `json:"region"`
		Country       string `json:"country"`
	} `json:"result"`
}

// Lookup resolves the postcode and administrative units containing the
// coordinate. On any failure it returns the sentinel partial and the error.
func (a *PostcodeAdapter) Lookup(ctx context.Context, lat, lon float64) (AdminInfo, error) {
	info := DefaultAdminInfo()

	url := fmt.Sprintf("%s/postcodes?lon=%f&lat=%f", a.baseURL, lon, lat)
	var resp postcodeResponse
	if err := a.client.getJSON(ctx, "postcode", url, nil, &resp); err != nil {
		return info, err
	}
	if resp.Status != 200 || len(resp.Result) == 0 {
		return info, fmt.Errorf("postcode: provider status %d with %d results", resp.Status, len(resp.Result))
	}

	r := resp.Result[0]
	info.Postcode = orNA(r.Postcode)
	info.Ward = orNA(r.AdminWard)
	info.District = orNA(r.AdminDistrict)
	info.County = orNA(r.AdminCounty)
	info.Parish = orNA(r.Parish)
	info.Constituency = orNA(r.Constituency)
	info.Region = orNA(r.Region)
	info.Country = orNA(r.Country)
	return info, nil
}

// orNA substitutes the sentinel for empty provider fields.
func orNA(s string) string {
	if s == "" {
		return models.NA
	}
	return s
}
