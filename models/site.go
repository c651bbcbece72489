package models

import "fmt"

// NA is the sentinel rendered for any value an upstream source could not
// provide. Downstream consumers (CSV, JSON, UI) never see an absent field.
const NA = "N/A"

// SiteQuery is the input for analyzing one candidate site.
type SiteQuery struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	FastCount  int `json:"fast_count"`
	RapidCount int `json:"rapid_count"`
	UltraCount int `json:"ultra_count"`

	FastKW  float64 `json:"fast_kw"`
	RapidKW float64 `json:"rapid_kw"`
	UltraKW float64 `json:"ultra_kw"`

	CompetitorRadiusM int `json:"competitor_radius_m"`
	AmenitiesRadiusM  int `json:"amenities_radius_m"`
}

// Validate checks a query before any network call is made. The range checks
// are written so that NaN coordinates (from malformed batch rows) also fail.
func (q SiteQuery) Validate() error {
	if !(q.Latitude >= -90 && q.Latitude <= 90) {
		return fmt.Errorf("latitude %v out of range [-90, 90]", q.Latitude)
	}
	if !(q.Longitude >= -180 && q.Longitude <= 180) {
		return fmt.Errorf("longitude %v out of range [-180, 180]", q.Longitude)
	}
	if q.FastCount < 0 || q.RapidCount < 0 || q.UltraCount < 0 {
		return fmt.Errorf("charger counts must be non-negative")
	}
	if q.FastKW < 0 || q.RapidKW < 0 || q.UltraKW < 0 {
		return fmt.Errorf("charger power ratings must be non-negative")
	}
	if q.CompetitorRadiusM < 0 || q.AmenitiesRadiusM < 0 {
		return fmt.Errorf("search radii must be non-negative")
	}
	return nil
}

// CompetitorStation is one charging station discovered near a site.
type CompetitorStation struct {
	PlaceID    string  `json:"place_id"`
	Name       string  `json:"name"`
	Brand      string  `json:"brand"`
	PowerClass string  `json:"power_class"`
	Rating     float64 `json:"rating"`
	Address    string  `json:"address"`
	Phone      string  `json:"phone"`
	PhotoRef   string  `json:"photo_ref"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	DistanceM  float64 `json:"distance_m"`
}

// SiteRecord is the complete, flat result of analyzing one site. Every field
// defaults to an explicit sentinel so consumers never branch on absence.
type SiteRecord struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	Easting  string `json:"easting"`
	Northing string `json:"northing"`

	Postcode     string `json:"postcode"`
	Ward         string `json:"ward"`
	District     string `json:"district"`
	County       string `json:"county"`
	Parish       string `json:"parish"`
	Constituency string `json:"constituency"`
	Region       string `json:"region"`
	Country      string `json:"country"`
	Street       string `json:"street"`
	Address      string `json:"address"`
	Elevation    string `json:"elevation_m"`

	FastCount   int     `json:"fast_count"`
	RapidCount  int     `json:"rapid_count"`
	UltraCount  int     `json:"ultra_count"`
	RequiredKVA float64 `json:"required_kva"`

	RoadName        string `json:"road_name"`
	RoadType        string `json:"road_type"`
	NearestRoadName string `json:"nearest_road_name"`
	NearestRoadType string `json:"nearest_road_type"`

	CurrentSpeedKPH  string `json:"current_speed_kph"`
	FreeFlowSpeedKPH string `json:"free_flow_speed_kph"`
	CongestionLevel  string `json:"congestion_level"`

	AmenitySummary string             `json:"amenity_summary"`
	AmenityCounts  map[string]int     `json:"amenity_counts"`
	AmenityShares  map[string]float64 `json:"amenity_shares"`
	AmenityTotal   int                `json:"amenity_total"`

	CompetitorCount int                 `json:"competitor_count"`
	CompetitorNames []string            `json:"competitor_names"`
	Competitors     []CompetitorStation `json:"competitors"`

	MapURL        string `json:"map_url"`
	SearchURL     string `json:"search_url"`
	DirectionsURL string `json:"directions_url"`
	StreetViewURL string `json:"street_view_url"`

	// Warnings lists the sub-operations that failed while building this
	// record. An empty slice means every source responded.
	Warnings []string `json:"warnings"`
}

// NewSiteRecord returns a record with every data field at its sentinel,
// carrying over the query's coordinates and charger counts.
func NewSiteRecord(q SiteQuery) *SiteRecord {
	return &SiteRecord{
		Latitude:  q.Latitude,
		Longitude: q.Longitude,

		Easting:  NA,
		Northing: NA,

		Postcode:     NA,
		Ward:         NA,
		District:     NA,
		County:       NA,
		Parish:       NA,
		Constituency: NA,
		Region:       NA,
		Country:      NA,
		Street:       NA,
		Address:      NA,
		Elevation:    NA,

		FastCount:  q.FastCount,
		RapidCount: q.RapidCount,
		UltraCount: q.UltraCount,

		RoadName:        NA,
		RoadType:        NA,
		NearestRoadName: NA,
		NearestRoadType: NA,

		CurrentSpeedKPH:  NA,
		FreeFlowSpeedKPH: NA,
		CongestionLevel:  NA,

		AmenitySummary: NA,
		AmenityCounts:  map[string]int{},
		AmenityShares:  map[string]float64{},

		CompetitorNames: []string{},
		Competitors:     []CompetitorStation{},

		MapURL:        NA,
		SearchURL:     NA,
		DirectionsURL: NA,
		StreetViewURL: NA,

		Warnings: []string{},
	}
}

// BatchItem is one row of a batch result: either a completed record or a
// failure marker carrying the input coordinates and an error description.
type BatchItem struct {
	Index     int         `json:"index"`
	Latitude  float64     `json:"latitude"`
	Longitude float64     `json:"longitude"`
	Record    *SiteRecord `json:"record,omitempty"`
	Err       string      `json:"error,omitempty"`
}

// Failed reports whether this row produced a failure marker.
func (b BatchItem) Failed() bool {
	return b.Record == nil
}
