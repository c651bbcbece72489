package storage

import (
	geojson "github.com/paulmach/go.geojson"

	"github.com/kaitlin-del/SiteSheets/models"
)

// SiteFeatureCollection renders a site record as GeoJSON for the external
// map layer: one feature for the site itself, one per competitor station.
func SiteFeatureCollection(record *models.SiteRecord) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	site := geojson.NewPointFeature([]float64{record.Longitude, record.Latitude})
	site.SetProperty("kind", "site")
	site.SetProperty("postcode", record.Postcode)
	site.SetProperty("street", record.Street)
	site.SetProperty("required_kva", record.RequiredKVA)
	site.SetProperty("road_type", record.RoadType)
	site.SetProperty("congestion_level", record.CongestionLevel)
	site.SetProperty("competitor_count", record.CompetitorCount)
	fc.AddFeature(site)

	for _, c := range record.Competitors {
		f := geojson.NewPointFeature([]float64{c.Longitude, c.Latitude})
		f.SetProperty("kind", "competitor")
		f.SetProperty("name", c.Name)
		f.SetProperty("brand", c.Brand)
		f.SetProperty("power_class", c.PowerClass)
		f.SetProperty("rating", c.Rating)
		f.SetProperty("distance_m", c.DistanceM)
		fc.AddFeature(f)
	}
	return fc
}
