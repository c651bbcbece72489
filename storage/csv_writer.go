package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/kaitlin-del/SiteSheets/models"
	"github.com/kaitlin-del/SiteSheets/services"
)

// Header is the fixed CSV schema: a direct flattening of SiteRecord fields
// plus the row status pair. Sentinels render as their stable string form.
var Header = []string{
	"Latitude", "Longitude", "Easting", "Northing",
	"Postcode", "Ward", "District", "County", "Parish", "Constituency", "Region", "Country",
	"Street", "Address", "Elevation (m)",
	"Fast Chargers", "Rapid Chargers", "Ultra Chargers", "Required kVA",
	"Road Name", "Road Type", "Nearest Road Name", "Nearest Road Type",
	"Current Speed (kph)", "Free Flow Speed (kph)", "Congestion Level",
	"Amenity Summary", "Amenity Counts", "Amenity Shares (%)", "Amenity Total",
	"Competitor Count", "Competitor Names",
	"Map URL", "Search URL", "Directions URL", "Street View URL",
	"Status", "Error",
}

// RecordRow flattens one batch item into the CSV schema. This is the single
// rendering point, so the displayed value of every field is stable.
func RecordRow(item models.BatchItem) []string {
	if item.Failed() {
		row := make([]string, len(Header))
		for i := range row {
			row[i] = models.NA
		}
		row[0] = formatCoord(item.Latitude)
		row[1] = formatCoord(item.Longitude)
		row[len(row)-2] = "error"
		row[len(row)-1] = item.Err
		return row
	}

	r := item.Record
	return []string{
		formatCoord(r.Latitude),
		formatCoord(r.Longitude),
		r.Easting,
		r.Northing,
		r.Postcode, r.Ward, r.District, r.County, r.Parish, r.Constituency, r.Region, r.Country,
		r.Street, r.Address, r.Elevation,
		strconv.Itoa(r.FastCount), strconv.Itoa(r.RapidCount), strconv.Itoa(r.UltraCount),
		strconv.FormatFloat(r.RequiredKVA, 'f', 2, 64),
		r.RoadName, r.RoadType, r.NearestRoadName, r.NearestRoadType,
		r.CurrentSpeedKPH, r.FreeFlowSpeedKPH, r.CongestionLevel,
		r.AmenitySummary, formatCounts(r.AmenityCounts), formatShares(r.AmenityShares), strconv.Itoa(r.AmenityTotal),
		strconv.Itoa(r.CompetitorCount), strings.Join(r.CompetitorNames, "; "),
		r.MapURL, r.SearchURL, r.DirectionsURL, r.StreetViewURL,
		"ok", "",
	}
}

// formatCounts renders per-category counts in the fixed category order so
// the displayed value is stable.
func formatCounts(counts map[string]int) string {
	parts := make([]string, 0, len(counts))
	for _, category := range services.AmenityCategories {
		if v, ok := counts[category]; ok {
			parts = append(parts, fmt.Sprintf("%s=%d", category, v))
		}
	}
	if len(parts) == 0 {
		return models.NA
	}
	return strings.Join(parts, "; ")
}

// formatShares renders per-category percentage shares in the fixed order.
func formatShares(shares map[string]float64) string {
	parts := make([]string, 0, len(shares))
	for _, category := range services.AmenityCategories {
		if v, ok := shares[category]; ok {
			parts = append(parts, fmt.Sprintf("%s=%.1f", category, v))
		}
	}
	if len(parts) == 0 {
		return models.NA
	}
	return strings.Join(parts, "; ")
}

// formatCoord renders a coordinate with six decimal places; NaN (malformed
// batch rows) renders as the sentinel.
func formatCoord(v float64) string {
	if v != v {
		return models.NA
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// CSVWriter writes site results to the fixed CSV schema.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	writer *csv.Writer
	closer io.Closer
}

// NewCSVWriter wraps w, writing the header row immediately.
func NewCSVWriter(w io.Writer) (*CSVWriter, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	cw.Flush()
	return &CSVWriter{writer: cw}, nil
}

// OpenCSVFile creates (or truncates) the CSV file at the given path.
// Intermediate directories are created automatically.
func OpenCSVFile(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}
	cw, err := NewCSVWriter(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	cw.closer = f
	return cw, nil
}

// Append writes one batch item as a row.
func (c *CSVWriter) Append(item models.BatchItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.writer.Write(RecordRow(item)); err != nil {
		return fmt.Errorf("csv: write row: %w", err)
	}
	c.writer.Flush()
	return c.writer.Error()
}

// AppendAll writes a whole batch in order.
func (c *CSVWriter) AppendAll(items []models.BatchItem) error {
	for _, item := range items {
		if err := c.Append(item); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes and closes the underlying file, if any.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	if c.closer != nil {
		return c.closer.Close()
	}
	return c.writer.Error()
}
