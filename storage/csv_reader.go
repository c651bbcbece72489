package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/kaitlin-del/SiteSheets/models"
)

// Column aliases accepted in uploaded batch files, all case-insensitive.
var (
	latAliases   = []string{"latitude", "lat"}
	lonAliases   = []string{"longitude", "lon", "lng"}
	fastAliases  = []string{"fast", "fast_count", "fast chargers"}
	rapidAliases = []string{"rapid", "rapid_count", "rapid chargers"}
	ultraAliases = []string{"ultra", "ultra_count", "ultra chargers"}
)

// ReadQueries parses an uploaded batch table into site queries. Missing
// latitude/longitude columns reject the whole file; a malformed value in a
// row only poisons that row (its query carries NaN and fails validation
// downstream, producing a failure marker in the right position).
func ReadQueries(r io.Reader, defaults models.SiteQuery) ([]models.SiteQuery, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("batch file: read header: %w", err)
	}

	latCol := findColumn(header, latAliases)
	lonCol := findColumn(header, lonAliases)
	if latCol < 0 || lonCol < 0 {
		return nil, fmt.Errorf("batch file: required latitude/longitude columns not found in header %v", header)
	}
	fastCol := findColumn(header, fastAliases)
	rapidCol := findColumn(header, rapidAliases)
	ultraCol := findColumn(header, ultraAliases)

	var queries []models.SiteQuery
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("batch file: read row %d: %w", len(queries)+2, err)
		}

		q := defaults
		q.Latitude = parseCoord(row, latCol)
		q.Longitude = parseCoord(row, lonCol)
		q.FastCount = parseCount(row, fastCol, defaults.FastCount)
		q.RapidCount = parseCount(row, rapidCol, defaults.RapidCount)
		q.UltraCount = parseCount(row, ultraCol, defaults.UltraCount)
		queries = append(queries, q)
	}
	return queries, nil
}

// findColumn returns the index of the first header cell matching an alias.
func findColumn(header []string, aliases []string) int {
	for i, cell := range header {
		cell = strings.ToLower(strings.TrimSpace(cell))
		for _, alias := range aliases {
			if cell == alias {
				return i
			}
		}
	}
	return -1
}

// parseCoord reads a coordinate cell; anything unparsable becomes NaN so the
// row fails validation rather than silently analyzing coordinate zero.
func parseCoord(row []string, col int) float64 {
	if col < 0 || col >= len(row) {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// parseCount reads an optional charger-count cell.
func parseCount(row []string, col int, fallback int) int {
	if col < 0 || col >= len(row) {
		return fallback
	}
	v, err := strconv.Atoi(strings.TrimSpace(row[col]))
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
