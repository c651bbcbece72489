package services

import (
	"fmt"
	"math"
	"strings"
)

// AmenityCategories is the fixed set of place categories counted around a
// site, in display order.
var AmenityCategories = []string{"supermarket", "restaurant", "cafe", "shopping_mall", "lodging"}

const (
	maxExamplesPerCategory = 3
)

// AmenityStats summarizes nearby places by category.
type AmenityStats struct {
	Counts   map[string]int
	Shares   map[string]float64
	Examples map[string][]string
	Total    int
	Summary  string
}

// BuildAmenityStats counts the given place names per category, excluding any
// name that matches an EV-charging keyword so competitor stations are not
// double-counted as amenities. Example lists are capped per category; shares
// are each category's percentage of the total hits.
func BuildAmenityStats(byCategory map[string][]string, evKeywords []string) AmenityStats {
	stats := AmenityStats{
		Counts:   make(map[string]int),
		Shares:   make(map[string]float64),
		Examples: make(map[string][]string),
	}

	for _, category := range AmenityCategories {
		for _, name := range byCategory[category] {
			if IsEVLocation(name, evKeywords) {
				continue
			}
			stats.Counts[category]++
			stats.Total++
			if len(stats.Examples[category]) < maxExamplesPerCategory {
				stats.Examples[category] = append(stats.Examples[category], name)
			}
		}
	}

	if stats.Total > 0 {
		for category, count := range stats.Counts {
			share := float64(count) / float64(stats.Total) * 100
			stats.Shares[category] = math.Round(share*10) / 10
		}
	}

	stats.Summary = summarize(stats.Counts)
	return stats
}

// IsEVLocation reports whether a place name matches any EV-charging keyword.
func IsEVLocation(name string, evKeywords []string) bool {
	lower := strings.ToLower(name)
	for _, kw := range evKeywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// summarize renders the non-zero category counts as a stable, readable line.
func summarize(counts map[string]int) string {
	parts := make([]string, 0, len(counts))
	for _, category := range AmenityCategories {
		if counts[category] > 0 {
			parts = append(parts, fmt.Sprintf("%s: %d", category, counts[category]))
		}
	}
	if len(parts) == 0 {
		return "none found"
	}
	return strings.Join(parts, ", ")
}
