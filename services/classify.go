package services

import (
	"regexp"
	"strings"
)

// Road type labels.
const (
	RoadMotorway        = "Motorway"
	RoadARoad           = "A Road"
	RoadBRoad           = "B Road"
	RoadDualCarriageway = "Dual Carriageway"
	RoadRoundabout      = "Roundabout"
	RoadLocal           = "Local Road"
)

var (
	// motorwayRegexp matches motorway numbering such as "M25" or "M6 Toll".
	motorwayRegexp = regexp.MustCompile(`(?i)^m\d+`)
	// aRoadRegexp matches "A40", "A1(M)" and similar.
	aRoadRegexp = regexp.MustCompile(`(?i)^a\d+`)
	// bRoadRegexp matches "B1234" style numbering.
	bRoadRegexp = regexp.MustCompile(`(?i)^b\d+`)
)

// roadTagTypes maps provider category tags to road types. Checked before any
// lexical heuristics when the snap service supplies tags.
var roadTagTypes = map[string]string{
	"motorway":         RoadMotorway,
	"trunk":            RoadARoad,
	"primary":          RoadARoad,
	"secondary":        RoadBRoad,
	"tertiary":         RoadLocal,
	"residential":      RoadLocal,
	"unclassified":     RoadLocal,
	"living_street":    RoadLocal,
	"service":          RoadLocal,
	"roundabout":       RoadRoundabout,
	"dual_carriageway": RoadDualCarriageway,
}

// ClassifyRoadTags derives a road type from provider category tags. Returns
// "" when no tag is recognized so the caller can fall back to the road name.
func ClassifyRoadTags(tags []string) string {
	for _, tag := range tags {
		if t, ok := roadTagTypes[strings.ToLower(strings.TrimSpace(tag))]; ok {
			return t
		}
	}
	return ""
}

// ClassifyRoadName infers a road type from lexical patterns in the name:
// motorway numbering, A/B road prefixes, carriageway and roundabout keywords.
// Anything unrecognized is a Local Road.
func ClassifyRoadName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return RoadLocal
	}
	lower := strings.ToLower(name)

	switch {
	case motorwayRegexp.MatchString(name), strings.Contains(lower, "motorway"):
		return RoadMotorway
	case aRoadRegexp.MatchString(name):
		return RoadARoad
	case bRoadRegexp.MatchString(name):
		return RoadBRoad
	case strings.Contains(lower, "carriageway"):
		return RoadDualCarriageway
	case strings.Contains(lower, "roundabout"):
		return RoadRoundabout
	default:
		return RoadLocal
	}
}

// Charger power tiers.
const (
	PowerFast       = "Fast"
	PowerRapid      = "Rapid"
	PowerUltraRapid = "Ultra Rapid"
	PowerUnknown    = "Unknown"
)

var (
	ultraKeywords = []string{"ultra", "350kw", "350 kw", "hpc", "high power"}
	rapidKeywords = []string{"rapid", "supercharger", "dc", "ccs", "chademo", "50kw", "50 kw"}
	fastKeywords  = []string{"fast", "ac", "type 2", "22kw", "22 kw", "7kw", "7 kw"}
)

// ClassifyChargerPower tiers a station by numeric rating when available,
// otherwise by keyword heuristics on the name. Deterministic for a given
// name/rating pair.
func ClassifyChargerPower(name string, ratedKW float64) string {
	if ratedKW > 0 {
		switch {
		case ratedKW <= 22:
			return PowerFast
		case ratedKW <= 150:
			return PowerRapid
		default:
			return PowerUltraRapid
		}
	}

	lower := strings.ToLower(name)
	for _, kw := range ultraKeywords {
		if strings.Contains(lower, kw) {
			return PowerUltraRapid
		}
	}
	for _, kw := range rapidKeywords {
		if strings.Contains(lower, kw) {
			return PowerRapid
		}
	}
	for _, kw := range fastKeywords {
		if strings.Contains(lower, kw) {
			return PowerFast
		}
	}
	return PowerUnknown
}
