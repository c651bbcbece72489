package services

import "github.com/kaitlin-del/SiteSheets/models"

// Congestion buckets derived from the current/free-flow speed ratio.
const (
	CongestionLow    = "Low"
	CongestionMedium = "Medium"
	CongestionHigh   = "High"
)

// CongestionLevel buckets a current-speed/free-flow-speed pair. Ratios above
// 0.85 mean traffic is moving freely; below 0.60 the segment is congested.
// Undefined (missing speeds or zero free-flow) yields the sentinel.
func CongestionLevel(currentSpeed, freeFlowSpeed float64) string {
	if freeFlowSpeed <= 0 || currentSpeed < 0 {
		return models.NA
	}
	ratio := currentSpeed / freeFlowSpeed
	switch {
	case ratio > 0.85:
		return CongestionLow
	case ratio > 0.60:
		return CongestionMedium
	default:
		return CongestionHigh
	}
}
