// Package services holds the pure derived calculations: power sizing,
// congestion bucketing, road and charger classification, brand extraction and
// amenity statistics. Nothing in here performs I/O.
package services

import "math"

// DefaultPowerFactor is used when the caller supplies a non-positive factor.
// The reference deployments disagree on 0.90 vs 0.95; the factor is therefore
// configurable and this is only the fallback.
const DefaultPowerFactor = 0.95

// RequiredKVA converts a charger mix into the site's required supply capacity.
// The result is rounded to two decimal places and scales linearly with counts.
func RequiredKVA(fast, rapid, ultra int, fastKW, rapidKW, ultraKW, powerFactor float64) float64 {
	if powerFactor <= 0 {
		powerFactor = DefaultPowerFactor
	}
	totalKW := float64(fast)*fastKW + float64(rapid)*rapidKW + float64(ultra)*ultraKW
	return math.Round(totalKW/powerFactor*100) / 100
}
