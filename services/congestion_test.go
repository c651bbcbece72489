package services

import (
	"testing"

	"github.com/kaitlin-del/SiteSheets/models"
)

func TestCongestionLevel(t *testing.T) {
	tests := []struct {
		current, freeFlow float64
		want              string
	}{
		{45, 50, CongestionLow},    // ratio 0.9
		{35, 50, CongestionMedium}, // ratio 0.7
		{15, 50, CongestionHigh},   // ratio 0.3
		{43, 50, CongestionLow},    // ratio 0.86, just above the Low cut
		{30, 50, CongestionHigh},   // ratio 0.60 is not > 0.60
		{50, 0, models.NA},         // free-flow missing
		{-1, 50, models.NA},        // current speed missing
	}

	for _, tt := range tests {
		got := CongestionLevel(tt.current, tt.freeFlow)
		if got != tt.want {
			t.Errorf("CongestionLevel(%.0f, %.0f) = %q; want %q", tt.current, tt.freeFlow, got, tt.want)
		}
	}
}
