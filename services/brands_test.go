package services

import "testing"

func TestExtractBrand(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Tesla Supercharger - Kings Cross", "Tesla"},
		{"BP Pulse Rapid 01", "BP Pulse"}, // must match before the shorter "bp" key
		{"BP Garage Forecourt", "BP"},
		{"Shell Recharge Fulham Road", "Shell Recharge"},
		{"InstaVolt - Costa Drive Thru", "InstaVolt"},
		{"Xyzcharge", "Xyzcharge"},
		{"Acme Energy Hub", "Acme Energy"},
		{"", "Other"},
	}

	for _, tt := range tests {
		got := ExtractBrand(tt.name)
		if got != tt.want {
			t.Errorf("ExtractBrand(%q) = %q; want %q", tt.name, got, tt.want)
		}
	}
}
