package services

import "testing"

func TestClassifyRoadName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"M25", RoadMotorway},
		{"M6 Toll", RoadMotorway},
		{"North Wales Motorway", RoadMotorway},
		{"A40", RoadARoad},
		{"A1(M)", RoadARoad},
		{"B1234", RoadBRoad},
		{"Eastern Dual Carriageway", RoadDualCarriageway},
		{"Hanger Lane Roundabout", RoadRoundabout},
		{"High Street", RoadLocal},
		{"Church Lane", RoadLocal},
		{"", RoadLocal},
	}

	for _, tt := range tests {
		got := ClassifyRoadName(tt.name)
		if got != tt.want {
			t.Errorf("ClassifyRoadName(%q) = %q; want %q", tt.name, got, tt.want)
		}
	}
}

func TestClassifyRoadTags(t *testing.T) {
	tests := []struct {
		tags []string
		want string
	}{
		{[]string{"motorway"}, RoadMotorway},
		{[]string{"route", "trunk"}, RoadARoad},
		{[]string{"secondary"}, RoadBRoad},
		{[]string{"residential"}, RoadLocal},
		{[]string{"route", "geocode"}, ""},
		{nil, ""},
	}

	for _, tt := range tests {
		got := ClassifyRoadTags(tt.tags)
		if got != tt.want {
			t.Errorf("ClassifyRoadTags(%v) = %q; want %q", tt.tags, got, tt.want)
		}
	}
}

func TestClassifyChargerPower(t *testing.T) {
	tests := []struct {
		name    string
		ratedKW float64
		want    string
	}{
		{"anything", 7, PowerFast},
		{"anything", 22, PowerFast},
		{"anything", 50, PowerRapid},
		{"anything", 150, PowerRapid},
		{"anything", 350, PowerUltraRapid},
		{"Ionity Ultra Hub", 0, PowerUltraRapid},
		{"Rapid DC Charger", 0, PowerRapid},
		{"Tesla Supercharger", 0, PowerRapid},
		{"AC Type 2 Bay", 0, PowerFast},
		{"Unnamed Unit", 0, PowerUnknown},
	}

	for _, tt := range tests {
		got := ClassifyChargerPower(tt.name, tt.ratedKW)
		if got != tt.want {
			t.Errorf("ClassifyChargerPower(%q, %.0f) = %q; want %q", tt.name, tt.ratedKW, got, tt.want)
		}
	}
}

func TestClassifyChargerPowerIdempotent(t *testing.T) {
	first := ClassifyChargerPower("Gridserve High Power", 0)
	second := ClassifyChargerPower("Gridserve High Power", 0)
	if first != second {
		t.Errorf("classification not stable: %q then %q", first, second)
	}
}
