package services

import "testing"

func TestRequiredKVA(t *testing.T) {
	tests := []struct {
		name                      string
		fast, rapid, ultra        int
		fastKW, rapidKW, ultraKW  float64
		powerFactor               float64
		want                      float64
	}{
		{"reference mix", 2, 2, 1, 22, 60, 150, 0.95, 330.53},
		{"original power factor", 2, 2, 1, 22, 60, 150, 0.90, 348.89},
		{"no chargers", 0, 0, 0, 22, 60, 150, 0.95, 0},
		{"single fast", 1, 0, 0, 22, 60, 150, 0.95, 23.16},
		{"zero factor falls back", 0, 0, 1, 22, 60, 150, 0, 157.89},
	}

	for _, tt := range tests {
		got := RequiredKVA(tt.fast, tt.rapid, tt.ultra, tt.fastKW, tt.rapidKW, tt.ultraKW, tt.powerFactor)
		if got != tt.want {
			t.Errorf("%s: RequiredKVA = %.2f; want %.2f", tt.name, got, tt.want)
		}
	}
}

func TestRequiredKVAScalesLinearly(t *testing.T) {
	one := RequiredKVA(1, 0, 0, 22, 60, 150, 0.95)
	three := RequiredKVA(3, 0, 0, 22, 60, 150, 0.95)

	if one <= 0 {
		t.Fatalf("expected positive kVA, got %.2f", one)
	}
	if diff := three - 3*one; diff > 0.02 || diff < -0.02 {
		t.Errorf("expected linear scaling: 1 charger = %.2f, 3 chargers = %.2f", one, three)
	}
}
