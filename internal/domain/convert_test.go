package domain_test

import (
	"math"
	"testing"

	"dogdiet/internal/domain"
)

func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestConvertWeight(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		from, to string
		want     float64
	}{
		{"lbs to kg", 66, "lbs", "kg", 29.937072},
		{"lb alias", 66, "lb", "kg", 29.937072},
		{"kg to lbs", 0.453592, "kg", "lbs", 1},
		{"same unit kg", 30, "kg", "kg", 30},
		{"mixed case", 10, "LBS", "Kg", 4.53592},
		{"unknown units", 50, "st", "kg", 50},
		{"zero value", 0, "lbs", "kg", 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.ConvertWeight(tc.value, tc.from, tc.to)
			if !almostEqual(got, tc.want, 1e-9) {
				t.Errorf("ConvertWeight(%v, %q, %q) = %v; want %v",
					tc.value, tc.from, tc.to, got, tc.want)
			}
		})
	}
}

func TestNormalizeUnit(t *testing.T) {
	tests := map[string]string{
		"kg":    domain.UnitKg,
		" KG ":  domain.UnitKg,
		"lbs":   domain.UnitLbs,
		"lb":    domain.UnitLbs,
		"stone": "",
		"":      "",
	}
	for in, want := range tests {
		if got := domain.NormalizeUnit(in); got != want {
			t.Errorf("NormalizeUnit(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestWeightKilograms(t *testing.T) {
	w := domain.Weight{Value: 66, Unit: domain.UnitLbs}
	if got := w.Kilograms(); !almostEqual(got, 29.937072, 1e-9) {
		t.Fatalf("Kilograms() = %v; want 29.937072", got)
	}
	w = domain.Weight{Value: 30, Unit: domain.UnitKg}
	if got := w.Kilograms(); got != 30 {
		t.Fatalf("Kilograms() = %v; want 30", got)
	}
}
