package domain

import "strings"

// Mass units accepted for dog weights.
const (
	UnitKg  = "kg"
	UnitLbs = "lbs"
)

const lbsToKg = 0.453592

// NormalizeUnit maps accepted spellings to UnitKg or UnitLbs. It returns ""
// for anything else.
func NormalizeUnit(unit string) string {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "kg", "kgs":
		return UnitKg
	case "lb", "lbs":
		return UnitLbs
	default:
		return ""
	}
}

// ConvertWeight converts a weight value between "kg" and "lbs".
// Returns v unchanged if from == to or if the units are unrecognised.
func ConvertWeight(v float64, from, to string) float64 {
	from, to = NormalizeUnit(from), NormalizeUnit(to)
	if from == to || from == "" || to == "" {
		return v
	}
	if from == UnitLbs {
		return v * lbsToKg
	}
	return v / lbsToKg
}

// Weight is a mass reading in the unit it was entered in.
type Weight struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Kilograms returns w converted to kilograms.
func (w Weight) Kilograms() float64 {
	return ConvertWeight(w.Value, w.Unit, UnitKg)
}
