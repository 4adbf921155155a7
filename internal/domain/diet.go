// Package domain contains the core diet entities, the calculator and the
// ports used by the application layer.
package domain

import (
	"fmt"
	"strings"
)

// ActivityLevel is a coarse classification of a dog's daily energy
// expenditure.
type ActivityLevel int

const (
	ActivityLow ActivityLevel = iota + 1
	ActivityModerate
	ActivityHigh
)

// ActivityLevels lists every level in menu order.
var ActivityLevels = []ActivityLevel{ActivityLow, ActivityModerate, ActivityHigh}

// Multiplier returns the factor applied to baseline calories. It is 0 for a
// level that is not Valid, so an unset level never passes for Moderate.
func (a ActivityLevel) Multiplier() float64 {
	switch a {
	case ActivityLow:
		return 0.8
	case ActivityModerate:
		return 1.0
	case ActivityHigh:
		return 1.2
	default:
		return 0
	}
}

func (a ActivityLevel) String() string {
	switch a {
	case ActivityLow:
		return "low"
	case ActivityModerate:
		return "moderate"
	case ActivityHigh:
		return "high"
	default:
		return fmt.Sprintf("ActivityLevel(%d)", int(a))
	}
}

// MarshalText encodes the level by name.
func (a ActivityLevel) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("invalid activity level %d", int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText decodes a level name.
func (a *ActivityLevel) UnmarshalText(b []byte) error {
	v, ok := ParseActivityLevel(string(b))
	if !ok {
		return fmt.Errorf("unknown activity level %q", string(b))
	}
	*a = v
	return nil
}

// Valid reports whether a is one of the three known levels.
func (a ActivityLevel) Valid() bool {
	return a >= ActivityLow && a <= ActivityHigh
}

// ParseActivityLevel maps a level name to its ActivityLevel.
func ParseActivityLevel(name string) (ActivityLevel, bool) {
	for _, a := range ActivityLevels {
		if strings.EqualFold(strings.TrimSpace(name), a.String()) {
			return a, true
		}
	}
	return 0, false
}

// DietProfile holds the validated inputs for one calculation. Weights are in
// kilograms, food amounts in cups per day.
type DietProfile struct {
	CurrentWeightKg float64       `json:"currentWeightKg"`
	GoalWeightKg    float64       `json:"goalWeightKg"`
	Activity        ActivityLevel `json:"activity"`
	CurrentFoodCups float64       `json:"currentFoodCups"`
}

// TitrationWeeks is the number of steps in a titration plan.
const TitrationWeeks = 4

// TitrationWeek is the daily food amount for one week of a plan.
type TitrationWeek struct {
	Week int     `json:"week"`
	Cups float64 `json:"cups"`
}

// TitrationPlan moves a dog from its current food amount to TargetCups over
// TitrationWeeks weeks.
type TitrationPlan struct {
	Weeks      []TitrationWeek `json:"weeks"`
	TargetCups float64         `json:"targetCups"`
}
