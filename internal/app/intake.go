package app

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"dogdiet/internal/domain"
)

// ErrInvalidInput is matched by every *InputError.
var ErrInvalidInput = errors.New("invalid input")

// Input fields named in InputError.
const (
	FieldCurrentWeight  = "currentWeight"
	FieldGoalWeight     = "goalWeight"
	FieldUnit           = "unit"
	FieldActivity       = "activity"
	FieldCurrentFood    = "currentFoodCups"
	FieldCaloriesPerCup = "caloriesPerCup"
)

// InputError describes a rejected input value.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return e.Field + ": " + e.Reason
}

// Is reports whether target is ErrInvalidInput.
func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func inputErrorf(field, format string, args ...any) *InputError {
	return &InputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ParseWeight parses "<number> <unit>" where unit is kg or lbs.
func ParseWeight(field, raw string) (domain.Weight, error) {
	parts := strings.Fields(strings.ToLower(raw))
	if len(parts) != 2 {
		return domain.Weight{}, inputErrorf(field, "expected a number followed by 'kg' or 'lbs', e.g. '30 kg'")
	}
	v, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return domain.Weight{}, inputErrorf(field, "%q is not a valid number", parts[0])
	}
	return ValidateWeight(field, v, parts[1])
}

// ValidateWeight checks an already parsed weight and its unit.
func ValidateWeight(field string, v float64, unit string) (domain.Weight, error) {
	u := domain.NormalizeUnit(unit)
	if u == "" {
		return domain.Weight{}, inputErrorf(FieldUnit, "unit must be 'kg' or 'lbs'")
	}
	if err := ValidatePositive(field, v); err != nil {
		return domain.Weight{}, err
	}
	return domain.Weight{Value: v, Unit: u}, nil
}

// ParseActivityChoice accepts a menu number (1-3) or a level name.
func ParseActivityChoice(raw string) (domain.ActivityLevel, error) {
	s := strings.TrimSpace(raw)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > len(domain.ActivityLevels) {
			return 0, inputErrorf(FieldActivity, "choose 1, 2, or 3")
		}
		return domain.ActivityLevels[n-1], nil
	}
	if a, ok := domain.ParseActivityLevel(s); ok {
		return a, nil
	}
	return 0, inputErrorf(FieldActivity, "choose 1, 2, or 3 (low, moderate, high)")
}

// ParseCups parses the current daily food amount in cups.
func ParseCups(raw string) (float64, error) {
	return parsePositive(FieldCurrentFood, raw)
}

// ParseCaloriesPerCup parses the caloric density of the food.
func ParseCaloriesPerCup(raw string) (float64, error) {
	return parsePositive(FieldCaloriesPerCup, raw)
}

func parsePositive(field, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, inputErrorf(field, "%q is not a valid number", strings.TrimSpace(raw))
	}
	return v, ValidatePositive(field, v)
}

// ValidatePositive rejects zero, negative, NaN and infinite values.
func ValidatePositive(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return inputErrorf(field, "must be a finite number")
	}
	if v <= 0 {
		return inputErrorf(field, "must be > 0")
	}
	return nil
}

// NewProfile validates numeric inputs and builds a DietProfile.
func NewProfile(currentKg, goalKg float64, activity domain.ActivityLevel, currentCups float64) (domain.DietProfile, error) {
	if err := ValidatePositive(FieldCurrentWeight, currentKg); err != nil {
		return domain.DietProfile{}, err
	}
	if err := ValidatePositive(FieldGoalWeight, goalKg); err != nil {
		return domain.DietProfile{}, err
	}
	if !activity.Valid() {
		return domain.DietProfile{}, inputErrorf(FieldActivity, "unknown activity level")
	}
	if err := ValidatePositive(FieldCurrentFood, currentCups); err != nil {
		return domain.DietProfile{}, err
	}
	return domain.DietProfile{
		CurrentWeightKg: currentKg,
		GoalWeightKg:    goalKg,
		Activity:        activity,
		CurrentFoodCups: currentCups,
	}, nil
}
