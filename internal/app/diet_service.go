// Package app holds the application services: input validation, the diet
// calculation use case, the intake conversation and API authentication.
package app

import (
	"context"
	"errors"
	"math"
	"strings"

	"dogdiet/internal/domain"
)

// Recorder receives calculation and validation events. It is implemented by
// the metrics package.
type Recorder interface {
	ObserveCalculation(level domain.ActivityLevel)
	ObserveRejection(field string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveCalculation(domain.ActivityLevel) {}
func (nopRecorder) ObserveRejection(string)                 {}

// PlanRequest carries unvalidated numeric input from the HTTP API or CLI
// flags. Weights are in Unit.
type PlanRequest struct {
	CurrentWeight   float64 `json:"currentWeight"`
	GoalWeight      float64 `json:"goalWeight"`
	Unit            string  `json:"unit"`
	Activity        string  `json:"activity"`
	CurrentFoodCups float64 `json:"currentFoodCups"`
	CaloriesPerCup  float64 `json:"caloriesPerCup"`
}

// DietResult is everything shown to the user after a calculation.
type DietResult struct {
	Profile        domain.DietProfile   `json:"profile"`
	CaloriesPerCup float64              `json:"caloriesPerCup"`
	DailyCalories  float64              `json:"dailyCalories"`
	DailyFoodCups  float64              `json:"dailyFoodCups"`
	Plan           domain.TitrationPlan `json:"plan"`
}

// DietService encapsulates the diet calculation use case.
type DietService struct {
	rec Recorder
}

// NewDietService creates a DietService. rec may be nil.
func NewDietService(rec Recorder) *DietService {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &DietService{rec: rec}
}

// Calculate validates req and computes calories, food amount and the
// titration plan.
func (s *DietService) Calculate(ctx context.Context, req PlanRequest) (*DietResult, error) {
	unit := req.Unit
	if unit == "" {
		unit = domain.UnitKg
	}
	current, err := ValidateWeight(FieldCurrentWeight, req.CurrentWeight, unit)
	if err != nil {
		return nil, s.reject(err)
	}
	goal, err := ValidateWeight(FieldGoalWeight, req.GoalWeight, unit)
	if err != nil {
		return nil, s.reject(err)
	}
	activity := domain.ActivityModerate
	if strings.TrimSpace(req.Activity) != "" {
		if activity, err = ParseActivityChoice(req.Activity); err != nil {
			return nil, s.reject(err)
		}
	}
	profile, err := NewProfile(current.Kilograms(), goal.Kilograms(), activity, req.CurrentFoodCups)
	if err != nil {
		return nil, s.reject(err)
	}
	return s.Compute(ctx, profile, req.CaloriesPerCup)
}

// Compute runs the calculator on a validated profile.
func (s *DietService) Compute(_ context.Context, p domain.DietProfile, caloriesPerCup float64) (*DietResult, error) {
	if err := ValidatePositive(FieldCaloriesPerCup, caloriesPerCup); err != nil {
		return nil, s.reject(err)
	}
	res := &DietResult{
		Profile:        p,
		CaloriesPerCup: caloriesPerCup,
		DailyCalories:  domain.CalculateDailyCalories(p),
		DailyFoodCups:  domain.CalculateDailyFoodAmount(p, caloriesPerCup),
		Plan:           domain.CalculateTitrationPlan(p, caloriesPerCup),
	}
	if err := checkFinite(res); err != nil {
		return nil, s.reject(err)
	}
	s.rec.ObserveCalculation(p.Activity)
	return res, nil
}

// checkFinite rejects inputs that are each valid but overflow the calculation.
func checkFinite(r *DietResult) error {
	if !isFinite(r.DailyCalories) {
		field := FieldCurrentWeight
		if r.Profile.GoalWeightKg > r.Profile.CurrentWeightKg {
			field = FieldGoalWeight
		}
		return inputErrorf(field, "too large to calculate a plan")
	}
	if !isFinite(r.DailyFoodCups) {
		return inputErrorf(FieldCaloriesPerCup, "too small to calculate a plan")
	}
	for _, w := range r.Plan.Weeks {
		if !isFinite(w.Cups) {
			return inputErrorf(FieldCurrentFood, "too large to calculate a plan")
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (s *DietService) reject(err error) error {
	var ie *InputError
	if errors.As(err, &ie) {
		s.rec.ObserveRejection(ie.Field)
	}
	return err
}
