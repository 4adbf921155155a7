package domain_test

import (
	"encoding/json"
	"testing"

	"dogdiet/internal/domain"
)

func profile(current, goal float64, a domain.ActivityLevel, cups float64) domain.DietProfile {
	return domain.DietProfile{
		CurrentWeightKg: current,
		GoalWeightKg:    goal,
		Activity:        a,
		CurrentFoodCups: cups,
	}
}

func TestCalculateDailyCalories_Moderate(t *testing.T) {
	weights := [][2]float64{{30, 25}, {4.2, 3.9}, {61.5, 55}, {10, 10}, {0.5, 80}}
	for _, w := range weights {
		p := profile(w[0], w[1], domain.ActivityModerate, 1)
		want := 30*((w[0]+w[1])/2) + 70
		if got := domain.CalculateDailyCalories(p); got != want {
			t.Errorf("CalculateDailyCalories(%v, %v) = %v; want %v", w[0], w[1], got, want)
		}
	}
}

func TestCalculateDailyCalories_ActivityMultipliers(t *testing.T) {
	weights := [][2]float64{{30, 25}, {12.3, 9.8}, {45, 50}}
	for _, w := range weights {
		moderate := domain.CalculateDailyCalories(profile(w[0], w[1], domain.ActivityModerate, 1))
		low := domain.CalculateDailyCalories(profile(w[0], w[1], domain.ActivityLow, 1))
		high := domain.CalculateDailyCalories(profile(w[0], w[1], domain.ActivityHigh, 1))

		if low != 0.8*moderate {
			t.Errorf("low = %v; want %v", low, 0.8*moderate)
		}
		if high != 1.2*moderate {
			t.Errorf("high = %v; want %v", high, 1.2*moderate)
		}
	}
}

func TestCalculateDailyFoodAmount_RoundTrip(t *testing.T) {
	p := profile(18.4, 16, domain.ActivityHigh, 2)
	calories := domain.CalculateDailyCalories(p)
	for _, density := range []float64{0.5, 97, 350, 412.7, 1000} {
		food := domain.CalculateDailyFoodAmount(p, density)
		if !almostEqual(food*density, calories, 1e-9) {
			t.Errorf("density %v: food*density = %v; want %v", density, food*density, calories)
		}
	}
}

func TestCalculateTitrationPlan_Scenario(t *testing.T) {
	p := profile(30, 25, domain.ActivityModerate, 3.0)

	if got := domain.CalculateDailyCalories(p); got != 895 {
		t.Fatalf("daily calories = %v; want 895", got)
	}
	food := domain.CalculateDailyFoodAmount(p, 350)
	if !almostEqual(food, 895.0/350, 1e-12) {
		t.Fatalf("daily food = %v; want %v", food, 895.0/350)
	}

	plan := domain.CalculateTitrationPlan(p, 350)
	if len(plan.Weeks) != domain.TitrationWeeks {
		t.Fatalf("expected %d weeks, got %d", domain.TitrationWeeks, len(plan.Weeks))
	}
	step := (895.0/350 - 3.0) / 4
	for i, w := range plan.Weeks {
		if w.Week != i+1 {
			t.Errorf("entry %d has week %d", i, w.Week)
		}
		want := 3.0 + step*float64(i+1)
		if !almostEqual(w.Cups, want, 1e-12) {
			t.Errorf("week %d = %v; want %v", w.Week, w.Cups, want)
		}
	}
	if plan.TargetCups != food {
		t.Fatalf("target = %v; want %v", plan.TargetCups, food)
	}
}

func TestCalculateTitrationPlan_LastWeekIsTarget(t *testing.T) {
	tests := []struct {
		name    string
		p       domain.DietProfile
		density float64
	}{
		{"decrease", profile(30, 25, domain.ActivityModerate, 3), 350},
		{"increase", profile(8, 10, domain.ActivityHigh, 0.4), 290},
		{"odd values", profile(13.37, 11.11, domain.ActivityLow, 1.7), 333.3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			plan := domain.CalculateTitrationPlan(tc.p, tc.density)
			if last := plan.Weeks[len(plan.Weeks)-1].Cups; last != plan.TargetCups {
				t.Fatalf("week 4 = %v; target = %v", last, plan.TargetCups)
			}
		})
	}
}

func TestCalculateTitrationPlan_Monotonic(t *testing.T) {
	tests := []struct {
		name    string
		p       domain.DietProfile
		density float64
		sign    int
	}{
		{"decreasing", profile(30, 25, domain.ActivityModerate, 3), 350, -1},
		{"increasing", profile(30, 25, domain.ActivityModerate, 1), 350, 1},
		// 30*10+70 = 370 kcal at 370 kcal/cup is exactly 1 cup.
		{"constant", profile(10, 10, domain.ActivityModerate, 1), 370, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			plan := domain.CalculateTitrationPlan(tc.p, tc.density)
			prev := tc.p.CurrentFoodCups
			for _, w := range plan.Weeks {
				switch tc.sign {
				case 1:
					if w.Cups <= prev {
						t.Fatalf("week %d (%v) not above %v", w.Week, w.Cups, prev)
					}
				case -1:
					if w.Cups >= prev {
						t.Fatalf("week %d (%v) not below %v", w.Week, w.Cups, prev)
					}
				default:
					if w.Cups != prev {
						t.Fatalf("week %d (%v) differs from %v", w.Week, w.Cups, prev)
					}
				}
				prev = w.Cups
			}
		})
	}
}

func TestCalculateTitrationPlan_Idempotent(t *testing.T) {
	p := profile(22, 20, domain.ActivityLow, 2.5)
	a := domain.CalculateTitrationPlan(p, 380)
	b := domain.CalculateTitrationPlan(p, 380)
	for i := range a.Weeks {
		if a.Weeks[i] != b.Weeks[i] {
			t.Fatalf("week %d differs: %v vs %v", i+1, a.Weeks[i], b.Weeks[i])
		}
	}
	if a.TargetCups != b.TargetCups {
		t.Fatal("targets differ")
	}
}

func TestActivityLevel(t *testing.T) {
	tests := []struct {
		level domain.ActivityLevel
		name  string
		mult  float64
	}{
		{domain.ActivityLow, "low", 0.8},
		{domain.ActivityModerate, "moderate", 1.0},
		{domain.ActivityHigh, "high", 1.2},
	}
	for _, tc := range tests {
		if tc.level.String() != tc.name {
			t.Errorf("String() = %q; want %q", tc.level.String(), tc.name)
		}
		if tc.level.Multiplier() != tc.mult {
			t.Errorf("%s multiplier = %v; want %v", tc.name, tc.level.Multiplier(), tc.mult)
		}
		got, ok := domain.ParseActivityLevel(" " + tc.name + " ")
		if !ok || got != tc.level {
			t.Errorf("ParseActivityLevel(%q) = %v, %v", tc.name, got, ok)
		}
	}
	if _, ok := domain.ParseActivityLevel("extreme"); ok {
		t.Fatal("expected unknown level to fail")
	}
}

func TestActivityLevel_InvalidHasNoMultiplier(t *testing.T) {
	for _, a := range []domain.ActivityLevel{0, domain.ActivityLevel(4), domain.ActivityLevel(-1)} {
		if a.Valid() {
			t.Errorf("%v should not be valid", a)
		}
		if m := a.Multiplier(); m != 0 {
			t.Errorf("%v multiplier = %v; want 0", a, m)
		}
	}
	var unset domain.DietProfile
	unset.CurrentWeightKg, unset.GoalWeightKg = 30, 25
	if got := domain.CalculateDailyCalories(unset); got != 0 {
		t.Fatalf("calories with unset activity = %v; want 0", got)
	}
}

func TestActivityLevel_JSON(t *testing.T) {
	b, err := json.Marshal(profile(10, 9, domain.ActivityHigh, 1))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var p domain.DietProfile
	if err := json.Unmarshal(b, &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.Activity != domain.ActivityHigh {
		t.Fatalf("activity = %v; want high", p.Activity)
	}
	if err := json.Unmarshal([]byte(`{"activity":"couch"}`), &p); err == nil {
		t.Fatal("expected error for unknown activity")
	}
}
