package domain

// CalculateDailyCalories returns the recommended daily calorie intake. The
// baseline uses the midpoint of current and goal weight.
func CalculateDailyCalories(p DietProfile) float64 {
	avg := (p.CurrentWeightKg + p.GoalWeightKg) / 2
	base := 30*avg + 70
	return base * p.Activity.Multiplier()
}

// CalculateDailyFoodAmount returns the daily amount of food in cups.
// caloriesPerCup must be > 0.
func CalculateDailyFoodAmount(p DietProfile, caloriesPerCup float64) float64 {
	return CalculateDailyCalories(p) / caloriesPerCup
}

// CalculateTitrationPlan spreads the change from the current food amount to
// the target amount evenly across TitrationWeeks weeks. The last week is
// always exactly the target.
func CalculateTitrationPlan(p DietProfile, caloriesPerCup float64) TitrationPlan {
	target := CalculateDailyFoodAmount(p, caloriesPerCup)
	step := (target - p.CurrentFoodCups) / TitrationWeeks

	weeks := make([]TitrationWeek, TitrationWeeks)
	for i := range weeks {
		w := i + 1
		weeks[i] = TitrationWeek{Week: w, Cups: p.CurrentFoodCups + step*float64(w)}
	}
	// current + (target-current) can be off by an ulp.
	weeks[TitrationWeeks-1].Cups = target

	return TitrationPlan{Weeks: weeks, TargetCups: target}
}
