package app

import (
	"fmt"
	"io"
	"strings"

	"dogdiet/internal/domain"
)

// RenderReport writes the human-readable result of a calculation.
func RenderReport(w io.Writer, r *DietResult) error {
	_, err := io.WriteString(w, FormatReport(r))
	return err
}

// FormatReport returns the report written by RenderReport.
func FormatReport(r *DietResult) string {
	var b strings.Builder
	b.WriteString("Results:\n")
	fmt.Fprintf(&b, "Daily calories: %.2f\n", r.DailyCalories)
	fmt.Fprintf(&b, "Target food amount per day: %.2f cups\n", r.DailyFoodCups)
	b.WriteString("\n")
	b.WriteString(FormatPlan(r.Plan))
	b.WriteString("\n")
	return b.String()
}

// FormatPlan renders the week-by-week plan and its final target.
func FormatPlan(p domain.TitrationPlan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d-Week Titration Plan:\n", len(p.Weeks))
	for _, w := range p.Weeks {
		fmt.Fprintf(&b, "Week %d: %.2f cups per day\n", w.Week, w.Cups)
	}
	fmt.Fprintf(&b, "Final target: %.2f cups per day", p.TargetCups)
	return b.String()
}
