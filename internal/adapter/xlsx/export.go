// Package xlsx exports diet results as Excel workbooks.
package xlsx

import (
	"fmt"
	"io"

	"dogdiet/internal/app"

	"github.com/xuri/excelize/v2"
)

const (
	// ContentType is the MIME type of the generated workbook.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	// FileName is the default attachment name.
	FileName = "titration-plan.xlsx"

	sheet = "Plan"
)

// WritePlan writes a single-sheet workbook with the inputs, the daily
// targets and the week-by-week plan. Amounts are rounded to two decimals.
func WritePlan(w io.Writer, r *app.DietResult) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	rows := [][]any{
		{"Dog diet plan"},
		{},
		{"Current weight (kg)", r.Profile.CurrentWeightKg},
		{"Goal weight (kg)", r.Profile.GoalWeightKg},
		{"Activity level", r.Profile.Activity.String()},
		{"Current food (cups/day)", r.Profile.CurrentFoodCups},
		{"Calories per cup", r.CaloriesPerCup},
		{"Daily calories", r.DailyCalories},
		{"Target food (cups/day)", r.DailyFoodCups},
		{},
		{"Week", "Cups per day"},
	}
	for _, wk := range r.Plan.Weeks {
		rows = append(rows, []any{wk.Week, wk.Cups})
	}
	rows = append(rows, []any{"Final target", r.Plan.TargetCups})

	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}
			if fv, ok := v.(float64); ok {
				err = f.SetCellFloat(sheet, cell, fv, 2, 64)
			} else {
				err = f.SetCellValue(sheet, cell, v)
			}
			if err != nil {
				return fmt.Errorf("set %s: %w", cell, err)
			}
		}
	}

	if err := styleSheet(f, len(rows)); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func styleSheet(f *excelize.File, lastRow int) error {
	title, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	if err != nil {
		return err
	}
	header, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "A1", title); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A11", "B11", header); err != nil {
		return err
	}
	final := fmt.Sprintf("A%d", lastRow)
	if err := f.SetCellStyle(sheet, final, final, header); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", "A", 25)
}
