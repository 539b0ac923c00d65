package export

import (
	"fmt"
	"image/color"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/srprime/attendance/internal/model"
)

const sheetName = "Attendance"

var xlsxHeaders = []string{
	"Date", "Class Grade", "Total Strength", "Present", "Absent", "Present Percentage", "Absent Percentage",
}

// ExportXLSX writes the same rows as the CSV report into a styled workbook.
func ExportXLSX(dir string, data model.AttendanceData, h Heading, appID string, now time.Time) (string, error) {
	path := filepath.Join(dir, XLSXFilename(now))

	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), sheetName); err != nil {
		return "", fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:      h.Title,
		Subject:    h.Subtitle,
		Creator:    "srprime attendance",
		Identifier: appID,
		Created:    now.UTC().Format(time.RFC3339),
	}); err != nil {
		return "", fmt.Errorf("set document properties: %w", err)
	}

	if err := writeXLSXHeader(f); err != nil {
		return "", err
	}

	rowStyles, err := gradeStyles(f)
	if err != nil {
		return "", err
	}

	for i, r := range Rows(data) {
		line := i + 2
		values := []interface{}{r.Date, r.Grade, r.Strength, r.Present, r.Absent, r.PresentPct, r.AbsentPct}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, line)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return "", fmt.Errorf("set cell %s: %w", cell, err)
			}
		}

		first, _ := excelize.CoordinatesToCellName(1, line)
		last, _ := excelize.CoordinatesToCellName(len(values), line)
		if err := f.SetCellStyle(sheetName, first, last, rowStyles[r.GradeIndex]); err != nil {
			return "", fmt.Errorf("style row %d: %w", line, err)
		}
	}

	if err := f.SetColWidth(sheetName, "A", "G", 18); err != nil {
		return "", fmt.Errorf("set column width: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return path, nil
}

func writeXLSXHeader(f *excelize.File) error {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{hex(headerFill)}},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, h := range xlsxHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("set header %s: %w", cell, err)
		}
	}

	last, _ := excelize.CoordinatesToCellName(len(xlsxHeaders), 1)
	return f.SetCellStyle(sheetName, "A1", last, style)
}

func gradeStyles(f *excelize.File) ([]int, error) {
	styles := make([]int, len(model.Grades))
	for i, gi := range model.Grades {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{hex(gi.Color)}},
		})
		if err != nil {
			return nil, fmt.Errorf("create style for %s: %w", gi.Label, err)
		}
		styles[i] = id
	}
	return styles, nil
}

func hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
