// Package export turns the attendance store into downloadable reports.
package export

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/srprime/attendance/internal/model"
)

// Row is one (date, grade) line shared by every report format.
type Row struct {
	Date       string `csv:"Date"`
	Grade      string `csv:"Class Grade"`
	Strength   int    `csv:"Total Strength"`
	Present    int    `csv:"Present"`
	Absent     int    `csv:"Absent"`
	PresentPct string `csv:"Present Percentage"`
	AbsentPct  string `csv:"Absent Percentage"`

	GradeIndex int `csv:"-"`
}

// Rows lists every recorded (date, grade) pair, dates ascending and grades in
// enumeration order within a date.
func Rows(data model.AttendanceData) []Row {
	var rows []Row
	for _, date := range data.Dates() {
		rows = append(rows, rowsForDate(data, date)...)
	}
	return rows
}

func rowsForDate(data model.AttendanceData, date string) []Row {
	var rows []Row
	for i, gi := range model.Grades {
		rec, ok := data.Lookup(gi.Grade, date)
		if !ok {
			continue
		}
		rows = append(rows, Row{
			Date:       date,
			Grade:      gi.Label,
			Strength:   gi.Strength,
			Present:    rec.Present,
			Absent:     rec.Absent,
			PresentPct: Percent(rec.Present, rec.Total()) + "%",
			AbsentPct:  Percent(rec.Absent, rec.Total()) + "%",
			GradeIndex: i,
		})
	}
	return rows
}

// Percent returns count/total*100 with one decimal, or "0.0" when total is zero.
func Percent(count, total int) string {
	if total == 0 {
		return "0.0"
	}
	return decimal.NewFromInt(int64(count)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		StringFixed(1)
}

func CSVFilename(now time.Time) string {
	return fmt.Sprintf("school_attendance_data_%s.csv", model.DateKey(now))
}

func XLSXFilename(now time.Time) string {
	return fmt.Sprintf("school_attendance_data_%s.xlsx", model.DateKey(now))
}

func PDFFilename(now time.Time) string {
	return fmt.Sprintf("school_attendance_summary_%s.pdf", model.DateKey(now))
}
