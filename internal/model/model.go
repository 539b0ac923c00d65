// Package model holds the attendance data types shared by the store, the edit
// session and the exporters.
package model

import (
	"errors"
	"image/color"
	"sort"
	"time"
)

// LayoutISO is the layout of date keys inside AttendanceData.
const LayoutISO = "2006-01-02"

var ErrUnknownGrade = errors.New("unknown class grade")

// Grade is one of the fixed class levels tracked by the application.
type Grade string

const (
	Sixth   Grade = "SIXTH"
	Seventh Grade = "SEVENTH"
	Eighth  Grade = "EIGHTH"
	Ninth   Grade = "NINTH"
	Tenth   Grade = "TENTH"
)

// GradeInfo keeps everything configured for a grade in one record.
type GradeInfo struct {
	Grade    Grade
	Label    string
	Strength int
	Color    color.NRGBA
}

var rowPalette = []color.NRGBA{
	{R: 0xE3, G: 0xF2, B: 0xFD, A: 0xFF},
	{R: 0xE8, G: 0xF5, B: 0xE9, A: 0xFF},
	{R: 0xFF, G: 0xF3, B: 0xE0, A: 0xFF},
	{R: 0xF3, G: 0xE5, B: 0xF5, A: 0xFF},
}

// Grades lists every grade in display order.
var Grades = []GradeInfo{
	{Grade: Sixth, Label: "6th Grade", Strength: 19},
	{Grade: Seventh, Label: "7th Grade", Strength: 22},
	{Grade: Eighth, Label: "8th Grade", Strength: 25},
	{Grade: Ninth, Label: "9th Grade", Strength: 21},
	{Grade: Tenth, Label: "10th Grade", Strength: 18},
}

func init() {
	for i := range Grades {
		Grades[i].Color = rowPalette[i%len(rowPalette)]
	}
}

// Info returns the configuration record of g.
func Info(g Grade) (GradeInfo, error) {
	for _, gi := range Grades {
		if gi.Grade == g {
			return gi, nil
		}
	}
	return GradeInfo{}, ErrUnknownGrade
}

// DailyRecord is the attendance of one grade on one date.
type DailyRecord struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
}

// Total is present plus absent.
func (r DailyRecord) Total() int {
	return r.Present + r.Absent
}

// AttendanceData maps grade -> date key -> record.
type AttendanceData map[Grade]map[string]DailyRecord

// NewAttendanceData returns a structure with an empty date map for every grade.
func NewAttendanceData() AttendanceData {
	d := make(AttendanceData, len(Grades))
	for _, gi := range Grades {
		d[gi.Grade] = map[string]DailyRecord{}
	}
	return d
}

// Backfill adds an empty date map for every grade missing from d.
func (d AttendanceData) Backfill() AttendanceData {
	if d == nil {
		return NewAttendanceData()
	}
	for _, gi := range Grades {
		if d[gi.Grade] == nil {
			d[gi.Grade] = map[string]DailyRecord{}
		}
	}
	return d
}

// Lookup returns the record of grade g on date, if one exists.
func (d AttendanceData) Lookup(g Grade, date string) (DailyRecord, bool) {
	rec, ok := d[g][date]
	return rec, ok
}

// Dates returns every date with at least one record of a known grade,
// ascending.
func (d AttendanceData) Dates() []string {
	seen := map[string]struct{}{}
	for _, gi := range Grades {
		for date := range d[gi.Grade] {
			seen[date] = struct{}{}
		}
	}

	dates := make([]string, 0, len(seen))
	for date := range seen {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

// DateKey formats t as a local calendar date key.
func DateKey(t time.Time) string {
	return t.In(time.Local).Format(LayoutISO)
}
