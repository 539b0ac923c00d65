package export

import (
	"image/color"
	"strconv"
	"time"

	"github.com/srprime/attendance/internal/model"
)

type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// TextStyle describes how DrawText renders a string. x is the anchor for
// Align; y is the baseline.
type TextStyle struct {
	Size  float64
	Bold  bool
	Align Align
	Color color.NRGBA
}

// Canvas is the drawing backend consumed by the paginated report. Units are
// millimetres from the top-left corner of the page.
type Canvas interface {
	PageSize() (w, h float64)
	NewPage()
	DrawText(x, y float64, text string, style TextStyle)
	DrawFilledRect(x, y, w, h float64, fill color.NRGBA)
	Save(filename string) error
}

// Heading is the fixed title block of the summary document.
type Heading struct {
	Title    string
	Subtitle string
}

var DefaultHeading = Heading{
	Title:    "SR PRIME SCHOOL ATTENDANCE",
	Subtitle: "GOPALAPURAM, KHAMMAM",
}

const (
	sectionTitle = "Daily Attendance Records"

	pageMargin   = 15.0
	footerSpace  = 12.0
	rowHeight    = 8.0
	dateLabelH   = 8.0
	blockBuffer  = 10.0
	sectionSpace = 6.0
)

var (
	columns      = []string{"Class Grade", "Strength", "Present", "Absent", "Present %", "Absent %"}
	columnWidths = []float64{40, 25, 25, 25, 25, 25}

	black       = color.NRGBA{A: 0xFF}
	white       = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	gray        = color.NRGBA{R: 0x66, G: 0x66, B: 0x66, A: 0xFF}
	headerFill  = color.NRGBA{R: 0x2E, G: 0x4A, B: 0x7D, A: 0xFF}
	titleColour = color.NRGBA{R: 0x1A, G: 0x23, B: 0x7E, A: 0xFF}
)

// sectionHeight is the worst case for one date: label, header, every grade
// and a buffer.
func sectionHeight() float64 {
	return dateLabelH + rowHeight*float64(1+len(model.Grades)) + blockBuffer
}

func tableWidth() float64 {
	var w float64
	for _, cw := range columnWidths {
		w += cw
	}
	return w
}

type document struct {
	c       Canvas
	heading Heading
	pageW   float64
	pageH   float64
	tableX  float64
	y       float64
	page    int
}

// RenderSummary draws the full attendance summary onto c.
func RenderSummary(c Canvas, data model.AttendanceData, h Heading, generated time.Time) {
	w, ht := c.PageSize()
	d := &document{
		c:       c,
		heading: h,
		pageW:   w,
		pageH:   ht,
		tableX:  (w - tableWidth()) / 2,
	}

	d.newPage()
	d.titleBlock(generated)

	for _, date := range data.Dates() {
		if d.y+sectionHeight() > d.bottom() {
			d.newPage()
			d.text(d.pageW/2, d.y+6, sectionTitle+" (continued)", TextStyle{Size: 13, Bold: true, Align: AlignCenter, Color: titleColour})
			d.y += 12
		}
		d.section(date, rowsForDate(data, date))
	}
}

func (d *document) titleBlock(generated time.Time) {
	center := d.pageW / 2
	d.text(center, d.y+8, d.heading.Title, TextStyle{Size: 18, Bold: true, Align: AlignCenter, Color: titleColour})
	d.text(center, d.y+16, d.heading.Subtitle, TextStyle{Size: 12, Align: AlignCenter, Color: black})
	d.text(center, d.y+23, "Generated on "+generated.Format("2006-01-02 15:04"), TextStyle{Size: 9, Align: AlignCenter, Color: gray})
	d.y += 32

	d.text(d.tableX, d.y+6, sectionTitle, TextStyle{Size: 14, Bold: true, Color: titleColour})
	d.y += 12
}

func (d *document) section(date string, rows []Row) {
	d.text(d.tableX, d.y+5.5, "Date: "+date, TextStyle{Size: 11, Bold: true, Color: black})
	d.y += dateLabelH
	d.header()

	for _, r := range rows {
		if d.y+rowHeight > d.bottom() {
			d.newPage()
			d.header()
		}
		d.row(r)
	}
	d.y += sectionSpace
}

func (d *document) header() {
	d.c.DrawFilledRect(d.tableX, d.y, tableWidth(), rowHeight, headerFill)
	d.cells(columns, TextStyle{Size: 10, Bold: true, Align: AlignCenter, Color: white})
	d.y += rowHeight
}

func (d *document) row(r Row) {
	fill := model.Grades[r.GradeIndex].Color
	d.c.DrawFilledRect(d.tableX, d.y, tableWidth(), rowHeight, fill)
	d.cells([]string{
		r.Grade,
		strconv.Itoa(r.Strength),
		strconv.Itoa(r.Present),
		strconv.Itoa(r.Absent),
		r.PresentPct,
		r.AbsentPct,
	}, TextStyle{Size: 10, Align: AlignCenter, Color: black})
	d.y += rowHeight
}

func (d *document) cells(values []string, style TextStyle) {
	x := d.tableX
	for i, v := range values {
		d.text(x+columnWidths[i]/2, d.y+rowHeight/2+1.5, v, style)
		x += columnWidths[i]
	}
}

func (d *document) newPage() {
	d.c.NewPage()
	d.page++
	d.y = pageMargin
	d.text(d.pageW/2, d.pageH-pageMargin/2, "Page "+strconv.Itoa(d.page), TextStyle{Size: 8, Align: AlignCenter, Color: gray})
}

func (d *document) bottom() float64 {
	return d.pageH - footerSpace
}

func (d *document) text(x, y float64, s string, style TextStyle) {
	d.c.DrawText(x, y, s, style)
}
