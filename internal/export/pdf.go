package export

import (
	"fmt"
	"image/color"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/srprime/attendance/internal/model"
)

const pdfFont = "Helvetica"

// PDFCanvas draws onto an A4 portrait fpdf document.
type PDFCanvas struct {
	pdf *fpdf.Fpdf
}

// NewPDFCanvas creates an empty document. appID is written to the metadata.
func NewPDFCanvas(title, appID string) *PDFCanvas {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetTitle(title, true)
	pdf.SetCreator("srprime attendance", true)
	if appID != "" {
		pdf.SetKeywords("install:"+appID, true)
	}
	return &PDFCanvas{pdf: pdf}
}

func (p *PDFCanvas) PageSize() (float64, float64) {
	return p.pdf.GetPageSize()
}

func (p *PDFCanvas) NewPage() {
	p.pdf.AddPage()
}

func (p *PDFCanvas) DrawText(x, y float64, text string, style TextStyle) {
	fontStyle := ""
	if style.Bold {
		fontStyle = "B"
	}
	p.pdf.SetFont(pdfFont, fontStyle, style.Size)
	p.pdf.SetTextColor(int(style.Color.R), int(style.Color.G), int(style.Color.B))

	switch style.Align {
	case AlignCenter:
		x -= p.pdf.GetStringWidth(text) / 2
	case AlignRight:
		x -= p.pdf.GetStringWidth(text)
	}
	p.pdf.Text(x, y, text)
}

func (p *PDFCanvas) DrawFilledRect(x, y, w, h float64, fill color.NRGBA) {
	p.pdf.SetFillColor(int(fill.R), int(fill.G), int(fill.B))
	p.pdf.Rect(x, y, w, h, "F")
}

func (p *PDFCanvas) Save(filename string) error {
	return p.pdf.OutputFileAndClose(filename)
}

// ExportPDF renders the summary into dir and returns its path.
func ExportPDF(dir string, data model.AttendanceData, h Heading, appID string, now time.Time) (string, error) {
	path := filepath.Join(dir, PDFFilename(now))

	c := NewPDFCanvas(h.Title, appID)
	RenderSummary(c, data, h, now)
	if err := c.Save(path); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
