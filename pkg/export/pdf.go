package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfMargin     = 10.0
	pdfRowHeight  = 7.0
	pdfHeadHeight = 8.0
	pdfBottom     = 15.0
)

// PDFRenderer lays a table out on A4 pages, switching to landscape for wide
// tables and repeating the header row on every page.
type PDFRenderer struct {
	// Shade returns a fill colour for a data cell, if any.
	Shade func(row, col int, value string) (r, g, b int, ok bool)
}

// NewPDFRenderer constructs a PDF renderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render creates the PDF document.
func (r *PDFRenderer) Render(t Table) ([]byte, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	orientation := "P"
	if len(t.Columns) > 6 {
		orientation = "L"
	}
	pdf := gofpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(pdfMargin, 15, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfBottom)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageWidth, pageHeight := pdf.GetPageSize()
	widths := columnWidths(t.Columns, pageWidth-2*pdfMargin)

	header := func() {
		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(230, 233, 240)
		for i, col := range t.Columns {
			pdf.CellFormat(widths[i], pdfHeadHeight, tr(col.Title), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 9)
	}

	pdf.AddPage()
	if t.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(t.Title), "", 1, "C", false, 0, "")
	}
	if len(t.Meta) > 0 {
		pdf.SetFont("Arial", "", 9)
		for _, line := range t.Meta {
			pdf.CellFormat(0, 5, tr(line), "", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(3)
	header()

	for rowIdx, row := range t.Rows {
		if pdf.GetY()+pdfRowHeight > pageHeight-pdfBottom {
			pdf.AddPage()
			header()
		}
		for colIdx, value := range row {
			fill := false
			if r.Shade != nil {
				if cr, cg, cb, ok := r.Shade(rowIdx, colIdx, value); ok {
					pdf.SetFillColor(cr, cg, cb)
					fill = true
				}
			}
			align := string(t.Columns[colIdx].Align)
			if align == "" {
				align = string(AlignLeft)
			}
			pdf.CellFormat(widths[colIdx], pdfRowHeight, tr(value), "1", 0, align, fill, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("layout pdf: %w", err)
	}
	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *PDFRenderer) ContentType() string { return "application/pdf" }

func (r *PDFRenderer) Extension() string { return "pdf" }

func columnWidths(cols []Column, usable float64) []float64 {
	total := 0.0
	for _, c := range cols {
		total += weightOf(c)
	}
	widths := make([]float64, len(cols))
	for i, c := range cols {
		widths[i] = usable * weightOf(c) / total
	}
	return widths
}

func weightOf(c Column) float64 {
	if c.Weight <= 0 {
		return 1
	}
	return c.Weight
}
