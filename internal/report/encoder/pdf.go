package encoder

import (
	"bytes"

	"github.com/go-pdf/fpdf"

	"github.com/whatuseek/smn-tkt-sub000/internal/report"
)

const pdfContentType = "application/pdf"

// Intrinsic widths in mm for the narrow columns; Location and Comments flex
// to fill the remaining page width.
var pdfFixedWidths = map[string]float64{
	"Ticket ID":      22,
	"Issue Type":     26,
	"Status":         20,
	"Mobile Number":  24,
	"Created By":     30,
	"Last Edited By": 30,
	"Created At":     32,
	"Updated At":     32,
}

var pdfFlexColumns = map[string]bool{
	"Location": true,
	"Comments": true,
}

const (
	pdfTitleHeight  = 8
	pdfHeaderHeight = 7
	pdfRowHeight    = 6
)

// encodePDF produces a landscape, paginated table document with a generation
// timestamp title and a filter-summary subtitle. The header row repeats on
// every page.
func encodePDF(rows []report.ExportRow, meta Metadata) (*File, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 10)
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()
	left, _, right, bottom := pdf.GetMargins()
	usable := pageW - left - right

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(usable, pdfTitleHeight,
		"Ticket Report - "+meta.GeneratedAt.Format("2006-01-02 03:04:05 PM"),
		"", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(usable, 6, meta.FilterSummary, "", 1, "C", false, 0, "")
	pdf.Ln(2)

	widths := columnWidths(usable)
	writeHeader := func() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(220, 220, 220)
		for i, header := range columnHeaders {
			pdf.CellFormat(widths[i], pdfHeaderHeight, header, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}
	writeHeader()

	if len(rows) == 0 {
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(usable, pdfRowHeight, "No tickets matching criteria", "1", 1, "C", false, 0, "")
	} else {
		pdf.SetFont("Helvetica", "", 8)
		breakAt := pageH - bottom - pdfRowHeight
		for _, row := range rows {
			if pdf.GetY() > breakAt {
				pdf.AddPage()
				writeHeader()
				pdf.SetFont("Helvetica", "", 8)
			}
			for i, cell := range rowCells(row) {
				pdf.CellFormat(widths[i], pdfRowHeight, cell, "1", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}

	return &File{
		Bytes:       buf.Bytes(),
		ContentType: pdfContentType,
		Filename:    exportFilename(meta.GeneratedAt, "pdf"),
	}, nil
}

// columnWidths assigns intrinsic widths to narrow columns and splits the
// remaining page width evenly across the flexible text columns.
func columnWidths(usable float64) []float64 {
	fixedTotal := 0.0
	flexCount := 0
	for _, header := range columnHeaders {
		if pdfFlexColumns[header] {
			flexCount++
			continue
		}
		fixedTotal += pdfFixedWidths[header]
	}

	flexWidth := 0.0
	if flexCount > 0 {
		flexWidth = (usable - fixedTotal) / float64(flexCount)
	}

	widths := make([]float64, len(columnHeaders))
	for i, header := range columnHeaders {
		if pdfFlexColumns[header] {
			widths[i] = flexWidth
		} else {
			widths[i] = pdfFixedWidths[header]
		}
	}
	return widths
}
