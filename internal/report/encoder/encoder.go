// Package encoder serializes export rows into CSV, XLSX or PDF documents and
// determines the wire framing (content type, filename, disposition) for each.
package encoder

import (
	"errors"
	"fmt"
	"time"

	"github.com/whatuseek/smn-tkt-sub000/internal/report"
)

// Format selects the export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ErrUnsupportedFormat is returned for format strings outside the supported
// set. Callers must reject the request before any store query runs.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat validates a raw format parameter. An empty value defaults to
// CSV.
func ParseFormat(raw string) (Format, error) {
	switch Format(raw) {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatXLSX, FormatPDF:
		return Format(raw), nil
	}
	return "", ErrUnsupportedFormat
}

// File is a fully encoded export ready to be written to the response.
type File struct {
	Bytes       []byte
	ContentType string
	Filename    string
}

// Metadata carries request-scoped context into the encoders: the response
// generation instant (used for filenames and the PDF title) and a one-line
// filter summary (PDF subtitle).
type Metadata struct {
	GeneratedAt   time.Time
	FilterSummary string
}

// columnHeaders is the fixed export column order; every encoder derives its
// structure from this list.
var columnHeaders = []string{
	"Ticket ID",
	"Issue Type",
	"Status",
	"Location",
	"Mobile Number",
	"Comments",
	"Created By",
	"Last Edited By",
	"Created At",
	"Updated At",
}

func rowCells(row report.ExportRow) []string {
	return []string{
		row.TicketID,
		row.IssueType,
		row.Status,
		row.Location,
		row.MobileNumber,
		row.Comments,
		row.CreatedBy,
		row.LastEditedBy,
		row.CreatedAt,
		row.UpdatedAt,
	}
}

// Encode serializes rows in the requested format.
func Encode(rows []report.ExportRow, format Format, meta Metadata) (*File, error) {
	switch format {
	case FormatCSV:
		return encodeCSV(rows, meta)
	case FormatXLSX:
		return encodeXLSX(rows, meta)
	case FormatPDF:
		return encodePDF(rows, meta)
	}
	return nil, ErrUnsupportedFormat
}

func exportFilename(generatedAt time.Time, ext string) string {
	return fmt.Sprintf("ticket_report_%s.%s", generatedAt.Format("20060102_150405"), ext)
}
