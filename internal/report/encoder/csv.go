package encoder

import (
	"bytes"
	"encoding/csv"

	"github.com/whatuseek/smn-tkt-sub000/internal/report"
)

const csvContentType = "text/csv; charset=utf-8"

// encodeCSV writes a CRLF-delimited CSV document. An empty row set still
// yields a header and a single informational row so the file is never
// structureless.
func encodeCSV(rows []report.ExportRow, meta Metadata) (*File, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true

	if len(rows) == 0 {
		if err := w.Write([]string{report.PlaceholderHeader}); err != nil {
			return nil, err
		}
		if err := w.Write([]string{report.PlaceholderMessage}); err != nil {
			return nil, err
		}
	} else {
		if err := w.Write(columnHeaders); err != nil {
			return nil, err
		}
		for _, row := range rows {
			if err := w.Write(rowCells(row)); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return &File{
		Bytes:       buf.Bytes(),
		ContentType: csvContentType,
		Filename:    exportFilename(meta.GeneratedAt, "csv"),
	}, nil
}
