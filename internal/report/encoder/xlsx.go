package encoder

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/whatuseek/smn-tkt-sub000/internal/report"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	sheetName       = "Tickets"
)

// Column width heuristics: wide free-text columns get 40 units, timestamp
// and actor columns 25, everything else the 15 default.
var xlsxColumnWidths = map[string]float64{
	"Location":       40,
	"Comments":       40,
	"Created By":     25,
	"Last Edited By": 25,
	"Created At":     25,
	"Updated At":     25,
}

const xlsxDefaultWidth = 15

// encodeXLSX builds a single-worksheet spreadsheet with a bold header row.
// An empty row set produces a single-column sheet with an informational row
// instead of a zero-row table.
func encodeXLSX(rows []report.ExportRow, meta Metadata) (*File, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	headers := columnHeaders
	if len(rows) == 0 {
		headers = []string{report.PlaceholderHeader}
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, fmt.Errorf("set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("set header style: %w", err)
		}

		colName, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, fmt.Errorf("column name: %w", err)
		}
		width := xlsxColumnWidths[header]
		if width == 0 {
			width = xlsxDefaultWidth
		}
		if err := f.SetColWidth(sheetName, colName, colName, width); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	if len(rows) == 0 {
		if err := f.SetCellValue(sheetName, "A2", report.PlaceholderMessage); err != nil {
			return nil, fmt.Errorf("set info cell: %w", err)
		}
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("row coordinates: %w", err)
		}
		cells := rowCells(row)
		values := make([]interface{}, len(cells))
		for j, v := range cells {
			values[j] = v
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("set row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	return &File{
		Bytes:       buf.Bytes(),
		ContentType: xlsxContentType,
		Filename:    exportFilename(meta.GeneratedAt, "xlsx"),
	}, nil
}
