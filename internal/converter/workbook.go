package converter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/insightdelivered/finmd/internal/extractor"
	"github.com/insightdelivered/finmd/internal/models"
	"github.com/insightdelivered/finmd/internal/writer"
)

const emptySheetMarkdown = "_Empty sheet._\n"

// RenderWorkbook renders every sheet of a workbook as its own table, in
// workbook order. The first row of each sheet is the header. The item count
// is the number of data rows across all sheets.
func RenderWorkbook(data []byte) (*models.Result, error) {
	sheets, err := extractor.ReadWorkbook(data)
	if err != nil {
		return nil, &DecodeError{Format: models.FormatExcel, Err: err}
	}

	var b strings.Builder
	dataRows := 0
	for i, sheet := range sheets {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "## Sheet: %s\n\n", writer.EscapeCell(sheet.Name))

		cols := 0
		for _, row := range sheet.Rows {
			cols = max(cols, len(row))
		}
		if cols == 0 {
			b.WriteString(emptySheetMarkdown)
			continue
		}

		tw := writer.NewTableWriter(&b)
		for r, row := range sheet.Rows {
			cells := make([]string, cols)
			for c, cell := range row {
				cells[c] = formatCell(cell)
			}
			tw.Row(cells...)
			if r == 0 {
				tw.Separator(cols)
			} else {
				dataRows++
			}
		}
	}

	return &models.Result{
		Markdown:  b.String(),
		Format:    string(models.FormatExcel),
		ItemCount: dataRows,
	}, nil
}

func formatCell(c extractor.Cell) string {
	switch c.Kind {
	case extractor.CellText:
		return c.Text
	case extractor.CellNumber:
		return writer.FormatDecimal(c.Number)
	case extractor.CellDate:
		return formatDateTime(c.Time)
	case extractor.CellBool:
		return strconv.FormatBool(c.Bool)
	case extractor.CellFormula:
		if c.Cached {
			return writer.FormatDecimal(c.Number)
		}
		return c.Formula
	default:
		return ""
	}
}

// formatDateTime renders an ISO-8601 local date-time, leaving seconds off
// when they are zero.
func formatDateTime(t time.Time) string {
	if t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02T15:04")
	}
	return t.Format("2006-01-02T15:04:05")
}
