package extractor

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// CellKind is the type of a workbook cell.
type CellKind int

const (
	CellBlank CellKind = iota
	CellText
	CellNumber
	CellDate
	CellBool
	CellFormula
	CellError
)

// Cell is one decoded workbook cell. Only the fields matching Kind are set.
// Formula cells carry their source in Formula and, when the workbook stored a
// numeric result, that result in Number with Cached set.
type Cell struct {
	Kind    CellKind
	Text    string
	Number  decimal.Decimal
	Time    time.Time
	Bool    bool
	Formula string
	Cached  bool
}

// Sheet is a decoded worksheet. Rows keep their physical order and each row
// holds cells up to its last non-empty column. Rows with no values are left out.
type Sheet struct {
	Name string
	Rows [][]Cell
}

// ReadWorkbook decodes an OOXML workbook held in memory into its sheets, in
// workbook order.
func ReadWorkbook(data []byte) (sheets []Sheet, err error) {
	defer func() {
		if r := recover(); r != nil {
			sheets = nil
			err = fmt.Errorf("workbook reader crashed: %v", r)
		}
	}()

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("reading sheet %q: %w", name, err)
		}

		sheet := Sheet{Name: name}
		for r, row := range rows {
			if len(row) == 0 {
				continue
			}
			cells := make([]Cell, len(row))
			for c, raw := range row {
				axis, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					return nil, err
				}
				cells[c], err = readCell(f, name, axis, raw, date1904)
				if err != nil {
					return nil, fmt.Errorf("reading cell %s!%s: %w", name, axis, err)
				}
			}
			sheet.Rows = append(sheet.Rows, cells)
		}
		sheets = append(sheets, sheet)
	}
	return sheets, nil
}

func readCell(f *excelize.File, sheet, axis, raw string, date1904 bool) (Cell, error) {
	formula, err := f.GetCellFormula(sheet, axis)
	if err != nil {
		return Cell{}, err
	}
	if formula != "" {
		cell := Cell{Kind: CellFormula, Formula: formula}
		if n, err := decimal.NewFromString(raw); err == nil {
			cell.Number = n
			cell.Cached = true
		}
		return cell, nil
	}

	typ, err := f.GetCellType(sheet, axis)
	if err != nil {
		return Cell{}, err
	}

	switch typ {
	case excelize.CellTypeBool:
		return Cell{Kind: CellBool, Bool: raw == "1" || strings.EqualFold(raw, "true")}, nil
	case excelize.CellTypeError:
		return Cell{Kind: CellError}, nil
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return Cell{Kind: CellText, Text: raw}, nil
	case excelize.CellTypeDate:
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			return Cell{Kind: CellDate, Time: t}, nil
		}
		if t, err := time.Parse("2006-01-02T15:04:05", raw); err == nil {
			return Cell{Kind: CellDate, Time: t}, nil
		}
		return Cell{Kind: CellText, Text: raw}, nil
	}

	if raw == "" {
		return Cell{Kind: CellBlank}, nil
	}
	n, err := decimal.NewFromString(raw)
	if err != nil {
		return Cell{Kind: CellText, Text: raw}, nil
	}

	isDate, err := hasDateFormat(f, sheet, axis)
	if err != nil {
		return Cell{}, err
	}
	if isDate {
		t, err := excelize.ExcelDateToTime(n.InexactFloat64(), date1904)
		if err == nil {
			return Cell{Kind: CellDate, Time: t}, nil
		}
	}
	return Cell{Kind: CellNumber, Number: n}, nil
}

// builtInDateFormats are the number format ids Excel reserves for dates and times.
var builtInDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
	45: true, 46: true, 47: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
}

func hasDateFormat(f *excelize.File, sheet, axis string) (bool, error) {
	styleID, err := f.GetCellStyle(sheet, axis)
	if err != nil {
		return false, err
	}
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil {
		return false, nil
	}
	if style.CustomNumFmt != nil {
		return isDateFormatCode(*style.CustomNumFmt), nil
	}
	return builtInDateFormats[style.NumFmt], nil
}

// isDateFormatCode reports whether a custom number format renders a date or
// time: it has a y, m, d, h or s token outside quoted text and [..] sections.
func isDateFormatCode(code string) bool {
	inQuote, inBracket := false, false
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case c == '\\' || c == '_' || c == '*':
			i++
		case c == '"':
			inQuote = !inQuote
		case inQuote:
		case c == '[':
			inBracket = true
		case c == ']':
			inBracket = false
		case inBracket:
		default:
			switch c | 0x20 {
			case 'y', 'm', 'd', 'h', 's':
				return true
			}
		}
	}
	return false
}
