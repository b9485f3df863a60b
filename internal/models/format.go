package models

import "strings"

// InputFormat identifies which renderer applies to a request.
type InputFormat string

const (
	// FormatTransactions is a list of transactions (bank, card, bookkeeping).
	FormatTransactions InputFormat = "TRANSACTIONS"
	// FormatPortfolio is a list of holdings.
	FormatPortfolio InputFormat = "PORTFOLIO"
	// FormatRawCSV is delimited text pasted from a spreadsheet or bank export.
	FormatRawCSV InputFormat = "RAW_CSV"
	// FormatStatement is transactions plus statement metadata, or an uploaded PDF.
	FormatStatement InputFormat = "STATEMENT"
	// FormatExcel is a multi-sheet workbook upload.
	FormatExcel InputFormat = "EXCEL"
)

// FormatTimeSeries labels results produced by the market-data normalizer.
// It is never accepted as a request format.
const FormatTimeSeries InputFormat = "TIME_SERIES"

var knownFormats = []InputFormat{
	FormatTransactions,
	FormatPortfolio,
	FormatRawCSV,
	FormatStatement,
	FormatExcel,
}

// ParseInputFormat matches s against the known format names, ignoring case.
// Surrounding whitespace is not trimmed.
func ParseInputFormat(s string) (InputFormat, bool) {
	for _, f := range knownFormats {
		if strings.EqualFold(s, string(f)) {
			return f, true
		}
	}
	return "", false
}

func (f InputFormat) String() string {
	return string(f)
}
