package writer

import (
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

var cellEscaper = strings.NewReplacer(
	"\r\n", " ",
	"\n", " ",
	"\r", " ",
	`\`, `\\`,
	"|", `\|`,
)

// EscapeCell makes s safe to place inside a markdown table cell: backslashes
// and pipes are escaped and line breaks become spaces so the row stays on one
// line. A backslash already in s can never pair with an escaped pipe.
func EscapeCell(s string) string {
	return cellEscaper.Replace(s)
}

// TableWriter appends markdown table lines to a builder.
type TableWriter struct {
	b *strings.Builder
}

// NewTableWriter returns a TableWriter that appends to b.
func NewTableWriter(b *strings.Builder) *TableWriter {
	return &TableWriter{b: b}
}

// Header writes the column titles followed by the separator row.
func (w *TableWriter) Header(columns ...string) {
	w.Row(columns...)
	w.Separator(len(columns))
}

// Row writes one table row. Every cell is escaped.
func (w *TableWriter) Row(cells ...string) {
	w.b.WriteString("|")
	for _, c := range cells {
		w.b.WriteString(" ")
		w.b.WriteString(EscapeCell(c))
		w.b.WriteString(" |")
	}
	w.b.WriteString("\n")
}

// Separator writes the header separator row for n columns.
func (w *TableWriter) Separator(n int) {
	w.b.WriteString("|")
	for i := 0; i < n; i++ {
		w.b.WriteString(" --- |")
	}
	w.b.WriteString("\n")
}

// FormatDecimal renders d in plain notation, keeping the scale it was parsed
// with ("100.50" stays "100.50", "1E+3" becomes "1000").
func FormatDecimal(d decimal.Decimal) string {
	if exp := d.Exponent(); exp < 0 {
		return d.StringFixed(-exp)
	}
	return d.String()
}

// FormatNullDecimal renders an optional decimal, or "" when it is absent.
func FormatNullDecimal(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return FormatDecimal(d.Decimal)
}

// FormatDate renders a calendar date as YYYY-MM-DD.
func FormatDate(d civil.Date) string {
	return d.String()
}
