package converter

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/insightdelivered/finmd/internal/extractor/extractortest"
	"github.com/insightdelivered/finmd/internal/models"
)

func TestRenderTransactions(t *testing.T) {
	res := RenderTransactions(sampleTransactions(), nil)

	assert.Equal(t, "TRANSACTIONS", res.Format)
	assert.Equal(t, 3, res.ItemCount)

	rows := tableRows(res.Markdown)
	require.Len(t, rows, 5)
	assert.Equal(t, "| Date | Description | Amount | Category | Currency | Account |", rows[0])
	assert.Equal(t, "| --- | --- | --- | --- | --- | --- |", rows[1])
	assert.Equal(t, "| 2025-02-01 | Coffee | -3.50 | Food | GBP | acc-1 |", rows[2])
	assert.Equal(t, "| 2025-02-02 | Salary | 2500.00 |  | GBP |  |", rows[3])
	// Input order is kept even when dates are not sorted.
	assert.Equal(t, "| 2025-01-30 |  | 10 |  |  |  |", rows[4])
}

func TestRenderTransactions_EscapesPipes(t *testing.T) {
	txns := []models.TransactionItem{{
		Date:        date(2025, 3, 1),
		Description: "Transfer | savings\nline two",
		Amount:      dec("5"),
	}}
	res := RenderTransactions(txns, nil)

	rows := tableRows(res.Markdown)
	require.Len(t, rows, 3)
	assert.Contains(t, rows[2], `Transfer \| savings line two`)
	for _, row := range rows {
		assert.Equal(t, 7, countSeparators(row), row)
	}
}

func TestRenderTransactions_Statement(t *testing.T) {
	start := date(2025, 1, 1)
	meta := &models.StatementMetadata{
		AccountName:    "Everyday",
		PeriodStart:    &start,
		ClosingBalance: decimal.NewNullDecimal(dec("1200.40")),
		Currency:       "GBP",
	}
	res := RenderTransactions(sampleTransactions()[:1], meta)

	assert.Equal(t, "STATEMENT", res.Format)
	assert.Equal(t, 1, res.ItemCount)
	assert.True(t, strings.HasPrefix(res.Markdown,
		"- **Account name:** Everyday\n"+
			"- **Period start:** 2025-01-01\n"+
			"- **Closing balance:** 1200.40\n"+
			"- **Currency:** GBP\n"+
			"\n"+
			"| Date |"), res.Markdown)
}

func TestRenderTransactions_EmptyMetadata(t *testing.T) {
	res := RenderTransactions(sampleTransactions(), &models.StatementMetadata{})
	assert.Equal(t, "STATEMENT", res.Format)
	assert.True(t, strings.HasPrefix(res.Markdown, "| Date |"))
}

func TestRenderPortfolio(t *testing.T) {
	holdings := []models.HoldingItem{
		{Symbol: "AAPL", Quantity: dec("10"), Price: decimal.NewNullDecimal(dec("187.25")), Value: decimal.NewNullDecimal(dec("1872.50")), Currency: "USD"},
		{Symbol: "VWRL", Quantity: dec("3.5")},
	}
	res := RenderPortfolio(holdings)

	assert.Equal(t, "PORTFOLIO", res.Format)
	assert.Equal(t, 2, res.ItemCount)

	rows := tableRows(res.Markdown)
	require.Len(t, rows, 4)
	assert.Equal(t, "| Symbol | Quantity | Price | Value | Currency |", rows[0])
	assert.Equal(t, "| AAPL | 10 | 187.25 | 1872.50 | USD |", rows[2])
	assert.Equal(t, "| VWRL | 3.5 |  |  |  |", rows[3])
	for _, row := range rows {
		assert.Equal(t, 6, countSeparators(row), row)
	}
}

func TestRenderRawCSV(t *testing.T) {
	res := RenderRawCSV("a,b,c\n1,\"x,y\",3\n")

	assert.Equal(t, "RAW_CSV", res.Format)
	assert.Equal(t, 1, res.ItemCount)
	assert.Equal(t, "| a | b | c |\n| --- | --- | --- |\n| 1 | x,y | 3 |\n", res.Markdown)
}

func TestRenderRawCSV_RaggedAndTabs(t *testing.T) {
	res := RenderRawCSV("\r\n  name\tamount  \r\n\r\nrent\t100\textra\nfood\n")

	assert.Equal(t, 2, res.ItemCount)
	assert.Equal(t,
		"| name | amount |\n| --- | --- |\n| rent | 100 | extra |\n| food |\n",
		res.Markdown)
}

func TestRenderRawCSV_BackslashBeforePipe(t *testing.T) {
	res := RenderRawCSV("a,b\nC:\\|x,2")

	rows := tableRows(res.Markdown)
	require.Len(t, rows, 3)
	assert.Equal(t, `| C:\\\|x | 2 |`, rows[2])
	for _, row := range rows {
		assert.Equal(t, 3, countSeparators(row), row)
	}
}

func TestCountSeparators(t *testing.T) {
	assert.Equal(t, 3, countSeparators(`| a | b |`))
	assert.Equal(t, 2, countSeparators(`| a\|b |`))
	assert.Equal(t, 3, countSeparators(`| a\\|b |`))
}

func TestRenderRawCSV_Blank(t *testing.T) {
	res := RenderRawCSV("\n   \n\t\n")
	assert.Equal(t, 0, res.ItemCount)
	assert.Equal(t, noContentMarkdown, res.Markdown)
}

func TestSplitDelimited(t *testing.T) {
	tests := []struct {
		line     string
		expected []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{`"Smith, J", 10`, []string{"Smith, J", "10"}},
		{"a\tb,c", []string{"a", "b", "c"}},
		{"\"tab\tinside\"", []string{"tab", "inside"}},
		{"a,,", []string{"a", "", ""}},
		{"single", []string{"single"}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.expected, splitDelimited(tt.line))
		})
	}
}

func TestRenderWorkbook(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Name"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "Amount"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "Rent"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", 12.5))
	require.NoError(t, f.SetCellValue("Sheet1", "C2", true))
	require.NoError(t, f.SetCellFormula("Sheet1", "D2", "B2*2"))
	require.NoError(t, f.SetCellValue("Sheet1", "E2", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, f.SetCellValue("Sheet1", "C3", "late"))
	_, err := f.NewSheet("Empty")
	require.NoError(t, err)
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	res, err := ConvertFile(models.FileUpload{Data: buf.Bytes(), Filename: "report.XLSX"})
	require.NoError(t, err)

	assert.Equal(t, "EXCEL", res.Format)
	assert.Equal(t, 2, res.ItemCount)

	md := res.Markdown
	assert.True(t, strings.HasPrefix(md, "## Sheet: Sheet1\n\n"))
	assert.Contains(t, md, "| Name | Amount |  |  |  |\n| --- | --- | --- | --- | --- |\n")
	assert.Contains(t, md, "| Rent | 12.5 | true | B2*2 | 2024-01-15T00:00 |\n")
	assert.Contains(t, md, "|  |  | late |  |  |\n")
	assert.True(t, strings.HasSuffix(md, "\n## Sheet: Empty\n\n"+emptySheetMarkdown), md)
}

func TestRenderWorkbook_RowGapNotCounted(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "h"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", 21))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", 42))
	require.NoError(t, f.SetCellFormula("Sheet1", "B2", "A2*2"))
	require.NoError(t, f.SetCellValue("Sheet1", "A4", "after gap"))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	res, err := RenderWorkbook(buf.Bytes())
	require.NoError(t, err)

	assert.Equal(t, 2, res.ItemCount)
	assert.Equal(t, "## Sheet: Sheet1\n\n"+
		"| h |  |\n"+
		"| --- | --- |\n"+
		"| 21 | 42 |\n"+
		"| after gap |  |\n", res.Markdown)
	assert.NotContains(t, res.Markdown, "|  |  |\n")
}

func TestRenderWorkbook_ErrorCellIsEmpty(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "ratio"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "share"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "q1"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", 1))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	data, err := extractortest.WithErrorCell(buf.Bytes(), "B2", "#DIV/0!")
	require.NoError(t, err)

	res, err := RenderWorkbook(data)
	require.NoError(t, err)
	assert.Equal(t, 1, res.ItemCount)
	assert.Contains(t, res.Markdown, "| q1 |  |\n")
	assert.NotContains(t, res.Markdown, "#DIV/0!")
}

func TestFormatDateTime(t *testing.T) {
	assert.Equal(t, "2024-03-01T09:15", formatDateTime(time.Date(2024, 3, 1, 9, 15, 0, 0, time.UTC)))
	assert.Equal(t, "2024-03-01T09:15:42", formatDateTime(time.Date(2024, 3, 1, 9, 15, 42, 0, time.UTC)))
}

func TestRenderDocument(t *testing.T) {
	data := extractortest.PDF(
		[]string{"Monthly statement for January"},
		[]string{"Closing balance 1234.56"},
	)

	res, err := ConvertFile(models.FileUpload{Data: data, Filename: "jan.pdf"})
	require.NoError(t, err)

	assert.Equal(t, "STATEMENT", res.Format)
	assert.GreaterOrEqual(t, res.ItemCount, 2)
	assert.True(t, strings.HasPrefix(res.Markdown, "# jan.pdf\n\n**Pages:** 2\n"), res.Markdown)
	assert.Contains(t, res.Markdown, "1234.56")
}

func TestRenderDocument_NoText(t *testing.T) {
	res, err := RenderDocument(extractortest.PDF([]string{}), "scan.pdf")
	require.NoError(t, err)

	assert.Equal(t, "STATEMENT", res.Format)
	assert.Equal(t, 0, res.ItemCount)
	assert.Equal(t, noTextMarkdown, res.Markdown)
}

func TestRenderDocument_DefaultName(t *testing.T) {
	res, err := RenderDocument(extractortest.PDF([]string{"Hello there"}), "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Markdown, "# document\n"))
}

func TestSplitParagraphs(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		paragraphs []string
		chunks     int
	}{
		{"single line", "hello", []string{"hello"}, 1},
		{"blank line", "one\n\ntwo", []string{"one", "two"}, 2},
		{"crlf", "one\r\n\r\ntwo", []string{"one", "two"}, 2},
		{"lone cr", "one\r\rtwo", []string{"one", "two"}, 2},
		{"multi-line paragraph", "line a\nline b\n\nnext", []string{"line a line b", "next"}, 2},
		{"whitespace between breaks", "one\n \t \ntwo", []string{"one", "two"}, 2},
		{"whitespace-only leading chunk", "   \n\nbody", []string{"body"}, 2},
		{"trailing break", "body\n\n", []string{"body"}, 2},
		{"inner spaces trimmed", "  padded  \n\n  x  ", []string{"padded", "x"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paragraphs, chunks := splitParagraphs(tt.text)
			assert.Equal(t, tt.paragraphs, paragraphs)
			assert.Equal(t, tt.chunks, chunks)
		})
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		hint        string
		expected    models.InputFormat
	}{
		{"hint wins over extension", "data.csv", "text/csv", "STATEMENT", models.FormatStatement},
		{"hint is case-insensitive", "data.csv", "", "excel", models.FormatExcel},
		{"unknown hint ignored", "data.csv", "", "LEDGER", models.FormatRawCSV},
		{"uppercase extension", "report.XLSX", "", "", models.FormatExcel},
		{"legacy xls", "old.xls", "", "", models.FormatExcel},
		{"pdf extension", "s.pdf", "text/plain", "", models.FormatStatement},
		{"extension beats content type", "s.csv", "application/pdf", "", models.FormatRawCSV},
		{"pdf content type", "upload", "application/pdf", "", models.FormatStatement},
		{"excel content type", "upload", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "", models.FormatExcel},
		{"csv content type", "upload", "TEXT/CSV", "", models.FormatRawCSV},
		{"fallback", "blob.bin", "text/plain", "", models.FormatRawCSV},
		{"nothing known", "", "", "", models.FormatRawCSV},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectFormat(tt.filename, tt.contentType, tt.hint))
		})
	}
}
