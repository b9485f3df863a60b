package converter

import (
	"strings"

	"github.com/insightdelivered/finmd/internal/models"
	"github.com/insightdelivered/finmd/internal/writer"
)

var transactionColumns = []string{"Date", "Description", "Amount", "Category", "Currency", "Account"}

// RenderTransactions renders transactions in input order. When meta is not
// nil the result is labelled STATEMENT and starts with a bullet per present
// metadata field.
func RenderTransactions(txns []models.TransactionItem, meta *models.StatementMetadata) *models.Result {
	var b strings.Builder
	format := models.FormatTransactions

	if meta != nil {
		format = models.FormatStatement
		writeStatementHeader(&b, meta)
	}

	tw := writer.NewTableWriter(&b)
	tw.Header(transactionColumns...)
	for _, t := range txns {
		tw.Row(
			writer.FormatDate(t.Date),
			t.Description,
			writer.FormatDecimal(t.Amount),
			t.Category,
			t.Currency,
			t.AccountID,
		)
	}

	return &models.Result{
		Markdown:  b.String(),
		Format:    string(format),
		ItemCount: len(txns),
	}
}

func writeStatementHeader(b *strings.Builder, meta *models.StatementMetadata) {
	type field struct {
		label string
		value string
	}

	var fields []field
	if meta.AccountName != "" {
		fields = append(fields, field{"Account name", meta.AccountName})
	}
	if meta.AccountID != "" {
		fields = append(fields, field{"Account ID", meta.AccountID})
	}
	if meta.PeriodStart != nil {
		fields = append(fields, field{"Period start", writer.FormatDate(*meta.PeriodStart)})
	}
	if meta.PeriodEnd != nil {
		fields = append(fields, field{"Period end", writer.FormatDate(*meta.PeriodEnd)})
	}
	if meta.OpeningBalance.Valid {
		fields = append(fields, field{"Opening balance", writer.FormatDecimal(meta.OpeningBalance.Decimal)})
	}
	if meta.ClosingBalance.Valid {
		fields = append(fields, field{"Closing balance", writer.FormatDecimal(meta.ClosingBalance.Decimal)})
	}
	if meta.Currency != "" {
		fields = append(fields, field{"Currency", meta.Currency})
	}

	if len(fields) == 0 {
		return
	}
	for _, f := range fields {
		b.WriteString("- **")
		b.WriteString(f.label)
		b.WriteString(":** ")
		b.WriteString(writer.EscapeCell(f.value))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}
