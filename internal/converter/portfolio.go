package converter

import (
	"strings"

	"github.com/insightdelivered/finmd/internal/models"
	"github.com/insightdelivered/finmd/internal/writer"
)

var holdingColumns = []string{"Symbol", "Quantity", "Price", "Value", "Currency"}

// RenderPortfolio renders holdings in input order. Missing prices and values
// render as empty cells.
func RenderPortfolio(holdings []models.HoldingItem) *models.Result {
	var b strings.Builder
	tw := writer.NewTableWriter(&b)
	tw.Header(holdingColumns...)
	for _, h := range holdings {
		tw.Row(
			h.Symbol,
			writer.FormatDecimal(h.Quantity),
			writer.FormatNullDecimal(h.Price),
			writer.FormatNullDecimal(h.Value),
			h.Currency,
		)
	}

	return &models.Result{
		Markdown:  b.String(),
		Format:    string(models.FormatPortfolio),
		ItemCount: len(holdings),
	}
}
