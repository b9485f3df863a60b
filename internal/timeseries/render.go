package timeseries

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/insightdelivered/finmd/internal/models"
	"github.com/insightdelivered/finmd/internal/writer"
)

// Compact is the short-key JSON form of a series. Each row of D is
// [time, open, high, low, close, volume].
type Compact struct {
	Symbol   string  `json:"s"`
	Interval string  `json:"i"`
	TimeZone string  `json:"tz"`
	Data     [][]any `json:"d"`
}

// Compact returns the short-key form. Prices are emitted as JSON numbers.
func (s *Series) Compact() Compact {
	data := make([][]any, 0, len(s.Bars))
	for _, b := range s.Bars {
		data = append(data, []any{
			b.Time,
			json.Number(writer.FormatDecimal(b.Open)),
			json.Number(writer.FormatDecimal(b.High)),
			json.Number(writer.FormatDecimal(b.Low)),
			json.Number(writer.FormatDecimal(b.Close)),
			b.Volume,
		})
	}
	return Compact{
		Symbol:   s.Symbol,
		Interval: s.Interval,
		TimeZone: s.TimeZone,
		Data:     data,
	}
}

// Render renders the series as a markdown table, newest bar first.
func Render(s *Series) *models.Result {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s (%s, %s)\n\n",
		writer.EscapeCell(s.Symbol), writer.EscapeCell(s.Interval), writer.EscapeCell(s.TimeZone))

	tw := writer.NewTableWriter(&b)
	tw.Header("Time", "Open", "High", "Low", "Close", "Volume")
	for _, bar := range s.Bars {
		tw.Row(
			bar.Time,
			writer.FormatDecimal(bar.Open),
			writer.FormatDecimal(bar.High),
			writer.FormatDecimal(bar.Low),
			writer.FormatDecimal(bar.Close),
			strconv.FormatInt(bar.Volume, 10),
		)
	}

	return &models.Result{
		Markdown:  b.String(),
		Format:    string(models.FormatTimeSeries),
		ItemCount: len(s.Bars),
	}
}
