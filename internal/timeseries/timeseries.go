// Package timeseries compacts market-data time-series documents (the
// "Meta Data" + "Time Series (...)" shape used by Alpha Vantage) into a form
// that is cheap for a language model to read.
package timeseries

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrUnsupportedShape means the document lacks the metadata or series object.
var ErrUnsupportedShape = errors.New("unsupported time-series shape")

const (
	metaKey         = "Meta Data"
	seriesKeyPrefix = "Time Series"

	symbolKey   = "2. Symbol"
	intervalKey = "4. Interval"
	timeZoneKey = "6. Time Zone"

	openKey   = "1. open"
	highKey   = "2. high"
	lowKey    = "3. low"
	closeKey  = "4. close"
	volumeKey = "5. volume"

	timestampLayout = "2006-01-02 15:04:05"
)

// Bar is one OHLCV sample.
type Bar struct {
	Time   string
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume int64
}

// Series is a normalized time series, newest bar first.
type Series struct {
	Symbol   string
	Interval string
	TimeZone string
	Bars     []Bar
}

// Normalize extracts the series from a decoded JSON document. Values may be
// JSON numbers (float64 or json.Number) or numeric strings. A bar with any
// field missing or unparsable is dropped; the rest are kept.
func Normalize(payload map[string]any) (*Series, error) {
	meta, ok := payload[metaKey].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: missing %q object", ErrUnsupportedShape, metaKey)
	}

	symbol, okSymbol := stringValue(meta[symbolKey])
	interval, okInterval := stringValue(meta[intervalKey])
	tz, okTZ := stringValue(meta[timeZoneKey])
	if !okSymbol || !okInterval || !okTZ {
		return nil, fmt.Errorf("%w: missing symbol, interval or time zone fields", ErrUnsupportedShape)
	}

	key, ok := findSeriesKey(payload)
	if !ok {
		return nil, fmt.Errorf("%w: no %q key found", ErrUnsupportedShape, seriesKeyPrefix)
	}
	raw, ok := payload[key].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: time series is not an object", ErrUnsupportedShape)
	}

	timestamps := make([]string, 0, len(raw))
	for ts := range raw {
		timestamps = append(timestamps, ts)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(timestamps)))

	series := &Series{
		Symbol:   symbol,
		Interval: normalizeInterval(interval),
		TimeZone: tz,
		Bars:     make([]Bar, 0, len(timestamps)),
	}
	for _, ts := range timestamps {
		bar, ok := parseBar(ts, raw[ts])
		if !ok {
			continue
		}
		series.Bars = append(series.Bars, bar)
	}
	return series, nil
}

func parseBar(ts string, v any) (Bar, bool) {
	fields, ok := v.(map[string]any)
	if !ok {
		return Bar{}, false
	}

	open, ok1 := toDecimal(fields[openKey])
	high, ok2 := toDecimal(fields[highKey])
	low, ok3 := toDecimal(fields[lowKey])
	closing, ok4 := toDecimal(fields[closeKey])
	volume, ok5 := toInt64(fields[volumeKey])
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
		return Bar{}, false
	}

	return Bar{
		Time:   timeLabel(ts),
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closing,
		Volume: volume,
	}, true
}

// findSeriesKey returns the first key, in sorted order, that starts with
// "Time Series".
func findSeriesKey(payload map[string]any) (string, bool) {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		if strings.HasPrefix(k, seriesKeyPrefix) {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return "", false
	}
	sort.Strings(keys)
	return keys[0], true
}

func stringValue(v any) (string, bool) {
	switch v := v.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	default:
		return fmt.Sprint(v), true
	}
}

// normalizeInterval shortens provider interval labels: "5min" -> "5m",
// daily/weekly/monthly -> "1d"/"1w"/"1mo".
func normalizeInterval(raw string) string {
	v := strings.TrimSpace(raw)
	lower := strings.ToLower(v)

	switch {
	case strings.HasSuffix(lower, "min"):
		return strings.TrimSuffix(lower, "min") + "m"
	case strings.Contains(lower, "daily"):
		return "1d"
	case strings.Contains(lower, "weekly"):
		return "1w"
	case strings.Contains(lower, "monthly"):
		return "1mo"
	}
	return v
}

// timeLabel reduces "2024-01-05 15:55:00" to "15:55". Timestamps in other
// shapes fall back to the part after the first space, cut to HH:mm.
func timeLabel(ts string) string {
	if t, err := time.Parse(timestampLayout, ts); err == nil {
		return t.Format("15:04")
	}

	idx := strings.IndexByte(ts, ' ')
	if idx <= 0 || idx+1 >= len(ts) {
		return ts
	}
	timePart := ts[idx+1:]

	first := strings.IndexByte(timePart, ':')
	if first < 0 {
		return timePart
	}
	second := strings.IndexByte(timePart[first+1:], ':')
	if second < 0 {
		return timePart
	}
	return timePart[:first+1+second]
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch v := v.(type) {
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		return d, err == nil
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		return d, err == nil
	case float64:
		return decimal.NewFromFloat(v), true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	}
	return decimal.Decimal{}, false
}

func toInt64(v any) (int64, bool) {
	switch v := v.(type) {
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return n, err == nil
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, true
		}
		// 2000000.0 or 1e6: keep the integer part.
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return 0, false
		}
		return d.IntPart(), true
	case float64:
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	}
	return 0, false
}
