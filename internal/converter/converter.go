// Package converter turns financial payloads and uploaded files into
// markdown for language-model consumption. Every renderer is a pure function
// of its input; nothing is shared between calls.
package converter

import (
	"fmt"
	"strings"

	"github.com/insightdelivered/finmd/internal/models"
	"github.com/insightdelivered/finmd/internal/timeseries"
)

// Convert renders a structured payload. It fails with ErrMissingPayload when
// the list or text the payload's format requires is empty.
func Convert(p models.Payload) (*models.Result, error) {
	switch p := p.(type) {
	case models.TransactionsPayload:
		if len(p.Transactions) == 0 {
			return nil, fmt.Errorf("%w: TRANSACTIONS requires a non-empty transactions list", ErrMissingPayload)
		}
		return RenderTransactions(p.Transactions, nil), nil
	case models.StatementPayload:
		if len(p.Transactions) == 0 {
			return nil, fmt.Errorf("%w: STATEMENT requires a non-empty transactions list", ErrMissingPayload)
		}
		return RenderTransactions(p.Transactions, p.Metadata), nil
	case models.PortfolioPayload:
		if len(p.Holdings) == 0 {
			return nil, fmt.Errorf("%w: PORTFOLIO requires a non-empty holdings list", ErrMissingPayload)
		}
		return RenderPortfolio(p.Holdings), nil
	case models.RawCSVPayload:
		if strings.TrimSpace(p.Content) == "" {
			return nil, fmt.Errorf("%w: RAW_CSV requires non-blank rawContent", ErrMissingPayload)
		}
		return RenderRawCSV(p.Content), nil
	case nil:
		return nil, fmt.Errorf("%w: no payload", ErrMissingPayload)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedFormat, p)
	}
}

// PayloadFromEnvelope selects the envelope field matching its format tag.
// Fields belonging to other formats are ignored.
func PayloadFromEnvelope(env models.Envelope) (models.Payload, error) {
	if env.Format == "" {
		return nil, fmt.Errorf("%w: format is required", ErrMissingPayload)
	}
	format, ok := models.ParseInputFormat(env.Format)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, env.Format)
	}

	switch format {
	case models.FormatTransactions:
		return models.TransactionsPayload{Transactions: env.Transactions}, nil
	case models.FormatPortfolio:
		return models.PortfolioPayload{Holdings: env.Holdings}, nil
	case models.FormatRawCSV:
		return models.RawCSVPayload{Content: env.RawContent}, nil
	case models.FormatStatement:
		return models.StatementPayload{Metadata: env.Metadata, Transactions: env.Transactions}, nil
	default:
		return nil, fmt.Errorf("%w: %s is only accepted as a file upload", ErrUnsupportedFormat, format)
	}
}

// ConvertFile detects the format of an upload and renders it. The upload
// must be fully read into memory before the call.
func ConvertFile(u models.FileUpload) (*models.Result, error) {
	if len(u.Data) == 0 {
		return nil, fmt.Errorf("%w: uploaded file is empty", ErrMissingPayload)
	}

	format := DetectFormat(u.Filename, u.ContentType, u.Hint)
	switch format {
	case models.FormatStatement:
		return RenderDocument(u.Data, u.Filename)
	case models.FormatExcel:
		return RenderWorkbook(u.Data)
	case models.FormatRawCSV:
		return RenderRawCSV(string(u.Data)), nil
	default:
		return nil, fmt.Errorf("%w: no file converter for %s (content type %q)", ErrUnrecognizedUpload, format, u.ContentType)
	}
}

// ConvertTimeSeries normalizes a market-data time-series document and renders
// it as a markdown table. Bars with missing or non-numeric fields are dropped.
func ConvertTimeSeries(payload map[string]any) (*models.Result, error) {
	series, err := timeseries.Normalize(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingPayload, err)
	}
	return timeseries.Render(series), nil
}
