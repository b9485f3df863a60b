package converter

import (
	"path/filepath"
	"strings"

	"github.com/insightdelivered/finmd/internal/models"
)

// DetectFormat resolves the format of an upload. Precedence: a hint naming a
// known format, then the filename extension, then the declared content type,
// then RAW_CSV. An unknown hint is ignored rather than rejected.
func DetectFormat(filename, contentType, hint string) models.InputFormat {
	if hint != "" {
		if f, ok := models.ParseInputFormat(hint); ok {
			return f
		}
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return models.FormatStatement
	case ".csv":
		return models.FormatRawCSV
	case ".xlsx", ".xls":
		return models.FormatExcel
	}

	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "pdf"):
		return models.FormatStatement
	case strings.Contains(ct, "csv"):
		return models.FormatRawCSV
	case strings.Contains(ct, "spreadsheet"), strings.Contains(ct, "excel"):
		return models.FormatExcel
	}

	// Best-effort text parse beats rejecting the upload.
	return models.FormatRawCSV
}
