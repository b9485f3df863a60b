package converter

import (
	"strings"

	"github.com/insightdelivered/finmd/internal/models"
	"github.com/insightdelivered/finmd/internal/writer"
)

const noContentMarkdown = "_No content to convert._\n"

// RenderRawCSV renders comma or tab separated text as a markdown table. The
// first non-empty line is the header. Data rows keep however many cells they
// have; nothing is padded or truncated to the header width.
func RenderRawCSV(content string) *models.Result {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	if len(lines) == 0 {
		return &models.Result{
			Markdown:  noContentMarkdown,
			Format:    string(models.FormatRawCSV),
			ItemCount: 0,
		}
	}

	var b strings.Builder
	tw := writer.NewTableWriter(&b)

	header := splitDelimited(lines[0])
	tw.Row(header...)
	tw.Separator(len(header))
	for _, line := range lines[1:] {
		tw.Row(splitDelimited(line)...)
	}

	return &models.Result{
		Markdown:  b.String(),
		Format:    string(models.FormatRawCSV),
		ItemCount: len(lines) - 1,
	}
}

// splitDelimited splits a line on commas and tabs. Commas between a pair of
// double quotes are kept as content. Escaped quotes ("") are not supported.
// Quote characters and surrounding whitespace are stripped from each cell.
func splitDelimited(line string) []string {
	var cells []string
	var cur strings.Builder
	inQuotes := false

	flush := func() {
		cell := strings.ReplaceAll(cur.String(), `"`, "")
		cells = append(cells, strings.TrimSpace(cell))
		cur.Reset()
	}

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			cur.WriteRune(r)
		case r == '\t', r == ',' && !inQuotes:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return cells
}
