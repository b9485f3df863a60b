package converter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/insightdelivered/finmd/internal/extractor"
	"github.com/insightdelivered/finmd/internal/models"
	"github.com/insightdelivered/finmd/internal/writer"
)

const noTextMarkdown = "_No extractable text was found. The document may be scanned or image-based; " +
	"optical character recognition (OCR) is not implemented._\n"

var (
	lineEndings    = strings.NewReplacer("\r\n", "\n", "\r", "\n")
	paragraphBreak = regexp.MustCompile(`\n\s*\n`)
)

// RenderDocument renders the text of a PDF as markdown paragraphs under a
// heading naming the file and its page count. The item count is the number of
// blank-line separated chunks found, including empty ones.
func RenderDocument(data []byte, filename string) (*models.Result, error) {
	doc, err := extractor.ExtractPDF(data)
	if err != nil {
		return nil, &DecodeError{Format: models.FormatStatement, Err: err}
	}

	text := doc.Text()
	if strings.TrimSpace(text) == "" {
		return &models.Result{
			Markdown:  noTextMarkdown,
			Format:    string(models.FormatStatement),
			ItemCount: 0,
		}, nil
	}

	name := filename
	if name == "" {
		name = "document"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n**Pages:** %d\n", writer.EscapeCell(name), doc.NumPages)

	paragraphs, chunks := splitParagraphs(text)
	for _, p := range paragraphs {
		b.WriteString("\n")
		b.WriteString(p)
		b.WriteString("\n")
	}

	return &models.Result{
		Markdown:  b.String(),
		Format:    string(models.FormatStatement),
		ItemCount: chunks,
	}, nil
}

// splitParagraphs splits text on blank lines after normalizing CRLF and lone
// CR to LF. Each paragraph has its line breaks folded into spaces. Chunks
// that are empty or whitespace-only are dropped from paragraphs but still
// counted in chunks.
func splitParagraphs(text string) (paragraphs []string, chunks int) {
	raw := paragraphBreak.Split(lineEndings.Replace(text), -1)
	for _, p := range raw {
		p = strings.TrimSpace(strings.ReplaceAll(p, "\n", " "))
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs, len(raw)
}
