package extractor

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// Document is the text content of a PDF, one entry per page.
type Document struct {
	Pages    []string
	NumPages int
}

// Text joins the page texts in reading order, separating pages with a blank line.
func (d *Document) Text() string {
	var parts []string
	for _, p := range d.Pages {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "\n\n")
}

// ExtractPDF reads a PDF held in memory and returns the text of each page.
// It tries several extraction methods of the pdf library and keeps the first
// one producing readable text, or failing that the first producing any text.
// A document without a text layer is not an
// error: it comes back with empty pages.
func ExtractPDF(data []byte) (doc *Document, err error) {
	// The pdf library panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	doc = &Document{NumPages: numPages}
	doc.Pages = selectPages([]func() []string{
		// GetTextByRow keeps the layout best.
		func() []string { return extractByRow(r, numPages) },
		// Page.Content() with coordinate-based row reconstruction.
		func() []string { return extractByContent(r, numPages) },
		// Page.GetPlainText with the font map.
		func() []string { return extractByPagePlainText(r, numPages) },
		// Reader.GetPlainText over the whole document.
		func() []string { return []string{extractByReaderPlainText(r)} },
	})
	return doc, nil
}

// selectPages runs the extraction methods in order and returns the first
// readable result. When none is readable it falls back to the first result
// that has any text, then to the first result.
func selectPages(methods []func() []string) []string {
	var first, firstWithText []string
	for i, method := range methods {
		pages := method()
		if isReadableText(pages) {
			return pages
		}
		if i == 0 {
			first = pages
		}
		if firstWithText == nil && totalTextLen(pages) > 0 {
			firstWithText = pages
		}
	}
	if firstWithText != nil {
		return firstWithText
	}
	return first
}

// textQuality returns the ratio of basic ASCII readable characters (a-z, A-Z,
// 0-9, common punctuation, whitespace) to total characters. Returns 0.0-1.0.
// unicode.IsLetter() is too broad: it matches the accented characters that
// show up in garbage from identity-encoded fonts.
func textQuality(pages []string) float64 {
	total := 0
	readable := 0
	for _, page := range pages {
		for _, r := range page {
			total++
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
				(r >= '0' && r <= '9') || unicode.IsSpace(r) ||
				strings.ContainsRune(".,-/:;()'\"£$€%&@#!?+=*", r) {
				readable++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

// isReadableText reports whether pages carry text and more than 60% of it
// is readable.
func isReadableText(pages []string) bool {
	if totalTextLen(pages) == 0 {
		return false
	}
	return textQuality(pages) > 0.6
}

// Method 1: GetTextByRow, best for well-structured PDFs
func extractByRow(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			line := strings.TrimSpace(strings.Join(parts, " "))
			if line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

// Method 2: Page.Content(), lower-level access to text objects.
// Groups text pieces by Y coordinate to reconstruct rows, then sorts by X.
func extractByContent(r *pdf.Reader, numPages int) []string {
	type textItem struct {
		x float64
		s string
	}

	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		if len(content.Text) == 0 {
			continue
		}

		rowMap := make(map[int][]textItem)
		for _, t := range content.Text {
			if strings.TrimSpace(t.S) == "" {
				continue
			}
			yKey := int(math.Round(t.Y))
			rowMap[yKey] = append(rowMap[yKey], textItem{x: t.X, s: t.S})
		}

		// PDF Y grows bottom-to-top.
		yKeys := make([]int, 0, len(rowMap))
		for y := range rowMap {
			yKeys = append(yKeys, y)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(yKeys)))

		var lines []string
		for _, y := range yKeys {
			items := rowMap[y]
			sort.Slice(items, func(a, b int) bool {
				return items[a].x < items[b].x
			})

			var parts []string
			var prevX float64
			for j, item := range items {
				if j > 0 && item.x-prevX > 15 {
					parts = append(parts, " ")
				}
				parts = append(parts, item.s)
				prevX = item.x
			}
			line := strings.TrimSpace(strings.Join(parts, ""))
			if line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

// Method 3: Page.GetPlainText with fonts
func extractByPagePlainText(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		fonts := make(map[string]*pdf.Font)
		for _, name := range page.Fonts() {
			f := page.Font(name)
			fonts[name] = &f
		}

		text, err := page.GetPlainText(fonts)
		if err != nil {
			continue
		}
		pages = append(pages, strings.TrimSpace(text))
	}
	return pages
}

// Method 4: Reader.GetPlainText, whole-document extraction
func extractByReaderPlainText(r *pdf.Reader) string {
	reader, err := r.GetPlainText()
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func totalTextLen(pages []string) int {
	n := 0
	for _, p := range pages {
		n += len(strings.TrimSpace(p))
	}
	return n
}
