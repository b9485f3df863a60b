package extractortest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
)

const firstSheetPath = "xl/worksheets/sheet1.xml"

// WithErrorCell rewrites cell on the first worksheet of an xlsx archive into
// an error cell holding code, such as "#DIV/0!". The cell must already hold a
// value so that it is present in the sheet XML.
func WithErrorCell(data []byte, cell, code string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	pattern := regexp.MustCompile(`<c r="` + regexp.QuoteMeta(cell) + `"[^>]*>.*?</c>`)
	replacement := fmt.Sprintf(`<c r="%s" t="e"><v>%s</v></c>`, cell, code)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	found := false
	for _, f := range zr.File {
		content, err := readEntry(f)
		if err != nil {
			return nil, err
		}
		if f.Name == firstSheetPath {
			if !pattern.Match(content) {
				return nil, fmt.Errorf("cell %s not found in %s", cell, firstSheetPath)
			}
			content = pattern.ReplaceAllLiteral(content, []byte(replacement))
			found = true
		}

		w, err := zw.CreateHeader(&zip.FileHeader{Name: f.Name, Method: zip.Deflate})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(content); err != nil {
			return nil, err
		}
	}
	if !found {
		return nil, fmt.Errorf("archive has no %s", firstSheetPath)
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
