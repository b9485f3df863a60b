package writer

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
)

// WritePreview renders markdown for a terminal using glamour.
func WritePreview(w io.Writer, markdown, style string, width int) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	out, err := r.Render(markdown)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}

	_, err = io.WriteString(w, out)
	return err
}
