package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mandolyte/mdtopdf"
)

var ErrNotMarkdown = errors.New("report is not a markdown file")

// WritePDF converts the markdown report at markdownPath into a PDF next to it.
func (w *Writer) WritePDF(markdownPath string) (string, error) {
	if filepath.Ext(markdownPath) != ".md" {
		return "", fmt.Errorf("%w: %s", ErrNotMarkdown, markdownPath)
	}

	content, err := os.ReadFile(markdownPath)
	if err != nil {
		return "", fmt.Errorf("os.ReadFile(%s) > %w", markdownPath, err)
	}

	pdfPath := strings.TrimSuffix(markdownPath, ".md") + ".pdf"
	renderer := mdtopdf.NewPdfRenderer("P", "A4", pdfPath, "", nil, w.theme)
	if err := renderer.Process(content); err != nil {
		return "", fmt.Errorf("renderer.Process(%s) > %w", markdownPath, err)
	}
	return pdfPath, nil
}
