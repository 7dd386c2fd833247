// Package report renders the learning progress as a markdown document.
package report

import (
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/mandolyte/mdtopdf"

	"github.com/at-ishikawa/dailyexpression/internal/expression"
	"github.com/at-ishikawa/dailyexpression/internal/statistics"
)

const embeddedTemplateName = "progress-report.md.go.tmpl"

//go:embed templates/progress-report.md.go.tmpl
var fallbackTemplate string

// Data is what the progress report template is executed with
type Data struct {
	Summary statistics.Summary
	Due     []expression.Expression
}

// ParseTemplate parses templatePath when it exists and falls back to the embedded template.
func ParseTemplate(templatePath string) (*template.Template, error) {
	funcMap := template.FuncMap{
		"join": strings.Join,
	}

	if templatePath != "" {
		if _, err := os.Stat(templatePath); err == nil {
			tmpl, err := template.New(filepath.Base(templatePath)).
				Funcs(funcMap).
				ParseFiles(templatePath)
			if err == nil {
				return tmpl, nil
			}
			slog.Default().Warn("failed to parse a templatePath",
				slog.String("templatePath", templatePath),
				slog.Any("error", err),
			)
		}
	}

	tmpl, err := template.New(embeddedTemplateName).
		Funcs(funcMap).
		Parse(fallbackTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded template: %w", err)
	}
	return tmpl, nil
}

func Render(w io.Writer, tmpl *template.Template, data Data) error {
	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}

type Writer struct {
	outputDirectory string
	tmpl            *template.Template
	theme           mdtopdf.Theme
}

type WriterOption func(*Writer)

// WithDarkTheme renders PDFs with the dark mdtopdf theme
func WithDarkTheme() WriterOption {
	return func(w *Writer) {
		w.theme = mdtopdf.DARK
	}
}

func NewWriter(outputDirectory, templatePath string, opts ...WriterOption) (*Writer, error) {
	tmpl, err := ParseTemplate(templatePath)
	if err != nil {
		return nil, fmt.Errorf("ParseTemplate(%s) > %w", templatePath, err)
	}
	w := &Writer{
		outputDirectory: outputDirectory,
		tmpl:            tmpl,
		theme:           mdtopdf.LIGHT,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// WriteMarkdown writes progress-<date>.md into the output directory and returns its path.
func (w *Writer) WriteMarkdown(data Data) (string, error) {
	if err := os.MkdirAll(w.outputDirectory, 0755); err != nil {
		return "", fmt.Errorf("os.MkdirAll(%s) > %w", w.outputDirectory, err)
	}

	path := filepath.Join(w.outputDirectory, fmt.Sprintf("progress-%s.md", data.Summary.Today))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("os.Create(%s) > %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	if err := Render(file, w.tmpl, data); err != nil {
		return "", fmt.Errorf("Render(%s) > %w", path, err)
	}
	return path, nil
}
