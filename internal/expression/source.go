package expression

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed data/expressions.yml
var defaultData []byte

type document struct {
	Expressions []Expression `yaml:"expressions" json:"expressions"`
}

// Parse reads a catalog document. JSON documents are accepted as well.
func Parse(r io.Reader) (*Catalog, error) {
	var doc document
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, ErrEmptyCatalog
		}
		return nil, fmt.Errorf("decoder.Decode() > %w", err)
	}
	return NewCatalog(doc.Expressions)
}

// LoadDefault returns the catalog bundled with the binary
func LoadDefault() (*Catalog, error) {
	catalog, err := Parse(bytes.NewReader(defaultData))
	if err != nil {
		return nil, fmt.Errorf("Parse(embedded) > %w", err)
	}
	return catalog, nil
}

func LoadFile(path string) (*Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("os.Open(%s) > %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	catalog, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("Parse(%s) > %w", path, err)
	}
	return catalog, nil
}

// Options chooses where the catalog comes from. SourceURL wins over File,
// and the embedded data set is used when both are empty.
type Options struct {
	File             string
	SourceURL        string
	MaxRetryAttempts uint

	// CacheDirectory keeps the last downloaded document of SourceURL when set
	CacheDirectory string
}

func Load(ctx context.Context, opts Options) (*Catalog, error) {
	switch {
	case opts.SourceURL != "":
		var sourceOpts []RemoteSourceOption
		if opts.CacheDirectory != "" {
			sourceOpts = append(sourceOpts, WithFileCache(NewFileCache(opts.CacheDirectory)))
		}
		source := NewRemoteSource(opts.SourceURL, opts.MaxRetryAttempts, sourceOpts...)
		defer func() {
			_ = source.Close()
		}()
		slog.Default().Debug("loading expressions", "url", opts.SourceURL)
		return source.Fetch(ctx)
	case opts.File != "":
		slog.Default().Debug("loading expressions", "file", opts.File)
		return LoadFile(opts.File)
	default:
		return LoadDefault()
	}
}
