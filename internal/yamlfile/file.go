// Package yamlfile reads and writes YAML documents on disk.
package yamlfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Read decodes the YAML file at path into T
func Read[T any](path string) (T, error) {
	var result T

	file, err := os.Open(path)
	if err != nil {
		return result, fmt.Errorf("os.Open(%s) > %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	if err := yaml.NewDecoder(file).Decode(&result); err != nil {
		return result, fmt.Errorf("yaml.NewDecoder().Decode(%s) > %w", path, err)
	}
	return result, nil
}

// ReadOrZero is Read, except that a missing or empty file yields the zero value of T
func ReadOrZero[T any](path string) (T, error) {
	result, err := Read[T](path)
	if err == nil {
		return result, nil
	}
	var zero T
	if errors.Is(err, fs.ErrNotExist) {
		return zero, nil
	}
	if info, statErr := os.Stat(path); statErr == nil && info.Size() == 0 {
		return zero, nil
	}
	return zero, err
}

// Write encodes data to path, creating the parent directory when needed.
// The content is written to a temporary file first and renamed into place.
func Write[T any](path string, data T) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("os.MkdirAll(%s) > %w", dir, err)
	}

	file, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("os.CreateTemp(%s) > %w", dir, err)
	}
	tmpPath := file.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		_ = file.Close()
		return fmt.Errorf("yaml.NewEncoder().Encode(%s) > %w", path, err)
	}
	if err := encoder.Close(); err != nil {
		_ = file.Close()
		return fmt.Errorf("encoder.Close() > %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("file.Close() > %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("os.Rename(%s) > %w", path, err)
	}
	return nil
}
