package expression

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileCache keeps the last catalog document downloaded from each source url,
// so that the catalog still loads while the source is unreachable.
type FileCache struct {
	rootDir string
}

func NewFileCache(cacheDirectory string) *FileCache {
	return &FileCache{
		rootDir: cacheDirectory,
	}
}

func (cache *FileCache) filePath(url string) string {
	return filepath.Join(cache.rootDir, ToID(url)+".yml")
}

func (cache *FileCache) store(url string, contents []byte) error {
	if err := os.MkdirAll(cache.rootDir, 0755); err != nil {
		return fmt.Errorf("os.MkdirAll(%s) > %w", cache.rootDir, err)
	}
	file, err := os.Create(cache.filePath(url))
	if err != nil {
		return fmt.Errorf("os.Create > %w", err)
	}
	defer func() {
		_ = file.Close()
	}()
	if _, err := file.Write(contents); err != nil {
		return fmt.Errorf("file.Write > %w", err)
	}
	return nil
}

func (cache *FileCache) read(url string) ([]byte, error) {
	file, err := os.Open(cache.filePath(url))
	if err != nil {
		return nil, fmt.Errorf("os.Open > %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	contents, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll > %w", err)
	}
	return contents, nil
}
