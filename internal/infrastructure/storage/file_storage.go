// Package storage provides the durable storages behind anonymous carts.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/shopcraft/storefront/internal/domain/cart"
)

// FileStorage keeps a cart as a JSON array in a single file. Writes go to a
// temporary file in the same directory and are renamed over the target.
type FileStorage struct {
	path string
}

// NewFileStorage creates a FileStorage for path. The parent directory is
// created on first write.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Path returns the file backing the cart.
func (f *FileStorage) Path() string {
	return f.path
}

// Read implements cart.LocalStorage. A missing file is an empty cart.
func (f *FileStorage) Read(_ context.Context) ([]cart.Line, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []cart.Line{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cart file: %w", err)
	}
	if len(data) == 0 {
		return []cart.Line{}, nil
	}

	var lines []cart.Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("decode cart file %s: %w", f.path, err)
	}
	return lines, nil
}

// Write implements cart.LocalStorage.
func (f *FileStorage) Write(_ context.Context, lines []cart.Line) error {
	if lines == nil {
		lines = []cart.Line{}
	}
	data, err := json.MarshalIndent(lines, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create cart directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".cart-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp cart file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp cart file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp cart file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace cart file: %w", err)
	}
	return nil
}

var _ cart.LocalStorage = (*FileStorage)(nil)
