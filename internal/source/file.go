package source

import (
	"context"
	"fmt"
	"os"

	"github.com/five82/gridview/internal/grid"
)

// File reads rows from a JSON file.
type File struct {
	path     string
	rowsPath string
}

// NewFile returns a File source.
func NewFile(path, rowsPath string) *File {
	return &File{path: path, rowsPath: rowsPath}
}

// Path returns the file being read.
func (f *File) Path() string { return f.path }

// Fetch reads and decodes the file. Filters do not apply to files.
func (f *File) Fetch(ctx context.Context, _ map[string]string) ([]grid.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	rows, err := DecodeRows(data, f.rowsPath)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.path, err)
	}
	return rows, nil
}

// Close is a no-op.
func (f *File) Close() error { return nil }
