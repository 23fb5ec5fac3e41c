package source

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/five82/gridview/internal/grid"
)

// Kind names a source implementation.
type Kind string

const (
	KindFile   Kind = "file"
	KindHTTP   Kind = "http"
	KindSQLite Kind = "sqlite"
)

// Source is a closable row fetcher.
type Source interface {
	Fetch(ctx context.Context, filters map[string]string) ([]grid.Row, error)
	Close() error
}

// Options select and configure a source.
type Options struct {
	Kind     Kind
	Location string
	RowsPath string
	Query    string
}

// Open builds the source described by opts. An empty kind is inferred from
// the location.
func Open(ctx context.Context, opts Options) (Source, error) {
	loc := strings.TrimSpace(opts.Location)
	if loc == "" {
		return nil, fmt.Errorf("source location is empty")
	}
	kind := opts.Kind
	if kind == "" {
		kind = InferKind(loc)
	}
	switch kind {
	case KindFile:
		return NewFile(loc, opts.RowsPath), nil
	case KindHTTP:
		src, err := NewHTTP(loc, opts.RowsPath)
		if err != nil {
			return nil, err
		}
		return src, nil
	case KindSQLite:
		src, err := OpenSQLite(ctx, loc, opts.Query)
		if err != nil {
			return nil, err
		}
		return src, nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", kind)
	}
}

// InferKind guesses the kind from a location.
func InferKind(location string) Kind {
	lower := strings.ToLower(location)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return KindHTTP
	}
	switch filepath.Ext(lower) {
	case ".db", ".sqlite", ".sqlite3":
		return KindSQLite
	}
	return KindFile
}
