package source

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver (pure Go)

	"github.com/five82/gridview/internal/grid"
)

// SQLite runs a query against a SQLite database and returns one row per
// result row, keyed by column name.
type SQLite struct {
	db    *sql.DB
	query string
}

// OpenSQLite opens the database at path and checks that it is reachable.
func OpenSQLite(ctx context.Context, path, query string) (*SQLite, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("sqlite source %s: query is empty", path)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return &SQLite{db: db, query: query}, nil
}

// Fetch runs the query. Filters whose name appears as a named parameter
// (:name, @name or $name) in the query are bound; others are ignored.
func (s *SQLite) Fetch(ctx context.Context, filters map[string]string) ([]grid.Row, error) {
	rows, err := s.db.QueryContext(ctx, s.query, namedArgs(s.query, filters)...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	out := make([]grid.Row, 0, 64)
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		row := make(grid.Row, len(cols))
		for i, name := range cols {
			row[name] = normalizeSQLValue(vals[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func namedArgs(query string, filters map[string]string) []any {
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var args []any
	for _, k := range keys {
		for _, prefix := range []string{":", "@", "$"} {
			if strings.Contains(query, prefix+k) {
				args = append(args, sql.Named(k, filters[k]))
				break
			}
		}
	}
	return args
}

// normalizeSQLValue maps driver values onto the shapes JSON sources produce
// so formatting and sorting behave the same for every source.
func normalizeSQLValue(v any) any {
	switch val := v.(type) {
	case []byte:
		return string(val)
	case int64:
		return float64(val)
	case int:
		return float64(val)
	default:
		return val
	}
}
