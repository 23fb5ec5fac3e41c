package state

import (
	"strconv"
	"strings"
	"time"

	"github.com/five82/gridview/internal/grid"
)

func matchesQuickFilter(row grid.Row, cols []grid.Column, needle string) bool {
	searched := false
	for _, col := range cols {
		if !col.QuickFilter {
			continue
		}
		searched = true
		if strings.Contains(strings.ToLower(row.Text(grid.ResolveField(col))), needle) {
			return true
		}
		if strings.Contains(strings.ToLower(row.Text(col.DataProperty)), needle) {
			return true
		}
	}
	return !searched
}

func matchesAdvancedFilters(row grid.Row, filters []grid.AdvancedFilter) bool {
	ids := row.AdvancedFilterIDs()
	tags := make([]string, len(ids))
	for i, id := range ids {
		tags[i] = grid.FilterTag(id)
	}
	return grid.RowVisible(tags, filters)
}

// tagAdvancedFilters records which filters match row, unless the source
// already supplied the list.
func tagAdvancedFilters(row grid.Row, filters []grid.AdvancedFilter) {
	if _, ok := row[grid.FieldShownByAdvancedFilters]; ok {
		return
	}
	var ids []string
	for _, f := range filters {
		if f.DataProperty == "" {
			continue
		}
		if grid.FormatValue(row.Value(f.DataProperty)) == grid.FormatValue(f.Value) {
			ids = append(ids, f.ID)
		}
	}
	if ids != nil {
		row[grid.FieldShownByAdvancedFilters] = ids
	}
}

// compareValues orders raw row values. Numbers and times compare by value,
// everything else case-insensitively as text. Missing values sort last.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return compareOrdered(fa, fb)
		}
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}
	return strings.Compare(strings.ToLower(grid.FormatValue(a)), strings.ToLower(grid.FormatValue(b)))
}

func compareOrdered(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
