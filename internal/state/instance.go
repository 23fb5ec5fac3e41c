package state

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/five82/gridview/internal/grid"
)

// instance is the per-component state. All access holds Store.mu.
type instance struct {
	def     grid.Definition
	request grid.RequestData
	columns []grid.Column
	keyProp string
	canSel  bool

	rows     []grid.Row
	hasData  bool
	quick    string
	advanced []grid.AdvancedFilter
	sortCol  int
	cursor   int
	size     int
	selected map[string]bool

	generation uint64
	cancel     context.CancelFunc
	status     Status
}

func newInstance(def grid.Definition) *instance {
	inst := &instance{
		def:      def,
		columns:  cloneColumns(def.Columns),
		advanced: grid.CloneFilters(def.AdvancedFilters),
		sortCol:  grid.NoSort,
		size:     def.PageSize,
	}
	if def.SortColumn >= 0 && def.SortColumn < len(def.Columns) {
		inst.sortCol = def.SortColumn
	}
	if col, ok := def.SelectColumn(); ok {
		inst.canSel = true
		inst.keyProp = col.DataProperty
		inst.selected = make(map[string]bool)
	}
	if inst.size < 0 {
		inst.size = 0
	}
	return inst
}

// apply mutates view state and reports whether anything changed.
func (in *instance) apply(cmd grid.Command) bool {
	switch cmd := cmd.(type) {
	case grid.QuickFilterChanged:
		if in.quick == cmd.Text {
			return false
		}
		in.quick = cmd.Text
		in.cursor = 0
		return true

	case grid.AdvancedFilterToggled:
		in.advanced = grid.CloneFilters(cmd.Filters)
		in.cursor = 0
		return true

	case grid.Paginate:
		if in.size == 0 {
			return false
		}
		count := len(in.filtered())
		switch cmd.Direction {
		case grid.PageLeft:
			if in.cursor == 0 {
				return false
			}
			in.cursor -= in.size
			if in.cursor < 0 {
				in.cursor = 0
			}
		case grid.PageRight:
			if in.cursor+in.size >= count {
				return false
			}
			in.cursor += in.size
		default:
			return false
		}
		return true

	case grid.SortChanged:
		if cmd.Column < 0 || cmd.Column >= len(in.columns) || !cmd.Direction.Sortable() {
			return false
		}
		in.columns[cmd.Column].SortDirection = cmd.Direction
		in.sortCol = cmd.Column
		in.cursor = 0
		return true

	case grid.ToggleRowSelect:
		if !in.canSel {
			return false
		}
		key := cmd.Key
		if key == "" {
			page := in.page(in.filtered())
			if cmd.Row < 0 || cmd.Row >= len(page) {
				return false
			}
			key = page[cmd.Row].Key(in.keyProp)
		}
		if in.selected[key] {
			delete(in.selected, key)
		} else {
			in.selected[key] = true
		}
		return true

	case grid.ToggleBulkSelect:
		if !in.canSel {
			return false
		}
		for _, row := range in.filtered() {
			key := row.Key(in.keyProp)
			if cmd.Deselect {
				delete(in.selected, key)
			} else {
				in.selected[key] = true
			}
		}
		return true
	}
	return false
}

func (in *instance) ingest(rows []grid.Row, now time.Time) {
	out := make([]grid.Row, 0, len(rows))
	for _, row := range rows {
		r := FormatRow(in.columns, row.Clone(), now)
		if in.request.Formatter != nil {
			r = in.request.Formatter(r)
		}
		if r == nil {
			continue
		}
		tagAdvancedFilters(r, in.def.AdvancedFilters)
		out = append(out, r)
	}
	in.rows = out
	in.hasData = true

	if in.size > 0 {
		if count := len(in.filtered()); in.cursor >= count {
			in.cursor = 0
		}
	}
}

func (in *instance) snapshot() grid.Snapshot {
	filtered := in.filtered()
	snap := grid.Snapshot{
		Rows:             grid.CloneRows(in.page(filtered)),
		Columns:          cloneColumns(in.columns),
		DataCount:        len(filtered),
		FilteredRows:     grid.CloneRows(filtered),
		QuickFilterValue: in.quick,
		SortColumnIndex:  in.sortCol,
		RowActivation:    in.def.RowActivation,
	}
	if in.size > 0 {
		snap.Pagination = &grid.Pagination{Cursor: in.cursor, Size: in.size}
	}
	if in.canSel {
		snap.SelectedKeys = make(map[string]bool, len(in.selected))
		for k, v := range in.selected {
			snap.SelectedKeys[k] = v
		}
	}
	return snap
}

// filtered applies the quick filter, the advanced filters and the sort.
func (in *instance) filtered() []grid.Row {
	needle := strings.ToLower(strings.TrimSpace(in.quick))
	out := make([]grid.Row, 0, len(in.rows))
	for _, row := range in.rows {
		if needle != "" && !matchesQuickFilter(row, in.columns, needle) {
			continue
		}
		if !matchesAdvancedFilters(row, in.advanced) {
			continue
		}
		out = append(out, row)
	}
	if in.sortCol >= 0 && in.sortCol < len(in.columns) {
		col := in.columns[in.sortCol]
		if col.SortDirection.Sortable() {
			desc := col.SortDirection == grid.SortDescending
			sort.SliceStable(out, func(i, j int) bool {
				c := compareValues(out[i].Value(col.DataProperty), out[j].Value(col.DataProperty))
				if desc {
					return c > 0
				}
				return c < 0
			})
		}
	}
	return out
}

func (in *instance) page(filtered []grid.Row) []grid.Row {
	if in.size <= 0 {
		return filtered
	}
	lo := in.cursor
	if lo > len(filtered) {
		lo = len(filtered)
	}
	hi := lo + in.size
	if hi > len(filtered) {
		hi = len(filtered)
	}
	return filtered[lo:hi]
}

func cloneColumns(cols []grid.Column) []grid.Column {
	if cols == nil {
		return nil
	}
	dup := make([]grid.Column, len(cols))
	copy(dup, cols)
	return dup
}
