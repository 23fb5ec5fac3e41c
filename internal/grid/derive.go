package grid

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Row tags.
const (
	TagError        = "error"
	TagSelected     = "selected"
	TagHoverEnabled = "hover-enabled"
	filterTagPrefix = "filter-"
)

// FilterTag returns the row tag for an advanced filter id.
func FilterTag(id string) string { return filterTagPrefix + id }

// HeaderKind selects the header widget.
type HeaderKind int

const (
	HeaderPlain HeaderKind = iota
	HeaderSort
	HeaderBulk
)

// BulkState is the bulk-select indicator.
type BulkState int

const (
	BulkNone BulkState = iota
	BulkSome
)

// Title is the hover text for the bulk header.
func (b BulkState) Title() string {
	if b == BulkSome {
		return "Deselect All"
	}
	return "Select All"
}

// Header describes one column header.
type Header struct {
	Index  int
	Label  string
	Title  string
	Width  int
	Kind   HeaderKind
	Sort   SortDirection
	Active bool
	Bulk   BulkState
	Glyph  string
}

// RowView is one rendered row. Index is the logical index into the
// snapshot's Rows and is what hit zones carry.
type RowView struct {
	Index   int
	Key     string
	Tags    []string
	Visible bool
	Cells   []Cell
	Record  Row
}

// HasTag reports whether the row carries tag.
func (r RowView) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// PageWindow is the pagination control state.
type PageWindow struct {
	First         int
	Last          int
	Total         int
	LeftDisabled  bool
	RightDisabled bool
	Hidden        bool
}

// Text renders the window as "first-last of total".
func (w PageWindow) Text() string {
	return fmt.Sprintf("%s-%s of %s",
		humanize.Comma(int64(w.First)),
		humanize.Comma(int64(w.Last)),
		humanize.Comma(int64(w.Total)))
}

// QuickFilterView is the quick filter input state.
type QuickFilterView struct {
	Value       string
	Placeholder string
}

// FilterView is one advanced filter checkbox.
type FilterView struct {
	Index   int
	ID      string
	Label   string
	Checked bool
	Glyph   string
}

// View is everything the renderer needs for one frame.
type View struct {
	Phase           Phase
	Loading         bool
	Errored         bool
	Masked          bool
	Headers         []Header
	Rows            []RowView
	Pagination      *PageWindow
	QuickFilter     *QuickFilterView
	AdvancedFilters []FilterView
	NoResults       bool
	NoResultsText   string
	SortColumn      int
	SortDirections  []SortDirection
	Bulk            BulkState
	Selection       bool
	RowActivation   bool
}

// VisibleRows returns the rows not hidden by advanced filters.
func (v View) VisibleRows() []RowView {
	out := make([]RowView, 0, len(v.Rows))
	for _, r := range v.Rows {
		if r.Visible {
			out = append(out, r)
		}
	}
	return out
}

// Row returns the row view with the given logical index.
func (v View) Row(index int) (RowView, bool) {
	if index < 0 || index >= len(v.Rows) {
		return RowView{}, false
	}
	return v.Rows[index], true
}

// DeriveInput is the input of Derive.
type DeriveInput struct {
	Phase                  Phase
	Snapshot               *Snapshot
	Columns                []Column
	Filters                []AdvancedFilter
	Icons                  IconSet
	Registry               *Registry
	NoResultsText          string
	QuickFilterPlaceholder string
	SelectedRowPredicate   func(Row) bool
	QuickFilterEnabled     bool
	RowActivation          bool
}

// Derive computes the view for one snapshot and lifecycle phase.
func Derive(in DeriveInput) View {
	reg := in.Registry
	if reg == nil {
		reg = defaultRegistry
	}
	snap := in.Snapshot
	cols := in.Columns
	if snap != nil && snap.Columns != nil {
		cols = snap.Columns
	}

	v := View{
		Phase:         in.Phase,
		Loading:       in.Phase == PhaseLoading,
		Errored:       in.Phase == PhaseErrored,
		NoResultsText: in.NoResultsText,
		SortColumn:    NoSort,
		RowActivation: in.RowActivation,
	}
	v.Masked = v.Loading || v.Errored
	v.SortDirections = SortDirections(cols)

	selectCol, hasSelect := selectColumn(cols)
	v.Selection = hasSelect
	hasRows := snap != nil && len(snap.Rows) > 0

	if snap != nil {
		v.SortColumn = snap.SortColumnIndex
		if snap.RowActivation != nil {
			v.RowActivation = true
		}
		if hasSelect {
			v.Bulk = BulkSelection(snap.FilteredRows, selectCol.DataProperty, snap.SelectedKeys)
		}
	}

	v.Headers = make([]Header, len(cols))
	for i, col := range cols {
		h := Header{Index: i, Label: col.HeaderLabel, Title: col.HeaderLabel, Width: col.Width}
		switch {
		case col.DataType == TypeSelect:
			if hasRows {
				h.Kind = HeaderBulk
				h.Bulk = v.Bulk
				h.Title = v.Bulk.Title()
				h.Glyph = in.Icons.SelectAll
				if v.Bulk == BulkSome {
					h.Glyph = in.Icons.DeselectAll
				}
			}
		case col.SortDirection != "" && hasRows:
			h.Kind = HeaderSort
			h.Active = v.SortColumn == i
			h.Sort = SortIndicator(i, v.SortColumn, v.SortDirections)
			h.Glyph = in.Icons.Sort(h.Sort)
		}
		v.Headers[i] = h
	}

	if snap != nil {
		v.Rows = make([]RowView, len(snap.Rows))
		for i, row := range snap.Rows {
			// The selected tag comes from the predicate alone; checkbox state
			// lives in SelectedKeys and only drives the select cells.
			tags := RowTags(row, in.SelectedRowPredicate, v.RowActivation)
			rv := RowView{
				Index:   i,
				Tags:    tags,
				Visible: RowVisible(tags, in.Filters),
				Record:  row,
				Cells:   make([]Cell, len(cols)),
			}
			if hasSelect {
				rv.Key = row.Key(selectCol.DataProperty)
			}
			for c, col := range cols {
				rv.Cells[c] = reg.Cell(CellContext{
					Column:   col,
					Index:    c,
					Row:      row,
					Selected: snap.SelectedKeys,
					Icons:    in.Icons,
				})
			}
			v.Rows[i] = rv
		}
		if len(snap.Rows) == 0 {
			v.NoResults = true
		}
	}

	if hasRows && snap.Pagination != nil && !v.Loading {
		w := Window(*snap.Pagination, snap.DataCount)
		v.Pagination = &w
	}

	if in.QuickFilterEnabled && !v.Loading {
		qf := &QuickFilterView{Placeholder: in.QuickFilterPlaceholder}
		if snap != nil {
			qf.Value = snap.QuickFilterValue
		}
		v.QuickFilter = qf
	}

	if len(in.Filters) > 0 && !v.Loading {
		v.AdvancedFilters = make([]FilterView, len(in.Filters))
		for i, f := range in.Filters {
			fv := FilterView{Index: i, ID: f.ID, Label: f.Label, Checked: f.IsChecked(), Glyph: in.Icons.AdvancedFilterOff}
			if fv.Checked {
				fv.Glyph = in.Icons.AdvancedFilterOn
			}
			v.AdvancedFilters[i] = fv
		}
	}

	return v
}

// SortDirections normalizes each column's stored direction, using off for
// columns that carry neither direction.
func SortDirections(cols []Column) []SortDirection {
	dirs := make([]SortDirection, len(cols))
	for i, col := range cols {
		if col.SortDirection.Sortable() {
			dirs[i] = col.SortDirection
		} else {
			dirs[i] = SortOff
		}
	}
	return dirs
}

// SortIndicator returns the indicator for column i.
func SortIndicator(i, active int, dirs []SortDirection) SortDirection {
	if i != active || i < 0 || i >= len(dirs) {
		return SortOff
	}
	return dirs[i]
}

// Window computes the pagination controls for a cursor and row count.
func Window(p Pagination, count int) PageWindow {
	last := p.Cursor + p.Size
	if last > count {
		last = count
	}
	w := PageWindow{
		First:         p.Cursor + 1,
		Last:          last,
		Total:         count,
		LeftDisabled:  p.Cursor+1 == 1,
		RightDisabled: p.Cursor+p.Size >= count,
	}
	w.Hidden = w.LeftDisabled && w.RightDisabled
	return w
}

// BulkSelection reports whether any of the filtered rows is selected.
// Selected keys outside filtered do not count.
func BulkSelection(filtered []Row, keyProperty string, selected map[string]bool) BulkState {
	if len(selected) == 0 {
		return BulkNone
	}
	for _, row := range filtered {
		if selected[row.Key(keyProperty)] {
			return BulkSome
		}
	}
	return BulkNone
}

// RowTags returns the tags for a row.
func RowTags(row Row, selected func(Row) bool, activation bool) []string {
	var tags []string
	if row.IsError() {
		tags = append(tags, TagError)
	}
	if selected != nil && selected(row) {
		tags = append(tags, TagSelected)
	}
	if cls := row.ClassName(); cls != "" {
		tags = append(tags, cls)
	}
	if activation {
		tags = append(tags, TagHoverEnabled)
	}
	for _, id := range row.AdvancedFilterIDs() {
		tags = append(tags, FilterTag(id))
	}
	return tags
}

// RowVisible applies OR semantics over the checked filters. With no filter
// checked every row is visible.
func RowVisible(tags []string, filters []AdvancedFilter) bool {
	anyChecked := false
	for _, f := range filters {
		if !f.IsChecked() {
			continue
		}
		anyChecked = true
		want := FilterTag(f.ID)
		for _, t := range tags {
			if t == want {
				return true
			}
		}
	}
	return !anyChecked
}
