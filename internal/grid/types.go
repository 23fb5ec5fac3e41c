package grid

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DataType selects how a column reads and renders its cells.
type DataType string

const (
	TypeDefault  DataType = "default"
	TypeSelect   DataType = "select"
	TypeAction   DataType = "action"
	TypeTime     DataType = "time"
	TypeStatus   DataType = "status"
	TypePercent  DataType = "percent"
	TypeDuration DataType = "duration"
)

// SortDirection is a column's stored sort direction. The empty value marks a
// column that cannot be sorted.
type SortDirection string

const (
	SortOff        SortDirection = "off"
	SortAscending  SortDirection = "ascending"
	SortDescending SortDirection = "descending"
)

// Flip returns the opposite direction. Anything but ascending flips to
// ascending.
func (d SortDirection) Flip() SortDirection {
	if d == SortAscending {
		return SortDescending
	}
	return SortAscending
}

// Sortable reports whether the direction is one of the two real directions.
func (d SortDirection) Sortable() bool {
	return d == SortAscending || d == SortDescending
}

// NoSort is the SortColumnIndex value when no column is active.
const NoSort = -1

// Reserved row fields.
const (
	FieldClassName              = "className"
	FieldIsError                = "isError"
	FieldOnline                 = "online"
	FieldShownByAdvancedFilters = "shownByAdvancedFilters"
)

// Column describes one column of the table definition.
type Column struct {
	DataProperty  string        `yaml:"dataProperty"`
	DataType      DataType      `yaml:"dataType"`
	HeaderLabel   string        `yaml:"headerLabel"`
	Width         int           `yaml:"width"`
	SortDirection SortDirection `yaml:"sortDirection"`
	QuickFilter   bool          `yaml:"quickFilter"`
	HoverProperty string        `yaml:"hoverProperty"`
	Markup        string        `yaml:"markup"`
	Action        string        `yaml:"action"`

	HoverFunc func(Row) string `yaml:"-"`
	OnClick   ActionFunc       `yaml:"-"`
}

// Row is a single record. Rows are read-only to the grid.
type Row map[string]any

// Value returns the raw value stored under field.
func (r Row) Value(field string) any {
	if r == nil {
		return nil
	}
	return r[field]
}

// Text returns the display form of field.
func (r Row) Text(field string) string {
	return FormatValue(r.Value(field))
}

// Key returns the identity of the row under the given key property.
func (r Row) Key(property string) string {
	return FormatValue(r.Value(property))
}

// ClassName returns the row's extra class tag.
func (r Row) ClassName() string {
	return strings.TrimSpace(r.Text(FieldClassName))
}

// IsError reports whether the row is flagged as an error row.
func (r Row) IsError() bool {
	return truthy(r.Value(FieldIsError))
}

// Online reports the row's online flag used by status columns.
func (r Row) Online() bool {
	return truthy(r.Value(FieldOnline))
}

// AdvancedFilterIDs returns the ids of the advanced filters that show this row.
func (r Row) AdvancedFilterIDs() []string {
	switch ids := r.Value(FieldShownByAdvancedFilters).(type) {
	case []string:
		return ids
	case []any:
		out := make([]string, 0, len(ids))
		for _, id := range ids {
			if s := FormatValue(id); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	dup := make(Row, len(r))
	for k, v := range r {
		dup[k] = v
	}
	return dup
}

// CloneRows copies a row slice, preserving the difference between nil and empty.
func CloneRows(rows []Row) []Row {
	if rows == nil {
		return nil
	}
	dup := make([]Row, len(rows))
	for i, row := range rows {
		dup[i] = row.Clone()
	}
	return dup
}

// FormatValue renders a raw row value as display text.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format(time.RFC3339)
	case []byte:
		return string(val)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case float64:
		return val != 0
	case int:
		return val != 0
	case int64:
		return val != 0
	default:
		return true
	}
}

// Pagination is the store's page cursor.
type Pagination struct {
	Cursor int
	Size   int
}

// Snapshot is the read-only bundle handed to the grid for one render cycle.
type Snapshot struct {
	Rows             []Row
	Columns          []Column
	DataCount        int
	FilteredRows     []Row
	QuickFilterValue string
	Pagination       *Pagination
	SortColumnIndex  int
	SelectedKeys     map[string]bool
	RowActivation    *RowActivation
}

// AdvancedFilter is a named, independently toggled membership filter.
// Checked is nil until the filter is first toggled.
type AdvancedFilter struct {
	ID           string `yaml:"id"`
	Label        string `yaml:"label"`
	Checked      *bool  `yaml:"checked"`
	DataProperty string `yaml:"dataProperty"`
	Value        any    `yaml:"value"`
}

// IsChecked reports the filter state, treating nil as off.
func (f AdvancedFilter) IsChecked() bool {
	return f.Checked != nil && *f.Checked
}

// Toggle flips the filter. A nil state is coerced to false first, so the
// first toggle always lands on true.
func (f *AdvancedFilter) Toggle() {
	if f.Checked == nil {
		off := false
		f.Checked = &off
	}
	next := !*f.Checked
	f.Checked = &next
}

// CloneFilters deep-copies a filter list, including the Checked pointers.
func CloneFilters(filters []AdvancedFilter) []AdvancedFilter {
	if filters == nil {
		return nil
	}
	dup := make([]AdvancedFilter, len(filters))
	for i, f := range filters {
		dup[i] = f
		if f.Checked != nil {
			v := *f.Checked
			dup[i].Checked = &v
		}
	}
	return dup
}

// Props is the integrator-facing context passed to row and action handlers.
type Props struct {
	ComponentID string
	Filters     map[string]string
}

// ActivateFunc handles a row activation.
type ActivateFunc func(ev PointerEvent, props Props, snap Snapshot, rowIndex int)

// ActionFunc handles a click on an action cell.
type ActionFunc func(ev PointerEvent, row Row, props Props, snap Snapshot, rowIndex int)

// RowActivation configures what happens when a row is clicked.
type RowActivation struct {
	Handler    string       `yaml:"handler"`
	OnActivate ActivateFunc `yaml:"-"`
}

// DataFormatter rewrites a row before it is stored.
type DataFormatter func(Row) Row

// Definition is the declarative table definition.
type Definition struct {
	Columns         []Column
	AdvancedFilters []AdvancedFilter
	RowActivation   *RowActivation
	PageSize        int
	SortColumn      int
}

// SelectColumn returns the first column with the select type.
func (d Definition) SelectColumn() (Column, bool) {
	return selectColumn(d.Columns)
}

// SelectionEnabled reports whether any column is a select column.
func (d Definition) SelectionEnabled() bool {
	_, ok := d.SelectColumn()
	return ok
}

// QuickFilterEnabled reports whether any column takes part in the quick filter.
func (d Definition) QuickFilterEnabled() bool {
	for _, col := range d.Columns {
		if col.QuickFilter {
			return true
		}
	}
	return false
}

func selectColumn(cols []Column) (Column, bool) {
	for _, col := range cols {
		if col.DataType == TypeSelect {
			return col, true
		}
	}
	return Column{}, false
}
