package grid

// Command is a state-changing intent sent to the Dispatcher.
type Command interface {
	Name() string
}

// RequestData asks the store to (re)fetch the dataset for a component.
type RequestData struct {
	Definition Definition
	Filters    map[string]string
	Formatter  DataFormatter
}

// QuickFilterChanged carries the new quick filter text.
type QuickFilterChanged struct {
	Text string
}

// AdvancedFilterToggled names the toggled filter and carries the full,
// already mutated filter list.
type AdvancedFilterToggled struct {
	FilterID string
	Filters  []AdvancedFilter
}

// PageDirection is the direction of a pagination step.
type PageDirection string

const (
	PageLeft  PageDirection = "left"
	PageRight PageDirection = "right"
)

// Paginate moves the page cursor one page.
type Paginate struct {
	Direction PageDirection
}

// SortChanged activates a column with the given direction.
type SortChanged struct {
	Column    int
	Direction SortDirection
}

// ToggleRowSelect flips the selection of a single row.
type ToggleRowSelect struct {
	Row int
	Key string
}

// ToggleBulkSelect selects or deselects every filtered row.
type ToggleBulkSelect struct {
	Deselect bool
}

// RowActivated reports a click on a row. It is delivered to the configured
// row activation handler, not to the store.
type RowActivated struct {
	Row   int
	Event PointerEvent
}

// ActionClicked reports a click on an action cell. It is delivered to the
// column's handler, not to the store.
type ActionClicked struct {
	Row    int
	Column int
	Event  PointerEvent
}

// Destroy tells the store the component is gone.
type Destroy struct{}

func (RequestData) Name() string           { return "request-data" }
func (QuickFilterChanged) Name() string    { return "quick-filter-changed" }
func (AdvancedFilterToggled) Name() string { return "advanced-filter-toggled" }
func (Paginate) Name() string              { return "paginate" }
func (SortChanged) Name() string           { return "sort-changed" }
func (ToggleRowSelect) Name() string       { return "toggle-row-select" }
func (ToggleBulkSelect) Name() string      { return "toggle-bulk-select" }
func (RowActivated) Name() string          { return "row-activated" }
func (ActionClicked) Name() string         { return "action-clicked" }
func (Destroy) Name() string               { return "destroy" }
