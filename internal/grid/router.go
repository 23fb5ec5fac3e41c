package grid

// DefaultDragThreshold is the horizontal distance, in cells, a press may
// travel before its release stops counting as a click.
const DefaultDragThreshold = 10

// PointerAction is the phase of a pointer event.
type PointerAction int

const (
	PointerPress PointerAction = iota
	PointerRelease
)

// TargetKind identifies the interactive element under the pointer.
type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetHeader
	TargetCell
	TargetPageLeft
	TargetPageRight
	TargetAdvancedFilter
	TargetQuickFilter
)

// Target is a hit zone. Row is the logical row index captured when the
// layout was built; it is -1 for non-row targets.
type Target struct {
	Kind   TargetKind
	Row    int
	Column int
	Filter int
}

// CellTarget returns the target for the cell at (row, col).
func CellTarget(row, col int) Target {
	return Target{Kind: TargetCell, Row: row, Column: col, Filter: -1}
}

// HeaderTarget returns the target for a column header.
func HeaderTarget(col int) Target {
	return Target{Kind: TargetHeader, Row: -1, Column: col, Filter: -1}
}

// FilterTarget returns the target for an advanced filter checkbox.
func FilterTarget(i int) Target {
	return Target{Kind: TargetAdvancedFilter, Row: -1, Column: -1, Filter: i}
}

// ControlTarget returns a target with no row, column or filter.
func ControlTarget(kind TargetKind) Target {
	return Target{Kind: kind, Row: -1, Column: -1, Filter: -1}
}

// ResolveRowIndex returns the logical row index a target points at. It is
// the only place row indices are recovered from hit zones.
func ResolveRowIndex(t Target) (int, bool) {
	if t.Kind != TargetCell || t.Row < 0 {
		return 0, false
	}
	return t.Row, true
}

// PointerEvent is a press or release on a target. Keyboard is set for
// events synthesized from key presses.
type PointerEvent struct {
	X        int
	Y        int
	Action   PointerAction
	Target   Target
	Keyboard bool
}

// Gesture is the outcome of a press/release pair.
type Gesture int

const (
	GestureClick Gesture = iota
	GestureDrag
)

// Classify returns GestureDrag when the pointer moved more than threshold
// cells horizontally. Moving exactly threshold is still a click.
func Classify(pressX, releaseX, threshold int) Gesture {
	dx := releaseX - pressX
	if dx < 0 {
		dx = -dx
	}
	if dx > threshold {
		return GestureDrag
	}
	return GestureClick
}

type press struct {
	x      int
	target Target
}

// Router turns pointer and keyboard input into commands. It holds only the
// pending press of the current gesture.
type Router struct {
	threshold int
	pending   *press
}

// NewRouter returns a router. A non-positive threshold uses the default.
func NewRouter(threshold int) *Router {
	if threshold <= 0 {
		threshold = DefaultDragThreshold
	}
	return &Router{threshold: threshold}
}

// Threshold returns the drag threshold in use.
func (r *Router) Threshold() int { return r.threshold }

// Reset drops any pending press.
func (r *Router) Reset() { r.pending = nil }

// Pointer routes one pointer event against the current view. It returns nil
// when the event produces no command.
func (r *Router) Pointer(ev PointerEvent, v View) Command {
	if ev.Action == PointerPress {
		r.pending = &press{x: ev.X, target: ev.Target}
		return nil
	}
	p := r.pending
	r.pending = nil
	if v.Masked {
		return nil
	}

	t := ev.Target
	if t.Kind != TargetCell && p != nil && p.target != t {
		return nil
	}
	switch t.Kind {
	case TargetHeader:
		return r.Header(t.Column, v)
	case TargetPageLeft:
		return r.Page(PageLeft, v)
	case TargetPageRight:
		return r.Page(PageRight, v)
	case TargetAdvancedFilter:
		return r.Filter(t.Filter, v)
	case TargetCell:
		return r.cell(p, ev, v)
	}
	return nil
}

func (r *Router) cell(p *press, ev PointerEvent, v View) Command {
	t := ev.Target
	row, ok := ResolveRowIndex(t)
	if !ok {
		return nil
	}
	rv, ok := v.Row(row)
	if !ok {
		return nil
	}
	if t.Column >= 0 && t.Column < len(rv.Cells) {
		switch rv.Cells[t.Column].Kind {
		case CellSelect:
			if p != nil && p.target != t {
				return nil
			}
			return ToggleRowSelect{Row: row, Key: rv.Key}
		case CellAction:
			if p != nil && p.target != t {
				return nil
			}
			return ActionClicked{Row: row, Column: t.Column, Event: ev}
		}
	}
	if !v.RowActivation {
		return nil
	}
	if p != nil {
		if pressRow, ok := ResolveRowIndex(p.target); !ok || pressRow != row {
			return nil
		}
		if Classify(p.x, ev.X, r.threshold) == GestureDrag {
			return nil
		}
	}
	return RowActivated{Row: row, Event: ev}
}

// Header routes a click on column col's header.
func (r *Router) Header(col int, v View) Command {
	if col < 0 || col >= len(v.Headers) {
		return nil
	}
	h := v.Headers[col]
	switch h.Kind {
	case HeaderBulk:
		return ToggleBulkSelect{Deselect: h.Bulk == BulkSome}
	case HeaderSort:
		return r.Sort(col, v)
	}
	return nil
}

// Sort toggles column col. The active column flips; any other column
// becomes active with its own stored direction.
func (r *Router) Sort(col int, v View) Command {
	if col < 0 || col >= len(v.Headers) || v.Headers[col].Kind != HeaderSort {
		return nil
	}
	dir := SortOff
	if col < len(v.SortDirections) {
		dir = v.SortDirections[col]
	}
	switch {
	case col == v.SortColumn:
		dir = dir.Flip()
	case !dir.Sortable():
		dir = SortAscending
	}
	return SortChanged{Column: col, Direction: dir}
}

// Page routes a pagination control.
func (r *Router) Page(dir PageDirection, v View) Command {
	w := v.Pagination
	if w == nil || w.Hidden {
		return nil
	}
	if dir == PageLeft && w.LeftDisabled {
		return nil
	}
	if dir == PageRight && w.RightDisabled {
		return nil
	}
	return Paginate{Direction: dir}
}

// Filter routes a click on advanced filter i. The caller owns the filter
// list and fills in the mutated list.
func (r *Router) Filter(i int, v View) Command {
	if i < 0 || i >= len(v.AdvancedFilters) {
		return nil
	}
	return AdvancedFilterToggled{FilterID: v.AdvancedFilters[i].ID}
}

// Select routes a single-row selection toggle.
func (r *Router) Select(row int, v View) Command {
	rv, ok := v.Row(row)
	if !ok || !v.Selection {
		return nil
	}
	for i, c := range rv.Cells {
		if c.Kind == CellSelect {
			return r.keyboardCell(row, i, v)
		}
	}
	return nil
}

// Bulk routes a bulk-select toggle.
func (r *Router) Bulk(v View) Command {
	for i, h := range v.Headers {
		if h.Kind == HeaderBulk {
			return r.Header(i, v)
		}
	}
	return nil
}

// Activate routes a keyboard activation of row. Keyboard activation never
// moves horizontally, so it is always a click.
func (r *Router) Activate(row int, v View) Command {
	return r.keyboardCell(row, -1, v)
}

// Action routes a keyboard press on the action cell at (row, col).
func (r *Router) Action(row, col int, v View) Command {
	rv, ok := v.Row(row)
	if !ok || col < 0 || col >= len(rv.Cells) || rv.Cells[col].Kind != CellAction {
		return nil
	}
	return r.keyboardCell(row, col, v)
}

func (r *Router) keyboardCell(row, col int, v View) Command {
	if v.Masked {
		return nil
	}
	ev := PointerEvent{Action: PointerRelease, Target: CellTarget(row, col), Keyboard: true}
	return r.cell(nil, ev, v)
}
