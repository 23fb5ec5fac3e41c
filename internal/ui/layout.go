package ui

import (
	"github.com/five82/gridview/internal/grid"
)

// Screen lines, counted from the top of the terminal.
const (
	headerLine    = 0
	toolbarLine   = 1
	columnsLine   = 2
	firstBodyLine = 3
)

// Terminal width thresholds for responsive header content.
const (
	// LayoutCompactWidth is the minimum width to show the update time.
	LayoutCompactWidth = 100

	// LayoutWideWidth is the minimum width to show the data source.
	LayoutWideWidth = 140
)

// Horizontal geometry.
const (
	leftMargin         = 1
	columnGap          = 1
	filterGap          = 2
	quickFilterWidth   = 24
	minColumnWidth     = 3
	shrunkColumnWidth  = 4
	maxAutoColumnWidth = 40
)

// span is a horizontal range of terminal cells.
type span struct {
	x     int
	width int
}

func (s span) end() int { return s.x + s.width }

// zone is a hit target on one screen line. x1 is exclusive.
type zone struct {
	y      int
	x0, x1 int
	target grid.Target
	hover  string
}

func (z zone) contains(x, y int) bool {
	return y == z.y && x >= z.x0 && x < z.x1
}

// layout is the geometry of one frame. View and the mouse handler build it
// from the same inputs, so a click resolves to exactly what was drawn.
type layout struct {
	width      int
	height     int
	columns    []span
	body       []int // logical row index per body line
	bodyHeight int
	pagerY     int // -1 when the pager line is not drawn
	footerY    int // -1 when the footer is hidden
	quick      span
	filters    []span
	pageLeft   span
	pageRight  span
	zones      []zone
}

// buildLayout lays out v on a width x height screen with the body scrolled
// by scroll visible rows.
func buildLayout(v grid.View, icons grid.IconSet, width, height, scroll int, footer bool) layout {
	l := layout{width: width, height: height, pagerY: -1, footerY: -1}

	bottom := height
	if footer {
		bottom--
		l.footerY = bottom
	}
	bottom-- // pager line is reserved even when hidden
	if v.Pagination != nil && !v.Pagination.Hidden {
		l.pagerY = bottom
	}
	l.bodyHeight = max(bottom-firstBodyLine, 0)

	l.layoutToolbar(v)
	l.layoutColumns(v)
	if !v.Masked {
		l.layoutBody(v, scroll)
	}
	if l.pagerY >= 0 {
		l.layoutPager(v, icons)
	}
	return l
}

func (l *layout) layoutToolbar(v grid.View) {
	x := leftMargin
	if v.QuickFilter != nil {
		l.quick = span{x: x, width: min(quickFilterWidth, max(l.width-x, 0))}
		l.zones = append(l.zones, zone{
			y: toolbarLine, x0: l.quick.x, x1: l.quick.end(),
			target: grid.ControlTarget(grid.TargetQuickFilter),
			hover:  v.QuickFilter.Placeholder,
		})
		x = l.quick.end() + filterGap
	}
	l.filters = make([]span, len(v.AdvancedFilters))
	for i, f := range v.AdvancedFilters {
		s := span{x: x, width: displayWidth(filterText(f))}
		l.filters[i] = s
		l.zones = append(l.zones, zone{
			y: toolbarLine, x0: s.x, x1: s.end(),
			target: grid.FilterTarget(i),
			hover:  f.Label,
		})
		x = s.end() + filterGap
	}
}

func (l *layout) layoutColumns(v grid.View) {
	widths := columnWidths(v, l.width-leftMargin)
	l.columns = make([]span, len(widths))
	x := leftMargin
	for i, w := range widths {
		l.columns[i] = span{x: x, width: w}
		l.zones = append(l.zones, zone{
			y: columnsLine, x0: x, x1: x + w + columnGap,
			target: grid.HeaderTarget(i),
			hover:  v.Headers[i].Title,
		})
		x += w + columnGap
	}
}

func (l *layout) layoutBody(v grid.View, scroll int) {
	rows := v.VisibleRows()
	if scroll < 0 || scroll >= len(rows) {
		scroll = 0
	}
	for i := scroll; i < len(rows) && len(l.body) < l.bodyHeight; i++ {
		rv := rows[i]
		y := firstBodyLine + len(l.body)
		l.body = append(l.body, rv.Index)
		for c, col := range l.columns {
			hover := ""
			if c < len(rv.Cells) {
				hover = rv.Cells[c].Hover
			}
			l.zones = append(l.zones, zone{
				y: y, x0: col.x, x1: col.end() + columnGap,
				target: grid.CellTarget(rv.Index, c),
				hover:  hover,
			})
		}
		// Margins and the space right of the last column still belong to
		// the row.
		l.zones = append(l.zones, zone{
			y: y, x0: 0, x1: l.width,
			target: grid.CellTarget(rv.Index, -1),
		})
	}
}

func (l *layout) layoutPager(v grid.View, icons grid.IconSet) {
	x := leftMargin
	l.pageLeft = span{x: x, width: displayWidth(icons.PageLeft)}
	x = l.pageLeft.end() + 1 + displayWidth(v.Pagination.Text()) + 1
	l.pageRight = span{x: x, width: displayWidth(icons.PageRight)}
	l.zones = append(l.zones,
		zone{y: l.pagerY, x0: l.pageLeft.x, x1: l.pageLeft.end(), target: grid.ControlTarget(grid.TargetPageLeft), hover: "Previous page"},
		zone{y: l.pagerY, x0: l.pageRight.x, x1: l.pageRight.end(), target: grid.ControlTarget(grid.TargetPageRight), hover: "Next page"},
	)
}

// hit returns the first zone containing (x, y).
func (l layout) hit(x, y int) (zone, bool) {
	for _, z := range l.zones {
		if z.contains(x, y) {
			return z, true
		}
	}
	return zone{}, false
}

// rowAt returns the logical row index drawn on screen line y.
func (l layout) rowAt(y int) (int, bool) {
	i := y - firstBodyLine
	if i < 0 || i >= len(l.body) {
		return 0, false
	}
	return l.body[i], true
}

// columnWidths sizes every column to fit avail cells. Columns with an
// explicit width keep it; the widest automatic columns shrink first.
func columnWidths(v grid.View, avail int) []int {
	n := len(v.Headers)
	widths := make([]int, n)
	fixed := make([]bool, n)
	for i, h := range v.Headers {
		if h.Width > 0 {
			widths[i] = h.Width
			fixed[i] = true
			continue
		}
		w := displayWidth(headerText(h))
		for _, rv := range v.Rows {
			if i < len(rv.Cells) {
				w = max(w, displayWidth(cellText(rv.Cells[i])))
			}
		}
		widths[i] = min(max(w, minColumnWidth), maxAutoColumnWidth)
	}

	total := func() int {
		sum := max(n-1, 0) * columnGap
		for _, w := range widths {
			sum += w
		}
		return sum
	}
	for total() > avail {
		widest := -1
		for i, w := range widths {
			if fixed[i] || w <= shrunkColumnWidth {
				continue
			}
			if widest < 0 || w > widths[widest] {
				widest = i
			}
		}
		if widest < 0 {
			break
		}
		widths[widest]--
	}
	return widths
}

// headerText is the label drawn for a header, glyph included.
func headerText(h grid.Header) string {
	switch h.Kind {
	case grid.HeaderBulk:
		return h.Glyph
	case grid.HeaderSort:
		if h.Label == "" {
			return h.Glyph
		}
		return h.Label + " " + h.Glyph
	default:
		return h.Label
	}
}

// cellText is the plain text drawn for a cell.
func cellText(c grid.Cell) string {
	switch c.Kind {
	case grid.CellSelect:
		return c.Glyph
	case grid.CellStatus:
		if c.Text == "" {
			return c.Glyph
		}
		return c.Glyph + " " + singleLine(c.Text)
	default:
		return singleLine(c.Text)
	}
}

// filterText is the label drawn for an advanced filter checkbox.
func filterText(f grid.FilterView) string {
	return f.Glyph + " " + f.Label
}
