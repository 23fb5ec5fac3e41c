package ui

import (
	"testing"

	"github.com/five82/gridview/internal/grid"
)

func layoutView(rows int) grid.View {
	v := grid.View{
		Phase: grid.PhaseReady,
		Headers: []grid.Header{
			{Index: 0, Kind: grid.HeaderBulk, Glyph: "[ ]", Title: "Select All"},
			{Index: 1, Label: "Name", Title: "Name", Kind: grid.HeaderSort, Glyph: "⇅"},
			{Index: 2, Label: "Owner", Title: "Owner"},
		},
		Pagination:      &grid.PageWindow{First: 1, Last: rows, Total: rows},
		QuickFilter:     &grid.QuickFilterView{Placeholder: "Filter"},
		AdvancedFilters: []grid.FilterView{{Index: 0, ID: "mine", Label: "Mine", Glyph: "[ ]"}},
		SortColumn:      grid.NoSort,
	}
	for i := 0; i < rows; i++ {
		v.Rows = append(v.Rows, grid.RowView{
			Index:   i,
			Visible: true,
			Cells: []grid.Cell{
				{Kind: grid.CellSelect, Column: 0, Glyph: "[ ]"},
				{Kind: grid.CellText, Column: 1, Text: "row"},
				{Kind: grid.CellText, Column: 2, Text: "me", Hover: "owner me"},
			},
		})
	}
	return v
}

func TestBuildLayout_Lines(t *testing.T) {
	lay := buildLayout(layoutView(3), grid.DefaultIcons(), 80, 12, 0, true)

	if lay.footerY != 11 || lay.pagerY != 10 {
		t.Fatalf("footerY=%d pagerY=%d, want 11 and 10", lay.footerY, lay.pagerY)
	}
	if lay.bodyHeight != 7 {
		t.Fatalf("bodyHeight = %d, want 7", lay.bodyHeight)
	}
	if len(lay.body) != 3 {
		t.Fatalf("body lines = %d, want 3", len(lay.body))
	}

	noFooter := buildLayout(layoutView(3), grid.DefaultIcons(), 80, 12, 0, false)
	if noFooter.footerY != -1 || noFooter.pagerY != 11 || noFooter.bodyHeight != 8 {
		t.Fatalf("without footer: footerY=%d pagerY=%d bodyHeight=%d", noFooter.footerY, noFooter.pagerY, noFooter.bodyHeight)
	}
}

func TestBuildLayout_HitZones(t *testing.T) {
	lay := buildLayout(layoutView(3), grid.DefaultIcons(), 80, 12, 0, true)

	name := lay.columns[1]
	z, ok := lay.hit(name.x, columnsLine)
	if !ok || z.target != grid.HeaderTarget(1) {
		t.Fatalf("hit on Name header = %+v", z.target)
	}

	z, ok = lay.hit(lay.columns[2].x, firstBodyLine+1)
	if !ok || z.target != grid.CellTarget(1, 2) || z.hover != "owner me" {
		t.Fatalf("hit on cell = %+v hover %q", z.target, z.hover)
	}

	z, ok = lay.hit(0, firstBodyLine+2)
	if !ok || z.target != grid.CellTarget(2, -1) {
		t.Fatalf("hit on left margin = %+v, want row fallback", z.target)
	}

	z, ok = lay.hit(lay.quick.x, toolbarLine)
	if !ok || z.target.Kind != grid.TargetQuickFilter {
		t.Fatalf("hit on quick filter = %+v", z.target)
	}
	z, ok = lay.hit(lay.filters[0].x, toolbarLine)
	if !ok || z.target != grid.FilterTarget(0) {
		t.Fatalf("hit on filter = %+v", z.target)
	}

	z, ok = lay.hit(lay.pageRight.x, lay.pagerY)
	if !ok || z.target.Kind != grid.TargetPageRight {
		t.Fatalf("hit on page right = %+v", z.target)
	}

	if _, ok := lay.hit(5, firstBodyLine+5); ok {
		t.Fatalf("hit below the last row returned a zone")
	}
}

func TestBuildLayout_HiddenRowsKeepLogicalIndex(t *testing.T) {
	v := layoutView(4)
	v.Rows[0].Visible = false
	v.Rows[2].Visible = false

	lay := buildLayout(v, grid.DefaultIcons(), 80, 12, 0, true)
	if len(lay.body) != 2 || lay.body[0] != 1 || lay.body[1] != 3 {
		t.Fatalf("body = %v, want [1 3]", lay.body)
	}
	if row, ok := lay.rowAt(firstBodyLine + 1); !ok || row != 3 {
		t.Fatalf("rowAt second line = %d, want 3", row)
	}
	z, _ := lay.hit(lay.columns[1].x, firstBodyLine)
	if z.target != grid.CellTarget(1, 1) {
		t.Fatalf("first body line target = %+v, want row 1", z.target)
	}
}

func TestBuildLayout_Scroll(t *testing.T) {
	lay := buildLayout(layoutView(20), grid.DefaultIcons(), 80, 10, 5, true)
	if lay.body[0] != 5 {
		t.Fatalf("first body row = %d, want 5", lay.body[0])
	}
	if len(lay.body) != lay.bodyHeight {
		t.Fatalf("body lines = %d, want %d", len(lay.body), lay.bodyHeight)
	}
}

func TestBuildLayout_MaskedHasNoBody(t *testing.T) {
	v := layoutView(3)
	v.Masked = true
	v.Loading = true

	lay := buildLayout(v, grid.DefaultIcons(), 80, 12, 0, true)
	if len(lay.body) != 0 {
		t.Fatalf("masked layout has %d body lines", len(lay.body))
	}
	for _, z := range lay.zones {
		if z.target.Kind == grid.TargetCell {
			t.Fatalf("masked layout has cell zone %+v", z.target)
		}
	}
}

func TestBuildLayout_HiddenPager(t *testing.T) {
	v := layoutView(3)
	v.Pagination.Hidden = true

	lay := buildLayout(v, grid.DefaultIcons(), 80, 12, 0, true)
	if lay.pagerY != -1 {
		t.Fatalf("pagerY = %d, want -1", lay.pagerY)
	}
	if lay.bodyHeight != 7 {
		t.Fatalf("bodyHeight = %d, want 7 (pager line stays reserved)", lay.bodyHeight)
	}
}

func TestColumnWidths(t *testing.T) {
	v := grid.View{
		Headers: []grid.Header{
			{Label: "A"},
			{Label: "Fixed", Width: 12},
			{Label: "Long"},
		},
		Rows: []grid.RowView{{Visible: true, Cells: []grid.Cell{
			{Text: "x"},
			{Text: "y"},
			{Text: "a fairly long value that needs room"},
		}}},
	}

	wide := columnWidths(v, 100)
	if wide[0] != minColumnWidth || wide[1] != 12 || wide[2] != 35 {
		t.Fatalf("columnWidths(100) = %v", wide)
	}

	narrow := columnWidths(v, 30)
	if narrow[1] != 12 {
		t.Fatalf("fixed column shrank: %v", narrow)
	}
	if total := narrow[0] + narrow[1] + narrow[2] + 2*columnGap; total > 30 {
		t.Fatalf("columnWidths(30) = %v, total %d", narrow, total)
	}

	tiny := columnWidths(v, 5)
	if tiny[2] != shrunkColumnWidth {
		t.Fatalf("columnWidths(5) = %v, want long column at %d", tiny, shrunkColumnWidth)
	}
}
