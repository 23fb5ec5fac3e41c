package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/five82/gridview/internal/grid"
)

// renderMain renders the grid screen line by line from lay.
func (m Model) renderMain(lay layout) string {
	v := m.comp.View()
	lines := make([]string, 0, m.height)
	lines = append(lines, m.renderHeader(v))
	lines = append(lines, m.renderToolbar(v, lay))
	lines = append(lines, m.renderColumns(v, lay))
	lines = append(lines, m.renderBody(v, lay)...)
	lines = append(lines, m.renderPager(v, lay))
	if lay.footerY >= 0 {
		lines = append(lines, m.renderFooter())
	}
	return strings.Join(lines, "\n")
}

// fill renders content as one full-width line on bgColor.
func (m Model) fill(content, bgColor string) string {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(bgColor)).
		Width(m.width).
		MaxWidth(m.width).
		Render(content)
}

// renderHeader renders the title, lifecycle state and data health.
func (m Model) renderHeader(v grid.View) string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	parts := []string{bg.Render("gridview", styles.Logo)}
	if m.title != "" {
		parts = append(parts, bg.Render(truncate(m.title, 40), styles.Text.Bold(true)))
	}

	switch {
	case v.Loading:
		parts = append(parts, bg.Render(m.spinner.View()+" Loading", styles.WarningText))
	case v.Errored:
		msg := "Error"
		if err := m.comp.Err(); err != nil {
			msg = "Error: " + singleLine(err.Error())
		}
		parts = append(parts, bg.Render("● "+truncate(msg, 60), styles.DangerText))
	default:
		parts = append(parts, m.healthParts(styles, bg)...)
	}

	if m.flash != "" {
		parts = append(parts, bg.Render(truncate(m.flash, 50), styles.WarningText.Bold(true)))
	}

	return styles.Header.Width(m.width).MaxWidth(m.width).Render(bg.Join(parts, "  "))
}

func (m Model) healthParts(styles Styles, bg BgStyle) []string {
	var parts []string
	offline := false
	var status *StoreStatus
	if m.status != nil {
		if st, ok := m.status(m.comp.ID()); ok {
			status = &st
			offline = st.Offline
		}
	}
	if offline {
		parts = append(parts, bg.Render("● OFFLINE", styles.DangerText))
	} else {
		parts = append(parts, bg.Render("● LIVE", styles.SuccessText))
	}

	if snap, ok := m.comp.Snapshot(); ok {
		parts = append(parts,
			bg.Render("Rows:", styles.MutedText)+bg.Space()+
				bg.Render(humanize.Comma(int64(snap.DataCount)), styles.Text))
		if v := m.comp.View(); v.Selection {
			parts = append(parts,
				bg.Render("Selected:", styles.MutedText)+bg.Space()+
					bg.Render(humanize.Comma(int64(len(snap.SelectedKeys))), styles.Text))
		}
	}

	if status != nil && !status.LastUpdated.IsZero() && m.width >= LayoutCompactWidth {
		parts = append(parts, bg.Render("updated "+humanize.Time(status.LastUpdated), styles.FaintText))
	}
	if m.source != "" && m.width >= LayoutWideWidth {
		parts = append(parts, bg.Render(truncate(m.source, 40), styles.FaintText))
	}
	return parts
}

// renderToolbar renders the quick filter input and the advanced filters.
func (m Model) renderToolbar(v grid.View, lay layout) string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	var b strings.Builder
	x := 0
	pad := func(to int) {
		if to > x {
			b.WriteString(bg.Spaces(to - x))
			x = to
		}
	}

	if v.QuickFilter != nil {
		pad(lay.quick.x)
		input := lipgloss.NewStyle().
			Background(lipgloss.Color(m.theme.SurfaceAlt)).
			Foreground(lipgloss.Color(m.theme.Text)).
			Width(lay.quick.width).
			MaxWidth(lay.quick.width)
		var content string
		switch {
		case m.filterFocused:
			content = m.filter.View()
		case v.QuickFilter.Value != "":
			content = fit(v.QuickFilter.Value, lay.quick.width)
		default:
			content = lipgloss.NewStyle().
				Foreground(lipgloss.Color(m.theme.Faint)).
				Render(fit(v.QuickFilter.Placeholder, lay.quick.width))
		}
		b.WriteString(input.Render(content))
		x = lay.quick.end()
	}

	for i, f := range v.AdvancedFilters {
		if i >= len(lay.filters) {
			break
		}
		pad(lay.filters[i].x)
		style := styles.MutedText
		if f.Checked {
			style = styles.AccentText
		}
		b.WriteString(bg.Render(filterText(f), style))
		x = lay.filters[i].end()
	}

	return m.fill(b.String(), m.theme.Surface)
}

// renderColumns renders the header row.
func (m Model) renderColumns(v grid.View, lay layout) string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	var b strings.Builder
	b.WriteString(bg.Spaces(leftMargin))
	for i, h := range v.Headers {
		if i >= len(lay.columns) {
			break
		}
		style := styles.Text.Bold(true)
		switch {
		case h.Kind == grid.HeaderSort && h.Active:
			style = styles.AccentText.Bold(true)
		case h.Kind == grid.HeaderBulk:
			style = styles.AccentText
		}
		if i == m.column && !v.Masked {
			style = style.Underline(true)
		}
		b.WriteString(bg.Render(fit(headerText(h), lay.columns[i].width), style))
		if i < len(v.Headers)-1 {
			b.WriteString(bg.Spaces(columnGap))
		}
	}
	return m.fill(b.String(), m.theme.Surface)
}

// renderBody renders exactly lay.bodyHeight lines: the rows, or the mask,
// error or empty message in their place.
func (m Model) renderBody(v grid.View, lay layout) []string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	blank := m.fill("", m.theme.SurfaceAlt)
	lines := make([]string, lay.bodyHeight)
	for i := range lines {
		lines[i] = blank
	}
	if lay.bodyHeight == 0 {
		return lines
	}

	center := func(msg string, style lipgloss.Style) string {
		return lipgloss.NewStyle().
			Background(lipgloss.Color(m.theme.SurfaceAlt)).
			Width(m.width).
			MaxWidth(m.width).
			Align(lipgloss.Center).
			Render(style.Render(msg))
	}
	mid := lay.bodyHeight / 2

	switch {
	case v.Loading:
		lines[mid] = center(m.spinner.View()+" Loading…", styles.WarningText)
		return lines
	case v.Errored:
		msg := "Could not load data"
		if err := m.comp.Err(); err != nil {
			msg += ": " + singleLine(err.Error())
		}
		lines[mid] = center(truncate(msg, m.width-2), styles.DangerText)
		if mid+1 < len(lines) {
			lines[mid+1] = center("press r to retry", styles.MutedText)
		}
		return lines
	case v.NoResults:
		lines[mid] = center(v.NoResultsText, styles.MutedText)
		return lines
	}

	cursor, _ := m.cursorRow()
	for i, idx := range lay.body {
		rv, ok := v.Row(idx)
		if !ok {
			continue
		}
		lines[i] = m.renderRow(rv, lay, idx == cursor)
	}
	return lines
}

// renderRow renders one data row.
func (m Model) renderRow(rv grid.RowView, lay layout, cursor bool) string {
	bgColor := m.theme.SurfaceAlt
	base := m.theme.Styles().RowStyle(rv.Tags)
	switch {
	case cursor:
		bgColor = m.theme.FocusBg
	case rv.HasTag(grid.TagSelected):
		bgColor = m.theme.SelectionBg
		base = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
	case rv.Index == m.hoverRow && rv.HasTag(grid.TagHoverEnabled):
		bgColor = m.theme.BorderMuted
	}
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)

	var b strings.Builder
	b.WriteString(bg.Spaces(leftMargin))
	for c, col := range lay.columns {
		if c >= len(rv.Cells) {
			break
		}
		cell := rv.Cells[c]
		style := base
		switch cell.Kind {
		case grid.CellSelect:
			style = styles.AccentText
		case grid.CellAction:
			style = styles.AccentText.Underline(true)
		case grid.CellStatus:
			style = ternaryStyle(cell.Online, styles.SuccessText, styles.DangerText)
		}
		b.WriteString(bg.Render(fit(cellText(cell), col.width), style))
		if c < len(lay.columns)-1 {
			b.WriteString(bg.Spaces(columnGap))
		}
	}
	return m.fill(b.String(), bgColor)
}

// renderPager renders the pagination line, or a blank line when hidden.
func (m Model) renderPager(v grid.View, lay layout) string {
	if lay.pagerY < 0 || v.Pagination == nil {
		return m.fill("", m.theme.Surface)
	}
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	icons := m.comp.Icons()
	w := v.Pagination

	left := ternaryStyle(w.LeftDisabled, styles.FaintText, styles.AccentText.Bold(true))
	right := ternaryStyle(w.RightDisabled, styles.FaintText, styles.AccentText.Bold(true))
	content := bg.Spaces(lay.pageLeft.x) +
		bg.Render(icons.PageLeft, left) + bg.Space() +
		bg.Render(w.Text(), styles.Text) + bg.Space() +
		bg.Render(icons.PageRight, right)
	return m.fill(content, m.theme.Surface)
}

// renderFooter renders the short key help and the hover text of whatever
// is under the pointer.
func (m Model) renderFooter() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	left := m.help.ShortHelpView(m.keys.ShortHelp())
	right := ""
	if m.hover != "" {
		right = styles.InfoText.Render(truncate(m.hover, max(m.width/3, 10)))
	}
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	content := left
	if right != "" && gap > 0 {
		content = left + strings.Repeat(" ", gap) + right
	}
	return styles.Footer.Width(m.width).MaxWidth(m.width).Render(content)
}

func ternaryStyle(cond bool, a, b lipgloss.Style) lipgloss.Style {
	if cond {
		return a
	}
	return b
}

// describeTarget names a hit target for debug logging.
func describeTarget(t grid.Target) string {
	switch t.Kind {
	case grid.TargetHeader:
		return fmt.Sprintf("header[%d]", t.Column)
	case grid.TargetCell:
		return fmt.Sprintf("cell[%d,%d]", t.Row, t.Column)
	case grid.TargetAdvancedFilter:
		return fmt.Sprintf("filter[%d]", t.Filter)
	case grid.TargetPageLeft:
		return "page-left"
	case grid.TargetPageRight:
		return "page-right"
	case grid.TargetQuickFilter:
		return "quick-filter"
	default:
		return "none"
	}
}
