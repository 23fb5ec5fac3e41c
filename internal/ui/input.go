package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/gridview/internal/grid"
	"github.com/five82/gridview/internal/logtail"
)

// logTailLines is how many log lines the log overlay shows.
const logTailLines = 500

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if m.detail.open {
		return m.handleDetailKey(msg)
	}
	if m.filterFocused {
		return m.handleFilterKey(msg)
	}

	v := m.comp.View()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.ToggleFoot):
		m.hideFooter = !m.hideFooter
		m.savePrefs()
		m.clampCursor()
		return m, nil

	case key.Matches(msg, m.keys.Retry):
		m.comp.RequestData()
		return m.afterAction(nil)

	case key.Matches(msg, m.keys.Logs):
		return m.showLog()

	case key.Matches(msg, m.keys.QuickFilter):
		if v.QuickFilter == nil {
			return m, nil
		}
		cmd := m.focusFilter()
		return m, cmd

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
		m.clampCursor()
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = len(v.VisibleRows()) - 1
		m.clampCursor()
	case key.Matches(msg, m.keys.ScrollUp):
		m.moveCursor(-max(m.layout().bodyHeight/2, 1))
	case key.Matches(msg, m.keys.ScrollDown):
		m.moveCursor(max(m.layout().bodyHeight/2, 1))
	case key.Matches(msg, m.keys.Left):
		if m.column > 0 {
			m.column--
		}
	case key.Matches(msg, m.keys.Right):
		if m.column < len(v.Headers)-1 {
			m.column++
		}

	case key.Matches(msg, m.keys.Sort):
		return m.afterAction(m.comp.ToggleSort(m.column))

	case key.Matches(msg, m.keys.PrevPage):
		return m.afterAction(m.comp.Page(grid.PageLeft))

	case key.Matches(msg, m.keys.NextPage):
		return m.afterAction(m.comp.Page(grid.PageRight))

	case key.Matches(msg, m.keys.SelectAll):
		return m.afterAction(m.comp.ToggleBulk())

	case key.Matches(msg, m.keys.Select):
		if row, ok := m.cursorRow(); ok {
			return m.afterAction(m.comp.ToggleSelect(row))
		}

	case key.Matches(msg, m.keys.Activate):
		row, ok := m.cursorRow()
		if !ok {
			return m, nil
		}
		if m.onActionColumn(v, row) {
			return m.afterAction(m.comp.Action(row, m.column))
		}
		return m.afterAction(m.comp.Activate(row))

	case key.Matches(msg, m.keys.FilterKeys):
		i := int(msg.Runes[0] - '1')
		return m.afterAction(m.comp.ToggleFilter(i))
	}
	return m, nil
}

// showLog opens the tail of the log file in the overlay.
func (m Model) showLog() (tea.Model, tea.Cmd) {
	if m.logFile == "" {
		cmd := m.setFlash("Logging to stderr; no log file")
		return m, cmd
	}
	lines, err := logtail.Tail(m.logFile, logTailLines)
	if err != nil {
		m.log.Warn("read log failed", "path", m.logFile, "error", err)
		cmd := m.setFlash("Cannot read log: " + err.Error())
		return m, cmd
	}
	if len(lines) == 0 {
		cmd := m.setFlash("Log is empty")
		return m, cmd
	}
	m.openText("Log · "+m.logFile, strings.Join(lines, "\n"))
	return m, nil
}

func (m Model) onActionColumn(v grid.View, row int) bool {
	rv, ok := v.Row(row)
	return ok && m.column >= 0 && m.column < len(rv.Cells) && rv.Cells[m.column].Kind == grid.CellAction
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "enter":
		m.closeDetail()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.detail.viewport, cmd = m.detail.viewport.Update(msg)
	return m, cmd
}

// handleFilterKey edits the quick filter. Every change is sent to the store.
func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "tab":
		m.blurFilter()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}
	before := m.filter.Value()
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if value := m.filter.Value(); value != before {
		m.cursor, m.scroll = 0, 0
		m.comp.SetQuickFilter(value)
	}
	return m, cmd
}

func (m *Model) focusFilter() tea.Cmd {
	if qf := m.comp.View().QuickFilter; qf != nil {
		m.filter.SetValue(qf.Value)
		m.filter.CursorEnd()
	}
	m.filterFocused = true
	return m.filter.Focus()
}

func (m *Model) blurFilter() {
	m.filterFocused = false
	m.filter.Blur()
}

// handleMouse hit-tests the event against the current layout and feeds
// left-button presses and releases to the component.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showHelp || m.detail.open {
		if msg.Action == tea.MouseActionRelease {
			m.showHelp = false
			m.closeDetail()
		}
		return m, nil
	}

	lay := m.layout()
	z, hit := lay.hit(msg.X, msg.Y)
	target := grid.Target{Kind: grid.TargetNone}
	if hit {
		target = z.target
	}

	switch msg.Action {
	case tea.MouseActionMotion:
		m.hover = z.hover
		m.hoverRow = -1
		if row, ok := lay.rowAt(msg.Y); ok {
			m.hoverRow = row
		}
		return m, nil

	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.moveCursor(-1)
			return m, nil
		case tea.MouseButtonWheelDown:
			m.moveCursor(1)
			return m, nil
		case tea.MouseButtonLeft:
			m.pointerDown = true
			m.log.Debug("pointer press", "target", describeTarget(target), "x", msg.X)
			return m.afterAction(m.comp.HandlePointer(grid.PointerEvent{
				X: msg.X, Y: msg.Y, Action: grid.PointerPress, Target: target,
			}))
		}
		return m, nil

	case tea.MouseActionRelease:
		if !m.pointerDown {
			return m, nil
		}
		m.pointerDown = false
		m.log.Debug("pointer release", "target", describeTarget(target), "x", msg.X)

		var cmd tea.Cmd
		switch target.Kind {
		case grid.TargetQuickFilter:
			cmd = m.focusFilter()
		case grid.TargetCell:
			m.moveCursorTo(target.Row)
			if target.Column >= 0 {
				m.column = target.Column
			}
			if m.filterFocused {
				m.blurFilter()
			}
		default:
			if m.filterFocused {
				m.blurFilter()
			}
		}

		next, actionCmd := m.afterAction(m.comp.HandlePointer(grid.PointerEvent{
			X: msg.X, Y: msg.Y, Action: grid.PointerRelease, Target: target,
		}))
		return next, tea.Batch(cmd, actionCmd)
	}
	return m, nil
}

// cursorRow returns the logical index of the row under the cursor.
func (m Model) cursorRow() (int, bool) {
	rows := m.comp.View().VisibleRows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return 0, false
	}
	return rows[m.cursor].Index, true
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

// moveCursorTo puts the cursor on the row with logical index row.
func (m *Model) moveCursorTo(row int) {
	for i, rv := range m.comp.View().VisibleRows() {
		if rv.Index == row {
			m.cursor = i
			m.clampCursor()
			return
		}
	}
}

// clampCursor keeps the cursor on a visible row and scrolls the body so the
// cursor is drawn.
func (m *Model) clampCursor() {
	v := m.comp.View()
	n := len(v.VisibleRows())
	m.cursor = min(max(m.cursor, 0), max(n-1, 0))
	m.column = min(max(m.column, 0), max(len(v.Headers)-1, 0))

	height := buildLayout(v, m.comp.Icons(), m.width, m.height, 0, !m.hideFooter).bodyHeight
	if height <= 0 {
		m.scroll = 0
		return
	}
	if m.cursor < m.scroll {
		m.scroll = m.cursor
	}
	if m.cursor >= m.scroll+height {
		m.scroll = m.cursor - height + 1
	}
	m.scroll = min(max(m.scroll, 0), max(n-height, 0))
}
