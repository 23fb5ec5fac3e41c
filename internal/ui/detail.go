package ui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/gridview/internal/grid"
)

const (
	detailMaxWidth  = 80
	detailKeyWidth  = 22
	detailChromeW   = 6 // border + padding
	detailChromeH   = 6 // border + padding + title lines
	detailMinHeight = 3
)

// detailState is the row detail overlay.
type detailState struct {
	open     bool
	title    string
	row      grid.Row
	text     string // shown instead of row fields when set
	viewport viewport.Model
}

// openDetail shows row in the overlay.
func (m *Model) openDetail(title string, row grid.Row) {
	m.detail.open = true
	m.detail.title = title
	m.detail.row = row
	m.sizeDetail()
	m.detail.viewport.GotoTop()
}

// openText shows preformatted text in the overlay, scrolled to the end.
func (m *Model) openText(title, text string) {
	m.detail.open = true
	m.detail.title = title
	m.detail.row = nil
	m.detail.text = text
	m.sizeDetail()
	m.detail.viewport.GotoBottom()
}

func (m *Model) closeDetail() {
	m.detail = detailState{viewport: m.detail.viewport}
}

// sizeDetail fits the viewport to the terminal and re-renders its content.
func (m *Model) sizeDetail() {
	w := min(detailMaxWidth, max(m.width-4, 20))
	h := max(m.height-detailChromeH-2, detailMinHeight)
	m.detail.viewport.Width = w - detailChromeW
	m.detail.viewport.Height = h
	if m.detail.open {
		m.detail.viewport.SetContent(m.detailContent(m.detail.viewport.Width))
	}
}

// detailContent renders every field of the row, sorted by name.
func (m Model) detailContent(width int) string {
	styles := m.theme.Styles()
	if m.detail.text != "" {
		return styles.Text.Width(width).Render(m.detail.text)
	}
	keys := make([]string, 0, len(m.detail.row))
	for k := range m.detail.row {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	valueWidth := max(width-detailKeyWidth-1, 8)
	keyStyle := styles.AccentText.Width(detailKeyWidth)
	var lines []string
	for _, k := range keys {
		value := m.detail.row.Text(k)
		wrapped := lipgloss.NewStyle().Width(valueWidth).Render(value)
		for i, part := range strings.Split(wrapped, "\n") {
			label := ""
			if i == 0 {
				label = truncate(k, detailKeyWidth-1)
			}
			lines = append(lines, keyStyle.Render(label)+" "+styles.Text.Render(part))
		}
	}
	if len(lines) == 0 {
		return styles.MutedText.Render("(empty row)")
	}
	return strings.Join(lines, "\n")
}

// renderDetail renders the overlay centered on screen.
func (m Model) renderDetail() string {
	styles := m.theme.Styles()

	title := m.detail.title
	if title == "" {
		title = "Row"
	}
	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(truncate(title, m.detail.viewport.Width)))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", max(m.detail.viewport.Width, 1))))
	b.WriteString("\n")
	b.WriteString(m.detail.viewport.View())

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Padding(1, 2)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
