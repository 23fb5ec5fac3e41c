package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const ellipsis = "…"

// displayWidth returns the terminal cell width of s.
func displayWidth(s string) int {
	return runewidth.StringWidth(s)
}

// truncate shortens a string to the given cell width, adding an ellipsis if
// needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= limit {
		return value
	}
	if limit == 1 {
		return runewidth.Truncate(value, 1, "")
	}
	return runewidth.Truncate(value, limit, ellipsis)
}

// fit truncates s and pads it with spaces to exactly width cells.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.FillRight(truncate(s, width), width)
}

// fitRight is fit with the text aligned to the right edge.
func fitRight(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.FillLeft(truncate(s, width), width)
}

// singleLine collapses newlines and tabs so a value fits on one row.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
