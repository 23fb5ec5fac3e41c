package state

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/five82/gridview/internal/grid"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// FormatRow fills in the derived display fields that typed columns read:
// <prop>Timestamp for time and status, <prop>Percent and <prop>Duration.
// Fields the row already carries are left alone.
func FormatRow(cols []grid.Column, row grid.Row, now time.Time) grid.Row {
	if row == nil {
		return nil
	}
	for _, col := range cols {
		if col.DataProperty == "" {
			continue
		}
		field := grid.ResolveField(col)
		if field == col.DataProperty {
			continue
		}
		if _, ok := row[field]; ok {
			continue
		}
		raw, ok := row[col.DataProperty]
		if !ok || raw == nil {
			continue
		}
		switch col.DataType {
		case grid.TypeTime, grid.TypeStatus:
			row[field] = formatTimestamp(raw, now)
		case grid.TypePercent:
			row[field] = formatPercent(raw)
		case grid.TypeDuration:
			row[field] = formatDuration(raw)
		}
	}
	return row
}

func formatTimestamp(raw any, now time.Time) string {
	t, ok := parseTime(raw)
	if !ok {
		return grid.FormatValue(raw)
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

func parseTime(raw any) (time.Time, bool) {
	switch v := raw.(type) {
	case time.Time:
		return v, !v.IsZero()
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		if f, ok := toFloat(s); ok && f > 0 {
			return time.Unix(int64(f), 0), true
		}
		return time.Time{}, false
	default:
		if f, ok := toFloat(v); ok && f > 0 {
			return time.Unix(int64(f), 0), true
		}
		return time.Time{}, false
	}
}

func formatPercent(raw any) string {
	f, ok := toFloat(raw)
	if !ok {
		return grid.FormatValue(raw)
	}
	return humanize.FtoaWithDigits(f, 1) + "%"
}

func formatDuration(raw any) string {
	if s, ok := raw.(string); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(s)); err == nil {
			return d.String()
		}
	}
	f, ok := toFloat(raw)
	if !ok {
		return grid.FormatValue(raw)
	}
	return time.Duration(f * float64(time.Second)).Round(time.Second).String()
}
