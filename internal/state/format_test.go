package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/five82/gridview/internal/grid"
)

func TestFormatRow(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	cols := []grid.Column{
		{DataProperty: "started", DataType: grid.TypeTime},
		{DataProperty: "seen", DataType: grid.TypeStatus},
		{DataProperty: "load", DataType: grid.TypePercent},
		{DataProperty: "took", DataType: grid.TypeDuration},
		{DataProperty: "wait", DataType: grid.TypeDuration},
		{DataProperty: "name"},
	}
	row := grid.Row{
		"started": "2024-05-01T11:58:00Z",
		"seen":    float64(now.Add(-3 * time.Hour).Unix()),
		"load":    float64(12.5),
		"took":    float64(3725),
		"wait":    "90s",
		"name":    "disk",
	}

	got := FormatRow(cols, row, now)

	assert.Equal(t, "2 minutes ago", got["startedTimestamp"])
	assert.Equal(t, "3 hours ago", got["seenTimestamp"])
	assert.Equal(t, "12.5%", got["loadPercent"])
	assert.Equal(t, "1h2m5s", got["tookDuration"])
	assert.Equal(t, "1m30s", got["waitDuration"])
	_, hasNameExtra := got["nameTimestamp"]
	assert.False(t, hasNameExtra)
}

func TestFormatRow_KeepsExistingFields(t *testing.T) {
	cols := []grid.Column{{DataProperty: "started", DataType: grid.TypeTime}}
	row := grid.Row{"started": "2024-05-01T11:58:00Z", "startedTimestamp": "custom"}

	got := FormatRow(cols, row, time.Now())
	assert.Equal(t, "custom", got["startedTimestamp"])
}

func TestFormatRow_Unparseable(t *testing.T) {
	cols := []grid.Column{
		{DataProperty: "started", DataType: grid.TypeTime},
		{DataProperty: "load", DataType: grid.TypePercent},
	}
	got := FormatRow(cols, grid.Row{"started": "yesterday", "load": "lots"}, time.Now())
	assert.Equal(t, "yesterday", got["startedTimestamp"])
	assert.Equal(t, "lots", got["loadPercent"])
}

func TestCompareValues(t *testing.T) {
	early := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		a, b any
		want int
	}{
		{"numbers", float64(2), float64(10), -1},
		{"numeric strings", "10", "9", 1},
		{"case insensitive", "alpha", "Beta", -1},
		{"equal text", "Same", "same", 0},
		{"times", early, early.Add(time.Hour), -1},
		{"nil last", nil, "a", 1},
		{"both nil", nil, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, compareValues(tt.a, tt.b))
		})
	}
}
