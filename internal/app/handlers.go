package app

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/five82/gridview/internal/grid"
	"github.com/five82/gridview/internal/ui"
)

// Handlers maps the handler names used in table definitions to functions.
type Handlers struct {
	Activate map[string]grid.ActivateFunc
	Actions  map[string]grid.ActionFunc
}

// Builtins returns the handlers every table can name:
//
//   - detail: open the row in the detail overlay
//   - copy: copy the row's displayed values to the clipboard
//   - log: write the row to the log
func Builtins(effects *ui.Effects, copyText func(string) error, logger *slog.Logger) Handlers {
	logRow := func(_ grid.PointerEvent, row grid.Row, props grid.Props, _ grid.Snapshot, rowIndex int) {
		logger.Info("row", "component", props.ComponentID, "index", rowIndex, "row", map[string]any(row))
	}
	showDetail := func(_ grid.PointerEvent, row grid.Row, _ grid.Props, snap grid.Snapshot, rowIndex int) {
		effects.ShowDetail(rowTitle(snap.Columns, row, rowIndex), row)
	}
	copyRow := func(_ grid.PointerEvent, row grid.Row, _ grid.Props, snap grid.Snapshot, rowIndex int) {
		if err := copyText(rowText(snap.Columns, row)); err != nil {
			logger.Warn("copy to clipboard failed", "error", err)
			effects.Flash("Copy failed: " + err.Error())
			return
		}
		effects.Flash(fmt.Sprintf("Copied row %d", rowIndex+1))
	}

	return Handlers{
		Activate: map[string]grid.ActivateFunc{
			"detail": onRow(showDetail),
			"copy":   onRow(copyRow),
			"log":    onRow(logRow),
		},
		Actions: map[string]grid.ActionFunc{
			"detail": showDetail,
			"copy":   copyRow,
			"log":    logRow,
		},
	}
}

// onRow adapts an action handler to row activation.
func onRow(fn grid.ActionFunc) grid.ActivateFunc {
	return func(ev grid.PointerEvent, props grid.Props, snap grid.Snapshot, rowIndex int) {
		if rowIndex < 0 || rowIndex >= len(snap.Rows) {
			return
		}
		fn(ev, snap.Rows[rowIndex], props, snap, rowIndex)
	}
}

// Bind attaches handlers to def by name and returns the names it could not
// resolve. Unresolved handlers stay nil; invoking one is a
// grid.ConfigurationError.
func Bind(def *grid.Definition, h Handlers) []string {
	var missing []string
	if ra := def.RowActivation; ra != nil && ra.Handler != "" {
		if fn, ok := h.Activate[ra.Handler]; ok {
			ra.OnActivate = fn
		} else {
			missing = append(missing, "rowActivation:"+ra.Handler)
		}
	}
	for i := range def.Columns {
		col := &def.Columns[i]
		if col.DataType != grid.TypeAction || col.Action == "" {
			continue
		}
		if fn, ok := h.Actions[col.Action]; ok {
			col.OnClick = fn
		} else {
			missing = append(missing, "action:"+col.Action)
		}
	}
	return missing
}

// rowTitle picks the value of the first plain column as a title.
func rowTitle(cols []grid.Column, row grid.Row, rowIndex int) string {
	for _, col := range cols {
		plain := col.DataType == grid.TypeDefault || col.DataType == ""
		if plain && col.DataProperty != "" {
			if text := strings.TrimSpace(row.Text(col.DataProperty)); text != "" {
				return text
			}
		}
	}
	return fmt.Sprintf("Row %d", rowIndex+1)
}

// rowText joins the displayed values of row with tabs.
func rowText(cols []grid.Column, row grid.Row) string {
	var values []string
	for _, col := range cols {
		if col.DataType == grid.TypeSelect || col.DataType == grid.TypeAction || col.DataProperty == "" {
			continue
		}
		values = append(values, row.Text(grid.ResolveField(col)))
	}
	return strings.Join(values, "\t")
}
