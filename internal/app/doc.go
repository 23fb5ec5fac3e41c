// Package app is the composition root of gridview.
//
// # Overview
//
// Run loads the configuration, the user preferences and the table
// definition, opens the data source, and connects a state.Store to one
// grid.Component driven by the Bubble Tea UI.
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()      Read config.toml
//	       ├─────> logging.New()      Log file sink
//	       ├─────> tabledef.Load()    Columns, filters, handlers (YAML)
//	       ├─────> source.Open()      File, HTTP or SQLite rows
//	       ├─────> state.New()        Table store
//	       ├─────> Bind()             Named handlers → functions
//	       ├─────> grid.New()         Component with a uuid id
//	       ├─────> StartPoller()      Periodic refresh (optional)
//	       ├─────> source.Watcher     Refresh on file change (optional)
//	       └─────> ui.Run()           TUI (blocks)
//
// # Handlers
//
// Table definitions name their row activation and action handlers.
// Builtins provides detail, copy and log; Bind attaches them by name and
// reports names it does not know. An unknown name is not a startup error:
// the grid raises grid.ConfigurationError when the user triggers it, and
// the UI exits with that error.
//
// # Polling
//
// With poll_seconds set, the poller calls Store.RefreshAll on that
// cadence. Refreshes reuse each grid's current filters, sort and page, so
// the grid stays in the ready state while new rows arrive. While fetches
// keep failing the interval doubles per failure up to 30 seconds.
//
// # Errors
//
// Fatal errors are returned from Run: an invalid config, an unreadable or
// invalid table definition, a source that cannot be opened and a
// ConfigurationError raised while the UI runs. Fetch failures are not
// fatal; the grid shows them and offers a retry.
package app
