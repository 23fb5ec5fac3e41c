// Package source loads row data for the table store.
//
// Three fetchers share one contract, Fetch(ctx, filters) ([]grid.Row, error):
//
//	File    JSON document on disk
//	HTTP    JSON document from an HTTP endpoint; filters become query params
//	SQLite  rows of a SQL query; filters bind to matching named parameters
//
// JSON sources pick the row array out of the document with a gjson path
// (rows_path in the config). An empty path means the document itself is the
// array. A missing path is reported as grid.ErrDataUnavailable so the grid
// shows its error state instead of an empty table.
//
// Watcher follows a file on disk and calls back when its content changes.
// Editors often write a file several times in a row, so events are
// debounced and the content is fingerprinted with xxh3; a save that leaves
// the bytes unchanged does not trigger a refetch.
package source
