// Package config loads gridview's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/gridview/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing or empty, use defaults
//
// # Default Values
//
//   - Config file: ~/.config/gridview/config.toml
//   - Table definition: ~/.config/gridview/table.yaml
//   - Log file: ~/.local/state/gridview/gridview.log
//   - Log level: info
//   - Drag threshold: 10 cells
//   - Polling: off
//
// # Example
//
//	table = "~/tables/jobs.yaml"
//	source = "http://127.0.0.1:8080/api/jobs"
//	rows_path = "items"
//	page_size = 50
//	poll_seconds = 10
//	log_level = "debug"
//
//	[filters]
//	owner = "me"
//
//	[icons]
//	sort_asc = "^"
//	sort_desc = "v"
//
// Paths may start with ~. Values are trimmed. Filters are handed to the
// source with every request; icons override the built-in glyphs slot by
// slot.
package config
