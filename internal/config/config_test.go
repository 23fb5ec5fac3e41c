package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/five82/gridview/internal/grid"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	wantTable, err := expandPath(defaultTablePath)
	if err != nil {
		t.Fatalf("expandPath(defaultTablePath) returned error: %v", err)
	}
	if cfg.Table != wantTable {
		t.Fatalf("Table = %q, want %q", cfg.Table, wantTable)
	}
	if cfg.LogLevel != defaultLogLevel {
		t.Fatalf("LogLevel = %q, want %q", cfg.LogLevel, defaultLogLevel)
	}
	if cfg.DragThreshold != grid.DefaultDragThreshold {
		t.Fatalf("DragThreshold = %d, want %d", cfg.DragThreshold, grid.DefaultDragThreshold)
	}
	if cfg.PollInterval != 0 {
		t.Fatalf("PollInterval = %v, want 0", cfg.PollInterval)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
table = "  ~/tables/jobs.yaml  "
source = "  http://127.0.0.1:8080/api/jobs  "
rows_path = " items "
page_size = 25
poll_seconds = 5
drag_threshold = 4
no_results_text = " Nothing here "
log_level = " DEBUG "

[filters]
" owner " = " me "

[icons]
sort_asc = "^"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !strings.HasPrefix(cfg.Table, home) {
		t.Fatalf("Table = %q, want it under HOME %q", cfg.Table, home)
	}
	if cfg.Source != "http://127.0.0.1:8080/api/jobs" {
		t.Fatalf("Source = %q", cfg.Source)
	}
	if cfg.RowsPath != "items" || cfg.PageSize != 25 {
		t.Fatalf("RowsPath/PageSize = %q/%d", cfg.RowsPath, cfg.PageSize)
	}
	if cfg.PollInterval != 5*time.Second {
		t.Fatalf("PollInterval = %v, want 5s", cfg.PollInterval)
	}
	if cfg.DragThreshold != 4 {
		t.Fatalf("DragThreshold = %d, want 4", cfg.DragThreshold)
	}
	if cfg.NoResultsText != "Nothing here" {
		t.Fatalf("NoResultsText = %q", cfg.NoResultsText)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.Filters["owner"] != "me" {
		t.Fatalf("Filters = %#v", cfg.Filters)
	}
	if cfg.Icons.SortAsc != "^" {
		t.Fatalf("Icons.SortAsc = %q, want ^", cfg.Icons.SortAsc)
	}
}

func TestLoad_ZeroDragThresholdIsKept(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("drag_threshold = 0\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.DragThreshold != 0 {
		t.Fatalf("DragThreshold = %d, want 0", cfg.DragThreshold)
	}
}

func TestLoad_InvalidTOMLReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("table = [\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want parse config error", err.Error())
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
source_kind = "ftp"
log_level = "loud"
page_size = -1
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want error")
	}
	for _, want := range []string{"source_kind", "log_level", "page_size"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("Load error = %q, want it to mention %s", err.Error(), want)
		}
	}
}

func TestValidate_SQLiteNeedsQuery(t *testing.T) {
	cfg := Config{SourceKind: "sqlite", LogLevel: "info"}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("Validate accepted sqlite source without query")
	}
	cfg.Query = "SELECT 1"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
}

func TestResolveSource(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if got := ResolveSource(" https://example.com/rows "); got != "https://example.com/rows" {
		t.Fatalf("ResolveSource(url) = %q", got)
	}
	if got := ResolveSource("~/rows.json"); got != filepath.Join(home, "rows.json") {
		t.Fatalf("ResolveSource(~) = %q", got)
	}
	if got := ResolveSource("  "); got != "" {
		t.Fatalf("ResolveSource(blank) = %q", got)
	}
}

func TestExpandPath_TildeUsesHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/.config/gridview/config.toml")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, ".config/gridview/config.toml")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}
