package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/gridview/internal/grid"
)

// Config holds gridview's runtime settings.
type Config struct {
	Table                  string
	Source                 string
	SourceKind             string
	RowsPath               string
	Query                  string
	PageSize               int
	PollInterval           time.Duration
	DragThreshold          int
	NoResultsText          string
	QuickFilterPlaceholder string
	LogFile                string
	LogLevel               string
	Watch                  bool
	Icons                  grid.IconSet
	Filters                map[string]string
}

const (
	defaultConfigPath = "~/.config/gridview/config.toml"
	defaultTablePath  = "~/.config/gridview/table.yaml"
	defaultLogFile    = "~/.local/state/gridview/gridview.log"
	defaultLogLevel   = "info"
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

func defaults() Config {
	return Config{
		Table:         mustExpand(defaultTablePath),
		DragThreshold: grid.DefaultDragThreshold,
		LogFile:       mustExpand(defaultLogFile),
		LogLevel:      defaultLogLevel,
	}
}

// Load locates and parses the gridview config, falling back to defaults when
// missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Table                  string            `toml:"table"`
		Source                 string            `toml:"source"`
		SourceKind             string            `toml:"source_kind"`
		RowsPath               string            `toml:"rows_path"`
		Query                  string            `toml:"query"`
		PageSize               int               `toml:"page_size"`
		PollSeconds            int               `toml:"poll_seconds"`
		DragThreshold          *int              `toml:"drag_threshold"`
		NoResultsText          string            `toml:"no_results_text"`
		QuickFilterPlaceholder string            `toml:"quick_filter_placeholder"`
		LogFile                string            `toml:"log_file"`
		LogLevel               string            `toml:"log_level"`
		Watch                  bool              `toml:"watch"`
		Icons                  grid.IconSet      `toml:"icons"`
		Filters                map[string]string `toml:"filters"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if table := strings.TrimSpace(raw.Table); table != "" {
		cfg.Table = mustExpand(table)
	}
	cfg.SourceKind = strings.ToLower(strings.TrimSpace(raw.SourceKind))
	cfg.Source = ResolveSource(raw.Source)
	cfg.RowsPath = strings.TrimSpace(raw.RowsPath)
	cfg.Query = strings.TrimSpace(raw.Query)
	cfg.PageSize = raw.PageSize
	cfg.PollInterval = time.Duration(raw.PollSeconds) * time.Second
	if raw.DragThreshold != nil {
		cfg.DragThreshold = *raw.DragThreshold
	}
	cfg.NoResultsText = strings.TrimSpace(raw.NoResultsText)
	cfg.QuickFilterPlaceholder = strings.TrimSpace(raw.QuickFilterPlaceholder)
	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}
	if level := strings.ToLower(strings.TrimSpace(raw.LogLevel)); level != "" {
		cfg.LogLevel = level
	}
	cfg.Watch = raw.Watch
	cfg.Icons = raw.Icons
	if len(raw.Filters) > 0 {
		cfg.Filters = make(map[string]string, len(raw.Filters))
		for k, v := range raw.Filters {
			cfg.Filters[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", resolved, err)
	}
	return cfg, nil
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	var errs []error
	switch c.SourceKind {
	case "", "file", "http", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("source_kind %q must be file, http or sqlite", c.SourceKind))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level %q must be debug, info, warn or error", c.LogLevel))
	}
	if c.PageSize < 0 {
		errs = append(errs, errors.New("page_size must not be negative"))
	}
	if c.PollInterval < 0 {
		errs = append(errs, errors.New("poll_seconds must not be negative"))
	}
	if c.DragThreshold < 0 {
		errs = append(errs, errors.New("drag_threshold must not be negative"))
	}
	if c.SourceKind == "sqlite" && c.Query == "" {
		errs = append(errs, errors.New("sqlite sources need a query"))
	}
	return errors.Join(errs...)
}

// ResolveSource trims a source location and expands ~ for paths. URLs are
// returned unchanged.
func ResolveSource(source string) string {
	trimmed := strings.TrimSpace(source)
	if trimmed == "" || strings.Contains(trimmed, "://") {
		return trimmed
	}
	return mustExpand(trimmed)
}

// ExpandPath resolves ~ and makes path absolute.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
