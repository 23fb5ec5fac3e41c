package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/google/uuid"

	"github.com/five82/gridview/internal/config"
	"github.com/five82/gridview/internal/grid"
	"github.com/five82/gridview/internal/logging"
	"github.com/five82/gridview/internal/prefs"
	"github.com/five82/gridview/internal/source"
	"github.com/five82/gridview/internal/state"
	"github.com/five82/gridview/internal/tabledef"
	"github.com/five82/gridview/internal/ui"
)

// Options configure the gridview application. Non-zero fields override the
// config file.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/gridview/prefs.toml
	TablePath  string
	Source     string
	PollEvery  int // seconds
}

// Run boots the grid TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyOverrides(&cfg, opts)

	logger, closeLog, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = closeLog() }()

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	def, err := tabledef.Load(cfg.Table)
	if err != nil {
		return fmt.Errorf("load table definition: %w", err)
	}
	if cfg.PageSize > 0 {
		def.PageSize = cfg.PageSize
	}

	if cfg.Source == "" {
		return errors.New("no data source configured: set source in the config file or pass -source")
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	src, err := source.Open(runCtx, source.Options{
		Kind:     source.Kind(cfg.SourceKind),
		Location: cfg.Source,
		RowsPath: cfg.RowsPath,
		Query:    cfg.Query,
	})
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer func() { _ = src.Close() }()

	store := state.New(runCtx, src, logger.With("component", "store"))

	effects := ui.NewEffects()
	if missing := Bind(&def, Builtins(effects, clipboard.WriteAll, logger)); len(missing) > 0 {
		logger.Warn("table names unknown handlers", "handlers", strings.Join(missing, ", "))
	}

	id := "grid-" + uuid.NewString()
	comp, err := grid.New(id, store, store, grid.Options{
		Definition:             def,
		Filters:                cfg.Filters,
		Icons:                  cfg.Icons,
		NoResultsText:          cfg.NoResultsText,
		QuickFilterPlaceholder: cfg.QuickFilterPlaceholder,
		DragThreshold:          cfg.DragThreshold,
		Logger:                 logger.With("component", id),
	})
	if err != nil {
		return fmt.Errorf("init grid: %w", err)
	}

	StartPoller(runCtx, store, cfg.PollInterval, logger)
	if cfg.Watch {
		startWatcher(runCtx, cfg, store, logger)
	}

	logger.Info("gridview starting", "component", id, "table", cfg.Table, "source", cfg.Source)
	err = ui.Run(ui.Options{
		Context:    runCtx,
		Component:  comp,
		Status:     statusFunc(store),
		Effects:    effects,
		Title:      tableTitle(cfg.Table),
		Source:     cfg.Source,
		ThemeName:  userPrefs.Theme,
		PrefsPath:  opts.PrefsPath,
		HideFooter: userPrefs.HideFooter,
		LogFile:    cfg.LogFile,
		Logger:     logger.With("component", "ui"),
	})

	cancel()
	store.Wait()
	return err
}

func applyOverrides(cfg *config.Config, opts Options) {
	if opts.TablePath != "" {
		if path, err := config.ExpandPath(opts.TablePath); err == nil {
			cfg.Table = path
		}
	}
	if opts.Source != "" {
		cfg.Source = config.ResolveSource(opts.Source)
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = time.Duration(opts.PollEvery) * time.Second
	}
}

// startWatcher refreshes every grid when a local data file changes.
func startWatcher(ctx context.Context, cfg config.Config, store *state.Store, logger *slog.Logger) {
	kind := source.Kind(cfg.SourceKind)
	if kind == "" {
		kind = source.InferKind(cfg.Source)
	}
	if kind == source.KindHTTP {
		logger.Warn("watch ignored for http sources", "source", cfg.Source)
		return
	}
	w, err := source.NewWatcher(cfg.Source, logger.With("component", "watcher"))
	if err != nil {
		logger.Warn("file watcher unavailable", "source", cfg.Source, "error", err)
		return
	}
	go func() {
		if err := w.Run(ctx, store.RefreshAll); err != nil {
			logger.Warn("file watcher stopped", "error", err)
		}
	}()
}

func statusFunc(store *state.Store) func(string) (ui.StoreStatus, bool) {
	return func(id string) (ui.StoreStatus, bool) {
		st, ok := store.Status(id)
		if !ok {
			return ui.StoreStatus{}, false
		}
		return ui.StoreStatus{LastUpdated: st.LastUpdated, Offline: st.IsOffline()}, true
	}
}

// tableTitle derives a display title from the definition file name.
func tableTitle(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
