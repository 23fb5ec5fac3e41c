package ui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/gridview/internal/grid"
	"github.com/five82/gridview/internal/prefs"
)

// flashDuration is how long a flash message stays in the header.
const flashDuration = 3 * time.Second

// StoreStatus is the data health shown in the header.
type StoreStatus struct {
	LastUpdated time.Time
	Offline     bool
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Component *grid.Component
	// Status reports data health for a component id. Optional.
	Status     func(componentID string) (StoreStatus, bool)
	Effects    *Effects
	Title      string
	Source     string
	ThemeName  string
	PrefsPath  string
	HideFooter bool
	// LogFile is tailed by the log overlay. Empty disables it.
	LogFile string
	Logger  *slog.Logger
}

// Model is the root application state for Bubble Tea. It owns the grid
// component: every component call happens on the update goroutine.
type Model struct {
	ctx       context.Context
	comp      *grid.Component
	status    func(string) (StoreStatus, bool)
	effects   *Effects
	box       *mailbox
	log       *slog.Logger
	prefsPath string
	logFile   string
	title     string
	source    string

	// UI state
	theme      Theme
	keys       keyMap
	help       help.Model
	spinner    spinner.Model
	spinning   bool
	width      int
	height     int
	ready      bool
	hideFooter bool
	showHelp   bool

	// Grid navigation
	cursor int // position among visible rows
	column int
	scroll int

	// Pointer state
	pointerDown bool
	hover       string
	hoverRow    int

	// Quick filter input
	filter        textinput.Model
	filterFocused bool

	// Row detail overlay
	detail detailState

	flash   string
	flashID int

	err error
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.Default().Theme
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	effects := opts.Effects
	if effects == nil {
		effects = NewEffects()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	input := textinput.New()
	input.Prompt = ""
	input.Width = quickFilterWidth - 1
	input.CharLimit = 256
	input.Placeholder = grid.DefaultQuickFilterPlaceholder

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:        ctx,
		comp:       opts.Component,
		status:     opts.Status,
		effects:    effects,
		box:        newMailbox(),
		log:        logger,
		prefsPath:  prefsPath,
		logFile:    opts.LogFile,
		title:      opts.Title,
		source:     opts.Source,
		theme:      GetTheme(themeName),
		keys:       DefaultKeyMap(),
		help:       help.New(),
		spinner:    sp,
		spinning:   true,
		hideFooter: opts.HideFooter,
		hoverRow:   -1,
		filter:     input,
		detail:     detailState{viewport: viewport.New(0, 0)},
	}
}

// Err returns the error that ended the program, if any.
func (m Model) Err() error { return m.err }

// Init implements tea.Model. It mounts the component, which subscribes to
// the store and requests the first page.
func (m Model) Init() tea.Cmd {
	m.comp.Mount(m.box.Post)
	return tea.Batch(
		m.box.wait(m.ctx),
		m.spinner.Tick,
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width
		m.sizeDetail()
		m.clampCursor()
		return m, nil

	case notificationsMsg:
		for _, n := range msg {
			m.comp.Receive(n)
		}
		m.syncFilterInput()
		m.clampCursor()
		spin := m.startSpinner()
		return m, tea.Batch(m.box.wait(m.ctx), spin)

	case spinner.TickMsg:
		if !m.comp.View().Loading {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case flashExpiredMsg:
		if int(msg) == m.flashID {
			m.flash = ""
		}
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.detail.open {
		return m.renderDetail()
	}
	return m.renderMain(m.layout())
}

// layout builds the geometry of the current frame.
func (m Model) layout() layout {
	return buildLayout(m.comp.View(), m.comp.Icons(), m.width, m.height, m.scroll, !m.hideFooter)
}

// afterAction finishes a component call: a ConfigurationError ends the
// program, handler effects are applied and the spinner restarts when the
// grid went back to loading.
func (m Model) afterAction(err error) (tea.Model, tea.Cmd) {
	if err != nil {
		m.err = err
		var cfgErr *grid.ConfigurationError
		if errors.As(err, &cfgErr) {
			m.log.Error("grid configuration error", "component", cfgErr.Component, "field", cfgErr.Field, "error", err)
		} else {
			m.log.Error("grid action failed", "error", err)
		}
		return m, tea.Quit
	}

	var cmds []tea.Cmd
	if title, row, ok := m.effects.TakeDetail(); ok {
		m.openDetail(title, row)
	}
	if msg, ok := m.effects.TakeFlash(); ok {
		cmds = append(cmds, m.setFlash(msg))
	}
	m.clampCursor()
	cmds = append(cmds, m.startSpinner())
	return m, tea.Batch(cmds...)
}

func (m *Model) startSpinner() tea.Cmd {
	if m.spinning || !m.comp.View().Loading {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}

type flashExpiredMsg int

func (m *Model) setFlash(msg string) tea.Cmd {
	m.flashID++
	m.flash = msg
	id := m.flashID
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashExpiredMsg(id)
	})
}

// savePrefs persists theme and footer choices. Failures only cost the
// preference, so they are logged and otherwise ignored.
func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, HideFooter: m.hideFooter}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.log.Warn("save prefs failed", "error", err)
	}
}

// syncFilterInput mirrors the store's quick filter text while the input is
// not being edited.
func (m *Model) syncFilterInput() {
	if m.filterFocused {
		return
	}
	if qf := m.comp.View().QuickFilter; qf != nil {
		m.filter.SetValue(qf.Value)
		m.filter.Placeholder = qf.Placeholder
	}
}

// Run starts the Bubble Tea program and blocks until it exits. The
// component is destroyed on the way out. A ConfigurationError raised by a
// handler is returned.
func Run(opts Options) error {
	ctx, cancel := context.WithCancel(contextOrBackground(opts.Context))
	defer cancel()
	opts.Context = ctx

	m := New(opts)
	defer m.comp.Destroy()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	if fm, ok := final.(Model); ok && fm.err != nil {
		return fm.err
	}
	return nil
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
