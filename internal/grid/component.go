package grid

import (
	"fmt"
	"log/slog"
)

// Phase is the component lifecycle state.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
	PhaseErrored
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseErrored:
		return "errored"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// NotificationKind distinguishes store notifications.
type NotificationKind int

const (
	DataReady NotificationKind = iota
	RequestFailed
)

// Notification is pushed by the store when a component's data changes or a
// request fails.
type Notification struct {
	Component string
	Kind      NotificationKind
	Err       error
}

// Listener receives store notifications.
type Listener func(Notification)

// Subscription is returned by Store.Subscribe. Unsubscribe is idempotent.
type Subscription interface {
	Unsubscribe()
}

// Store is the read side of the external state owner.
type Store interface {
	Subscribe(componentID string, l Listener) Subscription
	Snapshot(componentID string) (Snapshot, bool)
}

// Dispatcher is the write side of the external state owner.
type Dispatcher interface {
	Dispatch(componentID string, cmd Command)
}

const (
	DefaultNoResultsText          = "No results found."
	DefaultQuickFilterPlaceholder = "Filter"
)

// Options configure a Component.
type Options struct {
	Definition             Definition
	Filters                map[string]string
	DataFormatter          DataFormatter
	Icons                  IconOverrides
	NoResultsText          string
	QuickFilterPlaceholder string
	SelectedRowPredicate   func(Row) bool
	DragThreshold          int
	Registry               *Registry
	Logger                 *slog.Logger
}

// Component binds one grid instance to a store. All methods must be called
// from a single goroutine.
type Component struct {
	id         string
	opts       Options
	store      Store
	dispatcher Dispatcher
	router     *Router
	icons      IconSet
	log        *slog.Logger

	phase     Phase
	err       error
	snapshot  *Snapshot
	filters   []AdvancedFilter
	view      View
	sub       Subscription
	mounted   bool
	destroyed bool
}

// New validates opts and returns an unmounted component.
func New(id string, store Store, dispatcher Dispatcher, opts Options) (*Component, error) {
	switch {
	case id == "":
		return nil, &ConfigurationError{Field: "id", Reason: "component id is required"}
	case store == nil:
		return nil, &ConfigurationError{Component: id, Field: "store", Reason: "store is required"}
	case dispatcher == nil:
		return nil, &ConfigurationError{Component: id, Field: "dispatcher", Reason: "dispatcher is required"}
	case len(opts.Definition.Columns) == 0:
		return nil, &ConfigurationError{Component: id, Field: "definition.columns", Reason: "at least one column is required"}
	}
	if opts.NoResultsText == "" {
		opts.NoResultsText = DefaultNoResultsText
	}
	if opts.QuickFilterPlaceholder == "" {
		opts.QuickFilterPlaceholder = DefaultQuickFilterPlaceholder
	}
	if opts.Registry == nil {
		opts.Registry = defaultRegistry
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	c := &Component{
		id:         id,
		opts:       opts,
		store:      store,
		dispatcher: dispatcher,
		router:     NewRouter(opts.DragThreshold),
		icons:      DefaultIcons().Merge(opts.Icons),
		log:        logger.With("component", id),
		phase:      PhaseLoading,
		filters:    CloneFilters(opts.Definition.AdvancedFilters),
	}
	c.derive()
	return c, nil
}

// ID returns the component id.
func (c *Component) ID() string { return c.id }

// Phase returns the lifecycle state.
func (c *Component) Phase() Phase { return c.phase }

// Err returns the error that put the component in the errored phase.
func (c *Component) Err() error { return c.err }

// View returns the current derived view.
func (c *Component) View() View { return c.view }

// Icons returns the merged icon set.
func (c *Component) Icons() IconSet { return c.icons }

// Definition returns the table definition.
func (c *Component) Definition() Definition { return c.opts.Definition }

// Router exposes the gesture router.
func (c *Component) Router() *Router { return c.router }

// Destroyed reports whether Destroy has run.
func (c *Component) Destroyed() bool { return c.destroyed }

// Snapshot returns the snapshot currently applied, if any.
func (c *Component) Snapshot() (Snapshot, bool) {
	if c.snapshot == nil {
		return Snapshot{}, false
	}
	return *c.snapshot, true
}

// Filters returns a copy of the advanced filter list.
func (c *Component) Filters() []AdvancedFilter {
	return CloneFilters(c.filters)
}

// Mount subscribes to the store and requests data. forward carries
// notifications to the goroutine that owns the component, which must then
// call Receive. A nil forward delivers them to Receive directly.
func (c *Component) Mount(forward Listener) {
	if c.mounted || c.destroyed {
		return
	}
	if forward == nil {
		forward = c.Receive
	}
	c.sub = c.store.Subscribe(c.id, forward)
	c.mounted = true
	c.RequestData()
}

// RequestData enters the loading phase and asks the store for data.
func (c *Component) RequestData() {
	if c.destroyed {
		return
	}
	c.enterLoading()
	c.dispatch(RequestData{
		Definition: c.opts.Definition,
		Filters:    c.opts.Filters,
		Formatter:  c.opts.DataFormatter,
	})
	c.derive()
}

// Receive applies a store notification. Notifications for other components
// and anything arriving after Destroy are ignored.
func (c *Component) Receive(n Notification) {
	if c.destroyed || n.Component != c.id {
		return
	}
	switch n.Kind {
	case DataReady:
		if c.phase == PhaseErrored {
			// A background refetch landed after a failure. Errored only
			// leaves through loading.
			c.log.Info("grid recovered from failed request", "error", c.err)
			c.enterLoading()
		}
		snap, ok := c.store.Snapshot(c.id)
		if !ok {
			c.fail(ErrDataUnavailable)
			return
		}
		c.snapshot = &snap
		c.phase = PhaseReady
		c.err = nil
		c.derive()
	case RequestFailed:
		err := n.Err
		if err == nil {
			err = ErrDataUnavailable
		}
		c.fail(err)
	}
}

func (c *Component) enterLoading() {
	c.phase = PhaseLoading
	c.err = nil
}

func (c *Component) fail(err error) {
	c.log.Warn("grid request failed", "error", err)
	c.phase = PhaseErrored
	c.err = err
	c.snapshot = nil
	c.derive()
}

// Destroy unsubscribes and tells the store to drop the instance. It is safe
// to call more than once.
func (c *Component) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	if c.sub != nil {
		c.sub.Unsubscribe()
	}
	c.router.Reset()
	c.dispatcher.Dispatch(c.id, Destroy{})
}

// HandlePointer routes a pointer event. The only error is a
// ConfigurationError from a handler that cannot be invoked.
func (c *Component) HandlePointer(ev PointerEvent) error {
	if c.destroyed {
		return nil
	}
	return c.apply(c.router.Pointer(ev, c.view))
}

// ToggleSort toggles the sort on column col.
func (c *Component) ToggleSort(col int) error {
	return c.route(c.router.Sort(col, c.view))
}

// Page moves one page in dir.
func (c *Component) Page(dir PageDirection) error {
	return c.route(c.router.Page(dir, c.view))
}

// ToggleFilter toggles advanced filter i.
func (c *Component) ToggleFilter(i int) error {
	return c.route(c.router.Filter(i, c.view))
}

// ToggleSelect toggles selection of the row with logical index row.
func (c *Component) ToggleSelect(row int) error {
	return c.route(c.router.Select(row, c.view))
}

// ToggleBulk toggles the bulk selection.
func (c *Component) ToggleBulk() error {
	return c.route(c.router.Bulk(c.view))
}

// Activate activates the row with logical index row.
func (c *Component) Activate(row int) error {
	return c.route(c.router.Activate(row, c.view))
}

// Action invokes the action cell at (row, col).
func (c *Component) Action(row, col int) error {
	return c.route(c.router.Action(row, col, c.view))
}

// SetQuickFilter sends new quick filter text. It is ignored while loading or
// when no column takes part in the quick filter.
func (c *Component) SetQuickFilter(text string) {
	if c.destroyed || c.view.QuickFilter == nil || c.view.QuickFilter.Value == text {
		return
	}
	c.dispatch(QuickFilterChanged{Text: text})
}

func (c *Component) route(cmd Command) error {
	if c.destroyed || c.view.Masked {
		return nil
	}
	return c.apply(cmd)
}

func (c *Component) apply(cmd Command) error {
	switch cmd := cmd.(type) {
	case nil:
		return nil
	case AdvancedFilterToggled:
		for i := range c.filters {
			if c.filters[i].ID == cmd.FilterID {
				c.filters[i].Toggle()
				break
			}
		}
		cmd.Filters = CloneFilters(c.filters)
		c.derive()
		c.dispatch(cmd)
		return nil
	case RowActivated:
		return c.activate(cmd)
	case ActionClicked:
		return c.action(cmd)
	default:
		c.dispatch(cmd)
		return nil
	}
}

func (c *Component) activate(cmd RowActivated) error {
	if c.snapshot == nil {
		return nil
	}
	ra := c.snapshot.RowActivation
	if ra == nil {
		ra = c.opts.Definition.RowActivation
	}
	if ra == nil {
		return nil
	}
	if ra.OnActivate == nil {
		return &ConfigurationError{
			Component: c.id,
			Field:     "rowActivation",
			Reason:    fmt.Sprintf("handler %q is not callable", ra.Handler),
		}
	}
	c.log.Debug("row activated", "row", cmd.Row, "keyboard", cmd.Event.Keyboard)
	ra.OnActivate(cmd.Event, c.props(), *c.snapshot, cmd.Row)
	return nil
}

func (c *Component) action(cmd ActionClicked) error {
	if c.snapshot == nil || cmd.Row < 0 || cmd.Row >= len(c.snapshot.Rows) {
		return nil
	}
	cols := c.snapshot.Columns
	if cols == nil {
		cols = c.opts.Definition.Columns
	}
	if cmd.Column < 0 || cmd.Column >= len(cols) {
		return nil
	}
	col := cols[cmd.Column]
	if col.OnClick == nil {
		return &ConfigurationError{
			Component: c.id,
			Field:     fmt.Sprintf("columns[%d].action", cmd.Column),
			Reason:    fmt.Sprintf("handler %q is not callable", col.Action),
		}
	}
	c.log.Debug("action clicked", "row", cmd.Row, "column", col.DataProperty)
	col.OnClick(cmd.Event, c.snapshot.Rows[cmd.Row], c.props(), *c.snapshot, cmd.Row)
	return nil
}

func (c *Component) props() Props {
	return Props{ComponentID: c.id, Filters: c.opts.Filters}
}

func (c *Component) dispatch(cmd Command) {
	c.log.Debug("dispatch", "command", cmd.Name())
	c.dispatcher.Dispatch(c.id, cmd)
}

func (c *Component) derive() {
	c.view = Derive(DeriveInput{
		Phase:                  c.phase,
		Snapshot:               c.snapshot,
		Columns:                c.opts.Definition.Columns,
		Filters:                c.filters,
		Icons:                  c.icons,
		Registry:               c.opts.Registry,
		NoResultsText:          c.opts.NoResultsText,
		QuickFilterPlaceholder: c.opts.QuickFilterPlaceholder,
		SelectedRowPredicate:   c.opts.SelectedRowPredicate,
		QuickFilterEnabled:     c.opts.Definition.QuickFilterEnabled(),
		RowActivation:          c.opts.Definition.RowActivation != nil,
	})
}
