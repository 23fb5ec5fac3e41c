package state

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/five82/gridview/internal/grid"
)

// Fetcher loads the dataset for one request.
type Fetcher interface {
	Fetch(ctx context.Context, filters map[string]string) ([]grid.Row, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, filters map[string]string) ([]grid.Row, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, filters map[string]string) ([]grid.Row, error) {
	return f(ctx, filters)
}

// Status reports fetch health for one component.
type Status struct {
	Fetching            bool
	HasData             bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
	Generation          uint64
}

// IsOffline returns true when the source has failed for multiple fetches in
// a row.
func (s Status) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store is the reference implementation of grid.Store and grid.Dispatcher.
// It keeps one instance per component id.
type Store struct {
	ctx     context.Context
	fetcher Fetcher
	log     *slog.Logger
	now     func() time.Time

	mu        sync.RWMutex
	instances map[string]*instance
	listeners map[string]map[uint64]grid.Listener
	nextKey   uint64

	wg sync.WaitGroup
}

// New returns a store that fetches through f. Fetches are canceled when ctx
// is done.
func New(ctx context.Context, f Fetcher, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		ctx:       ctx,
		fetcher:   f,
		log:       logger,
		now:       time.Now,
		instances: make(map[string]*instance),
		listeners: make(map[string]map[uint64]grid.Listener),
	}
}

type subscription struct {
	store     *Store
	component string
	key       uint64
	once      sync.Once
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		s.store.mu.Lock()
		defer s.store.mu.Unlock()
		if ls, ok := s.store.listeners[s.component]; ok {
			delete(ls, s.key)
			if len(ls) == 0 {
				delete(s.store.listeners, s.component)
			}
		}
	})
}

// Subscribe registers l for notifications about componentID.
func (s *Store) Subscribe(componentID string, l grid.Listener) grid.Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextKey++
	if s.listeners[componentID] == nil {
		s.listeners[componentID] = make(map[uint64]grid.Listener)
	}
	s.listeners[componentID][s.nextKey] = l
	return &subscription{store: s, component: componentID, key: s.nextKey}
}

// Snapshot returns a copy of the component's current view of the data. It
// reports false until a fetch has succeeded.
func (s *Store) Snapshot(componentID string) (grid.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inst, ok := s.instances[componentID]
	if !ok || !inst.hasData {
		return grid.Snapshot{}, false
	}
	return inst.snapshot(), true
}

// Status returns fetch health for a component.
func (s *Store) Status(componentID string) (Status, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inst, ok := s.instances[componentID]
	if !ok {
		return Status{}, false
	}
	st := inst.status
	st.HasData = inst.hasData
	st.Generation = inst.generation
	return st, true
}

// ConsecutiveFailures returns the longest current failure streak across all
// components.
func (s *Store) ConsecutiveFailures() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	worst := 0
	for _, inst := range s.instances {
		worst = max(worst, inst.status.ConsecutiveFailures)
	}
	return worst
}

// Dispatch applies cmd to the component's instance.
func (s *Store) Dispatch(componentID string, cmd grid.Command) {
	switch cmd := cmd.(type) {
	case grid.RequestData:
		s.request(componentID, cmd)
		return
	case grid.Destroy:
		s.destroy(componentID)
		return
	}

	s.mu.Lock()
	inst, ok := s.instances[componentID]
	if !ok {
		s.mu.Unlock()
		s.log.Warn("command for unknown component", "component", componentID, "command", cmd.Name())
		return
	}
	changed := inst.apply(cmd)
	notify := changed && inst.hasData
	s.mu.Unlock()

	s.log.Debug("command applied", "component", componentID, "command", cmd.Name(), "changed", changed)
	if notify {
		s.notify(grid.Notification{Component: componentID, Kind: grid.DataReady})
	}
}

// Refresh refetches a component's data with the settings of its last
// request. Unknown components are ignored.
func (s *Store) Refresh(componentID string) {
	s.mu.RLock()
	inst, ok := s.instances[componentID]
	var req grid.RequestData
	if ok {
		req = inst.request
	}
	s.mu.RUnlock()
	if ok {
		s.request(componentID, req)
	}
}

// RefreshAll refreshes every live component.
func (s *Store) RefreshAll() {
	s.mu.RLock()
	ids := make([]string, 0, len(s.instances))
	for id := range s.instances {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	sort.Strings(ids)
	for _, id := range ids {
		s.Refresh(id)
	}
}

// Wait blocks until every in-flight fetch has finished.
func (s *Store) Wait() {
	s.wg.Wait()
}

func (s *Store) request(id string, req grid.RequestData) {
	s.mu.Lock()
	inst, ok := s.instances[id]
	if !ok {
		inst = newInstance(req.Definition)
		s.instances[id] = inst
	}
	inst.request = req
	if inst.cancel != nil {
		// Superseded: the old result is dropped by generation below.
		inst.cancel()
	}
	inst.generation++
	gen := inst.generation
	ctx, cancel := context.WithCancel(s.ctx)
	inst.cancel = cancel
	inst.status.Fetching = true
	filters := cloneFilters(req.Filters)
	s.mu.Unlock()

	s.log.Debug("fetch started", "component", id, "generation", gen)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		rows, err := s.fetcher.Fetch(ctx, filters)
		s.complete(id, gen, rows, err)
	}()
}

func (s *Store) complete(id string, gen uint64, rows []grid.Row, err error) {
	s.mu.Lock()
	inst, ok := s.instances[id]
	if !ok || inst.generation != gen {
		s.mu.Unlock()
		s.log.Debug("dropping superseded fetch", "component", id, "generation", gen)
		return
	}
	inst.cancel = nil
	inst.status.Fetching = false
	inst.status.LastUpdated = s.now()
	if err == nil && rows == nil {
		err = grid.ErrDataUnavailable
	}
	if err != nil {
		inst.status.LastError = err
		inst.status.ConsecutiveFailures++
		inst.rows = nil
		inst.hasData = false
		s.mu.Unlock()
		if errors.Is(err, context.Canceled) {
			s.log.Debug("fetch canceled", "component", id, "generation", gen)
		} else {
			s.log.Warn("fetch failed", "component", id, "generation", gen, "error", err)
		}
		s.notify(grid.Notification{Component: id, Kind: grid.RequestFailed, Err: err})
		return
	}
	inst.ingest(rows, s.now())
	inst.status.LastError = nil
	inst.status.ConsecutiveFailures = 0
	s.mu.Unlock()

	s.log.Info("fetch complete", "component", id, "generation", gen, "rows", len(rows))
	s.notify(grid.Notification{Component: id, Kind: grid.DataReady})
}

func (s *Store) destroy(id string) {
	s.mu.Lock()
	inst, ok := s.instances[id]
	if ok {
		if inst.cancel != nil {
			inst.cancel()
		}
		delete(s.instances, id)
	}
	delete(s.listeners, id)
	s.mu.Unlock()
	if ok {
		s.log.Debug("instance destroyed", "component", id)
	}
}

func (s *Store) notify(n grid.Notification) {
	s.mu.RLock()
	keys := make([]uint64, 0, len(s.listeners[n.Component]))
	for k := range s.listeners[n.Component] {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	ls := make([]grid.Listener, 0, len(keys))
	for _, k := range keys {
		ls = append(ls, s.listeners[n.Component][k])
	}
	s.mu.RUnlock()

	for _, l := range ls {
		l(n)
	}
}

func cloneFilters(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
