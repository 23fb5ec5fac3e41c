package state

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/gridview/internal/grid"
)

func staticFetcher(rows []grid.Row, err error) Fetcher {
	return FetcherFunc(func(context.Context, map[string]string) ([]grid.Row, error) {
		return grid.CloneRows(rows), err
	})
}

type recorder struct {
	mu    sync.Mutex
	notes []grid.Notification
}

func (r *recorder) listen(n grid.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

func (r *recorder) all() []grid.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]grid.Notification(nil), r.notes...)
}

func testDefinition() grid.Definition {
	return grid.Definition{
		Columns: []grid.Column{
			{DataProperty: "id", DataType: grid.TypeSelect},
			{DataProperty: "name", HeaderLabel: "Name", SortDirection: grid.SortAscending, QuickFilter: true},
			{DataProperty: "size", HeaderLabel: "Size", SortDirection: grid.SortDescending},
			{DataProperty: "owner", HeaderLabel: "Owner"},
		},
		AdvancedFilters: []grid.AdvancedFilter{
			{ID: "mine", Label: "Mine", DataProperty: "owner", Value: "me"},
			{ID: "big", Label: "Big", DataProperty: "size", Value: 30},
		},
		PageSize:   2,
		SortColumn: grid.NoSort,
	}
}

func testRows() []grid.Row {
	return []grid.Row{
		{"id": "a", "name": "Delta", "size": float64(10), "owner": "me"},
		{"id": "b", "name": "alpha", "size": float64(30), "owner": "you"},
		{"id": "c", "name": "Charlie", "size": float64(20), "owner": "me"},
		{"id": "d", "name": "bravo", "size": float64(30), "owner": "them"},
	}
}

func loadedStore(t *testing.T) (*Store, *recorder) {
	t.Helper()
	s := New(context.Background(), staticFetcher(testRows(), nil), nil)
	rec := &recorder{}
	s.Subscribe("g", rec.listen)
	s.Dispatch("g", grid.RequestData{Definition: testDefinition()})
	s.Wait()
	return s, rec
}

func names(rows []grid.Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Text("name")
	}
	return out
}

func TestStore_RequestDataNotifiesAndPaginates(t *testing.T) {
	s, rec := loadedStore(t)

	require.Equal(t, []grid.Notification{{Component: "g", Kind: grid.DataReady}}, rec.all())
	snap, ok := s.Snapshot("g")
	require.True(t, ok)
	assert.Equal(t, 4, snap.DataCount)
	assert.Len(t, snap.FilteredRows, 4)
	assert.Equal(t, []string{"Delta", "alpha"}, names(snap.Rows))
	require.NotNil(t, snap.Pagination)
	assert.Equal(t, grid.Pagination{Cursor: 0, Size: 2}, *snap.Pagination)
	assert.Equal(t, grid.NoSort, snap.SortColumnIndex)
	assert.NotNil(t, snap.SelectedKeys)

	s.Dispatch("g", grid.Paginate{Direction: grid.PageRight})
	snap, _ = s.Snapshot("g")
	assert.Equal(t, 2, snap.Pagination.Cursor)
	assert.Equal(t, []string{"Charlie", "bravo"}, names(snap.Rows))

	// Already on the last page.
	before := len(rec.all())
	s.Dispatch("g", grid.Paginate{Direction: grid.PageRight})
	assert.Len(t, rec.all(), before)

	s.Dispatch("g", grid.Paginate{Direction: grid.PageLeft})
	snap, _ = s.Snapshot("g")
	assert.Equal(t, 0, snap.Pagination.Cursor)
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	s, _ := loadedStore(t)

	snap, _ := s.Snapshot("g")
	snap.Rows[0]["name"] = "mutated"
	snap.SelectedKeys["zzz"] = true
	snap.Columns[1].SortDirection = grid.SortDescending

	again, _ := s.Snapshot("g")
	assert.Equal(t, "Delta", again.Rows[0]["name"])
	assert.False(t, again.SelectedKeys["zzz"])
	assert.Equal(t, grid.SortAscending, again.Columns[1].SortDirection)
}

func TestStore_SortRemembersDirections(t *testing.T) {
	s, _ := loadedStore(t)

	s.Dispatch("g", grid.SortChanged{Column: 1, Direction: grid.SortAscending})
	snap, _ := s.Snapshot("g")
	assert.Equal(t, 1, snap.SortColumnIndex)
	assert.Equal(t, []string{"alpha", "bravo", "Charlie", "Delta"}, names(snap.FilteredRows))

	s.Dispatch("g", grid.SortChanged{Column: 1, Direction: grid.SortDescending})
	s.Dispatch("g", grid.SortChanged{Column: 2, Direction: grid.SortDescending})
	snap, _ = s.Snapshot("g")
	assert.Equal(t, 2, snap.SortColumnIndex)
	assert.Equal(t, grid.SortDescending, snap.Columns[1].SortDirection, "inactive column keeps its direction")
	assert.Equal(t, []float64{30, 30, 20, 10}, []float64{
		snap.FilteredRows[0]["size"].(float64),
		snap.FilteredRows[1]["size"].(float64),
		snap.FilteredRows[2]["size"].(float64),
		snap.FilteredRows[3]["size"].(float64),
	})
	// Stable: equal sizes keep source order.
	assert.Equal(t, "alpha", snap.FilteredRows[0]["name"])
}

func TestStore_QuickFilterResetsCursor(t *testing.T) {
	s, _ := loadedStore(t)
	s.Dispatch("g", grid.Paginate{Direction: grid.PageRight})

	s.Dispatch("g", grid.QuickFilterChanged{Text: "  ALP "})
	snap, _ := s.Snapshot("g")
	assert.Equal(t, "  ALP ", snap.QuickFilterValue)
	assert.Equal(t, 0, snap.Pagination.Cursor)
	assert.Equal(t, []string{"alpha"}, names(snap.Rows))
	assert.Equal(t, 1, snap.DataCount)

	s.Dispatch("g", grid.QuickFilterChanged{Text: "zzz"})
	snap, _ = s.Snapshot("g")
	assert.NotNil(t, snap.Rows)
	assert.Empty(t, snap.Rows)
	assert.Equal(t, 0, snap.DataCount)
}

func TestStore_AdvancedFilterTaggingAndOR(t *testing.T) {
	s, _ := loadedStore(t)

	snap, _ := s.Snapshot("g")
	assert.Equal(t, []string{"mine"}, snap.FilteredRows[0].AdvancedFilterIDs())
	assert.Equal(t, []string{"big"}, snap.FilteredRows[1].AdvancedFilterIDs())

	filters := grid.CloneFilters(testDefinition().AdvancedFilters)
	filters[0].Toggle()
	s.Dispatch("g", grid.AdvancedFilterToggled{FilterID: "mine", Filters: filters})
	snap, _ = s.Snapshot("g")
	assert.Equal(t, []string{"Delta", "Charlie"}, names(snap.FilteredRows))

	filters[1].Toggle()
	s.Dispatch("g", grid.AdvancedFilterToggled{FilterID: "big", Filters: filters})
	snap, _ = s.Snapshot("g")
	assert.Equal(t, []string{"Delta", "alpha", "Charlie", "bravo"}, names(snap.FilteredRows))
}

func TestStore_Selection(t *testing.T) {
	s, _ := loadedStore(t)

	s.Dispatch("g", grid.ToggleRowSelect{Row: 1})
	snap, _ := s.Snapshot("g")
	assert.Equal(t, map[string]bool{"b": true}, snap.SelectedKeys)

	s.Dispatch("g", grid.ToggleRowSelect{Key: "b"})
	snap, _ = s.Snapshot("g")
	assert.Empty(t, snap.SelectedKeys)

	// Bulk selection only covers filtered rows.
	s.Dispatch("g", grid.QuickFilterChanged{Text: "a"})
	s.Dispatch("g", grid.ToggleBulkSelect{Deselect: false})
	snap, _ = s.Snapshot("g")
	assert.Equal(t, map[string]bool{"a": true, "b": true, "c": true, "d": true}, snap.SelectedKeys)

	s.Dispatch("g", grid.QuickFilterChanged{Text: "alpha"})
	s.Dispatch("g", grid.ToggleBulkSelect{Deselect: true})
	snap, _ = s.Snapshot("g")
	assert.Equal(t, map[string]bool{"a": true, "c": true, "d": true}, snap.SelectedKeys)
}

func TestStore_NoSelectColumn(t *testing.T) {
	def := testDefinition()
	def.Columns = def.Columns[1:]
	def.PageSize = 0
	s := New(context.Background(), staticFetcher(testRows(), nil), nil)
	s.Dispatch("g", grid.RequestData{Definition: def})
	s.Wait()

	snap, ok := s.Snapshot("g")
	require.True(t, ok)
	assert.Nil(t, snap.SelectedKeys)
	assert.Nil(t, snap.Pagination)
	assert.Len(t, snap.Rows, 4)
}

func TestStore_FailureNotifiesAndClearsData(t *testing.T) {
	var fail bool
	var mu sync.Mutex
	fetcher := FetcherFunc(func(context.Context, map[string]string) ([]grid.Row, error) {
		mu.Lock()
		defer mu.Unlock()
		if fail {
			return nil, errors.New("down")
		}
		return testRows(), nil
	})
	s := New(context.Background(), fetcher, nil)
	rec := &recorder{}
	s.Subscribe("g", rec.listen)
	s.Dispatch("g", grid.RequestData{Definition: testDefinition()})
	s.Wait()

	mu.Lock()
	fail = true
	mu.Unlock()
	s.Refresh("g")
	s.Wait()

	notes := rec.all()
	require.Len(t, notes, 2)
	assert.Equal(t, grid.RequestFailed, notes[1].Kind)
	assert.EqualError(t, notes[1].Err, "down")
	_, ok := s.Snapshot("g")
	assert.False(t, ok)

	st, ok := s.Status("g")
	require.True(t, ok)
	assert.Equal(t, 1, st.ConsecutiveFailures)
	assert.False(t, st.IsOffline())
	s.Refresh("g")
	s.Wait()
	st, _ = s.Status("g")
	assert.True(t, st.IsOffline())
	assert.Equal(t, 2, s.ConsecutiveFailures())

	// Commands while there is no data do not notify.
	before := len(rec.all())
	s.Dispatch("g", grid.QuickFilterChanged{Text: "x"})
	assert.Len(t, rec.all(), before)
}

func TestStore_NilRowsIsDataUnavailable(t *testing.T) {
	s := New(context.Background(), staticFetcher(nil, nil), nil)
	rec := &recorder{}
	s.Subscribe("g", rec.listen)
	s.Dispatch("g", grid.RequestData{Definition: testDefinition()})
	s.Wait()

	notes := rec.all()
	require.Len(t, notes, 1)
	assert.Equal(t, grid.RequestFailed, notes[0].Kind)
	assert.ErrorIs(t, notes[0].Err, grid.ErrDataUnavailable)
}

func TestStore_NewerRequestSupersedes(t *testing.T) {
	release := make(chan struct{})
	fetcher := FetcherFunc(func(_ context.Context, filters map[string]string) ([]grid.Row, error) {
		if filters["req"] == "old" {
			<-release
			return []grid.Row{{"id": "old", "name": "old"}}, nil
		}
		return []grid.Row{{"id": "new", "name": "new"}}, nil
	})
	s := New(context.Background(), fetcher, nil)
	rec := &recorder{}
	s.Subscribe("g", rec.listen)

	s.Dispatch("g", grid.RequestData{Definition: testDefinition(), Filters: map[string]string{"req": "old"}})
	s.Dispatch("g", grid.RequestData{Definition: testDefinition(), Filters: map[string]string{"req": "new"}})
	require.Eventually(t, func() bool { return len(rec.all()) == 1 }, time.Second, 5*time.Millisecond)
	close(release)
	s.Wait()

	assert.Len(t, rec.all(), 1, "superseded result is dropped")
	snap, ok := s.Snapshot("g")
	require.True(t, ok)
	assert.Equal(t, []string{"new"}, names(snap.Rows))
}

func TestStore_DestroyDropsLateResult(t *testing.T) {
	release := make(chan struct{})
	fetcher := FetcherFunc(func(ctx context.Context, _ map[string]string) ([]grid.Row, error) {
		<-release
		return testRows(), nil
	})
	s := New(context.Background(), fetcher, nil)
	rec := &recorder{}
	s.Subscribe("g", rec.listen)
	s.Dispatch("g", grid.RequestData{Definition: testDefinition()})
	s.Dispatch("g", grid.Destroy{})
	close(release)
	s.Wait()

	assert.Empty(t, rec.all())
	_, ok := s.Snapshot("g")
	assert.False(t, ok)
	_, ok = s.Status("g")
	assert.False(t, ok)
}

func TestStore_UnsubscribeIsIdempotent(t *testing.T) {
	s := New(context.Background(), staticFetcher(testRows(), nil), nil)
	rec := &recorder{}
	other := &recorder{}
	sub := s.Subscribe("g", rec.listen)
	s.Subscribe("g", other.listen)

	sub.Unsubscribe()
	sub.Unsubscribe()
	s.Dispatch("g", grid.RequestData{Definition: testDefinition()})
	s.Wait()

	assert.Empty(t, rec.all())
	assert.Len(t, other.all(), 1)
}

func TestStore_FiltersReachFetcher(t *testing.T) {
	var got map[string]string
	fetcher := FetcherFunc(func(_ context.Context, filters map[string]string) ([]grid.Row, error) {
		got = filters
		return testRows(), nil
	})
	s := New(context.Background(), fetcher, nil)
	s.Dispatch("g", grid.RequestData{Definition: testDefinition(), Filters: map[string]string{"owner": "me"}})
	s.Wait()
	assert.Equal(t, map[string]string{"owner": "me"}, got)
}

func TestStore_CustomFormatterRunsAfterDefaults(t *testing.T) {
	def := testDefinition()
	def.Columns = append(def.Columns, grid.Column{DataProperty: "load", DataType: grid.TypePercent})
	rows := []grid.Row{{"id": "a", "name": "x", "load": float64(42.27)}}
	s := New(context.Background(), staticFetcher(rows, nil), nil)
	s.Dispatch("g", grid.RequestData{
		Definition: def,
		Formatter: func(r grid.Row) grid.Row {
			r["name"] = r.Text("name") + " (" + r.Text("loadPercent") + ")"
			return r
		},
	})
	s.Wait()

	snap, ok := s.Snapshot("g")
	require.True(t, ok)
	assert.Equal(t, "x (42.3%)", snap.Rows[0]["name"])
}

func TestStore_UnknownComponentCommandIsIgnored(t *testing.T) {
	s := New(context.Background(), staticFetcher(testRows(), nil), nil)
	s.Dispatch("missing", grid.Paginate{Direction: grid.PageRight})
	_, ok := s.Snapshot("missing")
	assert.False(t, ok)
}
