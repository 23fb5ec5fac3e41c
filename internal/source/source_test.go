package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/five82/gridview/internal/grid"
)

func TestDecodeRows(t *testing.T) {
	doc := []byte(`{"data":{"items":[{"id":"a","size":3,"tags":["x"]},{"id":"b","online":true}]}}`)

	rows, err := DecodeRows(doc, "data.items")
	if err != nil {
		t.Fatalf("DecodeRows returned error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if rows[0]["id"] != "a" || rows[0]["size"] != float64(3) {
		t.Fatalf("rows[0] = %#v", rows[0])
	}
	if !rows[1].Online() {
		t.Fatalf("rows[1].Online() = false, want true")
	}
}

func TestDecodeRows_TopLevelArray(t *testing.T) {
	rows, err := DecodeRows([]byte(`[]`), "")
	if err != nil {
		t.Fatalf("DecodeRows returned error: %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Fatalf("rows = %#v, want empty non-nil", rows)
	}
}

func TestDecodeRows_Errors(t *testing.T) {
	tests := []struct {
		name        string
		doc         string
		path        string
		unavailable bool
	}{
		{name: "invalid json", doc: `{`, path: ""},
		{name: "missing path", doc: `{"a":[]}`, path: "b", unavailable: true},
		{name: "null", doc: `{"a":null}`, path: "a", unavailable: true},
		{name: "not array", doc: `{"a":{"b":1}}`, path: "a"},
		{name: "not objects", doc: `[1,2]`, path: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeRows([]byte(tt.doc), tt.path)
			if err == nil {
				t.Fatalf("DecodeRows returned nil error")
			}
			if got := errors.Is(err, grid.ErrDataUnavailable); got != tt.unavailable {
				t.Fatalf("errors.Is(ErrDataUnavailable) = %v, want %v (err=%v)", got, tt.unavailable, err)
			}
		})
	}
}

func TestFile_Fetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.json")
	if err := os.WriteFile(path, []byte(`{"rows":[{"id":1}]}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	f := NewFile(path, "rows")
	rows, err := f.Fetch(context.Background(), nil)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(rows) != 1 || rows[0]["id"] != float64(1) {
		t.Fatalf("rows = %#v", rows)
	}

	missing := NewFile(filepath.Join(t.TempDir(), "nope.json"), "")
	if _, err := missing.Fetch(context.Background(), nil); err == nil {
		t.Fatalf("Fetch on missing file returned nil error")
	}
}

func TestHTTP_FetchSendsFiltersAndDecodes(t *testing.T) {
	t.Parallel()

	var gotQuery, gotUserAgent, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotUserAgent = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		switch r.URL.Path {
		case "/api/items":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"items":[{"id":"a"},{"id":"b"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	src, err := NewHTTP(server.URL+"/api/items?limit=5", "items")
	if err != nil {
		t.Fatalf("NewHTTP returned error: %v", err)
	}
	t.Cleanup(func() { _ = src.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	rows, err := src.Fetch(ctx, map[string]string{"owner": "me"})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if gotQuery != "limit=5&owner=me" {
		t.Fatalf("query = %q, want limit=5&owner=me", gotQuery)
	}
	if gotUserAgent != defaultUserAgent {
		t.Fatalf("User-Agent = %q, want %q", gotUserAgent, defaultUserAgent)
	}
	if gotAccept != "application/json" {
		t.Fatalf("Accept = %q, want application/json", gotAccept)
	}
}

func TestHTTP_ErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	src, err := NewHTTP(server.URL, "")
	if err != nil {
		t.Fatalf("NewHTTP returned error: %v", err)
	}
	if _, err := src.Fetch(context.Background(), nil); err == nil {
		t.Fatalf("Fetch returned nil error for 503")
	}
}

func TestParseEndpoint(t *testing.T) {
	u, err := parseEndpoint("example.com:8080/rows#frag")
	if err != nil {
		t.Fatalf("parseEndpoint returned error: %v", err)
	}
	if u.Scheme != "http" || u.Host != "example.com:8080" || u.Path != "/rows" || u.Fragment != "" {
		t.Fatalf("url = %q", u.String())
	}
	if _, err := parseEndpoint("   "); err == nil {
		t.Fatalf("parseEndpoint accepted empty url")
	}
}

func TestSQLite_Fetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	stmts := []string{
		`CREATE TABLE jobs (id TEXT, owner TEXT, size INTEGER, note BLOB)`,
		`INSERT INTO jobs VALUES ('a', 'me', 10, 'x'), ('b', 'you', 20, NULL), ('c', 'me', 30, 'z')`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("exec %q: %v", stmt, err)
		}
	}
	_ = db.Close()

	ctx := context.Background()
	src, err := OpenSQLite(ctx, path, `SELECT id, owner, size, note FROM jobs WHERE owner = :owner ORDER BY id`)
	if err != nil {
		t.Fatalf("OpenSQLite returned error: %v", err)
	}
	t.Cleanup(func() { _ = src.Close() })

	rows, err := src.Fetch(ctx, map[string]string{"owner": "me", "unused": "x"})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if rows[0]["id"] != "a" || rows[0]["size"] != float64(10) || rows[0]["note"] != "x" {
		t.Fatalf("rows[0] = %#v", rows[0])
	}
	if rows[1]["id"] != "c" {
		t.Fatalf("rows[1] = %#v", rows[1])
	}
}

func TestOpenSQLite_EmptyQuery(t *testing.T) {
	if _, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "x.db"), " "); err == nil {
		t.Fatalf("OpenSQLite accepted empty query")
	}
}

func TestNamedArgs(t *testing.T) {
	args := namedArgs("SELECT * FROM t WHERE a = @a AND b = $b", map[string]string{"a": "1", "b": "2", "c": "3"})
	if len(args) != 2 {
		t.Fatalf("len(args) = %d, want 2", len(args))
	}
	if a, ok := args[0].(sql.NamedArg); !ok || a.Name != "a" || a.Value != "1" {
		t.Fatalf("args[0] = %#v", args[0])
	}
}

func TestInferKind(t *testing.T) {
	tests := map[string]Kind{
		"https://example.com/rows": KindHTTP,
		"HTTP://example.com":       KindHTTP,
		"/var/lib/app/state.db":    KindSQLite,
		"data.sqlite3":             KindSQLite,
		"rows.json":                KindFile,
		"rows":                     KindFile,
	}
	for loc, want := range tests {
		if got := InferKind(loc); got != want {
			t.Fatalf("InferKind(%q) = %q, want %q", loc, got, want)
		}
	}
}

func TestOpen(t *testing.T) {
	src, err := Open(context.Background(), Options{Location: "rows.json", RowsPath: "items"})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if f, ok := src.(*File); !ok || f.Path() != "rows.json" {
		t.Fatalf("Open returned %#v, want *File", src)
	}
	if _, err := Open(context.Background(), Options{Kind: "ftp", Location: "x"}); err == nil {
		t.Fatalf("Open accepted unknown kind")
	}
	if _, err := Open(context.Background(), Options{}); err == nil {
		t.Fatalf("Open accepted empty location")
	}
}

func TestWatcher_ReportsContentChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rows.json")
	if err := os.WriteFile(path, []byte(`[]`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	w, err := NewWatcher(path, nil)
	if err != nil {
		t.Fatalf("NewWatcher returned error: %v", err)
	}
	w.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	changed := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, func() { changed <- struct{}{} }) }()

	deadline := time.After(5 * time.Second)
	for i := 0; ; i++ {
		content := fmt.Sprintf(`[{"n":%d}]`, i)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		select {
		case <-changed:
			cancel()
			if err := <-done; err != nil {
				t.Fatalf("Run returned error: %v", err)
			}
			return
		case <-time.After(100 * time.Millisecond):
		case <-deadline:
			t.Fatalf("no change reported")
		}
	}
}

func TestFingerprint(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	_ = os.WriteFile(a, []byte("same"), 0o644)
	_ = os.WriteFile(b, []byte("same"), 0o644)

	fa, err := Fingerprint(a)
	if err != nil {
		t.Fatalf("Fingerprint returned error: %v", err)
	}
	fb, _ := Fingerprint(b)
	if fa != fb {
		t.Fatalf("fingerprints differ for equal content")
	}
	_ = os.WriteFile(b, []byte("different"), 0o644)
	if fb2, _ := Fingerprint(b); fb2 == fa {
		t.Fatalf("fingerprint unchanged after content change")
	}
}
