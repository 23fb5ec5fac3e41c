package ui

import (
	"testing"

	"github.com/five82/gridview/internal/grid"
)

func TestEffects_TakeClearsRequests(t *testing.T) {
	e := NewEffects()
	if _, _, ok := e.TakeDetail(); ok {
		t.Fatalf("TakeDetail on empty effects returned ok")
	}

	row := grid.Row{"id": "a"}
	e.ShowDetail("A", row)
	row["id"] = "changed"
	e.Flash("copied")

	title, got, ok := e.TakeDetail()
	if !ok || title != "A" || got["id"] != "a" {
		t.Fatalf("TakeDetail = %q %v %v, want the row as it was shown", title, got, ok)
	}
	if _, _, ok := e.TakeDetail(); ok {
		t.Fatalf("TakeDetail returned the same request twice")
	}
	if msg, ok := e.TakeFlash(); !ok || msg != "copied" {
		t.Fatalf("TakeFlash = %q %v", msg, ok)
	}
	if _, ok := e.TakeFlash(); ok {
		t.Fatalf("TakeFlash returned the same message twice")
	}
}
