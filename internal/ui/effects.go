package ui

import (
	"sync"

	"github.com/five82/gridview/internal/grid"
)

// Effects lets row and action handlers ask the UI for something: open the
// detail overlay or flash a message in the header. Requests are picked up
// after the component call that ran the handler returns.
type Effects struct {
	mu     sync.Mutex
	detail *detailRequest
	flash  string
}

type detailRequest struct {
	title string
	row   grid.Row
}

// NewEffects returns an empty Effects.
func NewEffects() *Effects {
	return &Effects{}
}

// ShowDetail opens the detail overlay for row.
func (e *Effects) ShowDetail(title string, row grid.Row) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.detail = &detailRequest{title: title, row: row.Clone()}
}

// Flash shows msg in the header for a few seconds.
func (e *Effects) Flash(msg string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.flash = msg
}

// TakeDetail returns and clears the pending detail request.
func (e *Effects) TakeDetail() (title string, row grid.Row, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.detail == nil {
		return "", nil, false
	}
	d := e.detail
	e.detail = nil
	return d.title, d.row, true
}

// TakeFlash returns and clears the pending flash message.
func (e *Effects) TakeFlash() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.flash == "" {
		return "", false
	}
	msg := e.flash
	e.flash = ""
	return msg, true
}
