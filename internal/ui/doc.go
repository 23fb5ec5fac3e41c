// Package ui is the Bubble Tea front end of gridview.
//
// # Overview
//
// Model owns one grid.Component and renders its grid.View: a header with
// the lifecycle state and data health, a toolbar with the quick filter and
// the advanced filter checkboxes, the column headers, the rows, the pager
// and a footer with key help.
//
// # Layout and hit testing
//
// buildLayout turns a view and the terminal size into a layout: the x span
// of every column, the logical row index drawn on every body line and a
// list of zones mapping screen cells to grid.Target values. View renders
// from the layout and the mouse handler hit-tests against a layout built
// from the same inputs, so a pointer event always names what is on screen.
// Body zones carry the logical row index, never the line number.
//
// # Input
//
// Left button presses and releases become grid.PointerEvent values and go
// to Component.HandlePointer, which tells clicks from drags. Motion only
// updates the hover text in the footer and the hovered-row highlight.
// Keyboard bindings call the component's keyboard methods for the row and
// column under the cursor.
//
// # Notifications
//
// The store notifies from its fetch goroutines. The mailbox queues those
// notifications and a waiting command delivers them as one message, so
// Component.Receive only ever runs on the update goroutine.
//
// # Handler effects
//
// Row and action handlers run inside component calls. They talk back to
// the UI through Effects, which the model drains after each call. A
// grid.ConfigurationError from a call ends the program and Run returns it.
//
// # Overlays
//
// The help overlay lists every binding. The detail overlay shows one row's
// fields, or the last lines of the log file when opened with L.
//
// # Themes
//
// Three themes (Nightfox, Kanagawa, Slate) cycle with T and persist to the
// prefs file together with the footer visibility.
package ui
