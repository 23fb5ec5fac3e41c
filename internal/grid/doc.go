// Package grid is the presentation core of gridview.
//
// # Overview
//
// Given a table definition, a Snapshot of the dataset and the view state
// owned by a store, the package computes what the table shows and turns user
// input into commands for the store. It never renders anything itself and
// never fetches data. The ui package draws a View; the state package owns
// the data.
//
// # Pieces
//
//	Registry   data type → field to read + cell descriptor
//	Derive     Snapshot + phase + filters → View
//	Router     pointer/keyboard input + View → Command
//	Component  lifecycle, subscription, filter ownership, dispatch
//
// Data flows in one direction:
//
//	store ──Snapshot──→ Derive ──View──→ renderer
//	  ↑                                     │
//	  └──Dispatch── Router ←──hit target────┘
//
// # Lifecycle
//
// A Component starts in PhaseLoading. Mount subscribes to the store and
// sends RequestData. A DataReady notification re-pulls the whole Snapshot
// and moves to PhaseReady; RequestFailed moves to PhaseErrored and drops the
// Snapshot so stale rows are never shown. RequestData from either state goes
// back to PhaseLoading and clears the error.
//
// Destroy unsubscribes exactly once. Notifications that arrive afterwards,
// including answers to superseded fetches, are ignored.
//
// # Row indices
//
// Hit zones carry the logical row index captured when the layout was built.
// ResolveRowIndex is the single place that index is read back, and it is
// used for row activation, selection toggles and action cells alike.
//
// # Gestures
//
// A press followed by a release on the same row is a click unless the
// pointer moved more than the drag threshold (DefaultDragThreshold cells)
// horizontally, in which case the user was selecting text and the row is
// not activated. Clicks on select and action cells never activate the row.
//
// # Threading
//
// Nothing in this package locks. A Component and its Router belong to the
// goroutine that feeds them events; the store reaches that goroutine through
// the Listener passed to Mount.
package grid
