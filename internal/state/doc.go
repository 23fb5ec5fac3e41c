// Package state is the reference table store for gridview.
//
// # Overview
//
// Store implements grid.Store and grid.Dispatcher. It keeps one instance
// per component id holding the fetched rows and the view state the grid
// asks it to change: quick filter text, advanced filter states, sort column
// and directions, page cursor and selected keys.
//
//	Fetcher ──rows──→ Store.ingest ──→ instance.rows
//	                                        │
//	grid.Component ──Dispatch(cmd)──→ instance.apply
//	       ↑                                │
//	       └──── notify + Snapshot() ←──────┘
//
// # Fetching
//
// RequestData starts a fetch in its own goroutine and returns immediately.
// Every request bumps the instance generation and cancels the previous
// fetch's context; a result whose generation is stale is dropped, so only
// the newest request ever lands. A nil row slice counts as
// grid.ErrDataUnavailable. A failure clears the stored rows and notifies
// RequestFailed.
//
// Rows are formatted on the way in: FormatRow adds the <prop>Timestamp,
// <prop>Percent and <prop>Duration fields that typed columns read, the
// integrator's DataFormatter runs next, and finally rows are tagged with
// the ids of the advanced filters whose DataProperty/Value they match.
//
// # Snapshots
//
// Snapshot builds a fresh grid.Snapshot under the read lock: rows are
// filtered (quick filter, then advanced filters with OR semantics), sorted
// by the raw value of the active column and sliced to the current page.
// Rows and maps are copied so callers never share memory with the store.
//
// # Notifications
//
// Listeners are called outside the lock, in subscription order. A listener
// must not block; the ui package forwards notifications into the Bubble Tea
// loop. Unsubscribe is idempotent. Destroy cancels the in-flight fetch and
// drops both the instance and its listeners.
//
// # Health
//
// Status carries the health counters: the last update time, the
// last error and the number of consecutive failures. Two failures in a row
// mark the source offline.
package state
