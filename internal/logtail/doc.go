// Package logtail reads the end of gridview's log file for the in-app log
// overlay.
//
// Tail keeps a ring of the last n lines while scanning, so memory stays
// bounded by n no matter how large the log grows. Lines longer than 1 MiB
// fail the read.
package logtail
