// Package logtail reads and renders the client's own log file.
//
// # Overview
//
// PLUS ULTRA writes one JSON event per line (see package logging). The
// `-tail-log N` flag of the plusultra command uses this package to print the
// last N events in console form without starting the TUI.
//
// # Reading Log Files
//
// Read scans the file once and keeps only the newest maxLines lines, oldest
// first. A non-positive maxLines returns the whole file.
//
//	lines, err := logtail.Read(cfg.LogPath, 200)
//	if err != nil {
//		return err
//	}
//	_ = logtail.Render(os.Stdout, lines, true)
//
// # Filtering
//
// FilterLevel keeps events at or above a zerolog level, so
// `-tail-log 500 -tail-level warn` shows only the recent problems. Lines
// without a level are always kept.
//
// # Rendering
//
// Render feeds each JSON line through zerolog's ConsoleWriter, producing
//
//	2026-03-01 10:00:00 WRN library refresh failed app=plusultra
//
// Lines that are not JSON objects (for example a panic trace appended to the
// file) are written through unchanged.
//
// # Error Handling
//
// Read returns nil, nil for a missing file. Other I/O errors are wrapped.
package logtail
