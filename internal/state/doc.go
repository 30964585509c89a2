// Package state provides thread-safe state shared between the background
// poller and the UI.
//
// # Overview
//
// The Store holds the current library listing, its filters, the dashboard
// statistics and the activity feed. The poller and UI commands both write to
// it from their own goroutines; the UI reads immutable copies through
// Snapshot.
//
// # Sequence Fencing
//
// Requests are not cancelled when superseded, so responses can arrive out of
// order. Every fetch therefore starts with a Begin call that returns a
// sequence number, and ends with the matching Apply call:
//
//	ticket := store.SetFilters(filters)          // seq 7, filters captured
//	games, err := client.ListGames(ctx, ticket.Filters.Values())
//	store.ApplyLibrary(ticket, games, err)        // ignored unless seq 7 is still latest
//
// Apply reports whether the result was taken. A stale result, including a
// stale error, leaves the snapshot untouched. Library, stats and feed each
// keep their own counter.
//
// # Error Semantics
//
// A failed fetch keeps the previous data. Library failures record LastError
// and increment ConsecutiveFailures; a library success resets both. IsOffline
// is true after two library failures in a row, which the header shows as an
// offline banner. Dashboard and feed failures land in StatsErr and FeedErr
// only, since the UI falls back to local data for them.
//
// # Thread Safety
//
// All access goes through a sync.RWMutex. Snapshot deep-copies the slices
// so the UI may hold on to one across frames.
package state
