// Package app is the composition root of the PLUS ULTRA client.
//
// Run loads the configuration, points the logger at its file, restores the
// saved session and preferences, then starts the background poller and the
// TUI. It blocks until the user quits or the context is cancelled.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> config.Load()      TOML file plus PLUSULTRA_* overrides
//	       ├─────> logging.Init()     JSON events to the log file
//	       ├─────> session.Holder     restore the saved credential
//	       ├─────> state.NewStore()   shared snapshot for poller and UI
//	       ├─────> StartPoller()      background refresh
//	       └─────> ui.Run()           TUI (blocks)
//
// # Polling
//
// Every tick the poller re-fetches the library for the filters currently in
// the store and, with an active session, the dashboard and the feed. Results
// go through the store's sequence fence like any UI-issued fetch, so a poll
// never overwrites a newer response. Consecutive failures double the wait up
// to five minutes; the UI shows the offline banner from the store's failure
// count.
//
// TailLog backs the -tail-log flag and prints recent log events without
// starting the TUI.
package app
