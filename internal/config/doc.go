// Package config loads the PLUS ULTRA client configuration.
//
// # Resolution Order
//
//  1. Built-in defaults (see Default)
//  2. The TOML file at the given path, or ~/.config/plusultra/config.toml
//  3. Environment overrides (PLUSULTRA_API_URL, PLUSULTRA_LOG_LEVEL,
//     PLUSULTRA_LOG_PATH, PLUSULTRA_SESSION_PATH)
//
// A missing file is not an error. Empty or whitespace-only values keep the
// default. Paths beginning with ~ are expanded against the user's home
// directory and made absolute.
//
// # TOML Format
//
//	api_url = "http://localhost:3000/api"
//	request_timeout = "10s"
//	search_debounce = "500ms"
//	poll_interval = "30s"
//	session_path = "~/.config/plusultra/session.json"
//	log_path = "~/.local/state/plusultra/plusultra.log"
//	log_level = "info"
//
// Durations use Go duration syntax. Non-positive durations fall back to the
// default.
package config
