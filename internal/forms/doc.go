// Package forms holds the editable drafts behind the client's forms: games,
// reviews, login, registration, profile and friend requests.
//
// Drafts coerce numeric input (CoerceInt, CoerceFloat) as they are edited
// and are validated with go-playground/validator struct tags before any
// request is made. Failures come back as *ValidationError with Spanish
// messages ready for the error line.
//
// Game and review forms split submission in two: Prepare validates and
// captures the draft on the UI goroutine, and Send performs the request from
// a command goroutine. Submit does both for callers that do not care.
//
// Debouncer implements the metadata search quiet period using generation
// tags, so that only the last keystroke in a burst produces a lookup.
package forms
