// Package reviews manages the review list shown on a game's detail view.
//
// A Panel belongs to one game. Operations are split so the UI can run the
// network part off its goroutine: a Begin method (or Confirm for deletes)
// issues a Request, Request.Run performs it and always finishes with a full
// re-fetch, and Panel.Apply records the Result. Results for another game or
// for a superseded request are ignored.
//
// Deleting needs two steps, RequestDelete then Confirm. Load, Save and
// Delete wrap the three steps for synchronous callers.
package reviews
