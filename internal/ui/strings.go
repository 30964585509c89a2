package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/five82/plusultra/internal/api"
	"github.com/five82/plusultra/internal/forms"
)

const ellipsis = "…"

// truncate fits value into limit terminal cells, ending in an ellipsis when
// it had to cut. Widths are measured in cells, so wide glyphs in titles and
// usernames count double.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 || ansi.StringWidth(value) <= limit {
		return value
	}
	if limit == 1 {
		return ansi.Truncate(value, 1, "")
	}
	return ansi.Truncate(value, limit, ellipsis)
}

// truncateMiddle keeps both ends of value and drops cells from the middle.
// Image URLs are the main caller.
func truncateMiddle(value string, limit int) string {
	value = strings.TrimSpace(value)
	width := ansi.StringWidth(value)
	if limit <= 0 || width <= limit {
		return value
	}
	if limit < 3 {
		return ansi.Truncate(value, limit, "")
	}
	head := (limit - 1) / 2
	tail := limit - 1 - head
	return ansi.Truncate(value, head, "") + ellipsis + ansi.TruncateLeft(value, width-tail, "")
}

// padRight fills s with spaces up to width cells.
func padRight(s string, width int) string {
	gap := width - ansi.StringWidth(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}

// errorText picks the line to flash for err: the first field message of a
// validation failure, the backend's own message, or fallback.
func errorText(err error, fallback string) string {
	var verr *forms.ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return verr.First()
	default:
		return api.Message(err, fallback)
	}
}
