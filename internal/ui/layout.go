package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// LayoutExtraWideWidth is the threshold for extra-wide layouts.
	LayoutExtraWideWidth = 160
)

// Rendering limits.
const (
	helpModalWidth    = 48
	formModalWidth    = 64
	confirmModalWidth = 52
	maxSuggestions    = 6
	recentGamesLimit  = 5
	chartBarWidth     = 24
	progressBarWidth  = 30
)

// Timing constants.
const (
	// DefaultUIInterval is the default UI refresh interval.
	DefaultUIInterval = time.Second

	// DefaultRequestTimeout bounds each request issued from the UI.
	DefaultRequestTimeout = 10 * time.Second
)
