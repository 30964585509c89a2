// Package stats derives the numbers shown on the dashboard and profile views:
// completion and achievement percentages, the player level, and chart-ready
// platform and genre breakdowns. Every percentage is 0 when its denominator
// is zero.
package stats
