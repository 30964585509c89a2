package stats

import (
	"math"
	"sort"
	"strings"

	"github.com/five82/plusultra/internal/api"
)

// XP awarded per library entry, per completed game and per hour played.
const (
	XPPerGame      = 50
	XPPerCompleted = 150
	XPPerHour      = 10
)

// Percent returns part as a percentage of whole, or 0 when whole is not
// positive.
func Percent(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Clamp limits a percentage to [0, 100].
func Clamp(pct float64) float64 {
	return math.Min(100, math.Max(0, pct))
}

// CompletionRate is the share of completed games, rounded to one decimal.
func CompletionRate(games []api.Game) float64 {
	completed := 0
	for _, g := range games {
		if g.Completed {
			completed++
		}
	}
	return Round1(Percent(float64(completed), float64(len(games))))
}

// AchievementProgress is the share of achievements obtained for g, clamped to
// [0, 100]. A game without achievements reports 0.
func AchievementProgress(g api.Game) float64 {
	return Clamp(Percent(float64(g.AchievementsEarned), float64(g.AchievementsTotal)))
}

// LevelInfo describes the player level derived from the library.
type LevelInfo struct {
	XP       float64
	Level    int
	Floor    float64 // XP at which Level starts
	Next     float64 // XP at which Level+1 starts
	Progress float64 // percent from Floor to Next
}

// Level derives the player level: XP grows with games, completions and
// hours, and level n starts at n²·100 XP. The minimum level is 1.
func Level(games []api.Game) LevelInfo {
	var hours float64
	completed := 0
	for _, g := range games {
		hours += g.HoursPlayed
		if g.Completed {
			completed++
		}
	}
	xp := float64(len(games)*XPPerGame+completed*XPPerCompleted) + hours*XPPerHour
	return LevelForXP(xp)
}

// LevelForXP computes the level for an XP total.
func LevelForXP(xp float64) LevelInfo {
	level := int(math.Floor(math.Sqrt(xp / 100)))
	if level < 1 {
		level = 1
	}
	floor := float64(level*level) * 100
	next := float64((level+1)*(level+1)) * 100
	return LevelInfo{
		XP:       xp,
		Level:    level,
		Floor:    floor,
		Next:     next,
		Progress: Clamp(Percent(xp-floor, next-floor)),
	}
}

// Slice is one chart-ready share of a breakdown.
type Slice struct {
	Label   string
	Count   int
	Percent float64
}

// Slices converts server-side buckets into slices ordered by count, largest
// first, with ties ordered by label. Empty labels are shown as "Sin datos".
func Slices(buckets []api.Bucket) []Slice {
	total := 0
	for _, b := range buckets {
		total += b.Count
	}
	out := make([]Slice, 0, len(buckets))
	for _, b := range buckets {
		label := strings.TrimSpace(b.Label)
		if label == "" {
			label = "Sin datos"
		}
		out = append(out, Slice{
			Label:   label,
			Count:   b.Count,
			Percent: Round1(Percent(float64(b.Count), float64(total))),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// Summary is the dashboard content, from the server or computed locally.
type Summary struct {
	TotalGames     int
	Completed      int
	CompletionRate float64
	TotalHours     float64
	AverageRating  float64
	TotalReviews   int
	ByPlatform     []Slice
	ByGenre        []Slice
	Local          bool // computed from the loaded library, not the dashboard endpoint
}

// Genres returns the number of distinct genres.
func (s Summary) Genres() int {
	return len(s.ByGenre)
}

// FromDashboard builds a summary from the dashboard endpoint.
func FromDashboard(d api.DashboardStats) Summary {
	return Summary{
		TotalGames:     d.TotalGames,
		Completed:      d.Completed,
		CompletionRate: Round1(Percent(float64(d.Completed), float64(d.TotalGames))),
		TotalHours:     d.TotalHours,
		AverageRating:  d.AverageRating,
		TotalReviews:   d.TotalReviews,
		ByPlatform:     Slices(d.ByPlatform),
		ByGenre:        Slices(d.ByGenre),
	}
}

// Summarize computes a summary from the loaded library. It is used when the
// dashboard endpoint is unavailable. Review totals are unknown locally.
func Summarize(games []api.Game) Summary {
	platforms := map[string]int{}
	genres := map[string]int{}
	var hours, ratingSum float64
	rated, completed := 0, 0
	for _, g := range games {
		platforms[g.Platform]++
		genres[g.Genre]++
		hours += g.HoursPlayed
		if g.AverageRating > 0 {
			ratingSum += g.AverageRating
			rated++
		}
		if g.Completed {
			completed++
		}
	}
	avg := 0.0
	if rated > 0 {
		avg = ratingSum / float64(rated)
	}
	return Summary{
		TotalGames:     len(games),
		Completed:      completed,
		CompletionRate: CompletionRate(games),
		TotalHours:     hours,
		AverageRating:  avg,
		ByPlatform:     Slices(buckets(platforms)),
		ByGenre:        Slices(buckets(genres)),
		Local:          true,
	}
}

func buckets(counts map[string]int) []api.Bucket {
	out := make([]api.Bucket, 0, len(counts))
	for label, n := range counts {
		out = append(out, api.Bucket{Label: label, Count: n})
	}
	return out
}

// Stars renders a 0-5 rating as filled and empty stars, rounding to the
// nearest whole star.
func Stars(rating float64) string {
	n := int(math.Round(rating))
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

// Recent returns up to n games, newest first by creation time.
func Recent(games []api.Game, n int) []api.Game {
	dup := append([]api.Game(nil), games...)
	sort.SliceStable(dup, func(i, j int) bool {
		return dup[i].ParsedCreatedAt().After(dup[j].ParsedCreatedAt())
	})
	if n >= 0 && len(dup) > n {
		dup = dup[:n]
	}
	return dup
}
