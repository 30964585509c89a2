package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/plusultra/internal/api"
	"github.com/five82/plusultra/internal/library"
)

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Filters  library.Filters
	Games    []api.Game
	HasGames bool
	Loading  bool // a library fetch is in flight

	Stats    api.DashboardStats
	HasStats bool
	StatsErr error // last dashboard failure, cleared by the next success

	Feed    []api.Activity
	HasFeed bool
	FeedErr error

	LastUpdated         time.Time
	LastError           error // last library failure
	ConsecutiveFailures int   // library fetches failed in a row
}

// IsOffline returns true when the library has failed to load several times
// in a row. Dashboard and feed failures never count.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// FindGame looks a game up in the loaded library by id.
func (s Snapshot) FindGame(id string) (api.Game, bool) {
	for _, g := range s.Games {
		if g.ID == id {
			return g, true
		}
	}
	return api.Game{}, false
}

// Ticket identifies one issued library fetch and the filters it was issued
// with.
type Ticket struct {
	Seq     uint64
	Filters library.Filters
}

// Store coordinates concurrent updates to the snapshot. Every fetch is
// issued through a Begin method that hands out a sequence number; the
// matching Apply only takes effect when that number is still the latest
// issued for its resource, so a slow response never overwrites a newer one.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot

	libraryIssued uint64
	statsIssued   uint64
	feedIssued    uint64
}

// NewStore returns a store holding the given starting filters.
func NewStore(filters library.Filters) *Store {
	return &Store{snapshot: Snapshot{Filters: filters}}
}

// SetFilters replaces the filters and issues a library fetch for them.
func (s *Store) SetFilters(f library.Filters) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Filters = f
	return s.beginLibraryLocked()
}

// BeginLibrary issues a library fetch for the current filters.
func (s *Store) BeginLibrary() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.beginLibraryLocked()
}

func (s *Store) beginLibraryLocked() Ticket {
	s.libraryIssued++
	s.snapshot.Loading = true
	return Ticket{Seq: s.libraryIssued, Filters: s.snapshot.Filters}
}

// ApplyLibrary records the result of the fetch identified by t. It reports
// false, and changes nothing, when a later fetch has been issued since. When
// err is non-nil the previous games are kept but the error is recorded.
func (s *Store) ApplyLibrary(t Ticket, games []api.Game, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.Seq != s.libraryIssued {
		return false
	}
	s.snapshot.Loading = false
	if err != nil {
		s.recordFailureLocked(err)
		return true
	}
	s.snapshot.Games = cloneGames(games)
	s.snapshot.HasGames = true
	s.recordSuccessLocked()
	return true
}

// BeginStats issues a dashboard stats fetch.
func (s *Store) BeginStats() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.statsIssued++
	return s.statsIssued
}

// ApplyStats records a dashboard stats result under the same fencing rules
// as ApplyLibrary. A failure is kept in StatsErr and leaves the connection
// state alone.
func (s *Store) ApplyStats(seq uint64, stats *api.DashboardStats, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.statsIssued {
		return false
	}
	if err != nil {
		s.snapshot.StatsErr = err
		return true
	}
	s.snapshot.StatsErr = nil
	if stats != nil {
		s.snapshot.Stats = cloneStats(*stats)
		s.snapshot.HasStats = true
	}
	return true
}

// BeginFeed issues an activity feed fetch.
func (s *Store) BeginFeed() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.feedIssued++
	return s.feedIssued
}

// ApplyFeed records an activity feed result like ApplyStats, keeping a
// failure in FeedErr.
func (s *Store) ApplyFeed(seq uint64, feed []api.Activity, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.feedIssued {
		return false
	}
	if err != nil {
		s.snapshot.FeedErr = err
		return true
	}
	s.snapshot.FeedErr = nil
	s.snapshot.Feed = cloneFeed(feed)
	s.snapshot.HasFeed = true
	return true
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Games = cloneGames(s.snapshot.Games)
	snap.Stats = cloneStats(s.snapshot.Stats)
	snap.Feed = cloneFeed(s.snapshot.Feed)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func (s *Store) recordFailureLocked(err error) {
	s.snapshot.LastError = err
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures++
}

func (s *Store) recordSuccessLocked() {
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

func cloneGames(items []api.Game) []api.Game {
	if len(items) == 0 {
		return nil
	}
	dup := make([]api.Game, len(items))
	copy(dup, items)
	return dup
}

func cloneFeed(items []api.Activity) []api.Activity {
	if len(items) == 0 {
		return nil
	}
	dup := make([]api.Activity, len(items))
	copy(dup, items)
	return dup
}

func cloneStats(stats api.DashboardStats) api.DashboardStats {
	if len(stats.ByPlatform) > 0 {
		stats.ByPlatform = append([]api.Bucket(nil), stats.ByPlatform...)
	}
	if len(stats.ByGenre) > 0 {
		stats.ByGenre = append([]api.Bucket(nil), stats.ByGenre...)
	}
	return stats
}
