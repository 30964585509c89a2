package state

import (
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/five82/plusultra/internal/api"
	"github.com/five82/plusultra/internal/library"
)

func TestStore_ApplyAndSnapshotClone(t *testing.T) {
	s := NewStore(library.Default())

	ticket := s.BeginLibrary()
	if !s.Snapshot().Loading {
		t.Fatalf("Loading = false after BeginLibrary, want true")
	}

	before := time.Now()
	if !s.ApplyLibrary(ticket, []api.Game{{ID: "a"}, {ID: "b"}}, nil) {
		t.Fatalf("ApplyLibrary rejected the latest ticket")
	}

	snap := s.Snapshot()
	if !snap.HasGames || len(snap.Games) != 2 || snap.Games[0].ID != "a" {
		t.Fatalf("snapshot games = %#v, want a,b", snap.Games)
	}
	if snap.Loading {
		t.Fatalf("Loading = true after apply, want false")
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}

	snap.Games[0].ID = "mutated"
	if s.Snapshot().Games[0].ID != "a" {
		t.Fatalf("Snapshot should clone games")
	}
}

func TestStore_StaleLibraryResponseIsDiscarded(t *testing.T) {
	s := NewStore(library.Default())

	first := s.SetFilters(library.Filters{Genre: "RPG"})
	second := s.SetFilters(library.Filters{Genre: "Deportes"})

	if second.Filters.Genre != "Deportes" || first.Filters.Genre != "RPG" {
		t.Fatalf("tickets should capture filters at issue time: %#v %#v", first, second)
	}

	// Second resolves first, then the slower first request lands.
	if !s.ApplyLibrary(second, []api.Game{{ID: "fifa"}}, nil) {
		t.Fatalf("ApplyLibrary rejected the latest ticket")
	}
	if s.ApplyLibrary(first, []api.Game{{ID: "ff7"}}, nil) {
		t.Fatalf("ApplyLibrary accepted a stale ticket")
	}

	snap := s.Snapshot()
	if len(snap.Games) != 1 || snap.Games[0].ID != "fifa" {
		t.Fatalf("games = %#v, want the later request's result", snap.Games)
	}
	if snap.Filters.Genre != "Deportes" {
		t.Fatalf("Filters.Genre = %q, want Deportes", snap.Filters.Genre)
	}
}

func TestStore_StaleErrorDoesNotCount(t *testing.T) {
	s := NewStore(library.Default())

	stale := s.BeginLibrary()
	latest := s.BeginLibrary()
	if s.ApplyLibrary(stale, nil, errors.New("timeout")) {
		t.Fatalf("stale error applied")
	}
	snap := s.Snapshot()
	if snap.LastError != nil || snap.ConsecutiveFailures != 0 {
		t.Fatalf("stale error recorded: %v / %d", snap.LastError, snap.ConsecutiveFailures)
	}
	if !snap.Loading {
		t.Fatalf("Loading = false while latest fetch is outstanding")
	}
	s.ApplyLibrary(latest, nil, nil)
}

func TestStore_ErrorKeepsPreviousData(t *testing.T) {
	s := NewStore(library.Default())

	s.ApplyLibrary(s.BeginLibrary(), []api.Game{{ID: "a"}}, nil)

	origErr := errors.New("boom")
	s.ApplyLibrary(s.BeginLibrary(), nil, origErr)

	snap := s.Snapshot()
	if len(snap.Games) != 1 || snap.Games[0].ID != "a" {
		t.Fatalf("games changed on error: %#v", snap.Games)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	if s.Snapshot().IsOffline() {
		t.Fatal("IsOffline() = true, want false with 0 failures")
	}

	s.ApplyLibrary(s.BeginLibrary(), nil, errors.New("fail 1"))
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 1 || snap.IsOffline() {
		t.Fatalf("after 1 failure: failures=%d offline=%v", snap.ConsecutiveFailures, snap.IsOffline())
	}

	s.ApplyLibrary(s.BeginLibrary(), nil, errors.New("fail 2"))
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 2 || !snap.IsOffline() {
		t.Fatalf("after 2 failures: failures=%d offline=%v", snap.ConsecutiveFailures, snap.IsOffline())
	}

	s.ApplyLibrary(s.BeginLibrary(), []api.Game{{ID: "x"}}, nil)
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 0 || snap.IsOffline() || snap.LastError != nil {
		t.Fatalf("success should reset failures: %#v", snap)
	}
}

func TestStore_DashboardAndFeedFailuresStayOnline(t *testing.T) {
	var s Store

	s.ApplyLibrary(s.BeginLibrary(), []api.Game{{ID: "a"}}, nil)
	for range 3 {
		s.ApplyStats(s.BeginStats(), nil, errors.New("stats down"))
		s.ApplyFeed(s.BeginFeed(), nil, errors.New("feed down"))
	}

	snap := s.Snapshot()
	if snap.IsOffline() || snap.ConsecutiveFailures != 0 || snap.LastError != nil {
		t.Fatalf("offline after dashboard failures: failures=%d err=%v", snap.ConsecutiveFailures, snap.LastError)
	}
	if snap.StatsErr == nil || snap.FeedErr == nil {
		t.Fatalf("StatsErr=%v FeedErr=%v, want both recorded", snap.StatsErr, snap.FeedErr)
	}

	s.ApplyStats(s.BeginStats(), &api.DashboardStats{TotalGames: 1}, nil)
	s.ApplyFeed(s.BeginFeed(), []api.Activity{{ID: "x"}}, nil)
	if snap := s.Snapshot(); snap.StatsErr != nil || snap.FeedErr != nil {
		t.Fatalf("success should clear StatsErr=%v FeedErr=%v", snap.StatsErr, snap.FeedErr)
	}
}

func TestStore_StatsFencing(t *testing.T) {
	var s Store

	first := s.BeginStats()
	second := s.BeginStats()
	s.ApplyStats(second, &api.DashboardStats{TotalGames: 7, ByGenre: []api.Bucket{{Label: "RPG", Count: 7}}}, nil)
	if s.ApplyStats(first, &api.DashboardStats{TotalGames: 3}, nil) {
		t.Fatalf("stale stats applied")
	}

	snap := s.Snapshot()
	if !snap.HasStats || snap.Stats.TotalGames != 7 {
		t.Fatalf("stats = %#v, want TotalGames=7", snap.Stats)
	}
	snap.Stats.ByGenre[0].Count = 0
	if s.Snapshot().Stats.ByGenre[0].Count != 7 {
		t.Fatalf("Snapshot should clone stats buckets")
	}
}

func TestSnapshot_FindGame(t *testing.T) {
	snap := Snapshot{Games: []api.Game{{ID: "a", Title: "Hades"}}}
	if g, ok := snap.FindGame("a"); !ok || g.Title != "Hades" {
		t.Fatalf("FindGame(a) = %#v, %v", g, ok)
	}
	if _, ok := snap.FindGame("zz"); ok {
		t.Fatalf("FindGame(zz) found a game")
	}
}

func TestStore_ConcurrentIssueApply(t *testing.T) {
	s := NewStore(library.Default())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ticket := s.BeginLibrary()
			s.ApplyLibrary(ticket, []api.Game{{ID: "x"}}, nil)
			_ = s.Snapshot()
		}()
	}
	wg.Wait()

	last := s.BeginLibrary()
	if !s.ApplyLibrary(last, []api.Game{{ID: "final"}}, nil) {
		t.Fatalf("latest ticket rejected")
	}
	if got := s.Snapshot().Games[0].ID; got != "final" {
		t.Fatalf("Games[0].ID = %q, want final", got)
	}
}
