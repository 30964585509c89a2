package app

import (
	"context"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/five82/plusultra/internal/api"
	"github.com/five82/plusultra/internal/session"
	"github.com/five82/plusultra/internal/state"
)

const (
	defaultPollInterval   = 30 * time.Second
	defaultRequestTimeout = 10 * time.Second
	maxBackoff            = 5 * time.Minute
)

// Source is the part of the backend the poller reads.
type Source interface {
	ListGames(ctx context.Context, query url.Values) ([]api.Game, error)
	DashboardStats(ctx context.Context) (api.DashboardStats, error)
	Feed(ctx context.Context) ([]api.Activity, error)
}

// StartPoller launches a background goroutine that refreshes the store at a
// fixed cadence, backing off while the backend is unreachable. It returns
// immediately.
func StartPoller(ctx context.Context, store *state.Store, source Source, holder *session.Holder, interval, timeout time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		failures := 0
		for {
			wait := calculateBackoff(failures, interval)
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}

			if err := refresh(ctx, store, source, holder, timeout); err != nil {
				failures++
				log.Warn().Err(err).Int("failures", failures).
					Dur("next", calculateBackoff(failures, interval)).
					Msg("poll failed")
				continue
			}
			failures = 0
		}
	}()
}

// calculateBackoff doubles the interval for each consecutive failure, capped
// at maxBackoff. An interval already above the cap is left alone.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 || base >= maxBackoff {
		return base
	}
	backoff := base
	for range failures {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}

// refresh re-fetches the library for the current filters and, with an
// active session, the dashboard and feed. Each result goes through the
// store's sequence fence, so a refresh never overwrites a newer fetch issued
// by the UI. The library error is returned to drive the backoff.
func refresh(ctx context.Context, store *state.Store, source Source, holder *session.Holder, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	reqCtx := ctx
	authed := false
	if holder != nil {
		if c, err := holder.Authorize(ctx); err == nil {
			reqCtx, authed = c, true
		}
	}

	t := store.BeginLibrary()
	libCtx, cancel := context.WithTimeout(reqCtx, timeout)
	games, libErr := source.ListGames(libCtx, t.Filters.Values())
	cancel()
	store.ApplyLibrary(t, games, libErr)
	if libErr != nil {
		return libErr
	}

	if !authed {
		return nil
	}

	seq := store.BeginStats()
	statsCtx, cancel := context.WithTimeout(reqCtx, timeout)
	dashboard, err := source.DashboardStats(statsCtx)
	cancel()
	if err != nil {
		log.Debug().Err(err).Msg("dashboard poll failed")
		store.ApplyStats(seq, nil, err)
	} else {
		store.ApplyStats(seq, &dashboard, nil)
	}

	seq = store.BeginFeed()
	feedCtx, cancel := context.WithTimeout(reqCtx, timeout)
	feed, err := source.Feed(feedCtx)
	cancel()
	if err != nil {
		log.Debug().Err(err).Msg("feed poll failed")
	}
	store.ApplyFeed(seq, feed, err)
	return nil
}
