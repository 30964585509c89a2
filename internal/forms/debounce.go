package forms

import (
	"sync"
	"time"
)

// DefaultSearchDebounce is the quiet period before a metadata search fires.
const DefaultSearchDebounce = 500 * time.Millisecond

// Debouncer collapses a burst of triggers into one. Each Trigger supersedes
// the pending one; a timer that fires with an old tag is ignored by Fire.
//
// The caller owns the timer (a tea.Tick in the UI), so the debouncer itself
// never starts goroutines.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	gen     uint64
	value   string
	pending bool
}

// NewDebouncer returns a debouncer with the given delay, or the default
// when delay is not positive.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultSearchDebounce
	}
	return &Debouncer{delay: delay}
}

// Delay returns the quiet period.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Trigger records value as the pending trigger and returns its tag.
func (d *Debouncer) Trigger(value string) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	d.value = value
	d.pending = true
	return d.gen
}

// Cancel drops any pending trigger.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	d.pending = false
}

// Fire consumes the pending trigger if tag is still the latest. It returns
// the triggered value and true at most once per trigger.
func (d *Debouncer) Fire(tag uint64) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.pending || tag != d.gen {
		return "", false
	}
	d.pending = false
	return d.value, true
}

// Pending reports whether a trigger is waiting to fire.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}
