// Package tracker remembers overdue review requests between runs so that
// reminders keep going out on a fixed cadence even when the lead-time tiers
// fall silent. State lives in memory only; a restart starts clean.
package tracker

import (
	"sync"
	"time"
)

// Entry is the tracked state for one overdue review request.
type Entry struct {
	LastNotifiedAt time.Time
	CreatorEmail   string
}

// DueEntry is a tracked request whose recheck interval has elapsed.
type DueEntry struct {
	ID           string
	CreatorEmail string
}

// Tracker is a concurrency-safe store of overdue review requests keyed by
// request ID.
type Tracker struct {
	mu      sync.Mutex
	entries map[string]Entry
}

func New() *Tracker {
	return &Tracker{entries: make(map[string]Entry)}
}

// Record marks a request as overdue, stamping it with the given time. An
// already-tracked request keeps its cadence: recording again restarts the
// interval from now.
func (t *Tracker) Record(id, creatorEmail string, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[id] = Entry{LastNotifiedAt: now, CreatorEmail: creatorEmail}
}

// Due returns the tracked requests whose last notification is at least
// interval old.
func (t *Tracker) Due(now time.Time, interval time.Duration) []DueEntry {
	t.mu.Lock()
	defer t.mu.Unlock()

	var due []DueEntry
	for id, entry := range t.entries {
		if now.Sub(entry.LastNotifiedAt) >= interval {
			due = append(due, DueEntry{ID: id, CreatorEmail: entry.CreatorEmail})
		}
	}
	return due
}

// Refresh restamps a tracked request after a reminder went out. Unknown IDs
// are ignored.
func (t *Tracker) Refresh(id string, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	entry, ok := t.entries[id]
	if !ok {
		return
	}
	entry.LastNotifiedAt = now
	t.entries[id] = entry
}

// Evict drops a request from tracking, typically because it left the
// under-review state.
func (t *Tracker) Evict(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, id)
}

// Len returns the number of tracked requests.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
