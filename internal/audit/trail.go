package audit

import (
	"context"
	"sync"
)

// Trail is the in-memory append-only store backing an account's audit log.
// Append cannot fail and never blocks on anything but its own mutex.
type Trail struct {
	mu      sync.RWMutex
	entries []Entry
}

func NewTrail() *Trail {
	return &Trail{}
}

func (t *Trail) Append(_ context.Context, entry Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, entry)
}

// List returns entries oldest first. The slice is a copy; mutating it cannot
// rewrite history.
func (t *Trail) List(_ context.Context) []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]Entry{}, t.entries...)
}

// Len reports how many entries have been recorded.
func (t *Trail) Len(_ context.Context) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
