package feed

import (
	"sync"
	"time"
)

// HighlightTracker keeps the "recently added" marking for the most recent
// merge batch. A new non-empty batch replaces the previous one rather than
// extending it, and at most one expiry timer is pending at any time.
type HighlightTracker struct {
	mu    sync.Mutex
	ids   map[string]struct{}
	timer *time.Timer
	gen   uint64
	dwell time.Duration
}

// NewHighlightTracker creates a tracker with the given dwell time.
func NewHighlightTracker(dwell time.Duration) *HighlightTracker {
	return &HighlightTracker{
		ids:   make(map[string]struct{}),
		dwell: dwell,
	}
}

// Mark replaces the highlight set with ids and restarts the expiry timer.
// An empty batch is a no-op: it neither marks nor clears.
func (h *HighlightTracker) Mark(ids []string) {
	if len(ids) == 0 {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.ids = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		h.ids[id] = struct{}{}
	}

	// Cancel the pending timer before scheduling a new one. Stop may race
	// with a timer that already fired; the generation check in the expiry
	// callback makes a late fire harmless.
	if h.timer != nil {
		h.timer.Stop()
	}
	h.gen++
	gen := h.gen
	h.timer = time.AfterFunc(h.dwell, func() {
		h.expire(gen)
	})
}

func (h *HighlightTracker) expire(gen uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if gen != h.gen {
		return
	}
	h.ids = make(map[string]struct{})
	h.timer = nil
}

// IsHighlighted reports whether id belongs to the current batch. O(1).
func (h *HighlightTracker) IsHighlighted(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.ids[id]
	return ok
}

// Stop cancels any pending expiry timer and clears the set.
func (h *HighlightTracker) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
	h.gen++
	h.ids = make(map[string]struct{})
}
