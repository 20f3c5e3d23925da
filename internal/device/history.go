package device

// History is an append-only, capacity-bounded sequence of device states.
// When a push would exceed capacity the oldest entries are evicted first,
// preserving most-recent-N semantics. Mutated only by the owning driver's
// poll loop.
type History struct {
	entries  []State
	capacity int
}

func NewHistory(capacity int) *History {
	return &History{
		entries:  make([]State, 0, capacity),
		capacity: capacity,
	}
}

// Push appends a state, evicting the oldest entries if at capacity.
func (h *History) Push(s State) {
	if len(h.entries) >= h.capacity {
		excess := len(h.entries) - h.capacity + 1
		h.entries = append(h.entries[:0], h.entries[excess:]...)
	}
	h.entries = append(h.entries, s)
}

// Lookback returns the entry at the given offset counted backward from the
// most recent (0 = newest). The second result is false when lookback is
// out of range.
func (h *History) Lookback(lookback int) (State, bool) {
	if lookback < 0 || lookback >= len(h.entries) {
		return nil, false
	}
	return h.entries[len(h.entries)-lookback-1], true
}

func (h *History) Len() int { return len(h.entries) }

func (h *History) Clear() { h.entries = h.entries[:0] }
