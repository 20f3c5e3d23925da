package device

import "testing"

type stubState struct{ seq int64 }

func (s *stubState) Sequence() int64  { return s.seq }
func (s *stubState) DeviceType() Type { return TypeHMD }

func TestHistoryFIFOBound(t *testing.T) {
	h := NewHistory(4)
	for i := 0; i < 10; i++ {
		h.Push(&stubState{seq: int64(i)})
	}
	if h.Len() != 4 {
		t.Fatalf("expected length 4 after 10 pushes, got %d", h.Len())
	}
	// Only the last 4 entries survive, in insertion order.
	for lookback := 0; lookback < 4; lookback++ {
		s, ok := h.Lookback(lookback)
		if !ok {
			t.Fatalf("lookback %d not found", lookback)
		}
		if want := int64(9 - lookback); s.Sequence() != want {
			t.Fatalf("lookback %d: expected seq %d, got %d", lookback, want, s.Sequence())
		}
	}
}

func TestHistoryLookbackNewest(t *testing.T) {
	h := NewHistory(4)
	h.Push(&stubState{seq: 7})
	s, ok := h.Lookback(0)
	if !ok || s.Sequence() != 7 {
		t.Fatalf("lookback 0 should be the most recent entry")
	}
}

func TestHistoryLookbackOutOfRange(t *testing.T) {
	h := NewHistory(4)
	if _, ok := h.Lookback(0); ok {
		t.Fatalf("empty history should report not found")
	}
	h.Push(&stubState{seq: 1})
	if _, ok := h.Lookback(1); ok {
		t.Fatalf("lookback beyond length should report not found")
	}
	if _, ok := h.Lookback(-1); ok {
		t.Fatalf("negative lookback should report not found")
	}
}

func TestHistoryClear(t *testing.T) {
	h := NewHistory(4)
	h.Push(&stubState{seq: 1})
	h.Push(&stubState{seq: 2})
	h.Clear()
	if h.Len() != 0 {
		t.Fatalf("expected empty history after clear, got %d", h.Len())
	}
}
