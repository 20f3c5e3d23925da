package tracking

import "testing"

func TestColorNameRoundTrip(t *testing.T) {
	for id := ColorID(0); id < MaxColorTypes; id++ {
		name := ColorName(id)
		got, ok := ColorFromName(name)
		if !ok || got != id {
			t.Fatalf("round trip failed for %v: got %v ok=%v", id, got, ok)
		}
	}
}

func TestColorFromNameCaseInsensitive(t *testing.T) {
	id, ok := ColorFromName("blue")
	if !ok || id != ColorBlue {
		t.Fatalf("expected blue, got %v ok=%v", id, ok)
	}
}

func TestColorNameOutOfRange(t *testing.T) {
	if ColorName(ColorNone) != "None" {
		t.Fatalf("expected None for ColorNone")
	}
	if _, ok := ColorFromName("ultraviolet"); ok {
		t.Fatalf("unexpected match for unknown color name")
	}
}
