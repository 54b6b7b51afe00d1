package animate

import "testing"

func TestEventHostDispatch(t *testing.T) {
	h := NewEventHost()
	h.SetOrigin(50, 25)

	var moves, leaves []Event
	moveID := h.AddListener(PointerMove, func(ev Event) { moves = append(moves, ev) })
	h.AddListener(PointerLeave, func(ev Event) { leaves = append(leaves, ev) })

	h.Dispatch(Event{Kind: PointerMove, X: 150, Y: 125})
	h.Dispatch(Event{Kind: PointerLeave})
	h.Dispatch(Event{Kind: Resize, Width: 10, Height: 10})

	if len(moves) != 1 || moves[0].X != 100 || moves[0].Y != 100 {
		t.Errorf("moves = %+v, want one event at (100, 100)", moves)
	}
	if len(leaves) != 1 {
		t.Errorf("leaves = %d, want 1", len(leaves))
	}

	h.RemoveListener(moveID)
	h.RemoveListener(moveID)
	h.Dispatch(Event{Kind: PointerMove, X: 0, Y: 0})
	if len(moves) != 1 {
		t.Errorf("removed listener still called")
	}
	if got := h.Listeners(); got != 1 {
		t.Errorf("Listeners() = %d, want 1", got)
	}
}

func TestEventKindString(t *testing.T) {
	tests := map[EventKind]string{
		PointerMove:   "pointermove",
		PointerLeave:  "pointerleave",
		Resize:        "resize",
		EventKind(42): "unknown",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(k), got, want)
		}
	}
}

func TestRecordingOpener(t *testing.T) {
	o := &RecordingOpener{}
	_ = o.Open(t.Context(), "https://example.com/a")
	_ = o.Open(t.Context(), "https://example.com/b")
	got := o.Opened()
	if len(got) != 2 || got[0] != "https://example.com/a" || got[1] != "https://example.com/b" {
		t.Errorf("Opened() = %v", got)
	}
}

func TestBrowserOpenerRejectsUnsafeURL(t *testing.T) {
	if err := (BrowserOpener{}).Open(t.Context(), "file:///etc/passwd"); err == nil {
		t.Error("BrowserOpener should reject non-http URLs before exec")
	}
}
