package session

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/drpeachy/tagbubbles/pkg/bubbles"
	"github.com/drpeachy/tagbubbles/pkg/errors"
)

const waitFor = 2 * time.Second

func testConfig() bubbles.Config {
	p := bubbles.DefaultParams()
	p.EntranceDuration = 0
	p.EntranceStagger = 0
	return bubbles.Config{
		Labels:  []string{"Unity", "PC", "2D"},
		Palette: []string{"#3798ff"},
		Width:   500,
		Height:  470,
		Params:  &p,
		Seed:    7,
	}
}

func actionConfig() bubbles.Config {
	cfg := testConfig()
	cfg.Labels = nil
	cfg.ActionLabel = "Play"
	cfg.ActionTarget = "https://example.com"
	return cfg
}

func newTestManager(t *testing.T, opts Options) *Manager {
	t.Helper()
	if opts.FrameInterval == 0 {
		opts.FrameInterval = 2 * time.Millisecond
	}
	m := NewManager(opts)
	t.Cleanup(m.Close)
	return m
}

// eventually polls cond until it holds or waitFor elapses.
func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(waitFor)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestCreateGetDelete(t *testing.T) {
	m := newTestManager(t, Options{})

	s, err := m.Create("demo", testConfig())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(s.ID) != 36 || s.Showcase != "demo" {
		t.Errorf("session = %q/%q, want a uuid and the showcase name", s.ID, s.Showcase)
	}
	if got, err := m.Get(s.ID); err != nil || got != s {
		t.Errorf("Get = (%p, %v), want %p", got, err, s)
	}
	if ids := m.IDs(); len(ids) != 1 || ids[0] != s.ID {
		t.Errorf("IDs = %v", ids)
	}

	if err := m.Delete(s.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if m.Len() != 0 {
		t.Errorf("Len = %d after Delete", m.Len())
	}
	if st := s.Stats(); st.Mounted || st.Listeners != 0 || st.PendingFrames != 0 {
		t.Errorf("stats after Delete = %+v, want unmounted with nothing pending", st)
	}

	for _, fn := range []func(string) error{
		func(id string) error { _, err := m.Get(id); return err },
		m.Delete,
	} {
		if err := fn(s.ID); !errors.Is(err, errors.ErrCodeSessionNotFound) {
			t.Errorf("err = %v, want SESSION_NOT_FOUND", err)
		}
	}
}

func TestCreateRejectsBadConfig(t *testing.T) {
	m := newTestManager(t, Options{})
	cfg := testConfig()
	cfg.Width = 0
	if _, err := m.Create("demo", cfg); !errors.Is(err, errors.ErrCodeInvalidDimensions) {
		t.Errorf("err = %v, want INVALID_DIMENSIONS", err)
	}
	if m.Len() != 0 {
		t.Errorf("failed Create left %d sessions", m.Len())
	}
}

func TestSessionLimit(t *testing.T) {
	m := newTestManager(t, Options{MaxSessions: 2})
	for range 2 {
		if _, err := m.Create("demo", testConfig()); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := m.Create("demo", testConfig()); !errors.Is(err, errors.ErrCodeLimitExceeded) {
		t.Errorf("err = %v, want LIMIT_EXCEEDED", err)
	}
}

func TestCreateAfterClose(t *testing.T) {
	m := NewManager(Options{})
	s, err := m.Create("demo", testConfig())
	if err != nil {
		t.Fatal(err)
	}
	m.Close()
	if s.Stats().Mounted {
		t.Error("Close should unmount live sessions")
	}
	if _, err := m.Create("demo", testConfig()); err == nil {
		t.Error("Create after Close should fail")
	}
}

func TestSubscribeReceivesFrames(t *testing.T) {
	m := newTestManager(t, Options{})
	s, err := m.Create("demo", testConfig())
	if err != nil {
		t.Fatal(err)
	}

	frames, cancel := s.Subscribe()
	if s.Subscribers() != 1 {
		t.Errorf("Subscribers = %d, want 1", s.Subscribers())
	}

	var last uint64
	for range 3 {
		select {
		case data := <-frames:
			var f struct {
				Showcase string            `json:"showcase"`
				Step     uint64            `json:"step"`
				Items    []json.RawMessage `json:"items"`
			}
			if err := json.Unmarshal(data, &f); err != nil {
				t.Fatalf("frame is not JSON: %v", err)
			}
			if f.Showcase != "demo" || len(f.Items) != 3 {
				t.Errorf("frame = %s", data)
			}
			if f.Step <= last {
				t.Errorf("step went from %d to %d", last, f.Step)
			}
			last = f.Step
		case <-time.After(waitFor):
			t.Fatal("no frame received")
		}
	}

	cancel()
	cancel()
	if s.Subscribers() != 0 {
		t.Errorf("Subscribers = %d after cancel", s.Subscribers())
	}
	for range frames {
		// drain until closed
	}
}

func TestCloseEndsSubscriptions(t *testing.T) {
	m := newTestManager(t, Options{})
	s, err := m.Create("demo", testConfig())
	if err != nil {
		t.Fatal(err)
	}
	frames, cancel := s.Subscribe()
	defer cancel()

	if err := m.Delete(s.ID); err != nil {
		t.Fatal(err)
	}
	done := make(chan struct{})
	go func() {
		for range frames {
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(waitFor):
		t.Fatal("subscription channel not closed by Delete")
	}

	late, lateCancel := s.Subscribe()
	defer lateCancel()
	if _, ok := <-late; ok {
		t.Error("Subscribe on a closed session should return a closed channel")
	}
}

func TestPointerReachesEngine(t *testing.T) {
	m := newTestManager(t, Options{})
	s, err := m.Create("demo", testConfig())
	if err != nil {
		t.Fatal(err)
	}

	s.Pointer(120, 80)
	eventually(t, "pointer in frame", func() bool {
		p := s.Frame().Pointer
		return p != nil && p.X == 120 && p.Y == 80
	})

	s.Leave()
	eventually(t, "pointer cleared", func() bool {
		return s.Frame().Pointer == nil
	})
}

func TestResize(t *testing.T) {
	m := newTestManager(t, Options{})
	s, err := m.Create("demo", testConfig())
	if err != nil {
		t.Fatal(err)
	}
	s.Resize(320, 200)
	eventually(t, "resized frame", func() bool {
		f := s.Frame()
		return f.Width == 320 && f.Height == 200
	})
}

func TestClickOpensTarget(t *testing.T) {
	m := newTestManager(t, Options{})
	s, err := m.Create("play", actionConfig())
	if err != nil {
		t.Fatal(err)
	}
	if target, ok := s.Target(); !ok || target != "https://example.com" {
		t.Errorf("Target = (%q, %v)", target, ok)
	}

	eventually(t, "first frame", func() bool { return s.Frame().Step > 0 })
	act, ok := s.Frame().Action()
	if !ok {
		t.Fatal("frame has no action bubble")
	}

	// The bubble moves far less than its radius between frames.
	it, hit, err := s.Click(context.Background(), act.Pos.X, act.Pos.Y)
	if err != nil || !hit || !it.Action {
		t.Fatalf("Click = (%+v, %v, %v)", it, hit, err)
	}
	if got := s.Opened(); len(got) != 1 || got[0] != "https://example.com" {
		t.Errorf("Opened = %v, want one open", got)
	}

	if _, hit, _ := s.Click(context.Background(), -1000, -1000); hit {
		t.Error("click outside the canvas hit something")
	}
	if len(s.Opened()) != 1 {
		t.Errorf("missed click opened a target")
	}
}

func TestReap(t *testing.T) {
	var mu sync.Mutex
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	advance := func(d time.Duration) {
		mu.Lock()
		now = now.Add(d)
		mu.Unlock()
	}

	m := newTestManager(t, Options{TTL: time.Minute, Now: clock})
	idle, _ := m.Create("demo", testConfig())
	watched, _ := m.Create("demo", testConfig())
	busy, _ := m.Create("demo", testConfig())
	_, cancel := watched.Subscribe()
	defer cancel()

	advance(50 * time.Second)
	busy.Pointer(10, 10)
	advance(20 * time.Second)

	if n := m.Reap(); n != 1 {
		t.Errorf("Reap = %d, want 1", n)
	}
	if _, err := m.Get(idle.ID); err == nil {
		t.Error("idle session survived Reap")
	}
	for _, s := range []*Session{watched, busy} {
		if _, err := m.Get(s.ID); err != nil {
			t.Errorf("session %s reaped: %v", s.ID, err)
		}
	}
	if idle.Stats().Mounted {
		t.Error("reaped session still mounted")
	}
}

func TestRunStopsWithContext(t *testing.T) {
	m := newTestManager(t, Options{TTL: time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run = %v", err)
		}
	case <-time.After(waitFor):
		t.Fatal("Run did not return after cancel")
	}
}
