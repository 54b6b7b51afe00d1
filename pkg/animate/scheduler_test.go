package animate

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/drpeachy/tagbubbles/pkg/bubbles"
)

func TestManualSchedulerRunsInRequestOrder(t *testing.T) {
	s := NewManualScheduler(time.Unix(100, 0))
	var order []int
	for i := range 3 {
		s.RequestFrame(func(time.Time) { order = append(order, i) })
	}
	if got := s.Pending(); got != 3 {
		t.Fatalf("Pending() = %d, want 3", got)
	}
	if ran := s.Advance(1, frame); ran != 3 {
		t.Errorf("Advance ran %d, want 3", ran)
	}
	if !slices.Equal(order, []int{0, 1, 2}) {
		t.Errorf("order = %v", order)
	}
	if s.Pending() != 0 || s.Fired() != 3 {
		t.Errorf("pending=%d fired=%d", s.Pending(), s.Fired())
	}
}

func TestManualSchedulerCancel(t *testing.T) {
	s := NewManualScheduler(time.Unix(0, 0))
	called := false
	id := s.RequestFrame(func(time.Time) { called = true })
	s.CancelFrame(id)
	s.CancelFrame(id)
	s.CancelFrame(999)
	s.Advance(1, frame)
	if called {
		t.Error("cancelled callback ran")
	}
}

func TestManualSchedulerDefersNestedRequests(t *testing.T) {
	s := NewManualScheduler(time.Unix(0, 0))
	var times []time.Time
	var loop FrameFunc
	loop = func(now time.Time) {
		times = append(times, now)
		s.RequestFrame(loop)
	}
	s.RequestFrame(loop)

	if ran := s.Advance(3, time.Second); ran != 3 {
		t.Fatalf("Advance ran %d, want 3", ran)
	}
	want := []time.Time{time.Unix(1, 0), time.Unix(2, 0), time.Unix(3, 0)}
	for i := range want {
		if !times[i].Equal(want[i]) {
			t.Errorf("tick %d at %v, want %v", i, times[i], want[i])
		}
	}
	if !s.Now().Equal(time.Unix(3, 0)) {
		t.Errorf("Now() = %v", s.Now())
	}
}

func TestTickerSchedulerFires(t *testing.T) {
	s := NewTickerScheduler(context.Background(), time.Millisecond)
	defer s.Stop()

	done := make(chan time.Time, 1)
	s.RequestFrame(func(now time.Time) { done <- now })
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("frame callback did not run")
	}
	if s.Fired() != 1 {
		t.Errorf("Fired() = %d, want 1", s.Fired())
	}
}

func TestTickerSchedulerStopsOnContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewTickerScheduler(ctx, time.Millisecond)
	cancel()

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop() did not return after context cancel")
	}
	s.Stop()
}

func TestTickerSchedulerWithComponent(t *testing.T) {
	s := NewTickerScheduler(context.Background(), time.Millisecond)
	defer s.Stop()

	frames := make(chan struct{}, 64)
	c, err := NewComponent(testConfig("Unity", "PC"), s, WithFrameListener(func(bubbles.Frame) {
		select {
		case frames <- struct{}{}:
		default:
		}
	}))
	if err != nil {
		t.Fatal(err)
	}
	host := NewEventHost()
	if err := c.Mount(host); err != nil {
		t.Fatal(err)
	}
	for range 5 {
		select {
		case <-frames:
		case <-time.After(2 * time.Second):
			t.Fatal("component stopped animating")
		}
	}
	c.Unmount()
	if s.Pending() != 0 || host.Listeners() != 0 {
		t.Errorf("pending=%d listeners=%d after unmount", s.Pending(), host.Listeners())
	}
}
