package animate

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultFrameInterval is the ticker period used by the CLI and server.
const DefaultFrameInterval = time.Second / 60

// FrameID identifies a pending frame callback.
type FrameID uint64

// FrameFunc is invoked once with the frame timestamp.
type FrameFunc func(now time.Time)

// Scheduler queues one-shot frame callbacks. A callback that wants to keep
// animating requests the next frame itself.
type Scheduler interface {
	RequestFrame(fn FrameFunc) FrameID
	CancelFrame(id FrameID)
}

// frameQueue is the bookkeeping shared by both schedulers.
type frameQueue struct {
	mu      sync.Mutex
	next    FrameID
	pending map[FrameID]FrameFunc
	fired   atomic.Uint64
}

func (q *frameQueue) request(fn FrameFunc) FrameID {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.pending == nil {
		q.pending = make(map[FrameID]FrameFunc)
	}
	q.next++
	q.pending[q.next] = fn
	return q.next
}

func (q *frameQueue) cancel(id FrameID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.pending, id)
}

// run invokes every callback pending at entry, in request order. Callbacks
// requested while running wait for the next tick.
func (q *frameQueue) run(now time.Time) int {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()

	ids := make([]FrameID, 0, len(batch))
	for id := range batch {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		batch[id](now)
	}
	q.fired.Add(uint64(len(ids)))
	return len(ids)
}

func (q *frameQueue) count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// TickerScheduler runs pending callbacks on a background goroutine at a fixed
// interval until Stop is called or its context is done.
type TickerScheduler struct {
	frameQueue
	interval time.Duration

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewTickerScheduler starts the scheduler goroutine. A non-positive interval
// uses DefaultFrameInterval.
func NewTickerScheduler(ctx context.Context, interval time.Duration) *TickerScheduler {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	s := &TickerScheduler{
		interval: interval,
		stop:     make(chan struct{}),
	}
	s.wg.Add(1)
	go s.loop(ctx)
	return s
}

func (s *TickerScheduler) loop(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.run(now)
		}
	}
}

// RequestFrame queues fn for the next tick.
func (s *TickerScheduler) RequestFrame(fn FrameFunc) FrameID { return s.request(fn) }

// CancelFrame drops a pending callback. Unknown ids are ignored.
func (s *TickerScheduler) CancelFrame(id FrameID) { s.cancel(id) }

// Pending returns the number of queued callbacks.
func (s *TickerScheduler) Pending() int { return s.count() }

// Fired returns the total number of callbacks invoked so far.
func (s *TickerScheduler) Fired() uint64 { return s.fired.Load() }

// Stop halts the goroutine and waits for an in-flight tick to finish. It
// must not be called from inside a frame callback.
func (s *TickerScheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
		s.wg.Wait()
	})
}

// ManualScheduler runs callbacks only when Advance is called. Its clock
// starts at a fixed instant so runs are reproducible.
type ManualScheduler struct {
	frameQueue
	clockMu sync.Mutex
	now     time.Time
}

// NewManualScheduler returns a scheduler whose clock starts at start.
func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{now: start}
}

// RequestFrame queues fn for the next Advance tick.
func (s *ManualScheduler) RequestFrame(fn FrameFunc) FrameID { return s.request(fn) }

// CancelFrame drops a pending callback. Unknown ids are ignored.
func (s *ManualScheduler) CancelFrame(id FrameID) { s.cancel(id) }

// Pending returns the number of queued callbacks.
func (s *ManualScheduler) Pending() int { return s.count() }

// Fired returns the total number of callbacks invoked so far.
func (s *ManualScheduler) Fired() uint64 { return s.fired.Load() }

// Advance runs n ticks spaced dt apart and returns how many callbacks ran.
func (s *ManualScheduler) Advance(n int, dt time.Duration) int {
	total := 0
	for range n {
		s.clockMu.Lock()
		s.now = s.now.Add(dt)
		now := s.now
		s.clockMu.Unlock()
		total += s.run(now)
	}
	return total
}

// Now returns the scheduler clock.
func (s *ManualScheduler) Now() time.Time {
	s.clockMu.Lock()
	defer s.clockMu.Unlock()
	return s.now
}
