// Package session manages live preview sessions for the HTTP server.
//
// A session is one mounted [animate.Component] with its own frame loop,
// event host, and subscribers. Browsers create a session, subscribe to its
// frame stream, and feed pointer events back; the server never shares a
// simulation between viewers.
//
// # Architecture
//
// Each session owns:
//   - a [animate.TickerScheduler] driving its frame loop
//   - an [animate.EventHost] that HTTP handlers dispatch pointer events to
//   - a fan-out of JSON-encoded frames to stream subscribers
//
// The [Manager] indexes sessions by id, enforces a session limit, and reaps
// sessions that have been idle (no request and no subscriber) for longer
// than the TTL.
//
// # Usage
//
//	m := session.NewManager(session.Options{TTL: 5 * time.Minute, Logger: logger})
//	go m.Run(ctx)
//	defer m.Close()
//
//	sess, err := m.Create("platformer", engineConfig)
//	frames, cancel := sess.Subscribe()
//	defer cancel()
//	sess.Pointer(120, 80)
package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/drpeachy/tagbubbles/pkg/animate"
	"github.com/drpeachy/tagbubbles/pkg/bubbles"
	"github.com/drpeachy/tagbubbles/pkg/render/sink"
)

// Session is one live canvas.
type Session struct {
	ID        string
	Showcase  string
	CreatedAt time.Time

	comp   *animate.Component
	sched  *animate.TickerScheduler
	host   *animate.EventHost
	opener *animate.RecordingOpener
	logger *log.Logger
	now    func() time.Time

	lastSeen atomic.Int64 // unix nanos

	mu      sync.Mutex
	subs    map[uint64]chan []byte
	nextSub uint64
	closed  bool
}

func newSession(id, showcase string, cfg bubbles.Config, interval time.Duration, now func() time.Time, logger *log.Logger) (*Session, error) {
	s := &Session{
		ID:        id,
		Showcase:  showcase,
		CreatedAt: now(),
		host:      animate.NewEventHost(),
		opener:    &animate.RecordingOpener{},
		logger:    logger.With("session", id),
		now:       now,
		subs:      make(map[uint64]chan []byte),
	}
	s.lastSeen.Store(s.CreatedAt.UnixNano())

	s.sched = animate.NewTickerScheduler(context.Background(), interval)
	comp, err := animate.NewComponent(cfg, s.sched,
		animate.WithOpener(s.opener),
		animate.WithLogger(s.logger),
		animate.WithFrameListener(s.broadcast),
	)
	if err != nil {
		s.sched.Stop()
		return nil, err
	}
	if err := comp.Mount(s.host); err != nil {
		s.sched.Stop()
		return nil, err
	}
	s.comp = comp
	return s, nil
}

// broadcast encodes f once and hands it to every subscriber. A subscriber
// that has not consumed the previous frame gets it replaced, so slow
// clients skip frames instead of stalling the loop.
func (s *Session) broadcast(f bubbles.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.subs) == 0 || s.closed {
		return
	}
	data, err := sink.RenderJSON(f, sink.WithJSONShowcase(s.Showcase))
	if err != nil {
		s.logger.Warn("encode frame", "err", err)
		return
	}
	for _, ch := range s.subs {
		select {
		case ch <- data:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- data
		}
	}
}

// Subscribe returns a channel of JSON frames and a function that ends the
// subscription. The channel is closed when the subscription or the session
// ends.
func (s *Session) Subscribe() (<-chan []byte, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan []byte, 1)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	s.nextSub++
	id := s.nextSub
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
		s.Touch()
	}
}

// Subscribers returns the number of active stream subscribers.
func (s *Session) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Pointer moves the pointer to canvas coordinates (x, y). It takes effect on
// the next frame.
func (s *Session) Pointer(x, y float64) {
	s.Touch()
	s.host.Dispatch(animate.Event{Kind: animate.PointerMove, X: x, Y: y})
}

// Leave clears the pointer.
func (s *Session) Leave() {
	s.Touch()
	s.host.Dispatch(animate.Event{Kind: animate.PointerLeave})
}

// Resize changes the canvas size; the engine is rebuilt on the next frame.
func (s *Session) Resize(w, h float64) {
	s.Touch()
	s.host.Dispatch(animate.Event{Kind: animate.Resize, Width: w, Height: h})
}

// Click hit-tests (x, y). When the action bubble is hit its target is
// returned as opened.
func (s *Session) Click(ctx context.Context, x, y float64) (bubbles.Item, bool, error) {
	s.Touch()
	return s.comp.Click(ctx, x, y)
}

// Opened returns every action target opened through Click, oldest first.
func (s *Session) Opened() []string {
	return s.opener.Opened()
}

// Target returns the action bubble's target, if the canvas has one.
func (s *Session) Target() (string, bool) {
	act, ok := s.comp.Frame().Action()
	if !ok {
		return "", false
	}
	return act.Target, true
}

// Frame returns the latest published frame.
func (s *Session) Frame() bubbles.Frame {
	return s.comp.Frame()
}

// Stats reports the component's lifecycle counters.
func (s *Session) Stats() animate.Stats {
	return s.comp.Stats()
}

// Touch marks the session as used now.
func (s *Session) Touch() {
	s.lastSeen.Store(s.now().UnixNano())
}

// LastSeen returns the time of the last request or subscription change.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// Close unmounts the component, stops the frame loop, and ends every
// subscription. It is idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	s.mu.Unlock()

	s.comp.Unmount()
	s.sched.Stop()
}
