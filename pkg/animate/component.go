package animate

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/drpeachy/tagbubbles/pkg/bubbles"
	"github.com/drpeachy/tagbubbles/pkg/errors"
	"github.com/drpeachy/tagbubbles/pkg/observability"
)

// Option configures a Component.
type Option func(*Component)

// WithOpener sets where action targets are sent. The default discards them.
func WithOpener(o Opener) Option {
	return func(c *Component) { c.opener = o }
}

// WithLogger sets the lifecycle logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Component) { c.logger = l }
}

// WithFrameListener registers fn to receive every published frame. It runs
// on the scheduler goroutine after the component lock is released and must
// not block.
func WithFrameListener(fn func(bubbles.Frame)) Option {
	return func(c *Component) { c.onFrame = fn }
}

// Stats reports the resources a component currently holds.
type Stats struct {
	Mounted       bool
	PendingFrames int
	Listeners     int
	Frames        uint64
	Generation    uint64
}

// Component is a mounted, self-animating bubble canvas.
type Component struct {
	sched   Scheduler
	opener  Opener
	logger  *log.Logger
	onFrame func(bubbles.Frame)

	mu        sync.Mutex
	cfg       bubbles.Config
	engine    *bubbles.Engine
	host      Host
	listeners []ListenerID
	frameID   FrameID
	pending   bool
	gen       uint64
	last      time.Time
	queue     []Event
	frames    uint64

	snapshot atomic.Pointer[bubbles.Frame]
}

// NewComponent builds the engine for cfg. The component does nothing until
// it is mounted.
func NewComponent(cfg bubbles.Config, sched Scheduler, opts ...Option) (*Component, error) {
	if sched == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "scheduler is required")
	}
	e, err := bubbles.New(cfg)
	if err != nil {
		return nil, err
	}
	c := &Component{
		sched:  sched,
		opener: NopOpener{},
		logger: log.New(io.Discard),
		cfg:    cfg,
		engine: e,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.publish()
	return c, nil
}

// Mount attaches the component to host and starts the frame loop. A
// component with no items registers its listeners but schedules no frames.
func (c *Component) Mount(host Host) error {
	if host == nil {
		return errors.New(errors.ErrCodeInvalidInput, "host is required")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.host != nil {
		return errors.New(errors.ErrCodeAlreadyMounted, "component is already mounted")
	}
	c.mountLocked(host)
	observability.Component().OnMount(context.Background(), c.engine.Len())
	return nil
}

func (c *Component) mountLocked(host Host) {
	c.host = host
	c.gen++
	gen := c.gen
	c.listeners = append(c.listeners,
		host.AddListener(PointerMove, func(ev Event) { c.enqueue(gen, ev) }),
		host.AddListener(PointerLeave, func(ev Event) { c.enqueue(gen, ev) }),
		host.AddListener(Resize, func(ev Event) { c.enqueue(gen, ev) }),
	)
	c.scheduleLocked()
	c.logger.Debug("mounted", "items", c.engine.Len(), "generation", gen)
}

// Unmount cancels the pending frame and removes every listener. Calling it
// on an unmounted component is a no-op.
func (c *Component) Unmount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.host == nil {
		return
	}
	frames := c.frames
	c.unmountLocked()
	observability.Component().OnUnmount(context.Background(), frames)
}

func (c *Component) unmountLocked() {
	// Bumping the generation first makes any callback already dequeued by the
	// scheduler return without touching the engine.
	c.gen++
	if c.pending {
		c.sched.CancelFrame(c.frameID)
		c.pending = false
	}
	for _, id := range c.listeners {
		c.host.RemoveListener(id)
	}
	c.listeners = nil
	c.host = nil
	c.queue = nil
	c.last = time.Time{}
	c.logger.Debug("unmounted", "frames", c.frames)
}

// Replace rebuilds the engine from cfg. A mounted component is unmounted
// before the rebuild and remounted on the same host afterwards, so there is
// never more than one frame loop. On error the current engine is kept.
func (c *Component) Replace(cfg bubbles.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	host := c.host
	if host != nil {
		c.unmountLocked()
	}
	e, err := bubbles.New(cfg)
	if err == nil {
		c.cfg, c.engine = cfg, e
		c.frames = 0
	}
	if host != nil {
		c.mountLocked(host)
	}
	items := c.engine.Len()
	c.mu.Unlock()

	if err != nil {
		return err
	}
	c.publish()
	c.logger.Debug("replaced", "items", items)
	observability.Component().OnReplace(context.Background(), items)
	return nil
}

// Config returns the configuration the current engine was built from.
func (c *Component) Config() bubbles.Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// Frame returns the most recently published snapshot.
func (c *Component) Frame() bubbles.Frame {
	if f := c.snapshot.Load(); f != nil {
		return *f
	}
	return bubbles.Frame{}
}

// Stats reports the component's current resources.
func (c *Component) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Stats{
		Mounted:    c.host != nil,
		Listeners:  len(c.listeners),
		Frames:     c.frames,
		Generation: c.gen,
	}
	if c.pending {
		s.PendingFrames = 1
	}
	return s
}

// Click hit-tests (x, y) against the current positions. A hit on the action
// bubble sends its target to the opener exactly once. The returned bool is
// false when nothing was hit.
func (c *Component) Click(ctx context.Context, x, y float64) (bubbles.Item, bool, error) {
	c.mu.Lock()
	it, ok := c.engine.HitTest(bubbles.Vec{X: x, Y: y})
	var target string
	var err error
	if ok {
		target, err = c.engine.Activate(it.ID)
	}
	c.mu.Unlock()

	if !ok {
		return bubbles.Item{}, false, nil
	}
	if errors.Is(err, errors.ErrCodeNoAction) {
		return it, true, nil
	}
	if err != nil {
		return it, true, err
	}
	err = c.opener.Open(ctx, target)
	observability.Component().OnAction(ctx, target, err)
	if err != nil {
		c.logger.Warn("open action target", "target", target, "err", err)
		return it, true, err
	}
	c.logger.Debug("opened action target", "target", target)
	return it, true, nil
}

func (c *Component) enqueue(gen uint64, ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen || c.host == nil {
		return
	}
	c.queue = append(c.queue, ev)
}

func (c *Component) scheduleLocked() {
	if c.engine.Len() == 0 {
		return
	}
	gen := c.gen
	c.frameID = c.sched.RequestFrame(func(now time.Time) { c.tick(gen, now) })
	c.pending = true
}

func (c *Component) tick(gen uint64, now time.Time) {
	c.mu.Lock()
	if gen != c.gen || c.host == nil {
		c.mu.Unlock()
		return
	}
	c.pending = false

	dt := DefaultFrameInterval
	if !c.last.IsZero() {
		dt = now.Sub(c.last)
	}
	c.last = now

	c.applyEventsLocked()
	c.engine.Step(dt)
	c.frames++
	f := c.engine.Frame()
	c.snapshot.Store(&f)
	c.scheduleLocked()
	c.mu.Unlock()

	if c.onFrame != nil {
		c.onFrame(f)
	}
}

func (c *Component) applyEventsLocked() {
	for _, ev := range c.queue {
		switch ev.Kind {
		case PointerMove:
			c.engine.SetPointer(bubbles.Vec{X: ev.X, Y: ev.Y})
		case PointerLeave:
			c.engine.ClearPointer()
		case Resize:
			c.resizeLocked(ev.Width, ev.Height)
		}
	}
	c.queue = c.queue[:0]
}

// resizeLocked rebuilds the engine for new canvas dimensions in place. The
// frame loop keeps running; only its engine changes.
func (c *Component) resizeLocked(w, h float64) {
	if w == c.cfg.Width && h == c.cfg.Height {
		return
	}
	cfg := c.cfg
	cfg.Width, cfg.Height = w, h
	e, err := bubbles.New(cfg)
	if err != nil {
		c.logger.Warn("ignoring resize", "width", w, "height", h, "err", err)
		return
	}
	c.cfg, c.engine = cfg, e
	c.logger.Debug("resized", "width", w, "height", h)
}

func (c *Component) publish() {
	c.mu.Lock()
	f := c.engine.Frame()
	c.mu.Unlock()
	c.snapshot.Store(&f)
}
