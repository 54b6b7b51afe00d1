package bubbles

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/drpeachy/tagbubbles/pkg/errors"
)

const (
	frameRate = 60.0
	// maxStepScale bounds the integration step after a long stall (tab in
	// background, debugger pause) so one late frame cannot fling items out.
	maxStepScale = 4.0
)

// Engine owns the simulation state for one canvas.
type Engine struct {
	width, height float64
	params        Params
	rng           *rand.Rand

	items []Item
	lines []Line
	acc   []Vec

	elapsed    float64
	steps      uint64
	pointer    Vec
	hasPointer bool
}

// New validates cfg and builds the initial item set. Zero labels without an
// action produce an empty engine; Step is then a no-op apart from the clock.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		width:  cfg.Width,
		height: cfg.Height,
		params: cfg.params(),
		rng:    newRand(cfg),
	}
	e.build(cfg)
	return e, nil
}

func newRand(cfg Config) *rand.Rand {
	if cfg.Rand != nil {
		return cfg.Rand
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

func (e *Engine) build(cfg Config) {
	p := e.params
	n := len(cfg.Labels)
	total := n
	if cfg.HasAction() {
		total++
	}
	if total == 0 {
		return
	}

	radii := make([]float64, 0, total)
	for _, l := range cfg.Labels {
		radii = append(radii, Radius(l, p))
	}
	if cfg.HasAction() {
		radii = append(radii, Radius(cfg.ActionLabel, p))
	}

	var pos []Vec
	if cfg.Placement == PlacementGrid || cfg.HasAction() {
		pos = placeGrid(e.rng, e.width, e.height, total, p.GridJitter)
		if cfg.HasAction() {
			c := closestTo(pos, e.center())
			pos[c], pos[total-1] = pos[total-1], pos[c]
		}
	} else {
		pos = placeRandom(e.rng, e.width, e.height, radii, p)
	}

	stagger := p.EntranceStagger.Seconds()
	e.items = make([]Item, 0, total)
	for i, l := range cfg.Labels {
		e.items = append(e.items, e.newItem(i, l, radii[i], pos[i], cfg.Palette, float64(i)*stagger))
	}
	if cfg.HasAction() {
		it := e.newItem(ActionID, cfg.ActionLabel, radii[n], pos[n], cfg.Palette, float64(n)*stagger)
		it.Action = true
		it.Target = cfg.ActionTarget
		e.items = append(e.items, it)
	}
	e.acc = make([]Vec, len(e.items))
}

func (e *Engine) newItem(id int, label string, r float64, pos Vec, palette []string, enterAt float64) Item {
	p := e.params
	speed := p.InitialSpeed
	return Item{
		ID:      id,
		Label:   label,
		Text:    TruncateLabel(label, r),
		Pos:     pos,
		Vel:     Vec{speed * (2*e.rng.Float64() - 1), speed * (2*e.rng.Float64() - 1)},
		Radius:  r,
		Color:   palette[e.rng.IntN(len(palette))],
		Phase:   e.rng.Float64() * 2 * math.Pi,
		Pulse:   1,
		enterAt: enterAt,

		Spin:       p.SpinAngle * (2*e.rng.Float64() - 1),
		SpinPeriod: randIn(e.rng, p.SpinPeriodMin.Seconds(), p.SpinPeriodMax.Seconds()),
	}
}

// Width returns the canvas width.
func (e *Engine) Width() float64 { return e.width }

// Height returns the canvas height.
func (e *Engine) Height() float64 { return e.height }

// Len returns the number of simulated items, action bubble included.
func (e *Engine) Len() int { return len(e.items) }

// Params returns the constants the engine runs with.
func (e *Engine) Params() Params { return e.params }

// SetPointer enables attraction toward p (canvas-local coordinates).
// Non-finite positions clear the pointer instead.
func (e *Engine) SetPointer(p Vec) {
	if !p.finite() {
		e.ClearPointer()
		return
	}
	e.pointer, e.hasPointer = p, true
}

// ClearPointer disables attraction.
func (e *Engine) ClearPointer() {
	e.pointer, e.hasPointer = Vec{}, false
}

// Pointer returns the current pointer, if any.
func (e *Engine) Pointer() (Vec, bool) {
	return e.pointer, e.hasPointer
}

// Step advances the simulation by dt. Non-positive dt counts as one frame.
func (e *Engine) Step(dt time.Duration) {
	secs := dt.Seconds()
	if secs <= 0 {
		secs = 1 / frameRate
	}
	e.elapsed += secs
	e.steps++
	if len(e.items) == 0 {
		return
	}

	scale := 1.0
	if e.params.TimeScaled {
		scale = min(secs*frameRate, maxStepScale)
	}

	clear(e.acc)
	e.applyDrift()
	e.applyBoundary()
	e.applyCentering()
	e.applyPointer()
	e.applyRepulsion()
	e.integrate(scale)
	e.computeLines()
	e.updateTransforms()
}

func (e *Engine) applyDrift() {
	p := e.params
	t := e.elapsed * p.DriftFrequency
	for i, it := range e.items {
		e.acc[i].X += p.DriftAmplitude * math.Cos(t+it.Phase)
		e.acc[i].Y += p.DriftAmplitude * math.Sin(t*0.8+it.Phase)
	}
}

// applyBoundary pushes items inward in proportion to how far they reach
// into the radius+margin band along each edge. The push keeps growing past
// the edge, so there is no hard clamp and no hard wall.
func (e *Engine) applyBoundary() {
	p := e.params
	for i, it := range e.items {
		zone := it.Radius + p.BoundaryMargin
		if zone <= 0 {
			continue
		}
		if it.Pos.X < zone {
			e.acc[i].X += p.BoundaryForce * (zone - it.Pos.X) / zone
		}
		if it.Pos.X > e.width-zone {
			e.acc[i].X -= p.BoundaryForce * (it.Pos.X - (e.width - zone)) / zone
		}
		if it.Pos.Y < zone {
			e.acc[i].Y += p.BoundaryForce * (zone - it.Pos.Y) / zone
		}
		if it.Pos.Y > e.height-zone {
			e.acc[i].Y -= p.BoundaryForce * (it.Pos.Y - (e.height - zone)) / zone
		}
	}
}

func (e *Engine) applyCentering() {
	c := e.center()
	for i, it := range e.items {
		if it.Action {
			e.acc[i] = e.acc[i].Add(c.Sub(it.Pos).Scale(e.params.CenterSpring))
		}
	}
}

func (e *Engine) applyPointer() {
	if !e.hasPointer {
		return
	}
	p := e.params
	if p.AttractionRadius <= 0 {
		return
	}
	for i, it := range e.items {
		delta := e.pointer.Sub(it.Pos)
		d := delta.Len()
		if d >= p.AttractionRadius || d < 1e-9 {
			continue
		}
		strength := (p.AttractionRadius - d) / p.AttractionRadius * p.AttractionForce
		e.acc[i] = e.acc[i].Add(delta.Scale(strength / d))
	}
}

func (e *Engine) applyRepulsion() {
	p := e.params
	for i := range e.items {
		for j := i + 1; j < len(e.items); j++ {
			a, b := &e.items[i], &e.items[j]
			limit := a.Radius + b.Radius + p.RepulsionGap
			delta := b.Pos.Sub(a.Pos)
			d := delta.Len()
			if d >= limit || limit <= 0 {
				continue
			}
			var dir Vec
			if d < 1e-6 {
				// Coincident centers: split along a fixed per-pair angle.
				ang := float64(i*7 + j*13)
				dir = Vec{math.Cos(ang), math.Sin(ang)}
			} else {
				dir = delta.Scale(1 / d)
			}
			f := dir.Scale(p.RepulsionForce * (limit - d) / limit)
			e.acc[i] = e.acc[i].Sub(f)
			e.acc[j] = e.acc[j].Add(f)
		}
	}
}

func (e *Engine) integrate(scale float64) {
	damping := math.Pow(e.params.Damping, scale)
	for i := range e.items {
		it := &e.items[i]
		vel := it.Vel.Add(e.acc[i].Scale(scale)).Scale(damping)
		pos := it.Pos.Add(vel.Scale(scale))
		if !vel.finite() || !pos.finite() {
			vel = Vec{}
			pos = Vec{clamp(it.Pos.X, 0, e.width), clamp(it.Pos.Y, 0, e.height)}
			if !pos.finite() {
				pos = e.center()
			}
		}
		it.Vel, it.Pos = vel, pos
	}
}

func (e *Engine) computeLines() {
	e.lines = e.lines[:0]
	p := e.params
	if p.LineThreshold <= 0 || p.LineMaxOpacity <= 0 {
		return
	}
	for i := range e.items {
		a := e.items[i]
		if a.Action {
			continue
		}
		for j := i + 1; j < len(e.items); j++ {
			b := e.items[j]
			if b.Action {
				continue
			}
			d := a.Pos.Dist(b.Pos)
			if d >= p.LineThreshold {
				continue
			}
			e.lines = append(e.lines, Line{
				From:    a.ID,
				To:      b.ID,
				A:       a.Pos,
				B:       b.Pos,
				Opacity: min(p.LineMaxOpacity, (p.LineThreshold-d)/p.LineThreshold),
			})
		}
	}
}

func (e *Engine) updateTransforms() {
	p := e.params
	for i := range e.items {
		it := &e.items[i]
		v := entrance(e.elapsed-it.enterAt, p.EntranceDuration.Seconds())
		it.Opacity, it.Scale = v, v
		it.Rotation = rotation(e.elapsed, it.Spin, it.SpinPeriod)
		if it.Action {
			it.Pulse = 1 + p.PulseAmplitude*math.Sin(e.elapsed*p.PulseFrequency)
		}
	}
}

// entrance is a cubic ease-out over duration seconds starting at t=0.
func entrance(t, duration float64) float64 {
	if t <= 0 {
		return 0
	}
	if duration <= 0 || t >= duration {
		return 1
	}
	x := 1 - t/duration
	return 1 - x*x*x
}

// rotation is a sine-in-out tween from 0 to target over period seconds that
// plays back to 0 over the next period and repeats.
func rotation(t, target, period float64) float64 {
	if t <= 0 || period <= 0 || target == 0 {
		return 0
	}
	p := math.Mod(t, 2*period) / period
	if p > 1 {
		p = 2 - p
	}
	return target * (1 - math.Cos(math.Pi*p)) / 2
}

func (e *Engine) center() Vec {
	return Vec{e.width / 2, e.height / 2}
}

// Frame returns a snapshot of the current state. The snapshot shares no
// memory with the engine.
func (e *Engine) Frame() Frame {
	f := Frame{
		Width:   e.width,
		Height:  e.height,
		Elapsed: e.elapsed,
		Step:    e.steps,
		Items:   append([]Item(nil), e.items...),
		Lines:   append([]Line(nil), e.lines...),
	}
	if e.hasPointer {
		p := e.pointer
		f.Pointer = &p
	}
	return f
}

// HitTest returns the topmost item whose drawn circle contains p. The action
// bubble is drawn last and therefore wins ties.
func (e *Engine) HitTest(p Vec) (Item, bool) {
	for i := len(e.items) - 1; i >= 0; i-- {
		it := e.items[i]
		if it.Pos.Dist(p) <= it.VisualRadius() {
			return it, true
		}
	}
	return Item{}, false
}

// Activate returns the target URI of the item with the given id. Only the
// action bubble has one; ordinary items report ErrCodeNoAction so callers
// can attach their own behavior.
func (e *Engine) Activate(id int) (string, error) {
	for _, it := range e.items {
		if it.ID != id {
			continue
		}
		if !it.Action {
			return "", errors.New(errors.ErrCodeNoAction, "item %d (%q) has no action", id, it.Label)
		}
		return it.Target, nil
	}
	return "", errors.New(errors.ErrCodeNotFound, "no item with id %d", id)
}
