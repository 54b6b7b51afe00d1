package animate

import (
	"slices"
	"sync"
)

// EventKind identifies the host events a component listens to.
type EventKind int

const (
	PointerMove EventKind = iota
	PointerLeave
	Resize
)

func (k EventKind) String() string {
	switch k {
	case PointerMove:
		return "pointermove"
	case PointerLeave:
		return "pointerleave"
	case Resize:
		return "resize"
	default:
		return "unknown"
	}
}

// Event is a host event. Pointer coordinates are container-local; Width and
// Height are set for Resize.
type Event struct {
	Kind          EventKind
	X, Y          float64
	Width, Height float64
}

// Listener receives host events.
type Listener func(Event)

// ListenerID identifies a registered listener.
type ListenerID uint64

// Host is the element a component is mounted on.
type Host interface {
	AddListener(kind EventKind, fn Listener) ListenerID
	RemoveListener(id ListenerID)
}

type registration struct {
	id   ListenerID
	kind EventKind
	fn   Listener
}

// EventHost is an in-process host. Callers feed it events in their own
// coordinate space; pointer events are translated by the origin so
// listeners always see container-local positions.
type EventHost struct {
	mu        sync.RWMutex
	next      ListenerID
	listeners []registration
	originX   float64
	originY   float64
}

// NewEventHost returns a host with its origin at (0, 0).
func NewEventHost() *EventHost {
	return &EventHost{}
}

// SetOrigin sets the top-left corner of the container in caller coordinates.
func (h *EventHost) SetOrigin(x, y float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.originX, h.originY = x, y
}

// AddListener registers fn for kind.
func (h *EventHost) AddListener(kind EventKind, fn Listener) ListenerID {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	h.listeners = append(h.listeners, registration{id: h.next, kind: kind, fn: fn})
	return h.next
}

// RemoveListener unregisters id. Unknown ids are ignored.
func (h *EventHost) RemoveListener(id ListenerID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = slices.DeleteFunc(h.listeners, func(r registration) bool { return r.id == id })
}

// Listeners returns the number of registered listeners.
func (h *EventHost) Listeners() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}

// Dispatch delivers ev to every listener registered for its kind. Listeners
// run on the caller's goroutine, outside the host lock.
func (h *EventHost) Dispatch(ev Event) {
	h.mu.RLock()
	if ev.Kind == PointerMove {
		ev.X -= h.originX
		ev.Y -= h.originY
	}
	var targets []Listener
	for _, r := range h.listeners {
		if r.kind == ev.Kind {
			targets = append(targets, r.fn)
		}
	}
	h.mu.RUnlock()

	for _, fn := range targets {
		fn(ev)
	}
}
