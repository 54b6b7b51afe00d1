package bubbles

// ActionID is the identifier of the action bubble. Ordinary items use their
// label index.
const ActionID = -1

// Item is one bubble. Inside the engine it is live simulation state; in a
// [Frame] it is an immutable copy.
type Item struct {
	ID     int
	Label  string
	Text   string // Label truncated to the radius character budget
	Pos    Vec
	Vel    Vec
	Radius float64
	Color  string
	Phase  float64

	// Entrance transition, 0 → 1.
	Opacity float64
	Scale   float64

	// Pulse is the action bubble's breathing scale; 1 for ordinary items.
	Pulse float64

	// Rotation is the current angle in degrees about the center. It eases
	// from 0 to Spin over SpinPeriod seconds, then back, forever.
	Rotation   float64
	Spin       float64
	SpinPeriod float64

	Action bool
	Target string

	enterAt float64 // seconds after build when the entrance starts
}

// VisualRadius is the radius as drawn this frame.
func (it Item) VisualRadius() float64 {
	return it.Radius * it.Scale * it.Pulse
}

// FontSize is the label font size for this item.
func (it Item) FontSize() float64 {
	return FontSize(it.Radius)
}

// Line is a proximity line between two ordinary items.
type Line struct {
	From, To int
	A, B     Vec
	Opacity  float64
}

// Frame is a snapshot of the simulation suitable for rendering.
type Frame struct {
	Width   float64
	Height  float64
	Elapsed float64 // seconds of simulated time
	Step    uint64
	Items   []Item
	Lines   []Line
	Pointer *Vec
}

// Item returns the item with the given id.
func (f Frame) Item(id int) (Item, bool) {
	for _, it := range f.Items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Action returns the action item, if the frame has one.
func (f Frame) Action() (Item, bool) {
	return f.Item(ActionID)
}
