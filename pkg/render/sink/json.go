package sink

import (
	"encoding/json"
	"fmt"

	"github.com/drpeachy/tagbubbles/pkg/bubbles"
	"github.com/drpeachy/tagbubbles/pkg/render/styles"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	showcase string
	style    string
	seed     uint64
	indent   bool
}

// WithJSONShowcase records the showcase name in the output.
func WithJSONShowcase(name string) JSONOption { return func(r *jsonRenderer) { r.showcase = name } }

// WithJSONStyle records the style name (e.g., "simple", "goo") so the frame
// can be re-rendered identically.
func WithJSONStyle(s string) JSONOption { return func(r *jsonRenderer) { r.style = s } }

// WithJSONSeed records the seed the frame was simulated with.
func WithJSONSeed(seed uint64) JSONOption { return func(r *jsonRenderer) { r.seed = seed } }

// WithJSONIndent pretty-prints the output. The live stream leaves it off so
// each frame fits on one SSE data line.
func WithJSONIndent() JSONOption { return func(r *jsonRenderer) { r.indent = true } }

// FrameJSON is the serialized form of a frame.
type FrameJSON struct {
	Showcase string     `json:"showcase,omitempty"`
	Style    string     `json:"style,omitempty"`
	Seed     uint64     `json:"seed,omitempty"`
	Width    float64    `json:"width"`
	Height   float64    `json:"height"`
	Elapsed  float64    `json:"elapsed"`
	Step     uint64     `json:"step"`
	Items    []ItemJSON `json:"items"`
	Lines    []LineJSON `json:"lines,omitempty"`
	Pointer  *PointJSON `json:"pointer,omitempty"`
}

type ItemJSON struct {
	ID       int     `json:"id"`
	Node     string  `json:"node"`
	Label    string  `json:"label"`
	Text     string  `json:"text"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Radius   float64 `json:"r"`
	Color    string  `json:"color"`
	Opacity  float64 `json:"opacity"`
	Scale    float64 `json:"scale"`
	Pulse    float64 `json:"pulse"`
	Rotation float64 `json:"rotation"`
	FontSize float64 `json:"font_size"`
	Action   bool    `json:"action,omitempty"`
	Target   string  `json:"target,omitempty"`
}

type LineJSON struct {
	From    int     `json:"from"`
	To      int     `json:"to"`
	X1      float64 `json:"x1"`
	Y1      float64 `json:"y1"`
	X2      float64 `json:"x2"`
	Y2      float64 `json:"y2"`
	Opacity float64 `json:"opacity"`
}

type PointJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RenderJSON serializes f.
func RenderJSON(f bubbles.Frame, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	out := toJSON(f)
	out.Showcase, out.Style, out.Seed = r.showcase, r.style, r.seed
	if r.indent {
		return json.MarshalIndent(out, "", "  ")
	}
	return json.Marshal(out)
}

func toJSON(f bubbles.Frame) FrameJSON {
	out := FrameJSON{
		Width:   f.Width,
		Height:  f.Height,
		Elapsed: f.Elapsed,
		Step:    f.Step,
		Items:   make([]ItemJSON, 0, len(f.Items)),
	}
	for _, it := range f.Items {
		out.Items = append(out.Items, ItemJSON{
			ID:       it.ID,
			Node:     styles.BubbleID(it.ID),
			Label:    it.Label,
			Text:     it.Text,
			X:        it.Pos.X,
			Y:        it.Pos.Y,
			Radius:   it.Radius,
			Color:    it.Color,
			Opacity:  it.Opacity,
			Scale:    it.Scale,
			Pulse:    it.Pulse,
			Rotation: it.Rotation,
			FontSize: it.FontSize(),
			Action:   it.Action,
			Target:   it.Target,
		})
	}
	for _, l := range f.Lines {
		out.Lines = append(out.Lines, LineJSON{
			From:    l.From,
			To:      l.To,
			X1:      l.A.X,
			Y1:      l.A.Y,
			X2:      l.B.X,
			Y2:      l.B.Y,
			Opacity: l.Opacity,
		})
	}
	if f.Pointer != nil {
		out.Pointer = &PointJSON{X: f.Pointer.X, Y: f.Pointer.Y}
	}
	return out
}

// ReadJSON decodes a frame written by RenderJSON, so a saved frame can be
// re-rendered in another format.
func ReadJSON(data []byte) (bubbles.Frame, FrameJSON, error) {
	var in FrameJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return bubbles.Frame{}, in, fmt.Errorf("decode frame: %w", err)
	}
	f := bubbles.Frame{
		Width:   in.Width,
		Height:  in.Height,
		Elapsed: in.Elapsed,
		Step:    in.Step,
		Items:   make([]bubbles.Item, 0, len(in.Items)),
	}
	for _, it := range in.Items {
		f.Items = append(f.Items, bubbles.Item{
			ID:       it.ID,
			Label:    it.Label,
			Text:     it.Text,
			Pos:      bubbles.Vec{X: it.X, Y: it.Y},
			Radius:   it.Radius,
			Color:    it.Color,
			Opacity:  it.Opacity,
			Scale:    it.Scale,
			Pulse:    it.Pulse,
			Rotation: it.Rotation,
			Action:   it.Action,
			Target:   it.Target,
		})
	}
	for _, l := range in.Lines {
		f.Lines = append(f.Lines, bubbles.Line{
			From:    l.From,
			To:      l.To,
			A:       bubbles.Vec{X: l.X1, Y: l.Y1},
			B:       bubbles.Vec{X: l.X2, Y: l.Y2},
			Opacity: l.Opacity,
		})
	}
	if in.Pointer != nil {
		f.Pointer = &bubbles.Vec{X: in.Pointer.X, Y: in.Pointer.Y}
	}
	return f, in, nil
}
