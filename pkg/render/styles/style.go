package styles

import (
	"bytes"
	"strings"

	"github.com/drpeachy/tagbubbles/pkg/errors"
)

// Style defines the visual appearance of a bubble canvas.
// Implementations control how the background, proximity lines, and bubbles
// are drawn. Element ids are fixed by [BubbleID] and [LineID] so a live
// script can address nodes regardless of style. Every id a style writes or
// references goes through [Scoped] so several canvases can share a page.
type Style interface {
	// Name is the identifier used on the command line and in config files.
	Name() string
	// RenderDefs writes SVG <defs> content (filters, gradients, masks).
	RenderDefs(buf *bytes.Buffer, c Canvas)
	// RenderBackground writes the canvas background and texture overlay.
	RenderBackground(buf *bytes.Buffer, c Canvas)
	// RenderLine writes one proximity line.
	RenderLine(buf *bytes.Buffer, l Line)
	// BeginItems and EndItems bracket the ordinary bubbles. The action
	// bubble is rendered after EndItems so it stays on top and clickable.
	BeginItems(buf *bytes.Buffer, c Canvas)
	EndItems(buf *bytes.Buffer, c Canvas)
	// RenderBubble writes one bubble group: circle plus centered label.
	RenderBubble(buf *bytes.Buffer, b Bubble)
}

// Canvas describes the drawing surface.
type Canvas struct {
	W, H       float64
	Background string // optional fill behind everything
	Texture    string // optional overlay image href (data: URI or URL)
	Scope      string // id prefix from [ScopeID]; empty leaves ids bare
}

// ID returns name scoped to the canvas.
func (c Canvas) ID(name string) string { return Scoped(c.Scope, name) }

// Bubble contains all data needed to render a single bubble.
type Bubble struct {
	ID       int
	Label    string  // full label, used for the accessible title
	Text     string  // truncated display text
	CX, CY   float64 // center
	R        float64 // base radius; Scale is applied by transform
	Scale    float64
	Rotation float64 // degrees about the center
	Opacity  float64
	Color    string
	FontSize float64
	URL      string // set only for the action bubble
	Action   bool
	Scope    string
}

// Line contains positioning data for one proximity line.
type Line struct {
	FromID, ToID   int
	X1, Y1, X2, Y2 float64
	Opacity        float64
	Scope          string
}

// Names lists the built-in styles.
func Names() []string { return []string{"simple", "goo"} }

// Lookup returns the built-in style with the given name.
func Lookup(name string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "simple":
		return Simple{}, nil
	case "goo":
		return Goo{}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidStyle, "unknown style %q (must be one of: %s)", name, strings.Join(Names(), ", "))
	}
}
