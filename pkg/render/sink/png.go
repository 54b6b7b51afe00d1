package sink

import (
	"bytes"
	"fmt"
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"

	"github.com/drpeachy/tagbubbles/pkg/bubbles"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale      float64
	fontPath   string
	background string
	showLines  bool
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithFont loads labels from a TrueType/OpenType file. Without a font the
// PNG has circles and lines only.
func WithFont(path string) PNGOption {
	return func(r *pngRenderer) { r.fontPath = path }
}

// WithPNGBackground fills the canvas before drawing.
func WithPNGBackground(color string) PNGOption {
	return func(r *pngRenderer) { r.background = color }
}

// WithoutPNGLines omits proximity lines.
func WithoutPNGLines() PNGOption {
	return func(r *pngRenderer) { r.showLines = false }
}

// RenderPNG rasterizes f with gogpu/gg.
func RenderPNG(f bubbles.Frame, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0, showLines: true}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 || math.IsNaN(r.scale) || math.IsInf(r.scale, 0) {
		return nil, fmt.Errorf("invalid png scale %v", r.scale)
	}
	s := r.scale

	dc := gg.NewContext(int(math.Ceil(f.Width*s)), int(math.Ceil(f.Height*s)))
	defer func() { _ = dc.Close() }()

	if r.background != "" {
		c, a, err := ParseColor(r.background)
		if err != nil {
			return nil, err
		}
		dc.SetRGBA(c.R, c.G, c.B, a)
		dc.DrawRectangle(0, 0, f.Width*s, f.Height*s)
		if err := dc.Fill(); err != nil {
			return nil, fmt.Errorf("fill background: %w", err)
		}
	}

	if r.showLines {
		dc.SetLineWidth(s)
		for _, l := range f.Lines {
			dc.SetRGBA(1, 1, 1, l.Opacity)
			dc.DrawLine(l.A.X*s, l.A.Y*s, l.B.X*s, l.B.Y*s)
			if err := dc.Stroke(); err != nil {
				return nil, fmt.Errorf("stroke line %d-%d: %w", l.From, l.To, err)
			}
		}
	}

	// Ordinary bubbles first so the action bubble ends up on top.
	ordered := make([]bubbles.Item, 0, len(f.Items))
	for _, it := range f.Items {
		if !it.Action {
			ordered = append(ordered, it)
		}
	}
	if act, ok := f.Action(); ok {
		ordered = append(ordered, act)
	}

	for _, it := range ordered {
		c, a, err := ParseColor(it.Color)
		if err != nil {
			return nil, err
		}
		dc.SetRGBA(c.R, c.G, c.B, a*it.Opacity)
		dc.DrawCircle(it.Pos.X*s, it.Pos.Y*s, it.VisualRadius()*s)
		if err := dc.Fill(); err != nil {
			return nil, fmt.Errorf("fill bubble %d: %w", it.ID, err)
		}
	}

	if r.fontPath != "" {
		if err := drawLabels(dc, ordered, r.fontPath, s); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func drawLabels(dc *gg.Context, items []bubbles.Item, fontPath string, s float64) error {
	source, err := text.NewFontSourceFromFile(fontPath)
	if err != nil {
		return fmt.Errorf("load font %s: %w", fontPath, err)
	}
	defer func() { _ = source.Close() }()

	faces := make(map[float64]text.Face)
	for _, it := range items {
		if it.Opacity <= 0 {
			continue
		}
		size := it.FontSize() * it.Scale * it.Pulse * s
		if size <= 0 {
			continue
		}
		face, ok := faces[size]
		if !ok {
			face = source.Face(size)
			faces[size] = face
		}
		dc.SetFont(face)
		dc.SetRGBA(1, 1, 1, it.Opacity)
		x, y := it.Pos.X*s, it.Pos.Y*s
		// Circles are symmetric, so only the label shows the rotation.
		dc.Push()
		dc.RotateAbout(it.Rotation*math.Pi/180, x, y)
		dc.DrawStringAnchored(it.Text, x, y, 0.5, 0.5)
		dc.Pop()
	}
	return nil
}
