package styles

import (
	"bytes"
	"fmt"
)

// Goo blurs neighbouring bubbles into each other and paints them through a
// gradient: bubbles are drawn into a mask, and a full-canvas rect filled with
// the gradient shows through it.
type Goo struct{}

const (
	gooFilterID   = "goo"
	gooGradientID = "bubble-gradient"
	gooMaskID     = "bubble-mask"
)

// GooGradient holds the gradient stops as offset and color pairs.
var GooGradient = []struct {
	Offset string
	Color  string
}{
	{"5%", "#40204c"},
	{"40%", "#a3225c"},
	{"100%", "#e24926"},
}

func (Goo) Name() string { return "goo" }

func (Goo) RenderDefs(buf *bytes.Buffer, c Canvas) {
	buf.WriteString("  <defs>\n")
	fmt.Fprintf(buf, `    <filter id="%s">`+"\n", c.ID(gooFilterID))
	buf.WriteString(`      <feGaussianBlur in="SourceGraphic" result="blur" stdDeviation="10"/>` + "\n")
	buf.WriteString(`      <feColorMatrix in="blur" mode="matrix" values="1 0 0 0 0  0 1 0 0 0  0 0 1 0 0  0 0 0 18 -7" result="goo"/>` + "\n")
	buf.WriteString(`      <feBlend in2="goo" in="SourceGraphic" result="mix"/>` + "\n")
	buf.WriteString("    </filter>\n")
	fmt.Fprintf(buf, `    <linearGradient id="%s">`+"\n", c.ID(gooGradientID))
	for _, s := range GooGradient {
		fmt.Fprintf(buf, `      <stop offset="%s" stop-color="%s"/>`+"\n", s.Offset, s.Color)
	}
	buf.WriteString("    </linearGradient>\n")
	buf.WriteString("  </defs>\n")
}

func (Goo) RenderBackground(buf *bytes.Buffer, c Canvas) {
	Simple{}.RenderBackground(buf, c)
}

func (Goo) RenderLine(buf *bytes.Buffer, l Line) {
	Simple{}.RenderLine(buf, l)
}

func (Goo) BeginItems(buf *bytes.Buffer, c Canvas) {
	fmt.Fprintf(buf, `  <mask id="%s">`+"\n", c.ID(gooMaskID))
	fmt.Fprintf(buf, `  <g id="%s" class="blobs" filter="url(#%s)">`+"\n", c.ID("bubbles"), c.ID(gooFilterID))
}

func (Goo) EndItems(buf *bytes.Buffer, c Canvas) {
	buf.WriteString("  </g>\n  </mask>\n")
	fmt.Fprintf(buf, `  <rect x="0" y="0" width="%.0f" height="%.0f" mask="url(#%s)" fill="url(#%s)"/>`+"\n",
		c.W, c.H, c.ID(gooMaskID), c.ID(gooGradientID))
}

// RenderBubble draws ordinary bubbles as mask shapes. The action bubble sits
// outside the mask, so it is painted with the gradient directly.
func (Goo) RenderBubble(buf *bytes.Buffer, b Bubble) {
	if !b.Action {
		openGroup(buf, b, "blob")
		fmt.Fprintf(buf, `<circle class="blob" cx="0" cy="0" r="%.2f" fill="%s"/>`, b.R, EscapeXML(b.Color))
		renderLabel(buf, b, "#ffffff")
		buf.WriteString("</g>\n")
		return
	}
	WrapURL(buf, b.URL, func() {
		openGroup(buf, b, "bubble action")
		fmt.Fprintf(buf, `<circle cx="0" cy="0" r="%.2f" fill="url(#%s)" filter="url(#%s)"/>`,
			b.R, Scoped(b.Scope, gooGradientID), Scoped(b.Scope, gooFilterID))
		renderLabel(buf, b, "#ffffff")
		buf.WriteString("</g>")
	})
	buf.WriteString("\n")
}
