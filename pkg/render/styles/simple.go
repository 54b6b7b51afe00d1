package styles

import (
	"bytes"
	"fmt"
)

// Simple draws solid circles with white labels.
type Simple struct{}

func (Simple) Name() string { return "simple" }

func (Simple) RenderDefs(*bytes.Buffer, Canvas) {}

func (Simple) RenderBackground(buf *bytes.Buffer, c Canvas) {
	if c.Background != "" {
		fmt.Fprintf(buf, `  <rect id="%s" x="0" y="0" width="%.0f" height="%.0f" fill="%s"/>`+"\n",
			c.ID("background"), c.W, c.H, EscapeXML(c.Background))
	}
	renderTexture(buf, c)
}

func (Simple) RenderLine(buf *bytes.Buffer, l Line) {
	fmt.Fprintf(buf, `  <line id="%s" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="1" stroke-opacity="%.3f"/>`+"\n",
		Scoped(l.Scope, LineID(l.FromID, l.ToID)), l.X1, l.Y1, l.X2, l.Y2, LineColor, l.Opacity)
}

func (Simple) BeginItems(buf *bytes.Buffer, c Canvas) {
	fmt.Fprintf(buf, `  <g id="%s">`+"\n", c.ID("bubbles"))
}

func (Simple) EndItems(buf *bytes.Buffer, _ Canvas) {
	buf.WriteString("  </g>\n")
}

func (Simple) RenderBubble(buf *bytes.Buffer, b Bubble) {
	class := "bubble"
	if b.Action {
		class = "bubble action"
	}
	WrapURL(buf, b.URL, func() {
		openGroup(buf, b, class)
		fmt.Fprintf(buf, `<circle cx="0" cy="0" r="%.2f" fill="%s"/>`, b.R, EscapeXML(b.Color))
		renderLabel(buf, b, "#ffffff")
		buf.WriteString("</g>")
	})
	buf.WriteString("\n")
}
