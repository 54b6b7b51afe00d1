package styles

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"unicode"

	"github.com/drpeachy/tagbubbles/pkg/bubbles"
)

// LineColor is the stroke color of proximity lines in every style.
const LineColor = "#ffffff"

// EscapeXML escapes s for use in SVG text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// BubbleID is the element id of a bubble group.
func BubbleID(id int) string {
	if id == bubbles.ActionID {
		return "bubble-action"
	}
	return fmt.Sprintf("bubble-%d", id)
}

// LineID is the element id of the line joining two bubbles.
func LineID(from, to int) string {
	return fmt.Sprintf("line-%d-%d", from, to)
}

// ScopeID turns an instance id into an id prefix that is a valid XML name
// and CSS identifier. Runes outside [A-Za-z0-9_-] become '-', and a prefix
// that would not start with a letter gets "tags-" in front, so index 3
// scopes ids as "tags-3-goo".
func ScopeID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return ""
	}
	scope := strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-') {
			return r
		}
		return '-'
	}, id)
	if c := scope[0]; !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
		scope = "tags-" + scope
	}
	return scope
}

// Scoped prefixes id with scope.
func Scoped(scope, id string) string {
	if scope == "" {
		return id
	}
	return scope + "-" + id
}

// WrapURL wraps fn's output in a link that opens in a new browsing context.
func WrapURL(buf *bytes.Buffer, url string, fn func()) {
	if url != "" {
		fmt.Fprintf(buf, `  <a href="%s" target="_blank" rel="noopener">`, EscapeXML(url))
	}
	fn()
	if url != "" {
		buf.WriteString("</a>")
	}
}

// Transform is the group transform placing a bubble at its center. The
// rotation is omitted when zero.
func Transform(b Bubble) string {
	if b.Rotation == 0 {
		return fmt.Sprintf("translate(%.2f %.2f) scale(%.3f)", b.CX, b.CY, b.Scale)
	}
	return fmt.Sprintf("translate(%.2f %.2f) rotate(%.2f) scale(%.3f)", b.CX, b.CY, b.Rotation, b.Scale)
}

func openGroup(buf *bytes.Buffer, b Bubble, class string) {
	fmt.Fprintf(buf, `  <g id="%s" class="%s" transform="%s" opacity="%.3f">`,
		Scoped(b.Scope, BubbleID(b.ID)), class, Transform(b), b.Opacity)
	fmt.Fprintf(buf, `<title>%s</title>`, EscapeXML(b.Label))
}

func renderLabel(buf *bytes.Buffer, b Bubble, fill string) {
	fmt.Fprintf(buf, `<text x="0" y="0" text-anchor="middle" dominant-baseline="central" font-family="sans-serif" font-size="%.1f" fill="%s" pointer-events="none">%s</text>`,
		b.FontSize, fill, EscapeXML(b.Text))
}

func renderTexture(buf *bytes.Buffer, c Canvas) {
	if c.Texture == "" {
		return
	}
	fmt.Fprintf(buf, `  <image id="%s" href="%s" x="0" y="0" width="%.0f" height="%.0f" preserveAspectRatio="xMidYMid slice" opacity="0.25" pointer-events="none"/>`+"\n",
		c.ID("texture"), EscapeXML(c.Texture), c.W, c.H)
}

// FromItem converts an engine item to the renderer's view of it.
func FromItem(it bubbles.Item) Bubble {
	return Bubble{
		ID:       it.ID,
		Label:    it.Label,
		Text:     it.Text,
		CX:       it.Pos.X,
		CY:       it.Pos.Y,
		R:        it.Radius,
		Scale:    it.Scale * it.Pulse,
		Rotation: it.Rotation,
		Opacity:  it.Opacity,
		Color:    it.Color,
		FontSize: it.FontSize(),
		URL:      it.Target,
		Action:   it.Action,
	}
}

// FromLine converts an engine proximity line.
func FromLine(l bubbles.Line) Line {
	return Line{
		FromID:  l.From,
		ToID:    l.To,
		X1:      l.A.X,
		Y1:      l.A.Y,
		X2:      l.B.X,
		Y2:      l.B.Y,
		Opacity: l.Opacity,
	}
}
