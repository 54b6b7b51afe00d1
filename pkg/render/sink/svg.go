package sink

import (
	"bytes"
	"fmt"

	"github.com/drpeachy/tagbubbles/pkg/bubbles"
	"github.com/drpeachy/tagbubbles/pkg/render/styles"
)

const bubbleCSS = `
    .bubble, .blob { transition: opacity 0.2s ease; }
    .action { cursor: pointer; }
    svg { user-select: none; }`

// liveJS moves existing nodes from an SSE frame stream. Nodes are addressed
// by id under the canvas scope prefix; lines are created and removed as
// pairs enter and leave range.
const liveJS = `
    (function () {
      var pre = %q;
      var svg = document.currentScript ? document.currentScript.closest('svg') : document.querySelector('svg');
      var root = svg || document;
      var ns = 'http://www.w3.org/2000/svg';
      var lines = root.querySelector('#' + pre + 'lines');
      var src = new EventSource(%q);
      src.addEventListener('frame', function (ev) {
        var f = JSON.parse(ev.data);
        f.items.forEach(function (it) {
          var g = root.querySelector('#' + pre + it.node);
          if (!g) return;
          g.setAttribute('transform', 'translate(' + it.x.toFixed(2) + ' ' + it.y.toFixed(2) + ') rotate(' + (it.rotation || 0).toFixed(2) + ') scale(' + (it.scale * it.pulse).toFixed(3) + ')');
          g.setAttribute('opacity', it.opacity.toFixed(3));
        });
        if (!lines) return;
        var keep = {};
        (f.lines || []).forEach(function (l) {
          var id = pre + 'line-' + l.from + '-' + l.to;
          keep[id] = true;
          var el = root.querySelector('#' + id);
          if (!el) {
            el = document.createElementNS(ns, 'line');
            el.setAttribute('id', id);
            el.setAttribute('stroke', '#ffffff');
            el.setAttribute('stroke-width', '1');
            lines.appendChild(el);
          }
          el.setAttribute('x1', l.x1); el.setAttribute('y1', l.y1);
          el.setAttribute('x2', l.x2); el.setAttribute('y2', l.y2);
          el.setAttribute('stroke-opacity', l.opacity.toFixed(3));
        });
        Array.prototype.slice.call(lines.children).forEach(function (el) {
          if (!keep[el.id]) el.remove();
        });
      });
      if (!svg || !%q) return;
      var post = function (method, body) {
        fetch(%q, { method: method, headers: { 'Content-Type': 'application/json' }, body: body });
      };
      svg.addEventListener('pointermove', function (ev) {
        var r = svg.getBoundingClientRect();
        post('POST', JSON.stringify({ x: ev.clientX - r.left, y: ev.clientY - r.top }));
      });
      svg.addEventListener('pointerleave', function () { post('DELETE'); });
    })();`

// SVGOption configures RenderSVG.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style      styles.Style
	showLines  bool
	background string
	texture    string
	scope      string
	streamURL  string
	pointerURL string
}

// WithStyle sets the visual style. The default is [styles.Simple].
func WithStyle(s styles.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }

// WithoutLines omits the proximity lines.
func WithoutLines() SVGOption { return func(r *svgRenderer) { r.showLines = false } }

// WithBackground fills the canvas with color behind everything else.
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

// WithTexture overlays the image at href, a data: URI or URL.
func WithTexture(href string) SVGOption { return func(r *svgRenderer) { r.texture = href } }

// WithInstanceID prefixes every element id and every reference to one with
// id, as cleaned by [styles.ScopeID], so several canvases can share a page
// without their filters, masks and bubble nodes colliding.
func WithInstanceID(id string) SVGOption {
	return func(r *svgRenderer) { r.scope = styles.ScopeID(id) }
}

// WithLive embeds a script that follows the SSE stream at streamURL and,
// when pointerURL is set, reports pointer movement back to it.
func WithLive(streamURL, pointerURL string) SVGOption {
	return func(r *svgRenderer) { r.streamURL, r.pointerURL = streamURL, pointerURL }
}

// RenderSVG draws f. Lines sit beneath the bubbles and the action bubble is
// drawn last.
func RenderSVG(f bubbles.Frame, opts ...SVGOption) []byte {
	r := svgRenderer{style: styles.Simple{}, showLines: true}
	for _, opt := range opts {
		opt(&r)
	}
	c := styles.Canvas{W: f.Width, H: f.Height, Background: r.background, Texture: r.texture, Scope: r.scope}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" version="1.1" viewBox="0 0 %.0f %.0f" width="%.0f" height="%.0f">`+"\n",
		f.Width, f.Height, f.Width, f.Height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", bubbleCSS)

	r.style.RenderDefs(&buf, c)
	r.style.RenderBackground(&buf, c)

	if r.showLines {
		fmt.Fprintf(&buf, `  <g id="%s">`+"\n", c.ID("lines"))
		for _, l := range f.Lines {
			sl := styles.FromLine(l)
			sl.Scope = c.Scope
			r.style.RenderLine(&buf, sl)
		}
		buf.WriteString("  </g>\n")
	}

	r.style.BeginItems(&buf, c)
	for _, it := range f.Items {
		if !it.Action {
			r.style.RenderBubble(&buf, scopedBubble(it, c))
		}
	}
	r.style.EndItems(&buf, c)

	if act, ok := f.Action(); ok {
		fmt.Fprintf(&buf, `  <g id="%s">`+"\n", c.ID("action"))
		r.style.RenderBubble(&buf, scopedBubble(act, c))
		buf.WriteString("  </g>\n")
	}

	if r.streamURL != "" {
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n",
			fmt.Sprintf(liveJS, c.ID(""), r.streamURL, r.pointerURL, r.pointerURL))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func scopedBubble(it bubbles.Item, c styles.Canvas) styles.Bubble {
	b := styles.FromItem(it)
	b.Scope = c.Scope
	return b
}
