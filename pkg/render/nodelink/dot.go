package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/drpeachy/tagbubbles/pkg/bubbles"
	"github.com/drpeachy/tagbubbles/pkg/render/styles"
)

// pointsPerInch converts canvas pixels to Graphviz inches.
const pointsPerInch = 72.0

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes radius, color, and position in node labels.
	// When false, only the display text is shown.
	Detailed bool
	// Pinned fixes every node at its simulated position so neato reproduces
	// the frame instead of computing its own layout.
	Pinned bool
}

// ToDOT converts a frame's proximity graph to Graphviz DOT format: bubbles
// become circular nodes sized by radius and proximity lines become edges
// weighted by opacity. The result can be rendered with [RenderSVG].
func ToDOT(f bubbles.Frame, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  overlap=false;\n")
	fmt.Fprintf(&buf, "  inputscale=%.0f;\n", pointsPerInch)
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, fontcolor=white, fontname=\"sans-serif\"];\n")
	buf.WriteString("  edge [color=\"#9a9a9a\"];\n")
	buf.WriteString("\n")

	for _, it := range f.Items {
		attrs := fmtAttrs(it, f.Height, opts)
		fmt.Fprintf(&buf, "  %q [%s];\n", styles.BubbleID(it.ID), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, l := range f.Lines {
		fmt.Fprintf(&buf, "  %q -- %q [penwidth=%.2f];\n",
			styles.BubbleID(l.From), styles.BubbleID(l.To), 0.5+4*l.Opacity)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(it bubbles.Item, detailed bool) string {
	if !detailed {
		return it.Text
	}
	return fmt.Sprintf("%s\nr: %.0f\n(%.0f, %.0f)", it.Text, it.Radius, it.Pos.X, it.Pos.Y)
}

func fmtAttrs(it bubbles.Item, height float64, opts Options) []string {
	attrs := []string{
		fmt.Sprintf("label=%q", fmtLabel(it, opts.Detailed)),
		fmt.Sprintf("width=%.3f", 2*it.Radius/pointsPerInch),
		fmt.Sprintf("fontsize=%.1f", it.FontSize()),
		fmt.Sprintf("fillcolor=%q", dotColor(it.Color)),
	}
	if opts.Pinned {
		// Graphviz puts the origin bottom-left.
		attrs = append(attrs, fmt.Sprintf("pos=\"%.2f,%.2f!\"", it.Pos.X, height-it.Pos.Y))
	}
	if it.Action {
		attrs = append(attrs, "peripheries=2", fmt.Sprintf("URL=%q", it.Target), "target=\"_blank\"")
	}
	return attrs
}

// dotColor passes hex colors through; other notations fall back to the
// source palette default since DOT has no rgba() syntax.
func dotColor(c string) string {
	if strings.HasPrefix(c, "#") {
		return c
	}
	return "#3798ff"
}

// RenderSVG renders a DOT graph to SVG using Graphviz's neato layout.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
