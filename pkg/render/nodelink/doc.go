// Package nodelink renders a frame's proximity graph as a node-link diagram.
//
// # Overview
//
// Bubbles become circular Graphviz nodes sized by radius and filled with
// their palette color; proximity lines become undirected edges whose width
// follows line opacity. This is a debugging view of the simulation: it shows
// which pairs are within line range and, with [Options.Pinned], where the
// engine placed them.
//
// # Usage
//
//	dot := nodelink.ToDOT(frame, nodelink.Options{Pinned: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG]
//   - Saved and processed with external Graphviz tools (neato -n2)
//   - Customized before rendering
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
