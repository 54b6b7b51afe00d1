// Package render provides visualization rendering for bubble frames.
//
// # Overview
//
// This package contains the renderers that turn a [bubbles.Frame] into
// files and documents. It provides:
//
//   - SVG, PNG and JSON output (in [sink] subpackage)
//   - Visual styles (in [styles] subpackage)
//   - Proximity graphs as DOT and Graphviz SVG (in [nodelink] subpackage)
//
// # Sinks
//
// Every sink takes a frame and functional options:
//
//	svg := sink.RenderSVG(frame, sink.WithStyle(styles.Goo{}))
//	png, err := sink.RenderPNG(frame, sink.WithScale(2))
//	data, err := sink.RenderJSON(frame, sink.WithJSONSeed(42))
//
// SVG nodes carry stable ids ("bubble-<id>", "bubble-action", and
// "line-<a>-<b>") so a live page can move them in place from a frame
// stream; see [sink.WithLive].
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage renders the frame's proximity graph, bubbles
// as nodes and proximity lines as edges, using Graphviz.
//
//	dot := nodelink.ToDOT(frame, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [bubbles.Frame]: github.com/drpeachy/tagbubbles/pkg/bubbles#Frame
// [sink]: github.com/drpeachy/tagbubbles/pkg/render/sink
// [sink.WithLive]: github.com/drpeachy/tagbubbles/pkg/render/sink#WithLive
// [styles]: github.com/drpeachy/tagbubbles/pkg/render/styles
// [nodelink]: github.com/drpeachy/tagbubbles/pkg/render/nodelink
package render
