// Package sink provides output format renderers for bubble frames.
//
// # Overview
//
// A "sink" transforms a [bubbles.Frame] snapshot into a final output format.
// This package provides renderers for:
//
//   - SVG: the canvas as the web component draws it, optionally live
//   - PNG: rasterized with gogpu/gg, labels drawn when a font is given
//   - JSON: frame data for the live stream and for re-rendering
//
// # SVG Output
//
// [RenderSVG] writes a background layer, a proximity line layer, the
// ordinary bubbles, and finally the action bubble wrapped in a link that
// opens in a new browsing context:
//
//	svg := sink.RenderSVG(frame,
//	    sink.WithStyle(styles.Goo{}),
//	    sink.WithTexture(textureURI),
//	)
//
// Every node carries a stable id ("bubble-3", "line-0-2"). [WithInstanceID]
// prefixes all of them, filters and masks included, so several canvases can
// live in one document. [WithLive] embeds a small script that follows a
// server-sent event stream of JSON frames and moves those nodes in place.
//
// # PNG Output
//
// [RenderPNG] draws directly with gogpu/gg, no external converter needed:
//
//	png, err := sink.RenderPNG(frame, sink.WithScale(2), sink.WithFont("Inter.ttf"))
//
// Palette entries are parsed by [ParseColor], which accepts hex and the
// rgb()/rgba() notations.
//
// # JSON Output
//
// [RenderJSON] exports the frame; [ReadJSON] reads it back so a saved frame
// can be rendered to another format later.
//
// [bubbles.Frame]: github.com/drpeachy/tagbubbles/pkg/bubbles.Frame
package sink
