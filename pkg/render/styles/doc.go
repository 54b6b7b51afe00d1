// Package styles provides visual styles for bubble canvases.
//
// A [Style] writes SVG fragments into a buffer owned by the SVG sink. Two
// styles are built in:
//
//   - [Simple]: solid palette fills with white labels
//   - [Goo]: bubbles drawn into a blurred mask over a warm gradient, so
//     neighbours melt into each other
//
// Element ids are stable across styles and frames: bubble groups are
// "bubble-<id>" ("bubble-action" for the action bubble) and proximity lines
// are "line-<from>-<to>". Live updates move existing nodes by id rather than
// redrawing the canvas.
package styles
