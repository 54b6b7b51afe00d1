// Package bubbles implements the tag-bubble layout engine.
//
// An [Engine] turns a list of text labels into an animated spatial
// arrangement of circles. Each label becomes an [Item] whose radius is a pure
// function of the label length ([Radius]). Items are placed once, either by
// rejection sampling or on a jittered grid, and then advanced by [Engine.Step]
// which applies, in order:
//
//  1. ambient drift driven by elapsed time and a per-item phase
//  2. a soft boundary force near the canvas edges
//  3. a centering spring for the action item
//  4. linear-falloff attraction toward the pointer
//  5. pairwise repulsion between overlapping items
//  6. damping and position integration
//  7. proximity line computation between ordinary items
//  8. transform output (translation, entrance scale, action pulse, spin)
//
// The engine is not safe for concurrent use. It is meant to be owned by a
// single frame loop (see package animate) which mutates it only from its
// frame callback and publishes immutable [Frame] snapshots to readers.
//
// # Usage
//
//	e, err := bubbles.New(bubbles.Config{
//	    Labels:  []string{"Unity", "PC", "2D"},
//	    Palette: []string{"#3798ff"},
//	    Width:   500,
//	    Height:  350,
//	    Seed:    42,
//	})
//	if err != nil {
//	    return err
//	}
//	for range 100 {
//	    e.Step(time.Second / 60)
//	}
//	frame := e.Frame()
package bubbles
