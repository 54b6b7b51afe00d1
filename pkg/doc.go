// Package pkg provides the core libraries for tagbubbles, a force-directed
// tag-bubble layout engine.
//
// # Overview
//
// Tagbubbles lays a short list of tags out as bubbles that drift around a
// canvas, push each other apart and gather toward the pointer, with
// proximity lines between neighbours. An optional action bubble opens a link when clicked.
// The pkg directory is organized into four main areas:
//
//  1. [bubbles] - The simulation engine (items, forces, hit testing)
//  2. [animate] - The live component (frame loop, host events, opener)
//  3. [render] - Output (SVG, PNG, JSON, DOT)
//  4. [pipeline] - Orchestration (simulate → render, with caching)
//
// # Architecture
//
// The typical data flow through tagbubbles:
//
//	[config] showcase (TOML)
//	         ↓
//	    [bubbles] package (build items, step the simulation)
//	         ↓
//	    [animate] package (live)  or  [pipeline] package (snapshot)
//	         ↓
//	    [render/sink] SVG/PNG/JSON, [render/nodelink] DOT
//
// # Quick Start
//
// Simulate a canvas for four seconds and render it:
//
//	import (
//	    "github.com/drpeachy/tagbubbles/pkg/bubbles"
//	    "github.com/drpeachy/tagbubbles/pkg/render/sink"
//	)
//
//	e, _ := bubbles.New(bubbles.Config{
//	    Labels:  []string{"Unity", "PC", "2D"},
//	    Palette: []string{"#3798ff"},
//	    Width:   500,
//	    Height:  470,
//	    Seed:    42,
//	})
//	for range 240 {
//	    e.Step(time.Second / 60)
//	}
//	svg := sink.RenderSVG(e.Frame())
//
// # Main Packages
//
// [bubbles] - Item construction, radius sizing, label truncation, the
// per-step forces (drift, boundary, centering, pointer attraction, collision)
// and proximity lines. Deterministic for a fixed seed.
//
// [animate] - Mounts an engine on a host: one rescheduled frame callback,
// pointer and resize listeners, Replace without duplicate loops, and click
// dispatch to an [animate.Opener].
//
// [render/sink] - SVG with stable node ids, PNG via gogpu/gg, and a JSON
// frame format that round-trips.
//
// [render/styles] - Visual styles (simple, goo).
//
// [render/nodelink] - The proximity graph as DOT, and as SVG via Graphviz.
//
// ## Infrastructure
//
// [pipeline] - Snapshot pipeline (simulate → render) used by the CLI and
// the preview server.
//
// [cache] - Snapshot and artifact caches: null, memory, file, and Redis.
//
// [config] - TOML configuration: server, canvas, physics, assets and
// showcases.
//
// [assets] - Named textures and fonts, resolved once.
//
// [session] - Live preview sessions for the HTTP server.
//
// [observability] - Hooks for metrics and tracing.
//
// [errors] - Structured error codes shared by the CLI and the server.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/bubbles/...            # Specific package
//	go test -run Example                 # Examples only
//
// [bubbles]: https://pkg.go.dev/github.com/drpeachy/tagbubbles/pkg/bubbles
// [animate]: https://pkg.go.dev/github.com/drpeachy/tagbubbles/pkg/animate
// [animate.Opener]: https://pkg.go.dev/github.com/drpeachy/tagbubbles/pkg/animate#Opener
// [render]: https://pkg.go.dev/github.com/drpeachy/tagbubbles/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/drpeachy/tagbubbles/pkg/render/sink
// [render/styles]: https://pkg.go.dev/github.com/drpeachy/tagbubbles/pkg/render/styles
// [render/nodelink]: https://pkg.go.dev/github.com/drpeachy/tagbubbles/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/drpeachy/tagbubbles/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/drpeachy/tagbubbles/pkg/cache
// [config]: https://pkg.go.dev/github.com/drpeachy/tagbubbles/pkg/config
// [assets]: https://pkg.go.dev/github.com/drpeachy/tagbubbles/pkg/assets
// [session]: https://pkg.go.dev/github.com/drpeachy/tagbubbles/pkg/session
// [observability]: https://pkg.go.dev/github.com/drpeachy/tagbubbles/pkg/observability
// [errors]: https://pkg.go.dev/github.com/drpeachy/tagbubbles/pkg/errors
package pkg
