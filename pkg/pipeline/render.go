package pipeline

import (
	"context"
	"fmt"

	"github.com/drpeachy/tagbubbles/pkg/bubbles"
	"github.com/drpeachy/tagbubbles/pkg/render/nodelink"
	"github.com/drpeachy/tagbubbles/pkg/render/sink"
	"github.com/drpeachy/tagbubbles/pkg/render/styles"
)

// Render generates output artifacts for f in the requested formats.
func Render(ctx context.Context, f bubbles.Frame, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = renderSVG(f, opts)
		case FormatPNG:
			data, err = sink.RenderPNG(f, buildPNGOptions(opts)...)
		case FormatJSON:
			data, err = sink.RenderJSON(f, buildJSONOptions(opts)...)
		case FormatDOT:
			data = []byte(nodelink.ToDOT(f, nodelink.Options{Detailed: true, Pinned: true}))
		case FormatNodelink:
			data, err = nodelink.RenderSVG(ctx, nodelink.ToDOT(f, nodelink.Options{Pinned: true}))
		default:
			err = fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func renderSVG(f bubbles.Frame, opts Options) ([]byte, error) {
	style, err := styles.Lookup(opts.Style)
	if err != nil {
		return nil, err
	}
	return sink.RenderSVG(f, buildSVGOptions(style, opts)...), nil
}

// buildSVGOptions builds SVG rendering options.
func buildSVGOptions(style styles.Style, opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{sink.WithStyle(style)}
	if opts.HideLines {
		svgOpts = append(svgOpts, sink.WithoutLines())
	}
	if opts.Background != "" {
		svgOpts = append(svgOpts, sink.WithBackground(opts.Background))
	}
	if opts.Texture != "" {
		svgOpts = append(svgOpts, sink.WithTexture(opts.Texture))
	}
	if opts.InstanceID != "" {
		svgOpts = append(svgOpts, sink.WithInstanceID(opts.InstanceID))
	}
	return svgOpts
}

func buildPNGOptions(opts Options) []sink.PNGOption {
	pngOpts := []sink.PNGOption{sink.WithScale(opts.Scale)}
	if opts.HideLines {
		pngOpts = append(pngOpts, sink.WithoutPNGLines())
	}
	if opts.Background != "" {
		pngOpts = append(pngOpts, sink.WithPNGBackground(opts.Background))
	}
	if opts.FontPath != "" {
		pngOpts = append(pngOpts, sink.WithFont(opts.FontPath))
	}
	return pngOpts
}

func buildJSONOptions(opts Options) []sink.JSONOption {
	jsonOpts := []sink.JSONOption{
		sink.WithJSONShowcase(opts.Showcase),
		sink.WithJSONStyle(opts.Style),
		sink.WithJSONSeed(opts.Seed),
	}
	if opts.Indent {
		jsonOpts = append(jsonOpts, sink.WithJSONIndent())
	}
	return jsonOpts
}

// RenderFromJSON re-renders a frame saved in the json format. Showcase,
// style and seed recorded in the file fill in options left empty.
func RenderFromJSON(ctx context.Context, data []byte, opts Options) (map[string][]byte, error) {
	f, meta, err := sink.ReadJSON(data)
	if err != nil {
		return nil, err
	}
	if opts.Showcase == "" {
		opts.Showcase = meta.Showcase
	}
	if opts.Style == "" {
		opts.Style = meta.Style
	}
	if opts.Seed == 0 {
		opts.Seed = meta.Seed
	}
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	return Render(ctx, f, opts)
}
