package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/drpeachy/tagbubbles/pkg/assets"
	"github.com/drpeachy/tagbubbles/pkg/errors"
	"github.com/drpeachy/tagbubbles/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string  // output file (single format), base path (multiple), or "-" for stdout
	formats    string  // comma-separated formats
	seed       uint64  // RNG seed; 0 keeps the showcase's seed
	steps      int     // simulation steps at 1/60 s
	style      string  // visual style: simple or goo
	width      float64 // canvas width override
	height     float64 // canvas height override
	noLines    bool    // hide proximity lines
	background string  // background color
	texture    string  // texture asset name
	instance   string  // SVG element id prefix
	font       string  // font asset name or path for PNG labels
	scale      float64 // PNG scale factor
	indent     bool    // indent JSON output
	noCache    bool    // bypass the snapshot cache
	refresh    bool    // recompute and overwrite cached results
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <showcase|snapshot.json>",
		Short: "Render a showcase or a saved JSON snapshot",
		Long: `Render simulates a configured showcase and writes the final frame in one
or more formats. Given a .json snapshot written by an earlier render, it
re-renders that frame without simulating.`,
		Example: `  tagbubbles render resume
  tagbubbles render game -f svg,png --seed 7 -o out/game
  tagbubbles render game.json -f png --scale 3`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeShowcases(true),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format), base path (multiple), or - for stdout")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): "+strings.Join(pipeline.FormatNames(), ", ")+" (comma-separated, default svg)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed (0 keeps the showcase seed)")
	cmd.Flags().IntVar(&opts.steps, "steps", 0, "simulation steps at 60 steps per second (default from config)")
	cmd.Flags().StringVar(&opts.style, "style", "", "visual style: simple, goo (default from config)")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "canvas width")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "canvas height")
	cmd.Flags().BoolVar(&opts.noLines, "no-lines", false, "hide proximity lines")
	cmd.Flags().StringVar(&opts.background, "background", "", "background color")
	cmd.Flags().StringVar(&opts.texture, "texture", "", "texture asset name")
	cmd.Flags().StringVar(&opts.instance, "instance", "", "prefix for SVG element ids, so several canvases can share a page")
	cmd.Flags().StringVar(&opts.font, "font", "", "font asset name or TTF path for PNG labels")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "PNG scale factor (default 2)")
	cmd.Flags().BoolVar(&opts.indent, "indent", false, "indent JSON output")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the snapshot cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute and overwrite cached results")

	return cmd
}

// runRender renders a showcase, or re-renders a JSON snapshot, and writes
// one file per format.
func (c *CLI) runRender(ctx context.Context, w io.Writer, input string, ro renderOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	reg, err := cfg.Registry()
	if err != nil {
		return err
	}

	formats := parseFormats(ro.formats)
	if err := pipeline.ValidateFormats(formats); err != nil {
		return err
	}
	if ro.output == "-" && len(formats) != 1 {
		return errors.New(errors.ErrCodeInvalidInput, "stdout output needs exactly one format, got %d", len(formats))
	}

	opts := pipeline.Options{}
	snapshot := isSnapshotFile(input)
	if !snapshot {
		s, err := cfg.Showcase(input)
		if err != nil {
			return err
		}
		if opts, err = pipeline.FromShowcase(cfg, s, reg); err != nil {
			return err
		}
	}
	if err := ro.apply(&opts, reg); err != nil {
		return err
	}
	opts.Formats = formats
	opts.Logger = loggerFromContext(ctx)

	prog := newProgress(opts.Logger)
	var (
		artifacts map[string][]byte
		items     int
		lines     int
		cached    bool
	)
	if snapshot {
		data, err := os.ReadFile(input)
		if err != nil {
			return fmt.Errorf("read snapshot: %w", err)
		}
		if artifacts, err = pipeline.RenderFromJSON(ctx, data, opts); err != nil {
			return err
		}
	} else {
		runner, err := c.newRunner(ctx, ro.noCache)
		if err != nil {
			return fmt.Errorf("initialize runner: %w", err)
		}
		defer runner.Close()

		spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Simulating %s...", input))
		spinner.Start()
		result, err := runner.Execute(ctx, opts)
		if err != nil {
			spinner.StopWithError("Render failed")
			return err
		}
		spinner.Stop()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		artifacts = result.Artifacts
		items, lines = result.Stats.Items, result.Stats.Lines
		cached = result.CacheInfo.SnapshotHit && result.CacheInfo.RenderHit
	}
	prog.done("rendered", "input", input, "formats", strings.Join(formats, ","), "cached", cached)

	if ro.output == "-" {
		_, err := w.Write(artifacts[formats[0]])
		return err
	}

	paths := outputPaths(ro.output, input, formats)
	for _, f := range formats {
		if err := writeOutput(paths[f], artifacts[f]); err != nil {
			return err
		}
	}

	out := newPrinter(w)
	out.success("Render complete")
	for _, f := range formats {
		out.file(paths[f])
	}
	if !snapshot {
		out.stats(items, lines, cached)
		if slices.Contains(formats, pipeline.FormatJSON) {
			out.newline()
			out.nextStep("Re-render", appName+" render "+paths[pipeline.FormatJSON]+" -f png")
		}
	}
	return nil
}

// apply copies the flags that were set onto opts.
func (ro renderOpts) apply(opts *pipeline.Options, reg *assets.Registry) error {
	if ro.seed != 0 {
		opts.Seed = ro.seed
	}
	if ro.steps != 0 {
		opts.Steps = ro.steps
	}
	if ro.style != "" {
		opts.Style = ro.style
	}
	if ro.width != 0 {
		opts.Width = ro.width
	}
	if ro.height != 0 {
		opts.Height = ro.height
	}
	if ro.noLines {
		opts.HideLines = true
	}
	if ro.background != "" {
		opts.Background = ro.background
	}
	if ro.instance != "" {
		opts.InstanceID = ro.instance
	}
	if ro.texture != "" {
		href, err := reg.Href(ro.texture)
		if err != nil {
			return err
		}
		opts.Texture = href
	}
	if ro.font != "" {
		path, err := reg.FontPath(ro.font)
		if errors.IsNotFound(err) {
			path = ro.font
		} else if err != nil {
			return err
		}
		opts.FontPath = path
	}
	if ro.scale != 0 {
		opts.Scale = ro.scale
	}
	opts.Indent = ro.indent
	opts.Refresh = ro.refresh
	return nil
}

// isSnapshotFile reports whether input names a JSON snapshot rather than a
// showcase.
func isSnapshotFile(input string) bool {
	return strings.EqualFold(filepath.Ext(input), ".json")
}

// basePath derives the base output path from the output and input paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .png, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPaths maps each format to its file. A single format with an explicit
// output uses that path as is.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" && filepath.Ext(output) != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		ext := f
		if f == pipeline.FormatNodelink {
			ext = "nodelink.svg"
		}
		if f == pipeline.FormatJSON && isSnapshotFile(input) && output == "" {
			ext = "rendered.json"
		}
		paths[f] = base + "." + ext
	}
	return paths
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file and its parent directories, overwriting
// the file if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}

func writeOutput(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return out.Close()
}
