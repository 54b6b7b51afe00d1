// Package pipeline turns a showcase into rendered artifacts.
//
// This package implements the simulate → render pipeline shared by the CLI
// (`tagbubbles render`) and the preview server's static endpoints, so both
// produce byte-identical output for the same seeded showcase.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Simulate: build a [bubbles.Engine] and advance it Steps frames at a
//     fixed 1/60 s, producing one [bubbles.Frame] snapshot.
//  2. Render: write the snapshot in each requested format (svg, png, json,
//     dot, nodelink).
//
// Both stages are cached by the [Runner] when the run is seeded.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts, err := pipeline.FromShowcase(cfg, showcase, registry)
//	if err != nil {
//	    return err
//	}
//	opts.Formats = []string{"svg", "png"}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/drpeachy/tagbubbles/pkg/assets"
	"github.com/drpeachy/tagbubbles/pkg/bubbles"
	"github.com/drpeachy/tagbubbles/pkg/cache"
	"github.com/drpeachy/tagbubbles/pkg/config"
	"github.com/drpeachy/tagbubbles/pkg/errors"
	"github.com/drpeachy/tagbubbles/pkg/render/styles"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultSteps is the number of frames simulated for a snapshot: four
	// seconds, long enough for the entrance transition and the first
	// repulsion pass to settle.
	DefaultSteps = config.DefaultSteps

	// MaxSteps bounds a single run (one simulated minute).
	MaxSteps = 3600

	// DefaultStyle is the default visual style.
	DefaultStyle = "simple"

	// DefaultScale is the default PNG scale factor.
	DefaultScale = 2.0

	// FrameStep is the simulated time between steps.
	FrameStep = time.Second / 60
)

// Format constants for output formats.
const (
	FormatSVG      = "svg"
	FormatPNG      = "png"
	FormatJSON     = "json"
	FormatDOT      = "dot"
	FormatNodelink = "nodelink"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:      true,
	FormatPNG:      true,
	FormatJSON:     true,
	FormatDOT:      true,
	FormatNodelink: true,
}

// ContentTypes maps formats to their HTTP media types.
var ContentTypes = map[string]string{
	FormatSVG:      "image/svg+xml",
	FormatPNG:      "image/png",
	FormatJSON:     "application/json",
	FormatDOT:      "text/vnd.graphviz; charset=utf-8",
	FormatNodelink: "image/svg+xml",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
type Options struct {
	// Simulation inputs
	Showcase     string            `json:"showcase,omitempty"`
	Labels       []string          `json:"labels"`
	Palette      []string          `json:"palette"`
	Width        float64           `json:"width"`
	Height       float64           `json:"height"`
	ActionLabel  string            `json:"action_label,omitempty"`
	ActionTarget string            `json:"action_target,omitempty"`
	Placement    bubbles.Placement `json:"placement,omitempty"`
	Params       *bubbles.Params   `json:"params,omitempty"`
	Seed         uint64            `json:"seed,omitempty"`
	Steps        int               `json:"steps,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Style      string   `json:"style,omitempty"`
	HideLines  bool     `json:"hide_lines,omitempty"`
	Background string   `json:"background,omitempty"`
	Texture    string   `json:"texture,omitempty"`     // href: URL or data URI
	InstanceID string   `json:"instance_id,omitempty"` // SVG id prefix
	FontPath   string   `json:"font_path,omitempty"`
	Scale      float64  `json:"scale,omitempty"`
	Indent     bool     `json:"indent,omitempty"`

	// Runtime options (not serialized)
	Refresh bool        `json:"-"`
	Logger  *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Frame is the simulated snapshot.
	Frame bubbles.Frame

	// SnapshotHash is the content hash of the frame's JSON form.
	SnapshotHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Items        int
	Lines        int
	Steps        int
	SimulateTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	SnapshotHit bool // Whether the frame came from cache
	RenderHit   bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(FormatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// FormatNames returns the supported formats, sorted.
func FormatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	_, err := styles.Lookup(style)
	return err
}

// =============================================================================
// Options Methods
// =============================================================================

// FromShowcase resolves a configured showcase into pipeline options. The
// texture name is resolved to an href through reg; nil reg skips textures.
func FromShowcase(c config.Config, s config.Showcase, reg *assets.Registry) (Options, error) {
	ec := c.EngineConfig(s)
	opts := Options{
		Showcase:     s.Name,
		Labels:       ec.Labels,
		Palette:      ec.Palette,
		Width:        ec.Width,
		Height:       ec.Height,
		ActionLabel:  ec.ActionLabel,
		ActionTarget: ec.ActionTarget,
		Placement:    ec.Placement,
		Params:       ec.Params,
		Seed:         ec.Seed,
		Steps:        c.Steps(),
		Style:        c.StyleFor(s),
		HideLines:    c.Canvas.HideLines,
		Background:   c.BackgroundFor(s),
	}
	if name := c.TextureFor(s); name != "" && reg != nil {
		href, err := reg.Href(name)
		if err != nil {
			return Options{}, fmt.Errorf("showcase %s: %w", s.Name, err)
		}
		opts.Texture = href
	}
	return opts, nil
}

// EngineConfig returns the engine input described by o.
func (o *Options) EngineConfig() bubbles.Config {
	return bubbles.Config{
		Labels:       o.Labels,
		Palette:      o.Palette,
		Width:        o.Width,
		Height:       o.Height,
		ActionLabel:  o.ActionLabel,
		ActionTarget: o.ActionTarget,
		Placement:    o.Placement,
		Params:       o.Params,
		Seed:         o.Seed,
	}
}

// Seeded reports whether the run is reproducible and therefore cacheable.
func (o *Options) Seeded() bool {
	return o.Seed != 0
}

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForSimulate(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForSimulate validates the engine inputs and sets simulation
// defaults.
func (o *Options) ValidateForSimulate() error {
	if o.Steps == 0 {
		o.Steps = DefaultSteps
	}
	if o.Steps < 0 || o.Steps > MaxSteps {
		return errors.New(errors.ErrCodeInvalidInput, "steps must be in [1, %d], got %d", MaxSteps, o.Steps)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return o.EngineConfig().Validate()
}

// ValidateForRender validates the render options and sets render defaults.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %g", o.Scale)
	}
	return ValidateStyle(o.Style)
}

// configHash hashes the inputs that determine the simulated frame, apart
// from the seed and step count which go into the key options.
func (o *Options) configHash() string {
	params := bubbles.DefaultParams()
	if o.Params != nil {
		params = *o.Params
	}
	data, _ := json.Marshal(struct {
		Labels       []string          `json:"labels"`
		Palette      []string          `json:"palette"`
		Width        float64           `json:"width"`
		Height       float64           `json:"height"`
		ActionLabel  string            `json:"action_label"`
		ActionTarget string            `json:"action_target"`
		Placement    bubbles.Placement `json:"placement"`
		Params       bubbles.Params    `json:"params"`
	}{o.Labels, o.Palette, o.Width, o.Height, o.ActionLabel, o.ActionTarget, o.Placement, params})
	return cache.Hash(data)
}

// SnapshotKeyOpts returns cache key options for the simulation stage.
func (o *Options) SnapshotKeyOpts() cache.SnapshotKeyOpts {
	timeScaled := bubbles.DefaultParams().TimeScaled
	if o.Params != nil {
		timeScaled = o.Params.TimeScaled
	}
	return cache.SnapshotKeyOpts{
		Seed:       o.Seed,
		Steps:      o.Steps,
		TimeScaled: timeScaled,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format: format,
		Lines:  !o.HideLines,
	}
	switch format {
	case FormatSVG:
		k.Style, k.Background, k.Texture = o.Style, o.Background, cache.Hash([]byte(o.Texture))
		k.Instance = o.InstanceID
	case FormatPNG:
		k.Background, k.Font, k.Scale = o.Background, o.FontPath, o.Scale
	case FormatJSON:
		k.Style, k.Showcase = o.Style, o.Showcase
	}
	return k
}
