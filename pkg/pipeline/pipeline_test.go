package pipeline

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/drpeachy/tagbubbles/pkg/assets"
	"github.com/drpeachy/tagbubbles/pkg/cache"
	"github.com/drpeachy/tagbubbles/pkg/config"
	"github.com/drpeachy/tagbubbles/pkg/errors"
	"github.com/drpeachy/tagbubbles/pkg/observability"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"json", false},
		{"dot", false},
		{"nodelink", false},
		{"pdf", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s, want INVALID_FORMAT", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateStyle(t *testing.T) {
	tests := []struct {
		style   string
		wantErr bool
	}{
		{"simple", false},
		{"goo", false},
		{"handdrawn", true},
	}

	for _, tt := range tests {
		err := ValidateStyle(tt.style)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateStyle(%q) error = %v, wantErr %v", tt.style, err, tt.wantErr)
		}
	}
}

func baseOptions() Options {
	return Options{
		Showcase: "demo",
		Labels:   []string{"Unity", "PC", "2D"},
		Palette:  []string{"#3798ff"},
		Width:    500,
		Height:   470,
		Seed:     2024,
		Steps:    30,
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := baseOptions()
	opts.Steps = 0
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Valid options should pass: %v", err)
	}
	if opts.Steps != DefaultSteps {
		t.Errorf("Steps = %d, want %d", opts.Steps, DefaultSteps)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Style != DefaultStyle || opts.Scale != DefaultScale {
		t.Errorf("Style = %q Scale = %v", opts.Style, opts.Scale)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
		code   errors.Code
	}{
		{"too many steps", func(o *Options) { o.Steps = MaxSteps + 1 }, errors.ErrCodeInvalidInput},
		{"negative steps", func(o *Options) { o.Steps = -1 }, errors.ErrCodeInvalidInput},
		{"zero width", func(o *Options) { o.Width = 0 }, errors.ErrCodeInvalidDimensions},
		{"empty palette", func(o *Options) { o.Palette = nil }, errors.ErrCodeInvalidPalette},
		{"bad format", func(o *Options) { o.Formats = []string{"gif"} }, errors.ErrCodeInvalidFormat},
		{"bad style", func(o *Options) { o.Style = "neon" }, errors.ErrCodeInvalidStyle},
		{"negative scale", func(o *Options) { o.Scale = -1 }, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := baseOptions()
			tt.modify(&opts)
			err := opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestFromShowcase(t *testing.T) {
	cfg := config.Default()
	cfg.Canvas.Texture = "grain"
	game, err := cfg.Showcase("game")
	if err != nil {
		t.Fatal(err)
	}

	opts, err := FromShowcase(cfg, game, assets.NewRegistry())
	if err != nil {
		t.Fatalf("FromShowcase: %v", err)
	}
	if opts.Showcase != "game" || opts.Height != 470 || opts.ActionLabel != config.DefaultActionLabel {
		t.Errorf("opts = %+v", opts)
	}
	if opts.Steps != cfg.Steps() {
		t.Errorf("Steps = %d, want %d", opts.Steps, cfg.Steps())
	}
	if !strings.HasPrefix(opts.Texture, "data:image/svg+xml;base64,") {
		t.Errorf("Texture = %.40q, want a data URI", opts.Texture)
	}

	cfg.Canvas.Texture = "missing"
	if _, err := FromShowcase(cfg, game, assets.NewRegistry()); err == nil {
		t.Error("unknown texture should fail")
	}
	if _, err := FromShowcase(cfg, game, nil); err != nil {
		t.Errorf("nil registry should skip textures: %v", err)
	}
}

func TestExecute(t *testing.T) {
	opts := baseOptions()
	opts.Formats = []string{FormatSVG, FormatPNG, FormatJSON, FormatDOT}

	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Stats.Items != 3 || res.Stats.Steps != 30 || res.Frame.Step != 30 {
		t.Errorf("Stats = %+v, frame step %d", res.Stats, res.Frame.Step)
	}
	if len(res.SnapshotHash) != 64 {
		t.Errorf("SnapshotHash = %q", res.SnapshotHash)
	}

	checks := map[string]string{
		FormatSVG:  "<svg",
		FormatPNG:  "\x89PNG",
		FormatJSON: `"showcase":"demo"`,
		FormatDOT:  "graph G {",
	}
	for format, want := range checks {
		if !bytes.Contains(res.Artifacts[format], []byte(want)) {
			t.Errorf("%s artifact missing %q", format, want)
		}
	}
}

func TestExecuteDeterministic(t *testing.T) {
	ctx := context.Background()
	a, err := NewRunner(nil, nil, nil).Execute(ctx, baseOptions())
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewRunner(nil, nil, nil).Execute(ctx, baseOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Artifacts[FormatSVG], b.Artifacts[FormatSVG]) {
		t.Error("seeded runs should render identical SVG")
	}
	if a.SnapshotHash != b.SnapshotHash {
		t.Error("seeded runs should produce identical snapshots")
	}
}

func TestExecuteInstanceID(t *testing.T) {
	opts := baseOptions()
	opts.InstanceID = "hero"
	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	svg := string(res.Artifacts[FormatSVG])
	if !strings.Contains(svg, `id="hero-bubble-0"`) || strings.Contains(svg, `id="bubble-0"`) {
		t.Error("SVG ids not scoped to the instance")
	}

	bare := baseOptions()
	if opts.ArtifactKeyOpts(FormatSVG) == bare.ArtifactKeyOpts(FormatSVG) {
		t.Error("instance id should be part of the SVG artifact key")
	}
	if opts.ArtifactKeyOpts(FormatPNG) != bare.ArtifactKeyOpts(FormatPNG) {
		t.Error("instance id should not affect the PNG artifact key")
	}
}

func TestExecuteCachesSeededRuns(t *testing.T) {
	ctx := context.Background()
	mem := cache.NewMemoryCache(0)
	runner := NewRunner(mem, nil, nil)

	first, err := runner.Execute(ctx, baseOptions())
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.SnapshotHit || first.CacheInfo.RenderHit {
		t.Errorf("first run CacheInfo = %+v, want misses", first.CacheInfo)
	}
	if mem.Len() != 2 {
		t.Errorf("cache entries = %d, want snapshot + svg", mem.Len())
	}

	second, err := runner.Execute(ctx, baseOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.SnapshotHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v, want hits", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached SVG differs from rendered SVG")
	}

	refresh := baseOptions()
	refresh.Refresh = true
	third, err := runner.Execute(ctx, refresh)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.SnapshotHit || third.CacheInfo.RenderHit {
		t.Errorf("refresh CacheInfo = %+v, want misses", third.CacheInfo)
	}
}

func TestExecuteSkipsCacheWhenUnseeded(t *testing.T) {
	mem := cache.NewMemoryCache(0)
	opts := baseOptions()
	opts.Seed = 0

	for range 2 {
		res, err := NewRunner(mem, nil, nil).Execute(context.Background(), opts)
		if err != nil {
			t.Fatal(err)
		}
		if res.CacheInfo.SnapshotHit || res.CacheInfo.RenderHit {
			t.Errorf("unseeded run hit the cache: %+v", res.CacheInfo)
		}
	}
	if mem.Len() != 0 {
		t.Errorf("cache entries = %d, want 0", mem.Len())
	}
}

func TestSimulateHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Simulate(ctx, baseOptions())
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRenderFromJSON(t *testing.T) {
	ctx := context.Background()
	opts := baseOptions()
	opts.Style = "goo"
	opts.Formats = []string{FormatSVG, FormatJSON}

	res, err := NewRunner(nil, nil, nil).Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}

	again, err := RenderFromJSON(ctx, res.Artifacts[FormatJSON], Options{Formats: []string{FormatSVG}})
	if err != nil {
		t.Fatalf("RenderFromJSON: %v", err)
	}
	if !bytes.Equal(again[FormatSVG], res.Artifacts[FormatSVG]) {
		t.Error("re-rendered SVG should match the original (style taken from the file)")
	}

	if _, err := RenderFromJSON(ctx, []byte("nope"), Options{}); err == nil {
		t.Error("invalid JSON should fail")
	}
}

type recordingPipelineHooks struct {
	observability.NoopPipelineHooks
	started, completed []string
	steps              int
}

func (h *recordingPipelineHooks) OnSimulateStart(_ context.Context, showcase string, _ int) {
	h.started = append(h.started, showcase)
}

func (h *recordingPipelineHooks) OnSimulateComplete(_ context.Context, showcase string, steps int, _ time.Duration, _ error) {
	h.completed = append(h.completed, showcase)
	h.steps = steps
}

func TestExecuteFiresHooks(t *testing.T) {
	h := &recordingPipelineHooks{}
	observability.SetPipelineHooks(h)
	defer observability.Reset()

	if _, err := NewRunner(nil, nil, nil).Execute(context.Background(), baseOptions()); err != nil {
		t.Fatal(err)
	}
	if len(h.started) != 1 || h.started[0] != "demo" || len(h.completed) != 1 || h.steps != 30 {
		t.Errorf("hooks saw start=%v complete=%v steps=%d", h.started, h.completed, h.steps)
	}
}
