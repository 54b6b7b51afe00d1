package sink

import (
	"bytes"
	"image/png"
	"math"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/drpeachy/tagbubbles/pkg/bubbles"
	"github.com/drpeachy/tagbubbles/pkg/errors"
	"github.com/drpeachy/tagbubbles/pkg/render/styles"
)

var idPattern = regexp.MustCompile(` id="([^"]+)"`)

func testFrame(t *testing.T, withAction bool) bubbles.Frame {
	t.Helper()
	cfg := bubbles.Config{
		Labels:  []string{"Unity", "PC", "2D"},
		Palette: []string{"#3798ff", "rgba(226, 73, 38, 0.8)"},
		Width:   500,
		Height:  350,
		Seed:    7,
	}
	if withAction {
		cfg.ActionLabel = "Play"
		cfg.ActionTarget = "https://example.com/play"
	}
	e, err := bubbles.New(cfg)
	if err != nil {
		t.Fatalf("bubbles.New() error = %v", err)
	}
	for range 90 {
		e.Step(time.Second / 60)
	}
	return e.Frame()
}

func TestRenderSVGStructure(t *testing.T) {
	f := testFrame(t, true)
	f.Lines = append(f.Lines, bubbles.Line{From: 0, To: 1, A: f.Items[0].Pos, B: f.Items[1].Pos, Opacity: 0.3})
	out := string(RenderSVG(f))

	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg" version="1.1" viewBox="0 0 500 350" width="500" height="350">`,
		`id="bubble-0"`, `id="bubble-1"`, `id="bubble-2"`, `id="bubble-action"`,
		`id="line-0-1"`,
		`<a href="https://example.com/play" target="_blank" rel="noopener">`,
		`</svg>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderSVG() missing %q", want)
		}
	}

	lines := strings.Index(out, `<g id="lines">`)
	items := strings.Index(out, `<g id="bubbles">`)
	action := strings.Index(out, `id="bubble-action"`)
	if !(lines < items && items < action) {
		t.Errorf("layer order wrong: lines@%d bubbles@%d action@%d", lines, items, action)
	}
	if strings.Contains(out, "<script") {
		t.Error("static SVG should not embed a script")
	}
	if got := strings.Count(out, "<circle"); got != 4 {
		t.Errorf("got %d circles, want 4", got)
	}
}

func TestRenderSVGOptions(t *testing.T) {
	f := testFrame(t, false)
	f.Lines = []bubbles.Line{{From: 0, To: 2, Opacity: 0.2}}

	out := string(RenderSVG(f, WithoutLines(), WithBackground("#101010"), WithTexture("noise.png")))
	if strings.Contains(out, "line-0-2") || strings.Contains(out, `id="lines"`) {
		t.Error("WithoutLines should drop the line layer")
	}
	if !strings.Contains(out, `fill="#101010"`) || !strings.Contains(out, `href="noise.png"`) {
		t.Error("background or texture missing")
	}
	if strings.Contains(out, "<a ") {
		t.Error("frame without action should have no links")
	}

	goo := string(RenderSVG(f, WithStyle(styles.Goo{})))
	if !strings.Contains(goo, `<filter id="goo">`) || !strings.Contains(goo, `<mask id="bubble-mask">`) {
		t.Error("goo style defs missing")
	}
}

func TestRenderSVGLive(t *testing.T) {
	f := testFrame(t, false)
	out := string(RenderSVG(f, WithLive("/sessions/abc/stream", "/sessions/abc/pointer")))
	for _, want := range []string{
		`<script type="text/javascript"><![CDATA[`,
		`new EventSource("/sessions/abc/stream")`,
		`fetch("/sessions/abc/pointer"`,
		`]]></script>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("live SVG missing %q", want)
		}
	}
}

func TestRenderSVGInstanceID(t *testing.T) {
	f := testFrame(t, true)
	f.Lines = append(f.Lines, bubbles.Line{From: 0, To: 1, A: f.Items[0].Pos, B: f.Items[1].Pos, Opacity: 0.3})

	tests := []struct {
		name     string
		id       string
		contains []string
	}{
		{"index", "2", []string{
			`<filter id="tags-2-goo">`,
			`<mask id="tags-2-bubble-mask">`,
			`<linearGradient id="tags-2-bubble-gradient">`,
			`<g id="tags-2-lines">`,
			`id="tags-2-line-0-1"`,
			`<g id="tags-2-bubbles" class="blobs" filter="url(#tags-2-goo)">`,
			`id="tags-2-bubble-0"`,
			`<g id="tags-2-action">`,
			`id="tags-2-bubble-action"`,
			`var pre = "tags-2-";`,
		}},
		{"name", "hero", []string{
			`<filter id="hero-goo">`,
			`id="hero-bubble-1"`,
			`var pre = "hero-";`,
		}},
		{"unscoped", "", []string{
			`<filter id="goo">`,
			`id="bubble-1"`,
			`var pre = "";`,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := string(RenderSVG(f, WithStyle(styles.Goo{}), WithInstanceID(tt.id), WithLive("/s/stream", "/s/pointer")))
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("RenderSVG() missing %q", want)
				}
			}
		})
	}

	// Two canvases on one page must not share an id.
	a := string(RenderSVG(f, WithStyle(styles.Goo{}), WithInstanceID("0")))
	b := string(RenderSVG(f, WithStyle(styles.Goo{}), WithInstanceID("1")))
	seen := make(map[string]bool)
	for _, m := range idPattern.FindAllStringSubmatch(a, -1) {
		seen[m[1]] = true
	}
	for _, m := range idPattern.FindAllStringSubmatch(b, -1) {
		if seen[m[1]] {
			t.Errorf("id %q appears in both instances", m[1])
		}
	}
}

func TestRenderSVGRotation(t *testing.T) {
	f := testFrame(t, false)
	f.Items[0].Rotation = 12.5
	out := string(RenderSVG(f))
	if !strings.Contains(out, "rotate(12.50)") {
		t.Error("rotated bubble has no rotate() in its transform")
	}
	if !strings.Contains(liveJS, "rotate(") {
		t.Error("live script does not apply rotation")
	}
}

func TestRenderSVGEmptyFrame(t *testing.T) {
	out := string(RenderSVG(bubbles.Frame{Width: 500, Height: 350}))
	if strings.Contains(out, "<circle") {
		t.Error("empty frame rendered circles")
	}
	if !strings.HasSuffix(out, "</svg>\n") {
		t.Error("SVG not terminated")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	f := testFrame(t, true)
	f.Pointer = &bubbles.Vec{X: 12, Y: 34}

	data, err := RenderJSON(f, WithJSONShowcase("platformer"), WithJSONStyle("goo"), WithJSONSeed(7))
	if err != nil {
		t.Fatalf("RenderJSON() error = %v", err)
	}
	if bytes.Contains(data, []byte("\n")) {
		t.Error("compact JSON should be a single line")
	}

	got, meta, err := ReadJSON(data)
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if meta.Showcase != "platformer" || meta.Style != "goo" || meta.Seed != 7 {
		t.Errorf("metadata = %+v", meta)
	}
	if len(got.Items) != len(f.Items) || got.Width != 500 || got.Step != f.Step {
		t.Fatalf("decoded frame mismatch: %+v", got)
	}
	act, ok := got.Action()
	if !ok || act.Target != "https://example.com/play" {
		t.Errorf("action lost in round trip: %+v", act)
	}
	if got.Pointer == nil || *got.Pointer != *f.Pointer {
		t.Errorf("pointer = %v", got.Pointer)
	}
	for i := range f.Items {
		if got.Items[i].Pos != f.Items[i].Pos {
			t.Errorf("item %d moved: %v vs %v", i, got.Items[i].Pos, f.Items[i].Pos)
		}
		if got.Items[i].Rotation != f.Items[i].Rotation {
			t.Errorf("item %d rotation = %v, want %v", i, got.Items[i].Rotation, f.Items[i].Rotation)
		}
	}
}

func TestJSONNodeIDs(t *testing.T) {
	data, err := RenderJSON(testFrame(t, true), WithJSONIndent())
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"node": "bubble-0"`, `"node": "bubble-action"`, `"target": "https://example.com/play"`} {
		if !bytes.Contains(data, []byte(want)) {
			t.Errorf("JSON missing %s", want)
		}
	}
}

func TestReadJSONInvalid(t *testing.T) {
	if _, _, err := ReadJSON([]byte("{not json")); err == nil {
		t.Error("ReadJSON should fail on malformed input")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		r, g, b float64
		a       float64
	}{
		{"#3798ff", 0x37 / 255.0, 0x98 / 255.0, 1, 1},
		{"#fff", 1, 1, 1, 1},
		{"#FFFFFF", 1, 1, 1, 1},
		{"rgb(255, 0, 0)", 1, 0, 0, 1},
		{"rgba(0, 255, 0, 0.5)", 0, 1, 0, 0.5},
		{"rgba(300, 0, 0, 2)", 1, 0, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, a, err := ParseColor(tt.in)
			if err != nil {
				t.Fatalf("ParseColor() error = %v", err)
			}
			const eps = 1e-9
			if math.Abs(c.R-tt.r) > eps || math.Abs(c.G-tt.g) > eps || math.Abs(c.B-tt.b) > eps || math.Abs(a-tt.a) > eps {
				t.Errorf("ParseColor(%q) = %v alpha %v", tt.in, c, a)
			}
		})
	}

	for _, bad := range []string{"blue", "#12", "rgb(1,2)", "rgba(a,b,c,d)", ""} {
		if _, _, err := ParseColor(bad); !errors.Is(err, errors.ErrCodeInvalidPalette) {
			t.Errorf("ParseColor(%q) error = %v, want INVALID_PALETTE", bad, err)
		}
	}
}

func TestRenderPNG(t *testing.T) {
	f := testFrame(t, true)
	data, err := RenderPNG(f, WithScale(1), WithPNGBackground("#000000"))
	if err != nil {
		t.Fatalf("RenderPNG() error = %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if cfg.Width != 500 || cfg.Height != 350 {
		t.Errorf("PNG is %dx%d, want 500x350", cfg.Width, cfg.Height)
	}
}

func TestRenderPNGErrors(t *testing.T) {
	f := testFrame(t, false)
	if _, err := RenderPNG(f, WithScale(0)); err == nil {
		t.Error("zero scale should fail")
	}
	f.Items[0].Color = "chartreuse"
	if _, err := RenderPNG(f); !errors.Is(err, errors.ErrCodeInvalidPalette) {
		t.Errorf("bad color error = %v, want INVALID_PALETTE", err)
	}
	if _, err := RenderPNG(testFrame(t, false), WithFont("/nonexistent/font.ttf")); err == nil {
		t.Error("missing font should fail")
	}
}
