package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/drpeachy/tagbubbles/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if got := cfg.Names(); len(got) != 2 || got[0] != "resume" || got[1] != "game" {
		t.Errorf("Names() = %v", got)
	}
}

func TestEngineConfigResolution(t *testing.T) {
	cfg := Default()
	game, err := cfg.Showcase("game")
	if err != nil {
		t.Fatal(err)
	}
	ec := cfg.EngineConfig(game)
	if ec.Width != DefaultWidth || ec.Height != 470 {
		t.Errorf("size = %vx%v, want %vx470", ec.Width, ec.Height, DefaultWidth)
	}
	if ec.ActionLabel != DefaultActionLabel {
		t.Errorf("ActionLabel = %q, want %q", ec.ActionLabel, DefaultActionLabel)
	}
	if len(ec.Palette) != 1 || ec.Palette[0] != DefaultColor {
		t.Errorf("Palette = %v", ec.Palette)
	}
	if !ec.HasAction() {
		t.Error("game showcase should have an action")
	}

	resume, _ := cfg.Showcase("resume")
	ec = cfg.EngineConfig(resume)
	if ec.HasAction() {
		t.Error("resume showcase should not have an action")
	}
	if len(ec.Palette) != 2 {
		t.Errorf("Palette = %v, want the showcase's own palette", ec.Palette)
	}

	ec.Labels[0] = "mutated"
	if cfg.Showcases[0].Labels[0] == "mutated" {
		t.Error("EngineConfig shares the label slice with the config")
	}
}

func TestShowcaseNotFound(t *testing.T) {
	_, err := Default().Showcase("missing")
	if !errors.Is(err, errors.ErrCodeShowcaseNotFound) {
		t.Errorf("err = %v, want SHOWCASE_NOT_FOUND", err)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse(`
[server]
addr = ":9000"
session_ttl = "90s"

[canvas]
width = 640
palette = ["#ff0000", "#00ff00"]
style = "goo"

[physics]
damping = 0.5

[[showcase]]
name = "demo"
labels = ["Go", "Rust"]
action_label = "Open"
action_target = "https://example.com/demo"
seed = 7
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Server.Addr != ":9000" || cfg.Server.SessionTTL != 90*time.Second {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Server.MaxSessions != DefaultMaxSessions {
		t.Errorf("MaxSessions = %d, want default kept", cfg.Server.MaxSessions)
	}
	if cfg.Physics.Damping != 0.5 {
		t.Errorf("Damping = %v", cfg.Physics.Damping)
	}
	if cfg.Physics.MinRadius != 20 {
		t.Errorf("MinRadius = %v, want default kept", cfg.Physics.MinRadius)
	}
	if got := cfg.Names(); len(got) != 1 || got[0] != "demo" {
		t.Fatalf("Names() = %v, want [demo]", got)
	}

	s, _ := cfg.Showcase("demo")
	ec := cfg.EngineConfig(s)
	if ec.Width != 640 || ec.Height != DefaultHeight {
		t.Errorf("size = %vx%v", ec.Width, ec.Height)
	}
	if ec.ActionLabel != "Open" || ec.Seed != 7 {
		t.Errorf("engine config = %+v", ec)
	}
	if ec.Params == nil || ec.Params.Damping != 0.5 {
		t.Errorf("Params not carried over: %+v", ec.Params)
	}
	if cfg.StyleFor(s) != "goo" {
		t.Errorf("StyleFor = %q", cfg.StyleFor(s))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code errors.Code
	}{
		{"syntax", `[server`, errors.ErrCodeInvalidConfig},
		{"unknown key", "[canvas]\ncolour = 1", errors.ErrCodeInvalidConfig},
		{"bad style", "[canvas]\nstyle = \"neon\"\n[[showcase]]\nname = \"a\"", errors.ErrCodeInvalidConfig},
		{"bad name", "[[showcase]]\nname = \"Has Spaces\"", errors.ErrCodeInvalidName},
		{"duplicate", "[[showcase]]\nname = \"a\"\n[[showcase]]\nname = \"a\"", errors.ErrCodeInvalidConfig},
		{"bad target", "[[showcase]]\nname = \"a\"\naction_target = \"ftp://x\"", errors.ErrCodeInvalidInput},
		{"bad palette", "[[showcase]]\nname = \"a\"\npalette = [\"<red>\"]", errors.ErrCodeInvalidPalette},
		{"bad size", "[[showcase]]\nname = \"a\"\nwidth = -5\nheight = -1", errors.ErrCodeInvalidDimensions},
		{"negative canvas width", "[canvas]\nwidth = -1", errors.ErrCodeInvalidDimensions},
		{"negative canvas height", "[canvas]\nheight = -350.0\n[[showcase]]\nname = \"a\"", errors.ErrCodeInvalidDimensions},
		{"bad physics", "[physics]\ndamping = 2", errors.ErrCodeInvalidParams},
		{"negative steps", "[canvas]\nsteps = -1", errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLoadResolvesAssetsRelativeToFile(t *testing.T) {
	dir := t.TempDir()
	svg := `<svg xmlns="http://www.w3.org/2000/svg" width="4" height="4"></svg>`
	if err := os.WriteFile(filepath.Join(dir, "paper.svg"), []byte(svg), 0o644); err != nil {
		t.Fatal(err)
	}
	src := `
[[assets]]
name = "paper"
path = "paper.svg"

[[showcase]]
name = "demo"
labels = ["A"]
texture = "paper"
`
	path := filepath.Join(dir, "tagbubbles.toml")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseDir != dir {
		t.Errorf("BaseDir = %q, want %q", cfg.BaseDir, dir)
	}
	reg, err := cfg.Registry()
	if err != nil {
		t.Fatalf("Registry: %v", err)
	}
	s, _ := cfg.Showcase("demo")
	if _, err := reg.Href(cfg.TextureFor(s)); err != nil {
		t.Errorf("Href(%q): %v", cfg.TextureFor(s), err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}

func TestSteps(t *testing.T) {
	cfg := Default()
	if cfg.Steps() != DefaultSteps {
		t.Errorf("Steps() = %d", cfg.Steps())
	}
	cfg.Canvas.Steps = 0
	if cfg.Steps() != DefaultSteps {
		t.Errorf("Steps() with zero = %d", cfg.Steps())
	}
	cfg.Canvas.Steps = 12
	if cfg.Steps() != 12 {
		t.Errorf("Steps() = %d, want 12", cfg.Steps())
	}
}
