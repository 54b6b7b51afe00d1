// Package config loads showcase configuration from TOML.
//
// A configuration file lists the canvases ("showcases") a deployment serves,
// together with shared canvas defaults, physics overrides, server settings,
// and assets:
//
//	[server]
//	addr = ":8080"
//	session_ttl = "5m"
//
//	[canvas]
//	width = 500
//	height = 350
//	palette = ["#3798ff"]
//	style = "goo"
//
//	[physics]
//	damping = 0.93
//
//	[[assets]]
//	name = "paper"
//	path = "textures/paper.png"
//
//	[[showcase]]
//	name = "platformer"
//	labels = ["Unity", "Android", "Platformer", "Indie"]
//	action_target = "https://example.com/play"
//	texture = "paper"
//
// Values resolve in order: showcase field, then [canvas], then built-in
// defaults. Command-line flags override all of them.
package config

import (
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/drpeachy/tagbubbles/pkg/assets"
	"github.com/drpeachy/tagbubbles/pkg/bubbles"
	"github.com/drpeachy/tagbubbles/pkg/errors"
	"github.com/drpeachy/tagbubbles/pkg/render/styles"
)

// Defaults taken from the web component.
const (
	DefaultWidth       = 500.0
	DefaultHeight      = 350.0
	DefaultColor       = "#3798ff"
	DefaultActionLabel = "Play"
	DefaultAddr        = ":8080"
	DefaultSessionTTL  = 5 * time.Minute
	DefaultMaxSessions = 256
	DefaultSteps       = 240
)

// Config is the whole configuration file.
type Config struct {
	Server    ServerConfig   `toml:"server"`
	Canvas    CanvasConfig   `toml:"canvas"`
	Physics   bubbles.Params `toml:"physics"`
	Assets    []AssetConfig  `toml:"assets"`
	Showcases []Showcase     `toml:"showcase"`

	// BaseDir resolves relative asset paths. Load sets it to the file's
	// directory.
	BaseDir string `toml:"-"`
}

// ServerConfig configures the preview server.
type ServerConfig struct {
	Addr          string        `toml:"addr"`
	SessionTTL    time.Duration `toml:"session_ttl"`
	MaxSessions   int           `toml:"max_sessions"`
	FrameInterval time.Duration `toml:"frame_interval"`
}

// CanvasConfig holds defaults shared by every showcase.
type CanvasConfig struct {
	Width      float64  `toml:"width"`
	Height     float64  `toml:"height"`
	Palette    []string `toml:"palette"`
	Style      string   `toml:"style"`
	Background string   `toml:"background"`
	Texture    string   `toml:"texture"`
	Placement  string   `toml:"placement"`
	Steps      int      `toml:"steps"`
	HideLines  bool     `toml:"hide_lines"`
}

// AssetConfig declares one asset for the registry.
type AssetConfig struct {
	Name string `toml:"name"`
	Kind string `toml:"kind"`
	Path string `toml:"path"`
	URL  string `toml:"url"`
}

// Showcase is one named canvas. Zero fields inherit from [canvas].
type Showcase struct {
	Name         string   `toml:"name"`
	Title        string   `toml:"title"`
	Labels       []string `toml:"labels"`
	Palette      []string `toml:"palette"`
	ActionLabel  string   `toml:"action_label"`
	ActionTarget string   `toml:"action_target"`
	Width        float64  `toml:"width"`
	Height       float64  `toml:"height"`
	Style        string   `toml:"style"`
	Background   string   `toml:"background"`
	Texture      string   `toml:"texture"`
	Placement    string   `toml:"placement"`
	Seed         uint64   `toml:"seed"`
}

// Default returns the configuration used when no file is given: the two
// canvases of the original portfolio page.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:          DefaultAddr,
			SessionTTL:    DefaultSessionTTL,
			MaxSessions:   DefaultMaxSessions,
			FrameInterval: time.Second / 60,
		},
		Canvas: CanvasConfig{
			Width:   DefaultWidth,
			Height:  DefaultHeight,
			Palette: []string{DefaultColor},
			Style:   "simple",
			Steps:   DefaultSteps,
		},
		Physics: bubbles.DefaultParams(),
		Showcases: []Showcase{
			{
				Name:    "resume",
				Title:   "Resume",
				Labels:  []string{"Unity", "Android", "Platformer", "Indie", "Chilling"},
				Palette: []string{"rgba(100, 100, 100, 1)", "rgba(9,255,50,1)"},
			},
			{
				Name:         "game",
				Title:        "Game",
				Labels:       []string{"Unity", "PC", "2D"},
				ActionTarget: "https://example.com",
				Height:       470,
			},
		},
	}
}

// Parse decodes TOML source on top of the defaults. Showcases in data
// replace the default showcases. Unknown keys are rejected.
func Parse(data string) (Config, error) {
	cfg := Default()
	cfg.Showcases = nil
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if err := checkUndecoded(md); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and validates the file at path.
func Load(path string) (Config, error) {
	cfg := Default()
	cfg.Showcases = nil
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode %s", path)
	}
	if err := checkUndecoded(md); err != nil {
		return Config{}, err
	}
	cfg.BaseDir = filepath.Dir(path)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func checkUndecoded(md toml.MetaData) error {
	keys := md.Undecoded()
	if len(keys) == 0 {
		return nil
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(names, ", "))
}

// Validate checks every showcase as the engine would see it.
func (c Config) Validate() error {
	if c.Server.SessionTTL < 0 || c.Server.FrameInterval < 0 || c.Server.MaxSessions < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server durations and limits must not be negative")
	}
	if c.Canvas.Steps < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "canvas.steps must not be negative, got %d", c.Canvas.Steps)
	}
	if c.Canvas.Width < 0 || c.Canvas.Height < 0 {
		return errors.New(errors.ErrCodeInvalidDimensions, "canvas size must not be negative, got %gx%g", c.Canvas.Width, c.Canvas.Height)
	}
	if err := c.Physics.Validate(); err != nil {
		return err
	}
	seen := make(map[string]bool)
	for _, a := range c.Assets {
		if seen[a.Name] {
			return errors.New(errors.ErrCodeInvalidConfig, "asset %q is declared twice", a.Name)
		}
		seen[a.Name] = true
	}

	names := make(map[string]bool)
	for _, s := range c.Showcases {
		if err := errors.ValidateShowcaseName(s.Name); err != nil {
			return err
		}
		if names[s.Name] {
			return errors.New(errors.ErrCodeInvalidConfig, "showcase %q is declared twice", s.Name)
		}
		names[s.Name] = true
		if s.Width < 0 || s.Height < 0 {
			return errors.New(errors.ErrCodeInvalidDimensions, "showcase %s: size must not be negative", s.Name)
		}

		if _, err := styles.Lookup(c.StyleFor(s)); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "showcase %s", s.Name)
		}
		if err := c.EngineConfig(s).Validate(); err != nil {
			return errors.Wrap(errors.GetCode(err), err, "showcase %s", s.Name)
		}
	}
	return nil
}

// Showcase returns the showcase with the given name.
func (c Config) Showcase(name string) (Showcase, error) {
	for _, s := range c.Showcases {
		if s.Name == name {
			return s, nil
		}
	}
	return Showcase{}, errors.New(errors.ErrCodeShowcaseNotFound, "showcase %q not found", name)
}

// Names returns the showcase names in declaration order.
func (c Config) Names() []string {
	names := make([]string, len(c.Showcases))
	for i, s := range c.Showcases {
		names[i] = s.Name
	}
	return names
}

// EngineConfig resolves s against the canvas defaults. A target without a
// label gets DefaultActionLabel, matching the web component's play button.
func (c Config) EngineConfig(s Showcase) bubbles.Config {
	params := c.Physics
	cfg := bubbles.Config{
		Labels:       slices.Clone(s.Labels),
		Palette:      slices.Clone(firstNonEmpty(s.Palette, c.Canvas.Palette, []string{DefaultColor})),
		Width:        firstPositive(s.Width, c.Canvas.Width, DefaultWidth),
		Height:       firstPositive(s.Height, c.Canvas.Height, DefaultHeight),
		ActionLabel:  s.ActionLabel,
		ActionTarget: s.ActionTarget,
		Placement:    bubbles.Placement(firstString(s.Placement, c.Canvas.Placement)),
		Params:       &params,
		Seed:         s.Seed,
	}
	if cfg.ActionTarget != "" && cfg.ActionLabel == "" {
		cfg.ActionLabel = DefaultActionLabel
	}
	return cfg
}

// StyleFor returns the style name for s.
func (c Config) StyleFor(s Showcase) string {
	return firstString(s.Style, c.Canvas.Style, "simple")
}

// TextureFor returns the texture asset name for s, if any.
func (c Config) TextureFor(s Showcase) string {
	return firstString(s.Texture, c.Canvas.Texture)
}

// BackgroundFor returns the background color for s, if any.
func (c Config) BackgroundFor(s Showcase) string {
	return firstString(s.Background, c.Canvas.Background)
}

// Steps returns the number of frames simulated for static snapshots.
func (c Config) Steps() int {
	if c.Canvas.Steps > 0 {
		return c.Canvas.Steps
	}
	return DefaultSteps
}

// Registry builds the asset registry: built-in textures plus every
// [[assets]] entry.
func (c Config) Registry() (*assets.Registry, error) {
	r := assets.NewRegistry()
	for _, a := range c.Assets {
		err := r.Register(assets.Asset{
			Name: a.Name,
			Kind: assets.Kind(a.Kind),
			Path: a.Path,
			URL:  a.URL,
		}, c.BaseDir)
		if err != nil {
			return nil, err
		}
	}
	return r, nil
}

func firstNonEmpty(lists ...[]string) []string {
	for _, l := range lists {
		if len(l) > 0 {
			return l
		}
	}
	return nil
}

func firstPositive(vals ...float64) float64 {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}

func firstString(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
