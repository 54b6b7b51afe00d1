package bubbles

import (
	"time"

	"github.com/drpeachy/tagbubbles/pkg/errors"
)

// Params holds the tunable constants of the simulation. The values were
// tuned by eye, not derived from a physical model; treat them as knobs.
// Forces are expressed in px/frame² at 60 frames per second.
type Params struct {
	// Sizing
	RadiusPerChar float64 `toml:"radius_per_char" json:"radius_per_char"`
	MinRadius     float64 `toml:"min_radius" json:"min_radius"`
	MaxRadius     float64 `toml:"max_radius" json:"max_radius"`

	// Placement
	MinSeparation     float64 `toml:"min_separation" json:"min_separation"`
	PlacementAttempts int     `toml:"placement_attempts" json:"placement_attempts"`
	GridJitter        float64 `toml:"grid_jitter" json:"grid_jitter"`
	InitialSpeed      float64 `toml:"initial_speed" json:"initial_speed"`

	// Forces
	DriftAmplitude   float64 `toml:"drift_amplitude" json:"drift_amplitude"`
	DriftFrequency   float64 `toml:"drift_frequency" json:"drift_frequency"`
	BoundaryMargin   float64 `toml:"boundary_margin" json:"boundary_margin"`
	BoundaryForce    float64 `toml:"boundary_force" json:"boundary_force"`
	CenterSpring     float64 `toml:"center_spring" json:"center_spring"`
	AttractionRadius float64 `toml:"attraction_radius" json:"attraction_radius"`
	AttractionForce  float64 `toml:"attraction_force" json:"attraction_force"`
	RepulsionGap     float64 `toml:"repulsion_gap" json:"repulsion_gap"`
	RepulsionForce   float64 `toml:"repulsion_force" json:"repulsion_force"`
	Damping          float64 `toml:"damping" json:"damping"`

	// Proximity lines
	LineThreshold  float64 `toml:"line_threshold" json:"line_threshold"`
	LineMaxOpacity float64 `toml:"line_max_opacity" json:"line_max_opacity"`

	// Action pulse
	PulseAmplitude float64 `toml:"pulse_amplitude" json:"pulse_amplitude"`
	PulseFrequency float64 `toml:"pulse_frequency" json:"pulse_frequency"`

	// Rotation. Each item picks a target in [-SpinAngle, SpinAngle] degrees
	// and a one-way period in [SpinPeriodMin, SpinPeriodMax].
	SpinAngle     float64       `toml:"spin_angle" json:"spin_angle"`
	SpinPeriodMin time.Duration `toml:"spin_period_min" json:"spin_period_min"`
	SpinPeriodMax time.Duration `toml:"spin_period_max" json:"spin_period_max"`

	// Entrance transition
	EntranceDuration time.Duration `toml:"entrance_duration" json:"entrance_duration"`
	EntranceStagger  time.Duration `toml:"entrance_stagger" json:"entrance_stagger"`

	// TimeScaled scales integration by the real frame delta (dt*60) instead
	// of advancing one fixed step per frame.
	TimeScaled bool `toml:"time_scaled" json:"time_scaled"`
}

// DefaultParams returns the stock constants.
func DefaultParams() Params {
	return Params{
		RadiusPerChar: 8,
		MinRadius:     20,
		MaxRadius:     80,

		MinSeparation:     80,
		PlacementAttempts: 100,
		GridJitter:        8,
		InitialSpeed:      0.5,

		DriftAmplitude:   0.02,
		DriftFrequency:   0.6,
		BoundaryMargin:   10,
		BoundaryForce:    0.6,
		CenterSpring:     0.002,
		AttractionRadius: 250,
		AttractionForce:  0.15,
		RepulsionGap:     10,
		RepulsionForce:   0.5,
		Damping:          0.95,

		LineThreshold:  150,
		LineMaxOpacity: 0.4,

		PulseAmplitude: 0.06,
		PulseFrequency: 3,

		SpinAngle:     360,
		SpinPeriodMin: 12 * time.Second,
		SpinPeriodMax: 16 * time.Second,

		EntranceDuration: 800 * time.Millisecond,
		EntranceStagger:  100 * time.Millisecond,

		TimeScaled: true,
	}
}

// Validate rejects parameter sets that would produce NaN coordinates or
// runaway motion.
func (p Params) Validate() error {
	nonNeg := []struct {
		name string
		v    float64
	}{
		{"radius_per_char", p.RadiusPerChar},
		{"min_separation", p.MinSeparation},
		{"grid_jitter", p.GridJitter},
		{"initial_speed", p.InitialSpeed},
		{"drift_amplitude", p.DriftAmplitude},
		{"drift_frequency", p.DriftFrequency},
		{"boundary_margin", p.BoundaryMargin},
		{"boundary_force", p.BoundaryForce},
		{"center_spring", p.CenterSpring},
		{"attraction_radius", p.AttractionRadius},
		{"attraction_force", p.AttractionForce},
		{"repulsion_gap", p.RepulsionGap},
		{"repulsion_force", p.RepulsionForce},
		{"line_threshold", p.LineThreshold},
		{"line_max_opacity", p.LineMaxOpacity},
		{"pulse_amplitude", p.PulseAmplitude},
		{"pulse_frequency", p.PulseFrequency},
		{"spin_angle", p.SpinAngle},
	}
	for _, f := range nonNeg {
		if !isFinite(f.v) || f.v < 0 {
			return errors.New(errors.ErrCodeInvalidParams, "%s must be a non-negative number, got %g", f.name, f.v)
		}
	}
	if !isFinite(p.MinRadius) || p.MinRadius <= 0 {
		return errors.New(errors.ErrCodeInvalidParams, "min_radius must be positive, got %g", p.MinRadius)
	}
	if !isFinite(p.MaxRadius) || p.MaxRadius < p.MinRadius {
		return errors.New(errors.ErrCodeInvalidParams, "max_radius (%g) must be >= min_radius (%g)", p.MaxRadius, p.MinRadius)
	}
	if !isFinite(p.Damping) || p.Damping <= 0 || p.Damping >= 1 {
		return errors.New(errors.ErrCodeInvalidParams, "damping must be in (0, 1), got %g", p.Damping)
	}
	if p.LineMaxOpacity > 1 {
		return errors.New(errors.ErrCodeInvalidParams, "line_max_opacity must be <= 1, got %g", p.LineMaxOpacity)
	}
	if p.PlacementAttempts < 1 {
		return errors.New(errors.ErrCodeInvalidParams, "placement_attempts must be >= 1, got %d", p.PlacementAttempts)
	}
	if p.SpinPeriodMin < 0 || p.SpinPeriodMax < p.SpinPeriodMin {
		return errors.New(errors.ErrCodeInvalidParams, "spin periods must satisfy 0 <= spin_period_min (%s) <= spin_period_max (%s)", p.SpinPeriodMin, p.SpinPeriodMax)
	}
	if p.EntranceDuration < 0 || p.EntranceStagger < 0 {
		return errors.New(errors.ErrCodeInvalidParams, "entrance timings must be non-negative")
	}
	return nil
}
