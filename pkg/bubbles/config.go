package bubbles

import (
	"math/rand/v2"

	"github.com/drpeachy/tagbubbles/pkg/errors"
)

// Placement selects the initial positioning strategy.
type Placement string

const (
	// PlacementRandom samples positions uniformly and rejects candidates
	// closer than Params.MinSeparation to an already placed item.
	PlacementRandom Placement = "random"
	// PlacementGrid lays items out on a jittered ceil(sqrt(n)) grid.
	PlacementGrid Placement = "grid"
)

// Config is the input contract of the engine. Callers rebuild the engine
// whenever any of these change.
type Config struct {
	Labels  []string
	Palette []string
	Width   float64
	Height  float64

	// ActionLabel and ActionTarget add the action bubble when both are set.
	ActionLabel  string
	ActionTarget string

	Placement Placement

	// Params overrides DefaultParams when non-nil.
	Params *Params

	// Rand takes precedence over Seed. A zero Seed with a nil Rand seeds
	// from the clock, so colors and positions vary between runs.
	Rand *rand.Rand
	Seed uint64
}

// HasAction reports whether the config describes an action bubble.
func (c Config) HasAction() bool {
	return c.ActionLabel != "" && c.ActionTarget != ""
}

// Validate checks the config without building an engine.
func (c Config) Validate() error {
	if err := errors.ValidateDimensions(c.Width, c.Height); err != nil {
		return err
	}
	if err := errors.ValidatePalette(c.Palette); err != nil {
		return err
	}
	for _, l := range c.Labels {
		if err := errors.ValidateLabel(l); err != nil {
			return err
		}
	}
	switch {
	case c.ActionLabel != "" && c.ActionTarget == "":
		return errors.New(errors.ErrCodeInvalidConfig, "action label %q has no target", c.ActionLabel)
	case c.ActionLabel == "" && c.ActionTarget != "":
		return errors.New(errors.ErrCodeInvalidConfig, "action target %q has no label", c.ActionTarget)
	case c.HasAction():
		if err := errors.ValidateURL(c.ActionTarget); err != nil {
			return err
		}
		if err := errors.ValidateLabel(c.ActionLabel); err != nil {
			return err
		}
	}
	switch c.Placement {
	case "", PlacementRandom, PlacementGrid:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown placement %q (must be random or grid)", c.Placement)
	}
	if c.Params != nil {
		return c.Params.Validate()
	}
	return nil
}

func (c Config) params() Params {
	if c.Params != nil {
		return *c.Params
	}
	return DefaultParams()
}
