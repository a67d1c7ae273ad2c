// Package score rescales raw effect vectors into the human-facing 0..5
// scale, in half-point steps.
package score

import (
	"math"

	"github.com/jmorrow/coalens/internal/engine"
)

// #region config

// Curve holds one dimension's rescaling constants. Raw input is first
// normalized over [Lo, Hi], then curved by Gamma.
type Curve struct {
	Lo    float64
	Hi    float64
	Gamma float64
}

// Config holds the mapper's per-dimension curves and output shape.
type Config struct {
	Curves map[string]Curve
	Step   float64 // output granularity
	// Duration is mapped linearly and separately over [0, DurationMaxHours].
	DurationMaxHours float64
}

// DefaultConfig returns the canonical curve set. Lo/Hi/Gamma are chosen
// so typical mid-range inputs spread across the scale instead of
// clustering at the ceiling.
func DefaultConfig() Config {
	return Config{
		Curves: map[string]Curve{
			"head":     {Lo: 0.05, Hi: 0.85, Gamma: 0.9},
			"clarity":  {Lo: 0.05, Hi: 0.90, Gamma: 1.0},
			"sedation": {Lo: 0.08, Hi: 0.85, Gamma: 1.1},
			"couch":    {Lo: 0.08, Hi: 0.85, Gamma: 1.1},
			"pain":     {Lo: 0.05, Hi: 0.85, Gamma: 1.0},
		},
		Step:             0.5,
		DurationMaxHours: 18,
	}
}

// #endregion config

// #region mapper

// Mapper converts engine profiles into bounded 0..5 score maps.
type Mapper struct {
	config Config
}

// New creates a Mapper with the given configuration.
func New(config Config) *Mapper {
	return &Mapper{config: config}
}

// Map rescales every effect dimension plus duration. All outputs are
// multiples of Step within [0, 5].
func (m *Mapper) Map(prof engine.Profile) map[string]float64 {
	out := make(map[string]float64, len(engine.Dimensions)+1)
	for _, dim := range engine.Dimensions {
		curve := m.config.Curves[dim]
		out[dim] = m.RoundStep(m.scaleOne(prof.Effects.Get(dim), curve))
	}
	out["duration"] = m.RoundStep(clamp(prof.DurationHours/m.config.DurationMaxHours*5, 0, 5))
	return out
}

// scaleOne maps x∈[0,1] to 0..5 through one curve.
func (m *Mapper) scaleOne(x float64, c Curve) float64 {
	span := c.Hi - c.Lo
	if span <= 0 {
		return 0
	}
	norm := (x - c.Lo) / span
	if norm < 0 {
		norm = 0
	}
	if norm > 1 {
		norm = 1
	}
	gamma := c.Gamma
	if gamma <= 0 {
		gamma = 1
	}
	return 5 * math.Pow(norm, gamma)
}

// RoundStep snaps v onto the configured step grid, clamped to [0, 5].
func (m *Mapper) RoundStep(v float64) float64 {
	step := m.config.Step
	if step <= 0 {
		step = 0.5
	}
	return clamp(math.Round(v/step)*step, 0, 5)
}

// clamp restricts v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// #endregion mapper
