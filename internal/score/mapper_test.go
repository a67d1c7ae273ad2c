package score

import (
	"math"
	"testing"

	"github.com/jmorrow/coalens/internal/engine"
)

func TestMapOutputsAreHalfSteps(t *testing.T) {
	m := New(DefaultConfig())
	prof := engine.Profile{
		Effects: engine.EffectVector{
			Head: 0.37, Clarity: 0.61, Sedation: 0.44, Couch: 0.29, Pain: 0.52,
		},
		DurationHours: 7.2,
	}
	scores := m.Map(prof)
	if len(scores) != 6 {
		t.Fatalf("expected 5 dimensions + duration, got %d", len(scores))
	}
	for dim, v := range scores {
		if v < 0 || v > 5 {
			t.Fatalf("%s = %f outside [0,5]", dim, v)
		}
		if r := math.Mod(v*2, 1); r != 0 {
			t.Fatalf("%s = %f is not a multiple of 0.5", dim, v)
		}
	}
}

func TestMapExtremes(t *testing.T) {
	m := New(DefaultConfig())

	floor := m.Map(engine.Profile{})
	for dim, v := range floor {
		if v != 0 {
			t.Fatalf("zero vector must map to 0, got %s=%f", dim, v)
		}
	}

	ceil := m.Map(engine.Profile{
		Effects:       engine.EffectVector{Head: 1, Clarity: 1, Sedation: 1, Couch: 1, Pain: 1},
		DurationHours: 30,
	})
	for dim, v := range ceil {
		if v != 5 {
			t.Fatalf("saturated input must map to 5, got %s=%f", dim, v)
		}
	}
}

func TestMapMidRangeDoesNotClusterAtCeiling(t *testing.T) {
	m := New(DefaultConfig())
	scores := m.Map(engine.Profile{
		Effects: engine.EffectVector{Head: 0.5, Clarity: 0.5, Sedation: 0.5, Couch: 0.5, Pain: 0.5},
	})
	for _, dim := range engine.Dimensions {
		if scores[dim] >= 4.5 {
			t.Fatalf("mid-range input should not sit at the ceiling: %s=%f", dim, scores[dim])
		}
		if scores[dim] <= 1.0 {
			t.Fatalf("mid-range input should not sit at the floor: %s=%f", dim, scores[dim])
		}
	}
}

func TestDurationLinearMapping(t *testing.T) {
	m := New(DefaultConfig())
	scores := m.Map(engine.Profile{DurationHours: 9})
	// 9h over an 18h range is exactly half the scale.
	if scores["duration"] != 2.5 {
		t.Fatalf("expected duration 2.5, got %f", scores["duration"])
	}
}

func TestRoundStep(t *testing.T) {
	m := New(DefaultConfig())
	cases := []struct{ in, want float64 }{
		{0.24, 0},
		{0.26, 0.5},
		{2.4, 2.5},
		{4.74, 4.5},
		{5.9, 5},
		{-1, 0},
	}
	for _, c := range cases {
		if got := m.RoundStep(c.in); got != c.want {
			t.Fatalf("RoundStep(%f) = %f, want %f", c.in, got, c.want)
		}
	}
}
