// Package calib learns per-dimension adjustments from logged
// actual-vs-predicted deltas and applies them with confidence weighting.
// Calibrations are derived on demand from the session log, never stored.
package calib

import (
	"fmt"

	"github.com/jmorrow/coalens/internal/engine"
	"github.com/jmorrow/coalens/internal/product"
	"github.com/jmorrow/coalens/internal/score"
)

// #region repositories

// ProductRepo is the read side of product storage. The calibrator never
// writes; concurrent writers are the caller's concern.
type ProductRepo interface {
	Get(id string) (product.Product, bool, error)
}

// SessionRepo is the read side of the append-only session log.
type SessionRepo interface {
	List() ([]product.SessionLogEntry, error)
}

// #endregion repositories

// #region types

// Calibration is one dimension's learned offset.
type Calibration struct {
	Adjustment  float64 `json:"adjustment"` // mean(actual − predicted), signed
	Confidence  float64 `json:"confidence"` // 0..ConfidenceCeiling
	SampleCount int     `json:"sample_count"`
}

// Config holds the calibrator's tuning knobs.
type Config struct {
	ConfidenceDivisor float64 // confidence = sampleCount / this
	ConfidenceCeiling float64 // hard cap so sparse early data cannot override the model
}

// DefaultConfig returns the canonical calibration constants.
func DefaultConfig() Config {
	return Config{
		ConfidenceDivisor: 10,
		ConfidenceCeiling: 0.8,
	}
}

// #endregion types

// #region calibrator

// Calibrator derives per-dimension adjustments from session history.
type Calibrator struct {
	engine *engine.Engine
	mapper *score.Mapper
	config Config
}

// New creates a Calibrator over the given engine and mapper.
func New(eng *engine.Engine, mapper *score.Mapper, config Config) *Calibrator {
	return &Calibrator{engine: eng, mapper: mapper, config: config}
}

// Baseline computes the baseline score map for a product.
func (c *Calibrator) Baseline(p product.Product) map[string]float64 {
	return c.mapper.Map(c.engine.Evaluate(p))
}

// Calibrations recomputes every dimension's calibration from the full
// session log. Entries whose product is missing from the repository are
// skipped; they cannot yield a predicted score to compare against.
func (c *Calibrator) Calibrations(products ProductRepo, sessions SessionRepo) (map[string]Calibration, error) {
	entries, err := sessions.List()
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)

	for _, entry := range entries {
		p, ok, err := products.Get(entry.ProductID)
		if err != nil {
			return nil, fmt.Errorf("get product %s: %w", entry.ProductID, err)
		}
		if !ok {
			continue
		}
		predicted := c.Baseline(p)
		for dim, actual := range entry.Actuals {
			pred, ok := predicted[dim]
			if !ok {
				continue
			}
			sums[dim] += actual - pred
			counts[dim]++
		}
	}

	out := make(map[string]Calibration, len(counts))
	for dim, n := range counts {
		conf := float64(n) / c.config.ConfidenceDivisor
		if conf > c.config.ConfidenceCeiling {
			conf = c.config.ConfidenceCeiling
		}
		out[dim] = Calibration{
			Adjustment:  sums[dim] / float64(n),
			Confidence:  conf,
			SampleCount: n,
		}
	}
	return out, nil
}

// Personalize applies calibrations to a baseline score map. Dimensions
// with no calibration pass through unchanged.
func (c *Calibrator) Personalize(baseline map[string]float64, cals map[string]Calibration) map[string]float64 {
	out := make(map[string]float64, len(baseline))
	for dim, base := range baseline {
		cal, ok := cals[dim]
		if !ok {
			out[dim] = base
			continue
		}
		out[dim] = c.mapper.RoundStep(base + cal.Confidence*cal.Adjustment)
	}
	return out
}

// PersonalizedScores is the Baseline → Calibrations → Personalize
// pipeline for one product in a single call.
func (c *Calibrator) PersonalizedScores(p product.Product, products ProductRepo, sessions SessionRepo) (map[string]float64, error) {
	cals, err := c.Calibrations(products, sessions)
	if err != nil {
		return nil, err
	}
	return c.Personalize(c.Baseline(p), cals), nil
}

// #endregion calibrator
