// Package engine blends potency, terpene, and form signals into a
// bounded effect profile. Evaluate is a pure function: same product and
// config in, same profile out, no shared state.
package engine

import "github.com/jmorrow/coalens/internal/product"

// #region affine

// Affine is one dimension's base response to band potency p: Base + Slope·p.
type Affine struct {
	Base  float64
	Slope float64
}

// BaseCoeffs holds the per-dimension affine response to potency.
// Deliberately asymmetric: sedation and couch rise faster than head,
// clarity falls as potency rises.
type BaseCoeffs struct {
	Head     Affine
	Clarity  Affine
	Sedation Affine
	Couch    Affine
	Pain     Affine
}

// #endregion affine

// #region config

// Config exposes every tunable the engine uses. The reference material
// went through several divergent constant revisions; this is the one
// canonical set, and every knob is named here rather than inlined.
type Config struct {
	Bands []product.ThcBand
	Forms map[product.FormKey]product.FormProfile

	Base        BaseCoeffs
	TerpeneMods map[string]EffectVector // per-canonical-terpene deltas

	// Terpene modifier scaling.
	TerpStrengthDivisor float64 // terpStrength = clamp01(totalTerpenesPct / this)
	TerpeneConcCap      float64 // per-terpene weight = clamp01(pct / this)

	// Blend weights. Weighted average, not addition: the three must sum
	// to 1 so high signals cannot push dimensions past their inputs.
	ThcWeight  float64
	TerpWeight float64
	FormWeight float64

	// Small conservative per-form direct bias, blended at FormWeight.
	FormDirect map[product.FormKey]EffectVector

	// Additive intensity shaping, applied per unit of intensityMod above
	// 1. Additive rather than multiplicative: multiplicative scaling
	// saturated every dimension at the ceiling for high-intensity forms.
	IntensityHeadAdd     float64
	IntensitySedationAdd float64
	IntensityCouchAdd    float64
	IntensityPainAdd     float64
	IntensityClaritySub  float64

	// Anxiety correction rules, applied in order with a re-clamp after each.
	LimoneneCalmThresholdPct float64
	LimoneneCalmDelta        float64
	TerpinoleneRacyThreshold float64
	TerpinoleneRacyDelta     float64
	LowRetentionThreshold    float64
	LowRetentionMultiplier   float64

	// Standalone myrcene couch override.
	MyrceneCouchThresholdPct float64
	MyrceneCouchBoost        float64
}

// DefaultConfig returns the canonical constant set.
func DefaultConfig() Config {
	return Config{
		Bands: product.DefaultThcBands(),
		Forms: product.DefaultFormProfiles(),

		Base: BaseCoeffs{
			Head:     Affine{Base: 0.15, Slope: 0.55},
			Clarity:  Affine{Base: 0.55, Slope: -0.35},
			Sedation: Affine{Base: 0.10, Slope: 0.65},
			Couch:    Affine{Base: 0.05, Slope: 0.60},
			Pain:     Affine{Base: 0.10, Slope: 0.50},
		},

		TerpeneMods: map[string]EffectVector{
			"caryophyllene": {Pain: 0.10, Sedation: 0.06, Head: -0.04},
			"linalool":      {Sedation: 0.12, Couch: 0.08, Clarity: -0.06, Head: -0.04},
			"limonene":      {Head: 0.10, Clarity: 0.08, Sedation: -0.06},
			"myrcene":       {Sedation: 0.12, Couch: 0.10, Clarity: -0.06, Head: -0.04},
			"pinene":        {Clarity: 0.12, Sedation: -0.06},
			"terpinolene":   {Head: 0.10, Clarity: -0.08},
			"humulene":      {Pain: 0.06, Sedation: 0.04},
			"bisabolol":     {Pain: 0.05, Sedation: 0.04},
			"ocimene":       {Head: 0.04, Sedation: -0.03},
			"guaiol":        {Sedation: 0.03, Pain: 0.03},
		},

		TerpStrengthDivisor: 10,
		TerpeneConcCap:      1.5,

		ThcWeight:  0.65,
		TerpWeight: 0.25,
		FormWeight: 0.10,

		FormDirect: map[product.FormKey]EffectVector{
			product.FormFlower:      {Head: 0.45, Clarity: 0.45, Sedation: 0.40, Couch: 0.35, Pain: 0.40},
			product.FormVape:        {Head: 0.55, Clarity: 0.50, Sedation: 0.35, Couch: 0.30, Pain: 0.35},
			product.FormConcentrate: {Head: 0.60, Clarity: 0.30, Sedation: 0.55, Couch: 0.55, Pain: 0.50},
			product.FormLiveResin:   {Head: 0.60, Clarity: 0.40, Sedation: 0.50, Couch: 0.45, Pain: 0.45},
			product.FormEdible:      {Head: 0.40, Clarity: 0.25, Sedation: 0.60, Couch: 0.55, Pain: 0.50},
			product.FormTopical:     {},
		},

		IntensityHeadAdd:     0.05,
		IntensitySedationAdd: 0.18,
		IntensityCouchAdd:    0.14,
		IntensityPainAdd:     0.10,
		IntensityClaritySub:  0.10,

		LimoneneCalmThresholdPct: 0.3,
		LimoneneCalmDelta:        0.08,
		TerpinoleneRacyThreshold: 0.3,
		TerpinoleneRacyDelta:     0.08,
		LowRetentionThreshold:    0.5,
		LowRetentionMultiplier:   1.15,

		MyrceneCouchThresholdPct: 0.5,
		MyrceneCouchBoost:        0.12,
	}
}

// #endregion config

// #region profile

// Meta carries intermediate values useful for inspection and logging.
type Meta struct {
	Potency      float64         `json:"potency"`
	TerpStrength float64         `json:"terp_strength"`
	Band         product.ThcBand `json:"-"`
	IntensityMod float64         `json:"intensity_mod"`
}

// Profile is the engine's full output for one product.
type Profile struct {
	Effects       EffectVector `json:"effects"`
	AnxietyRisk   float64      `json:"anxiety_risk"`
	DurationHours float64      `json:"duration_hours"`
	OnsetMinutes  float64      `json:"onset_minutes"`
	Meta          Meta         `json:"meta"`
}

// #endregion profile
