package engine

import "github.com/jmorrow/coalens/internal/product"

// #region engine

// Engine computes baseline effect profiles from parsed products.
type Engine struct {
	config Config
}

// New creates an Engine with the given configuration.
func New(config Config) *Engine {
	return &Engine{config: config}
}

// #endregion engine

// #region evaluate

// Evaluate computes the effect profile for a product. It never fails:
// missing numeric inputs are coerced to 0, which lands THC in the lowest
// band — a documented approximation, not an error.
func (e *Engine) Evaluate(p product.Product) Profile {
	cfg := e.config

	thcPct := product.FloatOrZero(p.Metrics.TotalThcPct)
	terpPct := product.FloatOrZero(p.Metrics.TotalTerpenesPct)
	band := product.BandFor(cfg.Bands, thcPct)
	form := product.ProfileFor(cfg.Forms, p.FormKey)

	// 1–2. THC base vector: fixed affine response to band potency.
	pot := band.Potency
	base := EffectVector{
		Head:     cfg.Base.Head.Base + cfg.Base.Head.Slope*pot,
		Clarity:  cfg.Base.Clarity.Base + cfg.Base.Clarity.Slope*pot,
		Sedation: cfg.Base.Sedation.Base + cfg.Base.Sedation.Slope*pot,
		Couch:    cfg.Base.Couch.Base + cfg.Base.Couch.Slope*pot,
		Pain:     cfg.Base.Pain.Base + cfg.Base.Pain.Slope*pot,
	}.Clamped()

	// 3. Terpene-adjusted vector: additive per-terpene deltas, scaled by
	// overall terpene strength and a soft-capped concentration weight,
	// clamped after each modifier.
	terpStrength := clamp01(terpPct / cfg.TerpStrengthDivisor)
	adjusted := base
	for _, t := range p.Terpenes {
		mod, ok := cfg.TerpeneMods[t.Name]
		if !ok {
			continue
		}
		weight := terpStrength * clamp01(t.Pct/cfg.TerpeneConcCap)
		adjusted = adjusted.Add(mod.Scale(weight)).Clamped()
	}

	// 4–5. Weighted blend of the three signals. Weights sum to 1, so the
	// result stays inside the inputs' envelope instead of growing. An
	// unknown form falls back to flower here too, matching ProfileFor.
	formDirect, ok := cfg.FormDirect[p.FormKey]
	if !ok {
		formDirect = cfg.FormDirect[product.FormFlower]
	}
	blended := base.Scale(cfg.ThcWeight).
		Add(adjusted.Scale(cfg.TerpWeight)).
		Add(formDirect.Scale(cfg.FormWeight)).
		Clamped()

	// 6. Intensity shaping: additive per unit of intensity above 1.
	if i := form.IntensityMod - 1; i > 0 {
		blended = blended.Add(EffectVector{
			Head:     cfg.IntensityHeadAdd * i,
			Clarity:  -cfg.IntensityClaritySub * i,
			Sedation: cfg.IntensitySedationAdd * i,
			Couch:    cfg.IntensityCouchAdd * i,
			Pain:     cfg.IntensityPainAdd * i,
		}).Clamped()
	}

	// 7. Anxiety risk: band baseline plus form offset, then three
	// independent corrective rules, re-clamping after each.
	anxiety := clamp01(band.AnxietyRisk + form.AnxietyRiskAdd)
	if p.TerpenePct("limonene") > cfg.LimoneneCalmThresholdPct {
		anxiety = clamp01(anxiety - cfg.LimoneneCalmDelta)
	}
	if p.TerpenePct("terpinolene") > cfg.TerpinoleneRacyThreshold {
		anxiety = clamp01(anxiety + cfg.TerpinoleneRacyDelta)
	}
	if form.TerpeneRetention < cfg.LowRetentionThreshold {
		anxiety = clamp01(anxiety * cfg.LowRetentionMultiplier)
	}

	// 8. Myrcene couch override, separate from the anxiety corrections.
	if p.TerpenePct("myrcene") > cfg.MyrceneCouchThresholdPct {
		blended.Couch = clamp01(blended.Couch + cfg.MyrceneCouchBoost)
	}

	// Sub-unit intensity damps every felt dimension; topical's 0 zeroes
	// them outright.
	if form.IntensityMod < 1 {
		blended = blended.Scale(form.IntensityMod).Clamped()
	}

	// 9. Duration/onset metadata.
	return Profile{
		Effects:       blended,
		AnxietyRisk:   anxiety,
		DurationHours: form.BaseDurationHrs * form.DurationMod,
		OnsetMinutes:  form.OnsetMinutes,
		Meta: Meta{
			Potency:      pot,
			TerpStrength: terpStrength,
			Band:         band,
			IntensityMod: form.IntensityMod,
		},
	}
}

// #endregion evaluate
