package product

import "math"

// #region thc-band

// ThcBand is one half-open potency range [Min, Max) over THC percent with
// its baseline anxiety risk and potency weight.
type ThcBand struct {
	Min         float64
	Max         float64 // math.Inf(1) on the top band
	AnxietyRisk float64 // baseline, 0..1
	Potency     float64 // 0..1
}

// DefaultThcBands returns the canonical band table. Bands partition
// [0, +inf) so exactly one band matches any non-negative percent.
func DefaultThcBands() []ThcBand {
	return []ThcBand{
		{Min: 0, Max: 10, AnxietyRisk: 0.05, Potency: 0.15},
		{Min: 10, Max: 15, AnxietyRisk: 0.10, Potency: 0.30},
		{Min: 15, Max: 20, AnxietyRisk: 0.18, Potency: 0.45},
		{Min: 20, Max: 25, AnxietyRisk: 0.28, Potency: 0.60},
		{Min: 25, Max: 30, AnxietyRisk: 0.40, Potency: 0.75},
		{Min: 30, Max: math.Inf(1), AnxietyRisk: 0.55, Potency: 0.90},
	}
}

// BandFor resolves the band containing thcPct. Negative or NaN input is
// coerced to 0 (lowest band) rather than failing.
func BandFor(bands []ThcBand, thcPct float64) ThcBand {
	if math.IsNaN(thcPct) || thcPct < 0 {
		thcPct = 0
	}
	for _, b := range bands {
		if thcPct >= b.Min && thcPct < b.Max {
			return b
		}
	}
	// Unreachable with a partitioning table; fall back to the top band.
	return bands[len(bands)-1]
}

// #endregion thc-band
