// Package extract recovers labeled fields and terpene lines from
// normalized COA text. Each field runs its own ordered fallback chain;
// a field no pattern can recover is left unset rather than failing the
// document.
package extract

import "github.com/jmorrow/coalens/internal/product"

// #region config

// Config holds the extractor's tuning knobs.
type Config struct {
	LabelWindow      int     // chars after a label to scan for a loose percent value
	MinPlausibleThc  float64 // lower bound for the potency-summary fallback
	MaxPlausibleThc  float64 // upper bound for any recovered THC percent
	MaxTerpenePct    float64 // per-terpene plausibility ceiling
	DecarbFactor     float64 // THCa → THC mass conversion
	MgPerGramDivisor float64 // mg/g → percent conversion

	// Unit disambiguation for unitless terpene totals: values above
	// MgPerKgThreshold read as mg/kg, above MgPerGThreshold as mg/g.
	MgPerKgThreshold float64
	MgPerKgDivisor   float64
	MgPerGThreshold  float64
}

// DefaultConfig returns the canonical extractor constants.
func DefaultConfig() Config {
	return Config{
		LabelWindow:      300,
		MinPlausibleThc:  5,
		MaxPlausibleThc:  99,
		MaxTerpenePct:    50,
		DecarbFactor:     0.877,
		MgPerGramDivisor: 10,
		MgPerKgThreshold: 300,
		MgPerKgDivisor:   100,
		MgPerGThreshold:  30,
	}
}

// #endregion config

// #region fields

// Fields bundles everything the extractor recovered from one document.
// Nil percents mean the value was not recoverable.
type Fields struct {
	Name             string
	FormRaw          string
	FormKey          product.FormKey
	TotalThcPct      *float64
	TotalTerpenesPct *float64
	Terpenes         []product.Terpene // raw names; canonicalization happens downstream
}

// #endregion fields
