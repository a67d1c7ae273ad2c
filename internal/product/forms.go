package product

import "strings"

// #region form-key

// FormKey is a normalized product form.
type FormKey string

const (
	FormFlower      FormKey = "flower"
	FormVape        FormKey = "vape"
	FormConcentrate FormKey = "concentrate"
	FormLiveResin   FormKey = "live_resin"
	FormEdible      FormKey = "edible"
	FormTopical     FormKey = "topical"
)

// #endregion form-key

// #region form-profile

// FormProfile carries the per-form modifiers applied by the effect engine.
type FormProfile struct {
	IntensityMod     float64 // 0 for topical, which zeroes felt effects downstream
	DurationMod      float64
	AnxietyRiskAdd   float64
	TerpeneRetention float64 // fraction of terpene content assumed preserved
	OnsetMinutes     float64
	BaseDurationHrs  float64
}

// DefaultFormProfiles returns the canonical per-form modifier table.
func DefaultFormProfiles() map[FormKey]FormProfile {
	return map[FormKey]FormProfile{
		FormFlower:      {IntensityMod: 1.0, DurationMod: 1.0, AnxietyRiskAdd: 0, TerpeneRetention: 0.85, OnsetMinutes: 8, BaseDurationHrs: 2.5},
		FormVape:        {IntensityMod: 1.15, DurationMod: 0.8, AnxietyRiskAdd: 0.02, TerpeneRetention: 0.70, OnsetMinutes: 5, BaseDurationHrs: 2.0},
		FormConcentrate: {IntensityMod: 1.45, DurationMod: 1.1, AnxietyRiskAdd: 0.10, TerpeneRetention: 0.55, OnsetMinutes: 5, BaseDurationHrs: 3.0},
		FormLiveResin:   {IntensityMod: 1.35, DurationMod: 1.05, AnxietyRiskAdd: 0.06, TerpeneRetention: 0.95, OnsetMinutes: 5, BaseDurationHrs: 3.0},
		FormEdible:      {IntensityMod: 1.25, DurationMod: 2.4, AnxietyRiskAdd: 0.08, TerpeneRetention: 0.40, OnsetMinutes: 60, BaseDurationHrs: 6.0},
		FormTopical:     {IntensityMod: 0, DurationMod: 1.0, AnxietyRiskAdd: -0.25, TerpeneRetention: 0.50, OnsetMinutes: 20, BaseDurationHrs: 4.0},
	}
}

// ProfileFor resolves the profile for a form key. Unknown or empty keys
// fall back to the flower profile, the most conservative inhaled form.
func ProfileFor(profiles map[FormKey]FormProfile, key FormKey) FormProfile {
	if p, ok := profiles[key]; ok {
		return p
	}
	return profiles[FormFlower]
}

// #endregion form-profile

// #region form-normalization

// formKeywords maps raw-label substrings to form keys, checked in order.
// More specific labels come before generic ones ("live resin" before
// "resin", which would otherwise land on concentrate).
var formKeywords = []struct {
	token string
	key   FormKey
}{
	{"live resin", FormLiveResin},
	{"live badder", FormLiveResin},
	{"live rosin", FormLiveResin},
	{"badder", FormConcentrate},
	{"budder", FormConcentrate},
	{"rosin", FormConcentrate},
	{"resin", FormConcentrate},
	{"shatter", FormConcentrate},
	{"wax", FormConcentrate},
	{"crumble", FormConcentrate},
	{"diamond", FormConcentrate},
	{"sauce", FormConcentrate},
	{"concentrate", FormConcentrate},
	{"extract", FormConcentrate},
	{"cartridge", FormVape},
	{"cart", FormVape},
	{"vape", FormVape},
	{"pod", FormVape},
	{"disposable", FormVape},
	{"gummy", FormEdible},
	{"gummies", FormEdible},
	{"edible", FormEdible},
	{"chocolate", FormEdible},
	{"beverage", FormEdible},
	{"tincture", FormEdible},
	{"capsule", FormEdible},
	{"topical", FormTopical},
	{"balm", FormTopical},
	{"salve", FormTopical},
	{"lotion", FormTopical},
	{"cream", FormTopical},
	{"flower", FormFlower},
	{"bud", FormFlower},
	{"pre-roll", FormFlower},
	{"preroll", FormFlower},
	{"pre roll", FormFlower},
}

// NormalizeForm maps a raw form label to a FormKey. Returns "" when no
// keyword matches; callers treat that as form unknown, not an error.
func NormalizeForm(raw string) FormKey {
	lower := strings.ToLower(strings.TrimSpace(raw))
	if lower == "" {
		return ""
	}
	for _, kw := range formKeywords {
		if strings.Contains(lower, kw.token) {
			return kw.key
		}
	}
	return ""
}

// FormKeywords returns the raw tokens the extractor may scan body text
// for when no labeled form line exists.
func FormKeywords() []string {
	out := make([]string, len(formKeywords))
	for i, kw := range formKeywords {
		out[i] = kw.token
	}
	return out
}

// #endregion form-normalization
