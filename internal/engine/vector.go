package engine

// #region dimensions

// Dimensions lists the five felt-effect dimension names in canonical order.
var Dimensions = []string{"head", "clarity", "sedation", "couch", "pain"}

// #endregion dimensions

// #region effect-vector

// EffectVector is the five-dimensional felt-effect signal, each value in
// [0,1]. Anxiety risk is tracked outside the vector because it follows
// additive/multiplicative rules instead of the blend.
type EffectVector struct {
	Head     float64 `json:"head"`
	Clarity  float64 `json:"clarity"`
	Sedation float64 `json:"sedation"`
	Couch    float64 `json:"couch"`
	Pain     float64 `json:"pain"`
}

// Get returns the named dimension, 0 for unknown names.
func (v EffectVector) Get(dim string) float64 {
	switch dim {
	case "head":
		return v.Head
	case "clarity":
		return v.Clarity
	case "sedation":
		return v.Sedation
	case "couch":
		return v.Couch
	case "pain":
		return v.Pain
	}
	return 0
}

// AsMap returns the vector keyed by dimension name.
func (v EffectVector) AsMap() map[string]float64 {
	return map[string]float64{
		"head":     v.Head,
		"clarity":  v.Clarity,
		"sedation": v.Sedation,
		"couch":    v.Couch,
		"pain":     v.Pain,
	}
}

// apply runs f over every dimension in place.
func (v *EffectVector) apply(f func(float64) float64) {
	v.Head = f(v.Head)
	v.Clarity = f(v.Clarity)
	v.Sedation = f(v.Sedation)
	v.Couch = f(v.Couch)
	v.Pain = f(v.Pain)
}

// Clamped returns the vector with every dimension clamped to [0,1].
func (v EffectVector) Clamped() EffectVector {
	v.apply(clamp01)
	return v
}

// Add returns v + w, unclamped.
func (v EffectVector) Add(w EffectVector) EffectVector {
	return EffectVector{
		Head:     v.Head + w.Head,
		Clarity:  v.Clarity + w.Clarity,
		Sedation: v.Sedation + w.Sedation,
		Couch:    v.Couch + w.Couch,
		Pain:     v.Pain + w.Pain,
	}
}

// Scale returns v with every dimension multiplied by s, unclamped.
func (v EffectVector) Scale(s float64) EffectVector {
	return EffectVector{
		Head:     v.Head * s,
		Clarity:  v.Clarity * s,
		Sedation: v.Sedation * s,
		Couch:    v.Couch * s,
		Pain:     v.Pain * s,
	}
}

// #endregion effect-vector

// #region clamp

// clamp01 restricts v to [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// #endregion clamp
