// Package product defines the typed records shared across the parse and
// scoring pipeline, plus the fixed THC band and form profile tables.
package product

import "time"

// #region product

// Metrics holds the document-level percentages recovered from a COA.
// A nil field means the value could not be recovered from the text.
type Metrics struct {
	TotalThcPct      *float64 `json:"total_thc_pct"`
	TotalTerpenesPct *float64 `json:"total_terpenes_pct"`
}

// Terpene is one canonical-name terpene with its concentration percent.
type Terpene struct {
	Name string  `json:"name"`
	Pct  float64 `json:"pct"`
}

// Product is an immutable parsed COA. The terpene list is the one field
// callers may replace wholesale (manual correction); everything else is
// fixed at parse time.
type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	FormRaw   string    `json:"form_raw"`
	FormKey   FormKey   `json:"form_key"`
	Metrics   Metrics   `json:"metrics"`
	Terpenes  []Terpene `json:"terpenes"`
	CreatedAt time.Time `json:"created_at"`
}

// TerpenePct returns the concentration of the named canonical terpene,
// or 0 when absent.
func (p Product) TerpenePct(name string) float64 {
	for _, t := range p.Terpenes {
		if t.Name == name {
			return t.Pct
		}
	}
	return 0
}

// #endregion product

// #region session

// SessionLogEntry is one user-reported outcome for a product. The log is
// append-only and owned by the calling application; the core only reads it.
type SessionLogEntry struct {
	ID        string             `json:"id"`
	At        time.Time          `json:"at"`
	ProductID string             `json:"product_id"`
	Actuals   map[string]float64 `json:"actuals"` // dimension → reported 0..5
	Notes     string             `json:"notes"`
}

// #endregion session

// #region float-helpers

// FloatPtr returns a pointer to v. Convenience for optional metrics.
func FloatPtr(v float64) *float64 { return &v }

// FloatOrZero dereferences p, treating nil as 0.
func FloatOrZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// #endregion float-helpers
