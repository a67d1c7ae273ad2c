package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jmorrow/coalens/internal/product"
)

// #region extractor

// Extractor runs the per-field fallback chains over normalized text.
type Extractor struct {
	config Config
}

// New creates an Extractor with the given configuration.
func New(config Config) *Extractor {
	return &Extractor{config: config}
}

// Extract recovers all fields from normalized text. filename is the
// caller-supplied last-resort product name; pass "" when unavailable.
func (e *Extractor) Extract(text, filename string) Fields {
	f := Fields{
		Name:             e.productName(text, filename),
		TotalThcPct:      e.totalThc(text),
		TotalTerpenesPct: e.totalTerpenes(text),
		Terpenes:         e.terpeneLines(text),
	}
	f.FormRaw = e.formRaw(text)
	f.FormKey = product.NormalizeForm(f.FormRaw)
	return f
}

// #endregion extractor

// #region name-patterns

var (
	productNameLabel = regexp.MustCompile(`(?im)^\s*Product Name\s*[:\-]\s*(.+)$`)
	cultivarLabel    = regexp.MustCompile(`(?im)^\s*Cultivar\s*[:\-]\s*(.+)$`)
	matrixLabel      = regexp.MustCompile(`(?im)^\s*(?:Sample Matrix|Matrix|Form)\s*[:\-]\s*(.+)$`)
)

// productName chain: "Product Name:" label → "Cultivar:" label (with a
// "Sample Matrix:" suffix when present) → first non-empty line →
// caller-supplied filename.
func (e *Extractor) productName(text, filename string) string {
	if m := productNameLabel.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := cultivarLabel.FindStringSubmatch(text); m != nil {
		name := strings.TrimSpace(m[1])
		if mm := matrixLabel.FindStringSubmatch(text); mm != nil {
			name += " " + strings.TrimSpace(mm[1])
		}
		return name
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return strings.TrimSpace(filename)
}

// #endregion name-patterns

// #region form-patterns

var formBodyScan = buildFormBodyScan()

// buildFormBodyScan compiles a word-bounded alternation of the known
// form keywords, longest first so "live resin" wins over "resin".
func buildFormBodyScan() *regexp.Regexp {
	kws := product.FormKeywords()
	quoted := make([]string, len(kws))
	for i, kw := range kws {
		quoted[i] = regexp.QuoteMeta(kw)
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`)
}

// formRaw chain: "Sample Matrix:"/"Form:" label → keyword scan over the
// whole document → "".
func (e *Extractor) formRaw(text string) string {
	if m := matrixLabel.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := formBodyScan.FindString(text); m != "" {
		return m
	}
	return ""
}

// #endregion form-patterns

// #region thc-patterns

var (
	totalThcLine  = regexp.MustCompile(`(?i)\bTotal[ \-]?THC\b[^%\n]*?(\d{1,3}(?:\.\d+)?)\s*%`)
	totalThcLabel = regexp.MustCompile(`(?i)\bTotal[ \-]?THC\b`)
	percentValue  = regexp.MustCompile(`(\d{1,3}(?:\.\d+)?)\s*%`)
	delta9Line    = regexp.MustCompile(`(?i)(?:Δ\s*9|Delta[ \-]?9|d9)[ \-]?\s*THC\b[^%\n]*?(\d{1,3}(?:\.\d+)?)\s*%`)
	thcaLine      = regexp.MustCompile(`(?i)\bTHC[\-]?A\b[^%\n]*?(\d{1,3}(?:\.\d+)?)\s*%`)
	potencyBlock  = regexp.MustCompile(`(?is)POTENCY\s+SUMMARY(.{0,600})`)
)

// totalThc chain: explicit "Total THC … NN%" on one line → a percent
// within LabelWindow chars after the label → Δ9 + THCa·0.877 → max
// plausible percent inside a POTENCY SUMMARY block.
func (e *Extractor) totalThc(text string) *float64 {
	if m := totalThcLine.FindStringSubmatch(text); m != nil {
		if v, ok := e.saneThc(m[1]); ok {
			return product.FloatPtr(v)
		}
	}

	if loc := totalThcLabel.FindStringIndex(text); loc != nil {
		end := loc[1] + e.config.LabelWindow
		if end > len(text) {
			end = len(text)
		}
		if m := percentValue.FindStringSubmatch(text[loc[1]:end]); m != nil {
			if v, ok := e.saneThc(m[1]); ok {
				return product.FloatPtr(v)
			}
		}
	}

	// Derive from component acids. 0.877 accounts for decarboxylation
	// mass loss from THCa to active THC. Flower reports often list only
	// THCa, so either component alone is enough.
	derived := 0.0
	found := false
	if m := delta9Line.FindStringSubmatch(text); m != nil {
		if d9, ok := e.saneThc(m[1]); ok {
			derived += d9
			found = true
		}
	}
	if m := thcaLine.FindStringSubmatch(text); m != nil {
		if thca, ok := e.saneThc(m[1]); ok {
			derived += thca * e.config.DecarbFactor
			found = true
		}
	}
	if found {
		return product.FloatPtr(derived)
	}

	// Last resort: biggest plausible percent in a potency summary.
	if m := potencyBlock.FindStringSubmatch(text); m != nil {
		best := 0.0
		for _, pm := range percentValue.FindAllStringSubmatch(m[1], -1) {
			v, err := strconv.ParseFloat(pm[1], 64)
			if err != nil {
				continue
			}
			if v > e.config.MinPlausibleThc && v < e.config.MaxPlausibleThc && v > best {
				best = v
			}
		}
		if best > 0 {
			return product.FloatPtr(best)
		}
	}

	return nil
}

// saneThc parses s and rejects values outside [0, MaxPlausibleThc].
func (e *Extractor) saneThc(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || v > e.config.MaxPlausibleThc {
		return 0, false
	}
	return v, true
}

// #endregion thc-patterns

// #region terpene-total-patterns

var (
	totalTerpLine = regexp.MustCompile(`(?i)\bTotal[ \-]?Terpenes?\b[^%\n]*?(\d{1,3}(?:\.\d+)?)\s*%`)
	totalTerpMgG  = regexp.MustCompile(`(?i)\bTotal[ \-]?Terpenes?\b[^\n]*?(\d+(?:\.\d+)?)\s*mg\s*/\s*g`)
	totalTerpMgG2 = regexp.MustCompile(`(?i)\bTotal[ \-]?Terpenes?\b[^0-9\n]*mg\s*/\s*g[^0-9\n]*(\d+(?:\.\d+)?)`)
	totalTerpBare = regexp.MustCompile(`(?i)\bTotal[ \-]?Terpenes?\b[^0-9\n]*(\d+(?:\.\d+)?)`)
)

// totalTerpenes chain: explicit percent → mg/g divided by 10 → bare
// number with magnitude-based unit disambiguation. Some labs omit the
// unit entirely; the raw number's order of magnitude is the only clue.
func (e *Extractor) totalTerpenes(text string) *float64 {
	if m := totalTerpLine.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v >= 0 {
			return product.FloatPtr(v)
		}
	}
	for _, re := range []*regexp.Regexp{totalTerpMgG, totalTerpMgG2} {
		if m := re.FindStringSubmatch(text); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil && v >= 0 {
				return product.FloatPtr(v / e.config.MgPerGramDivisor)
			}
		}
	}
	if m := totalTerpBare.FindStringSubmatch(text); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil || v < 0 {
			return nil
		}
		switch {
		case v > e.config.MgPerKgThreshold:
			v /= e.config.MgPerKgDivisor
		case v > e.config.MgPerGThreshold:
			v /= e.config.MgPerGramDivisor
		}
		return product.FloatPtr(v)
	}
	return nil
}

// #endregion terpene-total-patterns
