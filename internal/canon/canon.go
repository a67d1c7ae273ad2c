// Package canon maps raw terpene labels onto a fixed canonical
// vocabulary and merges duplicate occurrences.
package canon

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jmorrow/coalens/internal/product"
)

// #region vocabulary

// Canonical is the fixed terpene vocabulary. Labels that normalize to
// anything else pass through unchanged rather than being discarded.
var Canonical = map[string]bool{
	"caryophyllene": true,
	"humulene":      true,
	"limonene":      true,
	"myrcene":       true,
	"pinene":        true,
	"bisabolol":     true,
	"ocimene":       true,
	"linalool":      true,
	"terpinolene":   true,
	"guaiol":        true,
}

// synonyms collapses label variants onto canonical names. The
// terpineol→terpinolene entry is a forced merge carried over from the
// reference data, not a chemical equivalence.
var synonyms = map[string]string{
	"ocimenes":  "ocimene",
	"terpineol": "terpinolene",
}

// stereoPrefixes are stereochemical/positional lead tokens stripped
// before matching. Stripping runs twice to handle compound prefixes
// such as "d-alpha-".
var stereoPrefixes = map[string]bool{
	"alpha": true,
	"beta":  true,
	"a":     true,
	"b":     true,
	"d":     true,
}

// #endregion vocabulary

// #region diacritics

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldDiacritics removes combining marks, so "β-Caryophyllène" and
// "beta caryophyllene" normalize identically.
func foldDiacritics(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		return s
	}
	return out
}

// #endregion diacritics

// #region name

// Name maps a raw terpene label to its canonical form. Unknown labels
// come back as their last normalized token so novel terpenes survive.
func Name(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	s = strings.ReplaceAll(s, "β", "beta")
	s = strings.ReplaceAll(s, "α", "alpha")
	s = foldDiacritics(s)
	s = strings.ToLower(s)

	for _, sep := range []string{"-", "_", "/"} {
		s = strings.ReplaceAll(s, sep, " ")
	}
	fields := strings.Fields(s)

	// Two passes: "d alpha pinene" sheds both lead tokens.
	for i := 0; i < 2; i++ {
		if len(fields) > 1 && stereoPrefixes[fields[0]] {
			fields = fields[1:]
		}
	}
	if len(fields) == 0 {
		return ""
	}
	s = strings.Join(fields, " ")

	if syn, ok := synonyms[s]; ok {
		return syn
	}
	if Canonical[s] {
		return s
	}

	last := fields[len(fields)-1]
	if syn, ok := synonyms[last]; ok {
		return syn
	}
	return last
}

// #endregion name

// #region merge

// Merge canonicalizes every (raw name, pct) candidate and sums the
// percentages of entries that land on the same canonical key. Sum, not
// max: a lab listing "alpha-Pinene 0.3" and "beta-Pinene 0.2" reports
// 0.5 total pinene. Output order follows first appearance.
func Merge(candidates []product.Terpene) []product.Terpene {
	totals := make(map[string]float64, len(candidates))
	order := make([]string, 0, len(candidates))

	for _, c := range candidates {
		key := Name(c.Name)
		if key == "" {
			continue
		}
		if _, seen := totals[key]; !seen {
			order = append(order, key)
		}
		totals[key] += c.Pct
	}

	out := make([]product.Terpene, 0, len(order))
	for _, key := range order {
		out = append(out, product.Terpene{Name: key, Pct: totals[key]})
	}
	return out
}

// #endregion merge
