package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jmorrow/coalens/internal/product"
)

// #region section-bounding

var (
	terpeneHeading = regexp.MustCompile(`(?i)^\s*[•\-\*]?\s*TERPENES?\b`)
	sectionHeading = regexp.MustCompile(`(?i)^\s*(?:CANNABINOIDS?|POTENCY|PESTICIDES?|MICROBIALS?|MYCOTOXINS?|HEAVY METALS?|RESIDUAL SOLVENTS?|MOISTURE|WATER ACTIVITY|FOREIGN MATTER|SUMMARY|NOTES?)\b`)
)

// terpeneSection returns the lines between a "TERPENES" heading and the
// next recognized section heading. With no heading the whole document is
// scanned; labs that skip headings usually still list terpenes in one of
// the recognized line shapes.
func terpeneSection(text string) []string {
	lines := strings.Split(text, "\n")
	start := -1
	for i, line := range lines {
		if terpeneHeading.MatchString(line) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return lines
	}
	end := len(lines)
	for i := start; i < len(lines); i++ {
		if sectionHeading.MatchString(lines[i]) {
			end = i
			break
		}
	}
	return lines[start:end]
}

// #endregion section-bounding

// #region line-patterns

var (
	// "• beta-Caryophyllene 1.24%" / "- Limonene: 0.8 %"
	bulletedPair = regexp.MustCompile(`(?i)^\s*[•\-\*]?\s*([A-Za-zβα][A-Za-zβα\s\-_/]*?)\s*[:]?\s*(\d{1,2}(?:\.\d+)?)\s*%\s*$`)
	// "Primary: Myrcene (0.9%); Limonene (0.4%)" — multiple pairs per line
	parentheticalPair = regexp.MustCompile(`(?i)([A-Za-zβα][A-Za-zβα\s\-_/]*?)\s*\(\s*(\d{1,2}(?:\.\d+)?)\s*%\s*\)`)
	// "beta-Myrcene 0.91" — tabular exports that drop the percent sign.
	// A decimal point is required here; bare integers are too ambiguous
	// (page numbers, sample counts) without the % anchor.
	barePair = regexp.MustCompile(`(?i)^\s*([A-Za-zβα][A-Za-zβα\s\-_/]*?)\s+(\d{1,2}\.\d+)\s*$`)
)

// nonTerpeneTokens are label words that show up in value position on
// header, footer, and cannabinoid rows of tabular COAs. A candidate
// whose name contains any of these is discarded.
var nonTerpeneTokens = map[string]bool{
	"total":   true,
	"analyte": true,
	"result":  true,
	"loq":     true,
	"lod":     true,
	"nd":      true,
	"thc":     true,
	"thca":    true,
	"cbd":     true,
	"cbda":    true,
	"cbg":     true,
	"cbn":     true,
	"delta":   true,
}

// isNonTerpene reports whether any whitespace token of name is a known
// non-terpene label word.
func isNonTerpene(name string) bool {
	for _, tok := range strings.Fields(strings.ToLower(name)) {
		if nonTerpeneTokens[tok] {
			return true
		}
	}
	return false
}

// #endregion line-patterns

// #region terpene-lines

// terpeneLines scans the terpene section for (name, percent) candidates
// across the three supported surface formats. Candidates with
// implausible percents or non-terpene names are discarded; the first
// occurrence of each distinct raw name wins.
func (e *Extractor) terpeneLines(text string) []product.Terpene {
	seen := make(map[string]bool)
	var out []product.Terpene

	keep := func(rawName, rawPct string) {
		name := strings.TrimSpace(rawName)
		if name == "" || isNonTerpene(name) {
			return
		}
		pct, err := strconv.ParseFloat(rawPct, 64)
		if err != nil || pct <= 0 || pct > e.config.MaxTerpenePct {
			return
		}
		key := strings.ToLower(name)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, product.Terpene{Name: name, Pct: pct})
	}

	for _, line := range terpeneSection(text) {
		if m := bulletedPair.FindStringSubmatch(line); m != nil {
			keep(m[1], m[2])
			continue
		}
		if ms := parentheticalPair.FindAllStringSubmatch(line, -1); ms != nil {
			for _, m := range ms {
				keep(m[1], m[2])
			}
			continue
		}
		if m := barePair.FindStringSubmatch(line); m != nil {
			keep(m[1], m[2])
		}
	}
	return out
}

// #endregion terpene-lines
