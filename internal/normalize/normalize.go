// Package normalize flattens raw COA text into a predictable shape for
// the downstream extractors: one line-ending convention, single spaces,
// no runaway blank-line runs.
package normalize

import (
	"regexp"
	"strings"
)

// #region patterns

var (
	horizontalWS = regexp.MustCompile(`[ \t\x{00A0}]+`)
	blankRuns    = regexp.MustCompile(`\n{4,}`)
)

// #endregion patterns

// #region text

// Text folds CR line endings into LF, collapses repeated horizontal
// whitespace to a single space, trims trailing spaces per line, and
// collapses runs of 3+ blank lines to exactly one blank line.
// Always succeeds; empty input yields empty output.
func Text(raw string) string {
	if raw == "" {
		return ""
	}

	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = horizontalWS.ReplaceAllString(s, " ")

	// Trailing spaces would otherwise keep visually blank lines non-blank.
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	s = strings.Join(lines, "\n")

	return blankRuns.ReplaceAllString(s, "\n\n")
}

// #endregion text
