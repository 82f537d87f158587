package render

import (
	"regexp"
	"strconv"
)

const (
	MaxScore         = 100
	ScorePlaceholder = "-"
)

// scorePattern matches "87/100", "87 von 100", "87 of 100" and "87 100".
// Separators may be any whitespace including non-breaking spaces.
// Any other "100" in the prose can match as well; the first hit wins.
var scorePattern = regexp.MustCompile(`(\d{1,3})[\s\p{Zs}]*(?:/|von|of)?[\s\p{Zs}]*100`)

// Score returns the first score found in raw, clamped to MaxScore, or nil.
func Score(raw string) *int {
	m := scorePattern.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	if v > MaxScore {
		v = MaxScore
	}
	return &v
}

// ScoreLabel formats a score for display.
func ScoreLabel(score *int) string {
	if score == nil {
		return ScorePlaceholder
	}
	return strconv.Itoa(*score)
}
