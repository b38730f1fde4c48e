// Package synergy computes theme-overlap scores between cards.
package synergy

import (
	"math"

	"github.com/manascope/manascope/pkg/models"
)

// Score computes a 0-100 synergy score between two theme sets.
//
// The formula:
//
//	denominator = min(|source|, |candidate|)
//	for each shared label: accumulate 1 - |confA - confB| / 100
//	score = (accumulated / denominator) * 100, clamped to [0, 100]
//
// The smaller set drives the denominator so a broadly-themed card is not
// penalized against a narrow partner. Empty sets score 0: no information,
// no synergy claim. Score(a, b) and Score(b, a) may differ but both stay
// in [0, 100] and both are 0 when no labels are shared.
func Score(source, candidate []*models.ThemeAssignment) float64 {
	if len(source) == 0 || len(candidate) == 0 {
		return 0
	}

	sourceConf := make(map[string]int, len(source))
	for _, a := range source {
		sourceConf[a.Theme] = a.Confidence
	}

	accumulated := 0.0
	for _, c := range candidate {
		confA, shared := sourceConf[c.Theme]
		if !shared {
			continue
		}
		accumulated += 1 - math.Abs(float64(confA-c.Confidence))/100
	}

	denominator := len(source)
	if len(candidate) < denominator {
		denominator = len(candidate)
	}

	score := accumulated / float64(denominator) * 100
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// MatchedThemes returns the labels present in both sets, in the candidate
// set's order.
func MatchedThemes(source, candidate []*models.ThemeAssignment) []string {
	sourceLabels := make(map[string]bool, len(source))
	for _, a := range source {
		sourceLabels[a.Theme] = true
	}
	var matched []string
	for _, c := range candidate {
		if sourceLabels[c.Theme] {
			matched = append(matched, c.Theme)
		}
	}
	return matched
}
