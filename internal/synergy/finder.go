package synergy

import (
	"sort"

	"github.com/manascope/manascope/pkg/models"
)

// DefaultMinScore is the noise threshold for synergy results.
const DefaultMinScore = 25.0

// CardThemes pairs one printing with its canonical theme set.
type CardThemes struct {
	Card   *models.Card
	Themes []*models.ThemeAssignment
}

// FindCandidates scores every pool entry against the source and returns a
// ranked result list. Guarantees, in order:
//
//   - the source card's own canonical identity never appears
//   - at most one entry per canonical identity, keeping the
//     highest-scoring printing
//   - nothing below minScore
//   - descending by score, ties broken by pool insertion order
func FindCandidates(source CardThemes, pool []CardThemes, minScore float64) []models.SynergyResult {
	if minScore <= 0 {
		minScore = DefaultMinScore
	}
	if source.Card == nil || len(source.Themes) == 0 {
		return nil
	}

	type ranked struct {
		result models.SynergyResult
		order  int // pool insertion order for deterministic ties
	}

	// best result per canonical identity
	best := make(map[string]*ranked)
	var canonicalOrder []string

	for i, candidate := range pool {
		if candidate.Card == nil {
			continue
		}
		if candidate.Card.OracleID == source.Card.OracleID {
			continue
		}

		matched := MatchedThemes(source.Themes, candidate.Themes)
		if len(matched) == 0 {
			continue
		}

		score := Score(source.Themes, candidate.Themes)
		if score < minScore {
			continue
		}

		existing, seen := best[candidate.Card.OracleID]
		if seen && existing.result.Score >= score {
			continue
		}
		if !seen {
			canonicalOrder = append(canonicalOrder, candidate.Card.OracleID)
		}
		entry := &ranked{
			result: models.SynergyResult{
				Card:          candidate.Card,
				Score:         score,
				MatchedThemes: matched,
			},
			order: i,
		}
		if seen {
			// A better printing replaces the result but keeps the
			// canonical identity's original insertion slot.
			entry.order = existing.order
		}
		best[candidate.Card.OracleID] = entry
	}

	results := make([]ranked, 0, len(best))
	for _, oracleID := range canonicalOrder {
		results = append(results, *best[oracleID])
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].result.Score != results[j].result.Score {
			return results[i].result.Score > results[j].result.Score
		}
		return results[i].order < results[j].order
	})

	out := make([]models.SynergyResult, len(results))
	for i, r := range results {
		out[i] = r.result
	}
	return out
}
