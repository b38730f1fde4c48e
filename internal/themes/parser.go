package themes

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
)

// Generator responses carry one theme per line:
//
//	THEME: <label> | <rationale>
//
// Anything outside that shape is ignored, and labels that fail vocabulary
// normalization are dropped per candidate rather than failing the batch.
var themeLineRegex = regexp.MustCompile(`(?mi)^\s*THEME:\s*([^|\n]+?)\s*(?:\|\s*(.*?)\s*)?$`)

// Candidate is one parsed (label, rationale) pair before normalization.
type Candidate struct {
	RawLabel    string
	Description string
}

// ParseCandidates extracts candidate themes from generator response text.
func ParseCandidates(text string) []Candidate {
	matches := themeLineRegex.FindAllStringSubmatch(text, -1)
	candidates := make([]Candidate, 0, len(matches))
	for _, m := range matches {
		raw := strings.TrimSpace(m[1])
		if raw == "" {
			continue
		}
		desc := ""
		if len(m) > 2 {
			desc = strings.TrimSpace(m[2])
		}
		candidates = append(candidates, Candidate{RawLabel: raw, Description: desc})
	}
	return candidates
}

// NormalizeCandidates runs each candidate through the vocabulary matcher,
// dropping unmatched labels and collapsing duplicates to the first hit.
func NormalizeCandidates(cardName string, candidates []Candidate) []ValidatedCandidate {
	validated := make([]ValidatedCandidate, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))
	var dropped []string

	for _, c := range candidates {
		entry, ok := Normalize(c.RawLabel)
		if !ok {
			dropped = append(dropped, c.RawLabel)
			continue
		}
		if seen[entry.Label] {
			continue
		}
		seen[entry.Label] = true
		validated = append(validated, ValidatedCandidate{
			Entry:       entry,
			Description: c.Description,
		})
	}

	if len(dropped) > 0 {
		log.Warn().
			Str("card", cardName).
			Strs("droppedLabels", dropped).
			Msg("Dropped generator themes outside the vocabulary")
	}

	return validated
}

// ValidatedCandidate is a candidate whose label passed normalization.
type ValidatedCandidate struct {
	Entry       Entry
	Description string
}
