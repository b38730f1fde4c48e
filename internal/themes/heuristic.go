package themes

import (
	"strings"

	"github.com/manascope/manascope/pkg/models"
)

// heuristicRule maps a structural pattern in a card to a vocabulary theme.
// Rules run in order; the first three hits win.
type heuristicRule struct {
	label   string
	matches func(typeLine, oracleText string) bool
}

func textContains(substrs ...string) func(string, string) bool {
	return func(_, text string) bool {
		for _, s := range substrs {
			if strings.Contains(text, s) {
				return true
			}
		}
		return false
	}
}

func typeContains(substr string) func(string, string) bool {
	return func(typeLine, _ string) bool {
		return strings.Contains(typeLine, strings.ToLower(substr))
	}
}

// heuristicRules inspect lowercased type line and rules text. Ordering is
// most-specific first so narrow mechanics beat broad strategy labels.
var heuristicRules = []heuristicRule{
	{"Counterspells", textContains("counter target spell", "counter that spell")},
	{"Board Wipes", textContains("destroy all", "exile all", "each creature gets -")},
	{"Removal", textContains("destroy target", "exile target")},
	{"Tokens", textContains("create a", "create x", "create two", "create three")},
	{"Sacrifice", textContains("sacrifice a", "sacrifice another", "whenever a creature dies")},
	{"Graveyard Recursion", textContains("return target", "from your graveyard to")},
	{"Self-Mill", textContains("mill", "put the top")},
	{"Lifegain", textContains("gain life", "you gain", "lifelink")},
	{"Tutors", textContains("search your library")},
	{"+1/+1 Counters", textContains("+1/+1 counter")},
	{"Proliferate", textContains("proliferate")},
	{"Landfall", textContains("landfall", "whenever a land enters")},
	{"Blink", textContains("exile it, then return", "exile up to one target creature you control, then return")},
	{"Discard", textContains("discards a card", "discards that card", "each player discards")},
	{"Card Advantage", textContains("draw a card", "draw two", "draw three", "draw cards")},
	{"Ramp", textContains("add {", "search your library for a basic land", "untap all lands")},
	{"Burn", textContains("damage to any target", "deals damage to each", "damage to target player")},
	{"Equipment", typeContains("Equipment")},
	{"Auras", typeContains("Aura")},
	{"Vehicles", typeContains("Vehicle")},
	{"Sagas", typeContains("Saga")},
	{"Planeswalkers", typeContains("Planeswalker")},
	{"Enchantments Matter", typeContains("Enchantment")},
	{"Artifacts Matter", typeContains("Artifact")},
	{"Aggro", textContains("haste", "attacks each combat", "extra combat")},
	{"Control", textContains("opponents can't", "players can't")},
}

// HeuristicThemes derives 1-3 themes from a card's structural attributes.
// Pure and deterministic: no network, no failure mode. Returns nil for
// cards with nothing recognizable, which callers treat as "no data".
func HeuristicThemes(card *models.Card) []ValidatedCandidate {
	typeLine := strings.ToLower(card.TypeLine)
	oracleText := strings.ToLower(card.OracleText)

	var out []ValidatedCandidate
	for _, rule := range heuristicRules {
		if !rule.matches(typeLine, oracleText) {
			continue
		}
		entry, ok := Lookup(rule.label)
		if !ok {
			continue
		}
		out = append(out, ValidatedCandidate{
			Entry:       entry,
			Description: "Derived from card type and rules text",
		})
		if len(out) == maxThemesPerCard {
			break
		}
	}
	return out
}
