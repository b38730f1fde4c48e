// Package themes provides the theme vocabulary and extraction pipeline.
package themes

import (
	"strings"

	"github.com/manascope/manascope/pkg/models"
)

// Entry is one permitted vocabulary label with its category.
type Entry struct {
	Label    string
	Category models.ThemeCategory
}

// VocabularyVersion changes whenever the permitted label list changes.
// Stored assignments always reference a label from some version of this
// list; labels are only ever added, never renamed.
const VocabularyVersion = 3

// Vocabulary is the fixed list of permitted theme labels. Free-form
// generator output must map onto one of these via Normalize or be dropped.
var Vocabulary = []Entry{
	// Strategies
	{"Aggro", models.ThemeCategoryStrategy},
	{"Control", models.ThemeCategoryStrategy},
	{"Midrange", models.ThemeCategoryStrategy},
	{"Combo", models.ThemeCategoryStrategy},
	{"Tempo", models.ThemeCategoryStrategy},
	{"Burn", models.ThemeCategoryStrategy},
	{"Mill", models.ThemeCategoryStrategy},
	{"Stax", models.ThemeCategoryStrategy},
	{"Voltron", models.ThemeCategoryStrategy},
	{"Group Hug", models.ThemeCategoryStrategy},
	{"Group Slug", models.ThemeCategoryStrategy},
	{"Pillowfort", models.ThemeCategoryStrategy},
	{"Reanimator", models.ThemeCategoryStrategy},
	{"Spellslinger", models.ThemeCategoryStrategy},
	{"Superfriends", models.ThemeCategoryStrategy},
	{"Storm", models.ThemeCategoryStrategy},
	{"Toolbox", models.ThemeCategoryStrategy},
	{"Land Destruction", models.ThemeCategoryStrategy},
	{"Extra Turns", models.ThemeCategoryStrategy},
	{"Extra Combats", models.ThemeCategoryStrategy},
	{"Theft", models.ThemeCategoryStrategy},
	{"Chaos", models.ThemeCategoryStrategy},
	{"Politics", models.ThemeCategoryStrategy},
	{"Infect", models.ThemeCategoryStrategy},
	{"Wheels", models.ThemeCategoryStrategy},

	// Mechanics
	{"Tokens", models.ThemeCategoryMechanic},
	{"Sacrifice", models.ThemeCategoryMechanic},
	{"Counterspells", models.ThemeCategoryMechanic},
	{"Removal", models.ThemeCategoryMechanic},
	{"Board Wipes", models.ThemeCategoryMechanic},
	{"Graveyard Recursion", models.ThemeCategoryMechanic},
	{"Self-Mill", models.ThemeCategoryMechanic},
	{"Lifegain", models.ThemeCategoryMechanic},
	{"Lifeloss", models.ThemeCategoryMechanic},
	{"Landfall", models.ThemeCategoryMechanic},
	{"Lands Matter", models.ThemeCategoryMechanic},
	{"+1/+1 Counters", models.ThemeCategoryMechanic},
	{"-1/-1 Counters", models.ThemeCategoryMechanic},
	{"Proliferate", models.ThemeCategoryMechanic},
	{"Equipment", models.ThemeCategoryMechanic},
	{"Auras", models.ThemeCategoryMechanic},
	{"Enchantments Matter", models.ThemeCategoryMechanic},
	{"Artifacts Matter", models.ThemeCategoryMechanic},
	{"Blink", models.ThemeCategoryMechanic},
	{"Clones", models.ThemeCategoryMechanic},
	{"Copy Spells", models.ThemeCategoryMechanic},
	{"Discard", models.ThemeCategoryMechanic},
	{"Hand Disruption", models.ThemeCategoryMechanic},
	{"Evasion", models.ThemeCategoryMechanic},
	{"Flying", models.ThemeCategoryMechanic},
	{"Deathtouch", models.ThemeCategoryMechanic},
	{"Trample", models.ThemeCategoryMechanic},
	{"Haste", models.ThemeCategoryMechanic},
	{"Lifelink", models.ThemeCategoryMechanic},
	{"Menace", models.ThemeCategoryMechanic},
	{"First Strike", models.ThemeCategoryMechanic},
	{"Vigilance", models.ThemeCategoryMechanic},
	{"Protection", models.ThemeCategoryMechanic},
	{"Hexproof", models.ThemeCategoryMechanic},
	{"Indestructible", models.ThemeCategoryMechanic},
	{"Energy", models.ThemeCategoryMechanic},
	{"Vehicles", models.ThemeCategoryMechanic},
	{"Sagas", models.ThemeCategoryMechanic},
	{"Planeswalkers", models.ThemeCategoryMechanic},
	{"Curses", models.ThemeCategoryMechanic},
	{"Monarch", models.ThemeCategoryMechanic},
	{"Treasure", models.ThemeCategoryMechanic},
	{"Food", models.ThemeCategoryMechanic},
	{"Clues", models.ThemeCategoryMechanic},
	{"Madness", models.ThemeCategoryMechanic},
	{"Flashback", models.ThemeCategoryMechanic},
	{"Delve", models.ThemeCategoryMechanic},
	{"Threshold", models.ThemeCategoryMechanic},
	{"Delirium", models.ThemeCategoryMechanic},
	{"Devotion", models.ThemeCategoryMechanic},
	{"Affinity", models.ThemeCategoryMechanic},
	{"Convoke", models.ThemeCategoryMechanic},
	{"Kicker", models.ThemeCategoryMechanic},
	{"Cycling", models.ThemeCategoryMechanic},
	{"Morph", models.ThemeCategoryMechanic},
	{"Mutate", models.ThemeCategoryMechanic},
	{"Ninjutsu", models.ThemeCategoryMechanic},
	{"Cascade", models.ThemeCategoryMechanic},
	{"X Spells", models.ThemeCategoryMechanic},
	{"Double Strike", models.ThemeCategoryMechanic},
	{"Flash", models.ThemeCategoryMechanic},
	{"Attack Triggers", models.ThemeCategoryMechanic},
	{"Death Triggers", models.ThemeCategoryMechanic},
	{"Enter the Battlefield", models.ThemeCategoryMechanic},
	{"Untap", models.ThemeCategoryMechanic},

	// Archetypes (tribal and creature-type synergies)
	{"Tribal", models.ThemeCategoryArchetype},
	{"Elves", models.ThemeCategoryArchetype},
	{"Goblins", models.ThemeCategoryArchetype},
	{"Zombies", models.ThemeCategoryArchetype},
	{"Vampires", models.ThemeCategoryArchetype},
	{"Dragons", models.ThemeCategoryArchetype},
	{"Angels", models.ThemeCategoryArchetype},
	{"Demons", models.ThemeCategoryArchetype},
	{"Merfolk", models.ThemeCategoryArchetype},
	{"Wizards", models.ThemeCategoryArchetype},
	{"Spirits", models.ThemeCategoryArchetype},
	{"Slivers", models.ThemeCategoryArchetype},
	{"Humans", models.ThemeCategoryArchetype},
	{"Knights", models.ThemeCategoryArchetype},
	{"Soldiers", models.ThemeCategoryArchetype},
	{"Warriors", models.ThemeCategoryArchetype},
	{"Rogues", models.ThemeCategoryArchetype},
	{"Clerics", models.ThemeCategoryArchetype},
	{"Beasts", models.ThemeCategoryArchetype},
	{"Dinosaurs", models.ThemeCategoryArchetype},
	{"Cats", models.ThemeCategoryArchetype},
	{"Dogs", models.ThemeCategoryArchetype},
	{"Birds", models.ThemeCategoryArchetype},
	{"Rats", models.ThemeCategoryArchetype},
	{"Squirrels", models.ThemeCategoryArchetype},
	{"Insects", models.ThemeCategoryArchetype},
	{"Eldrazi", models.ThemeCategoryArchetype},
	{"Hydras", models.ThemeCategoryArchetype},
	{"Faeries", models.ThemeCategoryArchetype},
	{"Giants", models.ThemeCategoryArchetype},
	{"Elementals", models.ThemeCategoryArchetype},
	{"Snakes", models.ThemeCategoryArchetype},
	{"Pirates", models.ThemeCategoryArchetype},
	{"Samurai", models.ThemeCategoryArchetype},
	{"Ninjas", models.ThemeCategoryArchetype},

	// Resources
	{"Ramp", models.ThemeCategoryResource},
	{"Card Advantage", models.ThemeCategoryResource},
	{"Card Selection", models.ThemeCategoryResource},
	{"Tutors", models.ThemeCategoryResource},
	{"Mana Fixing", models.ThemeCategoryResource},
	{"Cost Reduction", models.ThemeCategoryResource},
	{"Mana Doubling", models.ThemeCategoryResource},
	{"Ritual", models.ThemeCategoryResource},
}

// synonym is one shorthand-to-label mapping.
type synonym struct {
	match string
	label string
}

// synonyms maps community shorthand onto vocabulary labels. Checked by
// substring, in order, after exact and substring matching both miss.
var synonyms = []synonym{
	{"aristocrat", "Sacrifice"},
	{"value", "Card Advantage"},
	{"draw", "Card Advantage"},
	{"go wide", "Tokens"},
	{"go-wide", "Tokens"},
	{"swarm", "Tokens"},
	{"counter magic", "Counterspells"},
	{"countermagic", "Counterspells"},
	{"permission", "Counterspells"},
	{"graveyard", "Graveyard Recursion"},
	{"recursion", "Graveyard Recursion"},
	{"reanimate", "Reanimator"},
	{"flicker", "Blink"},
	{"bounce", "Tempo"},
	{"sweeper", "Board Wipes"},
	{"wrath", "Board Wipes"},
	{"big mana", "Ramp"},
	{"mana rock", "Ramp"},
	{"mana dork", "Ramp"},
	{"fixing", "Mana Fixing"},
	{"lifedrain", "Lifeloss"},
	{"drain", "Lifeloss"},
	{"stompy", "Aggro"},
	{"beatdown", "Aggro"},
	{"wheel", "Wheels"},
	{"spell copy", "Copy Spells"},
	{"walker", "Planeswalkers"},
	{"token", "Tokens"},
	{"counters matter", "+1/+1 Counters"},
	{"enchantress", "Enchantments Matter"},
	{"artifact", "Artifacts Matter"},
	{"etb", "Enter the Battlefield"},
	{"steal", "Theft"},
}

// index maps lowercase labels to entries for exact lookup.
var index = func() map[string]Entry {
	m := make(map[string]Entry, len(Vocabulary))
	for _, e := range Vocabulary {
		m[strings.ToLower(e.Label)] = e
	}
	return m
}()

// Lookup returns the vocabulary entry for an exact label (any casing).
func Lookup(label string) (Entry, bool) {
	e, ok := index[strings.ToLower(strings.TrimSpace(label))]
	return e, ok
}

// Normalize maps free-form text onto the nearest permitted label.
// Matching order, first hit wins: case-insensitive exact, substring in
// either direction, synonym table by substring. A miss means the caller
// must discard the candidate, never store it.
func Normalize(candidate string) (Entry, bool) {
	c := strings.ToLower(strings.TrimSpace(candidate))
	if c == "" {
		return Entry{}, false
	}

	// 1. Exact match
	if e, ok := index[c]; ok {
		return e, true
	}

	// 2. Substring match in either direction. The label must appear as a
	// whole word inside the candidate ("rats" must not match inside
	// "aristocrats"); the candidate may be a plain fragment of a label.
	for _, e := range Vocabulary {
		l := strings.ToLower(e.Label)
		if containsWord(c, l) || strings.Contains(l, c) {
			return e, true
		}
	}

	// 3. Synonym table by substring
	for _, s := range synonyms {
		if strings.Contains(c, s.match) {
			if e, ok := index[strings.ToLower(s.label)]; ok {
				return e, true
			}
		}
	}

	return Entry{}, false
}

// containsWord reports whether phrase contains label bounded by
// non-word characters or the string ends.
func containsWord(phrase, label string) bool {
	for start := 0; ; {
		idx := strings.Index(phrase[start:], label)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(label)
		leftOK := idx == 0 || !isWordChar(phrase[idx-1])
		rightOK := end == len(phrase) || !isWordChar(phrase[end])
		if leftOK && rightOK {
			return true
		}
		start = idx + 1
	}
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}

// Labels returns all permitted labels in declaration order.
func Labels() []string {
	labels := make([]string, len(Vocabulary))
	for i, e := range Vocabulary {
		labels[i] = e.Label
	}
	return labels
}
