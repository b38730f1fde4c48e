package themes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manascope/manascope/pkg/models"
)

func TestLookup_ExactLabel(t *testing.T) {
	e, ok := Lookup("Tokens")
	require.True(t, ok)
	assert.Equal(t, "Tokens", e.Label)
	assert.Equal(t, models.ThemeCategoryMechanic, e.Category)
}

func TestLookup_CaseInsensitive(t *testing.T) {
	e, ok := Lookup("  board wipes ")
	require.True(t, ok)
	assert.Equal(t, "Board Wipes", e.Label)
}

func TestLookup_Miss(t *testing.T) {
	_, ok := Lookup("Token Generation")
	assert.False(t, ok)
}

func TestNormalize_TableDriven(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		expected  string
		ok        bool
	}{
		{"exact match", "Lifegain", "Lifegain", true},
		{"exact match any casing", "LIFEGAIN", "Lifegain", true},
		{"candidate contains label", "Aggro decks", "Aggro", true},
		{"label contains candidate", "counterspell", "Counterspells", true},
		{"keyword inside longer phrase", "flying creatures", "Flying", true},
		{"whole word match", "rats deck", "Rats", true},
		{"no match inside longer word", "aristocrats", "Sacrifice", true},
		{"synonym go wide", "go wide strategy", "Tokens", true},
		{"synonym etb", "etb triggers", "Enter the Battlefield", true},
		{"synonym wheel", "wheel effects", "Wheels", true},
		{"nonsense is dropped", "quantum foam", "", false},
		{"empty is dropped", "", "", false},
		{"whitespace only is dropped", "   ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := Normalize(tt.candidate)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, e.Label)
			}
		})
	}
}

func TestVocabulary_NoDuplicateLabels(t *testing.T) {
	seen := make(map[string]bool, len(Vocabulary))
	for _, e := range Vocabulary {
		key := strings.ToLower(e.Label)
		assert.False(t, seen[key], "duplicate vocabulary label: %s", e.Label)
		seen[key] = true
	}
}

func TestVocabulary_EveryEntryHasCategory(t *testing.T) {
	valid := map[models.ThemeCategory]bool{
		models.ThemeCategoryStrategy:  true,
		models.ThemeCategoryMechanic:  true,
		models.ThemeCategoryArchetype: true,
		models.ThemeCategoryResource:  true,
	}
	for _, e := range Vocabulary {
		assert.True(t, valid[e.Category], "label %s has invalid category %q", e.Label, e.Category)
	}
}

// Every synonym must resolve to a real vocabulary label, and every
// heuristic rule must emit a real vocabulary label. Normalization can
// never produce a label outside the permitted list.
func TestVocabulary_Closure(t *testing.T) {
	for _, s := range synonyms {
		_, ok := Lookup(s.label)
		assert.True(t, ok, "synonym %q maps to unknown label %q", s.match, s.label)
	}
	for _, r := range heuristicRules {
		_, ok := Lookup(r.label)
		assert.True(t, ok, "heuristic rule emits unknown label %q", r.label)
	}
}

func TestLabels_DeclarationOrder(t *testing.T) {
	labels := Labels()
	require.Len(t, labels, len(Vocabulary))
	assert.Equal(t, "Aggro", labels[0])
	for i, e := range Vocabulary {
		assert.Equal(t, e.Label, labels[i])
	}
}
