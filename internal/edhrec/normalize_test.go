package edhrec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePayload() map[string]any {
	return map[string]any{
		"container": map[string]any{
			"json_dict": map[string]any{
				"cardlists": []any{
					map[string]any{
						"header": "High Synergy Cards",
						"cardviews": []any{
							map[string]any{
								"name":      "Skirk Prospector",
								"num_decks": float64(12000),
								"synergy":   0.42,
							},
							map[string]any{
								"name":      "Impact Tremors",
								"num_decks": float64(9000),
								"synergy":   0.31,
							},
						},
					},
					map[string]any{
						"header": "Themes",
						"cardviews": []any{
							map[string]any{
								"name":    "Goblin Kindred",
								"synergy": 0.5,
							},
						},
					},
				},
			},
		},
	}
}

func TestNormalizePayload_ExtractsCategoriesAndThemes(t *testing.T) {
	recs, err := NormalizePayload("Krenko, Mob Boss", samplePayload())

	require.NoError(t, err)
	assert.Equal(t, "Krenko, Mob Boss", recs.Commander)

	require.Contains(t, recs.Categories, "High Synergy Cards")
	cards := recs.Categories["High Synergy Cards"]
	require.Len(t, cards, 2)
	assert.Equal(t, "Skirk Prospector", cards[0].Name)
	assert.Equal(t, 12000, cards[0].DeckCount)
	assert.InDelta(t, 0.42, cards[0].Score, 1e-9)

	require.Len(t, recs.Themes, 1)
	assert.Equal(t, "Themes", recs.Themes[0].Name)
	assert.Equal(t, "Goblin Kindred", recs.Themes[0].Cards[0].Name)
}

func TestNormalizePayload_TopLevelCardlists(t *testing.T) {
	raw := map[string]any{
		"cardlists": []any{
			map[string]any{
				"header": "Lands",
				"cardviews": []any{
					map[string]any{"name": "Command Tower"},
				},
			},
		},
	}

	recs, err := NormalizePayload("Test Commander", raw)

	require.NoError(t, err)
	require.Contains(t, recs.Categories, "Lands")
	assert.Equal(t, "Command Tower", recs.Categories["Lands"][0].Name)
}

func TestNormalizePayload_AlternateFieldNames(t *testing.T) {
	raw := map[string]any{
		"cardlists": []any{
			map[string]any{
				"tag": "Staples",
				"cards": []any{
					map[string]any{
						"card_name":  "Sol Ring",
						"deck_count": float64(500000),
						"score":      0.1,
						"colors":     []any{"C"},
					},
				},
			},
		},
	}

	recs, err := NormalizePayload("Test Commander", raw)

	require.NoError(t, err)
	cards := recs.Categories["Staples"]
	require.Len(t, cards, 1)
	assert.Equal(t, "Sol Ring", cards[0].Name)
	assert.Equal(t, 500000, cards[0].DeckCount)
	assert.Equal(t, []string{"C"}, cards[0].ColorIdentity)
}

func TestNormalizePayload_DropsMalformedEntries(t *testing.T) {
	raw := map[string]any{
		"cardlists": []any{
			map[string]any{
				"header": "Mixed",
				"cardviews": []any{
					map[string]any{"num_decks": float64(100)}, // no name
					"not even an object",
					map[string]any{"name": "Real Card"},
				},
			},
			map[string]any{
				// no recognizable label
				"cardviews": []any{map[string]any{"name": "Orphan"}},
			},
		},
	}

	recs, err := NormalizePayload("Test Commander", raw)

	require.NoError(t, err)
	require.Len(t, recs.Categories, 1)
	require.Len(t, recs.Categories["Mixed"], 1)
	assert.Equal(t, "Real Card", recs.Categories["Mixed"][0].Name)
}

func TestNormalizePayload_NoCardLists(t *testing.T) {
	_, err := NormalizePayload("Test Commander", map[string]any{"something": "else"})
	assert.Error(t, err)
}

func TestNormalizePayload_NothingUsable(t *testing.T) {
	raw := map[string]any{
		"cardlists": []any{
			map[string]any{"header": "Empty", "cardviews": []any{}},
		},
	}

	_, err := NormalizePayload("Test Commander", raw)
	assert.Error(t, err)
}
