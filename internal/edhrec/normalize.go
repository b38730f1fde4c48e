// Package edhrec fetches third-party deck-composition statistics for
// commanders, fronted by the recommendation cache.
package edhrec

import (
	"fmt"
	"strings"

	"github.com/manascope/manascope/pkg/models"
)

// The upstream payload is untyped and shifts shape between page versions.
// Normalization extracts only the fields the engine needs and discards the
// rest; the raw shape never escapes this package.
//
// Each concept is read through an ordered list of candidate field names,
// tried in priority order, stopping at the first present value.
var (
	nameFields  = []string{"name", "sanitized", "card_name"}
	countFields = []string{"num_decks", "deck_count", "count", "inclusion"}
	scoreFields = []string{"synergy", "score", "rating"}
	colorFields = []string{"color_identity", "color_id", "colors"}
	labelFields = []string{"header", "tag", "title"}
	cardsFields = []string{"cardviews", "cards", "cardlist"}
)

func stringField(m map[string]any, keys []string) (string, bool) {
	for _, k := range keys {
		if v, ok := m[k].(string); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

func intField(m map[string]any, keys []string) (int, bool) {
	for _, k := range keys {
		switch v := m[k].(type) {
		case float64:
			return int(v), true
		case int:
			return v, true
		}
	}
	return 0, false
}

func floatField(m map[string]any, keys []string) (float64, bool) {
	for _, k := range keys {
		switch v := m[k].(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		}
	}
	return 0, false
}

func stringsField(m map[string]any, keys []string) []string {
	for _, k := range keys {
		raw, ok := m[k].([]any)
		if !ok {
			continue
		}
		out := make([]string, 0, len(raw))
		for _, item := range raw {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

func listField(m map[string]any, keys []string) []any {
	for _, k := range keys {
		if v, ok := m[k].([]any); ok {
			return v
		}
	}
	return nil
}

// normalizeCard extracts one card entry. Entries without a recognizable
// name are dropped.
func normalizeCard(raw map[string]any) (models.UpstreamCard, bool) {
	name, ok := stringField(raw, nameFields)
	if !ok {
		return models.UpstreamCard{}, false
	}
	card := models.UpstreamCard{Name: name}
	if count, ok := intField(raw, countFields); ok {
		card.DeckCount = count
	}
	if score, ok := floatField(raw, scoreFields); ok {
		card.Score = score
	}
	card.ColorIdentity = stringsField(raw, colorFields)
	return card, true
}

func normalizeCardList(raw []any) []models.UpstreamCard {
	cards := make([]models.UpstreamCard, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if card, ok := normalizeCard(m); ok {
			cards = append(cards, card)
		}
	}
	return cards
}

// findCardLists locates the category lists inside the nested payload,
// checking known container paths before falling back to the top level.
func findCardLists(raw map[string]any) []any {
	if container, ok := raw["container"].(map[string]any); ok {
		if jsonDict, ok := container["json_dict"].(map[string]any); ok {
			if lists, ok := jsonDict["cardlists"].([]any); ok {
				return lists
			}
		}
	}
	if lists, ok := raw["cardlists"].([]any); ok {
		return lists
	}
	return nil
}

// NormalizePayload converts a raw upstream response into the engine's
// typed recommendation structure. Lists whose label marks them as theme
// groupings land in Themes; everything else becomes a category.
func NormalizePayload(commander string, raw map[string]any) (*models.UpstreamRecs, error) {
	lists := findCardLists(raw)
	if len(lists) == 0 {
		return nil, fmt.Errorf("upstream payload has no recognizable card lists")
	}

	recs := &models.UpstreamRecs{
		Commander:  commander,
		Categories: make(map[string][]models.UpstreamCard),
	}

	for _, item := range lists {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		label, ok := stringField(m, labelFields)
		if !ok {
			continue
		}
		cards := normalizeCardList(listField(m, cardsFields))
		if len(cards) == 0 {
			continue
		}

		if strings.Contains(strings.ToLower(label), "theme") {
			recs.Themes = append(recs.Themes, models.UpstreamTheme{
				Name:  label,
				Cards: cards,
			})
			continue
		}
		recs.Categories[label] = cards
	}

	if len(recs.Categories) == 0 && len(recs.Themes) == 0 {
		return nil, fmt.Errorf("upstream payload normalized to nothing usable")
	}
	return recs, nil
}
