package models

// ThemeCategory groups vocabulary labels by the kind of role they describe.
type ThemeCategory string

const (
	ThemeCategoryStrategy  ThemeCategory = "strategy"
	ThemeCategoryMechanic  ThemeCategory = "mechanic"
	ThemeCategoryArchetype ThemeCategory = "archetype"
	ThemeCategoryResource  ThemeCategory = "resource"
)

// Theme assignment confidence baselines. Generated themes sit above
// heuristic ones so that AI-derived data wins when both exist for a card.
const (
	GeneratedConfidence = 50
	HeuristicConfidence = 30
)

// ThemeAssignment links a canonical card to one vocabulary theme.
// At most one assignment exists per (card, theme) pair.
type ThemeAssignment struct {
	OracleID    string        `json:"oracle_id"`
	Theme       string        `json:"theme"`
	Confidence  int           `json:"confidence"` // 1-100
	Category    ThemeCategory `json:"category"`
	Description string        `json:"description"`
}

// ClampConfidence bounds a confidence value to the valid 1-100 range.
func ClampConfidence(c int) int {
	if c < 1 {
		return 1
	}
	if c > 100 {
		return 100
	}
	return c
}

// SynergyResult is one scored candidate from a synergy search. Results are
// computed on demand and never persisted.
type SynergyResult struct {
	Card          *Card    `json:"card"`
	Score         float64  `json:"score"` // 0-100
	MatchedThemes []string `json:"matched_themes"`
}

// UpstreamCard is one normalized entry from the external recommendation
// source. Only the fields the engine consumes survive normalization.
type UpstreamCard struct {
	Name          string   `json:"name"`
	DeckCount     int      `json:"deck_count"`
	Score         float64  `json:"score"`
	ColorIdentity []string `json:"color_identity,omitempty"`
}

// UpstreamTheme is a named grouping of cards from the external source.
type UpstreamTheme struct {
	Name  string         `json:"name"`
	Cards []UpstreamCard `json:"cards"`
}

// UpstreamRecs is the normalized recommendation payload for one commander.
type UpstreamRecs struct {
	Commander  string                    `json:"commander"`
	Categories map[string][]UpstreamCard `json:"categories"`
	Themes     []UpstreamTheme           `json:"themes,omitempty"`
}
