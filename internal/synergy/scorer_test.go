package synergy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/manascope/manascope/pkg/models"
)

func themeSet(pairs ...interface{}) []*models.ThemeAssignment {
	set := make([]*models.ThemeAssignment, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		set = append(set, &models.ThemeAssignment{
			Theme:      pairs[i].(string),
			Confidence: pairs[i+1].(int),
		})
	}
	return set
}

func TestScore_SingleSharedTheme(t *testing.T) {
	source := themeSet("Burn", 80, "Aggro", 60)
	candidate := themeSet("Burn", 75)

	// 1 - |80-75|/100 = 0.95, denominator min(2,1) = 1
	assert.InDelta(t, 95.0, Score(source, candidate), 1e-9)
}

func TestScore_PerfectOverlap(t *testing.T) {
	set := themeSet("Burn", 50, "Aggro", 50)

	assert.InDelta(t, 100.0, Score(set, set), 1e-9)
}

func TestScore_NoSharedThemes(t *testing.T) {
	source := themeSet("Mill", 50)
	candidate := themeSet("Aggro", 50)

	assert.Zero(t, Score(source, candidate))
}

func TestScore_EmptySets(t *testing.T) {
	set := themeSet("Burn", 50)

	assert.Zero(t, Score(nil, set))
	assert.Zero(t, Score(set, nil))
	assert.Zero(t, Score(nil, nil))
}

func TestScore_ConfidenceGapLowersScore(t *testing.T) {
	source := themeSet("Lifegain", 100)
	near := themeSet("Lifegain", 90)
	far := themeSet("Lifegain", 10)

	assert.Greater(t, Score(source, near), Score(source, far))
	assert.InDelta(t, 90.0, Score(source, near), 1e-9)
	assert.InDelta(t, 10.0, Score(source, far), 1e-9)
}

func TestScore_SmallerSetDrivesDenominator(t *testing.T) {
	broad := themeSet("Burn", 50, "Aggro", 50, "Goblins", 50, "Tokens", 50)
	narrow := themeSet("Burn", 50)

	// One perfect match over a denominator of one, in both directions.
	assert.InDelta(t, 100.0, Score(broad, narrow), 1e-9)
	assert.InDelta(t, 100.0, Score(narrow, broad), 1e-9)
}

func TestScore_StaysInBounds(t *testing.T) {
	source := themeSet("Burn", 0, "Aggro", 100, "Tokens", 50)
	candidates := [][]*models.ThemeAssignment{
		themeSet("Burn", 100),
		themeSet("Burn", 0, "Aggro", 0),
		themeSet("Burn", 50, "Aggro", 50, "Tokens", 50, "Mill", 50),
		themeSet("Mill", 50),
	}

	for _, c := range candidates {
		score := Score(source, c)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 100.0)
	}
}

func TestMatchedThemes_CandidateOrder(t *testing.T) {
	source := themeSet("Aggro", 50, "Burn", 50, "Tokens", 50)
	candidate := themeSet("Tokens", 40, "Mill", 40, "Burn", 40)

	assert.Equal(t, []string{"Tokens", "Burn"}, MatchedThemes(source, candidate))
}

func TestMatchedThemes_NoOverlap(t *testing.T) {
	assert.Empty(t, MatchedThemes(themeSet("Aggro", 50), themeSet("Mill", 50)))
}
