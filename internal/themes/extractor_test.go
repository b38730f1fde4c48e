package themes

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manascope/manascope/pkg/models"
)

// fakeStore is an in-memory AssignmentStore keyed on (oracle_id, theme),
// mirroring the idempotent upsert of the real store.
type fakeStore struct {
	assignments map[string][]*models.ThemeAssignment
	upsertCalls int
	listErr     error
	upsertErr   map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		assignments: make(map[string][]*models.ThemeAssignment),
		upsertErr:   make(map[string]error),
	}
}

func (f *fakeStore) UpsertAssignment(_ context.Context, a *models.ThemeAssignment) error {
	f.upsertCalls++
	if err := f.upsertErr[a.Theme]; err != nil {
		return err
	}
	for _, existing := range f.assignments[a.OracleID] {
		if existing.Theme == a.Theme {
			return nil
		}
	}
	f.assignments[a.OracleID] = append(f.assignments[a.OracleID], a)
	return nil
}

func (f *fakeStore) ListByCard(_ context.Context, oracleID string) ([]*models.ThemeAssignment, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.assignments[oracleID], nil
}

// fakeGenerator scripts the text-generation gateway.
type fakeGenerator struct {
	ready    bool
	response string
	ok       bool
	calls    int
}

func (f *fakeGenerator) Ready() bool { return f.ready }

func (f *fakeGenerator) Generate(_ context.Context, _ string) (string, bool) {
	f.calls++
	return f.response, f.ok
}

func testCard() *models.Card {
	return &models.Card{
		ID:         "printing-1",
		OracleID:   "oracle-1",
		Name:       "Krenko, Mob Boss",
		TypeLine:   "Legendary Creature — Goblin Warrior",
		OracleText: "{T}: Create X 1/1 red Goblin creature tokens, where X is the number of Goblins you control.",
	}
}

func TestGetThemes_StoredAssignmentsWin(t *testing.T) {
	store := newFakeStore()
	store.assignments["oracle-1"] = []*models.ThemeAssignment{
		{OracleID: "oracle-1", Theme: "Goblins", Confidence: models.GeneratedConfidence},
	}
	gen := &fakeGenerator{ready: true}
	e := NewExtractor(store, gen)

	themes, err := e.GetThemes(context.Background(), testCard())

	require.NoError(t, err)
	require.Len(t, themes, 1)
	assert.Equal(t, "Goblins", themes[0].Theme)
	assert.Zero(t, gen.calls, "stored assignments must not reach the generator")
}

func TestGetThemes_GeneratorPath(t *testing.T) {
	store := newFakeStore()
	gen := &fakeGenerator{
		ready: true,
		ok:    true,
		response: `THEME: Goblins | Tribal payoff for Goblin decks.
THEME: Tokens | Produces an army every turn.`,
	}
	e := NewExtractor(store, gen)

	themes, err := e.GetThemes(context.Background(), testCard())

	require.NoError(t, err)
	require.Len(t, themes, 2)
	assert.Equal(t, "Goblins", themes[0].Theme)
	assert.Equal(t, models.GeneratedConfidence, themes[0].Confidence)
	assert.Equal(t, models.ThemeCategoryArchetype, themes[0].Category)
	assert.Equal(t, "Tokens", themes[1].Theme)
	assert.Len(t, store.assignments["oracle-1"], 2)
}

func TestGetThemes_HeuristicFallbackWhenNotReady(t *testing.T) {
	store := newFakeStore()
	gen := &fakeGenerator{ready: false}
	e := NewExtractor(store, gen)

	themes, err := e.GetThemes(context.Background(), testCard())

	require.NoError(t, err)
	require.NotEmpty(t, themes)
	for _, a := range themes {
		assert.Equal(t, models.HeuristicConfidence, a.Confidence)
	}
	assert.Zero(t, gen.calls)
}

func TestGetThemes_HeuristicFallbackOnGeneratorFailure(t *testing.T) {
	store := newFakeStore()
	gen := &fakeGenerator{ready: true, ok: false}
	e := NewExtractor(store, gen)

	themes, err := e.GetThemes(context.Background(), testCard())

	require.NoError(t, err)
	require.NotEmpty(t, themes)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, models.HeuristicConfidence, themes[0].Confidence)
}

func TestGetThemes_HeuristicFallbackOnUnusableResponse(t *testing.T) {
	store := newFakeStore()
	gen := &fakeGenerator{ready: true, ok: true, response: "I cannot classify this card."}
	e := NewExtractor(store, gen)

	themes, err := e.GetThemes(context.Background(), testCard())

	require.NoError(t, err)
	require.NotEmpty(t, themes)
	assert.Equal(t, models.HeuristicConfidence, themes[0].Confidence)
}

func TestGetThemes_BasicLandExempt(t *testing.T) {
	store := newFakeStore()
	gen := &fakeGenerator{ready: true, ok: true, response: "THEME: Ramp"}
	e := NewExtractor(store, gen)

	card := &models.Card{
		ID:       "printing-2",
		OracleID: "oracle-2",
		Name:     "Mountain",
		TypeLine: "Basic Land — Mountain",
	}

	themes, err := e.GetThemes(context.Background(), card)

	require.NoError(t, err)
	assert.Empty(t, themes)
	assert.Zero(t, gen.calls)
	assert.Zero(t, store.upsertCalls)
}

func TestGetThemes_CapsGeneratedThemes(t *testing.T) {
	store := newFakeStore()
	gen := &fakeGenerator{
		ready: true,
		ok:    true,
		response: `THEME: Goblins
THEME: Tokens
THEME: Aggro
THEME: Sacrifice
THEME: Ramp`,
	}
	e := NewExtractor(store, gen)

	themes, err := e.GetThemes(context.Background(), testCard())

	require.NoError(t, err)
	assert.Len(t, themes, maxThemesPerCard)
}

func TestGetThemes_PartialPersistenceFailure(t *testing.T) {
	store := newFakeStore()
	store.upsertErr["Tokens"] = errors.New("disk full")
	gen := &fakeGenerator{
		ready: true,
		ok:    true,
		response: `THEME: Goblins
THEME: Tokens
THEME: Aggro`,
	}
	e := NewExtractor(store, gen)

	themes, err := e.GetThemes(context.Background(), testCard())

	require.NoError(t, err)
	require.Len(t, themes, 2)
	assert.Equal(t, "Goblins", themes[0].Theme)
	assert.Equal(t, "Aggro", themes[1].Theme)
}

func TestGetThemes_SecondCallUsesStorage(t *testing.T) {
	store := newFakeStore()
	gen := &fakeGenerator{ready: true, ok: true, response: "THEME: Goblins"}
	e := NewExtractor(store, gen)

	first, err := e.GetThemes(context.Background(), testCard())
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := e.GetThemes(context.Background(), testCard())
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, 1, gen.calls, "second call must be served from storage")
}

func TestGetThemes_RequiresCanonicalIdentity(t *testing.T) {
	e := NewExtractor(newFakeStore(), &fakeGenerator{})

	_, err := e.GetThemes(context.Background(), nil)
	assert.Error(t, err)

	_, err = e.GetThemes(context.Background(), &models.Card{ID: "printing-3"})
	assert.Error(t, err)
}

func TestGetThemes_StoreReadFailure(t *testing.T) {
	store := newFakeStore()
	store.listErr = errors.New("database locked")
	e := NewExtractor(store, &fakeGenerator{})

	_, err := e.GetThemes(context.Background(), testCard())
	assert.Error(t, err)
}
