// Package recommend exposes the engine's recommendation operations to the
// surrounding application.
package recommend

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/manascope/manascope/internal/edhrec"
	"github.com/manascope/manascope/internal/reccache"
	"github.com/manascope/manascope/internal/synergy"
	"github.com/manascope/manascope/pkg/models"
)

// Default limits for recommendation surfaces.
const (
	DefaultSynergyLimit      = 50
	DefaultMatchedCardsLimit = 10
)

// CardReader is the card store surface the service needs.
type CardReader interface {
	GetCard(ctx context.Context, printingID string) (*models.Card, error)
	GetCardsByOracleIDs(ctx context.Context, oracleIDs []string) ([]*models.Card, error)
}

// ThemeReader is the assignment store surface the service needs.
type ThemeReader interface {
	ListByTheme(ctx context.Context, theme string, limit int) ([]*models.ThemeAssignment, error)
	ListByThemes(ctx context.Context, themes []string) (map[string][]*models.ThemeAssignment, error)
}

// Extractor resolves a card's theme set, computing it on first request.
type Extractor interface {
	GetThemes(ctx context.Context, card *models.Card) ([]*models.ThemeAssignment, error)
}

// UpstreamFetcher retrieves third-party deck statistics for a commander.
type UpstreamFetcher interface {
	FetchCommander(ctx context.Context, name string) (*models.UpstreamRecs, error)
}

// Service is the recommendation facade. Constructed once and shared.
type Service struct {
	cards     CardReader
	themes    ThemeReader
	extractor Extractor
	upstream  UpstreamFetcher
	recCache  *reccache.Cache[*models.UpstreamRecs]
}

// NewService creates the recommendation service. The cache gateway is
// owned by the service and stopped by Close.
func NewService(
	cards CardReader,
	themes ThemeReader,
	extractor Extractor,
	upstream UpstreamFetcher,
	recCache *reccache.Cache[*models.UpstreamRecs],
) *Service {
	return &Service{
		cards:     cards,
		themes:    themes,
		extractor: extractor,
		upstream:  upstream,
		recCache:  recCache,
	}
}

// Close stops the service's background work.
func (s *Service) Close() {
	if s.recCache != nil {
		s.recCache.Close()
	}
}

// ThemeSuggestion is one theme with other cards that share it.
type ThemeSuggestion struct {
	Theme        string         `json:"theme"`
	Description  string         `json:"description,omitempty"`
	Confidence   int            `json:"confidence"`
	MatchedCards []*models.Card `json:"matched_cards"`
}

// GetThemeSuggestions returns the card's themes, each with up to
// DefaultMatchedCardsLimit other cards sharing that theme.
func (s *Service) GetThemeSuggestions(ctx context.Context, printingID string) ([]ThemeSuggestion, error) {
	card, err := s.cards.GetCard(ctx, printingID)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, fmt.Errorf("card %s not found", printingID)
	}

	assignments, err := s.extractor.GetThemes(ctx, card)
	if err != nil {
		return nil, fmt.Errorf("get themes for %s: %w", printingID, err)
	}

	suggestions := make([]ThemeSuggestion, 0, len(assignments))
	for _, a := range assignments {
		suggestion := ThemeSuggestion{
			Theme:       a.Theme,
			Description: a.Description,
			Confidence:  a.Confidence,
		}

		shared, err := s.themes.ListByTheme(ctx, a.Theme, DefaultMatchedCardsLimit*2)
		if err != nil {
			// A failed lookup degrades one suggestion, not the batch.
			log.Warn().Str("theme", a.Theme).Err(err).Msg("Failed to load cards sharing theme")
			suggestions = append(suggestions, suggestion)
			continue
		}

		var oracleIDs []string
		for _, other := range shared {
			if other.OracleID == card.OracleID {
				continue
			}
			oracleIDs = append(oracleIDs, other.OracleID)
			if len(oracleIDs) == DefaultMatchedCardsLimit {
				break
			}
		}
		suggestion.MatchedCards = s.onePrintingPerCanonical(ctx, oracleIDs)
		suggestions = append(suggestions, suggestion)
	}

	return suggestions, nil
}

// SynergyOptions filters a synergy search.
type SynergyOptions struct {
	MinScore float64
	Limit    int
}

// GetSynergyRecommendations scores every stored card sharing a theme with
// the source card and returns the ranked, deduplicated list.
func (s *Service) GetSynergyRecommendations(ctx context.Context, printingID string, opts SynergyOptions) ([]models.SynergyResult, error) {
	if opts.Limit <= 0 {
		opts.Limit = DefaultSynergyLimit
	}

	card, err := s.cards.GetCard(ctx, printingID)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, fmt.Errorf("card %s not found", printingID)
	}

	sourceThemes, err := s.extractor.GetThemes(ctx, card)
	if err != nil {
		return nil, fmt.Errorf("get themes for %s: %w", printingID, err)
	}
	if len(sourceThemes) == 0 {
		return nil, nil
	}

	labels := make([]string, len(sourceThemes))
	for i, a := range sourceThemes {
		labels[i] = a.Theme
	}

	pool, err := s.buildCandidatePool(ctx, labels)
	if err != nil {
		return nil, fmt.Errorf("build candidate pool: %w", err)
	}

	results := synergy.FindCandidates(
		synergy.CardThemes{Card: card, Themes: sourceThemes},
		pool,
		opts.MinScore,
	)
	if len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results, nil
}

// buildCandidatePool loads every printing of every card sharing at least
// one of the labels, paired with its canonical theme set. Ordered by
// canonical then printing ID so ranking ties stay deterministic.
func (s *Service) buildCandidatePool(ctx context.Context, labels []string) ([]synergy.CardThemes, error) {
	themesByOracle, err := s.themes.ListByThemes(ctx, labels)
	if err != nil {
		return nil, err
	}
	if len(themesByOracle) == 0 {
		return nil, nil
	}

	oracleIDs := make([]string, 0, len(themesByOracle))
	for oracleID := range themesByOracle {
		oracleIDs = append(oracleIDs, oracleID)
	}
	sort.Strings(oracleIDs)

	cards, err := s.cards.GetCardsByOracleIDs(ctx, oracleIDs)
	if err != nil {
		return nil, err
	}

	pool := make([]synergy.CardThemes, 0, len(cards))
	for _, c := range cards {
		pool = append(pool, synergy.CardThemes{
			Card:   c,
			Themes: themesByOracle[c.OracleID],
		})
	}
	return pool, nil
}

// GetUpstreamRecommendations returns third-party deck statistics for a
// commander card via the cache gateway. Total upstream failure surfaces
// as no data rather than an error: recommendation surfaces show "nothing
// available", never a crash.
func (s *Service) GetUpstreamRecommendations(ctx context.Context, printingID string) (*models.UpstreamRecs, error) {
	card, err := s.cards.GetCard(ctx, printingID)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, fmt.Errorf("card %s not found", printingID)
	}

	key := edhrec.NormalizeKey(card.DisplayName())
	recs, err := s.recCache.Get(ctx, key, func(ctx context.Context) (*models.UpstreamRecs, error) {
		return s.upstream.FetchCommander(ctx, card.DisplayName())
	})
	if err != nil {
		log.Warn().Str("commander", card.DisplayName()).Err(err).Msg("Upstream recommendations unavailable")
		return nil, nil
	}
	return recs, nil
}

// onePrintingPerCanonical resolves canonical IDs to card records, keeping
// the first printing of each.
func (s *Service) onePrintingPerCanonical(ctx context.Context, oracleIDs []string) []*models.Card {
	if len(oracleIDs) == 0 {
		return nil
	}
	cards, err := s.cards.GetCardsByOracleIDs(ctx, oracleIDs)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to resolve matched cards")
		return nil
	}
	seen := make(map[string]bool, len(cards))
	var out []*models.Card
	for _, c := range cards {
		if seen[c.OracleID] {
			continue
		}
		seen[c.OracleID] = true
		out = append(out, c)
	}
	return out
}
