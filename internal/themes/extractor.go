package themes

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/manascope/manascope/pkg/models"
)

// AssignmentStore is the persisted theme assignment interface the
// extractor needs. Upserts must be idempotent on (card, theme).
type AssignmentStore interface {
	UpsertAssignment(ctx context.Context, a *models.ThemeAssignment) error
	ListByCard(ctx context.Context, oracleID string) ([]*models.ThemeAssignment, error)
}

// Generator is the text-generation gateway surface the extractor uses.
type Generator interface {
	Ready() bool
	Generate(ctx context.Context, prompt string) (string, bool)
}

// Extractor derives and persists theme assignments for cards.
type Extractor struct {
	store     AssignmentStore
	generator Generator
}

// NewExtractor creates a theme extractor.
func NewExtractor(store AssignmentStore, generator Generator) *Extractor {
	return &Extractor{store: store, generator: generator}
}

// GetThemes returns the theme assignments for a card's canonical identity,
// computing and persisting them on first request.
//
// Resolution order: persisted assignments, then generation, then the
// structural heuristic. Basic resource cards are exempt and return an
// empty set without touching the generator. Concurrent calls for one card
// may each reach the generator; the idempotent upsert keeps storage
// consistent regardless.
func (e *Extractor) GetThemes(ctx context.Context, card *models.Card) ([]*models.ThemeAssignment, error) {
	if card == nil || card.OracleID == "" {
		return nil, fmt.Errorf("card with canonical identity is required")
	}

	existing, err := e.store.ListByCard(ctx, card.OracleID)
	if err != nil {
		return nil, fmt.Errorf("load stored themes: %w", err)
	}
	if len(existing) > 0 {
		return existing, nil
	}

	if card.IsBasicResource() {
		return nil, nil
	}

	candidates, confidence := e.deriveCandidates(ctx, card)
	if len(candidates) == 0 {
		return nil, nil
	}

	assignments := make([]*models.ThemeAssignment, 0, len(candidates))
	for _, c := range candidates {
		a := &models.ThemeAssignment{
			OracleID:    card.OracleID,
			Theme:       c.Entry.Label,
			Confidence:  confidence,
			Category:    c.Entry.Category,
			Description: c.Description,
		}
		if err := e.store.UpsertAssignment(ctx, a); err != nil {
			// Per-theme persistence failures don't abort the batch.
			log.Warn().
				Str("card", card.DisplayName()).
				Str("theme", a.Theme).
				Err(err).
				Msg("Failed to persist theme assignment")
			continue
		}
		assignments = append(assignments, a)
	}

	return assignments, nil
}

// deriveCandidates runs generation with heuristic fallback and reports the
// confidence baseline matching the path taken.
func (e *Extractor) deriveCandidates(ctx context.Context, card *models.Card) ([]ValidatedCandidate, int) {
	if e.generator != nil && e.generator.Ready() {
		text, ok := e.generator.Generate(ctx, BuildPrompt(card))
		if ok {
			validated := NormalizeCandidates(card.DisplayName(), ParseCandidates(text))
			if len(validated) > maxThemesPerCard {
				validated = validated[:maxThemesPerCard]
			}
			if len(validated) > 0 {
				return validated, models.GeneratedConfidence
			}
			log.Debug().
				Str("card", card.DisplayName()).
				Msg("Generator response yielded no valid themes, falling back to heuristics")
		}
	}

	return HeuristicThemes(card), models.HeuristicConfidence
}
