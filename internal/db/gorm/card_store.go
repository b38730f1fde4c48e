package gorm

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/manascope/manascope/pkg/models"
)

// CardStore provides card-related database operations using GORM.
type CardStore struct {
	db *gorm.DB
}

// NewCardStore creates a new card store.
func NewCardStore(store *Store) *CardStore {
	return &CardStore{db: store.DB}
}

// UpsertCard stores a card printing, replacing any existing row for the
// same printing ID.
func (s *CardStore) UpsertCard(ctx context.Context, card *models.Card) error {
	if card.ID == "" {
		return fmt.Errorf("card printing ID is required")
	}
	dbCard := cardFromModel(card)

	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"oracle_id", "name", "type_line", "mana_cost", "oracle_text", "set_code", "color_identity"}),
		}).
		Create(dbCard)
	if result.Error != nil {
		return fmt.Errorf("upsert card %s: %w", card.ID, result.Error)
	}
	return nil
}

// UpsertCards stores multiple cards in a single transaction.
func (s *CardStore) UpsertCards(ctx context.Context, cards []*models.Card) error {
	if len(cards) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, card := range cards {
			result := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"oracle_id", "name", "type_line", "mana_cost", "oracle_text", "set_code", "color_identity"}),
			}).Create(cardFromModel(card))
			if result.Error != nil {
				return result.Error
			}
		}
		return nil
	})
}

// GetCard retrieves a card by its printing ID. Returns nil when not found.
func (s *CardStore) GetCard(ctx context.Context, printingID string) (*models.Card, error) {
	var card Card
	err := s.db.WithContext(ctx).Where("id = ?", printingID).First(&card).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get card %s: %w", printingID, err)
	}
	return cardToModel(&card), nil
}

// GetCanonicalID resolves a printing ID to its canonical (oracle) identity.
func (s *CardStore) GetCanonicalID(ctx context.Context, printingID string) (string, error) {
	var card Card
	err := s.db.WithContext(ctx).Select("oracle_id").Where("id = ?", printingID).First(&card).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get canonical id for %s: %w", printingID, err)
	}
	return card.OracleID, nil
}

// GetCardsByOracleIDs retrieves all printings for the given canonical IDs,
// ordered by printing ID for deterministic results.
func (s *CardStore) GetCardsByOracleIDs(ctx context.Context, oracleIDs []string) ([]*models.Card, error) {
	if len(oracleIDs) == 0 {
		return nil, nil
	}
	var cards []Card
	err := s.db.WithContext(ctx).
		Where("oracle_id IN ?", oracleIDs).
		Order("id").
		Find(&cards).Error
	if err != nil {
		return nil, fmt.Errorf("get cards by oracle ids: %w", err)
	}
	result := make([]*models.Card, len(cards))
	for i := range cards {
		result[i] = cardToModel(&cards[i])
	}
	return result, nil
}
