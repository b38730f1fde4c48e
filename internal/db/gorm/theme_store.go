package gorm

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/manascope/manascope/pkg/models"
)

// ThemeStore provides theme assignment database operations using GORM.
type ThemeStore struct {
	db *gorm.DB
}

// NewThemeStore creates a new theme store.
func NewThemeStore(store *Store) *ThemeStore {
	return &ThemeStore{db: store.DB}
}

// UpsertAssignment stores a theme assignment. Duplicate (card, theme)
// pairs are silently ignored, making repeated extraction idempotent.
func (s *ThemeStore) UpsertAssignment(ctx context.Context, a *models.ThemeAssignment) error {
	if a.OracleID == "" || a.Theme == "" {
		return fmt.Errorf("oracle ID and theme are required")
	}
	dbAssignment := &ThemeAssignment{
		OracleID:    a.OracleID,
		Theme:       a.Theme,
		Confidence:  models.ClampConfidence(a.Confidence),
		Category:    string(a.Category),
		Description: a.Description,
	}

	// INSERT OR IGNORE using OnConflict
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "oracle_id"}, {Name: "theme"}},
			DoNothing: true,
		}).
		Create(dbAssignment)
	if result.Error != nil {
		return fmt.Errorf("upsert assignment (%s, %s): %w", a.OracleID, a.Theme, result.Error)
	}
	return nil
}

// ListByCard retrieves all theme assignments for a canonical card,
// ordered by insertion for deterministic output.
func (s *ThemeStore) ListByCard(ctx context.Context, oracleID string) ([]*models.ThemeAssignment, error) {
	var assignments []ThemeAssignment
	err := s.db.WithContext(ctx).
		Where("oracle_id = ?", oracleID).
		Order("id").
		Find(&assignments).Error
	if err != nil {
		return nil, fmt.Errorf("list assignments for %s: %w", oracleID, err)
	}
	result := make([]*models.ThemeAssignment, len(assignments))
	for i := range assignments {
		result[i] = assignmentToModel(&assignments[i])
	}
	return result, nil
}

// ListByTheme retrieves assignments for one theme label, highest
// confidence first, capped at limit.
func (s *ThemeStore) ListByTheme(ctx context.Context, theme string, limit int) ([]*models.ThemeAssignment, error) {
	if limit <= 0 {
		limit = 50
	}
	var assignments []ThemeAssignment
	err := s.db.WithContext(ctx).
		Where("theme = ?", theme).
		Order("confidence DESC, id").
		Limit(limit).
		Find(&assignments).Error
	if err != nil {
		return nil, fmt.Errorf("list assignments for theme %s: %w", theme, err)
	}
	result := make([]*models.ThemeAssignment, len(assignments))
	for i := range assignments {
		result[i] = assignmentToModel(&assignments[i])
	}
	return result, nil
}

// ListByThemes retrieves assignments for any of the given theme labels,
// grouped by canonical card. Used to build synergy candidate pools.
func (s *ThemeStore) ListByThemes(ctx context.Context, themes []string) (map[string][]*models.ThemeAssignment, error) {
	if len(themes) == 0 {
		return nil, nil
	}
	// Find cards sharing at least one of the themes, then load their
	// full assignment sets so scoring sees every theme, not only the
	// shared ones.
	var oracleIDs []string
	err := s.db.WithContext(ctx).
		Model(&ThemeAssignment{}).
		Distinct("oracle_id").
		Where("theme IN ?", themes).
		Order("oracle_id").
		Pluck("oracle_id", &oracleIDs).Error
	if err != nil {
		return nil, fmt.Errorf("list cards by themes: %w", err)
	}
	if len(oracleIDs) == 0 {
		return map[string][]*models.ThemeAssignment{}, nil
	}

	var assignments []ThemeAssignment
	err = s.db.WithContext(ctx).
		Where("oracle_id IN ?", oracleIDs).
		Order("oracle_id, id").
		Find(&assignments).Error
	if err != nil {
		return nil, fmt.Errorf("load assignment sets: %w", err)
	}

	grouped := make(map[string][]*models.ThemeAssignment, len(oracleIDs))
	for i := range assignments {
		a := assignmentToModel(&assignments[i])
		grouped[a.OracleID] = append(grouped[a.OracleID], a)
	}
	return grouped, nil
}

// CountAssignments returns the total number of stored assignments.
func (s *ThemeStore) CountAssignments(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&ThemeAssignment{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count assignments: %w", err)
	}
	return count, nil
}
