package gorm

import (
	"time"

	"gorm.io/gorm"

	"github.com/manascope/manascope/pkg/models"
)

// GORM Models

// Card represents one printing of a card.
type Card struct {
	ID            string                 `gorm:"primaryKey"`
	OracleID      string                 `gorm:"index:idx_cards_oracle;not null"`
	Name          string                 `gorm:"index:idx_cards_name;not null"`
	TypeLine      string                 `gorm:"type:text"`
	ManaCost      string                 `gorm:"type:text"`
	OracleText    string                 `gorm:"type:text"`
	SetCode       string                 `gorm:"index:idx_cards_set"`
	ColorIdentity models.JSONStringArray `gorm:"type:text"`
	CreatedAtEpoch int64                 `gorm:"not null"`
}

func (Card) TableName() string { return "cards" }

// BeforeCreate hook to ensure timestamps are set.
func (c *Card) BeforeCreate(tx *gorm.DB) error {
	if c.CreatedAtEpoch == 0 {
		c.CreatedAtEpoch = time.Now().UnixMilli()
	}
	return nil
}

// ThemeAssignment links a canonical card to one vocabulary theme.
// The (oracle_id, theme) pair is unique; upserts ignore duplicates.
type ThemeAssignment struct {
	OracleID       string `gorm:"uniqueIndex:idx_theme_card,priority:1;index:idx_assignments_oracle;not null"`
	Theme          string `gorm:"uniqueIndex:idx_theme_card,priority:2;index:idx_assignments_theme;not null"`
	Category       string `gorm:"type:text;not null"`
	Description    string `gorm:"type:text"`
	Confidence     int    `gorm:"default:50;not null"`
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	CreatedAtEpoch int64  `gorm:"not null"`
}

func (ThemeAssignment) TableName() string { return "theme_assignments" }

// BeforeCreate hook to ensure defaults are set.
func (a *ThemeAssignment) BeforeCreate(tx *gorm.DB) error {
	if a.CreatedAtEpoch == 0 {
		a.CreatedAtEpoch = time.Now().UnixMilli()
	}
	a.Confidence = models.ClampConfidence(a.Confidence)
	return nil
}

// Conversion helpers

func cardToModel(c *Card) *models.Card {
	return &models.Card{
		ID:            c.ID,
		OracleID:      c.OracleID,
		Name:          c.Name,
		TypeLine:      c.TypeLine,
		ManaCost:      c.ManaCost,
		OracleText:    c.OracleText,
		SetCode:       c.SetCode,
		ColorIdentity: c.ColorIdentity,
	}
}

func cardFromModel(c *models.Card) *Card {
	return &Card{
		ID:            c.ID,
		OracleID:      c.OracleID,
		Name:          c.Name,
		TypeLine:      c.TypeLine,
		ManaCost:      c.ManaCost,
		OracleText:    c.OracleText,
		SetCode:       c.SetCode,
		ColorIdentity: c.ColorIdentity,
	}
}

func assignmentToModel(a *ThemeAssignment) *models.ThemeAssignment {
	return &models.ThemeAssignment{
		OracleID:    a.OracleID,
		Theme:       a.Theme,
		Confidence:  a.Confidence,
		Category:    models.ThemeCategory(a.Category),
		Description: a.Description,
	}
}
