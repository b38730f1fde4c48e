// Package models contains domain models for manascope.
package models

import (
	"strings"
)

// Card represents one printing of a card. Several printings can share the
// same OracleID, which identifies the card players consider "the same card"
// across editions, reprints, and alternate-name faces.
type Card struct {
	ID            string          `json:"id"`        // printing identity
	OracleID      string          `json:"oracle_id"` // canonical identity
	Name          string          `json:"name"`
	TypeLine      string          `json:"type_line"`
	ManaCost      string          `json:"mana_cost"`
	OracleText    string          `json:"oracle_text"`
	SetCode       string          `json:"set_code"`
	ColorIdentity JSONStringArray `json:"color_identity"`
}

// IsBasicResource reports whether the card is a basic, textless resource
// card (basic lands and their snow variants). These carry no strategic
// information, so theme extraction skips them entirely.
func (c *Card) IsBasicResource() bool {
	if strings.Contains(c.TypeLine, "Basic") && strings.Contains(c.TypeLine, "Land") {
		return true
	}
	return strings.Contains(c.TypeLine, "Land") && strings.TrimSpace(c.OracleText) == ""
}

// DisplayName returns the card name, falling back to the printing ID for
// records imported without a name.
func (c *Card) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}
