package themes

import (
	"strings"

	"github.com/manascope/manascope/pkg/models"
)

// maxThemesPerCard bounds how many themes the generator may pick.
const maxThemesPerCard = 3

// BuildPrompt assembles the extraction prompt for one card. The full
// permitted vocabulary is embedded so the generator selects labels instead
// of inventing them; invented labels are dropped at parse time regardless.
func BuildPrompt(card *models.Card) string {
	var b strings.Builder

	b.WriteString("You are classifying a trading card into strategic themes for a deck-building tool.\n\n")
	b.WriteString("Card:\n")
	b.WriteString("  Name: " + card.DisplayName() + "\n")
	b.WriteString("  Type: " + card.TypeLine + "\n")
	if card.ManaCost != "" {
		b.WriteString("  Cost: " + card.ManaCost + "\n")
	}
	if card.OracleText != "" {
		b.WriteString("  Text: " + card.OracleText + "\n")
	}

	b.WriteString("\nPermitted themes (choose only from this list):\n")
	b.WriteString(strings.Join(Labels(), ", "))
	b.WriteString("\n\n")

	b.WriteString("Select 1 to 3 themes from the permitted list that best describe ")
	b.WriteString("this card's strategic role. Respond with one line per theme, in ")
	b.WriteString("this exact format and nothing else:\n")
	b.WriteString("THEME: <theme name> | <one-sentence rationale>\n")

	return b.String()
}
