package repository

import (
	"fmt"
	"strings"

	"market-intel/internal/model"
)

func (r *geminiAIRepository) promptExtractThemes(text string) string {
	var sb strings.Builder

	sb.WriteString("Extract the top 3 investment themes from this text.\n")
	sb.WriteString("Return ONLY a JSON array: [{ \"title\": \"...\", \"sentiment\": \"Bullish\", \"reason\": \"...\" }]\n")
	sb.WriteString("Sentiment must be one of: Bullish, Bearish, Neutral.\n")
	sb.WriteString("If the text is garbage, return [].\n\n")
	sb.WriteString("TEXT: ")
	sb.WriteString(text)

	return sb.String()
}

func (r *geminiAIRepository) promptSelectInstruments(theme model.MarketTheme, universeMenu string) string {
	var sb strings.Builder

	sb.WriteString("I am an Investment Strategist Agent.\n\n")

	sb.WriteString("CURRENT MARKET THEME:\n")
	sb.WriteString(fmt.Sprintf("Title: '%s'\n", theme.Title))
	sb.WriteString(fmt.Sprintf("Context: %s\n", theme.Reasoning))
	sb.WriteString(fmt.Sprintf("Source: %s\n\n", theme.Source))

	sb.WriteString("AVAILABLE INSTRUMENT UNIVERSE:\n")
	sb.WriteString(universeMenu)
	sb.WriteString("\n")

	sb.WriteString(`TASK:
Select the top 1 or 2 instruments from the universe that DIRECTLY benefit from this theme.
Example: If theme is 'High Interest Rates', select 'TLT'.
Example: If theme is 'AI Hardware', select 'SMH'.

If nothing in the list is a strong match, return an empty array [].

RETURN JSON ONLY:
[ { "ticker": "XLK", "reason": "Direct exposure to tech..." } ]
`)

	return sb.String()
}
