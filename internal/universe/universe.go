package universe

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed universe.json
var universeFS embed.FS

// Entry is one tradable instrument eligible for recommendation.
type Entry struct {
	Ticker   string `json:"ticker"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Universe is the fixed instrument catalog. It renders the matcher's prompt
// menu and is the validation source of truth for model-selected tickers.
type Universe struct {
	entries  []Entry
	byTicker map[string]Entry
}

// Load parses the embedded catalog. Called once at startup.
func Load() (*Universe, error) {
	data, err := universeFS.ReadFile("universe.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read universe catalog: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse universe catalog: %w", err)
	}

	byTicker := make(map[string]Entry, len(entries))
	for _, e := range entries {
		byTicker[strings.ToUpper(e.Ticker)] = e
	}

	return &Universe{entries: entries, byTicker: byTicker}, nil
}

// Lookup resolves a ticker case-insensitively. The returned entry carries the
// canonical ticker spelling.
func (u *Universe) Lookup(ticker string) (Entry, bool) {
	e, ok := u.byTicker[strings.ToUpper(strings.TrimSpace(ticker))]
	return e, ok
}

// Entries returns the catalog in file order.
func (u *Universe) Entries() []Entry {
	return u.entries
}

// Menu renders the catalog as the bullet list embedded in the matcher prompt.
func (u *Universe) Menu() string {
	var sb strings.Builder
	for _, e := range u.entries {
		sb.WriteString(fmt.Sprintf("- %s: %s (%s)\n", e.Ticker, e.Name, e.Category))
	}
	return sb.String()
}
