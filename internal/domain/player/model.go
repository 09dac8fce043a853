package player

const (
	DefaultPosition    = "Unknown"
	DefaultMarketValue = "N/A"
	DefaultCurrency    = "Unknown"
)

// Summary is one squad entry.
type Summary struct {
	PlayerID    string `json:"player_id"`
	Name        string `json:"name"`
	Position    string `json:"position"`
	MarketValue string `json:"marketValue"`
	Currency    string `json:"currency"`
}

// Squad is the roster of a club for one season. Players are keyed by a
// 1-based index that follows the provider's ordering.
type Squad struct {
	TeamID     string          `json:"team_id"`
	SeasonYear string          `json:"season_year"`
	Players    map[int]Summary `json:"players"`
}

// Ordered returns the squad entries by index.
func (s Squad) Ordered() []Summary {
	out := make([]Summary, 0, len(s.Players))
	for i := 1; i <= len(s.Players); i++ {
		entry, ok := s.Players[i]
		if !ok {
			continue
		}
		out = append(out, entry)
	}
	return out
}

// SquadQuery identifies a squad lookup.
type SquadQuery struct {
	TeamID     string `query:"team_id" validate:"required"`
	SeasonYear string `query:"season_year" validate:"required"`
}
