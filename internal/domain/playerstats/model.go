package playerstats

import "strconv"

const (
	DidNotPlay    = "did not play for the team"
	UnknownDetail = "Unknown"
)

// Counters are the summable match counters of a player.
type Counters struct {
	Goals          int `json:"goals"`
	Assists        int `json:"assists"`
	OwnGoals       int `json:"own_goals"`
	YellowCards    int `json:"yellow_cards"`
	RedCards       int `json:"red_cards"`
	YellowRedCards int `json:"yellow_red_cards"`
}

func (c *Counters) Add(other Counters) {
	c.Goals += other.Goals
	c.Assists += other.Assists
	c.OwnGoals += other.OwnGoals
	c.YellowCards += other.YellowCards
	c.RedCards += other.RedCards
	c.YellowRedCards += other.YellowRedCards
}

// SeasonStats holds one season of league matches for a player.
type SeasonStats struct {
	Counters
	TeamName string `json:"team_name"`
}

// Profile is the static part of a player's career record.
type Profile struct {
	PlayerID    string `json:"player_id"`
	Name        string `json:"name"`
	Position    string `json:"position"`
	MarketValue string `json:"marketValue"`
	Currency    string `json:"currency"`
	Age         string `json:"age"`
	Height      string `json:"height"`
	Weight      string `json:"weight"`
}

// Totals is the profile plus counters summed over the whole season window.
type Totals struct {
	Profile
	Counters
}

// CareerRecord is the aggregated player view served by the career endpoint.
type CareerRecord struct {
	Statistics         Totals                 `json:"statistics"`
	StatisticsBySeason map[string]SeasonStats `json:"statistics_by_season"`
}

// NewCareerRecord sums the given seasons into a record.
func NewCareerRecord(profile Profile, seasons map[int]SeasonStats) CareerRecord {
	record := CareerRecord{
		Statistics:         Totals{Profile: profile},
		StatisticsBySeason: make(map[string]SeasonStats, len(seasons)),
	}
	for season, stats := range seasons {
		record.Statistics.Add(stats.Counters)
		record.StatisticsBySeason[strconv.Itoa(season)] = stats
	}
	return record
}

// CareerQuery identifies a career aggregation.
type CareerQuery struct {
	PlayerID   string `query:"player_id" validate:"required"`
	TeamID     string `query:"team_id" validate:"required"`
	SeasonYear string `query:"season_year" validate:"required"`
}
