package usecase

import (
	"fmt"
	"strings"

	"github.com/riskibarqy/laliga-scout/internal/domain/document"
	"github.com/riskibarqy/laliga-scout/internal/domain/marketvalue"
	"github.com/riskibarqy/laliga-scout/internal/domain/player"
	"github.com/riskibarqy/laliga-scout/internal/domain/playerstats"
	"github.com/riskibarqy/laliga-scout/internal/domain/team"
	"github.com/riskibarqy/laliga-scout/internal/platform/jsonmap"
)

const unknownName = "Unknown"

// ExtractClubs keeps the clubs of a search result that play in the given competition.
func ExtractClubs(doc document.Raw, competition string) []team.Club {
	items, _ := jsonmap.Maps(doc, "clubs")
	out := make([]team.Club, 0, len(items))
	for _, item := range items {
		club := team.Club(item)
		if club.CompetitionName() == competition {
			out = append(out, club)
		}
	}
	return out
}

// ExtractSquad indexes the valid squad entries from 1 in provider order.
func ExtractSquad(doc document.Raw) map[int]player.Summary {
	entries := squadEntries(doc)
	out := make(map[int]player.Summary, len(entries))
	for i, entry := range entries {
		out[i+1] = summaryFromEntry(entry)
	}
	return out
}

// FindSquadEntry returns the raw squad entry whose id matches playerID.
func FindSquadEntry(doc document.Raw, playerID string) (map[string]any, bool) {
	playerID = strings.TrimSpace(playerID)
	for _, entry := range squadEntries(doc) {
		if id, _ := jsonmap.String(entry, "id"); id == playerID {
			return entry, true
		}
	}
	return nil, false
}

// ExtractProfile builds the static part of a career record from a squad entry.
func ExtractProfile(entry map[string]any) playerstats.Profile {
	summary := summaryFromEntry(entry)
	return playerstats.Profile{
		PlayerID:    summary.PlayerID,
		Name:        summary.Name,
		Position:    summary.Position,
		MarketValue: summary.MarketValue,
		Currency:    summary.Currency,
		Age:         jsonmap.StringOr(entry, "age", playerstats.UnknownDetail),
		Height:      jsonmap.StringOr(entry, "height", playerstats.UnknownDetail),
		Weight:      playerstats.UnknownDetail,
	}
}

// ExtractMarketHistory projects the market value development of a player.
func ExtractMarketHistory(doc document.Raw) (marketvalue.History, error) {
	raw, ok := jsonmap.Lookup(doc, "marketValueDevelopment")
	if !ok {
		return nil, fmt.Errorf("%w: no market value development data", ErrNotFound)
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: market value development has unexpected type %T", ErrNotFound, raw)
	}

	out := make(marketvalue.History, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, marketvalue.Point{
			Age:                    entry["age"],
			MarketValueUnformatted: entry["marketValueUnformatted"],
			MarketValueCurrency:    entry["marketValueCurrency"],
			ClubName:               entry["clubName"],
			ClubImage:              entry["clubImage"],
			SeasonID:               entry["seasonID"],
		})
	}
	return out, nil
}

// ExtractSeasonStats counts one season of match performances for a player of teamID.
func ExtractSeasonStats(doc document.Raw, teamID string) playerstats.SeasonStats {
	stats := playerstats.SeasonStats{TeamName: playerstats.DidNotPlay}

	matches, _ := jsonmap.Maps(doc, "matchPerformance")
	for _, item := range matches {
		if name, ok := matchTeamName(item, teamID); ok {
			stats.TeamName = name
		}

		perf, ok := jsonmap.Map(item, "performance")
		if !ok {
			continue
		}
		stats.Goals += jsonmap.Int(perf, "goals")
		stats.Assists += jsonmap.Int(perf, "assists")
		stats.OwnGoals += jsonmap.Int(perf, "ownGoals")
		stats.YellowCards += cardCount(perf, "yellowCardMinute")
		stats.RedCards += cardCount(perf, "redCardMinute")
		stats.YellowRedCards += cardCount(perf, "yellowRedCardMinute")
	}

	return stats
}

func squadEntries(doc document.Raw) []map[string]any {
	items, _ := jsonmap.Maps(doc, "squad")
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if !jsonmap.Has(item, "name") || !jsonmap.Has(item, "id") {
			continue
		}
		out = append(out, item)
	}
	return out
}

func summaryFromEntry(entry map[string]any) player.Summary {
	summary := player.Summary{
		PlayerID:    jsonmap.StringOr(entry, "id", ""),
		Name:        jsonmap.StringOr(entry, "name", ""),
		Position:    player.DefaultPosition,
		MarketValue: player.DefaultMarketValue,
		Currency:    player.DefaultCurrency,
	}
	if v, ok := jsonmap.Path(entry, "positions", "first", "name"); ok {
		if s, ok := jsonmap.Scalar(v); ok && s != "" {
			summary.Position = s
		}
	}
	if mv, ok := jsonmap.Map(entry, "marketValue"); ok {
		summary.MarketValue = jsonmap.StringOr(mv, "value", player.DefaultMarketValue)
		summary.Currency = jsonmap.StringOr(mv, "currency", player.DefaultCurrency)
	}
	return summary
}

// matchTeamName picks the name of the side the player turned out for. The home
// side wins when its id equals teamID, otherwise the away side is assumed.
func matchTeamName(item map[string]any, teamID string) (string, bool) {
	info, ok := jsonmap.Map(item, "match")
	if !ok {
		return "", false
	}
	home, okHome := jsonmap.Map(info, "homeTeam")
	away, okAway := jsonmap.Map(info, "awayTeam")
	if !okHome || !okAway {
		return "", false
	}

	if sameTeamID(home, teamID) {
		return jsonmap.StringOr(home, "name", unknownName), true
	}
	return jsonmap.StringOr(away, "name", unknownName), true
}

func sameTeamID(side map[string]any, teamID string) bool {
	teamID = strings.TrimSpace(teamID)
	want, wantOK := jsonmap.AsInt64(teamID)
	got, gotOK := jsonmap.Int64(side, "id")
	if wantOK && gotOK {
		return got == want
	}
	id, _ := jsonmap.String(side, "id")
	return id != "" && id == teamID
}

// cardCount is 1 when the card minute is set to anything but a zero sentinel.
func cardCount(perf map[string]any, key string) int {
	raw, ok := jsonmap.Lookup(perf, key)
	if !ok {
		return 0
	}
	value, ok := jsonmap.Scalar(raw)
	if !ok {
		return 1
	}
	switch value {
	case "", "0":
		return 0
	}
	return 1
}
