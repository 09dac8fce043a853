package usecase

import (
	"context"
	"strings"

	"github.com/riskibarqy/laliga-scout/internal/domain/document"
	"github.com/riskibarqy/laliga-scout/internal/domain/player"
	"github.com/riskibarqy/laliga-scout/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type SquadService struct {
	cache documentCache
}

func NewSquadService(repo document.Repository, source document.Source, logger *logging.Logger) *SquadService {
	return &SquadService{cache: newDocumentCache(repo, source, logger)}
}

func (s *SquadService) GetSquad(ctx context.Context, teamID, seasonYear string) (player.Squad, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SquadService.GetSquad",
		attribute.String("team_id", teamID),
		attribute.String("season_year", seasonYear),
	)
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	seasonYear = strings.TrimSpace(seasonYear)
	if err := requireParams("team_id", teamID, "season_year", seasonYear); err != nil {
		return player.Squad{}, err
	}

	doc, err := s.loadDocument(ctx, teamID, seasonYear)
	if err != nil {
		return player.Squad{}, err
	}

	return player.Squad{
		TeamID:     teamID,
		SeasonYear: seasonYear,
		Players:    ExtractSquad(doc),
	}, nil
}

// loadDocument returns the raw squad document, from cache when present.
func (s *SquadService) loadDocument(ctx context.Context, teamID, seasonYear string) (document.Raw, error) {
	return s.cache.load(ctx, document.SquadKey(teamID, seasonYear), document.EndpointClubSquad, map[string]string{
		"id":        teamID,
		"saison_id": seasonYear,
	})
}

// requireParams takes name/value pairs and reports every blank value at once.
func requireParams(pairs ...string) error {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			missing = append(missing, pairs[i])
		}
	}
	if len(missing) > 0 {
		return MissingParameters(missing...)
	}
	return nil
}
