package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/laliga-scout/internal/domain/document"
	"github.com/riskibarqy/laliga-scout/internal/domain/team"
	"github.com/riskibarqy/laliga-scout/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type ClubService struct {
	cache       documentCache
	competition string
}

func NewClubService(repo document.Repository, source document.Source, competition string, logger *logging.Logger) *ClubService {
	return &ClubService{
		cache:       newDocumentCache(repo, source, logger),
		competition: competition,
	}
}

// SearchClubs returns the league clubs matching teamName. The raw search
// result is cached only when at least one club belongs to the league.
func (s *ClubService) SearchClubs(ctx context.Context, teamName string) ([]team.Club, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ClubService.SearchClubs", attribute.String("team_name", teamName))
	defer span.End()

	teamName = strings.TrimSpace(teamName)
	if teamName == "" {
		return nil, MissingParameters("team_name")
	}

	key := document.TeamSearchKey(teamName)
	var cached document.Raw
	found, err := s.cache.read(ctx, key, &cached)
	if err != nil {
		return nil, err
	}
	if found {
		return s.clubsOrNotFound(cached, teamName)
	}

	doc, err := s.cache.fetch(ctx, document.EndpointSearch, map[string]string{"query": teamName})
	if err != nil {
		return nil, err
	}

	clubs, err := s.clubsOrNotFound(doc, teamName)
	if err != nil {
		return nil, err
	}
	s.cache.write(ctx, key, doc)
	return clubs, nil
}

func (s *ClubService) clubsOrNotFound(doc document.Raw, teamName string) ([]team.Club, error) {
	clubs := ExtractClubs(doc, s.competition)
	if len(clubs) == 0 {
		return nil, fmt.Errorf("%w: team %q is not part of %s", ErrNotFound, teamName, s.competition)
	}
	return clubs, nil
}
