package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/riskibarqy/laliga-scout/internal/domain/document"
	"github.com/riskibarqy/laliga-scout/internal/domain/playerstats"
	"github.com/riskibarqy/laliga-scout/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
)

// CareerConfig fixes the window and competition the aggregation runs over.
type CareerConfig struct {
	CompetitionID string
	// Seasons are visited in the given order, usually newest first.
	Seasons []int
	// Workers bounds concurrent season lookups. One keeps the loop sequential.
	Workers int
}

type CareerService struct {
	cache  documentCache
	squads *SquadService
	cfg    CareerConfig
	logger *logging.Logger
}

func NewCareerService(repo document.Repository, source document.Source, squads *SquadService, cfg CareerConfig, logger *logging.Logger) *CareerService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &CareerService{
		cache:  newDocumentCache(repo, source, logger),
		squads: squads,
		cfg:    cfg,
		logger: logger,
	}
}

type seasonResult struct {
	season  int
	stats   playerstats.SeasonStats
	fetched bool
}

// GetCareer aggregates a player's league statistics across the season window.
// seasonYear selects the squad used for the profile and the cache slot of the
// combined record. Nothing is persisted unless every season succeeds.
func (s *CareerService) GetCareer(ctx context.Context, query playerstats.CareerQuery) (playerstats.CareerRecord, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CareerService.GetCareer",
		attribute.String("player_id", query.PlayerID),
		attribute.String("team_id", query.TeamID),
		attribute.String("season_year", query.SeasonYear),
	)
	defer span.End()

	query = normalizeCareerQuery(query)
	if err := requireParams("player_id", query.PlayerID, "team_id", query.TeamID, "season_year", query.SeasonYear); err != nil {
		return playerstats.CareerRecord{}, err
	}

	recordKey := document.CareerKey(query.TeamID, query.PlayerID, query.SeasonYear)
	var cached playerstats.CareerRecord
	found, err := s.cache.read(ctx, recordKey, &cached)
	if err != nil {
		return playerstats.CareerRecord{}, err
	}
	if found {
		return cached, nil
	}

	squadDoc, err := s.squads.loadDocument(ctx, query.TeamID, query.SeasonYear)
	if err != nil {
		return playerstats.CareerRecord{}, err
	}
	entry, ok := FindSquadEntry(squadDoc, query.PlayerID)
	if !ok {
		return playerstats.CareerRecord{}, fmt.Errorf("%w: player %s not found in squad of team %s for season %s",
			ErrNotFound, query.PlayerID, query.TeamID, query.SeasonYear)
	}
	profile := ExtractProfile(entry)

	results, err := s.collectSeasons(ctx, query)
	if err != nil {
		s.logger.WarnContext(ctx, "career aggregation aborted",
			"player_id", query.PlayerID,
			"team_id", query.TeamID,
			"error", err,
		)
		return playerstats.CareerRecord{}, err
	}

	bySeason := make(map[int]playerstats.SeasonStats, len(results))
	for _, result := range results {
		bySeason[result.season] = result.stats
		if result.fetched {
			s.cache.write(ctx, document.SeasonStatsKey(query.TeamID, query.PlayerID, strconv.Itoa(result.season)), result.stats)
		}
	}

	record := playerstats.NewCareerRecord(profile, bySeason)
	s.cache.write(ctx, recordKey, record)
	return record, nil
}

func (s *CareerService) collectSeasons(ctx context.Context, query playerstats.CareerQuery) ([]seasonResult, error) {
	p := pool.NewWithResults[seasonResult]().
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError().
		WithMaxGoroutines(s.cfg.Workers)

	for _, season := range s.cfg.Seasons {
		p.Go(func(ctx context.Context) (seasonResult, error) {
			return s.loadSeason(ctx, query, season)
		})
	}

	results, err := p.Wait()
	if err != nil {
		return nil, err
	}
	if len(results) != len(s.cfg.Seasons) {
		return nil, fmt.Errorf("aggregated %d of %d seasons", len(results), len(s.cfg.Seasons))
	}
	return results, nil
}

func (s *CareerService) loadSeason(ctx context.Context, query playerstats.CareerQuery, season int) (seasonResult, error) {
	if err := ctx.Err(); err != nil {
		return seasonResult{}, err
	}

	seasonID := strconv.Itoa(season)
	key := document.SeasonStatsKey(query.TeamID, query.PlayerID, seasonID)

	var cached playerstats.SeasonStats
	found, err := s.cache.read(ctx, key, &cached)
	if err != nil {
		return seasonResult{}, err
	}
	if found {
		return seasonResult{season: season, stats: cached}, nil
	}

	doc, err := s.cache.fetch(ctx, document.EndpointPerformanceDetail, map[string]string{
		"id":            query.PlayerID,
		"seasonID":      seasonID,
		"competitionID": s.cfg.CompetitionID,
	})
	if err != nil {
		return seasonResult{}, err
	}

	return seasonResult{
		season:  season,
		stats:   ExtractSeasonStats(doc, query.TeamID),
		fetched: true,
	}, nil
}

func normalizeCareerQuery(query playerstats.CareerQuery) playerstats.CareerQuery {
	return playerstats.CareerQuery{
		PlayerID:   strings.TrimSpace(query.PlayerID),
		TeamID:     strings.TrimSpace(query.TeamID),
		SeasonYear: strings.TrimSpace(query.SeasonYear),
	}
}
