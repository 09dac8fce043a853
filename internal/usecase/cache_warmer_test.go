package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/laliga-scout/internal/domain/document"
	"github.com/riskibarqy/laliga-scout/internal/infrastructure/repository/memory"
	documentmock "github.com/riskibarqy/laliga-scout/internal/mocks/domain/document"
	"github.com/riskibarqy/laliga-scout/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

func newWarmerFixture(t *testing.T) (*CacheWarmer, *memory.DocumentRepository, *documentmock.Source) {
	t.Helper()

	logger := logging.NewNop()
	repo := memory.NewDocumentRepository()
	source := documentmock.NewSource(t)
	squads := NewSquadService(repo, source, logger)
	careers := NewCareerService(repo, source, squads, CareerConfig{CompetitionID: "ES1", Seasons: []int{2024}, Workers: 1}, logger)
	return NewCacheWarmer(squads, careers, NewMarketValueService(repo, source, logger), logger), repo, source
}

func playerParam(id string) any {
	return mock.MatchedBy(func(params map[string]string) bool { return params["id"] == id })
}

func TestCacheWarmer_WarmSquadCareers_ContinuesPastFailures(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	warmer, repo, source := newWarmerFixture(t)

	source.
		On("Fetch", mock.Anything, document.EndpointClubSquad, map[string]string{"id": "131", "saison_id": "2023"}).
		Return(mustDecode(t, squadFixture), nil).
		Once()
	source.
		On("Fetch", mock.Anything, document.EndpointPerformanceDetail, playerParam("28003")).
		Return(mustDecode(t, performanceFixture(3)), nil).
		Once()
	source.
		On("Fetch", mock.Anything, document.EndpointPerformanceDetail, playerParam("418532")).
		Return(mustDecode(t, performanceFixture(1)), nil).
		Once()
	source.
		On("Fetch", mock.Anything, document.EndpointPerformanceDetail, playerParam("74857")).
		Return(nil, &UpstreamError{Endpoint: "players/get-performance-detail", StatusCode: 500}).
		Once()

	result, err := warmer.WarmSquadCareers(ctx, "131", "2023", 3)
	if err != nil {
		t.Fatalf("warm squad careers: %v", err)
	}
	if result.SuccessCount != 2 || result.FailedCount != 1 || len(result.Tasks) != 3 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Tasks[0].PlayerID != "28003" || result.Tasks[1].PlayerID != "418532" || result.Tasks[2].Status != warmStatusFailed {
		t.Fatalf("unexpected task order: %+v", result.Tasks)
	}

	for _, playerID := range []string{"28003", "418532"} {
		if exists, _ := repo.Exists(ctx, document.CareerKey("131", playerID, "2023")); !exists {
			t.Fatalf("expected career of %s to be cached", playerID)
		}
	}
	if exists, _ := repo.Exists(ctx, document.CareerKey("131", "74857", "2023")); exists {
		t.Fatalf("expected failed career not to be cached")
	}
}

func TestCacheWarmer_WarmSquadCareers_SquadFailure(t *testing.T) {
	t.Parallel()

	warmer, _, source := newWarmerFixture(t)
	source.
		On("Fetch", mock.Anything, document.EndpointClubSquad, mock.Anything).
		Return(nil, &UpstreamError{Endpoint: "clubs/get-squad", StatusCode: 503}).
		Once()

	if _, err := warmer.WarmSquadCareers(context.Background(), "131", "2023", 2); !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestCacheWarmer_WarmMarketHistories(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	warmer, repo, source := newWarmerFixture(t)
	source.
		On("Fetch", mock.Anything, document.EndpointMarketValue, map[string]string{"id": "28003"}).
		Return(mustDecode(t, `{"marketValueDevelopment": [{"age": "20"}]}`), nil).
		Once()
	source.
		On("Fetch", mock.Anything, document.EndpointMarketValue, map[string]string{"id": "1"}).
		Return(mustDecode(t, `{}`), nil).
		Once()

	result, err := warmer.WarmMarketHistories(ctx, []string{" 28003 ", "", "1"}, 0)
	if err != nil {
		t.Fatalf("warm histories: %v", err)
	}
	if result.SuccessCount != 1 || result.FailedCount != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if exists, _ := repo.Exists(ctx, document.MarketHistoryKey("28003")); !exists {
		t.Fatalf("expected history to be cached")
	}
}

func TestCacheWarmer_WarmMarketHistories_RequiresIDs(t *testing.T) {
	t.Parallel()

	warmer, _, _ := newWarmerFixture(t)
	if _, err := warmer.WarmMarketHistories(context.Background(), []string{" "}, 1); !errors.Is(err, ErrMissingParameter) {
		t.Fatalf("expected ErrMissingParameter, got %v", err)
	}
}
