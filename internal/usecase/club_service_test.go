package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/laliga-scout/internal/domain/document"
	"github.com/riskibarqy/laliga-scout/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/laliga-scout/internal/platform/logging"
	documentmock "github.com/riskibarqy/laliga-scout/internal/mocks/domain/document"
	"github.com/stretchr/testify/mock"
)

const realMadridSearch = `{"clubs": [
	{"id": "418", "name": "Real Madrid", "competitionName": "LaLiga"},
	{"id": "9999", "name": "Real Madrid Supporters", "competitionName": "Premier League"}
]}`

func TestClubService_SearchClubs_FiltersAndCaches(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := memory.NewDocumentRepository()
	source := documentmock.NewSource(t)
	service := NewClubService(repo, source, "LaLiga", logging.NewNop())

	source.
		On("Fetch", mock.Anything, document.EndpointSearch, map[string]string{"query": "Real Madrid"}).
		Return(mustDecode(t, realMadridSearch), nil).
		Once()

	clubs, err := service.SearchClubs(ctx, "  Real Madrid ")
	if err != nil {
		t.Fatalf("search clubs: %v", err)
	}
	if len(clubs) != 1 || clubs[0]["id"] != "418" {
		t.Fatalf("expected only the LaLiga club, got %v", clubs)
	}

	exists, err := repo.Exists(ctx, document.TeamSearchKey("Real Madrid"))
	if err != nil || !exists {
		t.Fatalf("expected raw search result to be cached, err=%v", err)
	}

	again, err := service.SearchClubs(ctx, "Real Madrid")
	if err != nil {
		t.Fatalf("search clubs from cache: %v", err)
	}
	if len(again) != 1 || again[0]["name"] != "Real Madrid" {
		t.Fatalf("unexpected cached clubs: %v", again)
	}
}

func TestClubService_SearchClubs_NotInLeagueIsNotCached(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := memory.NewDocumentRepository()
	source := documentmock.NewSource(t)
	service := NewClubService(repo, source, "LaLiga", logging.NewNop())

	source.
		On("Fetch", mock.Anything, document.EndpointSearch, map[string]string{"query": "Arsenal"}).
		Return(mustDecode(t, `{"clubs": [{"name": "Arsenal FC", "competitionName": "Premier League"}]}`), nil).
		Twice()

	for i := 0; i < 2; i++ {
		_, err := service.SearchClubs(ctx, "Arsenal")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	}
	if repo.Len() != 0 {
		t.Fatalf("expected nothing cached, got %v", repo.Keys())
	}
}

func TestClubService_SearchClubs_MissingNameSkipsUpstream(t *testing.T) {
	t.Parallel()

	source := documentmock.NewSource(t)
	service := NewClubService(memory.NewDocumentRepository(), source, "LaLiga", logging.NewNop())

	_, err := service.SearchClubs(context.Background(), "   ")
	if !errors.Is(err, ErrMissingParameter) {
		t.Fatalf("expected ErrMissingParameter, got %v", err)
	}
	source.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything, mock.Anything)
}

func TestClubService_SearchClubs_UpstreamFailure(t *testing.T) {
	t.Parallel()

	repo := memory.NewDocumentRepository()
	source := documentmock.NewSource(t)
	service := NewClubService(repo, source, "LaLiga", logging.NewNop())

	source.
		On("Fetch", mock.Anything, document.EndpointSearch, mock.Anything).
		Return(nil, &UpstreamError{Endpoint: "search", StatusCode: 403, Message: "invalid key"}).
		Once()

	_, err := service.SearchClubs(context.Background(), "Barcelona")
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	var upstreamErr *UpstreamError
	if !errors.As(err, &upstreamErr) || upstreamErr.StatusCode != 403 {
		t.Fatalf("expected upstream status to be preserved, got %v", err)
	}
	if repo.Len() != 0 {
		t.Fatalf("expected nothing cached")
	}
}

func TestClubService_SearchClubs_CorruptCacheIsRefetched(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := memory.NewDocumentRepository()
	repo.Put(document.TeamSearchKey("Girona"), []byte(`{"clubs": [`))
	source := documentmock.NewSource(t)
	service := NewClubService(repo, source, "LaLiga", logging.NewNop())

	source.
		On("Fetch", mock.Anything, document.EndpointSearch, map[string]string{"query": "Girona"}).
		Return(mustDecode(t, `{"clubs": [{"name": "Girona FC", "competitionName": "LaLiga"}]}`), nil).
		Once()

	clubs, err := service.SearchClubs(ctx, "Girona")
	if err != nil {
		t.Fatalf("search clubs: %v", err)
	}
	if len(clubs) != 1 {
		t.Fatalf("unexpected clubs: %v", clubs)
	}

	var doc document.Raw
	if err := repo.Read(ctx, document.TeamSearchKey("Girona"), &doc); err != nil {
		t.Fatalf("expected corrupt entry to be overwritten: %v", err)
	}
}

func TestClubService_SearchClubs_CacheReadError(t *testing.T) {
	t.Parallel()

	repo := documentmock.NewRepository(t)
	source := documentmock.NewSource(t)
	service := NewClubService(repo, source, "LaLiga", logging.NewNop())

	repo.
		On("Read", mock.Anything, document.TeamSearchKey("Betis"), mock.Anything).
		Return(errors.New("disk unavailable")).
		Once()

	_, err := service.SearchClubs(context.Background(), "Betis")
	if err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, ErrUpstream) {
		t.Fatalf("expected internal error, got %v", err)
	}
}
