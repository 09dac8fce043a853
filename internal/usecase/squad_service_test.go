package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/riskibarqy/laliga-scout/internal/domain/document"
	"github.com/riskibarqy/laliga-scout/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/laliga-scout/internal/platform/logging"
	documentmock "github.com/riskibarqy/laliga-scout/internal/mocks/domain/document"
	"github.com/stretchr/testify/mock"
)

func TestSquadService_GetSquad_FetchesOnceThenServesCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := memory.NewDocumentRepository()
	source := documentmock.NewSource(t)
	service := NewSquadService(repo, source, logging.NewNop())

	source.
		On("Fetch", mock.Anything, document.EndpointClubSquad, map[string]string{"id": "131", "saison_id": "2023"}).
		Return(mustDecode(t, squadFixture), nil).
		Once()

	squad, err := service.GetSquad(ctx, "131", "2023")
	if err != nil {
		t.Fatalf("get squad: %v", err)
	}
	if squad.TeamID != "131" || squad.SeasonYear != "2023" {
		t.Fatalf("unexpected squad identity: %+v", squad)
	}
	if len(squad.Players) != 3 {
		t.Fatalf("expected 3 players, got %d", len(squad.Players))
	}

	cached, err := service.GetSquad(ctx, "131", "2023")
	if err != nil {
		t.Fatalf("get squad from cache: %v", err)
	}
	if len(cached.Players) != len(squad.Players) || cached.Players[1] != squad.Players[1] {
		t.Fatalf("cached squad differs: %+v vs %+v", cached.Players, squad.Players)
	}

	ordered := cached.Ordered()
	if ordered[0].Name != "Lionel Messi" || ordered[2].Name != "Pedri" {
		t.Fatalf("unexpected order: %+v", ordered)
	}
}

func TestSquadService_GetSquad_EmptySquadIsCached(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := memory.NewDocumentRepository()
	source := documentmock.NewSource(t)
	service := NewSquadService(repo, source, logging.NewNop())

	source.
		On("Fetch", mock.Anything, document.EndpointClubSquad, mock.Anything).
		Return(mustDecode(t, `{"squad": []}`), nil).
		Once()

	squad, err := service.GetSquad(ctx, "1", "2020")
	if err != nil {
		t.Fatalf("get squad: %v", err)
	}
	if len(squad.Players) != 0 {
		t.Fatalf("expected empty squad")
	}
	if exists, _ := repo.Exists(ctx, document.SquadKey("1", "2020")); !exists {
		t.Fatalf("expected empty squad document to be cached")
	}
}

func TestSquadService_GetSquad_MissingParameters(t *testing.T) {
	t.Parallel()

	source := documentmock.NewSource(t)
	service := NewSquadService(memory.NewDocumentRepository(), source, logging.NewNop())

	_, err := service.GetSquad(context.Background(), " ", "")
	if !errors.Is(err, ErrMissingParameter) {
		t.Fatalf("expected ErrMissingParameter, got %v", err)
	}
	if !strings.Contains(err.Error(), "team_id, season_year") {
		t.Fatalf("expected every missing parameter to be named, got %q", err.Error())
	}
	source.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything, mock.Anything)
}

func TestSquadService_GetSquad_UpstreamFailureIsNotCached(t *testing.T) {
	t.Parallel()

	repo := memory.NewDocumentRepository()
	source := documentmock.NewSource(t)
	service := NewSquadService(repo, source, logging.NewNop())

	source.
		On("Fetch", mock.Anything, document.EndpointClubSquad, mock.Anything).
		Return(nil, &UpstreamError{Endpoint: "clubs/get-squad", Message: "connection reset"}).
		Once()

	if _, err := service.GetSquad(context.Background(), "131", "2023"); !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	if repo.Len() != 0 {
		t.Fatalf("expected nothing cached")
	}
}
