package usecase

import (
	"context"
	"strings"

	"github.com/riskibarqy/laliga-scout/internal/domain/document"
	"github.com/riskibarqy/laliga-scout/internal/domain/marketvalue"
	"github.com/riskibarqy/laliga-scout/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type MarketValueService struct {
	cache documentCache
}

func NewMarketValueService(repo document.Repository, source document.Source, logger *logging.Logger) *MarketValueService {
	return &MarketValueService{cache: newDocumentCache(repo, source, logger)}
}

// GetHistory returns the projected market value development of a player.
// Only the projection is cached.
func (s *MarketValueService) GetHistory(ctx context.Context, playerID string) (marketvalue.History, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MarketValueService.GetHistory", attribute.String("player_id", playerID))
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return nil, MissingParameters("player_id")
	}

	key := document.MarketHistoryKey(playerID)
	var cached marketvalue.History
	found, err := s.cache.read(ctx, key, &cached)
	if err != nil {
		return nil, err
	}
	if found {
		if cached == nil {
			cached = marketvalue.History{}
		}
		return cached, nil
	}

	doc, err := s.cache.fetch(ctx, document.EndpointMarketValue, map[string]string{"id": playerID})
	if err != nil {
		return nil, err
	}

	history, err := ExtractMarketHistory(doc)
	if err != nil {
		return nil, err
	}
	s.cache.write(ctx, key, history)
	return history, nil
}
