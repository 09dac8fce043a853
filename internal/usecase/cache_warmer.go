package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/laliga-scout/internal/domain/playerstats"
	"github.com/riskibarqy/laliga-scout/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

const (
	warmStatusSuccess = "success"
	warmStatusFailed  = "failed"

	defaultWarmWorkers = 2
)

type WarmTaskResult struct {
	PlayerID   string `json:"player_id"`
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

type WarmResult struct {
	Tasks        []WarmTaskResult `json:"tasks"`
	SuccessCount int              `json:"success_count"`
	FailedCount  int              `json:"failed_count"`
}

// CacheWarmer fills the document cache ahead of traffic by running the regular
// lookups for many players at once. A failed player never aborts the batch.
type CacheWarmer struct {
	squads       *SquadService
	careers      *CareerService
	marketValues *MarketValueService
	logger       *logging.Logger
}

func NewCacheWarmer(squads *SquadService, careers *CareerService, marketValues *MarketValueService, logger *logging.Logger) *CacheWarmer {
	if logger == nil {
		logger = logging.Default()
	}
	return &CacheWarmer{
		squads:       squads,
		careers:      careers,
		marketValues: marketValues,
		logger:       logger,
	}
}

// WarmSquadCareers aggregates the career of every player in the squad of teamID for seasonYear.
func (w *CacheWarmer) WarmSquadCareers(ctx context.Context, teamID, seasonYear string, workers int) (WarmResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CacheWarmer.WarmSquadCareers",
		attribute.String("team_id", teamID),
		attribute.String("season_year", seasonYear),
	)
	defer span.End()

	squad, err := w.squads.GetSquad(ctx, teamID, seasonYear)
	if err != nil {
		return WarmResult{}, err
	}

	playerIDs := make([]string, 0, len(squad.Players))
	for _, entry := range squad.Ordered() {
		playerIDs = append(playerIDs, entry.PlayerID)
	}

	return w.run(ctx, playerIDs, workers, func(ctx context.Context, playerID string) error {
		_, err := w.careers.GetCareer(ctx, playerstats.CareerQuery{
			PlayerID:   playerID,
			TeamID:     squad.TeamID,
			SeasonYear: squad.SeasonYear,
		})
		return err
	})
}

// WarmMarketHistories loads the market value history of each player id.
func (w *CacheWarmer) WarmMarketHistories(ctx context.Context, playerIDs []string, workers int) (WarmResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CacheWarmer.WarmMarketHistories",
		attribute.Int("players", len(playerIDs)),
	)
	defer span.End()

	ids := make([]string, 0, len(playerIDs))
	for _, id := range playerIDs {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	if len(ids) == 0 {
		return WarmResult{}, MissingParameters("player_id")
	}

	return w.run(ctx, ids, workers, func(ctx context.Context, playerID string) error {
		_, err := w.marketValues.GetHistory(ctx, playerID)
		return err
	})
}

func (w *CacheWarmer) run(ctx context.Context, playerIDs []string, workers int, task func(context.Context, string) error) (WarmResult, error) {
	if workers <= 0 {
		workers = defaultWarmWorkers
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return WarmResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan WarmTaskResult, len(playerIDs))
	var successCount atomic.Int32
	var failedCount atomic.Int32

	var wg sync.WaitGroup
	for _, playerID := range playerIDs {
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()

			start := time.Now()
			row := WarmTaskResult{PlayerID: playerID, Status: warmStatusSuccess}
			if err := task(ctx, playerID); err != nil {
				row.Status = warmStatusFailed
				row.Message = err.Error()
				failedCount.Add(1)
				w.logger.WarnContext(ctx, "warm cache entry failed", "player_id", playerID, "error", err)
			} else {
				successCount.Add(1)
			}
			row.DurationMs = time.Since(start).Milliseconds()
			results <- row
		}); err != nil {
			wg.Done()
			wg.Wait()
			return WarmResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	wg.Wait()
	close(results)

	result := WarmResult{Tasks: make([]WarmTaskResult, 0, len(playerIDs))}
	for row := range results {
		result.Tasks = append(result.Tasks, row)
	}
	sort.SliceStable(result.Tasks, func(i, j int) bool {
		return result.Tasks[i].PlayerID < result.Tasks[j].PlayerID
	})
	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())

	w.logger.InfoContext(ctx, "cache warm finished",
		"tasks", len(result.Tasks),
		"success", result.SuccessCount,
		"failed", result.FailedCount,
	)
	return result, nil
}
