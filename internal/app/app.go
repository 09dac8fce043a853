package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/riskibarqy/laliga-scout/external/transfermarkt"
	"github.com/riskibarqy/laliga-scout/internal/config"
	"github.com/riskibarqy/laliga-scout/internal/domain/document"
	"github.com/riskibarqy/laliga-scout/internal/infrastructure/repository/filestore"
	"github.com/riskibarqy/laliga-scout/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/laliga-scout/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/laliga-scout/internal/infrastructure/repository/redisstore"
	"github.com/riskibarqy/laliga-scout/internal/interfaces/httpapi"
	"github.com/riskibarqy/laliga-scout/internal/platform/logging"
	"github.com/riskibarqy/laliga-scout/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

// Services bundles the use cases shared by the API server and the cache warmer.
type Services struct {
	Clubs        *usecase.ClubService
	Squads       *usecase.SquadService
	Careers      *usecase.CareerService
	MarketValues *usecase.MarketValueService
	Warmer       *usecase.CacheWarmer
}

// NewServices builds the document store selected by cfg and every use case on top
// of it. The returned cleanup releases store connections.
func NewServices(ctx context.Context, cfg config.Config, logger *logging.Logger) (Services, func(), error) {
	if logger == nil {
		logger = logging.Default()
	}

	repo, cleanup, err := newDocumentRepository(ctx, cfg, logger)
	if err != nil {
		return Services{}, nil, err
	}

	source := transfermarkt.NewClient(transfermarkt.ClientConfig{
		BaseURL:           cfg.TransfermarktBaseURL,
		APIKey:            cfg.RapidAPIKey,
		APIHost:           cfg.RapidAPIHost,
		Domain:            cfg.TransfermarktDomain,
		Timeout:           cfg.TransfermarktTimeout,
		RequestsPerMinute: cfg.TransfermarktRequestsPerMinute,
		CircuitBreaker: transfermarkt.CircuitBreakerConfig{
			Enabled:          cfg.TransfermarktCircuitEnabled,
			FailureThreshold: cfg.TransfermarktCircuitFailureCount,
			OpenTimeout:      cfg.TransfermarktCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.TransfermarktCircuitHalfOpenMaxReq,
		},
		Logger: logger.Named("transfermarkt"),
	})

	squads := usecase.NewSquadService(repo, source, logger)
	careers := usecase.NewCareerService(repo, source, squads, usecase.CareerConfig{
		CompetitionID: cfg.CompetitionID,
		Seasons:       cfg.Seasons(),
		Workers:       cfg.AggregatorWorkers,
	}, logger)
	marketValues := usecase.NewMarketValueService(repo, source, logger)

	return Services{
		Clubs:        usecase.NewClubService(repo, source, cfg.CompetitionName, logger),
		Squads:       squads,
		Careers:      careers,
		MarketValues: marketValues,
		Warmer:       usecase.NewCacheWarmer(squads, careers, marketValues, logger),
	}, cleanup, nil
}

func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func(), error) {
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	services, cleanup, err := NewServices(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	handler := httpapi.NewHandler(services.Clubs, services.Squads, services.Careers, services.MarketValues, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return server, cleanup, nil
}

func newDocumentRepository(ctx context.Context, cfg config.Config, logger *logging.Logger) (document.Repository, func(), error) {
	noop := func() {}

	switch cfg.CacheBackend {
	case config.CacheBackendMemory:
		logger.Warn("using in-memory document cache; entries are lost on restart")
		return memory.NewDocumentRepository(), noop, nil
	case config.CacheBackendRedis:
		repo, err := redisstore.Open(ctx, cfg.RedisURL, cfg.RedisKeyPrefix)
		if err != nil {
			return nil, nil, fmt.Errorf("open redis cache: %w", err)
		}
		logger.Info("document cache ready", "backend", cfg.CacheBackend, "prefix", cfg.RedisKeyPrefix)
		return repo, func() {
			if err := repo.Close(); err != nil {
				logger.Warn("close redis cache failed", "error", err)
			}
		}, nil
	case config.CacheBackendPostgres:
		dsn := NormalizeDBURL(cfg.DBURL, cfg.DBSSLMode)
		db, err := otelsqlx.Open("postgres", dsn,
			otelsql.WithDBName(dbNameFromURL(dsn)),
			otelsql.WithQueryFormatter(formatDBQueryForTrace),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres cache: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("ping postgres cache: %w", err)
		}
		logger.Info("document cache ready", "backend", cfg.CacheBackend)
		return postgres.NewDocumentRepository(db), func() {
			if err := db.Close(); err != nil {
				logger.Warn("close postgres cache failed", "error", err)
			}
		}, nil
	default:
		logger.Info("document cache ready", "backend", config.CacheBackendFile, "dir", cfg.CacheDir)
		return filestore.NewDocumentRepository(cfg.CacheDir), noop, nil
	}
}
