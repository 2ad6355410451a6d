package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/pgctour/api/external/datagolf"
	"github.com/pgctour/api/internal/config"
	"github.com/pgctour/api/internal/domain/golfer"
	"github.com/pgctour/api/internal/domain/team"
	"github.com/pgctour/api/internal/domain/tier"
	"github.com/pgctour/api/internal/domain/tour"
	"github.com/pgctour/api/internal/domain/tourcard"
	"github.com/pgctour/api/internal/domain/tournament"
	"github.com/pgctour/api/internal/infrastructure/repository/memory"
	"github.com/pgctour/api/internal/infrastructure/repository/postgres"
	"github.com/pgctour/api/internal/interfaces/httpapi"
	"github.com/pgctour/api/internal/platform/cache"
	idgen "github.com/pgctour/api/internal/platform/id"
	"github.com/pgctour/api/internal/platform/logging"
	"github.com/pgctour/api/internal/platform/resilience"
	"github.com/pgctour/api/internal/usecase"
)

type repositories struct {
	tournaments tournament.Repository
	teams       team.Repository
	golfers     golfer.Repository
	tours       tour.Repository
	tourCards   tourcard.Repository
	tiers       tier.Repository
}

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("build repositories: %w", err)
	}

	snapshots := usecase.NewSnapshotService(
		repos.tournaments,
		repos.teams,
		repos.golfers,
		repos.tours,
		repos.tourCards,
		repos.tiers,
		cache.NewStore(),
		buildFreshnessPolicy(cfg),
		logger,
	)

	var rankings usecase.RankingsProvider
	if cfg.DataGolfEnabled {
		rankings = datagolf.NewClient(datagolf.ClientConfig{
			BaseURL:    cfg.DataGolfBaseURL,
			Key:        cfg.DataGolfKey,
			Timeout:    cfg.DataGolfTimeout,
			MaxRetries: cfg.DataGolfMaxRetries,
			Logger:     logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.DataGolfCircuitEnabled,
				FailureThreshold: cfg.DataGolfCircuitFailureCount,
				OpenTimeout:      cfg.DataGolfCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.DataGolfCircuitHalfOpenMaxReq,
			},
		})
	} else {
		logger.Info("datagolf rankings disabled", "reason", "DATAGOLF_ENABLED=false")
	}

	standingsSvc := usecase.NewStandingsService(snapshots, repos.teams, logger)
	handler := httpapi.NewHandler(
		usecase.NewLeaderboardService(snapshots, snapshots, logger),
		usecase.NewGroupingService(repos.tournaments, repos.golfers, rankings, logger),
		standingsSvc,
		usecase.NewPlayoffService(standingsSvc, logger),
		usecase.NewRefreshService(snapshots, repos.teams, repos.tourCards, idgen.NewRandomGenerator(), logger),
		logger,
	)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

func buildRepositories(cfg config.Config, logger *logging.Logger) (repositories, error) {
	if cfg.DBURL == "" {
		logger.Info("using in-memory repositories", "reason", "DB_URL empty")
		return repositories{
			tournaments: memory.NewTournamentRepository(memory.SeedTournaments()),
			teams:       memory.NewTeamRepository(memory.SeedTeams(), memory.SeedSeasonByTournament()),
			golfers:     memory.NewGolferRepository(memory.SeedGolfers()),
			tours:       memory.NewTourRepository(memory.SeedTours()),
			tourCards:   memory.NewTourCardRepository(memory.SeedTourCards()),
			tiers:       memory.NewTierRepository(memory.SeedTiers()),
		}, nil
	}

	db, err := openDB(cfg)
	if err != nil {
		return repositories{}, err
	}
	logger.Info("using postgres repositories", "db_name", dbNameFromURL(cfg.DBURL))

	return repositories{
		tournaments: postgres.NewTournamentRepository(db),
		teams:       postgres.NewTeamRepository(db),
		golfers:     postgres.NewGolferRepository(db),
		tours:       postgres.NewTourRepository(db),
		tourCards:   postgres.NewTourCardRepository(db),
		tiers:       postgres.NewTierRepository(db),
	}, nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Connect("postgres",
		normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

func buildFreshnessPolicy(cfg config.Config) usecase.FreshnessPolicy {
	policy := usecase.DefaultFreshnessPolicy()

	overrides := map[usecase.FreshnessBucket]time.Duration{
		usecase.BucketLive:       cfg.LiveCacheTTL,
		usecase.BucketRecent:     cfg.RecentCacheTTL,
		usecase.BucketHistorical: cfg.HistoricalCacheTTL,
		usecase.BucketSeason:     cfg.SeasonCacheTTL,
	}
	for bucket, ttl := range overrides {
		if ttl <= 0 {
			continue
		}
		bucketPolicy := policy[bucket]
		bucketPolicy.TTL = ttl
		policy[bucket] = bucketPolicy
	}

	return policy
}
