package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/doubles-league/internal/config"
	"github.com/riskibarqy/doubles-league/internal/domain/game"
	"github.com/riskibarqy/doubles-league/internal/domain/league"
	"github.com/riskibarqy/doubles-league/internal/domain/player"
	"github.com/riskibarqy/doubles-league/internal/domain/rating"
	"github.com/riskibarqy/doubles-league/internal/domain/stats"
	"github.com/riskibarqy/doubles-league/internal/domain/team"
	"github.com/riskibarqy/doubles-league/internal/infrastructure/jobqueue"
	"github.com/riskibarqy/doubles-league/internal/infrastructure/ratingcache"
	repocache "github.com/riskibarqy/doubles-league/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/doubles-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/doubles-league/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/doubles-league/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/doubles-league/internal/platform/cache"
	idgen "github.com/riskibarqy/doubles-league/internal/platform/id"
	"github.com/riskibarqy/doubles-league/internal/platform/logging"
	"github.com/riskibarqy/doubles-league/internal/platform/metrics"
	"github.com/riskibarqy/doubles-league/internal/platform/resilience"
	"github.com/riskibarqy/doubles-league/internal/usecase"
)

// CloseFunc releases resources opened while building the server.
type CloseFunc func(context.Context) error

type repositories struct {
	leagues league.Repository
	players player.Repository
	teams   team.Repository
	games   game.Repository
}

func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, CloseFunc, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	var closers []CloseFunc
	closeAll := func(ctx context.Context) error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](ctx); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}

	repos, closeRepos, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, closeRepos)

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		repos.leagues = repocache.NewLeagueRepository(repos.leagues, store)
		repos.players = repocache.NewPlayerRepository(repos.players, store)
		repos.teams = repocache.NewTeamRepository(repos.teams, store)
	}

	m := metrics.New()
	leaderboardOpts := []usecase.LeaderboardOption{usecase.WithReplayObserver(m)}
	ratingCache, closeCache := buildRatingCache(ctx, cfg, logger)
	if ratingCache != nil {
		leaderboardOpts = append(leaderboardOpts, usecase.WithRatingCache(ratingCache))
	}
	closers = append(closers, closeCache)

	ids := idgen.NewRandomGenerator()
	teamSvc := usecase.NewTeamService(repos.teams, ids.WithPrefix("tm"))
	gameSvc := usecase.NewGameService(repos.leagues, repos.games, teamSvc, ids.WithPrefix("gm"), logger.Named("game"))
	if cfg.QStashEnabled {
		gameSvc.WithWarmupQueue(newWarmupQueue(cfg, logger))
	}
	leaderboardSvc := usecase.NewLeaderboardService(
		repos.leagues,
		repos.games,
		rating.NewDefaultEngine(),
		logger.Named("rating"),
		leaderboardOpts...,
	)
	services := httpapi.Services{
		Players:      usecase.NewPlayerService(repos.players, ids.WithPrefix("pl")),
		Leagues:      usecase.NewLeagueService(repos.leagues, repos.players, ids.WithPrefix("lg")),
		Games:        gameSvc,
		Leaderboards: leaderboardSvc,
		Stats: usecase.NewStatsService(
			leaderboardSvc,
			repos.players,
			repos.games,
			stats.NewPeriodCalculator(cfg.WeekStart, time.UTC),
		),
		Warmup: usecase.NewWarmupService(repos.leagues, leaderboardSvc, logger.Named("warmup")).WithObserver(m),
	}

	routerOpts := httpapi.RouterOptions{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalJobToken:   cfg.InternalJobToken,
	}
	if cfg.MetricsEnabled {
		routerOpts.MetricsHandler = m.Handler()
	}

	handler := httpapi.NewHandler(services, cfg.WarmupMaxWorkers, logger)
	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(handler, logger, routerOpts),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return server, closeAll, nil
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, CloseFunc, error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := openPostgres(ctx, cfg)
		if err != nil {
			return repositories{}, nil, err
		}
		if cfg.SeedDemoData {
			if err := postgres.BootstrapSeed(ctx, db, time.Now().UTC()); err != nil {
				_ = db.Close()
				return repositories{}, nil, err
			}
		}
		logger.Info("storage ready", "driver", config.StoragePostgres, "db_name", dbNameFromURL(cfg.DBURL))

		return repositories{
			leagues: postgres.NewLeagueRepository(db),
			players: postgres.NewPlayerRepository(db),
			teams:   postgres.NewTeamRepository(db),
			games:   postgres.NewGameRepository(db),
		}, func(context.Context) error { return db.Close() }, nil
	default:
		players := memory.NewPlayerRepository(nil)
		repos := repositories{
			leagues: memory.NewLeagueRepository(nil, players),
			players: players,
			teams:   memory.NewTeamRepository(),
			games:   memory.NewGameRepository(),
		}
		if cfg.SeedDemoData {
			if err := memory.Seed(ctx, repos.players, repos.leagues, repos.teams, repos.games, time.Now().UTC()); err != nil {
				return repositories{}, nil, err
			}
		}
		logger.Info("storage ready", "driver", config.StorageMemory, "seeded", cfg.SeedDemoData)

		return repos, func(context.Context) error { return nil }, nil
	}
}

func openPostgres(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Open("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}

// buildRatingCache falls back to the in-process cache when redis cannot be
// reached at startup; the rating cache only saves replay work.
func buildRatingCache(ctx context.Context, cfg config.Config, logger *logging.Logger) (usecase.RatingCache, CloseFunc) {
	noClose := func(context.Context) error { return nil }

	switch cfg.RatingCacheDriver {
	case config.RatingCacheNone:
		return nil, noClose
	case config.RatingCacheRedis:
		client, err := ratingcache.Dial(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("redis rating cache unavailable, using in-process cache", "error", err)
			return ratingcache.NewMemory(cfg.RatingCacheTTL), noClose
		}

		circuit := resilience.DefaultCircuitBreakerConfig()
		circuit.Enabled = cfg.RedisCircuitEnabled
		circuit.FailureThreshold = cfg.RedisCircuitFailureCount
		circuit.OpenTimeout = cfg.RedisCircuitOpenTimeout

		cache := ratingcache.NewRedis(client, ratingcache.RedisOptions{
			TTL:     cfg.RatingCacheTTL,
			Circuit: circuit,
			Logger:  logger.Named("ratingcache"),
		})
		return cache, func(context.Context) error { return client.Close() }
	default:
		return ratingcache.NewMemory(cfg.RatingCacheTTL), noClose
	}
}

func newWarmupQueue(cfg config.Config, logger *logging.Logger) *jobqueue.QStashPublisher {
	return jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
		BaseURL:          cfg.QStashBaseURL,
		Token:            cfg.QStashToken,
		TargetBaseURL:    cfg.QStashTargetBaseURL,
		Retries:          cfg.QStashRetries,
		WarmDelay:        cfg.QStashWarmDelay,
		InternalJobToken: cfg.InternalJobToken,
		Timeout:          cfg.QStashTimeout,
		CircuitBreaker:   resilience.DefaultCircuitBreakerConfig(),
	}, logger.Named("jobqueue"))
}
