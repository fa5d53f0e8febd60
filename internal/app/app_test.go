package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/doubles-league/internal/config"
	"github.com/riskibarqy/doubles-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/doubles-league/internal/platform/logging"
)

func memoryConfig() config.Config {
	return config.Config{
		AppEnv:             config.EnvDev,
		HTTPAddr:           ":0",
		StorageDriver:      config.StorageMemory,
		SeedDemoData:       true,
		CacheEnabled:       true,
		CacheTTL:           time.Minute,
		RatingCacheDriver:  config.RatingCacheMemory,
		RatingCacheTTL:     time.Hour,
		CORSAllowedOrigins: []string{"*"},
		WarmupMaxWorkers:   2,
		MetricsEnabled:     true,
		WeekStart:          time.Monday,
	}
}

func TestNewHTTPServer_MemoryStorage(t *testing.T) {
	t.Parallel()

	srv, closeFn, err := NewHTTPServer(context.Background(), memoryConfig(), logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, closeFn(context.Background())) })

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/leagues/"+memory.DemoLeagueID+"/leaderboard", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	metricsRec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(metricsRec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, metricsRec.Code)
	require.Contains(t, metricsRec.Body.String(), "doubles_league_rating_replays_total")
}

func TestNewHTTPServer_MetricsDisabledAndNoRatingCache(t *testing.T) {
	t.Parallel()

	cfg := memoryConfig()
	cfg.MetricsEnabled = false
	cfg.RatingCacheDriver = config.RatingCacheNone
	cfg.CacheEnabled = false

	srv, closeFn, err := NewHTTPServer(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFn(context.Background()) })

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewHTTPServer_RedisFallsBackToMemory(t *testing.T) {
	t.Parallel()

	cfg := memoryConfig()
	cfg.RatingCacheDriver = config.RatingCacheRedis
	cfg.RedisURL = "redis://127.0.0.1:1/0"

	srv, closeFn, err := NewHTTPServer(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFn(context.Background()) })

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/leagues/"+memory.DemoLeagueID+"/page", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestNewHTTPServer_RequiresAddr(t *testing.T) {
	t.Parallel()

	cfg := memoryConfig()
	cfg.HTTPAddr = ""
	_, _, err := NewHTTPServer(context.Background(), cfg, nil)
	require.Error(t, err)
}
