package httpapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/doubles-league/internal/domain/stats"
	"github.com/riskibarqy/doubles-league/internal/infrastructure/ratingcache"
	"github.com/riskibarqy/doubles-league/internal/infrastructure/repository/memory"
	idgen "github.com/riskibarqy/doubles-league/internal/platform/id"
	"github.com/riskibarqy/doubles-league/internal/platform/logging"
	"github.com/riskibarqy/doubles-league/internal/platform/metrics"
	"github.com/riskibarqy/doubles-league/internal/usecase"
)

const testJobToken = "job-secret"

type envelope[T any] struct {
	APIVersion string `json:"apiVersion"`
	Data       T      `json:"data"`
	Error      *struct {
		Code   int    `json:"code"`
		Status string `json:"status"`
	} `json:"error"`
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	ctx := context.Background()
	players := memory.NewPlayerRepository(nil)
	leagues := memory.NewLeagueRepository(nil, players)
	teams := memory.NewTeamRepository()
	games := memory.NewGameRepository()
	require.NoError(t, memory.Seed(ctx, players, leagues, teams, games, time.Now().UTC()))

	logger := logging.NewNop()
	m := metrics.New()
	ids := idgen.NewRandomGenerator()

	teamSvc := usecase.NewTeamService(teams, ids.WithPrefix("tm"))
	leaderboards := usecase.NewLeaderboardService(leagues, games, nil, logger,
		usecase.WithRatingCache(ratingcache.NewMemory(time.Hour)),
		usecase.WithReplayObserver(m),
	)
	handler := NewHandler(Services{
		Players:      usecase.NewPlayerService(players, ids.WithPrefix("pl")),
		Leagues:      usecase.NewLeagueService(leagues, players, ids.WithPrefix("lg")),
		Games:        usecase.NewGameService(leagues, games, teamSvc, ids.WithPrefix("gm"), logger),
		Leaderboards: leaderboards,
		Stats:        usecase.NewStatsService(leaderboards, players, games, stats.NewPeriodCalculator(time.Monday, time.UTC)),
		Warmup:       usecase.NewWarmupService(leagues, leaderboards, logger).WithObserver(m),
	}, 2, logger)

	return NewRouter(handler, logger, RouterOptions{
		CORSAllowedOrigins: []string{"*"},
		InternalJobToken:   testJobToken,
		MetricsHandler:     m.Handler(),
	})
}

func do(t *testing.T, router http.Handler, method, path, playerID, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if playerID != "" {
		req.Header.Set(playerIDHeader, playerID)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()

	var out envelope[T]
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestRouter_Healthz(t *testing.T) {
	t.Parallel()

	rec := do(t, newTestRouter(t), http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", decode[map[string]string](t, rec).Data["status"])
}

func TestRouter_Leaderboard(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	rec := do(t, router, http.MethodGet, "/v1/leagues/"+memory.DemoLeagueID+"/leaderboard", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	entries := decode[[]leaderboardEntryDTO](t, rec).Data
	require.Len(t, entries, 6)
	for i, entry := range entries {
		require.Equal(t, i+1, entry.Rank)
		if i > 0 {
			require.GreaterOrEqual(t, entries[i-1].MMR, entry.MMR)
		}
	}

	missing := do(t, router, http.MethodGet, "/v1/leagues/nope/leaderboard", "", "")
	require.Equal(t, http.StatusNotFound, missing.Code)
	require.Equal(t, "NOT_FOUND", decode[any](t, missing).Error.Status)
}

func TestRouter_CreateGameFlow(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	path := "/v1/leagues/" + memory.DemoLeagueID + "/games"
	playedAt := time.Now().UTC().Add(-time.Hour).Format(time.RFC3339)
	body := `{"team1_player_ids":["demo-ana","demo-eko"],"team2_player_ids":["demo-budi","demo-fajar"],` +
		`"team1_score":21,"team2_score":18,"played_at":"` + playedAt + `"}`

	require.Equal(t, http.StatusUnauthorized, do(t, router, http.MethodPost, path, "", body).Code)

	draw := strings.Replace(body, `"team2_score":18`, `"team2_score":21`, 1)
	require.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPost, path, "demo-budi", draw).Code)

	unknownField := strings.Replace(body, `"team1_score"`, `"bonus":1,"team1_score"`, 1)
	require.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPost, path, "demo-budi", unknownField).Code)

	rec := do(t, router, http.MethodPost, path, "demo-budi", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[gameDTO](t, rec).Data
	require.NotEmpty(t, created.ID)
	require.Len(t, created.Participations, 2)
	require.True(t, created.Participations[0].Won)

	list := decode[[]gameDTO](t, do(t, router, http.MethodGet, path, "", "")).Data
	require.Len(t, list, 8)
	require.Equal(t, created.ID, list[0].ID)

	deletePath := path + "/" + created.ID
	require.Equal(t, http.StatusForbidden, do(t, router, http.MethodDelete, deletePath, "demo-budi", "").Code)
	require.Equal(t, http.StatusOK, do(t, router, http.MethodDelete, deletePath, "demo-ana", "").Code)
	require.Equal(t, http.StatusNotFound, do(t, router, http.MethodDelete, deletePath, "demo-ana", "").Code)
}

func TestRouter_PlayerAndLeague(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/v1/players", "", `{"name":"Gita"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	gita := decode[playerDTO](t, rec).Data
	require.Equal(t, "Gita", gita.Name)

	require.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPost, "/v1/players", "", `{"name":""}`).Code)

	joinPath := "/v1/leagues/" + memory.DemoLeagueID + "/join"
	first := do(t, router, http.MethodPost, joinPath, gita.ID, "")
	require.Equal(t, http.StatusCreated, first.Code)
	require.True(t, decode[joinLeagueDTO](t, first).Data.Joined)
	second := do(t, router, http.MethodPost, joinPath, gita.ID, "")
	require.Equal(t, http.StatusOK, second.Code)
	require.False(t, decode[joinLeagueDTO](t, second).Data.Joined)

	members := decode[[]memberDTO](t, do(t, router, http.MethodGet, "/v1/leagues/"+memory.DemoLeagueID+"/members?search=git", "", "")).Data
	require.Len(t, members, 1)
	require.Equal(t, gita.ID, members[0].PlayerID)

	created := do(t, router, http.MethodPost, "/v1/leagues", gita.ID, `{"name":"Sunday Smash"}`)
	require.Equal(t, http.StatusCreated, created.Code)
	mine := decode[[]leagueDTO](t, do(t, router, http.MethodGet, "/v1/leagues", gita.ID, "")).Data
	require.Len(t, mine, 2)
}

func TestRouter_StatsEndpoints(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	base := "/v1/leagues/" + memory.DemoLeagueID

	period := do(t, router, http.MethodGet, base+"/period-stats", "", "")
	require.Equal(t, http.StatusOK, period.Code)
	require.Contains(t, period.Body.String(), `"biggest_win_streak"`)
	require.Contains(t, period.Body.String(), `"last_week"`)

	teamStats := decode[[]teamStatDTO](t, do(t, router, http.MethodGet, base+"/team-stats", "", "")).Data
	require.NotEmpty(t, teamStats)

	page := decode[leaguePageDTO](t, do(t, router, http.MethodGet, base+"/page", "", "")).Data
	require.Equal(t, memory.DemoLeagueID, page.League.ID)
	require.Equal(t, 6, page.MemberCount)
	require.Len(t, page.Leaderboard, 6)

	activity := decode[playerActivityDTO](t, do(t, router, http.MethodGet, "/v1/players/demo-ana/activity?league_id="+memory.DemoLeagueID, "", "")).Data
	require.Len(t, activity.Monthly, 6)
	require.Len(t, activity.Weekly, 8)
}

func TestRouter_WarmJobAndMetrics(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	path := "/v1/internal/jobs/warm-leaderboards"

	require.Equal(t, http.StatusUnauthorized, do(t, router, http.MethodPost, path, "", "").Code)

	req := httptest.NewRequest(http.MethodPost, path, nil)
	req.Header.Set(internalJobHeader, testJobToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	result := decode[usecase.WarmupResult](t, rec).Data
	require.Equal(t, 1, result.SuccessCount)

	metricsRec := do(t, router, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, metricsRec.Code)
	require.Contains(t, metricsRec.Body.String(), "doubles_league_leaderboard_warmups_total")
}
