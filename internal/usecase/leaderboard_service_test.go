package usecase

import (
	"context"
	"errors"
	"maps"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/riskibarqy/doubles-league/internal/domain/game"
	"github.com/riskibarqy/doubles-league/internal/domain/league"
	"github.com/riskibarqy/doubles-league/internal/domain/rating"
	"github.com/riskibarqy/doubles-league/internal/domain/team"
	"github.com/riskibarqy/doubles-league/internal/infrastructure/repository/memory"
	gamemock "github.com/riskibarqy/doubles-league/internal/mocks/domain/game"
	leaguemock "github.com/riskibarqy/doubles-league/internal/mocks/domain/league"
	"github.com/riskibarqy/doubles-league/internal/platform/logging"
)

type mapRatingCache struct {
	mu    sync.Mutex
	items map[string]map[string]rating.Rating
}

func (c *mapRatingCache) Get(_ context.Context, key string) (map[string]rating.Rating, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return maps.Clone(v), ok, nil
}

func (c *mapRatingCache) Set(_ context.Context, key string, ratings map[string]rating.Rating) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.items == nil {
		c.items = make(map[string]map[string]rating.Rating)
	}
	c.items[key] = maps.Clone(ratings)
	return nil
}

type countingObserver struct {
	mu       sync.Mutex
	replays  int
	skipped  int
	hits     int
	misses   int
	warmed   int
	failures int
}

func (o *countingObserver) ObserveReplay(_, skipped int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.replays++
	o.skipped += skipped
}

func (o *countingObserver) ObserveRatingCache(hit bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if hit {
		o.hits++
	} else {
		o.misses++
	}
}

func (o *countingObserver) ObserveWarmup(warmed, failed int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.warmed += warmed
	o.failures += failed
}

func TestLeaderboardService_Leaderboard_RanksEveryMember(t *testing.T) {
	t.Parallel()

	f := newSeededLeague(t)
	entries, err := f.leaderboard.Leaderboard(context.Background(), memory.DemoLeagueID)
	require.NoError(t, err)
	require.Len(t, entries, 6)

	totalGames := 0
	for i, e := range entries {
		assert.Equal(t, i+1, e.Rank)
		if i > 0 {
			assert.LessOrEqual(t, e.MMR, entries[i-1].MMR, "entries must be sorted by mmr desc")
		}
		assert.Equal(t, e.TotalGames, e.Wins+e.Losses)
		totalGames += e.TotalGames
	}
	// Seven games, four players each.
	assert.Equal(t, 28, totalGames)
}

func TestLeaderboardService_RatingsAreCachedByHistory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	obs := &countingObserver{}
	f := newSeededLeague(t, WithRatingCache(&mapRatingCache{}), WithReplayObserver(obs))

	first, err := f.leaderboard.ComputeRatings(ctx, memory.DemoLeagueID)
	require.NoError(t, err)
	second, err := f.leaderboard.ComputeRatings(ctx, memory.DemoLeagueID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, obs.replays)
	assert.Equal(t, 1, obs.hits)

	_, err = f.gameService.Create(ctx, validGameInput())
	require.NoError(t, err)

	third, err := f.leaderboard.ComputeRatings(ctx, memory.DemoLeagueID)
	require.NoError(t, err)
	assert.Equal(t, 2, obs.replays, "a new game must produce a new cache key")
	assert.NotEqual(t, first["demo-ana"], third["demo-ana"])
}

func TestLeaderboardService_MatchesDirectEngineFold(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newSeededLeague(t)

	snapshot, err := f.leaderboard.Snapshot(ctx, memory.DemoLeagueID)
	require.NoError(t, err)

	ids := make([]string, 0, len(snapshot.Members))
	for _, m := range snapshot.Members {
		ids = append(ids, m.PlayerID)
	}
	want := rating.NewDefaultEngine().Compute(ids, snapshot.Games).Ratings
	assert.Equal(t, want, snapshot.Ratings)
}

func TestLeaderboardService_SkipsAndLogsMalformedGames(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	leagueRepo := leaguemock.NewRepository(t)
	gameRepo := gamemock.NewRepository(t)

	ab := team.Team{ID: "t-ab", PlayerIDs: [2]string{"a", "b"}}
	cd := team.Team{ID: "t-cd", PlayerIDs: [2]string{"c", "d"}}
	at := time.Date(2026, 1, 5, 19, 0, 0, 0, time.UTC)
	games := []game.Game{
		{ID: "g1", Seq: 1, LeagueID: "l1", PlayedAt: at, Participations: []game.Participation{
			{Team: ab, Score: 21, Won: true}, {Team: cd, Score: 15, Won: false},
		}},
		{ID: "g2", Seq: 2, LeagueID: "l1", PlayedAt: at.Add(time.Hour), Participations: []game.Participation{
			{Team: ab, Score: 21, Won: true}, {Team: cd, Score: 19, Won: true},
		}},
	}

	leagueRepo.On("GetByID", mock.Anything, "l1").Return(league.League{ID: "l1"}, true, nil).Once()
	leagueRepo.On("ListMembers", mock.Anything, "l1").Return([]league.Member{
		{LeagueID: "l1", PlayerID: "a"}, {LeagueID: "l1", PlayerID: "b"},
		{LeagueID: "l1", PlayerID: "c"}, {LeagueID: "l1", PlayerID: "d"},
		{LeagueID: "l1", PlayerID: "e"},
	}, nil).Once()
	gameRepo.On("ListByLeague", mock.Anything, "l1").Return(games, nil).Once()

	core, logs := observer.New(zapcore.WarnLevel)
	obs := &countingObserver{}
	svc := NewLeaderboardService(leagueRepo, gameRepo, nil, logging.FromZap(zap.New(core)), WithReplayObserver(obs))

	ratings, err := svc.ComputeRatings(ctx, "l1")
	require.NoError(t, err)

	assert.Equal(t, 1010, ratings["a"].MMR())
	assert.Equal(t, 990, ratings["c"].MMR())
	assert.False(t, ratings["e"].Played)
	assert.Equal(t, 0, ratings["e"].MMR())
	assert.Equal(t, 1, obs.skipped)

	entries := logs.FilterMessage("skip malformed game in rating replay").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "g2", fields["game_id"])
	assert.EqualValues(t, 2, fields["winners"])
	assert.EqualValues(t, 0, fields["losers"])
}

func TestLeaderboardService_Errors(t *testing.T) {
	t.Parallel()

	t.Run("unknown league", func(t *testing.T) {
		t.Parallel()

		f := newSeededLeague(t)
		_, err := f.leaderboard.Leaderboard(context.Background(), "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("blank league id", func(t *testing.T) {
		t.Parallel()

		f := newSeededLeague(t)
		_, err := f.leaderboard.TeamStats(context.Background(), " ")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("repository failure", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("connection reset")
		leagueRepo := leaguemock.NewRepository(t)
		gameRepo := gamemock.NewRepository(t)
		leagueRepo.On("GetByID", mock.Anything, "l1").Return(league.League{ID: "l1"}, true, nil).Maybe()
		leagueRepo.On("ListMembers", mock.Anything, "l1").Return([]league.Member{}, nil).Maybe()
		gameRepo.On("ListByLeague", mock.Anything, "l1").Return(nil, boom).Once()

		svc := NewLeaderboardService(leagueRepo, gameRepo, nil, logging.NewNop())
		_, err := svc.Leaderboard(context.Background(), "l1")
		assert.ErrorIs(t, err, boom)
	})
}
