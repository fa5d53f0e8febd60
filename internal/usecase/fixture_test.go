package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/doubles-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/doubles-league/internal/platform/logging"
)

// fixedNow is a Thursday; the seeded league has two games in the previous
// Monday-based week and two in the week before.
var fixedNow = time.Date(2026, 3, 12, 12, 0, 0, 0, time.UTC)

type sequenceIDs struct {
	prefix string
	n      atomic.Int64
}

func (g *sequenceIDs) NewID() (string, error) {
	return fmt.Sprintf("%s-%d", g.prefix, g.n.Add(1)), nil
}

type seededLeague struct {
	players *memory.PlayerRepository
	leagues *memory.LeagueRepository
	teams   *memory.TeamRepository
	games   *memory.GameRepository

	teamService *TeamService
	gameService *GameService
	leaderboard *LeaderboardService
}

func newSeededLeague(t *testing.T, opts ...LeaderboardOption) *seededLeague {
	t.Helper()

	f := &seededLeague{}
	f.players = memory.NewPlayerRepository(nil)
	f.leagues = memory.NewLeagueRepository(nil, f.players)
	f.teams = memory.NewTeamRepository()
	f.games = memory.NewGameRepository()
	if err := memory.Seed(context.Background(), f.players, f.leagues, f.teams, f.games, fixedNow); err != nil {
		t.Fatalf("seed: %v", err)
	}

	f.teamService = NewTeamService(f.teams, &sequenceIDs{prefix: "team"})
	f.teamService.now = func() time.Time { return fixedNow }
	f.gameService = NewGameService(f.leagues, f.games, f.teamService, &sequenceIDs{prefix: "game"}, logging.NewNop())
	f.gameService.now = func() time.Time { return fixedNow }
	f.leaderboard = NewLeaderboardService(f.leagues, f.games, nil, logging.NewNop(), opts...)

	return f
}
