package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/riskibarqy/doubles-league/internal/domain/game"
	"github.com/riskibarqy/doubles-league/internal/domain/league"
	"github.com/riskibarqy/doubles-league/internal/domain/player"
	"github.com/riskibarqy/doubles-league/internal/domain/stats"
)

const (
	activityMonths = 6
	activityWeeks  = 8
)

// LeaguePage bundles everything the league overview renders.
type LeaguePage struct {
	League      league.League
	MemberCount int
	Leaderboard []stats.LeaderboardEntry
	TeamStats   []stats.TeamStat
	Period      stats.PeriodStats
}

type PlayerActivity struct {
	Player   player.Player
	LeagueID string
	Monthly  []stats.ActivityBucket
	Weekly   []stats.ActivityBucket
}

type StatsService struct {
	leaderboards *LeaderboardService
	playerRepo   player.Repository
	gameRepo     game.Repository
	calculator   stats.PeriodCalculator
	now          func() time.Time
}

func NewStatsService(
	leaderboards *LeaderboardService,
	playerRepo player.Repository,
	gameRepo game.Repository,
	calculator stats.PeriodCalculator,
) *StatsService {
	return &StatsService{
		leaderboards: leaderboards,
		playerRepo:   playerRepo,
		gameRepo:     gameRepo,
		calculator:   calculator,
		now:          time.Now,
	}
}

func (s *StatsService) PeriodStats(ctx context.Context, leagueID string) (stats.PeriodStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.PeriodStats", leagueAttr(leagueID))
	defer span.End()

	snapshot, err := s.leaderboards.Snapshot(ctx, leagueID)
	if err != nil {
		return stats.PeriodStats{}, err
	}

	return s.calculator.Compute(snapshot.Members, snapshot.Games, s.now()), nil
}

// LeaguePage loads the league once and runs the aggregations side by side.
func (s *StatsService) LeaguePage(ctx context.Context, leagueID string) (LeaguePage, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.LeaguePage", leagueAttr(leagueID))
	defer span.End()

	snapshot, err := s.leaderboards.Snapshot(ctx, leagueID)
	if err != nil {
		return LeaguePage{}, err
	}

	page := LeaguePage{
		League:      snapshot.League,
		MemberCount: len(snapshot.Members),
	}
	now := s.now()

	var wg conc.WaitGroup
	wg.Go(func() {
		page.Leaderboard = stats.BuildLeaderboard(snapshot.Members, snapshot.Games, snapshot.Ratings)
	})
	wg.Go(func() {
		page.TeamStats = stats.TeamStats(snapshot.Games)
	})
	wg.Go(func() {
		page.Period = s.calculator.Compute(snapshot.Members, snapshot.Games, now)
	})
	wg.Wait()

	return page, nil
}

// PlayerActivity buckets a player's games in one league by month and week.
func (s *StatsService) PlayerActivity(ctx context.Context, playerID, leagueID string) (PlayerActivity, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.PlayerActivity", leagueAttr(leagueID))
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	leagueID = strings.TrimSpace(leagueID)
	if playerID == "" {
		return PlayerActivity{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	if leagueID == "" {
		return PlayerActivity{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	item, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return PlayerActivity{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return PlayerActivity{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}

	games, err := s.gameRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return PlayerActivity{}, fmt.Errorf("list games by league: %w", err)
	}

	now := s.now()
	return PlayerActivity{
		Player:   item,
		LeagueID: leagueID,
		Monthly:  s.calculator.MonthlyActivity(playerID, games, now, activityMonths),
		Weekly:   s.calculator.WeeklyActivity(playerID, games, now, activityWeeks),
	}, nil
}
