package usecase

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/doubles-league/internal/domain/game"
	"github.com/riskibarqy/doubles-league/internal/domain/league"
	"github.com/riskibarqy/doubles-league/internal/domain/rating"
	"github.com/riskibarqy/doubles-league/internal/domain/stats"
	"github.com/riskibarqy/doubles-league/internal/platform/logging"
	"github.com/riskibarqy/doubles-league/internal/platform/resilience"
)

// RatingCache stores replay results. Keys change whenever the league's game
// history changes, so entries never need explicit invalidation.
type RatingCache interface {
	Get(ctx context.Context, key string) (map[string]rating.Rating, bool, error)
	Set(ctx context.Context, key string, ratings map[string]rating.Rating) error
}

// ReplayObserver receives replay and cache outcomes, typically for metrics.
type ReplayObserver interface {
	ObserveReplay(processed, skipped int, elapsed time.Duration)
	ObserveRatingCache(hit bool)
}

// LeagueSnapshot is everything the aggregations need about one league.
type LeagueSnapshot struct {
	League  league.League
	Members []league.Member
	Games   []game.Game
	Ratings map[string]rating.Rating
}

type LeaderboardOption func(*LeaderboardService)

func WithRatingCache(cache RatingCache) LeaderboardOption {
	return func(s *LeaderboardService) {
		s.cache = cache
	}
}

func WithReplayObserver(observer ReplayObserver) LeaderboardOption {
	return func(s *LeaderboardService) {
		s.observer = observer
	}
}

type LeaderboardService struct {
	leagueRepo league.Repository
	gameRepo   game.Repository
	engine     *rating.Engine
	cache      RatingCache
	observer   ReplayObserver
	flight     resilience.SingleFlight[map[string]rating.Rating]
	logger     *logging.Logger
}

func NewLeaderboardService(
	leagueRepo league.Repository,
	gameRepo game.Repository,
	engine *rating.Engine,
	logger *logging.Logger,
	opts ...LeaderboardOption,
) *LeaderboardService {
	if engine == nil {
		engine = rating.NewDefaultEngine()
	}
	if logger == nil {
		logger = logging.Default()
	}

	s := &LeaderboardService{
		leagueRepo: leagueRepo,
		gameRepo:   gameRepo,
		engine:     engine,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Snapshot loads the league, its members and games, then derives ratings.
func (s *LeaderboardService) Snapshot(ctx context.Context, leagueID string) (LeagueSnapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Snapshot", leagueAttr(leagueID))
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return LeagueSnapshot{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	var (
		snapshot LeagueSnapshot
		exists   bool
	)
	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		item, ok, err := s.leagueRepo.GetByID(ctx, leagueID)
		if err != nil {
			return fmt.Errorf("get league: %w", err)
		}
		snapshot.League, exists = item, ok
		return nil
	})
	p.Go(func(ctx context.Context) error {
		members, err := s.leagueRepo.ListMembers(ctx, leagueID)
		if err != nil {
			return fmt.Errorf("list league members: %w", err)
		}
		snapshot.Members = members
		return nil
	})
	p.Go(func(ctx context.Context) error {
		games, err := s.gameRepo.ListByLeague(ctx, leagueID)
		if err != nil {
			return fmt.Errorf("list games by league: %w", err)
		}
		snapshot.Games = games
		return nil
	})
	if err := p.Wait(); err != nil {
		return LeagueSnapshot{}, err
	}
	if !exists {
		return LeagueSnapshot{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	snapshot.Ratings = s.ratings(ctx, leagueID, snapshot.Members, snapshot.Games)
	return snapshot, nil
}

// ComputeRatings returns a rating for every member and every player that
// appears in the league's games.
func (s *LeaderboardService) ComputeRatings(ctx context.Context, leagueID string) (map[string]rating.Rating, error) {
	snapshot, err := s.Snapshot(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	return snapshot.Ratings, nil
}

func (s *LeaderboardService) Leaderboard(ctx context.Context, leagueID string) ([]stats.LeaderboardEntry, error) {
	snapshot, err := s.Snapshot(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	return stats.BuildLeaderboard(snapshot.Members, snapshot.Games, snapshot.Ratings), nil
}

func (s *LeaderboardService) TeamStats(ctx context.Context, leagueID string) ([]stats.TeamStat, error) {
	snapshot, err := s.Snapshot(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	return stats.TeamStats(snapshot.Games), nil
}

func (s *LeaderboardService) ratings(ctx context.Context, leagueID string, members []league.Member, games []game.Game) map[string]rating.Rating {
	key := ratingCacheKey(leagueID, games)

	var out map[string]rating.Rating
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.WarnContext(ctx, "rating cache read failed", "league_id", leagueID, "key", key, "error", err)
		}
		if s.observer != nil {
			s.observer.ObserveRatingCache(ok)
		}
		if ok {
			out = maps.Clone(cached)
		}
	}

	if out == nil {
		computed, _, _ := s.flight.Do(key, func() (map[string]rating.Rating, error) {
			return s.replay(ctx, leagueID, key, members, games), nil
		})
		out = maps.Clone(computed)
	}
	if out == nil {
		out = make(map[string]rating.Rating, len(members))
	}

	for _, m := range members {
		if _, ok := out[m.PlayerID]; !ok {
			out[m.PlayerID] = rating.Rating{}
		}
	}

	return out
}

// replay folds the full history. Concurrent requests for the same history
// share one replay.
func (s *LeaderboardService) replay(ctx context.Context, leagueID, key string, members []league.Member, games []game.Game) map[string]rating.Rating {
	memberIDs := make([]string, 0, len(members))
	for _, m := range members {
		memberIDs = append(memberIDs, m.PlayerID)
	}

	started := time.Now()
	result := s.engine.Compute(memberIDs, games)
	if s.observer != nil {
		s.observer.ObserveReplay(result.Processed, len(result.SkippedGameIDs), time.Since(started))
	}
	s.logSkipped(ctx, leagueID, games, result.SkippedGameIDs)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result.Ratings); err != nil {
			s.logger.WarnContext(ctx, "rating cache write failed", "league_id", leagueID, "key", key, "error", err)
		}
	}

	return result.Ratings
}

func (s *LeaderboardService) logSkipped(ctx context.Context, leagueID string, games []game.Game, skipped []string) {
	if len(skipped) == 0 {
		return
	}

	byID := make(map[string]game.Game, len(skipped))
	for _, g := range games {
		byID[g.ID] = g
	}
	for _, gameID := range skipped {
		g := byID[gameID]
		winners, losers := 0, 0
		for _, p := range g.Participations {
			if p.Won {
				winners++
			} else {
				losers++
			}
		}
		s.logger.WarnContext(ctx, "skip malformed game in rating replay",
			"league_id", leagueID,
			"game_id", gameID,
			"winners", winners,
			"losers", losers,
		)
	}
}

// ratingCacheKey identifies a game history by its size and latest insert.
func ratingCacheKey(leagueID string, games []game.Game) string {
	lastID := "none"
	var lastSeq int64 = -1
	for _, g := range games {
		if g.Seq > lastSeq {
			lastSeq = g.Seq
			lastID = g.ID
		}
	}

	return fmt.Sprintf("%s:%d:%s", leagueID, len(games), lastID)
}
