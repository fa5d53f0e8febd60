package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/doubles-league/internal/domain/league"
	"github.com/riskibarqy/doubles-league/internal/platform/logging"
)

const defaultWarmupWorkers = 4

type WarmupInput struct {
	LeagueIDs  []string
	MaxWorkers int
}

type WarmupResult struct {
	LeagueCount  int                `json:"league_count"`
	SuccessCount int                `json:"success_count"`
	FailedCount  int                `json:"failed_count"`
	WorkerCount  int                `json:"worker_count"`
	Leagues      []WarmupLeagueItem `json:"leagues"`
}

type WarmupLeagueItem struct {
	LeagueID   string `json:"league_id"`
	Status     string `json:"status"`
	Members    int    `json:"members"`
	Games      int    `json:"games"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
}

const (
	warmupStatusSuccess = "success"
	warmupStatusFailed  = "failed"
)

// WarmupObserver receives per-run warmup outcomes.
type WarmupObserver interface {
	ObserveWarmup(warmed, failed int)
}

// WarmupService replays every league so the rating cache is hot. Leagues are
// independent, so they run in a bounded worker pool.
type WarmupService struct {
	leagueRepo   league.Repository
	leaderboards *LeaderboardService
	observer     WarmupObserver
	logger       *logging.Logger
}

func NewWarmupService(leagueRepo league.Repository, leaderboards *LeaderboardService, logger *logging.Logger) *WarmupService {
	if logger == nil {
		logger = logging.Default()
	}

	return &WarmupService{
		leagueRepo:   leagueRepo,
		leaderboards: leaderboards,
		logger:       logger,
	}
}

func (s *WarmupService) WithObserver(observer WarmupObserver) *WarmupService {
	s.observer = observer
	return s
}

func (s *WarmupService) Warm(ctx context.Context, input WarmupInput) (WarmupResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WarmupService.Warm")
	defer span.End()

	leagueIDs := input.LeagueIDs
	if len(leagueIDs) == 0 {
		items, err := s.leagueRepo.List(ctx)
		if err != nil {
			return WarmupResult{}, fmt.Errorf("list leagues: %w", err)
		}
		leagueIDs = make([]string, 0, len(items))
		for _, item := range items {
			leagueIDs = append(leagueIDs, item.ID)
		}
	}

	workerCount := input.MaxWorkers
	if workerCount <= 0 {
		workerCount = defaultWarmupWorkers
	}
	if workerCount > len(leagueIDs) {
		workerCount = len(leagueIDs)
	}

	result := WarmupResult{
		LeagueCount: len(leagueIDs),
		WorkerCount: workerCount,
		Leagues:     make([]WarmupLeagueItem, 0, len(leagueIDs)),
	}
	if len(leagueIDs) == 0 {
		return result, nil
	}

	results := make(chan WarmupLeagueItem, len(leagueIDs))
	var successCount atomic.Int32
	var failedCount atomic.Int32

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return WarmupResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, leagueID := range leagueIDs {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := WarmupLeagueItem{LeagueID: leagueID, Status: warmupStatusSuccess}

			snapshot, err := s.leaderboards.Snapshot(ctx, leagueID)
			if err != nil {
				row.Status = warmupStatusFailed
				row.Message = err.Error()
				failedCount.Add(1)
				s.logger.WarnContext(ctx, "warm league ratings failed", "league_id", leagueID, "error", err)
			} else {
				row.Members = len(snapshot.Members)
				row.Games = len(snapshot.Games)
				successCount.Add(1)
			}
			row.DurationMs = time.Since(start).Milliseconds()

			results <- row
		}); err != nil {
			workers.Done()
			return WarmupResult{}, fmt.Errorf("submit league to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for row := range results {
		result.Leagues = append(result.Leagues, row)
	}
	sort.SliceStable(result.Leagues, func(i, j int) bool {
		return result.Leagues[i].LeagueID < result.Leagues[j].LeagueID
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())

	if s.observer != nil {
		s.observer.ObserveWarmup(result.SuccessCount, result.FailedCount)
	}
	s.logger.InfoContext(ctx, "league ratings warmed",
		"league_count", result.LeagueCount,
		"success_count", result.SuccessCount,
		"failed_count", result.FailedCount,
	)

	return result, nil
}
