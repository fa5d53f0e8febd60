package usecase

import (
	"context"
	"testing"

	"github.com/riskibarqy/doubles-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/doubles-league/internal/platform/logging"
)

func TestWarmupService_WarmsEveryLeague(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	obs := &countingObserver{}
	f := newSeededLeague(t, WithRatingCache(&mapRatingCache{}), WithReplayObserver(obs))

	leagues := NewLeagueService(f.leagues, f.players, &sequenceIDs{prefix: "league"})
	if _, err := leagues.Create(ctx, CreateLeagueInput{OwnerID: "demo-budi", Name: "Friday Smash"}); err != nil {
		t.Fatalf("create league: %v", err)
	}

	svc := NewWarmupService(f.leagues, f.leaderboard, logging.NewNop()).WithObserver(obs)
	result, err := svc.Warm(ctx, WarmupInput{MaxWorkers: 8})
	if err != nil {
		t.Fatalf("warm: %v", err)
	}
	if result.LeagueCount != 2 || result.SuccessCount != 2 || result.FailedCount != 0 {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.WorkerCount != 2 {
		t.Fatalf("worker count should be capped by league count, got %d", result.WorkerCount)
	}
	if obs.warmed != 2 {
		t.Fatalf("expected observer to see 2 warmed leagues, got %d", obs.warmed)
	}

	// A second run is served from the cache.
	if _, err := f.leaderboard.ComputeRatings(ctx, memory.DemoLeagueID); err != nil {
		t.Fatalf("compute ratings: %v", err)
	}
	if obs.replays != 2 {
		t.Fatalf("expected one replay per league, got %d", obs.replays)
	}
}

func TestWarmupService_ReportsFailedLeagues(t *testing.T) {
	t.Parallel()

	f := newSeededLeague(t)
	svc := NewWarmupService(f.leagues, f.leaderboard, logging.NewNop())

	result, err := svc.Warm(context.Background(), WarmupInput{LeagueIDs: []string{memory.DemoLeagueID, "missing"}})
	if err != nil {
		t.Fatalf("warm: %v", err)
	}
	if result.SuccessCount != 1 || result.FailedCount != 1 {
		t.Fatalf("unexpected counts %+v", result)
	}
	// Rows are sorted by league id.
	if result.Leagues[0].LeagueID != memory.DemoLeagueID || result.Leagues[0].Games != 7 {
		t.Fatalf("unexpected first row %+v", result.Leagues[0])
	}
	if result.Leagues[1].Status != warmupStatusFailed || result.Leagues[1].Message == "" {
		t.Fatalf("expected failed row with a message, got %+v", result.Leagues[1])
	}
}

func TestPlayerService_RegisterAndGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newSeededLeague(t)
	svc := NewPlayerService(f.players, &sequenceIDs{prefix: "player"})

	created, err := svc.Register(ctx, RegisterPlayerInput{Name: "  Gita "})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if created.Name != "Gita" || created.ID != "player-1" {
		t.Fatalf("unexpected player %+v", created)
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil || got.Name != "Gita" {
		t.Fatalf("get: %+v err=%v", got, err)
	}

	if _, err := svc.Register(ctx, RegisterPlayerInput{Name: "   "}); err == nil {
		t.Fatalf("expected blank name to be rejected")
	}
}
