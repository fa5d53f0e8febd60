package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/riskibarqy/doubles-league/internal/domain/game"
	"github.com/riskibarqy/doubles-league/internal/infrastructure/repository/memory"
)

func validGameInput() CreateGameInput {
	return CreateGameInput{
		LeagueID:       memory.DemoLeagueID,
		SubmittedBy:    "demo-ana",
		Team1PlayerIDs: [2]string{"demo-budi", "demo-ana"},
		Team2PlayerIDs: [2]string{"demo-eko", "demo-citra"},
		Team1Score:     21,
		Team2Score:     18,
		PlayedAt:       fixedNow.Add(-time.Hour),
	}
}

func TestGameService_Create_ResolvesExistingTeams(t *testing.T) {
	t.Parallel()

	f := newSeededLeague(t)
	created, err := f.gameService.Create(context.Background(), validGameInput())
	if err != nil {
		t.Fatalf("create game: %v", err)
	}

	if created.Seq == 0 {
		t.Fatalf("expected repository to assign a sequence")
	}
	if got := created.Participations[0].Team.ID; got != "demo-team-demo-ana:demo-budi" {
		t.Fatalf("expected seeded team to be reused, got %s", got)
	}
	if !created.Participations[0].Won || created.Participations[1].Won {
		t.Fatalf("unexpected winner flags %+v", created.Participations)
	}
	if created.Participations[1].Team.PlayerIDs != [2]string{"demo-citra", "demo-eko"} {
		t.Fatalf("expected new canonical team, got %v", created.Participations[1].Team.PlayerIDs)
	}

	stored, ok, err := f.games.GetByID(context.Background(), memory.DemoLeagueID, created.ID)
	if err != nil || !ok || stored.ID != created.ID {
		t.Fatalf("expected stored game, ok=%v err=%v", ok, err)
	}
}

func TestGameService_Create_Validation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*CreateGameInput)
		want   error
		domain error
	}{
		{name: "draw", mutate: func(in *CreateGameInput) { in.Team1Score, in.Team2Score = 21, 21 }, want: ErrInvalidInput, domain: game.ErrDraw},
		{name: "winner below 21", mutate: func(in *CreateGameInput) { in.Team1Score, in.Team2Score = 20, 18 }, want: ErrInvalidInput, domain: game.ErrWinnerBelowMinimum},
		{name: "margin of one", mutate: func(in *CreateGameInput) { in.Team1Score, in.Team2Score = 22, 21 }, want: ErrInvalidInput, domain: game.ErrMarginTooSmall},
		{name: "score above max", mutate: func(in *CreateGameInput) { in.Team1Score, in.Team2Score = 101, 99 }, want: ErrInvalidInput, domain: game.ErrScoreOutOfRange},
		{name: "missing date", mutate: func(in *CreateGameInput) { in.PlayedAt = time.Time{} }, want: ErrInvalidInput},
		{name: "future date", mutate: func(in *CreateGameInput) { in.PlayedAt = fixedNow.Add(time.Hour) }, want: ErrInvalidInput},
		{name: "player on both teams", mutate: func(in *CreateGameInput) { in.Team2PlayerIDs[0] = "demo-ana" }, want: ErrInvalidInput, domain: game.ErrInvalidParticipants},
		{name: "missing player", mutate: func(in *CreateGameInput) { in.Team2PlayerIDs[1] = " " }, want: ErrInvalidInput},
		{name: "player outside league", mutate: func(in *CreateGameInput) { in.Team2PlayerIDs[1] = "stranger" }, want: ErrInvalidInput},
		{name: "submitter outside league", mutate: func(in *CreateGameInput) { in.SubmittedBy = "stranger" }, want: ErrForbidden},
		{name: "anonymous submitter", mutate: func(in *CreateGameInput) { in.SubmittedBy = "" }, want: ErrUnauthorized},
		{name: "unknown league", mutate: func(in *CreateGameInput) { in.LeagueID = "nope" }, want: ErrNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newSeededLeague(t)
			input := validGameInput()
			tc.mutate(&input)

			_, err := f.gameService.Create(context.Background(), input)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if tc.domain != nil && !errors.Is(err, tc.domain) {
				t.Fatalf("expected domain error %v, got %v", tc.domain, err)
			}

			games, _ := f.games.ListByLeague(context.Background(), memory.DemoLeagueID)
			if len(games) != 7 {
				t.Fatalf("rejected game must not be stored, have %d games", len(games))
			}
		})
	}
}

func TestGameService_Delete_OwnerOnly(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newSeededLeague(t)

	if err := f.gameService.Delete(ctx, "demo-budi", memory.DemoLeagueID, "demo-game-07"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}
	if err := f.gameService.Delete(ctx, "demo-ana", memory.DemoLeagueID, "demo-game-07"); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if err := f.gameService.Delete(ctx, "demo-ana", memory.DemoLeagueID, "demo-game-07"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}

	games, err := f.gameService.List(ctx, memory.DemoLeagueID, "")
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	if len(games) != 6 || games[0].ID != "demo-game-06" {
		t.Fatalf("unexpected games after delete: %d, newest=%s", len(games), games[0].ID)
	}
}

func TestGameService_List_SearchByPlayerName(t *testing.T) {
	t.Parallel()

	f := newSeededLeague(t)
	games, err := f.gameService.List(context.Background(), memory.DemoLeagueID, "  EKO ")
	if err != nil {
		t.Fatalf("list games: %v", err)
	}

	want := []string{"demo-game-06", "demo-game-04", "demo-game-03", "demo-game-02"}
	if len(games) != len(want) {
		t.Fatalf("expected %d games, got %d", len(want), len(games))
	}
	for i, id := range want {
		if games[i].ID != id {
			t.Fatalf("game %d = %s, want %s", i, games[i].ID, id)
		}
	}
}

type recordingQueue struct {
	mu      sync.Mutex
	leagues []string
	err     error
}

func (q *recordingQueue) EnqueueLeaderboardWarmup(_ context.Context, leagueID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.leagues = append(q.leagues, leagueID)
	return q.err
}

func TestGameService_SchedulesWarmupOnWrites(t *testing.T) {
	t.Parallel()

	f := newSeededLeague(t)
	queue := &recordingQueue{err: errors.New("qstash down")}
	f.gameService.WithWarmupQueue(queue)

	created, err := f.gameService.Create(context.Background(), validGameInput())
	if err != nil {
		t.Fatalf("queue failure must not fail the write: %v", err)
	}
	if err := f.gameService.Delete(context.Background(), "demo-ana", memory.DemoLeagueID, created.ID); err != nil {
		t.Fatalf("delete game: %v", err)
	}

	want := []string{memory.DemoLeagueID, memory.DemoLeagueID}
	if diff := cmp.Diff(want, queue.leagues); diff != "" {
		t.Fatalf("unexpected warmup requests (-want +got):\n%s", diff)
	}

	input := validGameInput()
	input.Team2Score = 21
	if _, err := f.gameService.Create(context.Background(), input); err == nil {
		t.Fatalf("expected validation error")
	}
	if len(queue.leagues) != 2 {
		t.Fatalf("rejected games must not schedule warmups, got %d", len(queue.leagues))
	}
}
