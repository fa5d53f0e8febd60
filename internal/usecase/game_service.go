package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/riskibarqy/doubles-league/internal/domain/game"
	"github.com/riskibarqy/doubles-league/internal/domain/league"
	"github.com/riskibarqy/doubles-league/internal/domain/team"
	idgen "github.com/riskibarqy/doubles-league/internal/platform/id"
	"github.com/riskibarqy/doubles-league/internal/platform/logging"
)

type CreateGameInput struct {
	LeagueID       string
	SubmittedBy    string
	Team1PlayerIDs [2]string
	Team2PlayerIDs [2]string
	Team1Score     int
	Team2Score     int
	PlayedAt       time.Time
}

type teamResolver interface {
	ResolveTeam(ctx context.Context, playerA, playerB string) (team.Team, error)
}

// WarmupQueue schedules an asynchronous leaderboard replay for a league.
type WarmupQueue interface {
	EnqueueLeaderboardWarmup(ctx context.Context, leagueID string) error
}

type GameService struct {
	leagueRepo league.Repository
	gameRepo   game.Repository
	teams      teamResolver
	idGen      idgen.Generator
	warmQueue  WarmupQueue
	now        func() time.Time
	logger     *logging.Logger
}

func NewGameService(
	leagueRepo league.Repository,
	gameRepo game.Repository,
	teams teamResolver,
	idGen idgen.Generator,
	logger *logging.Logger,
) *GameService {
	if logger == nil {
		logger = logging.Default()
	}

	return &GameService{
		leagueRepo: leagueRepo,
		gameRepo:   gameRepo,
		teams:      teams,
		idGen:      idGen,
		now:        time.Now,
		logger:     logger,
	}
}

// WithWarmupQueue makes Create and Delete schedule a leaderboard replay so the
// rating cache is refilled before the next read.
func (s *GameService) WithWarmupQueue(queue WarmupQueue) *GameService {
	s.warmQueue = queue
	return s
}

// Create records a finished game. The submitter and all four players must
// belong to the league and the score line must be a valid final.
func (s *GameService) Create(ctx context.Context, input CreateGameInput) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.Create", leagueAttr(input.LeagueID))
	defer span.End()

	input.LeagueID = strings.TrimSpace(input.LeagueID)
	input.SubmittedBy = strings.TrimSpace(input.SubmittedBy)
	for i := range input.Team1PlayerIDs {
		input.Team1PlayerIDs[i] = strings.TrimSpace(input.Team1PlayerIDs[i])
		input.Team2PlayerIDs[i] = strings.TrimSpace(input.Team2PlayerIDs[i])
	}

	if input.SubmittedBy == "" {
		return game.Game{}, fmt.Errorf("%w: submitter is required", ErrUnauthorized)
	}
	if err := game.ValidateScores(input.Team1Score, input.Team2Score); err != nil {
		return game.Game{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	now := s.now().UTC()
	if input.PlayedAt.IsZero() {
		return game.Game{}, fmt.Errorf("%w: game date is required", ErrInvalidInput)
	}
	if input.PlayedAt.After(now) {
		return game.Game{}, fmt.Errorf("%w: game date cannot be in the future", ErrInvalidInput)
	}

	players := []string{
		input.Team1PlayerIDs[0], input.Team1PlayerIDs[1],
		input.Team2PlayerIDs[0], input.Team2PlayerIDs[1],
	}
	if slices.Contains(players, "") {
		return game.Game{}, fmt.Errorf("%w: every team needs two players", ErrInvalidInput)
	}
	if len(lo.Uniq(players)) != len(players) {
		return game.Game{}, fmt.Errorf("%w: %w", ErrInvalidInput, game.ErrInvalidParticipants)
	}

	if _, err := s.getLeague(ctx, input.LeagueID); err != nil {
		return game.Game{}, err
	}
	isMember, err := s.leagueRepo.IsMember(ctx, input.LeagueID, input.SubmittedBy)
	if err != nil {
		return game.Game{}, fmt.Errorf("check submitter membership: %w", err)
	}
	if !isMember {
		return game.Game{}, fmt.Errorf("%w: only league members can submit games", ErrForbidden)
	}
	for _, playerID := range players {
		isMember, err := s.leagueRepo.IsMember(ctx, input.LeagueID, playerID)
		if err != nil {
			return game.Game{}, fmt.Errorf("check player membership: %w", err)
		}
		if !isMember {
			return game.Game{}, fmt.Errorf("%w: player=%s is not a league member", ErrInvalidInput, playerID)
		}
	}

	team1, err := s.teams.ResolveTeam(ctx, input.Team1PlayerIDs[0], input.Team1PlayerIDs[1])
	if err != nil {
		return game.Game{}, fmt.Errorf("resolve team 1: %w", err)
	}
	team2, err := s.teams.ResolveTeam(ctx, input.Team2PlayerIDs[0], input.Team2PlayerIDs[1])
	if err != nil {
		return game.Game{}, fmt.Errorf("resolve team 2: %w", err)
	}

	gameID, err := s.idGen.NewID()
	if err != nil {
		return game.Game{}, fmt.Errorf("generate game id: %w", err)
	}
	item := game.Game{
		ID:          gameID,
		LeagueID:    input.LeagueID,
		SubmittedBy: input.SubmittedBy,
		PlayedAt:    input.PlayedAt.UTC(),
		CreatedAt:   now,
		Participations: []game.Participation{
			{Team: team1, Score: input.Team1Score, Won: input.Team1Score > input.Team2Score},
			{Team: team2, Score: input.Team2Score, Won: input.Team2Score > input.Team1Score},
		},
	}
	if err := item.Validate(); err != nil {
		return game.Game{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	created, err := s.gameRepo.Create(ctx, item)
	if err != nil {
		return game.Game{}, fmt.Errorf("create game: %w", err)
	}

	s.logger.InfoContext(ctx, "game recorded",
		"league_id", created.LeagueID,
		"game_id", created.ID,
		"submitted_by", created.SubmittedBy,
		"score", fmt.Sprintf("%d-%d", input.Team1Score, input.Team2Score),
	)
	s.scheduleWarmup(ctx, created.LeagueID)

	return created, nil
}

// Delete removes a game. Only the league owner may delete games.
func (s *GameService) Delete(ctx context.Context, actorID, leagueID, gameID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.Delete", leagueAttr(leagueID))
	defer span.End()

	actorID = strings.TrimSpace(actorID)
	gameID = strings.TrimSpace(gameID)
	if actorID == "" {
		return fmt.Errorf("%w: actor is required", ErrUnauthorized)
	}
	if gameID == "" {
		return fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}

	item, err := s.getLeague(ctx, leagueID)
	if err != nil {
		return err
	}
	if !item.IsOwnedBy(actorID) {
		return fmt.Errorf("%w: only the league owner can delete games", ErrForbidden)
	}

	deleted, err := s.gameRepo.Delete(ctx, item.ID, gameID)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	if !deleted {
		return fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}

	s.logger.InfoContext(ctx, "game deleted", "league_id", item.ID, "game_id", gameID, "actor_id", actorID)
	s.scheduleWarmup(ctx, item.ID)
	return nil
}

// List returns the league's games, newest first. A non-empty search keeps
// games where any player's name contains it.
func (s *GameService) List(ctx context.Context, leagueID, search string) ([]game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.List", leagueAttr(leagueID))
	defer span.End()

	item, err := s.getLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	games, err := s.gameRepo.ListByLeague(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("list games by league: %w", err)
	}
	slices.Reverse(games)

	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return games, nil
	}

	members, err := s.leagueRepo.ListMembers(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("list league members: %w", err)
	}
	matching := make(map[string]struct{})
	for _, m := range members {
		if strings.Contains(strings.ToLower(m.Name), search) {
			matching[m.PlayerID] = struct{}{}
		}
	}

	out := make([]game.Game, 0, len(games))
	for _, g := range games {
		for _, playerID := range g.PlayerIDs() {
			if _, ok := matching[playerID]; ok {
				out = append(out, g)
				break
			}
		}
	}

	return out, nil
}

func (s *GameService) getLeague(ctx context.Context, leagueID string) (league.League, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return league.League{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	item, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	return item, nil
}

// scheduleWarmup never fails the write; a missed job only costs one replay on
// the next read.
func (s *GameService) scheduleWarmup(ctx context.Context, leagueID string) {
	if s.warmQueue == nil {
		return
	}
	if err := s.warmQueue.EnqueueLeaderboardWarmup(ctx, leagueID); err != nil {
		s.logger.WarnContext(ctx, "schedule leaderboard warmup failed", "league_id", leagueID, "error", err)
	}
}
