package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/doubles-league/internal/domain/league"
	"github.com/riskibarqy/doubles-league/internal/domain/player"
	idgen "github.com/riskibarqy/doubles-league/internal/platform/id"
)

const memberSearchLimit = 5

type CreateLeagueInput struct {
	OwnerID string
	Name    string
}

type LeagueService struct {
	leagueRepo league.Repository
	playerRepo player.Repository
	idGen      idgen.Generator
	now        func() time.Time
}

func NewLeagueService(leagueRepo league.Repository, playerRepo player.Repository, idGen idgen.Generator) *LeagueService {
	return &LeagueService{
		leagueRepo: leagueRepo,
		playerRepo: playerRepo,
		idGen:      idGen,
		now:        time.Now,
	}
}

// Create stores a new league and makes the owner its first member.
func (s *LeagueService) Create(ctx context.Context, input CreateLeagueInput) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Create")
	defer span.End()

	input.OwnerID = strings.TrimSpace(input.OwnerID)
	input.Name = strings.TrimSpace(input.Name)
	if input.OwnerID == "" {
		return league.League{}, fmt.Errorf("%w: owner id is required", ErrUnauthorized)
	}
	if input.Name == "" {
		return league.League{}, fmt.Errorf("%w: league name is required", ErrInvalidInput)
	}
	if err := s.ensurePlayer(ctx, input.OwnerID); err != nil {
		return league.League{}, err
	}

	leagueID, err := s.idGen.NewID()
	if err != nil {
		return league.League{}, fmt.Errorf("generate league id: %w", err)
	}

	now := s.now().UTC()
	item := league.League{
		ID:        leagueID,
		Name:      input.Name,
		OwnerID:   input.OwnerID,
		CreatedAt: now,
	}
	if err := item.Validate(); err != nil {
		return league.League{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if err := s.leagueRepo.Create(ctx, item); err != nil {
		return league.League{}, fmt.Errorf("create league: %w", err)
	}
	if _, err := s.leagueRepo.AddMember(ctx, item.ID, input.OwnerID, now); err != nil {
		return league.League{}, fmt.Errorf("add league owner as member: %w", err)
	}

	return item, nil
}

// Join adds the player to the league. Joining twice is a no-op and reports
// joined=false.
func (s *LeagueService) Join(ctx context.Context, leagueID, playerID string) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Join", leagueAttr(leagueID))
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return false, fmt.Errorf("%w: player id is required", ErrUnauthorized)
	}
	item, err := s.Get(ctx, leagueID)
	if err != nil {
		return false, err
	}
	if err := s.ensurePlayer(ctx, playerID); err != nil {
		return false, err
	}

	joined, err := s.leagueRepo.AddMember(ctx, item.ID, playerID, s.now().UTC())
	if err != nil {
		return false, fmt.Errorf("add league member: %w", err)
	}

	return joined, nil
}

func (s *LeagueService) Get(ctx context.Context, leagueID string) (league.League, error) {
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

func (s *LeagueService) List(ctx context.Context) ([]league.League, error) {
	items, err := s.leagueRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}

	return items, nil
}

func (s *LeagueService) ListForPlayer(ctx context.Context, playerID string) ([]league.League, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return nil, fmt.Errorf("%w: player id is required", ErrUnauthorized)
	}

	items, err := s.leagueRepo.ListByPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("list leagues by player: %w", err)
	}

	return items, nil
}

// ListMembers returns members in join order. A non-empty search narrows the
// result to names containing it, capped at a handful of suggestions.
func (s *LeagueService) ListMembers(ctx context.Context, leagueID, search string) ([]league.Member, error) {
	item, err := s.Get(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	members, err := s.leagueRepo.ListMembers(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("list league members: %w", err)
	}

	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return members, nil
	}

	out := make([]league.Member, 0, memberSearchLimit)
	for _, m := range members {
		if !strings.Contains(strings.ToLower(m.Name), search) {
			continue
		}
		out = append(out, m)
		if len(out) == memberSearchLimit {
			break
		}
	}

	return out, nil
}

func (s *LeagueService) ensurePlayer(ctx context.Context, playerID string) error {
	_, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}

	return nil
}
