package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/doubles-league/internal/domain/team"
	idgen "github.com/riskibarqy/doubles-league/internal/platform/id"
)

const maxResolveTeamAttempts = 3

type TeamService struct {
	teamRepo team.Repository
	idGen    idgen.Generator
	now      func() time.Time
}

func NewTeamService(teamRepo team.Repository, idGen idgen.Generator) *TeamService {
	return &TeamService{
		teamRepo: teamRepo,
		idGen:    idGen,
		now:      time.Now,
	}
}

// ResolveTeam returns the team made of exactly the two players, creating it
// on first use. The pair is unordered. A concurrent creation of the same pair
// is retried as a lookup.
func (s *TeamService) ResolveTeam(ctx context.Context, playerA, playerB string) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.ResolveTeam")
	defer span.End()

	pair, err := team.NewPair(playerA, playerB)
	if err != nil {
		return team.Team{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	key := pair[0] + ":" + pair[1]

	for attempt := 0; attempt < maxResolveTeamAttempts; attempt++ {
		existing, exists, err := s.teamRepo.FindByKey(ctx, key)
		if err != nil {
			return team.Team{}, fmt.Errorf("find team by key: %w", err)
		}
		if exists {
			return existing, nil
		}

		teamID, err := s.idGen.NewID()
		if err != nil {
			return team.Team{}, fmt.Errorf("generate team id: %w", err)
		}
		item := team.Team{
			ID:        teamID,
			PlayerIDs: pair,
			CreatedAt: s.now().UTC(),
		}
		if err := s.teamRepo.Create(ctx, item); err != nil {
			if crerr.Is(err, team.ErrDuplicateTeam) {
				continue
			}
			return team.Team{}, fmt.Errorf("create team: %w", err)
		}

		return item, nil
	}

	return team.Team{}, fmt.Errorf("%w: team %s could not be resolved", ErrConflict, key)
}

func (s *TeamService) GetTeams(ctx context.Context, teamIDs []string) ([]team.Team, error) {
	ids := make([]string, 0, len(teamIDs))
	for _, id := range teamIDs {
		id = strings.TrimSpace(id)
		if id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return []team.Team{}, nil
	}

	items, err := s.teamRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get teams by ids: %w", err)
	}

	return items, nil
}
