package memory

import (
	"context"
	"sync"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/doubles-league/internal/domain/team"
)

type TeamRepository struct {
	mu    sync.RWMutex
	items map[string]team.Team
	byKey map[string]string
}

func NewTeamRepository() *TeamRepository {
	return &TeamRepository{
		items: make(map[string]team.Team),
		byKey: make(map[string]string),
	}
}

func (r *TeamRepository) FindByKey(_ context.Context, key string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byKey[key]
	if !ok {
		return team.Team{}, false, nil
	}

	return r.items[id], true, nil
}

func (r *TeamRepository) Create(_ context.Context, t team.Team) error {
	if err := t.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byKey[t.Key()]; exists {
		return crerr.Wrapf(team.ErrDuplicateTeam, "pair=%s", t.Key())
	}
	r.items[t.ID] = t
	r.byKey[t.Key()] = t.ID

	return nil
}

func (r *TeamRepository) GetByIDs(_ context.Context, teamIDs []string) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(teamIDs))
	for _, id := range teamIDs {
		if t, ok := r.items[id]; ok {
			out = append(out, t)
		}
	}

	return out, nil
}
