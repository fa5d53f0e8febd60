package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/riskibarqy/doubles-league/internal/domain/game"
)

type GameRepository struct {
	mu    sync.RWMutex
	items map[string][]game.Game
	seq   int64
}

func NewGameRepository() *GameRepository {
	return &GameRepository{items: make(map[string][]game.Game)}
}

func (r *GameRepository) Create(_ context.Context, g game.Game) (game.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items[g.LeagueID] {
		if existing.ID == g.ID {
			return game.Game{}, fmt.Errorf("game %s already exists", g.ID)
		}
	}

	r.seq++
	g.Seq = r.seq
	g.Participations = slices.Clone(g.Participations)
	r.items[g.LeagueID] = append(r.items[g.LeagueID], g)

	return g, nil
}

func (r *GameRepository) GetByID(_ context.Context, leagueID, gameID string) (game.Game, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, g := range r.items[leagueID] {
		if g.ID == gameID {
			g.Participations = slices.Clone(g.Participations)
			return g, true, nil
		}
	}

	return game.Game{}, false, nil
}

func (r *GameRepository) ListByLeague(_ context.Context, leagueID string) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.Game, 0, len(r.items[leagueID]))
	for _, g := range r.items[leagueID] {
		g.Participations = slices.Clone(g.Participations)
		out = append(out, g)
	}
	slices.SortStableFunc(out, func(a, b game.Game) int {
		switch {
		case game.Less(a, b):
			return -1
		case game.Less(b, a):
			return 1
		default:
			return 0
		}
	})

	return out, nil
}

func (r *GameRepository) Delete(_ context.Context, leagueID, gameID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	games := r.items[leagueID]
	idx := slices.IndexFunc(games, func(g game.Game) bool { return g.ID == gameID })
	if idx < 0 {
		return false, nil
	}
	r.items[leagueID] = slices.Delete(games, idx, idx+1)

	return true, nil
}
