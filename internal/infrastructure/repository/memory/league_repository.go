package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/doubles-league/internal/domain/league"
)

type LeagueRepository struct {
	mu      sync.RWMutex
	items   map[string]league.League
	orders  []string
	members map[string][]league.Member
	players *PlayerRepository
}

// NewLeagueRepository resolves member names through players.
func NewLeagueRepository(leagues []league.League, players *PlayerRepository) *LeagueRepository {
	items := make(map[string]league.League, len(leagues))
	orders := make([]string, 0, len(leagues))

	for _, l := range leagues {
		items[l.ID] = l
		orders = append(orders, l.ID)
	}

	return &LeagueRepository{
		items:   items,
		orders:  orders,
		members: make(map[string][]league.Member, len(leagues)),
		players: players,
	}
}

func (r *LeagueRepository) Create(_ context.Context, l league.League) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[l.ID]; exists {
		return fmt.Errorf("league %s already exists", l.ID)
	}
	r.items[l.ID] = l
	r.orders = append(r.orders, l.ID)

	return nil
}

func (r *LeagueRepository) List(_ context.Context) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, r.items[id])
	}

	return out, nil
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.items[leagueID]
	if !ok {
		return league.League{}, false, nil
	}

	return l, true, nil
}

func (r *LeagueRepository) ListByPlayer(_ context.Context, playerID string) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0)
	for _, id := range r.orders {
		if r.hasMemberLocked(id, playerID) {
			out = append(out, r.items[id])
		}
	}

	return out, nil
}

func (r *LeagueRepository) AddMember(_ context.Context, leagueID, playerID string, joinedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[leagueID]; !ok {
		return false, fmt.Errorf("league %s does not exist", leagueID)
	}
	if r.hasMemberLocked(leagueID, playerID) {
		return false, nil
	}
	r.members[leagueID] = append(r.members[leagueID], league.Member{
		LeagueID: leagueID,
		PlayerID: playerID,
		JoinedAt: joinedAt,
	})

	return true, nil
}

func (r *LeagueRepository) IsMember(_ context.Context, leagueID, playerID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.hasMemberLocked(leagueID, playerID), nil
}

func (r *LeagueRepository) ListMembers(_ context.Context, leagueID string) ([]league.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.members[leagueID]
	out := make([]league.Member, 0, len(rows))
	for _, m := range rows {
		if r.players != nil {
			m.Name = r.players.name(m.PlayerID)
		}
		out = append(out, m)
	}

	return out, nil
}

func (r *LeagueRepository) hasMemberLocked(leagueID, playerID string) bool {
	for _, m := range r.members[leagueID] {
		if m.PlayerID == playerID {
			return true
		}
	}
	return false
}
