package cache

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/riskibarqy/doubles-league/internal/domain/league"
	"github.com/riskibarqy/doubles-league/internal/domain/player"
	"github.com/riskibarqy/doubles-league/internal/domain/team"
	basecache "github.com/riskibarqy/doubles-league/internal/platform/cache"
)

// LeagueRepository caches league metadata and membership. Every write drops
// the keys it can affect.
type LeagueRepository struct {
	next  league.Repository
	cache *basecache.Store
}

func NewLeagueRepository(next league.Repository, cache *basecache.Store) *LeagueRepository {
	return &LeagueRepository{next: next, cache: cache}
}

func (r *LeagueRepository) Create(ctx context.Context, l league.League) error {
	if err := r.next.Create(ctx, l); err != nil {
		return err
	}
	r.cache.Delete(ctx, "league:list")
	r.cache.Delete(ctx, "league:player:"+l.OwnerID)
	r.cache.Delete(ctx, "league:id:"+l.ID)
	return nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, "league:id:"+leagueID, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return cachedLeague{value: item, exists: exists}, nil
	})
	if err != nil {
		return league.League{}, false, err
	}

	cached, _ := v.(cachedLeague)
	return cached.value, cached.exists, nil
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	return loadSlice(ctx, r.cache, "league:list", r.next.List)
}

func (r *LeagueRepository) ListByPlayer(ctx context.Context, playerID string) ([]league.League, error) {
	return loadSlice(ctx, r.cache, "league:player:"+playerID, func(ctx context.Context) ([]league.League, error) {
		return r.next.ListByPlayer(ctx, playerID)
	})
}

func (r *LeagueRepository) AddMember(ctx context.Context, leagueID, playerID string, joinedAt time.Time) (bool, error) {
	added, err := r.next.AddMember(ctx, leagueID, playerID, joinedAt)
	if err != nil {
		return false, err
	}
	if added {
		r.cache.Delete(ctx, "league:members:"+leagueID)
		r.cache.Delete(ctx, "league:player:"+playerID)
	}
	return added, nil
}

func (r *LeagueRepository) IsMember(ctx context.Context, leagueID, playerID string) (bool, error) {
	members, err := r.ListMembers(ctx, leagueID)
	if err != nil {
		return false, err
	}
	return slices.ContainsFunc(members, func(m league.Member) bool { return m.PlayerID == playerID }), nil
}

func (r *LeagueRepository) ListMembers(ctx context.Context, leagueID string) ([]league.Member, error) {
	return loadSlice(ctx, r.cache, "league:members:"+leagueID, func(ctx context.Context) ([]league.Member, error) {
		return r.next.ListMembers(ctx, leagueID)
	})
}

type cachedLeague struct {
	value  league.League
	exists bool
}

// PlayerRepository caches player lookups. Players are immutable once
// registered.
type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

func (r *PlayerRepository) Create(ctx context.Context, p player.Player) error {
	if err := r.next.Create(ctx, p); err != nil {
		return err
	}
	r.cache.Delete(ctx, "player:id:"+p.ID)
	r.cache.DeletePrefix(ctx, "player:ids:")
	return nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, "player:id:"+playerID, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, playerID)
		if err != nil {
			return nil, err
		}
		return cachedPlayer{value: item, exists: exists}, nil
	})
	if err != nil {
		return player.Player{}, false, err
	}

	cached, _ := v.(cachedPlayer)
	return cached.value, cached.exists, nil
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, playerIDs []string) ([]player.Player, error) {
	return loadSlice(ctx, r.cache, "player:ids:"+idsKey(playerIDs), func(ctx context.Context) ([]player.Player, error) {
		return r.next.GetByIDs(ctx, playerIDs)
	})
}

type cachedPlayer struct {
	value  player.Player
	exists bool
}

// TeamRepository caches resolved teams. Only hits are cached for FindByKey so
// a team created elsewhere is visible on the next lookup.
type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) FindByKey(ctx context.Context, key string) (team.Team, bool, error) {
	if v, ok := r.cache.Get(ctx, "team:key:"+key); ok {
		if item, ok := v.(team.Team); ok {
			return item, true, nil
		}
	}

	item, exists, err := r.next.FindByKey(ctx, key)
	if err != nil || !exists {
		return item, exists, err
	}
	r.remember(ctx, item)
	return item, true, nil
}

func (r *TeamRepository) Create(ctx context.Context, t team.Team) error {
	if err := r.next.Create(ctx, t); err != nil {
		return err
	}
	r.remember(ctx, t)
	return nil
}

func (r *TeamRepository) GetByIDs(ctx context.Context, teamIDs []string) ([]team.Team, error) {
	out := make([]team.Team, 0, len(teamIDs))
	missing := make([]string, 0, len(teamIDs))
	for _, teamID := range teamIDs {
		if v, ok := r.cache.Get(ctx, "team:id:"+teamID); ok {
			if item, ok := v.(team.Team); ok {
				out = append(out, item)
				continue
			}
		}
		missing = append(missing, teamID)
	}
	if len(missing) == 0 {
		return out, nil
	}

	loaded, err := r.next.GetByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	for _, item := range loaded {
		r.remember(ctx, item)
	}
	return append(out, loaded...), nil
}

func (r *TeamRepository) remember(ctx context.Context, t team.Team) {
	r.cache.Set(ctx, "team:id:"+t.ID, t)
	r.cache.Set(ctx, "team:key:"+t.Key(), t)
}

func loadSlice[T any](ctx context.Context, store *basecache.Store, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	v, err := store.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return slices.Clone(items), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]T)
	return slices.Clone(items), nil
}

func idsKey(ids []string) string {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	return strings.Join(slices.Compact(sorted), ",")
}
