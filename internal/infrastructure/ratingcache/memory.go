package ratingcache

import (
	"context"
	"maps"
	"time"

	"github.com/riskibarqy/doubles-league/internal/domain/rating"
	basecache "github.com/riskibarqy/doubles-league/internal/platform/cache"
)

// Memory keeps replay results in process. Suitable for a single API instance.
type Memory struct {
	store *basecache.Store
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{store: basecache.NewStore(ttl)}
}

func (m *Memory) Get(ctx context.Context, key string) (map[string]rating.Rating, bool, error) {
	v, ok := m.store.Get(ctx, key)
	if !ok {
		return nil, false, nil
	}
	ratings, ok := v.(map[string]rating.Rating)
	if !ok {
		return nil, false, nil
	}
	return maps.Clone(ratings), true, nil
}

func (m *Memory) Set(ctx context.Context, key string, ratings map[string]rating.Rating) error {
	m.store.Set(ctx, key, maps.Clone(ratings))
	return nil
}
