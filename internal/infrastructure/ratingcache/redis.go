package ratingcache

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/go-redis/redis/v8"

	"github.com/riskibarqy/doubles-league/internal/domain/rating"
	"github.com/riskibarqy/doubles-league/internal/platform/logging"
	"github.com/riskibarqy/doubles-league/internal/platform/resilience"
)

const keyPrefix = "doubles-league:ratings:"

// Redis shares replay results between API instances. Failures are reported to
// the caller, and after repeated failures the breaker turns every call into a
// silent miss until redis recovers.
type Redis struct {
	client  *redis.Client
	ttl     time.Duration
	breaker *resilience.CircuitBreaker
}

type RedisOptions struct {
	TTL     time.Duration
	Circuit resilience.CircuitBreakerConfig
	Logger  *logging.Logger
}

func NewRedis(client *redis.Client, opts RedisOptions) *Redis {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}

	breaker := resilience.NewCircuitBreaker(opts.Circuit)
	breaker.OnStateChange(func(from, to resilience.CircuitState) {
		logger.Warn("rating cache circuit state changed", "from", string(from), "to", string(to))
	})

	return &Redis{
		client:  client,
		ttl:     opts.TTL,
		breaker: breaker,
	}
}

// Dial parses a redis:// URL and verifies the connection.
func Dial(ctx context.Context, rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, crerr.Wrap(err, "parse redis url")
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, crerr.Wrap(err, "ping redis")
	}

	return client, nil
}

func (r *Redis) Get(ctx context.Context, key string) (map[string]rating.Rating, bool, error) {
	var raw []byte
	err := r.breaker.Execute(func() error {
		v, err := r.client.Get(ctx, keyPrefix+key).Bytes()
		if crerr.Is(err, redis.Nil) {
			return nil
		}
		raw = v
		return err
	})
	if crerr.Is(err, resilience.ErrCircuitOpen) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, crerr.Wrapf(err, "redis get %s", key)
	}
	if raw == nil {
		return nil, false, nil
	}

	ratings, err := decode(raw)
	if err != nil {
		return nil, false, err
	}
	return ratings, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, ratings map[string]rating.Rating) error {
	raw, err := encode(ratings)
	if err != nil {
		return err
	}

	err = r.breaker.Execute(func() error {
		return r.client.Set(ctx, keyPrefix+key, raw, r.ttl).Err()
	})
	if crerr.Is(err, resilience.ErrCircuitOpen) {
		return nil
	}
	if err != nil {
		return crerr.Wrapf(err, "redis set %s", key)
	}
	return nil
}

func encode(ratings map[string]rating.Rating) ([]byte, error) {
	raw, err := sonic.Marshal(ratings)
	if err != nil {
		return nil, crerr.Wrap(err, "encode ratings")
	}
	return raw, nil
}

func decode(raw []byte) (map[string]rating.Rating, error) {
	var ratings map[string]rating.Rating
	if err := sonic.Unmarshal(raw, &ratings); err != nil {
		return nil, crerr.Wrap(err, "decode ratings")
	}
	if ratings == nil {
		ratings = make(map[string]rating.Rating)
	}
	return ratings, nil
}
