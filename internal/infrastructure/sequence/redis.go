package sequence

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"

	"bistro/internal/core/apperror"
	coresequence "bistro/internal/core/sequence"
)

// DefaultRedisPrefix namespaces counter keys.
const DefaultRedisPrefix = "bistro:seq:"

// RedisClient is the part of go-redis the Redis backend needs.
// *redis.Client and *redis.ClusterClient satisfy it.
type RedisClient interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Eval(ctx context.Context, script string, keys []string, args ...any) *redis.Cmd
}

// seedScript raises KEYS[1] to ARGV[1] if it is lower. tonumber is only used
// for the comparison: Lua formats large numbers with %.14g, so the original
// decimal string is what gets stored, keeping the key valid for INCR.
const seedScript = `
local cur = tonumber(redis.call('GET', KEYS[1]) or '0')
if tonumber(ARGV[1]) > cur then
	redis.call('SET', KEYS[1], ARGV[1])
	return 1
end
return 0`

// Redis keeps counters as plain integer keys advanced with INCR.
// The server must persist (AOF or RDB) for counters to survive restarts.
type Redis struct {
	client RedisClient
	prefix string
}

var _ coresequence.Generator = (*Redis)(nil)

// NewRedis creates a Redis-backed generator. Empty prefix means DefaultRedisPrefix.
func NewRedis(client RedisClient, prefix string) *Redis {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) key(name string) string {
	return r.prefix + name
}

// Next implements sequence.Generator. INCR creates missing keys at 0.
func (r *Redis) Next(ctx context.Context, name string) (int64, error) {
	if err := coresequence.ValidateName(name); err != nil {
		return 0, err
	}

	ctx, span := startSpan(ctx, "sequence.next", name, "redis")
	defer span.End()

	n, err := r.client.Incr(ctx, r.key(name)).Result()
	if err != nil {
		return 0, fail(span, fmt.Errorf("next %s: %w", name, err))
	}
	span.SetAttributes(attribute.Int64("sequence.value", n))
	return n, nil
}

// Current implements sequence.Generator.
func (r *Redis) Current(ctx context.Context, name string) (int64, error) {
	if err := coresequence.ValidateName(name); err != nil {
		return 0, err
	}

	n, err := r.client.Get(ctx, r.key(name)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, apperror.NewStorageUnavailable(fmt.Errorf("current %s: %w", name, err))
	}
	return n, nil
}

// Seed implements sequence.Generator.
func (r *Redis) Seed(ctx context.Context, name string, value int64) error {
	if err := coresequence.ValidateSeed(name, value); err != nil {
		return err
	}

	ctx, span := startSpan(ctx, "sequence.seed", name, "redis")
	defer span.End()

	if err := r.client.Eval(ctx, seedScript, []string{r.key(name)}, value).Err(); err != nil {
		return fail(span, fmt.Errorf("seed %s: %w", name, err))
	}
	return nil
}
