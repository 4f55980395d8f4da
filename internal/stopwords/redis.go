package stopwords

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const defaultRedisKey = "stopguard:stopwords"

// ListReader is the subset of the go-redis client used by RedisSource.
type ListReader interface {
	LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
}

// RedisSource reads terms from a Redis list, one term per element.
type RedisSource struct {
	client ListReader
	key    string
	logger zerolog.Logger
}

func NewRedisSource(client ListReader, key string, logger zerolog.Logger) *RedisSource {
	if key == "" {
		key = defaultRedisKey
	}
	return &RedisSource{
		client: client,
		key:    key,
		logger: logger.With().Str("component", "stopwords_redis").Str("key", key).Logger(),
	}
}

func (r *RedisSource) Lines(ctx context.Context) ([]string, error) {
	values, err := r.client.LRange(ctx, r.key, 0, -1).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error().Err(err).Msg("read stopwords list")
		return nil, nil
	}
	return values, nil
}
