package history

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures the Redis-backed observation store.
type RedisConfig struct {
	Addr     string // e.g. localhost:6379
	Password string
	DB       int
	// KeyPrefix namespaces all keys written by this store.
	KeyPrefix string
	// TTL bounds how long observations for a title key are kept
	// after its most recent sighting.
	TTL time.Duration
}

// RedisStore keeps observations in Redis: a hash of last-seen ranks
// plus one sorted set of sighting timestamps per title key.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStoreFromEnv creates a RedisStore using environment variables
// REDIS_ADDR, REDIS_PASS, HISTORY_KEY_PREFIX (optional) and
// HISTORY_TTL_SECONDS (optional).
func NewRedisStoreFromEnv() (*RedisStore, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	prefix := os.Getenv("HISTORY_KEY_PREFIX")
	if prefix == "" {
		prefix = "trend:history"
	}
	ttl := 7 * 24 * time.Hour
	if t := os.Getenv("HISTORY_TTL_SECONDS"); t != "" {
		if secs, err := strconv.Atoi(t); err == nil && secs > 0 {
			ttl = time.Duration(secs) * time.Second
		}
	}

	cfg := RedisConfig{
		Addr:      addr,
		Password:  os.Getenv("REDIS_PASS"),
		KeyPrefix: prefix,
		TTL:       ttl,
	}
	return NewRedisStore(cfg)
}

// NewRedisStore creates a RedisStore and verifies connectivity.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return &RedisStore{client: client, prefix: cfg.KeyPrefix, ttl: cfg.TTL}, nil
}

func (r *RedisStore) ranksKey() string {
	return r.prefix + ":lastranks"
}

func (r *RedisStore) sightingsKey(titleKey string) string {
	return r.prefix + ":seen:" + titleKey
}

// Record stores the observation. The sighting set keeps one member per
// platform+timestamp scored by the sighting time, so windowed counts
// are a range query. TTL slides on each record so active stories stay
// warm while stale ones age out.
func (r *RedisStore) Record(ctx context.Context, obs Observation) error {
	seenAt := obs.SeenAt
	if seenAt.IsZero() {
		seenAt = time.Now()
	}

	key := r.sightingsKey(obs.TitleKey)
	member := fmt.Sprintf("%s:%d", obs.Platform, seenAt.UnixNano())

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, r.ranksKey(), obs.TitleKey, obs.Rank)
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(seenAt.UnixNano()), Member: member})
	// Drop sightings older than the retention TTL while we're here.
	cutoff := seenAt.Add(-r.ttl).UnixNano()
	pipe.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(cutoff, 10))
	pipe.Expire(ctx, key, r.ttl)
	pipe.Expire(ctx, r.ranksKey(), r.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record observation for %q: %w", obs.TitleKey, err)
	}
	return nil
}

// LastRank returns the most recent rank recorded for the title key.
func (r *RedisStore) LastRank(ctx context.Context, titleKey string) (int, bool, error) {
	val, err := r.client.HGet(ctx, r.ranksKey(), titleKey).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	rank, err := strconv.Atoi(val)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt rank value %q for %q: %w", val, titleKey, err)
	}
	return rank, true, nil
}

// CountInWindow counts sightings of the title key within the window.
func (r *RedisStore) CountInWindow(ctx context.Context, titleKey string, window time.Duration) (int, error) {
	cutoff := time.Now().Add(-window).UnixNano()
	n, err := r.client.ZCount(ctx, r.sightingsKey(titleKey),
		strconv.FormatInt(cutoff, 10), "+inf").Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Close closes the underlying Redis client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
