package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "caretrack:admin:session:"

// SessionStore tracks live admin sessions by token id
type SessionStore interface {
	Save(ctx context.Context, tokenID string, ttl time.Duration) error
	Exists(ctx context.Context, tokenID string) (bool, error)
	Delete(ctx context.Context, tokenID string) error
}

type RedisConfig struct {
	URL          string
	MaxRetries   int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
}

// NewRedisClient connects to Redis and checks the connection
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.MaxRetries = cfg.MaxRetries
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

type redisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) SessionStore {
	return &redisSessionStore{client: client}
}

func (s *redisSessionStore) Save(ctx context.Context, tokenID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, sessionKeyPrefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *redisSessionStore) Exists(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, sessionKeyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session: %w", err)
	}
	return n == 1, nil
}

func (s *redisSessionStore) Delete(ctx context.Context, tokenID string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+tokenID).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// cacheSessionStore keeps sessions in process. Sessions do not survive a restart.
type cacheSessionStore struct {
	cache *cache.Cache
}

func NewCacheSessionStore(cleanupInterval time.Duration) SessionStore {
	return &cacheSessionStore{cache: cache.New(cache.NoExpiration, cleanupInterval)}
}

func (s *cacheSessionStore) Save(_ context.Context, tokenID string, ttl time.Duration) error {
	s.cache.Set(tokenID, struct{}{}, ttl)
	return nil
}

func (s *cacheSessionStore) Exists(_ context.Context, tokenID string) (bool, error) {
	_, ok := s.cache.Get(tokenID)
	return ok, nil
}

func (s *cacheSessionStore) Delete(_ context.Context, tokenID string) error {
	s.cache.Delete(tokenID)
	return nil
}
