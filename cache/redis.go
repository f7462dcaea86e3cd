// Package cache keeps short-lived login state in Redis: OAuth state nonces
// and revoked session ids.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"LabelCMS/config"

	"github.com/redis/go-redis/v9"
)

const (
	oauthStateKey     = "oauth:state:%s"     // String: "1", single use
	revokedSessionKey = "session:revoked:%s" // String: "1" until token expiry
)

// StateTTL bounds the time between login redirect and callback.
const StateTTL = 10 * time.Minute

// NewClient connects to the configured Redis and pings it.
func NewClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.RedisAddr(), err)
	}
	return client, nil
}

// RedisStateStore implements StateStore.
type RedisStateStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStateStore stores OAuth state nonces for StateTTL.
func NewRedisStateStore(client *redis.Client) *RedisStateStore {
	return &RedisStateStore{client: client, ttl: StateTTL}
}

func (s *RedisStateStore) Save(ctx context.Context, state string) error {
	if err := s.client.Set(ctx, fmt.Sprintf(oauthStateKey, state), "1", s.ttl).Err(); err != nil {
		return fmt.Errorf("save oauth state: %w", err)
	}
	return nil
}

// Consume reports whether state was issued and not yet used, deleting it.
func (s *RedisStateStore) Consume(ctx context.Context, state string) (bool, error) {
	err := s.client.GetDel(ctx, fmt.Sprintf(oauthStateKey, state)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("consume oauth state: %w", err)
	}
	return true, nil
}

// RedisRevocationStore implements session.Revoker.
type RedisRevocationStore struct {
	client *redis.Client
}

func NewRedisRevocationStore(client *redis.Client) *RedisRevocationStore {
	return &RedisRevocationStore{client: client}
}

func (s *RedisRevocationStore) Revoke(ctx context.Context, id string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, fmt.Sprintf(revokedSessionKey, id), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (s *RedisRevocationStore) IsRevoked(ctx context.Context, id string) (bool, error) {
	n, err := s.client.Exists(ctx, fmt.Sprintf(revokedSessionKey, id)).Result()
	if err != nil {
		return false, fmt.Errorf("check revoked session: %w", err)
	}
	return n > 0, nil
}
