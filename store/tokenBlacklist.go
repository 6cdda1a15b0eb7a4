package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist is a fast lookup in front of User.BlacklistedTokens
type TokenBlacklist interface {
	Add(ctx context.Context, token string, ttl time.Duration) error
	Contains(ctx context.Context, token string) (bool, error)
}

type NoopTokenBlacklist struct{}

func (NoopTokenBlacklist) Add(context.Context, string, time.Duration) error { return nil }
func (NoopTokenBlacklist) Contains(context.Context, string) (bool, error)   { return false, nil }

type redisTokenBlacklist struct {
	client *redis.Client
}

func NewRedisTokenBlacklist(client *redis.Client) TokenBlacklist {
	return &redisTokenBlacklist{client: client}
}

func blacklistKey(token string) string { return "blacklist:" + token }

func (b *redisTokenBlacklist) Add(ctx context.Context, token string, ttl time.Duration) error {
	return b.client.Set(ctx, blacklistKey(token), 1, ttl).Err()
}

func (b *redisTokenBlacklist) Contains(ctx context.Context, token string) (bool, error) {
	err := b.client.Get(ctx, blacklistKey(token)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
