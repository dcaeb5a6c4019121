package server

import (
	"context"

	"github.com/go-redis/redis/v8"
)

// Blacklist reports revoked users
type Blacklist interface {
	IsBlacklisted(ctx context.Context, userID string) (bool, error)
}

// RedisBlacklist stores revoked user ids as keys under a prefix
type RedisBlacklist struct {
	client *redis.Client
	prefix string
}

// NewRedisBlacklist creates a blacklist backed by client
func NewRedisBlacklist(client *redis.Client, prefix string) *RedisBlacklist {
	return &RedisBlacklist{client: client, prefix: prefix}
}

// IsBlacklisted implements Blacklist
func (b *RedisBlacklist) IsBlacklisted(ctx context.Context, userID string) (bool, error) {
	n, err := b.client.Exists(ctx, b.prefix+userID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
