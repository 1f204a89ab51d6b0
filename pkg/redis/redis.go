package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps a Redis client with the token-revocation operations
// pkg/token.Store needs.
type Client struct {
	rdb *redis.Client
}

type Config struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func NewClient(cfg Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

// StoreToken stores a token JTI in Redis with the given TTL, and indexes it
// under the owning user for bulk revocation.
func (c *Client) StoreToken(ctx context.Context, jti string, userID int, kind string, ttl time.Duration) error {
	key := tokenKey(kind, jti)
	userIndexKey := userTokensKey(userID)

	pipe := c.rdb.Pipeline()
	pipe.Set(ctx, key, userID, ttl)
	pipe.SAdd(ctx, userIndexKey, jti)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	return nil
}

func (c *Client) TokenExists(ctx context.Context, jti string, kind string) (bool, error) {
	exists, err := c.rdb.Exists(ctx, tokenKey(kind, jti)).Result()
	if err != nil {
		return false, fmt.Errorf("check token existence: %w", err)
	}
	return exists > 0, nil
}

func (c *Client) RevokeToken(ctx context.Context, jti string, kind string, userID int) error {
	pipe := c.rdb.Pipeline()
	pipe.Del(ctx, tokenKey(kind, jti))
	pipe.SRem(ctx, userTokensKey(userID), jti)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// RevokeAllUserTokens deletes every access/refresh token JTI indexed under
// userID, then clears the index itself.
func (c *Client) RevokeAllUserTokens(ctx context.Context, userID int) error {
	userIndexKey := userTokensKey(userID)

	jtis, err := c.rdb.SMembers(ctx, userIndexKey).Result()
	if err != nil {
		return fmt.Errorf("list user tokens: %w", err)
	}
	if len(jtis) == 0 {
		return nil
	}

	keys := make([]string, 0, len(jtis)*2+1)
	for _, jti := range jtis {
		keys = append(keys, tokenKey("access", jti), tokenKey("refresh", jti))
	}
	keys = append(keys, userIndexKey)

	if _, err := c.rdb.Del(ctx, keys...).Result(); err != nil {
		return fmt.Errorf("revoke all user tokens: %w", err)
	}
	return nil
}

func tokenKey(kind, jti string) string {
	return fmt.Sprintf("token:%s:%s", kind, jti)
}

func userTokensKey(userID int) string {
	return fmt.Sprintf("user:tokens:%d", userID)
}
