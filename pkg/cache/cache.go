package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache TTLs
const (
	TTLNote       = 5 * time.Minute
	TTLRepository = 5 * time.Minute
	TTLUser       = 10 * time.Minute
	TTLFeed       = 30 * time.Second
	TTLCounts     = 1 * time.Minute
	TTLDefault    = 5 * time.Minute
)

// Cache key prefixes
const (
	PrefixNote       = "note:"
	PrefixRepository = "repo:"
	PrefixUser       = "user:"
	PrefixFeed       = "feed:"
	PrefixUnread     = "unread:"
)

// Service is the Redis cache interface. Every operation degrades to a
// no-op (or miss) when no Redis client is configured.
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)

	GetNote(ctx context.Context, noteID uint64) ([]byte, error)
	SetNote(ctx context.Context, noteID uint64, data interface{}) error
	InvalidateNote(ctx context.Context, noteID uint64) error

	GetRepository(ctx context.Context, repositoryID uint64) ([]byte, error)
	SetRepository(ctx context.Context, repositoryID uint64, data interface{}) error
	InvalidateRepository(ctx context.Context, repositoryID uint64) error

	GetUser(ctx context.Context, userID uint64) ([]byte, error)
	SetUser(ctx context.Context, userID uint64, data interface{}) error
	InvalidateUser(ctx context.Context, userID uint64) error

	GetPublicFeed(ctx context.Context, page, limit int) ([]byte, error)
	SetPublicFeed(ctx context.Context, page, limit int, data interface{}) error
	InvalidatePublicFeed(ctx context.Context) error

	IsAvailable() bool
	Ping(ctx context.Context) error
}

type redisCache struct {
	client *redis.Client
}

// NewService creates a cache service. A nil client is allowed and makes
// every operation a pass-through.
func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

// IsAvailable reports whether a Redis client is configured
func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

// Ping tests the Redis connection
func (c *redisCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	return c.client.Ping(ctx).Err()
}

// Get reads a cached value into dest
func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return fmt.Errorf("redis not available")
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// Set stores a value with a TTL
func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

// Delete removes keys
func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// Exists checks whether a key is cached
func (c *redisCache) Exists(ctx context.Context, key string) (bool, error) {
	if c.client == nil {
		return false, nil
	}
	n, err := c.client.Exists(ctx, key).Result()
	return n > 0, err
}

func (c *redisCache) noteKey(noteID uint64) string {
	return fmt.Sprintf("%s%d", PrefixNote, noteID)
}

func (c *redisCache) GetNote(ctx context.Context, noteID uint64) ([]byte, error) {
	if c.client == nil {
		return nil, fmt.Errorf("redis not available")
	}
	return c.client.Get(ctx, c.noteKey(noteID)).Bytes()
}

func (c *redisCache) SetNote(ctx context.Context, noteID uint64, data interface{}) error {
	if c.client == nil {
		return nil
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.noteKey(noteID), jsonData, TTLNote).Err()
}

func (c *redisCache) InvalidateNote(ctx context.Context, noteID uint64) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, c.noteKey(noteID)).Err()
}

func (c *redisCache) repositoryKey(repositoryID uint64) string {
	return fmt.Sprintf("%s%d", PrefixRepository, repositoryID)
}

func (c *redisCache) GetRepository(ctx context.Context, repositoryID uint64) ([]byte, error) {
	if c.client == nil {
		return nil, fmt.Errorf("redis not available")
	}
	return c.client.Get(ctx, c.repositoryKey(repositoryID)).Bytes()
}

func (c *redisCache) SetRepository(ctx context.Context, repositoryID uint64, data interface{}) error {
	if c.client == nil {
		return nil
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.repositoryKey(repositoryID), jsonData, TTLRepository).Err()
}

func (c *redisCache) InvalidateRepository(ctx context.Context, repositoryID uint64) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, c.repositoryKey(repositoryID)).Err()
}

func (c *redisCache) userKey(userID uint64) string {
	return fmt.Sprintf("%s%d", PrefixUser, userID)
}

func (c *redisCache) GetUser(ctx context.Context, userID uint64) ([]byte, error) {
	if c.client == nil {
		return nil, fmt.Errorf("redis not available")
	}
	return c.client.Get(ctx, c.userKey(userID)).Bytes()
}

func (c *redisCache) SetUser(ctx context.Context, userID uint64, data interface{}) error {
	if c.client == nil {
		return nil
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.userKey(userID), jsonData, TTLUser).Err()
}

func (c *redisCache) InvalidateUser(ctx context.Context, userID uint64) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, c.userKey(userID)).Err()
}

func (c *redisCache) feedKey(page, limit int) string {
	return fmt.Sprintf("%spublic:%d:%d", PrefixFeed, page, limit)
}

func (c *redisCache) GetPublicFeed(ctx context.Context, page, limit int) ([]byte, error) {
	if c.client == nil {
		return nil, fmt.Errorf("redis not available")
	}
	return c.client.Get(ctx, c.feedKey(page, limit)).Bytes()
}

func (c *redisCache) SetPublicFeed(ctx context.Context, page, limit int, data interface{}) error {
	if c.client == nil {
		return nil
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.feedKey(page, limit), jsonData, TTLFeed).Err()
}

func (c *redisCache) InvalidatePublicFeed(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.deleteByPattern(ctx, PrefixFeed+"public:*")
}

func (c *redisCache) deleteByPattern(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
