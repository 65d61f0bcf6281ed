package xredis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/questx-lab/cardlottery/pkg/xcontext"
	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("key not found")

type Client interface {
	// SetNX sets the key only if it does not exist and reports whether it was set.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)

	// Release deletes the key only if it still holds value. It reports whether the
	// key was deleted.
	Release(ctx context.Context, key, value string) (bool, error)

	SetObj(ctx context.Context, key string, obj any, ttl time.Duration) error

	// GetObj returns ErrNotFound if the key does not exist.
	GetObj(ctx context.Context, key string, v any) error
}

// releaseScript compares and deletes in one round trip, a lock which expired and
// was taken by another holder is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type client struct {
	redisClient *redis.Client
}

func NewClient(ctx context.Context) (*client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:            xcontext.Configs(ctx).Redis.Addr,
		MaxRetries:      5,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		PoolFIFO:        false,
		PoolSize:        5,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &client{redisClient: redisClient}, nil
}

func (c *client) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return c.redisClient.SetNX(ctx, key, value, ttl).Result()
}

func (c *client) Release(ctx context.Context, key, value string) (bool, error) {
	n, err := releaseScript.Run(ctx, c.redisClient, []string{key}, value).Int64()
	if err != nil {
		return false, err
	}

	return n == 1, nil
}

func (c *client) SetObj(ctx context.Context, key string, obj any, ttl time.Duration) error {
	b, err := json.Marshal(obj)
	if err != nil {
		return err
	}

	return c.redisClient.Set(ctx, key, b, ttl).Err()
}

func (c *client) GetObj(ctx context.Context, key string, v any) error {
	s, err := c.redisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		return ErrNotFound
	}

	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(s), v)
}
