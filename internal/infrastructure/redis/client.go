package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rentalconnect/rentalconnect/internal/reliability/circuitbreaker"
	"github.com/rentalconnect/rentalconnect/internal/reliability/retry"
)

// Client wraps the Redis client with the operations the bookmark store and
// readiness probe need. Set operations go through a circuit breaker so a
// down Redis fails requests fast instead of stalling them.
type Client struct {
	rdb     redis.UniversalClient
	breaker *circuitbreaker.CircuitBreaker
	logger  *slog.Logger
}

// NewClient parses url, connects and pings
func NewClient(ctx context.Context, url string, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("invalid redis url: %w", err))
	}

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("redis connected", slog.String("addr", opts.Addr))
	return newClient(rdb, logger), nil
}

func newClient(rdb redis.UniversalClient, logger *slog.Logger) *Client {
	cb := circuitbreaker.New(circuitbreaker.DefaultConfig())
	cb.SetStateChangeCallback(func(from, to circuitbreaker.State) {
		logger.Warn("redis circuit breaker state change",
			slog.String("from", from.String()),
			slog.String("to", to.String()),
		)
	})
	return &Client{rdb: rdb, breaker: cb, logger: logger}
}

func isNil(err error) bool { return errors.Is(err, redis.Nil) }

// SAdd adds member to the set at key and reports whether it was newly added
func (c *Client) SAdd(ctx context.Context, key, member string) (bool, error) {
	var n int64
	err := c.breaker.Execute(func() (err error) {
		n, err = c.rdb.SAdd(ctx, key, member).Result()
		return err
	})
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// SRem removes member from the set at key
func (c *Client) SRem(ctx context.Context, key, member string) error {
	return c.breaker.Execute(func() error {
		return c.rdb.SRem(ctx, key, member).Err()
	})
}

// SIsMember reports set membership
func (c *Client) SIsMember(ctx context.Context, key, member string) (bool, error) {
	var ok bool
	err := c.breaker.Execute(func() (err error) {
		ok, err = c.rdb.SIsMember(ctx, key, member).Result()
		return err
	}, isNil)
	return ok, err
}

// SMembers returns all members of the set at key
func (c *Client) SMembers(ctx context.Context, key string) ([]string, error) {
	var members []string
	err := c.breaker.Execute(func() (err error) {
		members, err = c.rdb.SMembers(ctx, key).Result()
		return err
	}, isNil)
	return members, err
}

// Keys returns every key matching pattern. It walks the keyspace with SCAN so
// large databases are not blocked the way KEYS would block them.
func (c *Client) Keys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	err := c.breaker.Execute(func() error {
		keys = keys[:0]
		iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		return iter.Err()
	})
	return keys, err
}

// Ping checks connectivity. It bypasses the breaker so readiness reflects the real connection.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
