package redis

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rentalconnect/rentalconnect/internal/reliability/circuitbreaker"
)

func TestNewClient_RejectsBadURL(t *testing.T) {
	if _, err := NewClient(context.Background(), "not a url", nil); err == nil {
		t.Fatal("expected error for malformed url")
	}
}

func TestClient_BreakerOpensWhenRedisIsDown(t *testing.T) {
	// nothing listens on port 1
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()
	c := newClient(rdb, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx := context.Background()
	threshold := circuitbreaker.DefaultConfig().FailureThreshold
	for i := 0; i < threshold; i++ {
		_, err := c.SAdd(ctx, "saved:a", "p1")
		if err == nil || errors.Is(err, circuitbreaker.ErrOpen) {
			t.Fatalf("attempt %d: expected a connection error, got %v", i, err)
		}
	}

	if _, err := c.SIsMember(ctx, "saved:a", "p1"); !errors.Is(err, circuitbreaker.ErrOpen) {
		t.Fatalf("expected ErrOpen once tripped, got %v", err)
	}
	if err := c.Ping(ctx); err == nil || errors.Is(err, circuitbreaker.ErrOpen) {
		t.Fatalf("ping must bypass the breaker, got %v", err)
	}
}
