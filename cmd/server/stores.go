package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rentalconnect/rentalconnect/internal/domain"
	"github.com/rentalconnect/rentalconnect/internal/handler"
	"github.com/rentalconnect/rentalconnect/internal/infrastructure/redis"
	"github.com/rentalconnect/rentalconnect/internal/reliability/retry"
	"github.com/rentalconnect/rentalconnect/internal/repository"
	"github.com/rentalconnect/rentalconnect/internal/repository/memory"
	"github.com/rentalconnect/rentalconnect/internal/worker"
	"github.com/rentalconnect/rentalconnect/pkg/config"
	"github.com/rentalconnect/rentalconnect/pkg/database"
)

// stores bundles the repositories selected by configuration
type stores struct {
	accounts  domain.AccountRepository
	listings  domain.ListingRepository
	messages  domain.MessageRepository
	bookmarks domain.BookmarkRepository
	checks    map[string]handler.HealthCheck
	// sweeper is set only for stores that do not cascade listing deletes
	sweeper *worker.BookmarkSweeper
	closers []func() error
}

func (s *stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		_ = s.closers[i]()
	}
}

func openStores(ctx context.Context, cfg *config.Config, log *slog.Logger) (*stores, error) {
	st := &stores{checks: map[string]handler.HealthCheck{}}

	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		log.Warn("using in-memory store; data is lost on restart")
		mem := memory.New()
		st.accounts = mem.Accounts()
		st.listings = mem.Listings()
		st.messages = mem.Messages()
		st.bookmarks = mem.Bookmarks()

	default:
		pool, err := retry.Do(ctx, retry.DefaultConfig(), log, "connect postgres",
			func(ctx context.Context) (*database.ConnectionPool, error) {
				return database.NewConnectionPool(ctx, cfg.Database, log)
			})
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		st.closers = append(st.closers, pool.Close)
		st.checks["postgres"] = pool.Health

		if err := database.Migrate(ctx, pool.GetDB()); err != nil {
			st.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		log.Info("migrations applied")

		db := pool.GetDB()
		st.accounts = repository.NewPostgresAccountRepository(db, log)
		st.listings = repository.NewPostgresListingRepository(db, log)
		st.messages = repository.NewPostgresMessageRepository(db, log)
		st.bookmarks = repository.NewPostgresBookmarkRepository(db, log)
	}

	if cfg.BookmarkStore == config.BookmarkStoreRedis {
		client, err := retry.Do(ctx, retry.DefaultConfig(), log, "connect redis",
			func(ctx context.Context) (*redis.Client, error) {
				return redis.NewClient(ctx, cfg.RedisURL, log)
			})
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		st.closers = append(st.closers, client.Close)
		st.checks["redis"] = client.Ping
		redisBookmarks := repository.NewRedisBookmarkRepository(client, log)
		st.bookmarks = redisBookmarks
		if cfg.BookmarkSweep > 0 {
			st.sweeper = worker.NewBookmarkSweeper(redisBookmarks, st.listings, log, cfg.BookmarkSweep)
		}
	}

	return st, nil
}
