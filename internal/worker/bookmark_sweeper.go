package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/rentalconnect/rentalconnect/internal/domain"
	"github.com/rentalconnect/rentalconnect/internal/observability/metrics"
)

// SweepableBookmarks is a bookmark store that can enumerate the accounts holding saved sets
type SweepableBookmarks interface {
	domain.BookmarkRepository
	Owners(ctx context.Context) ([]string, error)
}

// BookmarkSweeper periodically drops saved ids whose listing no longer exists.
// Stores without referential cascade (the Redis sets) accumulate these when a
// landlord deletes a listing.
type BookmarkSweeper struct {
	bookmarks SweepableBookmarks
	listings  domain.ListingRepository
	logger    *slog.Logger
	interval  time.Duration
}

// NewBookmarkSweeper creates a new sweeper
func NewBookmarkSweeper(bookmarks SweepableBookmarks, listings domain.ListingRepository, logger *slog.Logger, interval time.Duration) *BookmarkSweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &BookmarkSweeper{
		bookmarks: bookmarks,
		listings:  listings,
		logger:    logger,
		interval:  interval,
	}
}

// Start runs Sweep on every tick until ctx is cancelled
func (w *BookmarkSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("bookmark sweeper started", slog.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("bookmark sweeper stopped")
			return
		case <-ticker.C:
			if _, err := w.Sweep(ctx); err != nil {
				w.logger.Error("bookmark sweep failed", slog.String("error", err.Error()))
			}
		}
	}
}

// Sweep makes one pass over every saved set and returns how many stale ids it removed.
// A failure on one account is logged and the pass continues.
func (w *BookmarkSweeper) Sweep(ctx context.Context) (int, error) {
	owners, err := w.bookmarks.Owners(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, accountID := range owners {
		if ctx.Err() != nil {
			return removed, ctx.Err()
		}
		n, err := w.sweepAccount(ctx, accountID)
		removed += n
		if err != nil {
			w.logger.Warn("failed to sweep saved set",
				slog.String("account_id", accountID),
				slog.String("error", err.Error()),
			)
		}
	}

	if removed > 0 {
		w.logger.Info("pruned stale bookmarks", slog.Int("removed", removed), slog.Int("accounts", len(owners)))
	}
	return removed, nil
}

func (w *BookmarkSweeper) sweepAccount(ctx context.Context, accountID string) (int, error) {
	ids, err := w.bookmarks.ListIDs(ctx, accountID)
	if err != nil || len(ids) == 0 {
		return 0, err
	}
	found, err := w.listings.GetByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}
	live := make(map[string]struct{}, len(found))
	for _, l := range found {
		live[l.ID] = struct{}{}
	}

	removed := 0
	for _, id := range ids {
		if _, ok := live[id]; ok {
			continue
		}
		if err := w.bookmarks.Remove(ctx, accountID, id); err != nil {
			metrics.ObserveBookmark("prune", metrics.ResultError)
			return removed, err
		}
		metrics.ObserveBookmark("prune", metrics.ResultOK)
		removed++
	}
	return removed, nil
}
