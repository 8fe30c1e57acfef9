package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentalconnect/rentalconnect/internal/domain"
	"github.com/rentalconnect/rentalconnect/internal/repository/memory"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSweep_RemovesMissingListings(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Listings().Create(ctx, &domain.Listing{ID: "p1", LandlordID: "l1", Title: "Kept", Available: true}))

	bookmarks := store.Bookmarks()
	require.NoError(t, bookmarks.Add(ctx, "r1", "p1"))
	require.NoError(t, bookmarks.Add(ctx, "r1", "gone"))
	require.NoError(t, bookmarks.Add(ctx, "r2", "gone"))

	sweeper := NewBookmarkSweeper(bookmarks, store.Listings(), quietLogger(), 0)
	removed, err := sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	ids, err := bookmarks.ListIDs(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, ids)

	ids, err = bookmarks.ListIDs(ctx, "r2")
	require.NoError(t, err)
	assert.Empty(t, ids)

	removed, err = sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

type failingOwners struct {
	SweepableBookmarks
}

func (failingOwners) Owners(context.Context) ([]string, error) {
	return nil, errors.New("redis down")
}

func TestSweep_OwnersError(t *testing.T) {
	store := memory.New()
	sweeper := NewBookmarkSweeper(failingOwners{store.Bookmarks()}, store.Listings(), quietLogger(), 0)
	_, err := sweeper.Sweep(context.Background())
	require.Error(t, err)
}

func TestSweep_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := memory.New()
	require.NoError(t, store.Bookmarks().Add(ctx, "r1", "gone"))
	cancel()

	sweeper := NewBookmarkSweeper(store.Bookmarks(), store.Listings(), quietLogger(), 0)
	_, err := sweeper.Sweep(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
