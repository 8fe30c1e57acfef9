package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rentalconnect/rentalconnect/internal/dbx"
	"github.com/rentalconnect/rentalconnect/internal/domain"
)

// PostgresBookmarkRepository stores saved properties as (account, listing) rows.
// The composite primary key makes add-if-absent a single atomic insert.
type PostgresBookmarkRepository struct {
	db     dbx.DBTX
	logger *slog.Logger
}

// NewPostgresBookmarkRepository creates a new bookmark repository
func NewPostgresBookmarkRepository(db dbx.DBTX, logger *slog.Logger) *PostgresBookmarkRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresBookmarkRepository{db: db, logger: logger}
}

// Add inserts the pair, returning domain.ErrAlreadySaved when it already exists
func (r *PostgresBookmarkRepository) Add(ctx context.Context, accountID, listingID string) error {
	if !isUUID(listingID) {
		return domain.NotFound("property")
	}
	if !isUUID(accountID) {
		return domain.NotFound("account")
	}
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO saved_properties (account_id, listing_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		accountID, listingID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadySaved
		}
		return fmt.Errorf("failed to save property: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrAlreadySaved
	}
	return nil
}

// Remove deletes the pair. Removing an absent pair is not an error.
func (r *PostgresBookmarkRepository) Remove(ctx context.Context, accountID, listingID string) error {
	if !isUUID(accountID) || !isUUID(listingID) {
		return nil
	}
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM saved_properties WHERE account_id = $1 AND listing_id = $2`,
		accountID, listingID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove saved property: %w", err)
	}
	return nil
}

// Exists reports whether the pair is saved
func (r *PostgresBookmarkRepository) Exists(ctx context.Context, accountID, listingID string) (bool, error) {
	if !isUUID(accountID) || !isUUID(listingID) {
		return false, nil
	}
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM saved_properties WHERE account_id = $1 AND listing_id = $2)`,
		accountID, listingID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check saved property: %w", err)
	}
	return exists, nil
}

// ListIDs returns saved listing ids in the order they were saved
func (r *PostgresBookmarkRepository) ListIDs(ctx context.Context, accountID string) ([]string, error) {
	if !isUUID(accountID) {
		return []string{}, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT listing_id FROM saved_properties WHERE account_id = $1 ORDER BY saved_at, listing_id`,
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved properties: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan saved property: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SetStore is the subset of the Redis client used for saved-property sets
type SetStore interface {
	SAdd(ctx context.Context, key, member string) (bool, error)
	SRem(ctx context.Context, key, member string) error
	SIsMember(ctx context.Context, key, member string) (bool, error)
	SMembers(ctx context.Context, key string) ([]string, error)
	Keys(ctx context.Context, pattern string) ([]string, error)
}

// RedisBookmarkRepository keeps each account's saved set in a Redis set.
// SADD reports whether the member was new, so add-if-absent is atomic.
type RedisBookmarkRepository struct {
	store  SetStore
	logger *slog.Logger
}

// NewRedisBookmarkRepository creates a Redis-backed bookmark repository
func NewRedisBookmarkRepository(store SetStore, logger *slog.Logger) *RedisBookmarkRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisBookmarkRepository{store: store, logger: logger}
}

const savedPrefix = "saved:"

func savedKey(accountID string) string {
	return savedPrefix + accountID
}

// Add returns domain.ErrAlreadySaved when the listing is already a member
func (r *RedisBookmarkRepository) Add(ctx context.Context, accountID, listingID string) error {
	added, err := r.store.SAdd(ctx, savedKey(accountID), listingID)
	if err != nil {
		return fmt.Errorf("failed to save property: %w", err)
	}
	if !added {
		return domain.ErrAlreadySaved
	}
	return nil
}

// Remove is idempotent
func (r *RedisBookmarkRepository) Remove(ctx context.Context, accountID, listingID string) error {
	if err := r.store.SRem(ctx, savedKey(accountID), listingID); err != nil {
		return fmt.Errorf("failed to remove saved property: %w", err)
	}
	return nil
}

// Exists reports set membership
func (r *RedisBookmarkRepository) Exists(ctx context.Context, accountID, listingID string) (bool, error) {
	ok, err := r.store.SIsMember(ctx, savedKey(accountID), listingID)
	if err != nil {
		return false, fmt.Errorf("failed to check saved property: %w", err)
	}
	return ok, nil
}

// ListIDs returns members in Redis' natural set order
func (r *RedisBookmarkRepository) ListIDs(ctx context.Context, accountID string) ([]string, error) {
	ids, err := r.store.SMembers(ctx, savedKey(accountID))
	if err != nil {
		return nil, fmt.Errorf("failed to list saved properties: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// Owners lists the accounts that hold a saved set. Redis drops empty sets, so
// every key found has at least one member.
func (r *RedisBookmarkRepository) Owners(ctx context.Context) ([]string, error) {
	keys, err := r.store.Keys(ctx, savedPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("failed to scan saved sets: %w", err)
	}
	owners := make([]string, 0, len(keys))
	for _, k := range keys {
		owners = append(owners, strings.TrimPrefix(k, savedPrefix))
	}
	return owners, nil
}
