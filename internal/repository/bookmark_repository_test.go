package repository

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/rentalconnect/rentalconnect/internal/domain"
)

func TestPostgresBookmarkAdd(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresBookmarkRepository(db, nil)

	q := `INSERT INTO saved_properties \(account_id, listing_id\) VALUES \(\$1, \$2\) ON CONFLICT DO NOTHING`
	mock.ExpectExec(q).WithArgs(idRenter, idListing).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs(idRenter, idListing).WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Add(context.Background(), idRenter, idListing); err != nil {
		t.Fatalf("first Add error: %v", err)
	}
	err := repo.Add(context.Background(), idRenter, idListing)
	if !errors.Is(err, domain.ErrAlreadySaved) || !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrAlreadySaved conflict, got %v", err)
	}
}

func TestPostgresBookmarkRemoveAbsentSucceeds(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresBookmarkRepository(db, nil)

	mock.ExpectExec(`DELETE FROM saved_properties`).WithArgs(idRenter, idMissing).WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Remove(context.Background(), idRenter, idMissing); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
}

func TestPostgresBookmarkExistsAndList(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresBookmarkRepository(db, nil)

	mock.ExpectQuery(`SELECT EXISTS`).WithArgs(idRenter, idListing).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`SELECT listing_id FROM saved_properties WHERE account_id = \$1`).WithArgs(idRenter).
		WillReturnRows(sqlmock.NewRows([]string{"listing_id"}).AddRow(idListing).AddRow(idListing2))

	ok, err := repo.Exists(context.Background(), idRenter, idListing)
	if err != nil || !ok {
		t.Fatalf("expected saved, got %v, %v", ok, err)
	}
	ids, err := repo.ListIDs(context.Background(), idRenter)
	if err != nil || len(ids) != 2 || ids[0] != idListing {
		t.Fatalf("unexpected ids %v, %v", ids, err)
	}
}

type fakeSets struct {
	mu   sync.Mutex
	sets map[string]map[string]struct{}
	err  error
}

func newFakeSets() *fakeSets {
	return &fakeSets{sets: map[string]map[string]struct{}{}}
}

func (f *fakeSets) SAdd(_ context.Context, key, member string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	s, ok := f.sets[key]
	if !ok {
		s = map[string]struct{}{}
		f.sets[key] = s
	}
	if _, exists := s[member]; exists {
		return false, nil
	}
	s[member] = struct{}{}
	return true, nil
}

func (f *fakeSets) SRem(_ context.Context, key, member string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sets[key], member)
	return f.err
}

func (f *fakeSets) SIsMember(_ context.Context, key, member string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.sets[key][member]
	return ok, f.err
}

func (f *fakeSets) SMembers(_ context.Context, key string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for m := range f.sets[key] {
		out = append(out, m)
	}
	return out, f.err
}

func (f *fakeSets) Keys(_ context.Context, pattern string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	var out []string
	for k, members := range f.sets {
		if strings.HasPrefix(k, prefix) && len(members) > 0 {
			out = append(out, k)
		}
	}
	return out, f.err
}

func TestRedisBookmarkRepository(t *testing.T) {
	ctx := context.Background()
	sets := newFakeSets()
	repo := NewRedisBookmarkRepository(sets, nil)

	if err := repo.Add(ctx, "r1", "p1"); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if err := repo.Add(ctx, "r1", "p1"); !errors.Is(err, domain.ErrAlreadySaved) {
		t.Fatalf("expected ErrAlreadySaved, got %v", err)
	}
	if _, ok := sets.sets["saved:r1"]; !ok {
		t.Fatalf("expected per-account key saved:r1")
	}

	ids, err := repo.ListIDs(ctx, "r1")
	if err != nil || len(ids) != 1 {
		t.Fatalf("expected one id, got %v, %v", ids, err)
	}

	for i := 0; i < 2; i++ {
		if err := repo.Remove(ctx, "r1", "p1"); err != nil {
			t.Fatalf("Remove #%d error: %v", i, err)
		}
	}
	if ok, _ := repo.Exists(ctx, "r1", "p1"); ok {
		t.Fatalf("expected p1 removed")
	}
	ids, _ = repo.ListIDs(ctx, "r2")
	if ids == nil || len(ids) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", ids)
	}
}

func TestRedisBookmarkRepository_StoreError(t *testing.T) {
	sets := newFakeSets()
	sets.err = errors.New("connection refused")
	repo := NewRedisBookmarkRepository(sets, nil)

	err := repo.Add(context.Background(), "r1", "p1")
	if err == nil || errors.Is(err, domain.ErrAlreadySaved) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestRedisBookmarkRepository_Owners(t *testing.T) {
	ctx := context.Background()
	sets := newFakeSets()
	repo := NewRedisBookmarkRepository(sets, nil)

	_ = repo.Add(ctx, "r1", "p1")
	_ = repo.Add(ctx, "r2", "p1")
	_ = repo.Remove(ctx, "r2", "p1")
	sets.sets["session:x"] = map[string]struct{}{"y": {}}

	owners, err := repo.Owners(ctx)
	if err != nil {
		t.Fatalf("Owners error: %v", err)
	}
	if len(owners) != 1 || owners[0] != "r1" {
		t.Fatalf("expected [r1], got %v", owners)
	}
}
