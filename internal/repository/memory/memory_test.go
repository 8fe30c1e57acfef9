package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rentalconnect/rentalconnect/internal/domain"
)

var (
	_ domain.AccountRepository  = (*AccountRepository)(nil)
	_ domain.ListingRepository  = (*ListingRepository)(nil)
	_ domain.MessageRepository  = (*MessageRepository)(nil)
	_ domain.BookmarkRepository = (*BookmarkRepository)(nil)
)

func TestAccounts_EmailUniqueCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	repo := New().Accounts()

	if err := repo.Create(ctx, &domain.Account{ID: "a1", Email: "user@example.com", Role: domain.RoleRenter}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	err := repo.Create(ctx, &domain.Account{ID: "a2", Email: "USER@Example.com", Role: domain.RoleRenter})
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	if _, err := repo.GetByID(ctx, "a2"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("duplicate must not be stored, got %v", err)
	}
	got, err := repo.GetByEmail(ctx, "User@Example.COM")
	if err != nil || got.ID != "a1" {
		t.Fatalf("expected a1 by case-insensitive email, got %+v, %v", got, err)
	}
}

func TestAccounts_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := New().Accounts()
	_ = repo.Create(ctx, &domain.Account{ID: "a1", Email: "a@example.com", FirstName: "A", Role: domain.RoleRenter})

	got, _ := repo.GetByID(ctx, "a1")
	got.FirstName = "mutated"

	again, _ := repo.GetByID(ctx, "a1")
	if again.FirstName != "A" {
		t.Fatalf("store state leaked through returned pointer")
	}
}

func TestListings_ListFiltersAndOrders(t *testing.T) {
	ctx := context.Background()
	repo := New().Listings()
	mk := func(id, city string, price float64, beds int, available bool) {
		_ = repo.Create(ctx, &domain.Listing{ID: id, LandlordID: "l1", Address: domain.Address{City: city}, Price: price, Bedrooms: beds, Available: available, PropertyType: domain.PropertyApartment})
	}
	mk("p1", "San Francisco", 1000, 2, true)
	mk("p2", "South San Francisco", 2000, 3, true)
	mk("p3", "Oakland", 1500, 2, true)
	mk("p4", "San Francisco", 1200, 2, false)

	lo, hi := 1000.0, 2000.0
	got, _ := repo.List(ctx, domain.ListingFilter{MinPrice: &lo, MaxPrice: &hi})
	if len(got) != 3 || got[0].ID != "p3" || got[2].ID != "p1" {
		t.Fatalf("expected p3,p2,p1 newest first, got %v", ids(got))
	}

	beds := 2
	got, _ = repo.List(ctx, domain.ListingFilter{City: "san francisco", Bedrooms: &beds})
	if len(got) != 1 || got[0].ID != "p1" {
		t.Fatalf("expected only p1, got %v", ids(got))
	}

	if _, err := repo.GetByID(ctx, "p4"); err != nil {
		t.Fatalf("unavailable listing must still resolve by id: %v", err)
	}
}

func TestListings_OwnerScopedMutation(t *testing.T) {
	ctx := context.Background()
	store := New()
	listings := store.Listings()
	bookmarks := store.Bookmarks()
	_ = listings.Create(ctx, &domain.Listing{ID: "p1", LandlordID: "owner", Title: "Old"})
	_ = bookmarks.Add(ctx, "r1", "p1")

	if err := listings.Update(ctx, &domain.Listing{ID: "p1", LandlordID: "intruder", Title: "New"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected NotFound for non-owner update, got %v", err)
	}
	if err := listings.Delete(ctx, "p1", "intruder"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected NotFound for non-owner delete, got %v", err)
	}
	if err := listings.Delete(ctx, "p1", "owner"); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if ok, _ := bookmarks.Exists(ctx, "r1", "p1"); ok {
		t.Fatalf("expected saved reference to cascade on delete")
	}
}

func TestBookmarks_SetSemantics(t *testing.T) {
	ctx := context.Background()
	repo := New().Bookmarks()

	if err := repo.Add(ctx, "r1", "p1"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := repo.Add(ctx, "r1", "p1"); !errors.Is(err, domain.ErrAlreadySaved) {
		t.Fatalf("expected ErrAlreadySaved, got %v", err)
	}
	if ids, _ := repo.ListIDs(ctx, "r1"); len(ids) != 1 {
		t.Fatalf("expected set size 1, got %v", ids)
	}
	for i := 0; i < 2; i++ {
		if err := repo.Remove(ctx, "r1", "absent"); err != nil {
			t.Fatalf("Remove absent #%d: %v", i, err)
		}
	}
	if ids, _ := repo.ListIDs(ctx, "r1"); len(ids) != 1 || ids[0] != "p1" {
		t.Fatalf("set must be unchanged, got %v", ids)
	}
}

func TestBookmarks_ConcurrentAddIsAtomic(t *testing.T) {
	ctx := context.Background()
	repo := New().Bookmarks()

	var wg sync.WaitGroup
	var ok, conflicts int32
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.Add(ctx, "r1", "p1")
			switch {
			case err == nil:
				atomic.AddInt32(&ok, 1)
			case errors.Is(err, domain.ErrAlreadySaved):
				atomic.AddInt32(&conflicts, 1)
			}
		}()
	}
	wg.Wait()

	if ok != 1 || conflicts != 31 {
		t.Fatalf("expected 1 success and 31 conflicts, got %d/%d", ok, conflicts)
	}
}

func TestMessages_InboxAndMarkRead(t *testing.T) {
	ctx := context.Background()
	repo := New().Messages()
	for i := 0; i < 3; i++ {
		_ = repo.Create(ctx, &domain.Message{ID: fmt.Sprintf("m%d", i), SenderID: "a", ReceiverID: "b", Content: "hi"})
	}
	_ = repo.Create(ctx, &domain.Message{ID: "other", SenderID: "c", ReceiverID: "d", Content: "x"})

	got, _ := repo.ListForAccount(ctx, "b")
	if len(got) != 3 || got[0].ID != "m2" || got[2].ID != "m0" {
		t.Fatalf("expected newest first m2..m0, got %v", messageIDs(got))
	}
	for i := 1; i < len(got); i++ {
		if !got[i-1].CreatedAt.After(got[i].CreatedAt) {
			t.Fatalf("inbox not strictly descending")
		}
	}

	if _, err := repo.MarkRead(ctx, "m0", "a"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("sender must not mark read, got %v", err)
	}
	m, err := repo.MarkRead(ctx, "m0", "b")
	if err != nil || !m.Read {
		t.Fatalf("receiver mark read failed: %+v, %v", m, err)
	}
}

func ids(ls []*domain.Listing) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.ID
	}
	return out
}

func messageIDs(ms []*domain.Message) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.ID
	}
	return out
}
