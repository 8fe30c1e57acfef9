// Package memory provides mutex-guarded in-process repositories. Every call is
// atomic with respect to the others, and returned records are copies.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rentalconnect/rentalconnect/internal/domain"
)

// Store holds all in-memory state and vends the per-entity repositories
type Store struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
	listings map[string]*domain.Listing
	messages []*domain.Message
	saved    map[string][]string
	seq      int64
	now      func() time.Time
}

// New creates an empty store
func New() *Store {
	return &Store{
		accounts: map[string]*domain.Account{},
		listings: map[string]*domain.Listing{},
		saved:    map[string][]string{},
		now:      time.Now,
	}
}

// Accounts returns the account repository
func (s *Store) Accounts() *AccountRepository { return &AccountRepository{s: s} }

// Listings returns the listing repository
func (s *Store) Listings() *ListingRepository { return &ListingRepository{s: s} }

// Messages returns the message repository
func (s *Store) Messages() *MessageRepository { return &MessageRepository{s: s} }

// Bookmarks returns the bookmark repository
func (s *Store) Bookmarks() *BookmarkRepository { return &BookmarkRepository{s: s} }

// tick returns a strictly increasing timestamp so creation order is total
func (s *Store) tick() time.Time {
	s.seq++
	return s.now().Add(time.Duration(s.seq) * time.Nanosecond)
}

// AccountRepository implements domain.AccountRepository
type AccountRepository struct{ s *Store }

func (r *AccountRepository) Create(_ context.Context, a *domain.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.accounts {
		if strings.EqualFold(existing.Email, a.Email) {
			return domain.ErrDuplicateEmail
		}
	}
	now := r.s.tick()
	a.CreatedAt = now
	a.UpdatedAt = now
	r.s.accounts[a.ID] = copyAccount(a)
	return nil
}

func (r *AccountRepository) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.accounts[id]
	if !ok {
		return nil, domain.NotFound("account")
	}
	return copyAccount(a), nil
}

func (r *AccountRepository) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, a := range r.s.accounts {
		if strings.EqualFold(a.Email, email) {
			return copyAccount(a), nil
		}
	}
	return nil, domain.NotFound("account")
}

func (r *AccountRepository) UpdateProfile(_ context.Context, a *domain.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.accounts[a.ID]
	if !ok {
		return domain.NotFound("account")
	}
	updated := copyAccount(existing)
	updated.FirstName = a.FirstName
	updated.LastName = a.LastName
	updated.Phone = a.Phone
	updated.Bio = a.Bio
	updated.Avatar = a.Avatar
	updated.RenterProfile = copyRenterProfile(a.RenterProfile)
	updated.UpdatedAt = r.s.tick()
	r.s.accounts[a.ID] = updated
	a.UpdatedAt = updated.UpdatedAt
	return nil
}

func (r *AccountRepository) ListByRole(_ context.Context, role domain.Role) ([]*domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*domain.Account{}
	for _, a := range r.s.accounts {
		if a.Role == role {
			out = append(out, copyAccount(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ListingRepository implements domain.ListingRepository
type ListingRepository struct{ s *Store }

func (r *ListingRepository) Create(_ context.Context, l *domain.Listing) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.tick()
	l.CreatedAt = now
	l.UpdatedAt = now
	r.s.listings[l.ID] = copyListing(l)
	return nil
}

func (r *ListingRepository) GetByID(_ context.Context, id string) (*domain.Listing, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	l, ok := r.s.listings[id]
	if !ok {
		return nil, domain.NotFound("property")
	}
	return copyListing(l), nil
}

func (r *ListingRepository) GetByIDs(_ context.Context, ids []string) ([]*domain.Listing, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*domain.Listing{}
	for _, id := range ids {
		if l, ok := r.s.listings[id]; ok {
			out = append(out, copyListing(l))
		}
	}
	return out, nil
}

func (r *ListingRepository) List(_ context.Context, filter domain.ListingFilter) ([]*domain.Listing, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*domain.Listing{}
	for _, l := range r.s.listings {
		if filter.Matches(l) {
			out = append(out, copyListing(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *ListingRepository) Update(_ context.Context, l *domain.Listing) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.listings[l.ID]
	if !ok || existing.LandlordID != l.LandlordID {
		return domain.NotFound("property")
	}
	l.CreatedAt = existing.CreatedAt
	l.UpdatedAt = r.s.tick()
	r.s.listings[l.ID] = copyListing(l)
	return nil
}

// Delete removes the listing and drops it from every saved set
func (r *ListingRepository) Delete(_ context.Context, id, landlordID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.listings[id]
	if !ok || existing.LandlordID != landlordID {
		return domain.NotFound("property")
	}
	delete(r.s.listings, id)
	for account, ids := range r.s.saved {
		r.s.saved[account] = removeID(ids, id)
	}
	return nil
}

// MessageRepository implements domain.MessageRepository
type MessageRepository struct{ s *Store }

func (r *MessageRepository) Create(_ context.Context, m *domain.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m.CreatedAt = r.s.tick()
	cp := *m
	r.s.messages = append(r.s.messages, &cp)
	return nil
}

func (r *MessageRepository) ListForAccount(_ context.Context, accountID string) ([]*domain.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*domain.Message{}
	for i := len(r.s.messages) - 1; i >= 0; i-- {
		m := r.s.messages[i]
		if m.SenderID == accountID || m.ReceiverID == accountID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MessageRepository) MarkRead(_ context.Context, id, receiverID string) (*domain.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.messages {
		if m.ID == id && m.ReceiverID == receiverID {
			m.Read = true
			cp := *m
			return &cp, nil
		}
	}
	return nil, domain.NotFound("message")
}

// BookmarkRepository implements domain.BookmarkRepository
type BookmarkRepository struct{ s *Store }

func (r *BookmarkRepository) Add(_ context.Context, accountID, listingID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range r.s.saved[accountID] {
		if id == listingID {
			return domain.ErrAlreadySaved
		}
	}
	r.s.saved[accountID] = append(r.s.saved[accountID], listingID)
	return nil
}

func (r *BookmarkRepository) Remove(_ context.Context, accountID, listingID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.saved[accountID] = removeID(r.s.saved[accountID], listingID)
	return nil
}

func (r *BookmarkRepository) Exists(_ context.Context, accountID, listingID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, id := range r.s.saved[accountID] {
		if id == listingID {
			return true, nil
		}
	}
	return false, nil
}

func (r *BookmarkRepository) ListIDs(_ context.Context, accountID string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return append([]string{}, r.s.saved[accountID]...), nil
}

// Owners lists accounts with a non-empty saved set
func (r *BookmarkRepository) Owners(_ context.Context) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []string{}
	for account, ids := range r.s.saved {
		if len(ids) > 0 {
			out = append(out, account)
		}
	}
	sort.Strings(out)
	return out, nil
}

func removeID(ids []string, target string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

func copyAccount(a *domain.Account) *domain.Account {
	cp := *a
	cp.RenterProfile = copyRenterProfile(a.RenterProfile)
	return &cp
}

func copyRenterProfile(rp *domain.RenterProfile) *domain.RenterProfile {
	if rp == nil {
		return nil
	}
	cp := *rp
	cp.PreviousAddresses = append([]string(nil), rp.PreviousAddresses...)
	cp.References = append([]domain.Reference(nil), rp.References...)
	return &cp
}

func copyListing(l *domain.Listing) *domain.Listing {
	cp := *l
	cp.Landlord = nil
	cp.Amenities = append([]string{}, l.Amenities...)
	cp.Images = append([]string{}, l.Images...)
	return &cp
}
