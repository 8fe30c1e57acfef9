package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rentalconnect/rentalconnect/internal/domain"
	"github.com/rentalconnect/rentalconnect/internal/repository/memory"
	"github.com/rentalconnect/rentalconnect/internal/security/auth"
)

type fixture struct {
	store     *memory.Store
	auth      *AuthService
	accounts  *AccountService
	listings  *ListingService
	bookmarks *BookmarkService
	messages  *MessageService
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFixture(t *testing.T, opts ...MessageOption) *fixture {
	t.Helper()
	log := quietLogger()
	store := memory.New()

	hasher, err := auth.NewHasher(bcrypt.MinCost)
	require.NoError(t, err)
	tokens, err := auth.NewTokenManager("test-secret", "rentalconnect-test", time.Hour)
	require.NoError(t, err)

	accounts := NewAccountService(store.Accounts(), nil, time.Minute, log)
	listings := NewListingService(store.Listings(), accounts, nil, nil, log)
	return &fixture{
		store:     store,
		auth:      NewAuthService(store.Accounts(), hasher, tokens, log),
		accounts:  accounts,
		listings:  listings,
		bookmarks: NewBookmarkService(store.Bookmarks(), store.Listings(), listings, nil, nil, log),
		messages:  NewMessageService(store.Messages(), store.Listings(), accounts, nil, nil, log, opts...),
	}
}

func (f *fixture) register(t *testing.T, email string, role domain.Role) domain.Identity {
	t.Helper()
	res, err := f.auth.Register(context.Background(), RegisterInput{
		Email:     email,
		Password:  "password123",
		Role:      role,
		FirstName: "Test",
		LastName:  string(role),
	})
	require.NoError(t, err)
	return domain.Identity{AccountID: res.User.ID, Role: res.User.Role}
}

func (f *fixture) createListing(t *testing.T, owner domain.Identity, title, city string, price float64) *domain.Listing {
	t.Helper()
	l, err := f.listings.Create(context.Background(), owner, domain.ListingInput{
		Title:        title,
		Description:  "A place to live",
		Address:      domain.Address{Street: "1 Main St", City: city, State: "TX", ZipCode: "78701"},
		Price:        price,
		Bedrooms:     2,
		Bathrooms:    1.5,
		PropertyType: domain.PropertyApartment,
	})
	require.NoError(t, err)
	return l
}

func ptr[T any](v T) *T { return &v }
