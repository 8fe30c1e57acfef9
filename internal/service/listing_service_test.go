package service

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rentalconnect/rentalconnect/internal/domain"
)

func TestCreateListing_LandlordOnly(t *testing.T) {
	f := newFixture(t)
	renter := f.register(t, "renter@example.com", domain.RoleRenter)

	_, err := f.listings.Create(context.Background(), renter, domain.ListingInput{
		Title:        "Loft",
		Address:      domain.Address{Street: "1", City: "Austin", State: "TX", ZipCode: "1"},
		Price:        1000,
		Bedrooms:     1,
		Bathrooms:    1,
		PropertyType: domain.PropertyStudio,
	})
	require.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.listings.Create(context.Background(), domain.Identity{}, domain.ListingInput{})
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestCreateListing_AppliesDefaults(t *testing.T) {
	f := newFixture(t)
	landlord := f.register(t, "owner@example.com", domain.RoleLandlord)

	l := f.createListing(t, landlord, "  Sunny flat ", "Austin", 1500)
	require.Equal(t, landlord.AccountID, l.LandlordID)
	require.Equal(t, "Sunny flat", l.Title)
	require.Equal(t, domain.DefaultCountry, l.Address.Country)
	require.True(t, l.Available)
	require.NotNil(t, l.Amenities)
	require.NotNil(t, l.Images)
	require.NotEmpty(t, l.ID)
}

func TestCreateListing_Validates(t *testing.T) {
	f := newFixture(t)
	landlord := f.register(t, "owner@example.com", domain.RoleLandlord)
	base := domain.ListingInput{
		Title:        "Flat",
		Description:  "desc",
		Address:      domain.Address{Street: "1 Main", City: "Austin", State: "TX", ZipCode: "78701"},
		Price:        1200,
		Bedrooms:     1,
		Bathrooms:    1,
		PropertyType: domain.PropertyCondo,
	}
	cases := map[string]func(in *domain.ListingInput){
		"missing title":  func(in *domain.ListingInput) { in.Title = " " },
		"negative price": func(in *domain.ListingInput) { in.Price = -1 },
		"bad type":       func(in *domain.ListingInput) { in.PropertyType = "castle" },
		"missing city":   func(in *domain.ListingInput) { in.Address.City = "" },
		"negative beds":  func(in *domain.ListingInput) { in.Bedrooms = -2 },
	}
	for name, edit := range cases {
		t.Run(name, func(t *testing.T) {
			in := base
			edit(&in)
			_, err := f.listings.Create(context.Background(), landlord, in)
			require.True(t, domain.IsValidation(err), "got %v", err)
		})
	}
}

func TestListListings_FiltersAndOrders(t *testing.T) {
	f := newFixture(t)
	landlord := f.register(t, "owner@example.com", domain.RoleLandlord)
	cheap := f.createListing(t, landlord, "Cheap", "Austin", 900)
	pricey := f.createListing(t, landlord, "Pricey", "Austin", 3000)
	f.createListing(t, landlord, "Elsewhere", "Dallas", 1000)

	hidden := f.createListing(t, landlord, "Hidden", "Austin", 1000)
	_, err := f.listings.Update(context.Background(), landlord, hidden.ID, domain.ListingPatch{Available: ptr(false)})
	require.NoError(t, err)

	got, err := f.listings.List(context.Background(), domain.ListingFilter{City: "austin"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, pricey.ID, got[0].ID, "newest first")
	require.Equal(t, cheap.ID, got[1].ID)
	require.NotNil(t, got[0].Landlord)
	require.Equal(t, "owner@example.com", got[0].Landlord.Email)
	require.Empty(t, got[0].Landlord.Bio)

	got, err = f.listings.List(context.Background(), domain.ListingFilter{MaxPrice: ptr(1000.0)})
	require.NoError(t, err)
	require.Len(t, got, 2)

	_, err = f.listings.List(context.Background(), domain.ListingFilter{MinPrice: ptr(-5.0)})
	require.True(t, domain.IsValidation(err))
}

func TestListListings_RejectsNonFinitePriceBounds(t *testing.T) {
	f := newFixture(t)
	for name, filter := range map[string]domain.ListingFilter{
		"nan min":  {MinPrice: ptr(math.NaN())},
		"nan max":  {MaxPrice: ptr(math.NaN())},
		"+inf max": {MaxPrice: ptr(math.Inf(1))},
		"-inf min": {MinPrice: ptr(math.Inf(-1))},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := f.listings.List(context.Background(), filter)
			require.True(t, domain.IsValidation(err), "got %v", err)
		})
	}
}

func TestGetListing_IncludesUnavailableAndBio(t *testing.T) {
	f := newFixture(t)
	landlord := f.register(t, "owner@example.com", domain.RoleLandlord)
	_, err := f.accounts.UpdateProfile(context.Background(), landlord, domain.ProfilePatch{Bio: ptr("hi")})
	require.NoError(t, err)

	l := f.createListing(t, landlord, "Flat", "Austin", 1000)
	_, err = f.listings.Update(context.Background(), landlord, l.ID, domain.ListingPatch{Available: ptr(false)})
	require.NoError(t, err)

	got, err := f.listings.Get(context.Background(), l.ID)
	require.NoError(t, err)
	require.False(t, got.Available)
	require.Equal(t, "hi", got.Landlord.Bio)

	_, err = f.listings.Get(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateListing_OwnerOnly(t *testing.T) {
	f := newFixture(t)
	owner := f.register(t, "owner@example.com", domain.RoleLandlord)
	other := f.register(t, "other@example.com", domain.RoleLandlord)
	l := f.createListing(t, owner, "Flat", "Austin", 1000)

	_, err := f.listings.Update(context.Background(), other, l.ID, domain.ListingPatch{Price: ptr(1.0)})
	require.ErrorIs(t, err, domain.ErrNotFound, "foreign listings look absent")

	got, err := f.listings.Update(context.Background(), owner, l.ID, domain.ListingPatch{
		Price: ptr(1100.0),
		City:  ptr("Round Rock"),
	})
	require.NoError(t, err)
	require.Equal(t, 1100.0, got.Price)
	require.Equal(t, "Round Rock", got.Address.City)
	require.Equal(t, owner.AccountID, got.LandlordID)

	_, err = f.listings.Update(context.Background(), owner, l.ID, domain.ListingPatch{Price: ptr(-1.0)})
	require.True(t, domain.IsValidation(err))
}

func TestDeleteListing_OwnerOnlyAndCascades(t *testing.T) {
	f := newFixture(t)
	owner := f.register(t, "owner@example.com", domain.RoleLandlord)
	other := f.register(t, "other@example.com", domain.RoleLandlord)
	renter := f.register(t, "renter@example.com", domain.RoleRenter)
	l := f.createListing(t, owner, "Flat", "Austin", 1000)
	require.NoError(t, f.bookmarks.Add(context.Background(), renter, l.ID))

	require.ErrorIs(t, f.listings.Delete(context.Background(), other, l.ID), domain.ErrNotFound)
	require.ErrorIs(t, f.listings.Delete(context.Background(), renter, l.ID), domain.ErrForbidden)

	require.NoError(t, f.listings.Delete(context.Background(), owner, l.ID))
	_, err := f.listings.Get(context.Background(), l.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	saved, err := f.bookmarks.List(context.Background(), renter)
	require.NoError(t, err)
	require.Empty(t, saved)
}
