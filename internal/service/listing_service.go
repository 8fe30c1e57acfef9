package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/rentalconnect/rentalconnect/internal/domain"
	"github.com/rentalconnect/rentalconnect/internal/observability/metrics"
	"github.com/rentalconnect/rentalconnect/internal/security"
	"github.com/rentalconnect/rentalconnect/internal/security/audit"
)

// ListingService is the property directory: public queries plus owner-only mutation
type ListingService struct {
	listings domain.ListingRepository
	accounts *AccountService
	authz    *security.AuthorizationService
	audit    *audit.Logger
	logger   *slog.Logger
	newID    func() string
}

// NewListingService creates a new listing service
func NewListingService(
	listings domain.ListingRepository,
	accounts *AccountService,
	authz *security.AuthorizationService,
	auditLog *audit.Logger,
	logger *slog.Logger,
) *ListingService {
	if logger == nil {
		logger = slog.Default()
	}
	if authz == nil {
		authz = security.NewAuthorizationService(logger)
	}
	if auditLog == nil {
		auditLog = audit.NewLogger(logger)
	}
	return &ListingService{
		listings: listings,
		accounts: accounts,
		authz:    authz,
		audit:    auditLog,
		logger:   logger,
		newID:    uuid.NewString,
	}
}

// List returns available listings matching filter, newest first, each with
// the landlord's contact fields
func (s *ListingService) List(ctx context.Context, filter domain.ListingFilter) ([]*domain.Listing, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}
	listings, err := s.listings.List(ctx, filter)
	if err != nil {
		return nil, surface(s.logger, "list listings", err)
	}
	if err := s.attachLandlords(ctx, listings, (*domain.PublicProfile).Contact); err != nil {
		return nil, err
	}
	return listings, nil
}

func validateFilter(f domain.ListingFilter) error {
	if err := priceBound("minPrice", f.MinPrice); err != nil {
		return err
	}
	if err := priceBound("maxPrice", f.MaxPrice); err != nil {
		return err
	}
	if f.Bedrooms != nil && *f.Bedrooms < 0 {
		return domain.Invalid("bedrooms", "bedrooms cannot be negative")
	}
	if f.PropertyType != "" && !f.PropertyType.Valid() {
		return domain.Invalid("propertyType", "unknown property type")
	}
	return nil
}

func priceBound(name string, v *float64) error {
	switch {
	case v == nil:
		return nil
	case math.IsNaN(*v) || math.IsInf(*v, 0):
		return domain.Invalid(name, name+" must be a finite number")
	case *v < 0:
		return domain.Invalid(name, name+" cannot be negative")
	}
	return nil
}

// Get returns a listing regardless of availability, with the landlord's contact fields and bio
func (s *ListingService) Get(ctx context.Context, id string) (*domain.Listing, error) {
	listing, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return nil, surface(s.logger, "get listing", err)
	}
	if err := s.attachLandlords(ctx, []*domain.Listing{listing}, (*domain.PublicProfile).ContactWithBio); err != nil {
		return nil, err
	}
	return listing, nil
}

// Create stores a listing owned by the calling landlord
func (s *ListingService) Create(ctx context.Context, id domain.Identity, in domain.ListingInput) (*domain.Listing, error) {
	if err := s.authz.RequireRole(id, domain.RoleLandlord); err != nil {
		metrics.ObserveListing("create", metrics.ResultRejected)
		return nil, err
	}

	listing := &domain.Listing{
		ID:            s.newID(),
		LandlordID:    id.AccountID,
		Title:         strings.TrimSpace(in.Title),
		Description:   strings.TrimSpace(in.Description),
		Address:       trimAddress(in.Address),
		Price:         in.Price,
		Bedrooms:      in.Bedrooms,
		Bathrooms:     in.Bathrooms,
		SquareFeet:    in.SquareFeet,
		PropertyType:  in.PropertyType,
		Amenities:     nonNil(in.Amenities),
		Images:        nonNil(in.Images),
		Available:     true,
		AvailableFrom: in.AvailableFrom,
	}
	if in.Available != nil {
		listing.Available = *in.Available
	}
	if listing.Address.Country == "" {
		listing.Address.Country = domain.DefaultCountry
	}
	if err := validateListing(listing); err != nil {
		metrics.ObserveListing("create", metrics.ResultRejected)
		return nil, err
	}

	if err := s.listings.Create(ctx, listing); err != nil {
		metrics.ObserveListing("create", metrics.ResultError)
		s.audit.LogListing(ctx, id.AccountID, "create", listing.ID, audit.StatusFailure, err.Error())
		return nil, surface(s.logger, "create listing", err)
	}

	metrics.ObserveListing("create", metrics.ResultOK)
	s.audit.LogListing(ctx, id.AccountID, "create", listing.ID, audit.StatusSuccess, "")
	if err := s.attachLandlords(ctx, []*domain.Listing{listing}, (*domain.PublicProfile).Contact); err != nil {
		return nil, err
	}
	return listing, nil
}

// Update applies patch to a listing the caller owns. A listing owned by
// someone else is reported exactly like a missing one.
func (s *ListingService) Update(ctx context.Context, id domain.Identity, listingID string, patch domain.ListingPatch) (*domain.Listing, error) {
	if err := s.authz.RequireRole(id, domain.RoleLandlord); err != nil {
		metrics.ObserveListing("update", metrics.ResultRejected)
		return nil, err
	}

	listing, err := s.owned(ctx, id, listingID)
	if err != nil {
		metrics.ObserveListing("update", metrics.ResultRejected)
		return nil, err
	}

	applyListingPatch(listing, patch)
	if err := validateListing(listing); err != nil {
		metrics.ObserveListing("update", metrics.ResultRejected)
		return nil, err
	}

	if err := s.listings.Update(ctx, listing); err != nil {
		metrics.ObserveListing("update", metrics.ResultError)
		s.audit.LogListing(ctx, id.AccountID, "update", listingID, audit.StatusFailure, err.Error())
		return nil, surface(s.logger, "update listing", err)
	}

	metrics.ObserveListing("update", metrics.ResultOK)
	s.audit.LogListing(ctx, id.AccountID, "update", listingID, audit.StatusSuccess, "")
	if err := s.attachLandlords(ctx, []*domain.Listing{listing}, (*domain.PublicProfile).Contact); err != nil {
		return nil, err
	}
	return listing, nil
}

// Delete removes a listing the caller owns
func (s *ListingService) Delete(ctx context.Context, id domain.Identity, listingID string) error {
	if err := s.authz.RequireRole(id, domain.RoleLandlord); err != nil {
		metrics.ObserveListing("delete", metrics.ResultRejected)
		return err
	}

	if err := s.listings.Delete(ctx, listingID, id.AccountID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.ObserveListing("delete", metrics.ResultRejected)
			return domain.NotFound("property")
		}
		metrics.ObserveListing("delete", metrics.ResultError)
		s.audit.LogListing(ctx, id.AccountID, "delete", listingID, audit.StatusFailure, err.Error())
		return surface(s.logger, "delete listing", err)
	}

	metrics.ObserveListing("delete", metrics.ResultOK)
	s.audit.LogListing(ctx, id.AccountID, "delete", listingID, audit.StatusSuccess, "")
	return nil
}

func (s *ListingService) owned(ctx context.Context, id domain.Identity, listingID string) (*domain.Listing, error) {
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("property")
		}
		return nil, surface(s.logger, "load listing", err)
	}
	if listing.LandlordID != id.AccountID {
		return nil, domain.NotFound("property")
	}
	return listing, nil
}

func (s *ListingService) attachLandlords(ctx context.Context, listings []*domain.Listing, project func(*domain.PublicProfile) *domain.PublicProfile) error {
	if s.accounts == nil || len(listings) == 0 {
		return nil
	}
	ids := make([]string, 0, len(listings))
	for _, l := range listings {
		ids = append(ids, l.LandlordID)
	}
	profiles, err := s.accounts.PublicProfiles(ctx, ids)
	if err != nil {
		return err
	}
	for _, l := range listings {
		if p, ok := profiles[l.LandlordID]; ok {
			l.Landlord = project(p)
		}
	}
	return nil
}

func applyListingPatch(l *domain.Listing, p domain.ListingPatch) {
	if p.Title != nil {
		l.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		l.Description = strings.TrimSpace(*p.Description)
	}
	if p.Street != nil {
		l.Address.Street = strings.TrimSpace(*p.Street)
	}
	if p.City != nil {
		l.Address.City = strings.TrimSpace(*p.City)
	}
	if p.State != nil {
		l.Address.State = strings.TrimSpace(*p.State)
	}
	if p.ZipCode != nil {
		l.Address.ZipCode = strings.TrimSpace(*p.ZipCode)
	}
	if p.Country != nil {
		l.Address.Country = strings.TrimSpace(*p.Country)
		if l.Address.Country == "" {
			l.Address.Country = domain.DefaultCountry
		}
	}
	if p.Price != nil {
		l.Price = *p.Price
	}
	if p.Bedrooms != nil {
		l.Bedrooms = *p.Bedrooms
	}
	if p.Bathrooms != nil {
		l.Bathrooms = *p.Bathrooms
	}
	if p.SquareFeet != nil {
		l.SquareFeet = p.SquareFeet
	}
	if p.PropertyType != nil {
		l.PropertyType = *p.PropertyType
	}
	if p.Amenities != nil {
		l.Amenities = p.Amenities
	}
	if p.Images != nil {
		l.Images = p.Images
	}
	if p.Available != nil {
		l.Available = *p.Available
	}
	if p.AvailableFrom != nil {
		l.AvailableFrom = p.AvailableFrom
	}
}

func validateListing(l *domain.Listing) error {
	switch {
	case l.Title == "":
		return domain.Invalid("title", "title is required")
	case l.Description == "":
		return domain.Invalid("description", "description is required")
	case l.Address.Street == "":
		return domain.Invalid("address.street", "street is required")
	case l.Address.City == "":
		return domain.Invalid("address.city", "city is required")
	case l.Address.State == "":
		return domain.Invalid("address.state", "state is required")
	case l.Address.ZipCode == "":
		return domain.Invalid("address.zipCode", "zip code is required")
	case l.Price <= 0:
		return domain.Invalid("price", "price must be positive")
	case l.Bedrooms < 0:
		return domain.Invalid("bedrooms", "bedrooms cannot be negative")
	case l.Bathrooms <= 0:
		return domain.Invalid("bathrooms", "bathrooms must be positive")
	case l.SquareFeet != nil && *l.SquareFeet <= 0:
		return domain.Invalid("squareFeet", "square feet must be positive")
	case !l.PropertyType.Valid():
		return domain.Invalid("propertyType", "property type must be one of apartment, house, condo, townhouse, studio")
	}
	return nil
}

func trimAddress(a domain.Address) domain.Address {
	return domain.Address{
		Street:  strings.TrimSpace(a.Street),
		City:    strings.TrimSpace(a.City),
		State:   strings.TrimSpace(a.State),
		ZipCode: strings.TrimSpace(a.ZipCode),
		Country: strings.TrimSpace(a.Country),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
