package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/rentalconnect/rentalconnect/internal/domain"
	"github.com/rentalconnect/rentalconnect/internal/observability/metrics"
	"github.com/rentalconnect/rentalconnect/internal/security"
	"github.com/rentalconnect/rentalconnect/internal/security/audit"
)

// BookmarkService manages each account's saved-property set
type BookmarkService struct {
	bookmarks domain.BookmarkRepository
	listings  *ListingService
	repo      domain.ListingRepository
	authz     *security.AuthorizationService
	audit     *audit.Logger
	logger    *slog.Logger
}

// NewBookmarkService creates a new bookmark service
func NewBookmarkService(
	bookmarks domain.BookmarkRepository,
	listingRepo domain.ListingRepository,
	listings *ListingService,
	authz *security.AuthorizationService,
	auditLog *audit.Logger,
	logger *slog.Logger,
) *BookmarkService {
	if logger == nil {
		logger = slog.Default()
	}
	if authz == nil {
		authz = security.NewAuthorizationService(logger)
	}
	if auditLog == nil {
		auditLog = audit.NewLogger(logger)
	}
	return &BookmarkService{
		bookmarks: bookmarks,
		listings:  listings,
		repo:      listingRepo,
		authz:     authz,
		audit:     auditLog,
		logger:    logger,
	}
}

// List resolves the caller's saved set to current listings, in the store's
// order. Ids whose listing no longer exists are skipped.
func (s *BookmarkService) List(ctx context.Context, id domain.Identity) ([]*domain.Listing, error) {
	if err := s.authz.Require(id, security.PermSaveListings); err != nil {
		return nil, err
	}
	ids, err := s.bookmarks.ListIDs(ctx, id.AccountID)
	if err != nil {
		return nil, surface(s.logger, "list saved ids", err)
	}
	found, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, surface(s.logger, "resolve saved listings", err)
	}

	byID := make(map[string]*domain.Listing, len(found))
	for _, l := range found {
		byID[l.ID] = l
	}
	out := make([]*domain.Listing, 0, len(found))
	for _, listingID := range ids {
		if l, ok := byID[listingID]; ok {
			out = append(out, l)
		}
	}

	if s.listings != nil {
		if err := s.listings.attachLandlords(ctx, out, (*domain.PublicProfile).Contact); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Add saves listingID. A missing listing is NotFound and an existing entry
// is domain.ErrAlreadySaved.
func (s *BookmarkService) Add(ctx context.Context, id domain.Identity, listingID string) error {
	if err := s.authz.Require(id, security.PermSaveListings); err != nil {
		return err
	}
	if _, err := s.repo.GetByID(ctx, listingID); err != nil {
		metrics.ObserveBookmark("add", metrics.ResultRejected)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFound("property")
		}
		return surface(s.logger, "load listing", err)
	}

	if err := s.bookmarks.Add(ctx, id.AccountID, listingID); err != nil {
		if errors.Is(err, domain.ErrAlreadySaved) {
			metrics.ObserveBookmark("add", metrics.ResultRejected)
			return err
		}
		metrics.ObserveBookmark("add", metrics.ResultError)
		s.audit.LogBookmark(ctx, id.AccountID, "save", listingID, audit.StatusFailure)
		return surface(s.logger, "save property", err)
	}

	metrics.ObserveBookmark("add", metrics.ResultOK)
	s.audit.LogBookmark(ctx, id.AccountID, "save", listingID, audit.StatusSuccess)
	return nil
}

// Remove unsaves listingID. Removing an absent entry succeeds.
func (s *BookmarkService) Remove(ctx context.Context, id domain.Identity, listingID string) error {
	if err := s.authz.Require(id, security.PermSaveListings); err != nil {
		return err
	}
	if err := s.bookmarks.Remove(ctx, id.AccountID, listingID); err != nil {
		metrics.ObserveBookmark("remove", metrics.ResultError)
		return surface(s.logger, "unsave property", err)
	}
	metrics.ObserveBookmark("remove", metrics.ResultOK)
	s.audit.LogBookmark(ctx, id.AccountID, "unsave", listingID, audit.StatusSuccess)
	return nil
}

// Check reports whether listingID is in the caller's saved set
func (s *BookmarkService) Check(ctx context.Context, id domain.Identity, listingID string) (bool, error) {
	if err := s.authz.Require(id, security.PermSaveListings); err != nil {
		return false, err
	}
	saved, err := s.bookmarks.Exists(ctx, id.AccountID, listingID)
	if err != nil {
		return false, surface(s.logger, "check saved property", err)
	}
	return saved, nil
}
