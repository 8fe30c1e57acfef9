package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/rentalconnect/rentalconnect/internal/domain"
	"github.com/rentalconnect/rentalconnect/internal/security"
	"github.com/rentalconnect/rentalconnect/pkg/cache"
)

// AccountService serves profiles, the renter directory and the public
// account fields other components resolve by reference
type AccountService struct {
	accounts domain.AccountRepository
	authz    *security.AuthorizationService
	profiles *cache.Cache[*domain.PublicProfile]
	logger   *slog.Logger
}

// NewAccountService creates an account service. cacheTTL <= 0 disables the profile cache.
func NewAccountService(
	accounts domain.AccountRepository,
	authz *security.AuthorizationService,
	cacheTTL time.Duration,
	logger *slog.Logger,
) *AccountService {
	if logger == nil {
		logger = slog.Default()
	}
	if authz == nil {
		authz = security.NewAuthorizationService(logger)
	}
	return &AccountService{
		accounts: accounts,
		authz:    authz,
		profiles: cache.New[*domain.PublicProfile](cacheTTL),
		logger:   logger,
	}
}

// GetProfile returns the caller's own account
func (s *AccountService) GetProfile(ctx context.Context, id domain.Identity) (*domain.Account, error) {
	if id.AccountID == "" {
		return nil, domain.ErrUnauthenticated
	}
	account, err := s.accounts.GetByID(ctx, id.AccountID)
	if err != nil {
		return nil, surface(s.logger, "get profile", err)
	}
	return account, nil
}

// UpdateProfile applies the mutable fields of patch to the caller's account.
// Email and role are rejected; the renter sub-record is accepted only for renters.
func (s *AccountService) UpdateProfile(ctx context.Context, id domain.Identity, patch domain.ProfilePatch) (*domain.Account, error) {
	if err := s.authz.Require(id, security.PermEditProfile); err != nil {
		return nil, err
	}
	if patch.Email != nil {
		return nil, domain.Invalid("email", "email cannot be changed")
	}
	if patch.Role != nil {
		return nil, domain.Invalid("role", "role cannot be changed")
	}

	account, err := s.accounts.GetByID(ctx, id.AccountID)
	if err != nil {
		return nil, surface(s.logger, "load profile", err)
	}

	if patch.FirstName != nil {
		name := strings.TrimSpace(*patch.FirstName)
		if name == "" {
			return nil, domain.Invalid("firstName", "first name cannot be empty")
		}
		account.FirstName = name
	}
	if patch.LastName != nil {
		name := strings.TrimSpace(*patch.LastName)
		if name == "" {
			return nil, domain.Invalid("lastName", "last name cannot be empty")
		}
		account.LastName = name
	}
	if patch.Phone != nil {
		account.Phone = strings.TrimSpace(*patch.Phone)
	}
	if patch.Bio != nil {
		account.Bio = *patch.Bio
	}
	if patch.Avatar != nil {
		account.Avatar = *patch.Avatar
	}

	if patch.RenterProfile != nil {
		if account.Role != domain.RoleRenter || !s.authz.HasPermission(id.Role, security.PermEditRenterInfo) {
			return nil, domain.Invalid("renterProfile", "renter profile is only available to renters")
		}
		account.RenterProfile = mergeRenterProfile(account.RenterProfile, patch.RenterProfile)
		if err := account.RenterProfile.Validate(); err != nil {
			return nil, err
		}
	}

	if err := s.accounts.UpdateProfile(ctx, account); err != nil {
		return nil, surface(s.logger, "update profile", err)
	}
	s.profiles.Delete(account.ID)

	s.logger.Info("profile updated", slog.String("account_id", account.ID))
	return account, nil
}

// mergeRenterProfile replaces the renter-supplied fields and keeps the
// feedback aggregates, which accounts do not set on themselves
func mergeRenterProfile(current, incoming *domain.RenterProfile) *domain.RenterProfile {
	merged := *incoming
	merged.FeedbackCount = 0
	merged.Rating = nil
	if current != nil {
		merged.FeedbackCount = current.FeedbackCount
		merged.Rating = current.Rating
	}
	return &merged
}

// ListRenters returns every renter account, newest first
func (s *AccountService) ListRenters(ctx context.Context) ([]*domain.Account, error) {
	renters, err := s.accounts.ListByRole(ctx, domain.RoleRenter)
	if err != nil {
		return nil, surface(s.logger, "list renters", err)
	}
	return renters, nil
}

// GetRenter returns a renter by id. Landlord ids are NotFound.
func (s *AccountService) GetRenter(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("renter")
		}
		return nil, surface(s.logger, "get renter", err)
	}
	if account.Role != domain.RoleRenter {
		return nil, domain.NotFound("renter")
	}
	return account, nil
}

// Exists reports whether accountID refers to an account
func (s *AccountService) Exists(ctx context.Context, accountID string) (bool, error) {
	if _, err := s.PublicProfile(ctx, accountID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// PublicProfile resolves an account's shareable fields, served from cache when fresh
func (s *AccountService) PublicProfile(ctx context.Context, accountID string) (*domain.PublicProfile, error) {
	if p, ok := s.profiles.Get(accountID); ok {
		return p, nil
	}
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, surface(s.logger, "resolve account", err)
	}
	p := account.Public()
	s.profiles.Set(accountID, p)
	return p, nil
}

// PublicProfiles resolves many accounts at once. Missing accounts map to a
// profile carrying only the id so references are never dropped.
func (s *AccountService) PublicProfiles(ctx context.Context, ids []string) (map[string]*domain.PublicProfile, error) {
	out := make(map[string]*domain.PublicProfile, len(ids))
	for _, id := range ids {
		if _, done := out[id]; done || id == "" {
			continue
		}
		p, err := s.PublicProfile(ctx, id)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				return nil, err
			}
			p = &domain.PublicProfile{ID: id}
		}
		out[id] = p
	}
	return out, nil
}
