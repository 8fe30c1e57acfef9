package security

import (
	"log/slog"

	"github.com/rentalconnect/rentalconnect/internal/domain"
)

// Permission represents an action permission
type Permission string

const (
	PermManageListings Permission = "manage_listings"
	PermSaveListings   Permission = "save_listings"
	PermSendMessages   Permission = "send_messages"
	PermEditProfile    Permission = "edit_profile"
	PermEditRenterInfo Permission = "edit_renter_profile"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[domain.Role][]Permission{
	domain.RoleLandlord: {
		PermManageListings,
		PermSaveListings,
		PermSendMessages,
		PermEditProfile,
	},
	domain.RoleRenter: {
		PermSaveListings,
		PermSendMessages,
		PermEditProfile,
		PermEditRenterInfo,
	},
}

// AuthorizationService handles role checks for protected operations.
// Ownership is checked by each operation against its own resource.
type AuthorizationService struct {
	logger *slog.Logger
}

// NewAuthorizationService creates a new authorization service
func NewAuthorizationService(logger *slog.Logger) *AuthorizationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthorizationService{
		logger: logger,
	}
}

// HasPermission reports whether role grants perm
func (as *AuthorizationService) HasPermission(role domain.Role, perm Permission) bool {
	for _, p := range RolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}

// RequireRole returns domain.ErrUnauthenticated for an empty identity and
// domain.ErrForbidden when the caller's role differs from role
func (as *AuthorizationService) RequireRole(id domain.Identity, role domain.Role) error {
	if id.AccountID == "" {
		return domain.ErrUnauthenticated
	}
	if id.Role != role {
		as.logger.Warn("role check failed",
			slog.String("account_id", id.AccountID),
			slog.String("role", string(id.Role)),
			slog.String("required_role", string(role)),
		)
		return domain.ErrForbidden
	}
	return nil
}

// Require returns domain.ErrForbidden when the caller's role lacks perm
func (as *AuthorizationService) Require(id domain.Identity, perm Permission) error {
	if id.AccountID == "" {
		return domain.ErrUnauthenticated
	}
	if !as.HasPermission(id.Role, perm) {
		as.logger.Warn("permission denied",
			slog.String("account_id", id.AccountID),
			slog.String("role", string(id.Role)),
			slog.String("permission", string(perm)),
		)
		return domain.ErrForbidden
	}
	return nil
}
