package handler

import (
	"log/slog"
	"net/http"

	"github.com/rentalconnect/rentalconnect/internal/domain"
	"github.com/rentalconnect/rentalconnect/internal/security/middleware"
	"github.com/rentalconnect/rentalconnect/internal/service"
)

// UpdateProfileRequest is the body of PUT /api/users/profile.
// Email and role are decoded only so they can be rejected.
type UpdateProfileRequest struct {
	Email         *string               `json:"email"`
	Role          *string               `json:"role"`
	FirstName     *string               `json:"firstName"`
	LastName      *string               `json:"lastName"`
	Phone         *string               `json:"phone"`
	Bio           *string               `json:"bio"`
	Avatar        *string               `json:"avatar"`
	RenterProfile *domain.RenterProfile `json:"renterProfile"`
}

// ProfileHandler serves the caller's own account
type ProfileHandler struct {
	accounts *service.AccountService
	logger   *slog.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(accounts *service.AccountService, logger *slog.Logger) *ProfileHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileHandler{accounts: accounts, logger: logger}
}

func identity(r *http.Request) (domain.Identity, error) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok || id.AccountID == "" {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	return id, nil
}

// Get handles GET /api/users/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	account, err := h.accounts.GetProfile(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, account)
}

// Update handles PUT /api/users/profile
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	account, err := h.accounts.UpdateProfile(r.Context(), id, domain.ProfilePatch{
		Email:         req.Email,
		Role:          req.Role,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Phone:         req.Phone,
		Bio:           req.Bio,
		Avatar:        req.Avatar,
		RenterProfile: req.RenterProfile,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, account)
}
