package handler

import (
	"log/slog"
	"net/http"

	"github.com/rentalconnect/rentalconnect/internal/service"
)

// RenterHandler serves the public renter directory
type RenterHandler struct {
	accounts *service.AccountService
	logger   *slog.Logger
}

// NewRenterHandler creates a new renter directory handler
func NewRenterHandler(accounts *service.AccountService, logger *slog.Logger) *RenterHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RenterHandler{accounts: accounts, logger: logger}
}

// List handles GET /api/renters
func (h *RenterHandler) List(w http.ResponseWriter, r *http.Request) {
	renters, err := h.accounts.ListRenters(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, renters)
}

// Get handles GET /api/renters/{id}
func (h *RenterHandler) Get(w http.ResponseWriter, r *http.Request) {
	renter, err := h.accounts.GetRenter(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, renter)
}
