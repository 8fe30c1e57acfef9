package handler

import (
	"log/slog"
	"net/http"

	"github.com/rentalconnect/rentalconnect/internal/service"
)

// SavedStatus is the body of GET /api/saved/check/{listingId}
type SavedStatus struct {
	Saved bool `json:"saved"`
}

// SavedHandler serves the caller's saved properties
type SavedHandler struct {
	bookmarks *service.BookmarkService
	logger    *slog.Logger
}

// NewSavedHandler creates a new saved-properties handler
func NewSavedHandler(bookmarks *service.BookmarkService, logger *slog.Logger) *SavedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SavedHandler{bookmarks: bookmarks, logger: logger}
}

// List handles GET /api/saved
func (h *SavedHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	listings, err := h.bookmarks.List(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, listings)
}

// Save handles POST /api/saved/{listingId}
func (h *SavedHandler) Save(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := h.bookmarks.Add(r.Context(), id, r.PathValue("listingId")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	saved := true
	writeJSON(w, h.logger, http.StatusOK, MessageResponse{Message: "Property saved successfully", Saved: &saved})
}

// Unsave handles DELETE /api/saved/{listingId}
func (h *SavedHandler) Unsave(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := h.bookmarks.Remove(r.Context(), id, r.PathValue("listingId")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	saved := false
	writeJSON(w, h.logger, http.StatusOK, MessageResponse{Message: "Property removed from saved", Saved: &saved})
}

// Check handles GET /api/saved/check/{listingId}
func (h *SavedHandler) Check(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	saved, err := h.bookmarks.Check(r.Context(), id, r.PathValue("listingId"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, SavedStatus{Saved: saved})
}
