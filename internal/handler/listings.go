package handler

import (
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rentalconnect/rentalconnect/internal/domain"
	"github.com/rentalconnect/rentalconnect/internal/service"
)

// ListingRequest is the body of POST /api/properties
type ListingRequest struct {
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Address       domain.Address `json:"address"`
	Price         float64        `json:"price"`
	Bedrooms      int            `json:"bedrooms"`
	Bathrooms     float64        `json:"bathrooms"`
	SquareFeet    *int           `json:"squareFeet"`
	PropertyType  string         `json:"propertyType"`
	Amenities     []string       `json:"amenities"`
	Images        []string       `json:"images"`
	Available     *bool          `json:"available"`
	AvailableFrom *time.Time     `json:"availableFrom"`
}

// AddressPatch carries the address fields of a listing update
type AddressPatch struct {
	Street  *string `json:"street"`
	City    *string `json:"city"`
	State   *string `json:"state"`
	ZipCode *string `json:"zipCode"`
	Country *string `json:"country"`
}

// ListingPatchRequest is the body of PUT /api/properties/{id}. Absent fields are unchanged.
type ListingPatchRequest struct {
	Title         *string       `json:"title"`
	Description   *string       `json:"description"`
	Address       *AddressPatch `json:"address"`
	Price         *float64      `json:"price"`
	Bedrooms      *int          `json:"bedrooms"`
	Bathrooms     *float64      `json:"bathrooms"`
	SquareFeet    *int          `json:"squareFeet"`
	PropertyType  *string       `json:"propertyType"`
	Amenities     []string      `json:"amenities"`
	Images        []string      `json:"images"`
	Available     *bool         `json:"available"`
	AvailableFrom *time.Time    `json:"availableFrom"`
}

func (p ListingPatchRequest) toPatch() domain.ListingPatch {
	patch := domain.ListingPatch{
		Title:         p.Title,
		Description:   p.Description,
		Price:         p.Price,
		Bedrooms:      p.Bedrooms,
		Bathrooms:     p.Bathrooms,
		SquareFeet:    p.SquareFeet,
		Amenities:     p.Amenities,
		Images:        p.Images,
		Available:     p.Available,
		AvailableFrom: p.AvailableFrom,
	}
	if p.PropertyType != nil {
		t := domain.PropertyType(*p.PropertyType)
		patch.PropertyType = &t
	}
	if a := p.Address; a != nil {
		patch.Street = a.Street
		patch.City = a.City
		patch.State = a.State
		patch.ZipCode = a.ZipCode
		patch.Country = a.Country
	}
	return patch
}

// ListingHandler serves the property directory
type ListingHandler struct {
	listings *service.ListingService
	logger   *slog.Logger
}

// NewListingHandler creates a new listing handler
func NewListingHandler(listings *service.ListingService, logger *slog.Logger) *ListingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ListingHandler{listings: listings, logger: logger}
}

// List handles GET /api/properties
// Query: city, minPrice, maxPrice, bedrooms, propertyType
func (h *ListingHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListingFilter(r.URL.Query())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	listings, err := h.listings.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, listings)
}

func parseListingFilter(q url.Values) (domain.ListingFilter, error) {
	filter := domain.ListingFilter{
		City:         strings.TrimSpace(q.Get("city")),
		PropertyType: domain.PropertyType(strings.TrimSpace(q.Get("propertyType"))),
	}
	var err error
	if filter.MinPrice, err = floatParam(q, "minPrice"); err != nil {
		return filter, err
	}
	if filter.MaxPrice, err = floatParam(q, "maxPrice"); err != nil {
		return filter, err
	}
	if v := strings.TrimSpace(q.Get("bedrooms")); v != "" {
		n, convErr := strconv.Atoi(v)
		if convErr != nil {
			return filter, domain.Invalid("bedrooms", "bedrooms must be an integer")
		}
		filter.Bedrooms = &n
	}
	return filter, nil
}

func floatParam(q url.Values, name string) (*float64, error) {
	v := strings.TrimSpace(q.Get(name))
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, domain.Invalid(name, name+" must be a number")
	}
	return &f, nil
}

// Get handles GET /api/properties/{id}
func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	listing, err := h.listings.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, listing)
}

// Create handles POST /api/properties
func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req ListingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	listing, err := h.listings.Create(r.Context(), id, domain.ListingInput{
		Title:         req.Title,
		Description:   req.Description,
		Address:       req.Address,
		Price:         req.Price,
		Bedrooms:      req.Bedrooms,
		Bathrooms:     req.Bathrooms,
		SquareFeet:    req.SquareFeet,
		PropertyType:  domain.PropertyType(req.PropertyType),
		Amenities:     req.Amenities,
		Images:        req.Images,
		Available:     req.Available,
		AvailableFrom: req.AvailableFrom,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, listing)
}

// Update handles PUT /api/properties/{id}
func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req ListingPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	listing, err := h.listings.Update(r.Context(), id, r.PathValue("id"), req.toPatch())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, listing)
}

// Delete handles DELETE /api/properties/{id}
func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := h.listings.Delete(r.Context(), id, r.PathValue("id")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, MessageResponse{Message: "Property deleted"})
}
