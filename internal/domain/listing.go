package domain

import (
	"context"
	"time"
)

// PropertyType enumerates the kinds of rental unit
type PropertyType string

const (
	PropertyApartment PropertyType = "apartment"
	PropertyHouse     PropertyType = "house"
	PropertyCondo     PropertyType = "condo"
	PropertyTownhouse PropertyType = "townhouse"
	PropertyStudio    PropertyType = "studio"
)

// DefaultCountry is applied when a listing address omits the country
const DefaultCountry = "USA"

// Valid reports whether t is one of the enumerated property types
func (t PropertyType) Valid() bool {
	switch t {
	case PropertyApartment, PropertyHouse, PropertyCondo, PropertyTownhouse, PropertyStudio:
		return true
	default:
		return false
	}
}

// Address is the structured location of a listing
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// Listing represents a landlord-owned rental property
type Listing struct {
	ID            string         `json:"id"`
	LandlordID    string         `json:"landlordId"`
	Landlord      *PublicProfile `json:"landlord,omitempty"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Address       Address        `json:"address"`
	Price         float64        `json:"price"`
	Bedrooms      int            `json:"bedrooms"`
	Bathrooms     float64        `json:"bathrooms"`
	SquareFeet    *int           `json:"squareFeet,omitempty"`
	PropertyType  PropertyType   `json:"propertyType"`
	Amenities     []string       `json:"amenities"`
	Images        []string       `json:"images"`
	Available     bool           `json:"available"`
	AvailableFrom *time.Time     `json:"availableFrom,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// ListingInput is the payload accepted when creating a listing
type ListingInput struct {
	Title         string
	Description   string
	Address       Address
	Price         float64
	Bedrooms      int
	Bathrooms     float64
	SquareFeet    *int
	PropertyType  PropertyType
	Amenities     []string
	Images        []string
	Available     *bool
	AvailableFrom *time.Time
}

// ListingPatch carries the listing fields an owner may change; nil means unchanged
type ListingPatch struct {
	Title         *string
	Description   *string
	Street        *string
	City          *string
	State         *string
	ZipCode       *string
	Country       *string
	Price         *float64
	Bedrooms      *int
	Bathrooms     *float64
	SquareFeet    *int
	PropertyType  *PropertyType
	Amenities     []string
	Images        []string
	Available     *bool
	AvailableFrom *time.Time
}

// ListingFilter narrows the public directory query. Zero values do not constrain.
type ListingFilter struct {
	City         string
	MinPrice     *float64
	MaxPrice     *float64
	Bedrooms     *int
	PropertyType PropertyType
}

// Matches applies the filter to a single listing. Only available listings match.
func (f ListingFilter) Matches(l *Listing) bool {
	if !l.Available {
		return false
	}
	if f.City != "" && !containsFold(l.Address.City, f.City) {
		return false
	}
	if f.MinPrice != nil && l.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && l.Price > *f.MaxPrice {
		return false
	}
	if f.Bedrooms != nil && l.Bedrooms != *f.Bedrooms {
		return false
	}
	if f.PropertyType != "" && l.PropertyType != f.PropertyType {
		return false
	}
	return true
}

// ListingRepository defines data access for listings
type ListingRepository interface {
	Create(ctx context.Context, listing *Listing) error
	GetByID(ctx context.Context, id string) (*Listing, error)
	GetByIDs(ctx context.Context, ids []string) ([]*Listing, error)
	List(ctx context.Context, filter ListingFilter) ([]*Listing, error)
	Update(ctx context.Context, listing *Listing) error
	Delete(ctx context.Context, id, landlordID string) error
}
