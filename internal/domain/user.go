package domain

import (
	"context"
	"strings"
	"time"
)

// Role is the account kind fixed at registration
type Role string

const (
	RoleLandlord Role = "landlord"
	RoleRenter   Role = "renter"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	return r == RoleLandlord || r == RoleRenter
}

// Identity is the caller derived from a verified token
type Identity struct {
	AccountID string
	Role      Role
}

// Account represents a registered landlord or renter
type Account struct {
	ID            string         `json:"id"`
	Email         string         `json:"email"`
	PasswordHash  string         `json:"-"`
	Role          Role           `json:"role"`
	FirstName     string         `json:"firstName"`
	LastName      string         `json:"lastName"`
	Phone         string         `json:"phone,omitempty"`
	Bio           string         `json:"bio,omitempty"`
	Avatar        string         `json:"avatar,omitempty"`
	Verified      bool           `json:"verified"`
	RenterProfile *RenterProfile `json:"renterProfile,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// RenterProfile is only present when Role is RoleRenter
type RenterProfile struct {
	YearsOfExperience *int        `json:"yearsOfExperience,omitempty"`
	PreviousAddresses []string    `json:"previousAddresses,omitempty"`
	EmploymentStatus  string      `json:"employmentStatus,omitempty"`
	MonthlyIncome     *float64    `json:"monthlyIncome,omitempty"`
	HasPets           *bool       `json:"hasPets,omitempty"`
	PetDetails        string      `json:"petDetails,omitempty"`
	Smoker            *bool       `json:"smoker,omitempty"`
	References        []Reference `json:"references,omitempty"`
	FeedbackCount     int         `json:"feedbackCount"`
	Rating            *float64    `json:"rating,omitempty"`
}

// Reference is a renter's contact vouching for them
type Reference struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
	Email        string `json:"email,omitempty"`
}

// ProfilePatch carries the fields a profile update may touch.
// Email and Role exist only so the update can reject them.
type ProfilePatch struct {
	Email         *string
	Role          *string
	FirstName     *string
	LastName      *string
	Phone         *string
	Bio           *string
	Avatar        *string
	RenterProfile *RenterProfile
}

// PublicProfile is the subset of an account shown next to listings and messages
type PublicProfile struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Bio       string `json:"bio,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
}

// AccountRepository defines data access for accounts
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	UpdateProfile(ctx context.Context, account *Account) error
	ListByRole(ctx context.Context, role Role) ([]*Account, error)
}

// Public projects the account onto its shareable fields
func (a *Account) Public() *PublicProfile {
	return &PublicProfile{
		ID:        a.ID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Email:     a.Email,
		Phone:     a.Phone,
		Bio:       a.Bio,
		Avatar:    a.Avatar,
	}
}

// Contact keeps the fields shown on listing cards: name, email and phone
func (p *PublicProfile) Contact() *PublicProfile {
	return &PublicProfile{ID: p.ID, FirstName: p.FirstName, LastName: p.LastName, Email: p.Email, Phone: p.Phone}
}

// ContactWithBio is Contact plus the bio, used on the listing detail view
func (p *PublicProfile) ContactWithBio() *PublicProfile {
	c := p.Contact()
	c.Bio = p.Bio
	return c
}

// Participant keeps the fields shown next to a message: name and avatar
func (p *PublicProfile) Participant() *PublicProfile {
	return &PublicProfile{ID: p.ID, FirstName: p.FirstName, LastName: p.LastName, Avatar: p.Avatar}
}

// MaxRating is the upper bound of a renter's aggregate rating
const MaxRating = 5.0

// Validate checks the renter sub-record's numeric ranges and references
func (rp *RenterProfile) Validate() error {
	if rp.YearsOfExperience != nil && *rp.YearsOfExperience < 0 {
		return Invalid("renterProfile.yearsOfExperience", "years of experience cannot be negative")
	}
	if rp.MonthlyIncome != nil && *rp.MonthlyIncome < 0 {
		return Invalid("renterProfile.monthlyIncome", "monthly income cannot be negative")
	}
	if rp.FeedbackCount < 0 {
		return Invalid("renterProfile.feedbackCount", "feedback count cannot be negative")
	}
	if rp.Rating != nil && (*rp.Rating < 0 || *rp.Rating > MaxRating) {
		return Invalid("renterProfile.rating", "rating must be between 0 and 5")
	}
	for _, ref := range rp.References {
		if strings.TrimSpace(ref.Name) == "" || strings.TrimSpace(ref.Relationship) == "" || strings.TrimSpace(ref.Phone) == "" {
			return Invalid("renterProfile.references", "each reference needs a name, relationship and phone")
		}
	}
	return nil
}
