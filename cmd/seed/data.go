package main

import (
	"time"

	"github.com/rentalconnect/rentalconnect/internal/domain"
)

type seedAccount struct {
	key     string
	account domain.Account
}

type seedListing struct {
	landlordKey string
	listing     domain.Listing
}

func intp(v int) *int { return &v }
func floatp(v float64) *float64 { return &v }
func boolp(v bool) *bool { return &v }
func datep(s string) *time.Time {
	t, _ := time.Parse(time.DateOnly, s)
	return &t
}

var landlords = []seedAccount{
	{"john", domain.Account{
		Email:     "john.landlord@example.com",
		FirstName: "John",
		LastName:  "Smith",
		Phone:     "555-0101",
		Bio:       "Experienced property owner with 10+ years in real estate",
	}},
	{"sarah", domain.Account{
		Email:     "sarah.landlord@example.com",
		FirstName: "Sarah",
		LastName:  "Johnson",
		Phone:     "555-0102",
		Bio:       "Professional property manager specializing in residential rentals",
	}},
	{"mike", domain.Account{
		Email:     "mike.landlord@example.com",
		FirstName: "Mike",
		LastName:  "Davis",
		Phone:     "555-0103",
		Bio:       "Family-owned properties, committed to quality housing",
	}},
}

var renters = []seedAccount{
	{"emma", domain.Account{
		Email:     "emma.renter@example.com",
		FirstName: "Emma",
		LastName:  "Wilson",
		Phone:     "555-0201",
		Bio:       "Software engineer working remotely. Organized, pays on time, looking for a long-term rental.",
		RenterProfile: &domain.RenterProfile{
			YearsOfExperience: intp(5),
			PreviousAddresses: []string{"456 Oak Street, San Francisco, CA (2021-2023)", "789 Pine Avenue, Berkeley, CA (2019-2021)"},
			EmploymentStatus:  "Full-time Software Engineer",
			MonthlyIncome:     floatp(8500),
			HasPets:           boolp(false),
			Smoker:            boolp(false),
			References: []domain.Reference{
				{Name: "Robert Johnson", Relationship: "Previous Landlord", Phone: "555-1234", Email: "robert.j@example.com"},
				{Name: "Sarah Martinez", Relationship: "Employer - Tech Lead", Phone: "555-5678"},
			},
			FeedbackCount: 12,
			Rating:        floatp(4.8),
		},
	}},
	{"alex", domain.Account{
		Email:     "alex.renter@example.com",
		FirstName: "Alex",
		LastName:  "Brown",
		Phone:     "555-0202",
		Bio:       "PhD candidate. Quiet and studious, with one well-behaved indoor cat.",
		RenterProfile: &domain.RenterProfile{
			YearsOfExperience: intp(3),
			PreviousAddresses: []string{"123 College Ave, Berkeley, CA (2021-Present)"},
			EmploymentStatus:  "Graduate Student & Teaching Assistant",
			MonthlyIncome:     floatp(3200),
			HasPets:           boolp(true),
			PetDetails:        "One small indoor cat, spayed and vaccinated",
			Smoker:            boolp(false),
			References: []domain.Reference{
				{Name: "Dr. Michael Chen", Relationship: "Academic Advisor", Phone: "555-9012"},
				{Name: "Jennifer Park", Relationship: "Current Landlord", Phone: "555-4567"},
			},
			FeedbackCount: 5,
			Rating:        floatp(4.6),
		},
	}},
	{"james", domain.Account{
		Email:     "james.renter@example.com",
		FirstName: "James",
		LastName:  "Taylor",
		Phone:     "555-0203",
		Bio:       "Freelance designer with eight years of Bay Area rental history and a perfect payment record.",
		RenterProfile: &domain.RenterProfile{
			YearsOfExperience: intp(8),
			PreviousAddresses: []string{"321 Market Street, San Francisco, CA (2020-2023)", "654 Valencia Street, San Francisco, CA (2018-2020)"},
			EmploymentStatus:  "Self-employed UX/UI Designer",
			MonthlyIncome:     floatp(6500),
			HasPets:           boolp(false),
			Smoker:            boolp(false),
			References: []domain.Reference{
				{Name: "Linda Garcia", Relationship: "Previous Landlord (3 years)", Phone: "555-3456"},
			},
			FeedbackCount: 18,
			Rating:        floatp(4.9),
		},
	}},
	{"maria", domain.Account{
		Email:     "maria.renter@example.com",
		FirstName: "Maria",
		LastName:  "Rodriguez",
		Phone:     "555-0204",
		Bio:       "Registered nurse on rotating shifts. Clean, quiet and respectful.",
		RenterProfile: &domain.RenterProfile{
			YearsOfExperience: intp(6),
			PreviousAddresses: []string{"234 Health Plaza, Oakland, CA (2020-Present)"},
			EmploymentStatus:  "Registered Nurse - Full-time",
			MonthlyIncome:     floatp(7800),
			HasPets:           boolp(false),
			Smoker:            boolp(false),
			References: []domain.Reference{
				{Name: "Dr. Patricia Lee", Relationship: "Nursing Supervisor", Phone: "555-2468"},
			},
			FeedbackCount: 9,
			Rating:        floatp(4.7),
		},
	}},
	{"sophia", domain.Account{
		Email:     "sophia.renter@example.com",
		FirstName: "Sophia",
		LastName:  "Martinez",
		Phone:     "555-0206",
		Bio:       "Elementary school teacher with a friendly, trained golden retriever.",
		RenterProfile: &domain.RenterProfile{
			YearsOfExperience: intp(4),
			PreviousAddresses: []string{"678 School District Ave, Palo Alto, CA (2020-Present)"},
			EmploymentStatus:  "Elementary School Teacher",
			MonthlyIncome:     floatp(5400),
			HasPets:           boolp(true),
			PetDetails:        "Golden Retriever, neutered and trained",
			Smoker:            boolp(false),
			References: []domain.Reference{
				{Name: "Susan Davis", Relationship: "School Principal", Phone: "555-3456"},
			},
			FeedbackCount: 7,
			Rating:        floatp(4.7),
		},
	}},
}

var listings = []seedListing{
	{"john", domain.Listing{
		Title:         "Modern Downtown Apartment",
		Description:   "Two-bedroom apartment downtown, walking distance to transit. Hardwood floors and in-unit laundry.",
		Address:       domain.Address{Street: "123 Main Street, Apt 4B", City: "San Francisco", State: "CA", ZipCode: "94102"},
		Price:         3200,
		Bedrooms:      2,
		Bathrooms:     2,
		SquareFeet:    intp(1100),
		PropertyType:  domain.PropertyApartment,
		Amenities:     []string{"Parking", "Laundry", "Gym", "Pet Friendly"},
		AvailableFrom: datep("2024-12-01"),
	}},
	{"john", domain.Listing{
		Title:        "Cozy Studio Near University",
		Description:  "Quiet studio close to campus and public transportation. Utilities included.",
		Address:      domain.Address{Street: "456 College Ave", City: "Berkeley", State: "CA", ZipCode: "94704"},
		Price:        1800,
		Bedrooms:     0,
		Bathrooms:    1,
		SquareFeet:   intp(450),
		PropertyType: domain.PropertyStudio,
		Amenities:    []string{"Utilities Included", "WiFi"},
	}},
	{"sarah", domain.Listing{
		Title:         "Spacious Family Home",
		Description:   "Four-bedroom house with a large backyard, updated kitchen and two-car garage.",
		Address:       domain.Address{Street: "789 Oak Street", City: "San Jose", State: "CA", ZipCode: "95112"},
		Price:         4500,
		Bedrooms:      4,
		Bathrooms:     3,
		SquareFeet:    intp(2400),
		PropertyType:  domain.PropertyHouse,
		Amenities:     []string{"Backyard", "Garage", "Dishwasher", "Pet Friendly"},
		AvailableFrom: datep("2024-11-15"),
	}},
	{"sarah", domain.Listing{
		Title:        "Luxury Condo with Bay Views",
		Description:  "Three-bedroom condo with panoramic bay views, pool and fitness center.",
		Address:      domain.Address{Street: "321 Waterfront Blvd, Unit 1205", City: "Oakland", State: "CA", ZipCode: "94607"},
		Price:        5200,
		Bedrooms:     3,
		Bathrooms:    2.5,
		SquareFeet:   intp(1800),
		PropertyType: domain.PropertyCondo,
		Amenities:    []string{"Pool", "Gym", "Concierge", "Parking", "Bay Views"},
	}},
	{"mike", domain.Listing{
		Title:        "Charming Townhouse",
		Description:  "Renovated three-bedroom townhouse with a private patio and attached garage.",
		Address:      domain.Address{Street: "555 Elm Street", City: "Palo Alto", State: "CA", ZipCode: "94301"},
		Price:        4200,
		Bedrooms:     3,
		Bathrooms:    2.5,
		SquareFeet:   intp(1650),
		PropertyType: domain.PropertyTownhouse,
		Amenities:    []string{"Garage", "Patio", "Dishwasher", "Laundry"},
	}},
	{"mike", domain.Listing{
		Title:         "Affordable 1-Bedroom Apartment",
		Description:   "Clean one-bedroom apartment with on-site laundry and parking.",
		Address:       domain.Address{Street: "888 Pine Street, Apt 2A", City: "San Francisco", State: "CA", ZipCode: "94109"},
		Price:         2400,
		Bedrooms:      1,
		Bathrooms:     1,
		SquareFeet:    intp(650),
		PropertyType:  domain.PropertyApartment,
		Amenities:     []string{"Laundry", "Parking"},
		AvailableFrom: datep("2024-12-15"),
	}},
}
