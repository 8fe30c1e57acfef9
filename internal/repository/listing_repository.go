package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lib/pq"

	"github.com/rentalconnect/rentalconnect/internal/dbx"
	"github.com/rentalconnect/rentalconnect/internal/domain"
)

const listingColumns = `id, landlord_id, title, description, street, city, state, zip_code, country, price, bedrooms, bathrooms, square_feet, property_type, amenities, images, available, available_from, created_at, updated_at`

// PostgresListingRepository implements domain.ListingRepository using PostgreSQL
type PostgresListingRepository struct {
	db     dbx.DBTX
	logger *slog.Logger
}

// NewPostgresListingRepository creates a new listing repository
func NewPostgresListingRepository(db dbx.DBTX, logger *slog.Logger) *PostgresListingRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresListingRepository{db: db, logger: logger}
}

// Create inserts a listing
func (r *PostgresListingRepository) Create(ctx context.Context, l *domain.Listing) error {
	query := `
		INSERT INTO listings (id, landlord_id, title, description, street, city, state, zip_code, country,
			price, bedrooms, bathrooms, square_feet, property_type, amenities, images, available, available_from)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		l.ID,
		l.LandlordID,
		l.Title,
		l.Description,
		l.Address.Street,
		l.Address.City,
		l.Address.State,
		l.Address.ZipCode,
		l.Address.Country,
		l.Price,
		l.Bedrooms,
		l.Bathrooms,
		l.SquareFeet,
		string(l.PropertyType),
		pq.Array(l.Amenities),
		pq.Array(l.Images),
		l.Available,
		l.AvailableFrom,
	).Scan(&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		r.logger.Error("failed to create listing",
			slog.String("landlord_id", l.LandlordID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

// GetByID retrieves a listing regardless of availability
func (r *PostgresListingRepository) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	if !isUUID(id) {
		return nil, domain.NotFound("property")
	}
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`

	l, err := scanListing(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("property")
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return l, nil
}

// GetByIDs retrieves the listings that still exist among ids, in no particular order
func (r *PostgresListingRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Listing, error) {
	ids = uuidsOnly(ids)
	if len(ids) == 0 {
		return []*domain.Listing{}, nil
	}
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get listings: %w", err)
	}
	return collectListings(rows)
}

// List returns available listings matching filter, newest first
func (r *PostgresListingRepository) List(ctx context.Context, filter domain.ListingFilter) ([]*domain.Listing, error) {
	query, args := buildListQuery(filter)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to list listings", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	return collectListings(rows)
}

func buildListQuery(filter domain.ListingFilter) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + listingColumns + ` FROM listings WHERE available = TRUE`)
	args := []any{}
	idx := 1

	if filter.City != "" {
		fmt.Fprintf(&sb, " AND city ILIKE $%d", idx)
		args = append(args, "%"+escapeLike(filter.City)+"%")
		idx++
	}
	if filter.MinPrice != nil {
		fmt.Fprintf(&sb, " AND price >= $%d", idx)
		args = append(args, *filter.MinPrice)
		idx++
	}
	if filter.MaxPrice != nil {
		fmt.Fprintf(&sb, " AND price <= $%d", idx)
		args = append(args, *filter.MaxPrice)
		idx++
	}
	if filter.Bedrooms != nil {
		fmt.Fprintf(&sb, " AND bedrooms = $%d", idx)
		args = append(args, *filter.Bedrooms)
		idx++
	}
	if filter.PropertyType != "" {
		fmt.Fprintf(&sb, " AND property_type = $%d", idx)
		args = append(args, string(filter.PropertyType))
	}
	sb.WriteString(" ORDER BY created_at DESC")
	return sb.String(), args
}

// escapeLike makes user input match literally inside an ILIKE pattern
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// Update writes every mutable column of an owned listing
func (r *PostgresListingRepository) Update(ctx context.Context, l *domain.Listing) error {
	if !isUUID(l.ID) || !isUUID(l.LandlordID) {
		return domain.NotFound("property")
	}
	query := `
		UPDATE listings
		SET title = $1, description = $2, street = $3, city = $4, state = $5, zip_code = $6, country = $7,
			price = $8, bedrooms = $9, bathrooms = $10, square_feet = $11, property_type = $12,
			amenities = $13, images = $14, available = $15, available_from = $16, updated_at = NOW()
		WHERE id = $17 AND landlord_id = $18
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		l.Title,
		l.Description,
		l.Address.Street,
		l.Address.City,
		l.Address.State,
		l.Address.ZipCode,
		l.Address.Country,
		l.Price,
		l.Bedrooms,
		l.Bathrooms,
		l.SquareFeet,
		string(l.PropertyType),
		pq.Array(l.Amenities),
		pq.Array(l.Images),
		l.Available,
		l.AvailableFrom,
		l.ID,
		l.LandlordID,
	).Scan(&l.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFound("property")
		}
		return fmt.Errorf("failed to update listing: %w", err)
	}
	return nil
}

// Delete removes a listing owned by landlordID. Saved references cascade.
func (r *PostgresListingRepository) Delete(ctx context.Context, id, landlordID string) error {
	if !isUUID(id) || !isUUID(landlordID) {
		return domain.NotFound("property")
	}
	result, err := r.db.ExecContext(ctx, `DELETE FROM listings WHERE id = $1 AND landlord_id = $2`, id, landlordID)
	if err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return domain.NotFound("property")
	}
	return nil
}

func collectListings(rows *sql.Rows) ([]*domain.Listing, error) {
	defer rows.Close()

	listings := []*domain.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func scanListing(row rowScanner) (*domain.Listing, error) {
	l := &domain.Listing{}
	var propertyType string
	var squareFeet sql.NullInt64
	var availableFrom sql.NullTime

	err := row.Scan(
		&l.ID,
		&l.LandlordID,
		&l.Title,
		&l.Description,
		&l.Address.Street,
		&l.Address.City,
		&l.Address.State,
		&l.Address.ZipCode,
		&l.Address.Country,
		&l.Price,
		&l.Bedrooms,
		&l.Bathrooms,
		&squareFeet,
		&propertyType,
		pq.Array(&l.Amenities),
		pq.Array(&l.Images),
		&l.Available,
		&availableFrom,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	l.PropertyType = domain.PropertyType(propertyType)
	if squareFeet.Valid {
		n := int(squareFeet.Int64)
		l.SquareFeet = &n
	}
	if availableFrom.Valid {
		t := availableFrom.Time
		l.AvailableFrom = &t
	}
	if l.Amenities == nil {
		l.Amenities = []string{}
	}
	if l.Images == nil {
		l.Images = []string{}
	}
	return l, nil
}
