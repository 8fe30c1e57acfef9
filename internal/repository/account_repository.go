package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rentalconnect/rentalconnect/internal/dbx"
	"github.com/rentalconnect/rentalconnect/internal/domain"
)

const accountColumns = `id, email, password_hash, role, first_name, last_name, phone, bio, avatar, verified, renter_profile, created_at, updated_at`

// PostgresAccountRepository implements domain.AccountRepository using PostgreSQL
type PostgresAccountRepository struct {
	db     dbx.DBTX
	logger *slog.Logger
}

// NewPostgresAccountRepository creates a new account repository
func NewPostgresAccountRepository(db dbx.DBTX, logger *slog.Logger) *PostgresAccountRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAccountRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new account. A taken email (any case) yields domain.ErrDuplicateEmail.
func (r *PostgresAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	profile, err := marshalRenterProfile(account.RenterProfile)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO accounts (id, email, password_hash, role, first_name, last_name, phone, bio, avatar, verified, renter_profile)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`

	err = r.db.QueryRowContext(ctx, query,
		account.ID,
		account.Email,
		account.PasswordHash,
		string(account.Role),
		account.FirstName,
		account.LastName,
		account.Phone,
		account.Bio,
		account.Avatar,
		account.Verified,
		profile,
	).Scan(&account.CreatedAt, &account.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEmail
		}
		r.logger.Error("failed to create account",
			slog.String("email", account.Email),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetByID retrieves an account by ID
func (r *PostgresAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if !isUUID(id) {
		return nil, domain.NotFound("account")
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("account")
		}
		r.logger.Error("failed to get account by id",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return account, nil
}

// GetByEmail retrieves an account by email, compared case-insensitively
func (r *PostgresAccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE LOWER(email) = LOWER($1)`

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("account")
		}
		return nil, fmt.Errorf("failed to get account by email: %w", err)
	}

	return account, nil
}

// UpdateProfile persists the mutable profile fields. Email, role and password are never written.
func (r *PostgresAccountRepository) UpdateProfile(ctx context.Context, account *domain.Account) error {
	if !isUUID(account.ID) {
		return domain.NotFound("account")
	}
	profile, err := marshalRenterProfile(account.RenterProfile)
	if err != nil {
		return err
	}

	query := `
		UPDATE accounts
		SET first_name = $1, last_name = $2, phone = $3, bio = $4, avatar = $5, renter_profile = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`

	err = r.db.QueryRowContext(ctx, query,
		account.FirstName,
		account.LastName,
		account.Phone,
		account.Bio,
		account.Avatar,
		profile,
		account.ID,
	).Scan(&account.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFound("account")
		}
		return fmt.Errorf("failed to update account: %w", err)
	}

	return nil
}

// ListByRole lists accounts with the given role, newest first
func (r *PostgresAccountRepository) ListByRole(ctx context.Context, role domain.Role) ([]*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE role = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, string(role))
	if err != nil {
		r.logger.Error("failed to list accounts by role",
			slog.String("role", string(role)),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	accounts := []*domain.Account{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	account := &domain.Account{}
	var role string
	var profile []byte

	err := row.Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&role,
		&account.FirstName,
		&account.LastName,
		&account.Phone,
		&account.Bio,
		&account.Avatar,
		&account.Verified,
		&profile,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	account.Role = domain.Role(role)

	if len(profile) > 0 {
		rp := &domain.RenterProfile{}
		if err := json.Unmarshal(profile, rp); err != nil {
			return nil, fmt.Errorf("failed to decode renter profile: %w", err)
		}
		account.RenterProfile = rp
	}

	return account, nil
}

func marshalRenterProfile(rp *domain.RenterProfile) (any, error) {
	if rp == nil {
		return nil, nil
	}
	b, err := json.Marshal(rp)
	if err != nil {
		return nil, fmt.Errorf("failed to encode renter profile: %w", err)
	}
	return string(b), nil
}
