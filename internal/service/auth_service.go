package service

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/rentalconnect/rentalconnect/internal/domain"
	"github.com/rentalconnect/rentalconnect/internal/observability/metrics"
	"github.com/rentalconnect/rentalconnect/internal/security/auth"
)

const (
	minPasswordLength = 8
	// bcrypt ignores input past 72 bytes
	maxPasswordLength = 72
)

// AuthService owns account creation and credential verification
type AuthService struct {
	accounts domain.AccountRepository
	hasher   *auth.Hasher
	tokens   *auth.TokenManager
	logger   *slog.Logger
	newID    func() string
}

// NewAuthService creates a new authentication service
func NewAuthService(
	accounts domain.AccountRepository,
	hasher *auth.Hasher,
	tokens *auth.TokenManager,
	logger *slog.Logger,
) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthService{
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger,
		newID:    uuid.NewString,
	}
}

// RegisterInput is the registration payload
type RegisterInput struct {
	Email     string
	Password  string
	Role      domain.Role
	FirstName string
	LastName  string
}

// UserSummary is the account echo returned with a token
type UserSummary struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
}

// AuthResult is returned by register and login
type AuthResult struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

// NormalizeEmail trims and lower-cases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register validates input, rejects a taken email and stores a salted hash
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	account, err := s.create(ctx, in)
	if err != nil {
		metrics.ObserveAuth("register", resultOf(err))
		return nil, err
	}

	result, err := s.issue(account)
	if err != nil {
		return nil, err
	}
	metrics.ObserveAuth("register", metrics.ResultOK)
	s.logger.Info("account registered",
		slog.String("account_id", account.ID),
		slog.String("role", string(account.Role)),
	)
	return result, nil
}

func (s *AuthService) create(ctx context.Context, in RegisterInput) (*domain.Account, error) {
	email := NormalizeEmail(in.Email)
	if err := validateRegistration(email, in); err != nil {
		return nil, err
	}

	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, surface(s.logger, "lookup account", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, surface(s.logger, "hash password", err)
	}

	account := &domain.Account{
		ID:           s.newID(),
		Email:        email,
		PasswordHash: hash,
		Role:         in.Role,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
	}
	if account.Role == domain.RoleRenter {
		account.RenterProfile = &domain.RenterProfile{}
	}

	// the unique index still catches a concurrent registration of the same email
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, surface(s.logger, "create account", err)
	}
	return account, nil
}

func validateRegistration(email string, in RegisterInput) error {
	if email == "" {
		return domain.Invalid("email", "email is required")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return domain.Invalid("email", "email is invalid")
	}
	if len(in.Password) < minPasswordLength {
		return domain.Invalid("password", "password must be at least 8 characters")
	}
	if len(in.Password) > maxPasswordLength {
		return domain.Invalid("password", "password must be at most 72 bytes")
	}
	if !in.Role.Valid() {
		return domain.Invalid("role", "role must be landlord or renter")
	}
	if strings.TrimSpace(in.FirstName) == "" {
		return domain.Invalid("firstName", "first name is required")
	}
	if strings.TrimSpace(in.LastName) == "" {
		return domain.Invalid("lastName", "last name is required")
	}
	return nil
}

// Verify checks credentials. An unknown email and a wrong password return the
// same domain.ErrInvalidCredentials and cost the same bcrypt work.
func (s *AuthService) Verify(ctx context.Context, email, password string) (*domain.Account, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.Invalid("credentials", "email and password are required")
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.hasher.CompareDummy(password)
			s.logger.Info("login attempt with unknown email", slog.String("email", email))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, surface(s.logger, "lookup account", err)
	}

	ok, err := s.hasher.Compare(account.PasswordHash, password)
	if err != nil {
		return nil, surface(s.logger, "compare password", err)
	}
	if !ok {
		s.logger.Info("login failed with wrong password", slog.String("email", email))
		return nil, domain.ErrInvalidCredentials
	}
	return account, nil
}

// Login verifies credentials and issues a token
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	account, err := s.Verify(ctx, email, password)
	if err != nil {
		metrics.ObserveAuth("login", resultOf(err))
		return nil, err
	}

	result, err := s.issue(account)
	if err != nil {
		return nil, err
	}
	metrics.ObserveAuth("login", metrics.ResultOK)
	s.logger.Info("account logged in", slog.String("account_id", account.ID))
	return result, nil
}

func (s *AuthService) issue(account *domain.Account) (*AuthResult, error) {
	token, err := s.tokens.Issue(account.ID, account.Role)
	if err != nil {
		return nil, surface(s.logger, "issue token", err)
	}
	return &AuthResult{
		Token: token,
		User: UserSummary{
			ID:        account.ID,
			Email:     account.Email,
			Role:      account.Role,
			FirstName: account.FirstName,
			LastName:  account.LastName,
		},
	}, nil
}

func resultOf(err error) string {
	if errors.Is(err, domain.ErrInternal) {
		return metrics.ResultError
	}
	return metrics.ResultRejected
}
