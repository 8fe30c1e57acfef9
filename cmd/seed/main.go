package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/rentalconnect/rentalconnect/internal/dbx"
	"github.com/rentalconnect/rentalconnect/internal/domain"
	"github.com/rentalconnect/rentalconnect/internal/infrastructure/logger"
	"github.com/rentalconnect/rentalconnect/internal/reliability/retry"
	"github.com/rentalconnect/rentalconnect/internal/repository"
	"github.com/rentalconnect/rentalconnect/internal/security/auth"
	"github.com/rentalconnect/rentalconnect/pkg/config"
	"github.com/rentalconnect/rentalconnect/pkg/database"
)

// seedPassword is shared by every demo account
const seedPassword = "password123"

func main() {
	reset := flag.Bool("reset", false, "truncate all tables before seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.NewLogger(cfg.LogLevel)

	if err := run(context.Background(), cfg, *reset, log); err != nil {
		log.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, reset bool, log *slog.Logger) error {
	if cfg.StoreDriver != config.StoreDriverPostgres {
		return fmt.Errorf("seeding needs STORE_DRIVER=postgres, got %q", cfg.StoreDriver)
	}

	pool, err := retry.Do(ctx, retry.DefaultConfig(), log, "connect postgres",
		func(ctx context.Context) (*database.ConnectionPool, error) {
			return database.NewConnectionPool(ctx, cfg.Database, log)
		})
	if err != nil {
		return err
	}
	defer pool.Close()

	db := pool.GetDB()
	if err := database.Migrate(ctx, db); err != nil {
		return err
	}
	if reset {
		if err := database.Reset(ctx, db); err != nil {
			return err
		}
		log.Info("cleared existing data")
	}

	hasher, err := auth.NewHasher(cfg.BcryptCost)
	if err != nil {
		return err
	}

	// one transaction so a failed seed leaves nothing behind
	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return seed(ctx,
			repository.NewPostgresAccountRepository(tx, log),
			repository.NewPostgresListingRepository(tx, log),
			hasher, log)
	})
}

// seed writes the demo accounts and listings through the repositories.
// Renter feedback aggregates are set here because no API operation writes them.
func seed(ctx context.Context, accounts domain.AccountRepository, listingRepo domain.ListingRepository, hasher *auth.Hasher, log *slog.Logger) error {
	hash, err := hasher.Hash(seedPassword)
	if err != nil {
		return err
	}

	ids := map[string]string{}
	create := func(sa seedAccount, role domain.Role) error {
		a := sa.account
		a.ID = uuid.NewString()
		a.PasswordHash = hash
		a.Role = role
		a.Verified = true
		if role == domain.RoleRenter && a.RenterProfile == nil {
			a.RenterProfile = &domain.RenterProfile{}
		}
		if err := accounts.Create(ctx, &a); err != nil {
			return fmt.Errorf("create %s: %w", a.Email, err)
		}
		ids[sa.key] = a.ID
		return nil
	}

	for _, sa := range landlords {
		if err := create(sa, domain.RoleLandlord); err != nil {
			return err
		}
	}
	log.Info("created landlords", slog.Int("count", len(landlords)))

	for _, sa := range renters {
		if err := create(sa, domain.RoleRenter); err != nil {
			return err
		}
	}
	log.Info("created renters", slog.Int("count", len(renters)))

	for _, sl := range listings {
		l := sl.listing
		l.ID = uuid.NewString()
		l.LandlordID = ids[sl.landlordKey]
		l.Address.Country = domain.DefaultCountry
		l.Available = true
		if l.Amenities == nil {
			l.Amenities = []string{}
		}
		if l.Images == nil {
			l.Images = []string{}
		}
		if err := listingRepo.Create(ctx, &l); err != nil {
			return fmt.Errorf("create listing %q: %w", l.Title, err)
		}
	}
	log.Info("created properties", slog.Int("count", len(listings)))

	log.Info("database seeded",
		slog.String("landlord_login", landlords[0].account.Email),
		slog.String("renter_login", renters[0].account.Email),
		slog.String("password", seedPassword),
	)
	return nil
}
