package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"learn-assist/cmd/seed_accounts/internal/seedmodels"
	"learn-assist/internal/config"
	"learn-assist/internal/database"
	"learn-assist/internal/domain"
	"learn-assist/internal/logger"
	"learn-assist/internal/repository"
	"learn-assist/internal/util"

	"go.uber.org/zap"
)

const defaultSeedFile = "cmd/seed_accounts/demo_accounts.json"

func main() {
	seedFile := flag.String("file", defaultSeedFile, "path to the demo accounts JSON file")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	db, err := database.NewSQLXDB(cfg.DB.Driver, cfg.GetDSN())
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	if err := database.RunMigrations(ctx, db.DB, cfg.DB.Driver); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	seeds, err := readSeeds(*seedFile)
	if err != nil {
		log.Fatal("Failed to load seed file", zap.String("path", *seedFile), zap.Error(err))
	}
	log.Info("Loaded seed accounts", zap.Int("count", len(seeds)))

	s := &seeder{
		accounts: repository.NewSQLXAccountRepository(db),
		tx:       repository.NewTransactionManagerAdapter(db),
		hash:     util.HashPassword,
		log:      log,
	}
	created, err := s.seed(ctx, seeds)
	if err != nil {
		log.Fatal("Seeding failed, transaction rolled back", zap.Error(err))
	}
	log.Info("Account seeding completed", zap.Int("created", created), zap.Int("skipped", len(seeds)-created))
}

func readSeeds(path string) ([]seedmodels.SeedAccount, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var seeds []seedmodels.SeedAccount
	if err := json.Unmarshal(raw, &seeds); err != nil {
		return nil, fmt.Errorf("failed to decode seed accounts: %w", err)
	}
	return seeds, nil
}

type seeder struct {
	accounts domain.AccountRepository
	tx       domain.TransactionManager
	hash     func(string) (string, error)
	log      *zap.Logger
}

// seed inserts every account that does not exist yet, all in one transaction.
func (s *seeder) seed(ctx context.Context, seeds []seedmodels.SeedAccount) (int, error) {
	created := 0
	err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		for _, sa := range seeds {
			account, err := toAccount(sa, s.hash)
			if err != nil {
				return err
			}
			existing, err := s.accounts.GetAccountByEmail(txCtx, account.Email)
			if err != nil {
				return fmt.Errorf("error checking account %s: %w", account.Email, err)
			}
			if existing != nil {
				s.log.Info("Account exists.", zap.String("email", account.Email))
				continue
			}
			if err := s.accounts.CreateAccount(txCtx, account); err != nil {
				return fmt.Errorf("failed to create account %s: %w", account.Email, err)
			}
			created++
			s.log.Info("Created account.", zap.String("id", account.ID), zap.String("email", account.Email))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

func toAccount(sa seedmodels.SeedAccount, hash func(string) (string, error)) (*domain.Account, error) {
	occupation := domain.Occupation(sa.Occupation)
	if !occupation.Valid() {
		return nil, fmt.Errorf("account %s: unknown occupation %q", sa.Email, sa.Occupation)
	}
	level := domain.EducationLevel(sa.EducationLevel)
	if level != "" && !level.Valid() {
		return nil, fmt.Errorf("account %s: unknown education level %q", sa.Email, sa.EducationLevel)
	}
	if sa.Password == "" {
		return nil, fmt.Errorf("account %s: password is empty", sa.Email)
	}
	passwordHash, err := hash(sa.Password)
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", sa.Email, err)
	}
	return &domain.Account{
		Email:          sa.Email,
		FullName:       sa.FullName,
		Phone:          sa.Phone,
		PasswordHash:   passwordHash,
		Occupation:     occupation,
		EducationLevel: level,
		CollegeDegree:  sa.CollegeDegree,
	}, nil
}
