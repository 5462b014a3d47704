// Command createadmin provisions an approved staff account.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"tutor-platform/internal/config"
	"tutor-platform/internal/infrastructure/database/postgres"
	"tutor-platform/internal/infrastructure/storage"
	"tutor-platform/internal/logger"
	"tutor-platform/internal/usecase/account"
	"tutor-platform/internal/usecase/auth"
	"tutor-platform/pkg/utils"
)

func main() {
	email := pflag.String("email", "", "admin email address (required)")
	password := pflag.String("password", "", "admin password; falls back to $ADMIN_PASSWORD")
	mobile := pflag.String("mobile", "", "optional mobile number")
	migrate := pflag.Bool("migrate", false, "apply the schema before creating the account")
	pflag.Parse()

	if *password == "" {
		*password = os.Getenv("ADMIN_PASSWORD")
	}
	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: createadmin --email <email> [--password <password>] [--mobile <number>]")
		pflag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Server.Environment); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to initialize logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	db, err := postgres.NewDB(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if *migrate {
		if err := db.Migrate(); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	accounts := postgres.NewAccountRepository(db)
	hasher := utils.NewBcryptHasher(cfg.Session.BcryptCost)
	authService := auth.NewService(
		accounts,
		postgres.NewSessionRepository(db),
		hasher,
		utils.SessionKeyGenerator{},
		utils.ResetTokenGenerator{},
		cfg.ResetToken,
	)
	service := account.NewService(
		accounts,
		postgres.NewProfileRepository(db),
		authService,
		hasher,
		storage.NewFileStore(cfg.Media.Root, cfg.Media.MaxBytes),
		nil,
		nil,
	)

	var mobileNumber *string
	if *mobile != "" {
		mobileNumber = mobile
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	admin, err := service.CreateAdmin(ctx, &account.CreateAdminRequest{
		Email:        *email,
		MobileNumber: mobileNumber,
		Password:     *password,
	})
	if err != nil {
		logger.Fatal("Failed to create admin", zap.Error(err))
	}

	fmt.Printf("Admin %s created with id %s\n", admin.Email, admin.ID)
}
