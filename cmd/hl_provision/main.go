// Command hl_provision bootstraps a household and its first administrator.
// It is safe to run repeatedly: an existing admin with the same email is left untouched.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/SscSPs/household_ledger/internal/core/domain"
	"github.com/SscSPs/household_ledger/internal/core/services"
	"github.com/SscSPs/household_ledger/internal/dto"
	"github.com/SscSPs/household_ledger/internal/platform/config"
	"github.com/SscSPs/household_ledger/internal/platform/migrations"
	"github.com/SscSPs/household_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/household_ledger/internal/utils"
	"github.com/SscSPs/household_ledger/pkg/database"
	"github.com/SscSPs/household_ledger/pkg/logging"
	flag "github.com/spf13/pflag"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	household := flag.String("household", cfg.ProvisionHouseholdName, "household name")
	name := flag.String("name", cfg.ProvisionAdminName, "admin display name")
	email := flag.String("email", cfg.ProvisionAdminEmail, "admin email")
	password := flag.String("password", cfg.ProvisionAdminPassword, "admin password (min 8 characters)")
	skipMigrations := flag.Bool("skip-migrations", false, "do not apply pending migrations first")
	printToken := flag.Bool("print-token", false, "print a development JWT for the admin")
	flag.Parse()

	logger := logging.New(cfg.LogLevel, cfg.IsProduction)
	if err := run(context.Background(), cfg, logger, dto.ProvisionAdminRequest{
		HouseholdName: *household,
		Name:          *name,
		Email:         *email,
		Password:      *password,
	}, !*skipMigrations, *printToken); err != nil {
		logger.Error("Provisioning failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, req dto.ProvisionAdminRequest, migrate, printToken bool) error {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	if migrate {
		if _, err := migrations.Up(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			return err
		}
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, true)
	if err != nil {
		return err
	}
	defer database.ClosePgxPool(dbPool)

	repos := pgsql.NewRepositoryProvider(dbPool)
	memberService := services.NewMemberService(repos.MemberRepo)

	admin, created, err := memberService.ProvisionAdmin(ctx, req)
	if err != nil {
		return err
	}
	if created {
		logger.Info("Admin created", slog.String("member_id", admin.MemberID), slog.String("household_id", admin.HouseholdID))
	} else {
		logger.Info("Admin already exists, nothing to do", slog.String("member_id", admin.MemberID))
	}

	if printToken {
		actor := domain.Actor{MemberID: admin.MemberID, HouseholdID: admin.HouseholdID, Role: admin.Role}
		token, err := utils.GenerateJWT(actor, cfg.JWTSecret, cfg.JWTExpiryDuration, cfg.JWTIssuer)
		if err != nil {
			return fmt.Errorf("failed to sign token: %w", err)
		}
		fmt.Println(token)
	}
	return nil
}
