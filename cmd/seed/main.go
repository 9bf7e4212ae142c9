// Package main seeds reference data: branches with their shift plans,
// the fuel type catalog and an initial admin account.
package main

import (
	"context"
	"fmt"
	"os"

	"stationops/internal/core/apperror"
	"stationops/internal/core/types"
	"stationops/internal/domain/auth"
	"stationops/internal/domain/catalogs/branch"
	"stationops/internal/domain/catalogs/fueltype"
	"stationops/internal/infrastructure/storage/postgres"
	"stationops/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)
	branchRepo := postgres.NewBranchRepository(txManager)
	fuelTypeRepo := postgres.NewFuelTypeRepository(txManager)
	userRepo := postgres.NewUserRepository(txManager)

	seedBranches(ctx, log, branchRepo)
	seedFuelTypes(ctx, log, fuelTypeRepo)
	seedAdmin(ctx, log, userRepo)

	log.Info("seed complete")
}

func seedBranches(ctx context.Context, log *logger.Logger, repo *postgres.BranchRepository) {
	branches := []*branch.Branch{
		newBranch("MAIN", "Main Station", "Cagayan de Oro City", nil),
		newBranch("BLGS", "Balingasag Station", "Balingasag, Misamis Oriental", branch.ShiftPlan{
			{Number: 1, Label: "Shift 1 (5:00 AM - 1:00 PM)", Start: "05:00", End: "13:00"},
			{Number: 2, Label: "Shift 2 (1:00 PM - 9:00 PM)", Start: "13:00", End: "21:00"},
			{Number: 3, Label: "Shift 3 (9:00 PM - 5:00 AM)", Start: "21:00", End: "05:00"},
		}),
	}

	for _, b := range branches {
		if err := repo.Create(ctx, b); err != nil {
			if apperror.IsConflict(err) {
				log.Infow("branch already exists", "code", b.Code)
				continue
			}
			log.Fatalw("failed to create branch", "code", b.Code, "error", err)
		}
		log.Infow("created branch", "code", b.Code, "name", b.Name)
	}
}

func newBranch(code, name, address string, shifts branch.ShiftPlan) *branch.Branch {
	b := branch.NewBranch(code, name)
	b.Address = address
	b.Shifts = shifts
	return b
}

func seedFuelTypes(ctx context.Context, log *logger.Logger, repo *postgres.FuelTypeRepository) {
	fuelTypes := []*fueltype.FuelType{
		fueltype.NewFuelType("DSL", "Diesel", types.MustMoney("60.00")),
		fueltype.NewFuelType("PREM", "Premium Gasoline", types.MustMoney("65.50")),
		fueltype.NewFuelType("REG", "Regular Gasoline", types.MustMoney("62.00")),
		fueltype.NewFuelType("KERO", "Kerosene", types.MustMoney("70.00")),
	}

	for _, ft := range fuelTypes {
		if err := repo.Create(ctx, ft); err != nil {
			if apperror.IsConflict(err) {
				log.Infow("fuel type already exists", "short_code", ft.ShortCode)
				continue
			}
			log.Fatalw("failed to create fuel type", "short_code", ft.ShortCode, "error", err)
		}
		log.Infow("created fuel type", "short_code", ft.ShortCode, "price", ft.CurrentPrice.String())
	}
}

func seedAdmin(ctx context.Context, log *logger.Logger, repo *postgres.UserRepository) {
	username := getEnv("ADMIN_USERNAME", "admin")
	password := getEnv("ADMIN_PASSWORD", "admin")

	user, err := auth.NewUser(username, "Administrator", "admin", password)
	if err != nil {
		log.Fatalw("failed to hash admin password", "error", err)
	}

	if err := repo.Create(ctx, user); err != nil {
		if apperror.IsConflict(err) {
			log.Infow("admin user already exists", "username", username)
			return
		}
		log.Fatalw("failed to create admin user", "error", err)
	}
	log.Infow("created admin user", "username", username)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
