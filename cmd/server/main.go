// Package main is the entry point for the StationOps API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stationops/internal/domain/accountability"
	"stationops/internal/domain/auth"
	"stationops/internal/domain/catalogs/branch"
	"stationops/internal/domain/catalogs/fueltype"
	"stationops/internal/domain/finance"
	"stationops/internal/domain/readings"
	v1 "stationops/internal/infrastructure/http/v1"
	"stationops/internal/infrastructure/http/v1/handlers"
	"stationops/internal/infrastructure/storage/postgres"
	"stationops/pkg/logger"
	"stationops/pkg/numerator"
)

func main() {
	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting stationops server")

	// --- Database ---
	dsn := mustEnv("DATABASE_URL")
	poolCfg := postgres.DefaultPoolConfig(dsn)
	if maxConns := getEnvInt("DB_MAX_CONNS", 25); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Repositories ---
	readingRepo := postgres.NewReadingRepository(txManager)
	fuelTypeRepo := postgres.NewFuelTypeRepository(txManager)
	branchRepo := postgres.NewBranchRepository(txManager)
	financeRepo := postgres.NewFinanceRepository(txManager)
	userRepo := postgres.NewUserRepository(txManager)

	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}

	numeratorService := numerator.New(pool)

	// --- Domain services ---
	fuelTypeService := fueltype.NewService(fuelTypeRepo, txManager, auditService)
	branchService := branch.NewService(branchRepo, txManager, auditService)
	readingService := readings.NewService(readingRepo, fuelTypeService, branchService, txManager, auditService)
	financeService := finance.NewService(financeRepo, numeratorService, txManager, auditService)
	accountabilityService := accountability.NewService(readingRepo, fuelTypeService, financeRepo)

	// --- Auth ---
	jwtSecret := getEnv("JWT_SECRET", "change-me-in-production")
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(jwtSecret))
	authService := auth.NewService(userRepo, jwtService, auditService)

	// --- Router ---
	base := handlers.NewBaseHandler()
	router := v1.NewRouter(log, jwtService, v1.Handlers{
		Health:   handlers.NewHealthHandler(pool.Unwrap()),
		Auth:     handlers.NewAuthHandler(base, authService),
		Readings: handlers.NewReadingHandler(base, readingService),
		FuelType: handlers.NewFuelTypeHandler(base, fuelTypeService),
		Branch:   handlers.NewBranchHandler(base, branchService),
		Finance:  handlers.NewFinanceHandler(base, financeService),
		Reports:  handlers.NewReportsHandler(base, accountabilityService),
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
