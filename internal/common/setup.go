package common

import (
	"context"
	"log"
	"strings"

	"ton-faucet-go/internal/database"
	"ton-faucet-go/internal/faucet"
	"ton-faucet-go/internal/models"
	"ton-faucet-go/internal/signer"
	"ton-faucet-go/internal/toncenter"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// init loads environment variables from .env file if it exists
func init() {
	// Try to load .env file - if it doesn't exist, that's okay
	// Environment variables can be set via other means (shell export, docker, etc.)
	if err := godotenv.Load(); err != nil {
		// Only log if the file exists but couldn't be read
		// (godotenv returns an error if .env doesn't exist)
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
		log.Println("Make sure to set environment variables via export or other means")
	} else {
		log.Println("Loaded environment variables from .env file")
	}
}

type Services struct {
	DbService     *database.Service
	FaucetService *faucet.Service
	Jetton        models.Jetton
}

func InitializeLogger() (*zap.Logger, func()) {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

func InitializeServices(ctx context.Context, cfg *models.Config) (*Services, error) {
	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	jetton, err := LoadJetton(cfg)
	if err != nil {
		dbService.Close()
		return nil, err
	}
	zap.L().Info("Distributing jetton",
		zap.String("symbol", jetton.Symbol),
		zap.String("master_address", jetton.MasterAddress))

	balanceClient, err := toncenter.NewClient(cfg.Toncenter, jetton)
	if err != nil {
		dbService.Close()
		return nil, err
	}

	senderClient, err := signer.NewClient(cfg.Signer, jetton)
	if err != nil {
		dbService.Close()
		return nil, err
	}

	gate := faucet.NewGate(cfg.Faucet.BusyWindow)
	faucetService := faucet.NewService(dbService, balanceClient, senderClient, gate, cfg.Faucet, jetton)

	return &Services{
		DbService:     dbService,
		FaucetService: faucetService,
		Jetton:        jetton,
	}, nil
}

// InitializeDatabaseOnly initializes just the ledger without the external
// adapters. Useful for read-only operations like printing statistics.
func InitializeDatabaseOnly(ctx context.Context, cfg *models.Config) (*database.Service, error) {
	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	return dbService, nil
}

func (cs *Services) Close() {
	if cs.DbService != nil {
		cs.DbService.Close()
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
