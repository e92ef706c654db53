/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ton-faucet-go/internal/models"
	"ton-faucet-go/internal/store"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Compile-time check: *Service must satisfy store.Ledger.
var _ store.Ledger = (*Service)(nil)

type Service struct {
	db *sql.DB

	// now is swapped in tests to pin the quota window.
	now func() time.Time
}

func NewService(ctx context.Context, cfg models.DatabaseConfig) (*Service, error) {
	// Validate configuration
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if cfg.MaxOpenConns <= 0 {
		return nil, fmt.Errorf("max open connections must be positive, got %d", cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns < 0 {
		return nil, fmt.Errorf("max idle connections cannot be negative, got %d", cfg.MaxIdleConns)
	}
	if cfg.PingTimeout <= 0 {
		return nil, fmt.Errorf("ping timeout must be positive, got %v", cfg.PingTimeout)
	}

	zap.L().Info("Opening SQLite database", zap.String("file", cfg.Path))
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=1000")
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	// Set connection timeouts and limits
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test connection with timeout
	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, closeErr
		}
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	service := &Service{db: db, now: time.Now}
	if err := service.initSchema(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, closeErr
		}
		return nil, fmt.Errorf("unable to initialize schema: %w", err)
	}

	zap.L().Info("Database service initialized successfully")
	return service, nil
}

func (s *Service) Close() {
	if err := s.db.Close(); err != nil {
		zap.L().Warn("Failed to close database connection", zap.Error(err))
	}
}

func (s *Service) initSchema() error {
	schema := `
	-- Append-only log of distribution attempts
	CREATE TABLE IF NOT EXISTS user_requests (
		id TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		username TEXT,
		ton_address TEXT NOT NULL,
		tokens_amount INTEGER NOT NULL,
		request_date TIMESTAMP NOT NULL,
		success BOOLEAN NOT NULL,
		tx_hash TEXT,
		error_message TEXT
	);

	-- Per-address aggregate over successful distributions
	CREATE TABLE IF NOT EXISTS address_history (
		ton_address TEXT PRIMARY KEY,
		first_request_date TIMESTAMP NOT NULL,
		last_request_date TIMESTAMP NOT NULL,
		total_requests INTEGER NOT NULL DEFAULT 1,
		total_tokens_received INTEGER NOT NULL DEFAULT 0
	);

	-- Index for per-user quota lookups
	CREATE INDEX IF NOT EXISTS idx_user_requests_user_id ON user_requests(user_id);
	-- Index for the quota window scan
	CREATE INDEX IF NOT EXISTS idx_user_requests_date ON user_requests(request_date);
	-- Index for per-address lookups in the attempt log
	CREATE INDEX IF NOT EXISTS idx_user_requests_address ON user_requests(ton_address);
	`

	_, err := s.db.Exec(schema)
	return err
}

// startOfToday returns local midnight, the lower bound of the quota window.
func (s *Service) startOfToday() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
