package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ton-faucet-go/internal/models"
	"ton-faucet-go/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// storageError wraps a low-level failure so callers can match store.ErrStorage.
func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", store.ErrStorage, op, err)
}

// RecordAttempt appends one RequestRecord and, when the attempt succeeded,
// upserts the address aggregate. The insert and the upsert represent one
// logical event, so they commit or roll back together.
func (s *Service) RecordAttempt(ctx context.Context, params store.AttemptParams) error {
	if params.Success && params.TxHash == "" {
		return fmt.Errorf("successful attempt requires a transaction hash")
	}
	if params.Success && params.ErrorMessage != "" {
		return fmt.Errorf("successful attempt cannot carry an error message")
	}
	if !params.Success && params.ErrorMessage == "" {
		return fmt.Errorf("failed attempt requires an error message")
	}
	if !params.Success && params.TxHash != "" {
		return fmt.Errorf("failed attempt cannot carry a transaction hash")
	}

	now := s.now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageError("begin transaction", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, queryInsertRequest,
		uuid.New().String(), params.UserId, params.Username, params.TonAddress,
		params.TokensAmount, now, params.Success,
		nullable(params.TxHash), nullable(params.ErrorMessage))
	if err != nil {
		return storageError("insert request", err)
	}

	if params.Success {
		_, err = tx.ExecContext(ctx, queryUpsertAddressHistory,
			params.TonAddress, now, now, params.TokensAmount)
		if err != nil {
			return storageError("upsert address history", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storageError("commit", err)
	}

	zap.L().Info("Recorded distribution attempt",
		zap.Int64("user_id", params.UserId),
		zap.String("ton_address", params.TonAddress),
		zap.Int64("tokens_amount", params.TokensAmount),
		zap.Bool("success", params.Success))

	return nil
}

func (s *Service) CountSuccessfulToday(ctx context.Context, userId int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, queryCountSuccessfulToday, userId, s.startOfToday()).Scan(&count)
	if err != nil {
		return 0, storageError("count successful today", err)
	}
	return count, nil
}

func (s *Service) RemainingQuota(ctx context.Context, userId int64, maxPerDay int) (int, error) {
	count, err := s.CountSuccessfulToday(ctx, userId)
	if err != nil {
		return 0, err
	}
	return maxPerDay - count, nil
}

func (s *Service) GlobalStatistics(ctx context.Context) (models.GlobalStats, error) {
	var stats models.GlobalStats

	if err := s.db.QueryRowContext(ctx, queryCountSuccessful).Scan(&stats.TotalSuccessful); err != nil {
		return models.GlobalStats{}, storageError("count successful", err)
	}
	if err := s.db.QueryRowContext(ctx, querySumTokensDistributed).Scan(&stats.TotalTokens); err != nil {
		return models.GlobalStats{}, storageError("sum tokens distributed", err)
	}
	if err := s.db.QueryRowContext(ctx, queryCountUniqueUsers).Scan(&stats.UniqueUsers); err != nil {
		return models.GlobalStats{}, storageError("count unique users", err)
	}
	if err := s.db.QueryRowContext(ctx, queryCountUniqueAddresses).Scan(&stats.UniqueAddresses); err != nil {
		return models.GlobalStats{}, storageError("count unique addresses", err)
	}

	return stats, nil
}

func (s *Service) HasAddressReceived(ctx context.Context, tonAddress string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, queryCountAddressHistory, tonAddress).Scan(&count)
	if err != nil {
		return false, storageError("count address history", err)
	}
	return count > 0, nil
}

func (s *Service) AddressHistory(ctx context.Context, tonAddress string) (*models.AddressHistory, error) {
	var history models.AddressHistory
	err := s.db.QueryRowContext(ctx, queryGetAddressHistory, tonAddress).Scan(
		&history.TonAddress, &history.FirstRequestDate, &history.LastRequestDate,
		&history.TotalRequests, &history.TotalTokensReceived)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageError("get address history", err)
	}
	return &history, nil
}

// nullable stores empty strings as NULL so the exactly-one-of invariant on
// tx_hash/error_message is visible in the schema, not just in code.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
