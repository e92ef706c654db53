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

package faucet

import (
	"context"

	"ton-faucet-go/internal/models"
	"ton-faucet-go/internal/store"

	"go.uber.org/zap"
)

// BalanceSource answers jetton balance queries for arbitrary addresses.
// "No wallet found" is not an error: it means a balance of zero.
type BalanceSource interface {
	GetJettonBalance(ctx context.Context, ownerAddress, jettonMaster string) (int64, error)
}

// TokenSender submits signed jetton transfers and reports the faucet wallet's
// own balance.
type TokenSender interface {
	SendTokens(ctx context.Context, recipientAddress string, amount int64) (string, error)
	JettonBalance(ctx context.Context) (int64, error)
}

// Service runs the admission-control pipeline: ordered precondition checks
// under a single-flight gate, with every transfer-stage outcome recorded in
// the ledger.
type Service struct {
	ledger   store.Ledger
	balances BalanceSource
	sender   TokenSender
	gate     *Gate
	cfg      models.FaucetConfig
	jetton   models.Jetton
}

func NewService(ledger store.Ledger, balances BalanceSource, sender TokenSender, gate *Gate, cfg models.FaucetConfig, jetton models.Jetton) *Service {
	return &Service{
		ledger:   ledger,
		balances: balances,
		sender:   sender,
		gate:     gate,
		cfg:      cfg,
		jetton:   jetton,
	}
}

// RequestTokens runs one distribution attempt end-to-end. The stages are
// strictly ordered; each either advances or terminates the attempt with a
// tagged Result. Only the transfer stage leaves a ledger record: earlier
// rejections never reached a transfer decision.
func (s *Service) RequestTokens(ctx context.Context, userId int64, username, rawAddress string) (res Result) {
	if !s.gate.TryAcquire() {
		zap.L().Warn("Concurrent request rejected, gate busy", zap.Int64("user_id", userId))
		return Result{Outcome: OutcomeBusy}
	}
	defer s.gate.Release()

	// The gate must be released even if a stage panics; no error or panic
	// escapes RequestTokens.
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("Panic inside request pipeline", zap.Any("panic", r), zap.Int64("user_id", userId))
			res = Result{Outcome: OutcomeServiceUnavailable}
		}
	}()

	address := NormalizeAddress(rawAddress)
	if !ValidAddress(address) {
		zap.L().Warn("Invalid TON address", zap.Int64("user_id", userId), zap.String("ton_address", address))
		return Result{Outcome: OutcomeInvalidAddress, TonAddress: address}
	}

	count, err := s.ledger.CountSuccessfulToday(ctx, userId)
	if err != nil {
		zap.L().Error("Quota lookup failed", zap.Int64("user_id", userId), zap.Error(err))
		return Result{Outcome: OutcomeStorageError, Reason: err.Error()}
	}
	remaining := s.cfg.MaxRequestsPerDay - count
	if remaining <= 0 {
		zap.L().Warn("Daily limit reached", zap.Int64("user_id", userId), zap.Int("requests_today", count))
		return Result{Outcome: OutcomeLimitReached, MaxPerDay: s.cfg.MaxRequestsPerDay}
	}

	balance, err := s.balances.GetJettonBalance(ctx, address, s.jetton.MasterAddress)
	if err != nil {
		zap.L().Error("Recipient balance check failed", zap.String("ton_address", address), zap.Error(err))
		return Result{Outcome: OutcomeServiceUnavailable, Reason: err.Error()}
	}
	if balance > 0 {
		zap.L().Warn("Address already holds tokens",
			zap.String("ton_address", address),
			zap.Int64("balance", balance))
		return Result{Outcome: OutcomeAlreadyFunded, TonAddress: address}
	}

	// Sender-liquidity check is advisory only: a failed lookup or a low
	// balance is logged but never blocks the transfer.
	if senderBalance, err := s.sender.JettonBalance(ctx); err != nil {
		zap.L().Warn("Could not check sender balance", zap.Error(err))
	} else if senderBalance < s.cfg.MinSenderBalance {
		zap.L().Warn("Sender wallet balance below threshold",
			zap.Int64("balance", senderBalance),
			zap.Int64("threshold", s.cfg.MinSenderBalance))
	}

	txHash, err := s.sender.SendTokens(ctx, address, s.cfg.TokensAmount)
	if err != nil {
		zap.L().Error("Token transfer failed", zap.String("ton_address", address), zap.Error(err))
		if recErr := s.recordAttempt(ctx, userId, username, address, false, "", err.Error()); recErr != nil {
			return Result{Outcome: OutcomeStorageError, Reason: recErr.Error()}
		}
		return Result{
			Outcome:    OutcomeTransferFailed,
			Amount:     s.cfg.TokensAmount,
			TonAddress: address,
			Reason:     err.Error(),
		}
	}

	if recErr := s.recordAttempt(ctx, userId, username, address, true, txHash, ""); recErr != nil {
		// The transfer went out but the ledger write failed. Surface it
		// loudly; the caller cannot tell this apart from a failed transfer
		// otherwise, and the quota undercounts until the operator intervenes.
		zap.L().Error("Transfer succeeded but could not be recorded",
			zap.Int64("user_id", userId),
			zap.String("ton_address", address),
			zap.String("tx_hash", txHash),
			zap.Error(recErr))
		return Result{Outcome: OutcomeStorageError, TxHash: txHash, Reason: recErr.Error()}
	}

	if updated, err := s.ledger.RemainingQuota(ctx, userId, s.cfg.MaxRequestsPerDay); err != nil {
		zap.L().Warn("Could not recompute remaining quota", zap.Int64("user_id", userId), zap.Error(err))
		remaining--
	} else {
		remaining = updated
	}

	zap.L().Info("Tokens sent",
		zap.Int64("user_id", userId),
		zap.String("ton_address", address),
		zap.Int64("tokens_amount", s.cfg.TokensAmount),
		zap.String("tx_hash", txHash))

	return Result{
		Outcome:    OutcomeSuccess,
		Amount:     s.cfg.TokensAmount,
		TonAddress: address,
		TxHash:     txHash,
		Remaining:  remaining,
		MaxPerDay:  s.cfg.MaxRequestsPerDay,
	}
}

// Statistics returns the global counters plus the user's quota position.
func (s *Service) Statistics(ctx context.Context, userId int64) (models.StatsReport, error) {
	global, err := s.ledger.GlobalStatistics(ctx)
	if err != nil {
		return models.StatsReport{}, err
	}

	today, err := s.ledger.CountSuccessfulToday(ctx, userId)
	if err != nil {
		return models.StatsReport{}, err
	}

	return models.StatsReport{
		Global:        global,
		RequestsToday: today,
		Remaining:     s.cfg.MaxRequestsPerDay - today,
		MaxPerDay:     s.cfg.MaxRequestsPerDay,
		Jetton:        s.jetton,
	}, nil
}

func (s *Service) recordAttempt(ctx context.Context, userId int64, username, address string, success bool, txHash, errorMessage string) error {
	return s.ledger.RecordAttempt(ctx, store.AttemptParams{
		UserId:       userId,
		Username:     username,
		TonAddress:   address,
		TokensAmount: s.cfg.TokensAmount,
		Success:      success,
		TxHash:       txHash,
		ErrorMessage: errorMessage,
	})
}
