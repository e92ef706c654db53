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

package main

import (
	"context"
	"flag"
	"fmt"

	"ton-faucet-go/internal/common"
	"ton-faucet-go/internal/config"

	"go.uber.org/zap"
)

func main() {
	userId := flag.Int64("user", 0, "Optional user id to include a per-user quota report")
	address := flag.String("address", "", "Optional TON address to include its distribution history")
	flag.Parse()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx := context.Background()

	dbService, err := common.InitializeDatabaseOnly(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbService.Close()

	stats, err := dbService.GlobalStatistics(ctx)
	if err != nil {
		zap.L().Fatal("Failed to load statistics", zap.Error(err))
	}

	common.PrintHeader("Faucet Statistics", common.DefaultWidth)
	fmt.Printf("Total tokens distributed : %d\n", stats.TotalTokens)
	fmt.Printf("Successful transactions  : %d\n", stats.TotalSuccessful)
	fmt.Printf("Unique users             : %d\n", stats.UniqueUsers)
	fmt.Printf("Unique addresses         : %d\n", stats.UniqueAddresses)

	if *userId != 0 {
		today, err := dbService.CountSuccessfulToday(ctx, *userId)
		if err != nil {
			zap.L().Fatal("Failed to load user statistics", zap.Error(err))
		}
		remaining, err := dbService.RemainingQuota(ctx, *userId, cfg.Faucet.MaxRequestsPerDay)
		if err != nil {
			zap.L().Fatal("Failed to compute remaining quota", zap.Error(err))
		}
		common.PrintSeparator("-", common.DefaultWidth)
		fmt.Printf("User %d requests today   : %d of %d\n", *userId, today, cfg.Faucet.MaxRequestsPerDay)
		fmt.Printf("Remaining requests       : %d\n", remaining)
	}

	if *address != "" {
		history, err := dbService.AddressHistory(ctx, *address)
		if err != nil {
			zap.L().Fatal("Failed to load address history", zap.Error(err))
		}
		common.PrintSeparator("-", common.DefaultWidth)
		if history == nil {
			fmt.Printf("Address %s never received tokens\n", *address)
		} else {
			fmt.Printf("Address                  : %s\n", history.TonAddress)
			fmt.Printf("First request            : %s\n", history.FirstRequestDate.Format("2006-01-02 15:04:05"))
			fmt.Printf("Last request             : %s\n", history.LastRequestDate.Format("2006-01-02 15:04:05"))
			fmt.Printf("Total requests           : %d\n", history.TotalRequests)
			fmt.Printf("Total tokens received    : %d\n", history.TotalTokensReceived)
		}
	}

	common.PrintFooter("Done", common.DefaultWidth)
}
