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

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"ton-faucet-go/internal/models"
)

func Load() (*models.Config, error) {
	connMaxLifetime, err := getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	connMaxIdleTime, err := getEnvDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Second)
	if err != nil {
		return nil, err
	}

	pingTimeout, err := getEnvDuration("DB_PING_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	busyWindow, err := getEnvDuration("BUSY_WINDOW", 10*time.Second)
	if err != nil {
		return nil, err
	}

	balanceTimeout, err := getEnvDuration("BALANCE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	transferTimeout, err := getEnvDuration("TRANSFER_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	return &models.Config{
		Database: models.DatabaseConfig{
			Path:            getEnvString("DATABASE_PATH", "faucet_bot.db"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: connMaxLifetime,
			ConnMaxIdleTime: connMaxIdleTime,
			PingTimeout:     pingTimeout,
		},
		Faucet: models.FaucetConfig{
			TokensAmount:      getEnvInt64("TOKENS_AMOUNT", 10000),
			MaxRequestsPerDay: getEnvInt("MAX_REQUESTS_PER_DAY", 3),
			MinSenderBalance:  getEnvInt64("MIN_SENDER_BALANCE", 10000),
			BusyWindow:        busyWindow,
			JettonFile:        getEnvString("JETTON_FILE", "jetton.yaml"),
			JettonContract:    getEnvString("JETTON_CONTRACT", "EQBajWYb-dNy0skElmij1onJjXk_ONCx_N1xBOyTaPaRvQ5r"),
		},
		Toncenter: models.ToncenterConfig{
			BaseURL:        getEnvString("TONCENTER_BASE_URL", "https://toncenter.com/api/v3"),
			APIKey:         getEnvString("TON_API_KEY", ""),
			RequestTimeout: balanceTimeout,
		},
		Signer: models.SignerConfig{
			BaseURL:        getEnvString("SIGNING_SERVICE_URL", "http://localhost:5000"),
			APIKey:         getEnvString("SIGNING_SERVICE_API_KEY", ""),
			SenderAddress:  getEnvString("SENDER_WALLET_ADDRESS", ""),
			RequestTimeout: transferTimeout,
		},
		Server: models.ServerConfig{
			ListenAddr:      getEnvString("LISTEN_ADDR", ":8080"),
			ShutdownTimeout: shutdownTimeout,
		},
	}, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %q (%w)", key, value, err)
		}
		return duration, nil
	}
	return defaultValue, nil
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
