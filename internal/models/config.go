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

package models

import "time"

// Config represents the application configuration
type Config struct {
	Database  DatabaseConfig
	Faucet    FaucetConfig
	Toncenter ToncenterConfig
	Signer    SignerConfig
	Server    ServerConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// FaucetConfig holds distribution policy settings
type FaucetConfig struct {
	TokensAmount      int64
	MaxRequestsPerDay int
	MinSenderBalance  int64
	BusyWindow        time.Duration
	JettonFile        string
	JettonContract    string
}

// ToncenterConfig holds settings for the toncenter balance API
type ToncenterConfig struct {
	BaseURL        string
	APIKey         string
	RequestTimeout time.Duration
}

// SignerConfig holds settings for the external signing service
type SignerConfig struct {
	BaseURL        string
	APIKey         string
	SenderAddress  string
	RequestTimeout time.Duration
}

// ServerConfig holds HTTP front-end settings
type ServerConfig struct {
	ListenAddr      string
	ShutdownTimeout time.Duration
}
