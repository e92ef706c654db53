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

// RequestRecord is one attempted token distribution. Records are append-only:
// written once at the end of an attempt and never mutated afterwards. Exactly
// one of TxHash and ErrorMessage is set, depending on Success.
type RequestRecord struct {
	Id           string
	UserId       int64
	Username     string
	TonAddress   string
	TokensAmount int64
	RequestDate  time.Time
	Success      bool
	TxHash       string
	ErrorMessage string
}

// AddressHistory is the per-address aggregate over successful distributions.
// A row exists iff the address received tokens at least once.
type AddressHistory struct {
	TonAddress          string
	FirstRequestDate    time.Time
	LastRequestDate     time.Time
	TotalRequests       int64
	TotalTokensReceived int64
}

// GlobalStats summarizes the whole ledger.
type GlobalStats struct {
	TotalSuccessful int64
	TotalTokens     int64
	UniqueUsers     int64
	UniqueAddresses int64
}

// StatsReport combines global counters with one user's quota position.
type StatsReport struct {
	Global        GlobalStats
	RequestsToday int
	Remaining     int
	MaxPerDay     int
	Jetton        Jetton
}

// Jetton describes the distributed token contract.
type Jetton struct {
	Symbol        string `yaml:"symbol"`
	MasterAddress string `yaml:"master_address"`
	Decimals      int    `yaml:"decimals"`
	ExplorerURL   string `yaml:"explorer_url"`
}
