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

const (
	// Attempt log queries
	queryInsertRequest = `
		INSERT INTO user_requests
		(id, user_id, username, ton_address, tokens_amount, request_date, success, tx_hash, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryCountSuccessfulToday = `
		SELECT COUNT(*) FROM user_requests
		WHERE user_id = ? AND success = 1 AND request_date >= ?`

	// Address aggregate queries
	queryUpsertAddressHistory = `
		INSERT INTO address_history
		(ton_address, first_request_date, last_request_date, total_requests, total_tokens_received)
		VALUES (?, ?, ?, 1, ?)
		ON CONFLICT(ton_address) DO UPDATE SET
			last_request_date = excluded.last_request_date,
			total_requests = total_requests + 1,
			total_tokens_received = total_tokens_received + excluded.total_tokens_received`

	queryGetAddressHistory = `
		SELECT ton_address, first_request_date, last_request_date, total_requests, total_tokens_received
		FROM address_history
		WHERE ton_address = ?`

	queryCountAddressHistory = `
		SELECT COUNT(*) FROM address_history WHERE ton_address = ?`

	// Statistics queries
	queryCountSuccessful = `
		SELECT COUNT(*) FROM user_requests WHERE success = 1`

	querySumTokensDistributed = `
		SELECT COALESCE(SUM(tokens_amount), 0) FROM user_requests WHERE success = 1`

	queryCountUniqueUsers = `
		SELECT COUNT(DISTINCT user_id) FROM user_requests WHERE success = 1`

	queryCountUniqueAddresses = `
		SELECT COUNT(*) FROM address_history`
)
